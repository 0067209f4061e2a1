package core

// MatchContext 承载一次查询的参数与解析出的截止列，贯穿整个 Pipeline 透传。
type MatchContext struct {
	Query  *EligibilityQuery
	Column Column

	// Params 请求级附加参数（可选），例如调试开关；CEL 规则中可通过 query.params 访问
	Params map[string]any
}

// NewMatchContext 创建查询上下文。
func NewMatchContext(q *EligibilityQuery, col Column) *MatchContext {
	return &MatchContext{Query: q, Column: col}
}
