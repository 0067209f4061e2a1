package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/admitkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("offering", cel.DynType),
		cel.Variable("query", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译后的规则表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可被多个查询并发求值。
//
// 可用变量：
//   - offering.institute / offering.place / offering.branch
//   - offering.cutoff（解析列上的截止排名）/ offering.has_cutoff
//   - offering.cutoffs["oc_boys"]
//   - query.rank / query.category / query.gender / query.branch / query.column
//   - query.max_results / query.preferred_places / query.params
//
// 示例：
//   - `offering.place != "Hyderabad"`
//   - `offering.cutoff - query.rank <= 20000`
//   - `offering.institute.contains("JNTU")`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string {
	return p.expr
}

// Evaluate 对一个候选求值，返回布尔结果。
func (p *Program) Evaluate(mctx *core.MatchContext, cand *core.Candidate) (bool, error) {
	out, _, err := p.prg.Eval(BuildInput(mctx, cand))
	if err != nil {
		// 访问不存在的 key 时 CEL 会返回错误，规则中应先用 `in` 判断存在性
		return false, fmt.Errorf("eval error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// BuildInput 构建 CEL 表达式的输入数据
func BuildInput(mctx *core.MatchContext, cand *core.Candidate) map[string]interface{} {
	offering := map[string]interface{}{}
	if cand != nil {
		cutoffs := make(map[string]interface{})
		for k, v := range cand.Offering.Cutoffs() {
			cutoffs[string(k)] = int64(v)
		}
		offering = map[string]interface{}{
			"institute":  cand.Offering.Institute,
			"place":      cand.Offering.Place,
			"branch":     cand.Offering.Branch,
			"cutoff":     int64(cand.Cutoff),
			"has_cutoff": cand.HasCutoff,
			"cutoffs":    cutoffs,
		}
	}

	query := map[string]interface{}{}
	if mctx != nil {
		query["column"] = string(mctx.Column)
		params := map[string]interface{}{}
		for k, v := range mctx.Params {
			params[k] = v
		}
		query["params"] = params
		if q := mctx.Query; q != nil {
			places := make([]interface{}, 0, len(q.PreferredPlaces))
			for _, p := range q.PreferredPlaces {
				places = append(places, p)
			}
			query["rank"] = int64(q.Rank)
			query["category"] = string(q.Category)
			query["gender"] = string(q.Gender)
			query["branch"] = q.Branch
			query["max_results"] = int64(q.MaxResults)
			query["preferred_places"] = places
		}
	}

	return map[string]interface{}{
		"offering": offering,
		"query":    query,
	}
}
