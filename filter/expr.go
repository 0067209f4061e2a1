package filter

import (
	"context"

	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/pkg/dsl"
)

// ExprFilter 是基于 CEL 规则的过滤器：表达式为 true 时保留，为 false 时过滤。
// 求值出错时返回 error，由 FilterNode 记录并保留该候选，所以出错的规则等于不生效。
// 规则应写成对任何数据行都能求值，例如访问可能缺失的列前先用 has() 判断：
// `!has(offering.cutoffs.st_boys) || offering.cutoffs.st_boys > 1000`。
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译规则并创建过滤器。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{program: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

// Expr 返回规则表达式。
func (f *ExprFilter) Expr() string {
	return f.program.String()
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	mctx *core.MatchContext,
	cand *core.Candidate,
) (bool, error) {
	if cand == nil {
		return true, nil
	}
	keep, err := f.program.Evaluate(mctx, cand)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
