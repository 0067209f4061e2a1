package filter

import (
	"context"

	"github.com/rushteam/admitkit/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
// 过滤器只读数据表，不得修改候选的 Offering。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断候选是否应该被过滤
	ShouldFilter(ctx context.Context, mctx *core.MatchContext, cand *core.Candidate) (bool, error)
}

// DefaultFilters 返回资格判断的标准过滤器组合：专业 → 截止排名 → 地点。
func DefaultFilters() []Filter {
	return []Filter{
		&BranchFilter{},
		&CutoffFilter{},
		&PlaceFilter{},
	}
}

// Satisfies 判断候选是否满足标准资格约束（专业、截止排名、地点）。
// 过滤器报错时视为不满足。
func Satisfies(ctx context.Context, mctx *core.MatchContext, cand *core.Candidate) bool {
	for _, f := range DefaultFilters() {
		drop, err := f.ShouldFilter(ctx, mctx, cand)
		if err != nil || drop {
			return false
		}
	}
	return true
}
