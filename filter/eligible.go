package filter

import (
	"context"

	"github.com/rushteam/admitkit/core"
)

// Eligible 是资格过滤的纯函数形式：按源表顺序返回满足专业、截止排名、地点约束的数据行。
// 不修改数据表。
func Eligible(t *core.Table, branch string, col core.Column, rank int, places []string) []core.InstituteOffering {
	mctx := core.NewMatchContext(&core.EligibilityQuery{
		Rank:            rank,
		Branch:          branch,
		PreferredPlaces: places,
	}, col)

	node := &FilterNode{Filters: DefaultFilters()}
	kept, _ := node.Process(context.Background(), mctx, core.CandidatesFromTable(t, col))

	out := make([]core.InstituteOffering, 0, len(kept))
	for _, c := range kept {
		out = append(out, c.Offering)
	}
	return out
}
