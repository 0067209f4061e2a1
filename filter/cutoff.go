package filter

import (
	"context"

	"github.com/rushteam/admitkit/core"
)

// CutoffFilter 按截止排名过滤。
//
// 截止排名是该名额历史上录取到的最差（数值最大）排名，排名数值越小越好，
// 因此当且仅当解析列上有值且 cutoff >= rank 时保留（相等也保留）。
// 缺失或无法解析的截止值一律过滤，不会被当作 0。
type CutoffFilter struct{}

func (f *CutoffFilter) Name() string {
	return "filter.cutoff"
}

func (f *CutoffFilter) ShouldFilter(
	_ context.Context,
	mctx *core.MatchContext,
	cand *core.Candidate,
) (bool, error) {
	if cand == nil {
		return true, nil
	}
	if mctx == nil || mctx.Query == nil {
		return false, nil
	}
	return !Admits(cand.Cutoff, cand.HasCutoff, mctx.Query.Rank), nil
}

// Admits 判断截止排名是否容纳给定排名。
func Admits(cutoff int, present bool, rank int) bool {
	return present && cutoff >= rank
}
