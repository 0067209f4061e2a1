package filter

import (
	"context"

	"github.com/rushteam/admitkit/core"
)

// PlaceFilter 按地点过滤：查询中指定了偏好地点时，数据行地点必须完全等于其中之一。
// 未指定偏好地点时不做限制。
type PlaceFilter struct{}

func (f *PlaceFilter) Name() string {
	return "filter.place"
}

func (f *PlaceFilter) ShouldFilter(
	_ context.Context,
	mctx *core.MatchContext,
	cand *core.Candidate,
) (bool, error) {
	if cand == nil {
		return true, nil
	}
	if mctx == nil || mctx.Query == nil || len(mctx.Query.PreferredPlaces) == 0 {
		return false, nil
	}
	for _, p := range mctx.Query.PreferredPlaces {
		if cand.Offering.Place == p {
			return false, nil
		}
	}
	return true, nil
}
