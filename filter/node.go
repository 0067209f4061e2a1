package filter

import (
	"context"

	"go.uber.org/zap"

	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/pipeline"
	"github.com/rushteam/admitkit/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选就会被过滤掉；保留的候选维持输入顺序。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(cands) == 0 {
		return cands, nil
	}

	out := make([]*core.Candidate, 0, len(cands))

	for _, cand := range cands {
		if cand == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""

		// 依次检查每个过滤器
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, mctx, cand)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				zap.L().Warn("filter: check failed",
					zap.String("filter", f.Name()),
					zap.String("institute", cand.Offering.Institute),
					zap.Error(err),
				)
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			cand.PutLabel("filtered", utils.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}

		out = append(out, cand)
	}

	return out, nil
}
