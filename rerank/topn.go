package rerank

import (
	"context"

	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，在排序（Rank）节点之后使用，截取前 N 个候选。
//
// 截断数量取查询中的 MaxResults；N > 0 时作为全局上限，两者取较小值。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &filter.FilterNode{...},   // 资格过滤
//	        &rank.CutoffNode{},        // 按截止排名排序
//	        &rerank.TopNNode{N: 100},  // 截取 Top MaxResults，最多 100
//	    },
//	}
type TopNNode struct {
	// N 全局上限；N <= 0 表示只按查询的 MaxResults 截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	mctx *core.MatchContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	limit := n.Limit(mctx)
	if limit <= 0 || len(cands) <= limit {
		return cands, nil
	}
	return cands[:limit], nil
}

// Limit 计算本次查询的截断数量；<= 0 表示不截断。
func (n *TopNNode) Limit(mctx *core.MatchContext) int {
	limit := 0
	if mctx != nil && mctx.Query != nil {
		limit = mctx.Query.MaxResults
	}
	if n.N > 0 && (limit <= 0 || n.N < limit) {
		limit = n.N
	}
	return limit
}
