package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rushteam/admitkit/core"
)

// Pipeline 把一次匹配拆成可组合的 Node 链：filter → rank → rerank → postprocess。
// Pipeline 本身无状态，可被多个查询并发使用（前提是各 Node 无共享可变状态）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	mctx *core.MatchContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := cands
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, mctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		zap.L().Debug("pipeline: node done",
			zap.String("node", node.Name()),
			zap.String("kind", string(node.Kind())),
			zap.Int("in", len(cur)),
			zap.Int("out", len(next)),
		)
		cur = next
	}
	return cur, nil
}

// HasKind 判断 Pipeline 中是否存在指定类型的 Node。
func (p *Pipeline) HasKind(kind Kind) bool {
	for _, n := range p.Nodes {
		if n.Kind() == kind {
			return true
		}
	}
	return false
}
