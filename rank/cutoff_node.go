package rank

import (
	"context"
	"sort"

	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/pipeline"
	"github.com/rushteam/admitkit/pkg/utils"
)

// CutoffNode 按解析列上的截止排名升序排序（截止排名越低越难进，排在前面）。
// 截止排名相同时保持源表顺序，保证相同输入下输出确定。
// - 写入 labels：rank_column
type CutoffNode struct{}

func (n *CutoffNode) Name() string        { return "rank.cutoff" }
func (n *CutoffNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *CutoffNode) Process(
	_ context.Context,
	mctx *core.MatchContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(cands) == 0 {
		return []*core.Candidate{}, nil
	}

	col := ""
	if mctx != nil {
		col = string(mctx.Column)
	}
	for _, c := range cands {
		if c == nil {
			continue
		}
		c.PutLabel("rank_column", utils.Label{Value: col, Source: "rank"})
	}

	SortByCutoff(cands)
	return cands, nil
}

// SortByCutoff 原地稳定排序：截止排名升序，相同时按源表位置升序；nil 排在最后。
func SortByCutoff(cands []*core.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i] == nil {
			return false
		}
		if cands[j] == nil {
			return true
		}
		if cands[i].Cutoff != cands[j].Cutoff {
			return cands[i].Cutoff < cands[j].Cutoff
		}
		return cands[i].Index < cands[j].Index
	})
}

// RankAndLimit 是排序 + 截断的纯函数形式：返回排序后的前 n 个候选（新切片，不修改入参顺序）。
// 输入为空时返回空切片而不是错误。
func RankAndLimit(cands []*core.Candidate, n int) []*core.Candidate {
	out := make([]*core.Candidate, 0, len(cands))
	for _, c := range cands {
		if c != nil {
			out = append(out, c)
		}
	}
	SortByCutoff(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
