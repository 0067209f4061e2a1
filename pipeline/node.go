package pipeline

import (
	"context"

	"github.com/rushteam/admitkit/core"
)

// Kind 用于标记 Node 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不满足资格约束的候选
	KindRank        Kind = "rank"        // 排序阶段：按截止排名排序
	KindReRank      Kind = "rerank"      // 截断阶段：在排序结果上限制数量
	KindPostProcess Kind = "postprocess" // 后处理阶段：录取概率等附加信息，不改变顺序
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 candidates -> 输出 candidates”的形态，方便 Filter 剔除、Rank 排序、TopN 截断等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		mctx *core.MatchContext,
		cands []*core.Candidate,
	) ([]*core.Candidate, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(map[string]interface{}) (Node, error)
