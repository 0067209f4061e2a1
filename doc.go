// Package admitkit 是一个院校录取匹配工具包：根据考生排名、类别、性别与专业，
// 在截止排名表中找出可报考的院校，按截止排名排序，并估算每一项的录取概率。
//
// 设计要点：
// - Pipeline-first: 匹配逻辑通过 Node 串联（Filter → Rank → ReRank → PostProcess）
// - Labels-first: labels 全链路透传（过滤原因、排序列、打分模型/失败原因），支持 explain
// - 单行隔离: 某一行打分失败只会把该行标记为 Unavailable，不会影响其他行
// - Node 可扩展: 自定义 Filter / Node 即可插拔扩展（本地 LR 或远程推理服务均可）
package admitkit

import (
	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/matcher"
	"github.com/rushteam/admitkit/pipeline"
)

// 轻量 facade：便于用户直接 import "admitkit" 使用核心抽象。
type (
	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind

	Matcher      = matcher.Matcher
	Outcome      = matcher.Outcome
	RawQuery     = core.RawQuery
	RankedResult = core.RankedResult
	Table        = core.Table
	Chance       = core.Chance
)

const (
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// NewMatcher 用数据表与默认流水线（不打分）创建 Matcher。
func NewMatcher(t *Table) *Matcher {
	return matcher.New(t, nil, nil)
}
