// Package matcher 串联整个查询流程：解析输入 → 解析截止列 → 过滤 → 排序截断 → 打分 → 组装。
package matcher

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/filter"
	"github.com/rushteam/admitkit/metrics"
	"github.com/rushteam/admitkit/pipeline"
	"github.com/rushteam/admitkit/predict"
	"github.com/rushteam/admitkit/rank"
	"github.com/rushteam/admitkit/rerank"
)

// Matcher 对共享的只读数据表执行查询，可被并发使用。
type Matcher struct {
	Table    *core.Table
	Pipeline *pipeline.Pipeline
	Metrics  *metrics.Metrics
}

// New 创建 Matcher；p 为 nil 时使用不打分的默认流水线。
// 流水线中未配置指标的打分节点会使用 m。
func New(t *core.Table, p *pipeline.Pipeline, m *metrics.Metrics) *Matcher {
	if p == nil {
		p = DefaultPipeline(nil, 0, m)
	}
	for _, n := range p.Nodes {
		if cn, ok := n.(*predict.ChanceNode); ok && cn.Metrics == nil {
			cn.Metrics = m
		}
	}
	return &Matcher{Table: t, Pipeline: p, Metrics: m}
}

// DefaultPipeline 返回标准流水线：资格过滤 → 截止排序 → Top-N → 打分。
// scorer 为 nil 时不挂打分节点，所有行的 AdmissionChance 为 Unavailable。
func DefaultPipeline(scorer *predict.Scorer, ceiling int, m *metrics.Metrics) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&filter.FilterNode{Filters: filter.DefaultFilters()},
		&rank.CutoffNode{},
		&rerank.TopNNode{N: ceiling},
	}
	if scorer != nil {
		nodes = append(nodes, &predict.ChanceNode{Scorer: scorer, Metrics: m})
	}
	return &pipeline.Pipeline{Nodes: nodes}
}

// Match 执行一次查询，总是返回且只返回一个 Outcome；错误不会以其他方式逃出。
func (m *Matcher) Match(ctx context.Context, raw core.RawQuery) Outcome {
	start := time.Now()
	out := m.match(ctx, raw)
	m.Metrics.ObserveQuery(string(out.Status), time.Since(start).Seconds())

	fields := []zap.Field{
		zap.String("status", string(out.Status)),
		zap.String("column", string(out.Column)),
		zap.Int("results", len(out.Results)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if out.Err != nil {
		fields = append(fields, zap.String("code", out.Code), zap.String("reason", out.Message))
	}
	zap.L().Debug("matcher: query done", fields...)
	return out
}

func (m *Matcher) match(ctx context.Context, raw core.RawQuery) Outcome {
	// PARSE_INPUT
	q, err := core.ParseQuery(raw)
	if err != nil {
		return errorOutcome(toDomainError(err))
	}

	// RESOLVE_COLUMN
	var schema core.Schema
	if m.Table != nil {
		schema = m.Table.Schema
	}
	col, err := core.ResolveColumn(q.Category, q.Gender, schema)
	if err != nil {
		return errorOutcome(toDomainError(err))
	}

	// FILTER → RANK_LIMIT → SCORE
	mctx := core.NewMatchContext(q, col)
	cands := core.CandidatesFromTable(m.Table, col)
	if m.Pipeline != nil {
		cands, err = m.Pipeline.Run(ctx, mctx, cands)
		if err != nil {
			return errorOutcome(toDomainError(err))
		}
	}
	cands = enforce(ctx, mctx, cands)

	// ASSEMBLE
	results := AssembleCandidates(cands)
	if len(results) == 0 {
		return emptyOutcome(col)
	}
	return successOutcome(col, results)
}

// enforce 保证输出满足资格约束、按截止排名升序且不超过 max_results，
// 与流水线如何配置无关。对默认流水线的结果是幂等的。
func enforce(ctx context.Context, mctx *core.MatchContext, cands []*core.Candidate) []*core.Candidate {
	kept := make([]*core.Candidate, 0, len(cands))
	for _, c := range cands {
		if c != nil && filter.Satisfies(ctx, mctx, c) {
			kept = append(kept, c)
		}
	}
	return rank.RankAndLimit(kept, mctx.Query.MaxResults)
}

// toDomainError 把流水线错误归一为 DomainError；取消/超时记为 UNAVAILABLE，其他未知错误记为 INTERNAL_ERROR。
func toDomainError(err error) *core.DomainError {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return core.WrapDomainError(core.ModulePipeline, core.ErrorCodeUnavailable, err, "query aborted")
	}
	if de := core.GetDomainError(err); de != nil {
		return de
	}
	return core.WrapDomainError(core.ModulePipeline, core.ErrorCodeInternalError, err, "internal error")
}
