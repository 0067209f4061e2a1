package predict

import (
	"context"

	"go.uber.org/zap"

	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/metrics"
	"github.com/rushteam/admitkit/model"
	"github.com/rushteam/admitkit/pipeline"
	"github.com/rushteam/admitkit/pkg/utils"
)

// ChanceNode 为每个候选填充 AdmissionChance。
//
// 每行独立打分：某一行编码或推理失败时该行标记为 Unavailable，
// 不会删除任何行，也不会改变顺序。分类器实现了 model.BatchClassifier 时先批量推理，
// 批量调用失败再逐行回退。ctx 超时或取消同样只降级行，Process 不会因此返回错误。
type ChanceNode struct {
	Scorer  *Scorer
	Metrics *metrics.Metrics
}

func (n *ChanceNode) Name() string        { return "predict.chance" }
func (n *ChanceNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *ChanceNode) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Scorer == nil || len(cands) == 0 {
		return cands, nil
	}
	var q *core.EligibilityQuery
	if mctx != nil {
		q = mctx.Query
	}

	pending := make([]*core.Candidate, 0, len(cands))
	vectors := make([][]float64, 0, len(cands))
	for _, c := range cands {
		if c == nil {
			continue
		}
		vec, err := n.Scorer.Vector(q, c.Offering)
		if err != nil {
			n.unavailable(c, err)
			continue
		}
		pending = append(pending, c)
		vectors = append(vectors, vec)
	}
	if len(pending) == 0 {
		return cands, nil
	}
	if n.Scorer.Classifier == nil {
		err := core.NewDomainError(core.ModuleModel, core.ErrorCodePredictionFailure, "classifier not configured")
		for _, c := range pending {
			n.unavailable(c, err)
		}
		return cands, nil
	}

	if bc, ok := n.Scorer.Classifier.(model.BatchClassifier); ok {
		outputs, err := bc.PredictProbabilityBatch(ctx, vectors)
		if err == nil && len(outputs) == len(pending) {
			for i, c := range pending {
				n.apply(c, outputs[i], nil)
			}
			return cands, nil
		}
		zap.L().Warn("predict: batch inference failed, falling back to single",
			zap.String("classifier", bc.Name()),
			zap.Int("rows", len(pending)),
			zap.Error(err),
		)
	}

	for i, c := range pending {
		// ctx 已结束时剩余行直接标记为 Unavailable，不再调用分类器
		if err := ctx.Err(); err != nil {
			n.apply(c, nil, err)
			continue
		}
		out, err := n.Scorer.Classifier.PredictProbability(ctx, vectors[i])
		n.apply(c, out, err)
	}
	return cands, nil
}

func (n *ChanceNode) apply(c *core.Candidate, out []float64, err error) {
	if err != nil {
		n.unavailable(c, core.WrapDomainError(core.ModuleModel, core.ErrorCodePredictionFailure, err,
			"%s: predict", n.Scorer.Classifier.Name()))
		return
	}
	chance, err := ChanceFromOutput(out)
	if err != nil {
		n.unavailable(c, err)
		return
	}
	c.Chance = chance
	c.PutLabel("chance_model", utils.Label{Value: n.Scorer.Classifier.Name(), Source: "predict"})
	n.Metrics.IncRowsScored(metrics.ResultScored)
}

func (n *ChanceNode) unavailable(c *core.Candidate, err error) {
	c.Chance = core.Unavailable
	code := core.ErrorCodePredictionFailure
	if de := core.GetDomainError(err); de != nil {
		code = de.Code
	}
	c.PutLabel("chance_error", utils.Label{Value: code, Source: "predict"})
	n.Metrics.IncRowsScored(metrics.ResultUnavailable)
	zap.L().Warn("predict: row unavailable",
		zap.String("institute", c.Offering.Institute),
		zap.String("branch", c.Offering.Branch),
		zap.String("place", c.Offering.Place),
		zap.String("code", code),
		zap.Error(err),
	)
}
