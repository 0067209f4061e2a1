// Package predict 把分类器输出换算为每一行的录取概率。
package predict

import (
	"context"
	"math"

	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/feature"
)

// Scorer 为（查询，数据行）计算录取概率：构建特征向量，调用分类器，取 p_admit。
type Scorer struct {
	Builder    *feature.VectorBuilder
	Classifier core.Classifier
}

// NewScorer 创建打分器。
func NewScorer(encoders *feature.EncoderSet, classifier core.Classifier) *Scorer {
	return &Scorer{
		Builder:    &feature.VectorBuilder{Encoders: encoders},
		Classifier: classifier,
	}
}

// Score 返回百分比形式的录取概率（两位小数）。
// 编码失败返回 ENCODING_FAILURE，分类器失败或输出不合法返回 PREDICTION_FAILURE。
func (s *Scorer) Score(ctx context.Context, q *core.EligibilityQuery, o core.InstituteOffering) (core.Chance, error) {
	vec, err := s.Vector(q, o)
	if err != nil {
		return core.Unavailable, err
	}
	if s.Classifier == nil {
		return core.Unavailable, core.NewDomainError(core.ModuleModel, core.ErrorCodePredictionFailure, "classifier not configured")
	}
	probs, err := s.Classifier.PredictProbability(ctx, vec)
	if err != nil {
		return core.Unavailable, core.WrapDomainError(core.ModuleModel, core.ErrorCodePredictionFailure, err,
			"%s: predict", s.Classifier.Name())
	}
	return ChanceFromOutput(probs)
}

// Vector 构建特征向量。
func (s *Scorer) Vector(q *core.EligibilityQuery, o core.InstituteOffering) ([]float64, error) {
	if s == nil || s.Builder == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeEncodingFailure, "vector builder not configured")
	}
	return s.Builder.Build(q, o)
}

// ChanceFromOutput 校验分类器输出 [p_reject, p_admit]，并把 p_admit 换算为百分比。
func ChanceFromOutput(probs []float64) (core.Chance, error) {
	if len(probs) != 2 {
		return core.Unavailable, core.NewDomainError(core.ModuleModel, core.ErrorCodePredictionFailure,
			"classifier output must have 2 probabilities")
	}
	p := probs[1]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return core.Unavailable, core.NewDomainError(core.ModuleModel, core.ErrorCodePredictionFailure,
			"classifier output p_admit out of range")
	}
	return core.ChanceFromProbability(p), nil
}
