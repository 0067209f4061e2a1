package feature

import (
	"github.com/rushteam/admitkit/core"
)

// VectorSize 是特征向量长度：[rank, category, gender, branch, place]
const VectorSize = 5

// VectorBuilder 根据查询与数据行构建分类器的特征向量。
//
// 类别与性别使用查询中规范化后的小写标签；专业与地点使用数据表中的原始值。
type VectorBuilder struct {
	Encoders *EncoderSet
}

// Build 返回 [rank, enc(category), enc(gender), enc(branch), enc(place)]。
// 任一编码失败时返回 ENCODING_FAILURE，底层原因（如 UNSEEN_LABEL）可通过 errors.As 取得。
func (b *VectorBuilder) Build(q *core.EligibilityQuery, o core.InstituteOffering) ([]float64, error) {
	if b == nil || b.Encoders == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeEncodingFailure, "encoders not configured")
	}
	if q == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeEncodingFailure, "query is nil")
	}

	steps := []struct {
		name  string
		enc   core.LabelEncoder
		label string
	}{
		{"category", b.Encoders.Category, string(q.Category)},
		{"gender", b.Encoders.Gender, string(q.Gender)},
		{"branch", b.Encoders.Branch, o.Branch},
		{"place", b.Encoders.Place, o.Place},
	}

	vec := make([]float64, 0, VectorSize)
	vec = append(vec, float64(q.Rank))
	for _, s := range steps {
		if s.enc == nil {
			return nil, core.NewFieldError(core.ModuleFeature, core.ErrorCodeEncodingFailure, s.name,
				"%s encoder not configured", s.name)
		}
		code, err := s.enc.Encode(s.label)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleFeature, core.ErrorCodeEncodingFailure, err,
				"encode %s %q", s.name, s.label)
		}
		vec = append(vec, float64(code))
	}
	return vec, nil
}
