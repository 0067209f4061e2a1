package matcher

import (
	"github.com/rushteam/admitkit/core"
)

// EmptyMessage 是没有符合条件的院校时的提示。
const EmptyMessage = "No eligible colleges found."

// Status 是查询终态。
type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

// Outcome 是一次查询的唯一结果：success / empty / error 三者之一。
//
//   - success：Results 非空，Column 是用于展示的截止列名
//   - empty：没有符合条件的院校，Message 为 EmptyMessage，不是错误
//   - error：Err 指出出错的字段与取值，不附带部分结果
type Outcome struct {
	Status  Status              `json:"status"`
	Column  core.Column         `json:"column,omitempty"`
	Results []core.RankedResult `json:"results,omitempty"`
	Message string              `json:"message,omitempty"`
	Code    string              `json:"code,omitempty"`
	Field   string              `json:"field,omitempty"`
	Err     *core.DomainError   `json:"-"`
}

// Success 判断是否为有结果的成功终态。
func (o Outcome) Success() bool { return o.Status == StatusSuccess }

func successOutcome(col core.Column, results []core.RankedResult) Outcome {
	return Outcome{Status: StatusSuccess, Column: col, Results: results}
}

func emptyOutcome(col core.Column) Outcome {
	return Outcome{Status: StatusEmpty, Column: col, Message: EmptyMessage}
}

func errorOutcome(err *core.DomainError) Outcome {
	return Outcome{
		Status:  StatusError,
		Message: err.Error(),
		Code:    err.Code,
		Field:   err.Field,
		Err:     err,
	}
}

// Assemble 把排序后的数据行与打分结果按位置合并为结果行，不做任何重排。
// 两者必须一一对应，长度不一致时返回 INTERNAL_ERROR。
func Assemble(offerings []core.InstituteOffering, chances []core.Chance, col core.Column) ([]core.RankedResult, error) {
	if len(offerings) != len(chances) {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInternalError,
			"assemble: offerings and chances length mismatch")
	}
	out := make([]core.RankedResult, 0, len(offerings))
	for i, o := range offerings {
		cutoff, _ := o.Cutoff(col)
		out = append(out, core.RankedResult{
			Institute:       o.Institute,
			Place:           o.Place,
			Branch:          o.Branch,
			CutoffRank:      cutoff,
			AdmissionChance: chances[i],
		})
	}
	return out, nil
}

// AssembleCandidates 是 Assemble 的候选形式：每个候选已携带截止排名与录取概率。
func AssembleCandidates(cands []*core.Candidate) []core.RankedResult {
	out := make([]core.RankedResult, 0, len(cands))
	for _, c := range cands {
		if c == nil {
			continue
		}
		out = append(out, core.RankedResult{
			Institute:       c.Offering.Institute,
			Place:           c.Offering.Place,
			Branch:          c.Offering.Branch,
			CutoffRank:      c.Cutoff,
			AdmissionChance: c.Chance,
		})
	}
	return out
}
