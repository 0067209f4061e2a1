package core

import "github.com/rushteam/admitkit/pkg/utils"

// Candidate 是流水线中的统一承载结构：数据行、源表位置、截止排名、录取概率、标签。
// Index 用于稳定排序时保持源表顺序；Labels 用于解释（过滤原因、打分来源等）。
type Candidate struct {
	Offering  InstituteOffering
	Index     int
	Cutoff    int  // 解析列上的截止排名
	HasCutoff bool // 解析列上是否有值
	Chance    Chance
	Labels    map[string]utils.Label
}

// NewCandidate 用数据行、源表位置和解析出的截止列创建候选。
func NewCandidate(o InstituteOffering, index int, col Column) *Candidate {
	cutoff, ok := o.Cutoff(col)
	return &Candidate{
		Offering:  o,
		Index:     index,
		Cutoff:    cutoff,
		HasCutoff: ok,
		Chance:    Unavailable,
		Labels:    make(map[string]utils.Label),
	}
}

// CandidatesFromTable 按源表顺序为每一行创建候选。
func CandidatesFromTable(t *Table, col Column) []*Candidate {
	if t == nil {
		return nil
	}
	out := make([]*Candidate, 0, len(t.Offerings))
	for i, o := range t.Offerings {
		out = append(out, NewCandidate(o, i, col))
	}
	return out
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}
