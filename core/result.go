package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// UnavailableText 是 Chance 不可用时的文本形式。
const UnavailableText = "unavailable"

// Chance 是录取概率（百分比，[0,100]，保留两位小数），或 Unavailable 哨兵值。
// 打分失败的行不会被删除，而是携带 Unavailable。
type Chance struct {
	value float64
	ok    bool
}

// Unavailable 表示该行无法打分。
var Unavailable = Chance{}

// NewChance 用百分比创建 Chance，超出 [0,100] 或 NaN 时返回 Unavailable。
func NewChance(percent float64) Chance {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return Unavailable
	}
	return Chance{value: percent, ok: true}
}

// ChanceFromProbability 把 [0,1] 的概率换算为百分比并四舍五入到两位小数。
func ChanceFromProbability(p float64) Chance {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Unavailable
	}
	return NewChance(math.Round(p*100*100) / 100)
}

// Value 返回百分比；不可用时 ok 为 false。
func (c Chance) Value() (float64, bool) {
	return c.value, c.ok
}

// Available 判断是否有可用的概率。
func (c Chance) Available() bool {
	return c.ok
}

func (c Chance) String() string {
	if !c.ok {
		return UnavailableText
	}
	return strconv.FormatFloat(c.value, 'f', 2, 64)
}

// MarshalJSON 可用时编码为数字，否则编码为 "unavailable"。
func (c Chance) MarshalJSON() ([]byte, error) {
	if !c.ok {
		return json.Marshal(UnavailableText)
	}
	return []byte(strconv.FormatFloat(c.value, 'f', -1, 64)), nil
}

// UnmarshalJSON 接受数字或 "unavailable"。
func (c *Chance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != UnavailableText {
			return fmt.Errorf("chance: unexpected string %q", s)
		}
		*c = Unavailable
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = NewChance(f)
	return nil
}

// RankedResult 是输出中的一行，顺序有意义，保持到展示层。
type RankedResult struct {
	Institute       string `json:"institute"`
	Place           string `json:"place"`
	Branch          string `json:"branch"`
	CutoffRank      int    `json:"cutoff_rank"`
	AdmissionChance Chance `json:"admission_chance"`
}
