package feature

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/admitkit/core"
)

// LabelEncoder Label 编码（标签编码）
// 将训练词表中的类别映射为整数（0, 1, 2, ...），与训练时的编码保持一致。
// 词表之外的标签返回 UNSEEN_LABEL，不会被默认编码为 0。
type LabelEncoder struct {
	Name     string         // 特征名（category / gender / branch / place）
	LabelMap map[string]int // 类别到整数的映射
}

// NewLabelEncoder 用映射创建 Label 编码器
func NewLabelEncoder(name string, labelMap map[string]int) *LabelEncoder {
	cp := make(map[string]int, len(labelMap))
	for k, v := range labelMap {
		cp[k] = v
	}
	return &LabelEncoder{Name: name, LabelMap: cp}
}

// NewLabelEncoderFromClasses 用类别列表创建编码器，编码为列表下标（与 sklearn LabelEncoder.classes_ 一致）
func NewLabelEncoderFromClasses(name string, classes []string) *LabelEncoder {
	m := make(map[string]int, len(classes))
	for i, c := range classes {
		m[c] = i
	}
	return &LabelEncoder{Name: name, LabelMap: m}
}

var _ core.LabelEncoder = (*LabelEncoder)(nil)

// Encode 编码单个标签
func (e *LabelEncoder) Encode(label string) (int, error) {
	if e == nil {
		return 0, core.NewDomainError(core.ModuleFeature, core.ErrorCodeEncodingFailure, "label encoder not configured")
	}
	code, ok := e.LabelMap[label]
	if !ok {
		return 0, core.NewFieldError(core.ModuleFeature, core.ErrorCodeUnseenLabel, e.Name,
			"%s encoder: unseen label %q", e.Name, label)
	}
	return code, nil
}

// Classes 返回按编码排序的类别列表
func (e *LabelEncoder) Classes() []string {
	out := make([]string, 0, len(e.LabelMap))
	for k := range e.LabelMap {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := e.LabelMap[out[i]], e.LabelMap[out[j]]
		if ci != cj {
			return ci < cj
		}
		return out[i] < out[j]
	})
	return out
}

// vocabulary 是编码文件中的单个词表，支持两种写法：
//   - 列表：[female, male]，编码为下标
//   - 映射：{female: 0, male: 1}
type vocabulary map[string]int

func (v *vocabulary) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var classes []string
		if err := node.Decode(&classes); err != nil {
			return err
		}
		m := make(vocabulary, len(classes))
		for i, c := range classes {
			m[c] = i
		}
		*v = m
		return nil
	case yaml.MappingNode:
		var m map[string]int
		if err := node.Decode(&m); err != nil {
			return err
		}
		*v = m
		return nil
	default:
		return fmt.Errorf("vocabulary must be a list or a mapping (line %d)", node.Line)
	}
}
