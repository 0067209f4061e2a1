package feature

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/admitkit/core"
)

// EncoderSet 是打分所需的四个独立类别编码器，加载后只读，可并发使用。
type EncoderSet struct {
	Category core.LabelEncoder
	Gender   core.LabelEncoder
	Branch   core.LabelEncoder
	Place    core.LabelEncoder
}

// encodersFile 是编码文件格式（YAML 或 JSON）：
//
//	category: [bc_a, bc_b, bc_c, bc_d, bc_e, ews, oc, sc, st]
//	gender: [female, male]
//	branch: {CSE: 0, ECE: 1}
//	place: [Hyderabad, Warangal]
type encodersFile struct {
	Category vocabulary `yaml:"category"`
	Gender   vocabulary `yaml:"gender"`
	Branch   vocabulary `yaml:"branch"`
	Place    vocabulary `yaml:"place"`
}

// LoadEncoderSet 从文件加载编码器（YAML 是 JSON 的超集，两种格式都支持）
func LoadEncoderSet(path string) (*EncoderSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read encoders: %w", err)
	}
	return ParseEncoderSet(data)
}

// ParseEncoderSet 解析编码文件内容
func ParseEncoderSet(data []byte) (*EncoderSet, error) {
	var f encodersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse encoders: %w", err)
	}
	for name, v := range map[string]vocabulary{
		"category": f.Category,
		"gender":   f.Gender,
		"branch":   f.Branch,
		"place":    f.Place,
	} {
		if len(v) == 0 {
			return nil, fmt.Errorf("parse encoders: %s vocabulary is empty", name)
		}
	}
	return &EncoderSet{
		Category: NewLabelEncoder("category", f.Category),
		Gender:   NewLabelEncoder("gender", f.Gender),
		Branch:   NewLabelEncoder("branch", f.Branch),
		Place:    NewLabelEncoder("place", f.Place),
	}, nil
}
