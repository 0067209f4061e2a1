package model

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// LRModel 实现了逻辑回归 (Logistic Regression) 二分类器。
//
// 预测原理：
// 1. 线性加权求和: z = Bias + sum(Weight_i * Feature_i)
// 2. Sigmoid 变换: P = 1 / (1 + exp(-z))
//
// 输出 [1-P, P]，即 [p_reject, p_admit]。权重按特征向量位置排列，模型只读，可并发使用。
type LRModel struct {
	Bias    float64   `yaml:"bias" json:"bias"`       // 偏置项 (Bias / Intercept)
	Weights []float64 `yaml:"weights" json:"weights"` // 特征权重 (Weights / Coefficients)
}

// LoadLRModel 从 JSON/YAML 文件加载模型：{"bias": -0.5, "weights": [...]}
func LoadLRModel(path string) (*LRModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m LRModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("parse model: weights are empty")
	}
	return &m, nil
}

func (m *LRModel) Name() string { return "lr" }

func (m *LRModel) PredictProbability(_ context.Context, vector []float64) ([]float64, error) {
	if len(vector) != len(m.Weights) {
		return nil, fmt.Errorf("lr: feature vector length %d, want %d", len(vector), len(m.Weights))
	}
	z := m.Bias
	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("lr: feature %d is not finite", i)
		}
		z += m.Weights[i] * v
	}
	p := 1 / (1 + math.Exp(-z))
	return []float64{1 - p, p}, nil
}
