package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RPCModel 是通过 HTTP 调用外部推理服务的分类器实现。
// 服务端可以是任意语言实现的 predict_proba 服务（sklearn、XGBoost、TF Serving 适配层等）。
// http.Client 可并发使用，因此 RPCModel 也可并发使用。
type RPCModel struct {
	name     string
	Endpoint string // 例如 "http://localhost:8080/predict_proba"
	Timeout  time.Duration
	Client   *http.Client
}

func NewRPCModel(name, endpoint string, timeout time.Duration) *RPCModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if name == "" {
		name = "rpc"
	}
	return &RPCModel{
		name:     name,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (m *RPCModel) Name() string {
	return m.name
}

// PredictProbability 调用远程服务预测单个特征向量（内部调用批量接口）。
func (m *RPCModel) PredictProbability(ctx context.Context, vector []float64) ([]float64, error) {
	probs, err := m.PredictProbabilityBatch(ctx, [][]float64{vector})
	if err != nil {
		return nil, err
	}
	if len(probs) == 0 {
		return nil, fmt.Errorf("empty response")
	}
	return probs[0], nil
}

// PredictProbabilityBatch 调用远程服务进行批量预测。
// 请求格式（JSON）：
//
//	{"instances": [[4000, 6, 1, 0, 0], ...]}
//
// 响应格式（JSON）：
//
//	{"probabilities": [[0.15, 0.85], ...]}
func (m *RPCModel) PredictProbabilityBatch(ctx context.Context, vectors [][]float64) ([][]float64, error) {
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}

	if len(vectors) == 0 {
		return [][]float64{}, nil
	}

	// 构建请求
	reqBody := map[string]any{
		"instances": vectors,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// 发送请求
	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("rpc error: status=%d, read body failed: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	// 解析响应
	var result struct {
		Probabilities [][]float64 `json:"probabilities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Probabilities) != len(vectors) {
		return nil, fmt.Errorf("response count mismatch: expected %d, got %d", len(vectors), len(result.Probabilities))
	}

	return result.Probabilities, nil
}
