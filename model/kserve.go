package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rushteam/admitkit/pkg/conv"
)

// KServe 协议版本
const (
	KServeV1 = "v1"
	KServeV2 = "v2"
)

// KServeModel 是通过 KServe V1/V2 协议调用推理服务的分类器，支持批量推理。
//
// KServe V1（TensorFlow Serving REST 风格）：
//   - POST /v1/models/{model}:predict，请求 {"instances": [[...], ...]}
//   - 响应 {"predictions": [[p_reject, p_admit], ...]} 或 {"predictions": [p_admit, ...]}
//
// KServe V2（Open Inference Protocol）：
//   - POST /v2/models/{model}[/versions/{version}]/infer
//   - 请求 {"inputs": [{"name": "input0", "shape": [n, 5], "datatype": "FP64", "data": [...]}]}
//   - 响应 outputs 张量 shape 为 [n, 2]（行优先）或 [n]（仅 p_admit）
//
// sklearn 模型需以 predict_proba 方式部署（KServe sklearn server 的 method: predict_proba）。
type KServeModel struct {
	Endpoint     string // 服务根地址，如 "http://localhost:8080"
	ModelName    string
	ModelVersion string
	Protocol     string // v1 / v2，默认 v2
	InputName    string // V2 输入张量名称，默认 "input0"
	OutputName   string // V2 输出张量名称，为空时取第一个
	Timeout      time.Duration
	Auth         *AuthConfig

	httpClient *http.Client
}

// AuthConfig 认证配置
type AuthConfig struct {
	Type     string // "basic", "bearer", "api_key"
	Username string
	Password string
	Token    string
	APIKey   string
}

// KServeOption 配置 KServe 分类器
type KServeOption func(*KServeModel)

// WithKServeProtocol 设置协议："v1" 或 "v2"
func WithKServeProtocol(protocol string) KServeOption {
	return func(m *KServeModel) {
		if protocol == KServeV1 || protocol == KServeV2 {
			m.Protocol = protocol
		}
	}
}

// WithKServeVersion 设置模型版本（V2 路径会带 /versions/{version}）
func WithKServeVersion(version string) KServeOption {
	return func(m *KServeModel) { m.ModelVersion = version }
}

// WithKServeTensorNames 设置 V2 输入/输出张量名称
func WithKServeTensorNames(input, output string) KServeOption {
	return func(m *KServeModel) {
		if input != "" {
			m.InputName = input
		}
		m.OutputName = output
	}
}

// WithKServeTimeout 设置超时
func WithKServeTimeout(timeout time.Duration) KServeOption {
	return func(m *KServeModel) {
		if timeout > 0 {
			m.Timeout = timeout
		}
	}
}

// WithKServeAuth 设置认证
func WithKServeAuth(auth *AuthConfig) KServeOption {
	return func(m *KServeModel) { m.Auth = auth }
}

// WithKServeHTTPClient 设置自定义 HTTP 客户端
func WithKServeHTTPClient(client *http.Client) KServeOption {
	return func(m *KServeModel) { m.httpClient = client }
}

// NewKServeModel 创建 KServe 分类器。
func NewKServeModel(endpoint, modelName string, opts ...KServeOption) *KServeModel {
	m := &KServeModel{
		Endpoint:  endpoint,
		ModelName: modelName,
		Protocol:  KServeV2,
		InputName: "input0",
		Timeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.httpClient == nil {
		m.httpClient = &http.Client{Timeout: m.Timeout}
	}
	return m
}

func (m *KServeModel) Name() string {
	return "kserve:" + m.ModelName
}

// PredictProbability 预测单个特征向量（内部调用批量接口）。
func (m *KServeModel) PredictProbability(ctx context.Context, vector []float64) ([]float64, error) {
	probs, err := m.PredictProbabilityBatch(ctx, [][]float64{vector})
	if err != nil {
		return nil, err
	}
	return probs[0], nil
}

// PredictProbabilityBatch 批量预测，返回与输入等长的 [p_reject, p_admit] 列表。
func (m *KServeModel) PredictProbabilityBatch(ctx context.Context, vectors [][]float64) ([][]float64, error) {
	if len(vectors) == 0 {
		return [][]float64{}, nil
	}

	var (
		url  string
		body any
	)
	if m.Protocol == KServeV1 {
		url = fmt.Sprintf("%s/v1/models/%s:predict", m.Endpoint, m.ModelName)
		body = map[string]any{"instances": vectors}
	} else {
		path := fmt.Sprintf("%s/v2/models/%s", m.Endpoint, m.ModelName)
		if m.ModelVersion != "" {
			path = fmt.Sprintf("%s/versions/%s", path, m.ModelVersion)
		}
		url = path + "/infer"
		dim := len(vectors[0])
		data := make([]float64, 0, len(vectors)*dim)
		for _, v := range vectors {
			if len(v) != dim {
				return nil, fmt.Errorf("kserve v2: ragged batch, want dim %d got %d", dim, len(v))
			}
			data = append(data, v...)
		}
		body = map[string]any{
			"inputs": []map[string]any{{
				"name":     m.InputName,
				"shape":    []int{len(vectors), dim},
				"datatype": "FP64",
				"data":     data,
			}},
		}
	}

	respBody, err := m.post(ctx, url, body)
	if err != nil {
		return nil, err
	}

	var probs [][]float64
	if m.Protocol == KServeV1 {
		probs, err = parseV1Predictions(respBody)
	} else {
		probs, err = m.parseV2Outputs(respBody)
	}
	if err != nil {
		return nil, err
	}
	if len(probs) != len(vectors) {
		return nil, fmt.Errorf("kserve %s: response count mismatch: expected %d, got %d", m.Protocol, len(vectors), len(probs))
	}
	return probs, nil
}

// Health 检查模型是否就绪。V1 使用 GET /v1/models/{model}，V2 使用 GET /v2/models/{model}/ready。
func (m *KServeModel) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/v2/models/%s/ready", m.Endpoint, m.ModelName)
	if m.Protocol == KServeV1 {
		url = fmt.Sprintf("%s/v1/models/%s", m.Endpoint, m.ModelName)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("kserve health create request: %w", err)
	}
	m.addAuth(req)
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kserve health request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("kserve health failed: status=%d, body=%s", resp.StatusCode, string(b))
	}
	return nil
}

func (m *KServeModel) post(ctx context.Context, url string, body any) ([]byte, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("kserve %s marshal request: %w", m.Protocol, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("kserve %s create request: %w", m.Protocol, err)
	}
	req.Header.Set("Content-Type", "application/json")
	m.addAuth(req)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kserve %s request failed: %w", m.Protocol, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kserve %s read response: %w", m.Protocol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kserve %s error: status=%d, body=%s", m.Protocol, resp.StatusCode, string(b))
	}
	return b, nil
}

func (m *KServeModel) addAuth(req *http.Request) {
	if m.Auth == nil {
		return
	}
	switch m.Auth.Type {
	case "basic":
		req.SetBasicAuth(m.Auth.Username, m.Auth.Password)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+m.Auth.Token)
	case "api_key":
		req.Header.Set("X-API-Key", m.Auth.APIKey)
	}
}

// parseV1Predictions 解析 predictions：每行为 [p_reject, p_admit] 或标量 p_admit。
func parseV1Predictions(body []byte) ([][]float64, error) {
	var out struct {
		Predictions []any `json:"predictions"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("kserve v1 parse response: %w", err)
	}
	probs := make([][]float64, 0, len(out.Predictions))
	for i, v := range out.Predictions {
		if p, ok := conv.ToFloat64(v); ok {
			probs = append(probs, []float64{1 - p, p})
			continue
		}
		row, ok := conv.SliceAnyToFloat64(v)
		if !ok {
			return nil, fmt.Errorf("kserve v1: prediction %d is not numeric", i)
		}
		probs = append(probs, row)
	}
	return probs, nil
}

type v2InferResponse struct {
	Outputs []v2OutputTensor `json:"outputs"`
}

type v2OutputTensor struct {
	Name     string    `json:"name"`
	Shape    []int     `json:"shape"`
	Datatype string    `json:"datatype"`
	Data     []float64 `json:"data"`
}

func (m *KServeModel) parseV2Outputs(body []byte) ([][]float64, error) {
	var out v2InferResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("kserve v2 parse response: %w", err)
	}
	if len(out.Outputs) == 0 {
		return nil, fmt.Errorf("kserve v2 empty outputs")
	}
	tensor := &out.Outputs[0]
	for i := range out.Outputs {
		if m.OutputName != "" && out.Outputs[i].Name == m.OutputName {
			tensor = &out.Outputs[i]
			break
		}
	}

	width := 1
	if len(tensor.Shape) == 2 {
		width = tensor.Shape[1]
	}
	switch width {
	case 1:
		probs := make([][]float64, 0, len(tensor.Data))
		for _, p := range tensor.Data {
			probs = append(probs, []float64{1 - p, p})
		}
		return probs, nil
	case 2:
		if len(tensor.Data)%2 != 0 {
			return nil, fmt.Errorf("kserve v2: output %q has odd length %d", tensor.Name, len(tensor.Data))
		}
		probs := make([][]float64, 0, len(tensor.Data)/2)
		for i := 0; i < len(tensor.Data); i += 2 {
			probs = append(probs, []float64{tensor.Data[i], tensor.Data[i+1]})
		}
		return probs, nil
	default:
		return nil, fmt.Errorf("kserve v2: output %q has unsupported shape %v", tensor.Name, tensor.Shape)
	}
}

var _ BatchClassifier = (*KServeModel)(nil)
