package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/admitkit/config"
	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/feature"
	"github.com/rushteam/admitkit/filter"
	"github.com/rushteam/admitkit/model"
	"github.com/rushteam/admitkit/pipeline"
	"github.com/rushteam/admitkit/pkg/conv"
	"github.com/rushteam/admitkit/predict"
	"github.com/rushteam/admitkit/rank"
	"github.com/rushteam/admitkit/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rank.cutoff", BuildCutoffNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("predict.chance", BuildChanceNode)
}

// BuildFilterNode 构建资格过滤节点；未配置 filters 时使用 branch + cutoff + place。
// 显式配置 filters 时这三项必须都在，expr 只能在其上追加约束。
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	raw, ok := cfg["filters"]
	if !ok {
		return &filter.FilterNode{Filters: filter.DefaultFilters()}, nil
	}
	filtersConfig, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	seen := make(map[string]bool, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		seen[filterType] = true
		switch filterType {
		case "branch":
			filters = append(filters, &filter.BranchFilter{})
		case "cutoff":
			filters = append(filters, &filter.CutoffFilter{})
		case "place":
			filters = append(filters, &filter.PlaceFilter{})
		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			f, err := filter.NewExprFilter(expr)
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	for _, required := range []string{"branch", "cutoff", "place"} {
		if !seen[required] {
			return nil, fmt.Errorf("filters must include %s", required)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildCutoffNode(map[string]interface{}) (pipeline.Node, error) {
	return &rank.CutoffNode{}, nil
}

// BuildTopNNode 构建截断节点；n 是全局上限，0 表示只按查询的 max_results 截断。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	if n < 0 {
		return nil, fmt.Errorf("rerank.topn: n must be >= 0")
	}
	return &rerank.TopNNode{N: int(n)}, nil
}

// BuildChanceNode 构建打分节点：
//
//	config:
//	  encoders: encoders.yaml
//	  classifier: {kind: lr, path: model.json}
//	  # 或内联权重 {bias: -0.5, weights: [-0.0002, 0.1, 0, 0.3, 0]}
//	  # 或 {kind: rpc, endpoint: http://localhost:8501/predict, timeout: 5, serialize: false}
func BuildChanceNode(cfg map[string]interface{}) (pipeline.Node, error) {
	encPath := conv.ConfigGet(cfg, "encoders", "")
	if encPath == "" {
		return nil, fmt.Errorf("predict.chance: encoders not found")
	}
	enc, err := feature.LoadEncoderSet(encPath)
	if err != nil {
		return nil, err
	}

	clfMap, ok := cfg["classifier"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("predict.chance: classifier not found")
	}
	if raw, ok := clfMap["weights"]; ok {
		weights, ok := conv.SliceAnyToFloat64(raw)
		if !ok || len(weights) == 0 {
			return nil, fmt.Errorf("predict.chance: weights invalid")
		}
		lr := &model.LRModel{Bias: conv.ConfigGetFloat64(clfMap, "bias", 0), Weights: weights}
		return &predict.ChanceNode{Scorer: predict.NewScorer(enc, lr)}, nil
	}
	clf, err := NewClassifier(config.ClassifierConfig{
		Kind:        conv.ConfigGet(clfMap, "kind", "lr"),
		Name:        conv.ConfigGet(clfMap, "name", ""),
		Path:        conv.ConfigGet(clfMap, "path", ""),
		Endpoint:    conv.ConfigGet(clfMap, "endpoint", ""),
		TimeoutSecs: int(conv.ConfigGetInt64(clfMap, "timeout", 5)),
		Serialize:   conv.ConfigGet(clfMap, "serialize", false),
		Protocol:    conv.ConfigGet(clfMap, "protocol", ""),
		Version:     conv.ConfigGet(clfMap, "version", ""),
		Token:       conv.ConfigGet(clfMap, "token", ""),
	})
	if err != nil {
		return nil, err
	}
	if clf == nil {
		return nil, fmt.Errorf("predict.chance: classifier kind none")
	}
	return &predict.ChanceNode{Scorer: predict.NewScorer(enc, clf)}, nil
}

// NewClassifier 按配置创建分类器；kind 为 none 时返回 nil（不打分）。
func NewClassifier(cfg config.ClassifierConfig) (core.Classifier, error) {
	var clf core.Classifier
	switch cfg.Kind {
	case "none":
		return nil, nil
	case "", "lr":
		if cfg.Path == "" {
			return nil, fmt.Errorf("classifier lr: path not found")
		}
		lr, err := model.LoadLRModel(cfg.Path)
		if err != nil {
			return nil, err
		}
		clf = lr
	case "rpc":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("classifier rpc: endpoint not found")
		}
		timeout := 5 * time.Second
		if cfg.TimeoutSecs > 0 {
			timeout = time.Duration(cfg.TimeoutSecs) * time.Second
		}
		clf = model.NewRPCModel(cfg.Name, cfg.Endpoint, timeout)
	case "kserve":
		if cfg.Endpoint == "" || cfg.Name == "" {
			return nil, fmt.Errorf("classifier kserve: endpoint and name are required")
		}
		opts := []model.KServeOption{model.WithKServeProtocol(cfg.Protocol), model.WithKServeVersion(cfg.Version)}
		if cfg.TimeoutSecs > 0 {
			opts = append(opts, model.WithKServeTimeout(time.Duration(cfg.TimeoutSecs)*time.Second))
		}
		if cfg.Token != "" {
			opts = append(opts, model.WithKServeAuth(&model.AuthConfig{Type: "bearer", Token: cfg.Token}))
		}
		clf = model.NewKServeModel(cfg.Endpoint, cfg.Name, opts...)
	default:
		return nil, fmt.Errorf("unknown classifier kind: %s", cfg.Kind)
	}
	if cfg.Serialize {
		clf = model.NewSerialized(clf)
	}
	return clf, nil
}
