package model

import (
	"context"
	"sync"

	"github.com/rushteam/admitkit/core"
)

// BatchClassifier 是支持批量推理的分类器（例如远程推理服务），可减少网络往返。
type BatchClassifier interface {
	core.Classifier
	PredictProbabilityBatch(ctx context.Context, vectors [][]float64) ([][]float64, error)
}

// Serialized 用互斥锁串行化对分类器的访问，用于本身不支持并发推理的实现。
type Serialized struct {
	mu    sync.Mutex
	inner core.Classifier
}

// NewSerialized 包装分类器。
func NewSerialized(c core.Classifier) *Serialized {
	return &Serialized{inner: c}
}

func (s *Serialized) Name() string { return s.inner.Name() }

func (s *Serialized) PredictProbability(ctx context.Context, vector []float64) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.PredictProbability(ctx, vector)
}
