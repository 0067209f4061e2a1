package model

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRModel_PredictProbability(t *testing.T) {
	m := &LRModel{Bias: 0, Weights: []float64{0, 0, 0, 0, 0}}
	probs, err := m.PredictProbability(context.Background(), []float64{4000, 1, 2, 3, 4})
	require.NoError(t, err)
	require.Len(t, probs, 2)
	assert.InDelta(t, 0.5, probs[1], 1e-9)
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)

	m = &LRModel{Bias: 2, Weights: []float64{-0.001, 0, 0, 0, 0}}
	probs, err = m.PredictProbability(context.Background(), []float64{1000, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-1)), probs[1], 1e-9)
}

func TestLRModel_Errors(t *testing.T) {
	m := &LRModel{Weights: []float64{1, 1}}
	_, err := m.PredictProbability(context.Background(), []float64{1})
	require.Error(t, err)

	_, err = m.PredictProbability(context.Background(), []float64{1, math.NaN()})
	require.Error(t, err)
}

func TestLoadLRModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bias": -0.5, "weights": [0.0001, 0.1, 0.2, 0.3, 0.4]}`), 0o644))

	m, err := LoadLRModel(path)
	require.NoError(t, err)
	assert.Equal(t, -0.5, m.Bias)
	assert.Len(t, m.Weights, 5)
	assert.Equal(t, "lr", m.Name())

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("bias: 1\n"), 0o644))
	_, err = LoadLRModel(empty)
	require.Error(t, err)
}

func TestRPCModel_PredictProbabilityBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Instances [][]float64 `json:"instances"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		out := make([][]float64, 0, len(req.Instances))
		for _, v := range req.Instances {
			p := v[0] / 10000
			out = append(out, []float64{1 - p, p})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"probabilities": out})
	}))
	defer srv.Close()

	m := NewRPCModel("", srv.URL, 0)
	assert.Equal(t, "rpc", m.Name())

	probs, err := m.PredictProbabilityBatch(context.Background(), [][]float64{{2000, 0, 0, 0, 0}, {5000, 0, 0, 0, 0}})
	require.NoError(t, err)
	require.Len(t, probs, 2)
	assert.InDelta(t, 0.2, probs[0][1], 1e-9)
	assert.InDelta(t, 0.5, probs[1][1], 1e-9)

	single, err := m.PredictProbability(context.Background(), []float64{1000, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, single[1], 1e-9)

	empty, err := m.PredictProbabilityBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRPCModel_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fail":
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		case "/short":
			_, _ = w.Write([]byte(`{"probabilities": []}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	_, err := NewRPCModel("m", srv.URL+"/fail", 0).PredictProbability(context.Background(), []float64{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")

	_, err = NewRPCModel("m", srv.URL+"/short", 0).PredictProbability(context.Background(), []float64{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")

	_, err = NewRPCModel("m", srv.URL+"/bad", 0).PredictProbability(context.Background(), []float64{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

type countingClassifier struct {
	active int
	max    int
	mu     sync.Mutex
}

func (c *countingClassifier) Name() string { return "counting" }

func (c *countingClassifier) PredictProbability(_ context.Context, _ []float64) ([]float64, error) {
	c.mu.Lock()
	c.active++
	if c.active > c.max {
		c.max = c.active
	}
	c.mu.Unlock()

	c.mu.Lock()
	c.active--
	c.mu.Unlock()
	return []float64{0.5, 0.5}, nil
}

func TestSerialized(t *testing.T) {
	inner := &countingClassifier{}
	s := NewSerialized(inner)
	assert.Equal(t, "counting", s.Name())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.PredictProbability(context.Background(), []float64{1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, inner.max)
}
