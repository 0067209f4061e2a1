package builders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/admitkit/config"
	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/filter"
	"github.com/rushteam/admitkit/model"
	"github.com/rushteam/admitkit/pipeline"
	"github.com/rushteam/admitkit/predict"
	"github.com/rushteam/admitkit/rank"
	"github.com/rushteam/admitkit/rerank"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	for _, want := range []string{"filter", "rank.cutoff", "rerank.topn", "predict.chance"} {
		assert.Contains(t, types, want)
	}
}

func TestLoadPipeline(t *testing.T) {
	dir := t.TempDir()
	enc := writeFile(t, dir, "encoders.yaml", `
category: [bc_a, oc, sc]
gender: [female, male]
branch: [CSE, ECE]
place: [Hyderabad, Warangal]
`)
	mdl := writeFile(t, dir, "model.yaml", "bias: 1\nweights: [-0.0002, 0, 0, 0, 0]\n")
	pipe := writeFile(t, dir, "pipeline.yaml", `
pipeline:
  name: eamcet
  nodes:
    - type: filter
      config:
        filters:
          - type: branch
          - type: cutoff
          - type: place
          - type: expr
            expr: 'offering.place != "Closed"'
    - type: rank.cutoff
    - type: rerank.topn
      config:
        n: 10
    - type: predict.chance
      config:
        encoders: `+enc+`
        classifier:
          kind: lr
          path: `+mdl+`
          serialize: true
`)

	p, err := config.LoadPipeline(pipe)
	require.NoError(t, err)
	require.Len(t, p.Nodes, 4)

	fn, ok := p.Nodes[0].(*filter.FilterNode)
	require.True(t, ok)
	assert.Len(t, fn.Filters, 4)
	assert.IsType(t, &rank.CutoffNode{}, p.Nodes[1])
	topn, ok := p.Nodes[2].(*rerank.TopNNode)
	require.True(t, ok)
	assert.Equal(t, 10, topn.N)
	cn, ok := p.Nodes[3].(*predict.ChanceNode)
	require.True(t, ok)
	assert.IsType(t, &model.Serialized{}, cn.Scorer.Classifier)

	q := &core.EligibilityQuery{Rank: 4000, Category: core.CategoryOC, Gender: core.GenderMale, Branch: "cse", MaxResults: 5}
	tbl := core.NewTable([]core.InstituteOffering{
		core.NewOffering("A", "Hyderabad", "CSE", map[core.Column]int{core.ColumnOCBoys: 5000}),
		core.NewOffering("B", "Closed", "CSE", map[core.Column]int{core.ColumnOCBoys: 4500}),
	}, nil)
	out, err := p.Run(context.Background(), core.NewMatchContext(q, core.ColumnOCBoys), core.CandidatesFromTable(tbl, core.ColumnOCBoys))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0].Offering.Institute)
	assert.True(t, out[0].Chance.Available())
}

func TestBuildPipeline_Errors(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(`
pipeline:
  nodes:
    - type: recall.hot
`))
	require.NoError(t, err)
	_, err = config.BuildPipeline(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported node type")

	_, err = BuildFilterNode(map[string]interface{}{
		"filters": []interface{}{map[string]interface{}{"type": "blacklist"}},
	})
	assert.Error(t, err)

	_, err = BuildFilterNode(map[string]interface{}{
		"filters": []interface{}{map[string]interface{}{"type": "expr", "expr": "offering.place +"}},
	})
	assert.Error(t, err)

	_, err = BuildChanceNode(map[string]interface{}{})
	assert.Error(t, err)

	_, err = BuildTopNNode(map[string]interface{}{"n": -1})
	assert.Error(t, err)
}

func TestBuildFilterNode_Defaults(t *testing.T) {
	n, err := BuildFilterNode(map[string]interface{}{})
	require.NoError(t, err)
	assert.Len(t, n.(*filter.FilterNode).Filters, 3)
}

func TestNewClassifier(t *testing.T) {
	clf, err := NewClassifier(config.ClassifierConfig{Kind: "none"})
	require.NoError(t, err)
	assert.Nil(t, clf)

	clf, err = NewClassifier(config.ClassifierConfig{Kind: "rpc", Endpoint: "http://localhost:1/predict", Name: "xgb"})
	require.NoError(t, err)
	assert.Equal(t, "xgb", clf.Name())
	_, isBatch := clf.(model.BatchClassifier)
	assert.True(t, isBatch)

	clf, err = NewClassifier(config.ClassifierConfig{Kind: "kserve", Endpoint: "http://localhost:1", Name: "admit", Protocol: "v1", Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, "kserve:admit", clf.Name())
	ks, ok := clf.(*model.KServeModel)
	require.True(t, ok)
	assert.Equal(t, model.KServeV1, ks.Protocol)
	require.NotNil(t, ks.Auth)
	assert.Equal(t, "bearer", ks.Auth.Type)

	_, err = NewClassifier(config.ClassifierConfig{Kind: "kserve", Endpoint: "http://localhost:1"})
	assert.Error(t, err)
	_, err = NewClassifier(config.ClassifierConfig{Kind: "rpc"})
	assert.Error(t, err)
	_, err = NewClassifier(config.ClassifierConfig{Kind: "lr"})
	assert.Error(t, err)
	_, err = NewClassifier(config.ClassifierConfig{Kind: "svm"})
	assert.Error(t, err)
}

func TestBuildChanceNode_InlineWeights(t *testing.T) {
	dir := t.TempDir()
	enc := writeFile(t, dir, "encoders.json", `{"category": ["oc"], "gender": ["male"], "branch": ["CSE"], "place": ["Hyderabad"]}`)

	n, err := BuildChanceNode(map[string]interface{}{
		"encoders": enc,
		"classifier": map[string]interface{}{
			"bias":    1,
			"weights": []interface{}{-0.0002, 0, 0, 0, 0},
		},
	})
	require.NoError(t, err)
	lr, ok := n.(*predict.ChanceNode).Scorer.Classifier.(*model.LRModel)
	require.True(t, ok)
	assert.Equal(t, 1.0, lr.Bias)
	assert.Len(t, lr.Weights, 5)

	_, err = BuildChanceNode(map[string]interface{}{
		"encoders":   enc,
		"classifier": map[string]interface{}{"weights": []interface{}{"a"}},
	})
	assert.Error(t, err)
}

func TestBuildPipeline_RequiresStages(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "只有过滤",
			yaml: "pipeline:\n  nodes:\n    - type: filter\n",
			want: "missing rank stage",
		},
		{
			name: "缺少截断",
			yaml: "pipeline:\n  nodes:\n    - type: filter\n    - type: rank.cutoff\n",
			want: "missing rerank stage",
		},
		{
			name: "缺少过滤",
			yaml: "pipeline:\n  nodes:\n    - type: rank.cutoff\n    - type: rerank.topn\n",
			want: "missing filter stage",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := pipeline.ParseYAML([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = config.BuildPipeline(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg, err := pipeline.ParseYAML([]byte("pipeline:\n  nodes:\n    - type: filter\n    - type: rank.cutoff\n    - type: rerank.topn\n"))
	require.NoError(t, err)
	p, err := config.BuildPipeline(cfg)
	require.NoError(t, err)
	assert.Len(t, p.Nodes, 3)
}

func TestBuildFilterNode_RequiresBaseFilters(t *testing.T) {
	_, err := BuildFilterNode(map[string]interface{}{
		"filters": []interface{}{
			map[string]interface{}{"type": "branch"},
			map[string]interface{}{"type": "place"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cutoff")

	n, err := BuildFilterNode(map[string]interface{}{
		"filters": []interface{}{
			map[string]interface{}{"type": "place"},
			map[string]interface{}{"type": "cutoff"},
			map[string]interface{}{"type": "branch"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, n.(*filter.FilterNode).Filters, 3)
}

func TestBuildChanceNode_KServe(t *testing.T) {
	dir := t.TempDir()
	enc := writeFile(t, dir, "encoders.json", `{"category": ["oc"], "gender": ["male"], "branch": ["CSE"], "place": ["Hyderabad"]}`)

	n, err := BuildChanceNode(map[string]interface{}{
		"encoders": enc,
		"classifier": map[string]interface{}{
			"kind":     "kserve",
			"name":     "admit",
			"endpoint": "http://localhost:1",
			"protocol": "v1",
			"version":  "3",
			"token":    "secret",
		},
	})
	require.NoError(t, err)
	ks, ok := n.(*predict.ChanceNode).Scorer.Classifier.(*model.KServeModel)
	require.True(t, ok)
	assert.Equal(t, model.KServeV1, ks.Protocol)
	assert.Equal(t, "3", ks.ModelVersion)
	require.NotNil(t, ks.Auth)
	assert.Equal(t, "bearer", ks.Auth.Type)
	assert.Equal(t, "secret", ks.Auth.Token)
}
