package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/admitkit/core"
)

// dropFirst 是测试用节点：丢弃第一个候选并记录调用顺序。
type dropFirst struct {
	name  string
	kind  Kind
	trace *[]string
	err   error
}

func (n *dropFirst) Name() string { return n.name }
func (n *dropFirst) Kind() Kind   { return n.kind }

func (n *dropFirst) Process(_ context.Context, _ *core.MatchContext, cands []*core.Candidate) ([]*core.Candidate, error) {
	*n.trace = append(*n.trace, n.name)
	if n.err != nil {
		return nil, n.err
	}
	if len(cands) == 0 {
		return cands, nil
	}
	return cands[1:], nil
}

func testCandidates(n int) []*core.Candidate {
	out := make([]*core.Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, core.NewCandidate(core.NewOffering("I", "P", "CSE", nil), i, core.ColumnOCBoys))
	}
	return out
}

func TestPipeline_Run(t *testing.T) {
	var trace []string
	p := &Pipeline{Nodes: []Node{
		&dropFirst{name: "a", kind: KindFilter, trace: &trace},
		&dropFirst{name: "b", kind: KindRank, trace: &trace},
	}}

	out, err := p.Run(context.Background(), &core.MatchContext{}, testCandidates(3))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Index)
	assert.Equal(t, []string{"a", "b"}, trace)

	assert.True(t, p.HasKind(KindRank))
	assert.False(t, p.HasKind(KindPostProcess))
}

func TestPipeline_RunError(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&dropFirst{name: "a", kind: KindFilter, trace: &trace, err: boom},
		&dropFirst{name: "b", kind: KindRank, trace: &trace},
	}}

	out, err := p.Run(context.Background(), &core.MatchContext{}, testCandidates(2))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "node a")
	assert.Equal(t, []string{"a"}, trace, "后续节点不应执行")
}

func TestConfig_BuildPipeline(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
pipeline:
  name: eamcet
  nodes:
    - type: drop
    - type: drop
      config:
        name: second
`))
	require.NoError(t, err)
	assert.Equal(t, "eamcet", cfg.Pipeline.Name)

	var trace []string
	f := NewNodeFactory()
	f.Register("drop", func(c map[string]interface{}) (Node, error) {
		require.NotNil(t, c)
		name, _ := c["name"].(string)
		if name == "" {
			name = "first"
		}
		return &dropFirst{name: name, kind: KindFilter, trace: &trace}, nil
	})

	p, err := cfg.BuildPipeline(f)
	require.NoError(t, err)
	require.Len(t, p.Nodes, 2)
	assert.Equal(t, "first", p.Nodes[0].Name())
	assert.Equal(t, "second", p.Nodes[1].Name())

	_, err = NewNodeFactory().Build("missing", nil)
	assert.Error(t, err)
	_, err = cfg.BuildPipeline(NewNodeFactory())
	assert.Error(t, err)
}

func TestLoadConfigFiles(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "pipeline.yaml")
	jsonPath := filepath.Join(dir, "pipeline.json")
	require.NoError(t, os.WriteFile(yamlPath, []byte("pipeline:\n  nodes:\n    - type: rank.cutoff\n"), 0644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"pipeline": {"name": "j", "nodes": [{"type": "rerank.topn", "config": {"n": 5}}]}}`), 0644))

	cfg, err := LoadFromYAML(yamlPath)
	require.NoError(t, err)
	require.Len(t, cfg.Pipeline.Nodes, 1)
	assert.Equal(t, "rank.cutoff", cfg.Pipeline.Nodes[0].Type)

	cfg, err = LoadFromJSON(jsonPath)
	require.NoError(t, err)
	require.Len(t, cfg.Pipeline.Nodes, 1)
	assert.Equal(t, float64(5), cfg.Pipeline.Nodes[0].Config["n"])

	_, err = LoadFromYAML(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	_, err = ParseYAML([]byte("pipeline: ["))
	assert.Error(t, err)
}
