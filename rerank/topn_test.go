package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/admitkit/core"
)

func makeCands(n int) []*core.Candidate {
	out := make([]*core.Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, core.NewCandidate(core.NewOffering("I", "P", "B", nil), i, core.ColumnOCBoys))
	}
	return out
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name       string
		ceiling    int
		maxResults int
		in         int
		want       int
	}{
		{"query limit", 0, 3, 10, 3},
		{"ceiling lower than query", 2, 5, 10, 2},
		{"query lower than ceiling", 8, 5, 10, 5},
		{"fewer items than limit", 0, 5, 2, 2},
		{"no limit", 0, 0, 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.ceiling}
			mctx := core.NewMatchContext(&core.EligibilityQuery{MaxResults: tt.maxResults}, core.ColumnOCBoys)
			out, err := node.Process(context.Background(), mctx, makeCands(tt.in))
			require.NoError(t, err)
			assert.Len(t, out, tt.want)
			for i, c := range out {
				assert.Equal(t, i, c.Index, "keeps leading order")
			}
		})
	}
}
