package feature

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/admitkit/core"
)

const encodersYAML = `
category: [bc_a, bc_b, bc_c, bc_d, bc_e, ews, oc, sc, st]
gender: [female, male]
branch:
  CSE: 0
  ECE: 1
place: [Hyderabad, Warangal]
`

func TestParseEncoderSet(t *testing.T) {
	set, err := ParseEncoderSet([]byte(encodersYAML))
	require.NoError(t, err)

	code, err := set.Category.Encode("oc")
	require.NoError(t, err)
	assert.Equal(t, 6, code)

	code, err = set.Gender.Encode("male")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	code, err = set.Branch.Encode("ECE")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	assert.Equal(t, []string{"Hyderabad", "Warangal"}, set.Place.(*LabelEncoder).Classes())
}

func TestParseEncoderSet_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "encoders.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"category":["oc"],"gender":["female","male"],"branch":["CSE"],"place":{"Hyderabad":3}}`), 0o644))

	set, err := LoadEncoderSet(path)
	require.NoError(t, err)
	code, err := set.Place.Encode("Hyderabad")
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestParseEncoderSet_Errors(t *testing.T) {
	_, err := ParseEncoderSet([]byte("category: [oc]\ngender: [male]\nbranch: [CSE]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "place")

	_, err = ParseEncoderSet([]byte("category: oc\n"))
	require.Error(t, err)

	_, err = LoadEncoderSet(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLabelEncoder_UnseenLabel(t *testing.T) {
	enc := NewLabelEncoderFromClasses("place", []string{"Hyderabad"})
	_, err := enc.Encode("Nizamabad")
	require.Error(t, err)
	assert.True(t, core.IsUnseenLabel(err))
	assert.Contains(t, err.Error(), "Nizamabad")
}

func TestVectorBuilder(t *testing.T) {
	set, err := ParseEncoderSet([]byte(encodersYAML))
	require.NoError(t, err)
	b := &VectorBuilder{Encoders: set}

	q := &core.EligibilityQuery{Rank: 4000, Category: core.CategoryOC, Gender: core.GenderMale}
	vec, err := b.Build(q, core.NewOffering("JNTU", "Warangal", "ECE", nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{4000, 6, 1, 1, 1}, vec)

	_, err = b.Build(q, core.NewOffering("JNTU", "Nizamabad", "ECE", nil))
	require.Error(t, err)
	de := core.GetDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, core.ErrorCodeEncodingFailure, de.Code)
	assert.True(t, core.IsUnseenLabel(err))
	assert.True(t, core.IsRowError(err))
}

func TestVectorBuilder_NotConfigured(t *testing.T) {
	var b *VectorBuilder
	_, err := b.Build(&core.EligibilityQuery{Rank: 1}, core.NewOffering("a", "b", "c", nil))
	require.Error(t, err)
	assert.True(t, core.IsRowError(err))

	b = &VectorBuilder{Encoders: &EncoderSet{}}
	_, err = b.Build(&core.EligibilityQuery{Rank: 1}, core.NewOffering("a", "b", "c", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}
