package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	for _, v := range []any{1, int64(1), int32(1), 1.0, float32(1), true} {
		f, ok := ToFloat64(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, 1.0, f)
	}
	_, ok := ToFloat64("1")
	assert.False(t, ok)
	_, ok = ToFloat64(nil)
	assert.False(t, ok)
}

func TestSliceAnyToFloat64(t *testing.T) {
	got, ok := SliceAnyToFloat64([]any{1, 0.5, int64(-2)})
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 0.5, -2}, got)

	_, ok = SliceAnyToFloat64([]any{1, "x"})
	assert.False(t, ok)

	_, ok = SliceAnyToFloat64("nope")
	assert.False(t, ok)
}

func TestConfigGet(t *testing.T) {
	cfg := map[string]any{"name": "lr", "n": 10, "f": 2.5, "bias": 1, "flag": true}

	assert.Equal(t, "lr", ConfigGet(cfg, "name", ""))
	assert.Equal(t, "x", ConfigGet(cfg, "missing", "x"))
	assert.Equal(t, true, ConfigGet(cfg, "flag", false))
	assert.Equal(t, "", ConfigGet(cfg, "n", ""), "type mismatch falls back")

	assert.Equal(t, int64(10), ConfigGetInt64(cfg, "n", 0))
	assert.Equal(t, int64(2), ConfigGetInt64(cfg, "f", 0))
	assert.Equal(t, int64(7), ConfigGetInt64(nil, "n", 7))

	assert.Equal(t, 1.0, ConfigGetFloat64(cfg, "bias", 0))
	assert.Equal(t, 2.5, ConfigGetFloat64(cfg, "f", 0))
	assert.Equal(t, 3.0, ConfigGetFloat64(cfg, "missing", 3))
}
