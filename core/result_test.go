package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChanceFromProbability(t *testing.T) {
	c := ChanceFromProbability(0.87654)
	v, ok := c.Value()
	require.True(t, ok)
	assert.Equal(t, 87.65, v)

	assert.False(t, ChanceFromProbability(math.NaN()).Available())
	assert.False(t, ChanceFromProbability(1.5).Available())
	assert.False(t, ChanceFromProbability(-0.1).Available())
	assert.Equal(t, "0.00", ChanceFromProbability(0).String())
}

func TestChanceJSON(t *testing.T) {
	row := RankedResult{Institute: "JNTU", Place: "Hyderabad", Branch: "CSE", CutoffRank: 5000, AdmissionChance: NewChance(42.5)}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"institute":"JNTU","place":"Hyderabad","branch":"CSE","cutoff_rank":5000,"admission_chance":42.5}`, string(data))

	row.AdmissionChance = Unavailable
	data, err = json.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"admission_chance":"unavailable"`)

	var back RankedResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Unavailable, back.AdmissionChance)
}

func TestDomainErrorWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := WrapDomainError(ModuleModel, ErrorCodePredictionFailure, cause, "predict %s", "row")
	wrapped := errors.Join(errors.New("outer"), err)

	assert.True(t, IsRowError(wrapped))
	assert.False(t, IsInputError(wrapped))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "predict row: boom", err.Error())
}
