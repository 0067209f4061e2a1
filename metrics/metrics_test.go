package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Register(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	m.ObserveQuery(StatusSuccess, 0.01)
	m.IncRowsScored(ResultScored)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names[MetricQueriesTotal])
	assert.True(t, names[MetricRowsScoredTotal])
	assert.True(t, names[MetricQueryDuration])

	assert.Error(t, NewMetrics().Register(reg), "duplicate registration should fail")
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.ObserveQuery(StatusSuccess, 0.01)
	m.ObserveQuery(StatusSuccess, 0.02)
	m.ObserveQuery(StatusError, 0.001)
	m.IncRowsScored(ResultScored)
	m.IncRowsScored(ResultUnavailable)
	m.IncRowsScored(ResultUnavailable)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QueriesTotal().WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal().WithLabelValues(StatusError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.QueriesTotal().WithLabelValues(StatusEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsScoredTotal().WithLabelValues(ResultScored)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsScoredTotal().WithLabelValues(ResultUnavailable)))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuery(StatusSuccess, 1)
		m.IncRowsScored(ResultScored)
	})
}
