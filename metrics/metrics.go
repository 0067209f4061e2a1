// Package metrics 提供查询与打分的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 指标名称
const (
	MetricQueriesTotal    = "admitkit_queries_total"
	MetricRowsScoredTotal = "admitkit_rows_scored_total"
	MetricQueryDuration   = "admitkit_query_duration_seconds"
)

// 查询状态标签值
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusError   = "error"
)

// 行打分结果标签值
const (
	ResultScored      = "scored"
	ResultUnavailable = "unavailable"
)

// Metrics 是查询与打分的指标集合，所有方法并发安全。
// 方法在 nil 接收者上是空操作，未配置指标时调用方无需判空。
type Metrics struct {
	queriesTotal    *prometheus.CounterVec
	rowsScoredTotal *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
}

// NewMetrics 创建指标，但不注册；调用 Register 注册到指定的 registry。
func NewMetrics() *Metrics {
	return &Metrics{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricQueriesTotal,
				Help: "Total number of eligibility queries by outcome status",
			},
			[]string{"status"},
		),
		rowsScoredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRowsScoredTotal,
				Help: "Total number of result rows scored by the admission classifier",
			},
			[]string{"result"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricQueryDuration,
				Help:    "Duration of eligibility queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"status"},
		),
	}
}

// Register 把所有指标注册到 reg。
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors 返回全部 collector。
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.queriesTotal,
		m.rowsScoredTotal,
		m.queryDuration,
	}
}

// ObserveQuery 记录一次查询的终态与耗时。
func (m *Metrics) ObserveQuery(status string, seconds float64) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(status).Inc()
	m.queryDuration.WithLabelValues(status).Observe(seconds)
}

// IncRowsScored 记录一行打分结果。
func (m *Metrics) IncRowsScored(result string) {
	if m == nil {
		return
	}
	m.rowsScoredTotal.WithLabelValues(result).Inc()
}

// QueriesTotal 返回查询计数器（测试用）。
func (m *Metrics) QueriesTotal() *prometheus.CounterVec { return m.queriesTotal }

// RowsScoredTotal 返回打分计数器（测试用）。
func (m *Metrics) RowsScoredTotal() *prometheus.CounterVec { return m.rowsScoredTotal }
