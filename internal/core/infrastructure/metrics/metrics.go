package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "prophet"

// 调用结果标签
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics SDK 运行指标
//
// 所有方法对 nil 接收者安全，未启用指标时可直接传 nil。
type Metrics struct {
	batchCalls      *prometheus.CounterVec
	batchDuration   *prometheus.HistogramVec
	batchRecords    *prometheus.CounterVec
	schemaCache     *prometheus.CounterVec
	metadataFetches *prometheus.CounterVec
}

// New 在指定注册表上创建指标
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		batchCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "batch",
				Name:      "calls_total",
				Help:      "Total number of batch read calls",
			},
			[]string{"kind", "result"},
		),
		batchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "batch",
				Name:      "call_duration_seconds",
				Help:      "Batch read call duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"kind"},
		),
		batchRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "batch",
				Name:      "records_total",
				Help:      "Total number of records decoded from batch replies",
			},
			[]string{"kind"},
		),
		schemaCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "schema",
				Name:      "cache_lookups_total",
				Help:      "Schema cache lookups by result",
			},
			[]string{"result"},
		),
		metadataFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "metadata",
				Name:      "fetches_total",
				Help:      "Metadata fetches by source and result",
			},
			[]string{"source", "result"},
		),
	}
}

// ObserveBatch 记录一次批量调用
func (m *Metrics) ObserveBatch(kind string, started time.Time, records int, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.batchCalls.WithLabelValues(kind, result).Inc()
	m.batchDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if err == nil {
		m.batchRecords.WithLabelValues(kind).Add(float64(records))
	}
}

// SchemaCacheHit 记录 Schema 缓存命中
func (m *Metrics) SchemaCacheHit() {
	if m == nil {
		return
	}
	m.schemaCache.WithLabelValues("hit").Inc()
}

// SchemaCacheMiss 记录 Schema 缓存未命中
func (m *Metrics) SchemaCacheMiss() {
	if m == nil {
		return
	}
	m.schemaCache.WithLabelValues("miss").Inc()
}

// MetadataFetch 记录一次元数据读取，source 为 memory / disk / gateway
func (m *Metrics) MetadataFetch(source string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.metadataFetches.WithLabelValues(source, result).Inc()
}
