// Package metrics 定义 Feed 链路的 Prometheus 指标。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 召回源结果
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeTimeout     = "timeout"
	OutcomeSkipped     = "skipped"
	OutcomeUnavailable = "unavailable" // 目录熔断打开，调用未发出
)

var (
	// RecallSourceTotal 召回源执行次数，按结果分类
	RecallSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_recall_source_total",
			Help: "Recall source executions by outcome",
		},
		[]string{"source", "outcome"},
	)

	// RecallSourceItems 召回源返回条数
	RecallSourceItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedrank_recall_source_items",
			Help:    "Items returned per recall source execution",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
		},
		[]string{"source"},
	)

	// FilteredTotal 被过滤的条目数，按过滤器分类
	FilteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_filtered_items_total",
			Help: "Candidates dropped by filter",
		},
		[]string{"filter"},
	)

	// NodeDuration Pipeline 各节点耗时
	NodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedrank_pipeline_node_duration_seconds",
			Help:    "Duration of pipeline nodes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"node", "kind"},
	)

	// PagesTotal 分页请求数，result: served / empty / exhausted / stale
	PagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_pages_total",
			Help: "Feed page requests by result",
		},
		[]string{"result"},
	)

	// ItemsEmitted 输出的条目总数
	ItemsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedrank_items_emitted_total",
			Help: "Total feed items emitted to callers",
		},
	)

	// CatalogRequestDuration 目录服务请求耗时
	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedrank_catalog_request_duration_seconds",
			Help:    "Duration of catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)
)

// RecordRecall 记录一次召回源执行。
func RecordRecall(source, outcome string, items int) {
	RecallSourceTotal.WithLabelValues(source, outcome).Inc()
	if outcome == OutcomeOK {
		RecallSourceItems.WithLabelValues(source).Observe(float64(items))
	}
}

// ObserveNode 记录节点耗时。
func ObserveNode(node, kind string, start time.Time) {
	NodeDuration.WithLabelValues(node, kind).Observe(time.Since(start).Seconds())
}

// ObserveCatalog 记录目录请求耗时。
func ObserveCatalog(operation string, err error, start time.Time) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	CatalogRequestDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
