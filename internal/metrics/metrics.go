package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the aggregation engine.
type Metrics struct {
	FeedRequests   *prometheus.CounterVec
	FeedRetries    *prometheus.CounterVec
	FeedRecords    *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
	QuerySeconds   prometheus.Histogram
	ActiveWorkers  prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		FeedRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "disaster_feed_requests_total",
			Help: "Total number of page requests issued to disaster feeds.",
		}, []string{"feed", "status"}),
		FeedRetries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "disaster_feed_retries_total",
			Help: "Total number of retried page requests, per feed.",
		}, []string{"feed"}),
		FeedRecords: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "disaster_feed_records_total",
			Help: "Total number of raw feature records fetched, per feed.",
		}, []string{"feed"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "disaster_feed_request_duration_seconds",
			Help:    "Duration of individual feed page requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"feed"}),
		QuerySeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "disaster_query_duration_seconds",
			Help:    "End-to-end duration of one location query across all feeds.",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "disaster_active_batch_workers",
			Help: "Current number of workers processing batch locations.",
		}),
	}
}
