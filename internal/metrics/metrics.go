// Package metrics exposes Prometheus collectors for the lookup service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leengari/allergy-lookup/internal/engine"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergy_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "allergy_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// SearchesTotal counts searches by outcome (match, no_match, empty_query, unavailable).
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergy_searches_total",
			Help: "Total number of dataset searches",
		},
		[]string{"outcome"},
	)
	// SearchDuration is the time spent scanning the dataset.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allergy_search_duration_seconds",
			Help:    "Dataset search latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
		},
	)
	// DatasetRows is the number of rows in the dataset being served.
	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "allergy_dataset_rows",
			Help: "Rows in the currently served dataset",
		},
	)
	// DatasetAvailable is 1 when a dataset is loaded, 0 otherwise.
	DatasetAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "allergy_dataset_available",
			Help: "Whether a dataset is loaded (1) or not (0)",
		},
	)
)

// RecordDataset publishes the dataset gauges after a load or reload
func RecordDataset(available bool, rows int) {
	if available {
		DatasetAvailable.Set(1)
	} else {
		DatasetAvailable.Set(0)
	}
	DatasetRows.Set(float64(rows))
}

// SearchObserver feeds engine events into the search collectors
type SearchObserver struct{}

// OnEvent implements engine.Observer
func (SearchObserver) OnEvent(event engine.Event) {
	if event.Type != engine.EventSearchEnd {
		return
	}
	SearchesTotal.WithLabelValues(string(event.Outcome)).Inc()
	SearchDuration.Observe(event.Duration.Seconds())
}

// Middleware records request count and latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
