package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP and ledger instruments exported at /metrics.
type Metrics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	paymentsProcessed *prometheus.CounterVec
	payoutsReviewed   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the instruments on the given registerer.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cotahub",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests partitioned by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cotahub",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency partitioned by method and route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		paymentsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cotahub",
				Subsystem: "ledger",
				Name:      "payments_processed_total",
				Help:      "Webhook payment credits partitioned by outcome.",
			},
			[]string{"outcome"},
		),
		payoutsReviewed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cotahub",
				Subsystem: "ledger",
				Name:      "payouts_reviewed_total",
				Help:      "Admin payout reviews partitioned by decision.",
			},
			[]string{"decision"},
		),
	}
}

// ObservePayment records the outcome of a webhook credit: processed, skipped
// or failed.
func (m *Metrics) ObservePayment(outcome string) {
	m.paymentsProcessed.WithLabelValues(outcome).Inc()
}

// ObservePayoutReview records an admin decision: approved or rejected.
func (m *Metrics) ObservePayoutReview(decision string) {
	m.payoutsReviewed.WithLabelValues(decision).Inc()
}

// Handler instruments every request. Routes are labelled by gin's template
// path, not the raw URL, to keep cardinality bounded.
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
