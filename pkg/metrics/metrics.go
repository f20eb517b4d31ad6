package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "printforge",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "printforge",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	pointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "printforge",
		Subsystem: "loyalty",
		Name:      "points_awarded_total",
		Help:      "Total loyalty points awarded across all wallets",
	})

	pointsRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "printforge",
		Subsystem: "loyalty",
		Name:      "points_redeemed_total",
		Help:      "Total loyalty points redeemed across all wallets",
	})

	auditMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "printforge",
		Subsystem: "loyalty",
		Name:      "ledger_audit_mismatches_total",
		Help:      "Wallets whose counters disagreed with the transaction log during an audit sweep",
	})

	vendorRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "printforge",
		Subsystem: "vendor",
		Name:      "requests_total",
		Help:      "Outbound vendor API requests by endpoint and status code",
	}, []string{"endpoint", "status"})
)

// Handler exposes the default prometheus registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// AddPointsAwarded records points credited to wallets.
func AddPointsAwarded(points int64) {
	if points > 0 {
		pointsAwarded.Add(float64(points))
	}
}

// AddPointsRedeemed records points debited from wallets.
func AddPointsRedeemed(points int64) {
	if points > 0 {
		pointsRedeemed.Add(float64(points))
	}
}

// IncAuditMismatch records one wallet flagged by the ledger audit job.
func IncAuditMismatch() {
	auditMismatches.Inc()
}

// ObserveVendorRequest records one outbound vendor API call.
func ObserveVendorRequest(endpoint string, status int) {
	vendorRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}
