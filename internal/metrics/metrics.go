// Package metrics exposes Prometheus instrumentation for the bridge.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	authExchangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mstodo_auth_exchanges_total",
		Help: "Total number of authorization-code exchanges.",
	}, []string{"result"})

	syncCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mstodo_sync_cycles_total",
		Help: "Total number of task-list sync cycles.",
	}, []string{"result"})

	optionRepublishTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mstodo_option_republish_total",
		Help: "Total number of dynamic option-set republish events.",
	})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mstodo_sync_duration_seconds",
		Help:    "Histogram of task-list sync cycle latencies.",
		Buckets: prometheus.DefBuckets,
	})

	graphRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mstodo_graph_requests_total",
		Help: "Total number of Microsoft Graph requests.",
	}, []string{"result"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mstodo_http_requests_total",
		Help: "Total number of HTTP requests on the authorization endpoint.",
	}, []string{"method", "path"})
)

// RecordAuthExchange counts one code-for-token exchange outcome.
func RecordAuthExchange(ok bool) {
	authExchangesTotal.WithLabelValues(resultLabel(ok)).Inc()
}

// RecordSyncCycle counts one completed sync cycle and its duration.
func RecordSyncCycle(ok bool, elapsed time.Duration) {
	syncCyclesTotal.WithLabelValues(resultLabel(ok)).Inc()
	syncDuration.Observe(elapsed.Seconds())
}

// RecordGraphRequest counts one Microsoft Graph request outcome.
func RecordGraphRequest(ok bool) {
	graphRequestsTotal.WithLabelValues(resultLabel(ok)).Inc()
}

// RecordOptionRepublish counts one option-set republish event.
func RecordOptionRepublish() {
	optionRepublishTotal.Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// Middleware counts requests on the authorization endpoint.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path).Inc()
		next.ServeHTTP(w, r)
	})
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
