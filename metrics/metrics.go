// Package metrics defines the Prometheus metrics for the auction
// coordination service and serves them on a dedicated listener.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/auctionet/auctionet/common"
)

const namespace = common.PackageName

// RequestsTotal counts coordination requests by operation and outcome.
// Labels:
//   - operation: "openAuction", "placeBid" or "closeAuction"
//   - outcome: "ok" or the domain rejection code (e.g. "bid_too_low")
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total coordination requests, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// RequestDuration measures dispatch latency per operation.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of coordination request dispatch.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// AuctionsLive tracks the number of live auctions in the registry.
var AuctionsLive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "auctions_live",
		Help:      "Current number of open auctions held in memory.",
	},
)

// MetricsServer exposes the Prometheus registry over HTTP.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr. An empty addr yields
// a server that never starts; callers check the address before use.
func New(addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 5 * time.Second,
		},
	}, nil
}

// ListenAndServe blocks serving the metrics endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
