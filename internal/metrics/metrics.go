// Package metrics exposes the optimiser's running state as Prometheus
// gauges and counters, served over an optional HTTP listener while a
// search runs.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

var (
	// Temperature reports each worker's current cooling-schedule
	// temperature.
	Temperature = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "carshare_sa",
		Name:      "temperature",
		Help:      "Current simulated-annealing temperature, by worker.",
	}, []string{"worker"})

	// BestCost reports each worker's best-ever solution cost.
	BestCost = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "carshare_sa",
		Name:      "best_cost",
		Help:      "Best solution cost found so far, by worker.",
	}, []string{"worker"})

	// Iterations counts inner-loop iterations completed, by worker.
	Iterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carshare_sa",
		Name:      "iterations_total",
		Help:      "Total inner-loop iterations completed, by worker.",
	}, []string{"worker"})
)

// Serve starts an HTTP server exposing /metrics on addr and blocks until
// ctx is cancelled, at which point it shuts the server down. A non-nil
// error is only returned for a listen failure; a clean shutdown on
// cancellation returns nil.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		klog.V(2).InfoS("shutting down metrics server", "addr", addr)
		return srv.Shutdown(context.Background())
	}
}
