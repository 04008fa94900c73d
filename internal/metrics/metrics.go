// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/complex-gh/seedscan/scan"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const namespace = "seedscan"

// Probe outcomes used as the "result" label.
const (
	ResultBalance = "balance"
	ResultEmpty   = "empty"
	ResultError   = "error"
)

// Collector turns scan results into Prometheus counters. It implements
// scan.Reporter.
type Collector struct {
	iterations prometheus.Counter
	probes     *prometheus.CounterVec
	found      prometheus.Counter
}

var _ scan.Reporter = (*Collector)(nil)

// NewCollector registers the scan counters with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Number of mnemonics generated and checked.",
		}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Balance lookups by script type and result.",
		}, []string{"script_type", "result"}),
		found: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "found_sats_total",
			Help:      "Sum of balances found, in satoshis.",
		}),
	}

	for _, collector := range []prometheus.Collector{c.iterations, c.probes, c.found} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Report records one iteration.
func (c *Collector) Report(r scan.IterationResult) {
	c.iterations.Inc()
	for _, p := range r.Probes {
		result := ResultEmpty
		switch {
		case p.Err != nil:
			result = ResultError
		case p.HasBalance():
			result = ResultBalance
			c.found.Add(float64(p.Balance.Sats()))
		}
		c.probes.WithLabelValues(p.ScriptType.String(), result).Inc()
	}
}

// Serve exposes the metrics of gatherer on addr under /metrics until ctx is
// done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		errC <- srv.ListenAndServe()
	}()
	log.Infof("metrics listening on %s", addr)

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errC; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
