// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/complex-gh/seedscan"
	"github.com/complex-gh/seedscan/scan"
	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testResult() scan.IterationResult {
	probe := func(st seedscan.ScriptType, b scan.Balance, err error) scan.Probe {
		return scan.Probe{
			DerivedAddress: seedscan.DerivedAddress{ScriptType: st},
			Balance:        b,
			Err:            err,
		}
	}
	return scan.IterationResult{
		Iteration: 1,
		Probes: []scan.Probe{
			probe(seedscan.P2PKH, scan.Balance{}, nil),
			probe(seedscan.P2SHWPKH, scan.Balance{}, errors.New("timeout")),
			probe(seedscan.P2WPKH, scan.Balance{Funded: 10, Spent: 10}, nil),
			probe(seedscan.P2TR, scan.Balance{Funded: 5000}, nil),
		},
	}
}

func TestCollector(t *testing.T) {
	is := is.New(t)

	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	is.NoErr(err)

	c.Report(testResult())
	c.Report(testResult())

	is.Equal(testutil.ToFloat64(c.iterations), float64(2))
	is.Equal(testutil.ToFloat64(c.found), float64(10000))
	is.Equal(testutil.ToFloat64(c.probes.WithLabelValues("p2pkh", ResultEmpty)), float64(2))
	is.Equal(testutil.ToFloat64(c.probes.WithLabelValues("p2sh-p2wpkh", ResultError)), float64(2))
	is.Equal(testutil.ToFloat64(c.probes.WithLabelValues("p2wpkh", ResultEmpty)), float64(2))
	is.Equal(testutil.ToFloat64(c.probes.WithLabelValues("p2tr", ResultBalance)), float64(2))
}

func TestCollector_DoubleRegister(t *testing.T) {
	is := is.New(t)

	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	is.NoErr(err)
	_, err = NewCollector(reg)
	is.True(err != nil)
}

func TestServe(t *testing.T) {
	is := is.New(t)

	// grab a free port
	l, err := net.Listen("tcp", "127.0.0.1:0")
	is.NoErr(err)
	addr := l.Addr().String()
	is.NoErr(l.Close())

	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	is.NoErr(err)
	c.Report(testResult())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, reg) }()

	var body string
	for i := 0; i < 50; i++ {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			time.Sleep(20 * time.Millisecond)
			continue
		}
		b, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		is.NoErr(err)
		body = string(b)
		break
	}
	is.True(strings.Contains(body, "seedscan_iterations_total 1"))
	is.True(strings.Contains(body, `seedscan_probes_total{result="balance",script_type="p2tr"} 1`))

	cancel()
	is.NoErr(<-done)
}
