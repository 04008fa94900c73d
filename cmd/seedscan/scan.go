package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/complex-gh/seedscan"
	"github.com/complex-gh/seedscan/internal/config"
	"github.com/complex-gh/seedscan/internal/metrics"
	"github.com/complex-gh/seedscan/provider/esplora"
	"github.com/complex-gh/seedscan/scan"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runScan health-checks the provider, probes the optional address and runs
// the scan loop.
func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid iterations %q: must be a non-negative integer", args[0])
		}
		cfg.Iterations = n
	}
	var address string
	if len(args) > 1 {
		address = args[1]
	}

	if err := cfg.RequireEndpoints(); err != nil {
		return err
	}
	pass, err := passphrase()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := esplora.NewService(cfg.Endpoints,
		esplora.WithRateLimit(cfg.Rate),
		esplora.WithLogger(log.StandardLogger()),
	)
	if err != nil {
		return err
	}

	healthCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	err = svc.HealthCheck(healthCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("provider %s is not reachable: %w", svc.Endpoint(), err)
	}

	if address != "" {
		if err := probeAddress(ctx, svc, address, cfg); err != nil {
			return err
		}
	}

	reporters := []scan.Reporter{scan.ReporterFunc(printIteration)}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			return err
		}
		reporters = append(reporters, collector)

		metricsCtx, stopMetrics := context.WithCancel(ctx)
		defer stopMetrics()
		go func() {
			if err := metrics.Serve(metricsCtx, cfg.MetricsAddr, reg); err != nil {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	scanner, err := scan.New(svc, scan.Config{
		Network:     cfg.Network,
		WordCount:   cfg.WordCount,
		Language:    cfg.Language,
		Passphrase:  pass,
		Concurrency: cfg.Concurrency,
		Timeout:     cfg.Timeout,
		Logger:      log.StandardLogger(),
		Reporter:    scan.MultiReporter(reporters...),
	})
	if err != nil {
		return err
	}

	report, err := scanner.Run(ctx, cfg.Iterations)
	if report != nil {
		printReport(report)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// probeAddress looks up a single address and prints its balance. Any failure
// is returned.
func probeAddress(ctx context.Context, svc *esplora.Service, address string, cfg *config.Config) error {
	hash, err := seedscan.ScriptHash(address, cfg.Network)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	balance, err := svc.Balance(ctx, address)
	if err != nil {
		return fmt.Errorf("could not look up %s: %w", address, err)
	}

	fmt.Printf("[balance of %s]\n", address)
	fmt.Println()
	fmt.Printf("%s BTC (%d transactions)\n", formatBTC(balance.Sats()), balance.TxCount)
	fmt.Printf("%s (script hash)\n", hash)
	fmt.Println()
	return nil
}

// printIteration writes the mnemonic and every probe of one iteration.
func printIteration(r scan.IterationResult) {
	fmt.Printf("[iteration %d]\n", r.Iteration)
	fmt.Println()
	fmt.Println(r.Mnemonic)
	fmt.Println()
	for _, p := range r.Probes {
		fmt.Printf("%s (%s - %s)\n", p.Address, p.ScriptType, p.Path)
		fmt.Printf("  script hash: %s\n", p.ScriptHash)
		if p.Err != nil {
			printStyled(errorStyle, p.Err.Error())
			continue
		}
		fmt.Printf("  balance:     %s BTC\n", formatBTC(p.Balance.Sats()))
		if p.HasBalance() {
			printStyled(foundStyle, fmt.Sprintf("FOUND %s BTC at %s", formatBTC(p.Balance.Sats()), p.Address))
		}
	}
	fmt.Println()
}

func printReport(r *scan.Report) {
	fmt.Printf("[scan %s]\n", r.RunID)
	fmt.Println()
	fmt.Printf("%d iterations\n", r.Stats.Iterations)
	fmt.Printf("%d addresses with balance\n", r.Stats.WithBalance)
	fmt.Printf("%d addresses without balance\n", r.Stats.WithoutBalance)
	fmt.Printf("%d failed lookups\n", r.Stats.Failed)
	fmt.Printf("%s elapsed\n", r.Elapsed.Round(time.Millisecond))
	for _, p := range r.Found {
		fmt.Printf("%s %s BTC (%s)\n", p.Address, formatBTC(p.Balance.Sats()), p.Path)
	}
}

// formatBTC renders satoshis as a BTC amount with eight decimals.
func formatBTC(sats int64) string {
	return decimal.New(sats, -8).StringFixed(8) //nolint:mnd
}
