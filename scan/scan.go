// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package scan generates random mnemonics, derives their canonical
// addresses and looks up each address with a BalanceProvider.
package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/complex-gh/seedscan"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeout bounds a single balance lookup.
	DefaultTimeout = 10 * time.Second
	// DefaultConcurrency looks addresses up one at a time.
	DefaultConcurrency = 1
)

// Balance is the on-chain activity of one address, confirmed and
// unconfirmed combined.
type Balance struct {
	Funded  int64
	Spent   int64
	TxCount int64
}

// Sats returns the spendable balance in satoshis.
func (b Balance) Sats() int64 {
	return b.Funded - b.Spent
}

// BalanceProvider looks up the balance of an address. Implementations must
// be safe for concurrent use and should return errors matching
// seedscan.ErrProvider.
type BalanceProvider interface {
	Balance(ctx context.Context, address string) (Balance, error)
}

// Probe is the outcome of one balance lookup.
type Probe struct {
	seedscan.DerivedAddress
	ScriptHash string
	Balance    Balance
	Err        error
}

// HasBalance reports whether the lookup succeeded and found funds.
func (p Probe) HasBalance() bool {
	return p.Err == nil && p.Balance.Sats() > 0
}

// IterationResult holds the probes of one mnemonic, ordered by script type.
type IterationResult struct {
	Iteration int
	Mnemonic  string
	Probes    []Probe
}

// Report summarizes a run.
type Report struct {
	RunID   string
	Stats   StatsSnapshot
	Elapsed time.Duration
	Found   []Probe
}

// Config configures a Scanner.
type Config struct {
	Network    seedscan.Network
	WordCount  seedscan.WordCount
	Language   seedscan.Language
	Passphrase string
	// Concurrency is the number of lookups in flight per iteration.
	Concurrency int
	// Timeout bounds each lookup.
	Timeout  time.Duration
	Logger   logrus.FieldLogger
	Reporter Reporter
}

func (c *Config) validate() error {
	if c.WordCount == 0 {
		c.WordCount = seedscan.Words12
	}
	if _, err := c.WordCount.EntropyBits(); err != nil {
		return err
	}
	if _, err := c.Network.Params(); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	if c.Reporter == nil {
		c.Reporter = ReporterFunc(func(IterationResult) {})
	}
	return nil
}

// Scanner runs scans against one provider. A Scanner may be reused; every
// Run has its own statistics.
type Scanner struct {
	provider BalanceProvider
	cfg      Config
}

// New returns a Scanner after validating cfg and filling in defaults.
func New(provider BalanceProvider, cfg Config) (*Scanner, error) {
	if provider == nil {
		return nil, fmt.Errorf("missing balance provider")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid scan config: %w", err)
	}
	return &Scanner{provider: provider, cfg: cfg}, nil
}

// Run performs the given number of iterations. Each iteration generates a
// mnemonic, derives its four canonical addresses and looks every address up.
//
// Lookup failures are recorded on the probe and counted as failed; they do
// not stop the run. Derivation failures abort the run. When ctx is cancelled
// Run stops before the next iteration and returns the partial report along
// with ctx.Err().
func (s *Scanner) Run(ctx context.Context, iterations int) (*Report, error) {
	runID := uuid.NewString()
	log := s.cfg.Logger.WithField("run_id", runID)
	stats := &Stats{}
	start := time.Now()

	report := &Report{RunID: runID}
	finish := func() *Report {
		report.Stats = stats.Snapshot()
		report.Elapsed = time.Since(start)
		return report
	}

	log.WithFields(logrus.Fields{
		"iterations": iterations,
		"network":    s.cfg.Network.String(),
		"words":      int(s.cfg.WordCount),
	}).Info("scan started")

	for i := 1; i <= iterations; i++ {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("scan interrupted")
			return finish(), err
		}

		result, err := s.iterate(ctx, log, i, stats)
		if err != nil {
			log.WithError(err).Error("scan aborted")
			return finish(), err
		}
		for _, p := range result.Probes {
			if p.HasBalance() {
				report.Found = append(report.Found, p)
			}
		}
		s.cfg.Reporter.Report(result)
	}

	finish()
	log.WithFields(logrus.Fields{
		"with_balance":    report.Stats.WithBalance,
		"without_balance": report.Stats.WithoutBalance,
		"failed":          report.Stats.Failed,
		"elapsed":         report.Elapsed.String(),
	}).Info("scan completed")
	return report, nil
}

func (s *Scanner) iterate(ctx context.Context, log logrus.FieldLogger, iteration int, stats *Stats) (IterationResult, error) {
	m, err := seedscan.GenerateMnemonic(s.cfg.WordCount, s.cfg.Language)
	if err != nil {
		return IterationResult{}, err
	}
	addrs, err := seedscan.DeriveCanonicalAddresses(m, s.cfg.Network, s.cfg.Passphrase)
	if err != nil {
		return IterationResult{}, err
	}

	probes := make([]Probe, len(addrs))
	for i, addr := range addrs {
		hash, err := seedscan.ScriptHash(addr.Address, addr.Network)
		if err != nil {
			return IterationResult{}, err
		}
		probes[i] = Probe{DerivedAddress: addr, ScriptHash: hash}
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i := range probes {
		g.Go(func() error {
			s.lookup(ctx, log.WithField("iteration", iteration), &probes[i], stats)
			return nil
		})
	}
	_ = g.Wait()

	stats.iterations.Add(1)
	return IterationResult{Iteration: iteration, Mnemonic: m.String(), Probes: probes}, nil
}

func (s *Scanner) lookup(ctx context.Context, log logrus.FieldLogger, p *Probe, stats *Stats) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	log = log.WithFields(logrus.Fields{
		"address":     p.Address,
		"script_type": p.ScriptType.String(),
	})

	balance, err := s.provider.Balance(ctx, p.Address)
	if err != nil {
		if !errors.Is(err, seedscan.ErrProvider) {
			err = seedscan.WrapError(seedscan.ErrProvider, "balance lookup", err)
		}
		p.Err = err
		stats.failed.Add(1)
		log.WithError(err).Warn("balance lookup failed")
		return
	}

	p.Balance = balance
	if p.HasBalance() {
		stats.withBalance.Add(1)
		log.WithField("sats", balance.Sats()).Info("address with balance found")
		return
	}
	stats.withoutBalance.Add(1)
	log.Debug("address has no balance")
}
