// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/complex-gh/seedscan"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// NetworkKey is the Bitcoin network: mainnet, testnet, signet or regtest
	NetworkKey = "network"
	// WordsKey is the word count of generated mnemonics
	WordsKey = "words"
	// LanguageKey is the BIP39 wordlist of generated mnemonics
	LanguageKey = "language"
	// EndpointKey lists the Esplora API base URLs, tried in order
	EndpointKey = "endpoint"
	// TimeoutKey bounds every balance lookup
	TimeoutKey = "timeout"
	// ConcurrencyKey is the number of balance lookups in flight per iteration
	ConcurrencyKey = "concurrency"
	// RateKey caps provider requests per second, 0 disables the cap
	RateKey = "rate"
	// LogLevelKey is a logrus level name. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "log-level"
	// MetricsAddrKey is the listen address of the Prometheus endpoint, empty disables it
	MetricsAddrKey = "metrics-addr"
	// IterationsKey is the number of mnemonics a scan generates
	IterationsKey = "iterations"

	envPrefix = "SEEDSCAN"
)

// DefaultEndpoints holds the public Esplora instances used when none are
// configured. Regtest has none.
var DefaultEndpoints = map[seedscan.Network][]string{
	seedscan.Mainnet: {"https://mempool.space/api", "https://blockstream.info/api"},
	seedscan.Testnet: {"https://mempool.space/testnet/api", "https://blockstream.info/testnet/api"},
	seedscan.Signet:  {"https://mempool.space/signet/api"},
}

// Config is the resolved configuration of a seedscan invocation.
type Config struct {
	Network     seedscan.Network
	WordCount   seedscan.WordCount
	Language    seedscan.Language
	Endpoints   []string
	Timeout     time.Duration
	Concurrency int
	Rate        int
	LogLevel    logrus.Level
	MetricsAddr string
	Iterations  int
}

// Load resolves the configuration from, in order of precedence, changed
// flags, SEEDSCAN_* environment variables, the optional YAML/JSON/TOML file
// and built-in defaults. flags may be nil.
func Load(flags *pflag.FlagSet, file string) (*Config, error) {
	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, "mainnet")
	vip.SetDefault(WordsKey, 12)
	vip.SetDefault(LanguageKey, "english")
	vip.SetDefault(TimeoutKey, 10*time.Second)
	vip.SetDefault(ConcurrencyKey, 1)
	vip.SetDefault(RateKey, 0)
	vip.SetDefault(LogLevelKey, "info")
	vip.SetDefault(MetricsAddrKey, "")
	vip.SetDefault(IterationsKey, 1)

	if file != "" {
		vip.SetConfigFile(file)
		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error while reading config file: %w", err)
		}
	}
	if flags != nil {
		if err := vip.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("error while binding flags: %w", err)
		}
	}

	cfg, err := fromViper(vip)
	if err != nil {
		return nil, fmt.Errorf("error while validating config: %w", err)
	}
	return cfg, nil
}

func fromViper(vip *viper.Viper) (*Config, error) {
	net, err := seedscan.ParseNetwork(vip.GetString(NetworkKey))
	if err != nil {
		return nil, err
	}

	words := seedscan.WordCount(vip.GetInt(WordsKey))
	if _, err := words.EntropyBits(); err != nil {
		return nil, err
	}

	lang, err := seedscan.LanguageFromString(vip.GetString(LanguageKey))
	if err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(vip.GetString(LogLevelKey))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Network:     net,
		WordCount:   words,
		Language:    lang,
		Endpoints:   splitEndpoints(vip.GetStringSlice(EndpointKey)),
		Timeout:     vip.GetDuration(TimeoutKey),
		Concurrency: vip.GetInt(ConcurrencyKey),
		Rate:        vip.GetInt(RateKey),
		LogLevel:    level,
		MetricsAddr: vip.GetString(MetricsAddrKey),
		Iterations:  vip.GetInt(IterationsKey),
	}
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = append([]string(nil), DefaultEndpoints[net]...)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("%s must be positive", TimeoutKey)
	}
	if cfg.Concurrency <= 0 {
		return nil, fmt.Errorf("%s must be positive", ConcurrencyKey)
	}
	if cfg.Rate < 0 {
		return nil, fmt.Errorf("%s must not be negative", RateKey)
	}
	if cfg.Iterations < 0 {
		return nil, fmt.Errorf("%s must not be negative", IterationsKey)
	}
	return cfg, nil
}

// RequireEndpoints fails when no provider endpoint is configured, which
// only happens on regtest without --endpoint.
func (c *Config) RequireEndpoints() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("no default endpoint for %s, set --%s", c.Network, EndpointKey)
	}
	return nil
}

// splitEndpoints accepts repeated values as well as comma separated lists.
func splitEndpoints(values []string) []string {
	var out []string
	for _, v := range values {
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				out = append(out, e)
			}
		}
	}
	return out
}
