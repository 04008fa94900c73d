// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedscan

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network selects address version bytes, bech32 prefixes and the BIP44 coin
// type used for canonical paths.
type Network int

// Supported networks. Testnet and Signet share version bytes and the "tb"
// prefix, so their addresses are interchangeable.
const (
	Mainnet Network = iota
	Testnet
	Signet
	Regtest
)

var networkParams = map[Network]*chaincfg.Params{
	Mainnet: &chaincfg.MainNetParams,
	Testnet: &chaincfg.TestNet3Params,
	Signet:  &chaincfg.SigNetParams,
	Regtest: &chaincfg.RegressionNetParams,
}

var networkNames = map[Network]string{
	Mainnet: "mainnet",
	Testnet: "testnet",
	Signet:  "signet",
	Regtest: "regtest",
}

// ParseNetwork resolves a network name. "bitcoin" and "testnet3" are
// accepted as aliases for mainnet and testnet.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mainnet", "main", "bitcoin":
		return Mainnet, nil
	case "testnet", "testnet3", "test":
		return Testnet, nil
	case "signet":
		return Signet, nil
	case "regtest":
		return Regtest, nil
	}
	return Mainnet, WrapError(ErrUnsupportedCombination, "parse network", fmt.Errorf("unknown network %q", name))
}

func (n Network) String() string {
	if name, ok := networkNames[n]; ok {
		return name
	}
	return fmt.Sprintf("network(%d)", int(n))
}

// Params returns the chaincfg parameters for the network.
func (n Network) Params() (*chaincfg.Params, error) {
	params, ok := networkParams[n]
	if !ok {
		return nil, WrapError(ErrUnsupportedCombination, "network params", fmt.Errorf("unknown network %d", int(n)))
	}
	return params, nil
}

// CoinType returns the BIP44 coin type: 0 on mainnet, 1 on every test network.
func (n Network) CoinType() uint32 {
	if n == Mainnet {
		return 0
	}
	return 1
}
