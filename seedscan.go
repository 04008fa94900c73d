// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package seedscan derives Bitcoin keys and addresses from BIP39 mnemonics.
// It does not store keys and never talks to the network; balance lookups
// live in the scan package.
//
// The package covers the four single-key output formats in use today:
// legacy P2PKH (BIP44), nested segwit P2SH-P2WPKH (BIP49), native segwit
// P2WPKH (BIP84) and key-path-only taproot P2TR (BIP86). Mainnet, testnet,
// signet and regtest are supported.
package seedscan

import (
	"fmt"
)

// CanonicalPath returns m/<purpose>'/<coin>'/0'/0/0, the first receive
// address of the first account for st on net.
func CanonicalPath(st ScriptType, net Network) (DerivationPath, error) {
	purpose, err := st.Purpose()
	if err != nil {
		return nil, err
	}
	if _, err := net.Params(); err != nil {
		return nil, err
	}
	return accountPath(purpose, net, 0, 0), nil
}

func accountPath(purpose uint32, net Network, change, index uint32) DerivationPath {
	const h = MaxIndex + 1
	return DerivationPath{h + purpose, h + net.CoinType(), h + 0, change, index}
}

// defaultAccountPath is m/84'/<coin>'/0'.
func defaultAccountPath(net Network) DerivationPath {
	return accountPath(84, net, 0, 0)[:3]
}

// DeriveBitcoinAddress derives a single address from a mnemonic.
//
// The script type follows the purpose of path: 44 gives P2PKH, 49 gives
// P2SH-P2WPKH, 84 gives P2WPKH and 86 gives P2TR. Any other purpose fails
// with ErrUnsupportedCombination. An empty path means m/84'/<coin>'/0'/0/0.
//
// Parameters:
//   - phrase: The BIP39 mnemonic
//   - path: The derivation path, e.g. "m/44'/0'/0'/0/0"
//   - net: The network to encode the address for
//   - passphrase: The optional BIP39 passphrase
//
// Returns:
//   - The derived address, its canonical path and public key
//   - An error if any input is invalid
func DeriveBitcoinAddress(phrase, path string, net Network, passphrase string) (*DerivedAddress, error) {
	m, err := ParseMnemonic(phrase)
	if err != nil {
		return nil, err
	}
	p, err := pathOrDefault(path, accountPath(84, net, 0, 0))
	if err != nil {
		return nil, err
	}
	st, err := scriptTypeForPath(p)
	if err != nil {
		return nil, err
	}
	root, err := NewRootKey(m.Seed(passphrase), net)
	if err != nil {
		return nil, err
	}
	key, err := root.DerivePath(p)
	if err != nil {
		return nil, err
	}
	addr, err := newDerivedAddress(key, p, st)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// DeriveBitcoinAddresses is DeriveRange with m/84'/<coin>'/0' as the
// account path when accountPath is empty.
func DeriveBitcoinAddresses(phrase, accountPath string, net Network, passphrase string, isChange bool, start, count uint32) ([]DerivedAddress, error) {
	if accountPath == "" {
		accountPath = defaultAccountPath(net).String()
	}
	return DeriveRange(phrase, accountPath, net, passphrase, isChange, start, count)
}

// DeriveCanonicalAddresses derives the first receive address of every script
// type, in the order P2PKH, P2SH-P2WPKH, P2WPKH, P2TR. The seed and root key
// are computed once.
func DeriveCanonicalAddresses(m *Mnemonic, net Network, passphrase string) ([]DerivedAddress, error) {
	root, err := NewRootKey(m.Seed(passphrase), net)
	if err != nil {
		return nil, err
	}

	addrs := make([]DerivedAddress, 0, len(ScriptTypes))
	for _, st := range ScriptTypes {
		path, err := CanonicalPath(st, net)
		if err != nil {
			return nil, err
		}
		key, err := root.DerivePath(path)
		if err != nil {
			return nil, err
		}
		addr, err := newDerivedAddress(key, path, st)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// DerivePrivateKey derives the private key at path and returns it as a
// compressed WIF string.
func DerivePrivateKey(phrase, path string, net Network, passphrase string) (string, error) {
	m, err := ParseMnemonic(phrase)
	if err != nil {
		return "", err
	}
	p, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	root, err := NewRootKey(m.Seed(passphrase), net)
	if err != nil {
		return "", err
	}
	key, err := root.DerivePath(p)
	if err != nil {
		return "", err
	}
	priv, err := key.PrivateKey()
	if err != nil {
		return "", err
	}
	return EncodeWIF(priv, net)
}

// CalculateScriptHash is ScriptHash under the name used by Electrum clients.
func CalculateScriptHash(address string, net Network) (string, error) {
	return ScriptHash(address, net)
}

func pathOrDefault(s string, def DerivationPath) (DerivationPath, error) {
	if s == "" {
		return def, nil
	}
	p, err := ParsePath(s)
	if err != nil {
		return nil, fmt.Errorf("could not parse derivation path: %w", err)
	}
	return p, nil
}
