// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedscan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
)

// ScriptPubKey decodes address for net and returns its output script.
//
// The address must be valid on net: a mainnet address checked against
// testnet, a "tb1" address checked against regtest or a bad checksum all
// fail with ErrInvalidAddress.
func ScriptPubKey(address string, net Network) ([]byte, error) {
	const op = "script pubkey"

	params, err := net.Params()
	if err != nil {
		return nil, err
	}
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, WrapError(ErrInvalidAddress, op, err)
	}
	// DecodeAddress accepts bech32 addresses of any known network.
	if !addr.IsForNet(params) {
		return nil, WrapError(ErrInvalidAddress, op, fmt.Errorf("%s is not a %s address", address, net))
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, WrapError(ErrInvalidAddress, op, err)
	}
	return script, nil
}

// ScriptHash returns the Electrum protocol script hash of address: the
// SHA256 of its output script with the byte order reversed, as lowercase
// hex.
func ScriptHash(address string, net Network) (string, error) {
	script, err := ScriptPubKey(address, net)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(script)
	slices.Reverse(sum[:])
	return hex.EncodeToString(sum[:]), nil
}
