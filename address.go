// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedscan

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ScriptType is one of the four single-key output formats.
type ScriptType int

const (
	// P2PKH is a legacy pay-to-pubkey-hash output (BIP44).
	P2PKH ScriptType = iota
	// P2SHWPKH is a P2WPKH program nested in a P2SH output (BIP49).
	P2SHWPKH
	// P2WPKH is a native segwit v0 output (BIP84).
	P2WPKH
	// P2TR is a key-path-only taproot output (BIP86).
	P2TR
)

// ScriptTypes lists every supported script type in canonical order.
var ScriptTypes = []ScriptType{P2PKH, P2SHWPKH, P2WPKH, P2TR}

var scriptTypePurposes = map[ScriptType]uint32{
	P2PKH:    44,
	P2SHWPKH: 49,
	P2WPKH:   84,
	P2TR:     86,
}

var scriptTypeNames = map[ScriptType]string{
	P2PKH:    "p2pkh",
	P2SHWPKH: "p2sh-p2wpkh",
	P2WPKH:   "p2wpkh",
	P2TR:     "p2tr",
}

var scriptTypeAliases = map[string]ScriptType{
	"legacy":        P2PKH,
	"nested-segwit": P2SHWPKH,
	"p2wpkh-p2sh":   P2SHWPKH,
	"segwit":        P2WPKH,
	"native-segwit": P2WPKH,
	"taproot":       P2TR,
}

func (st ScriptType) String() string {
	if name, ok := scriptTypeNames[st]; ok {
		return name
	}
	return fmt.Sprintf("scripttype(%d)", int(st))
}

// Purpose returns the BIP43 purpose number conventionally used for st.
func (st ScriptType) Purpose() (uint32, error) {
	purpose, ok := scriptTypePurposes[st]
	if !ok {
		return 0, WrapError(ErrUnsupportedCombination, "script type purpose", fmt.Errorf("unknown script type %d", int(st)))
	}
	return purpose, nil
}

// ParseScriptType resolves a script type name or a friendly alias such as
// "taproot".
func ParseScriptType(name string) (ScriptType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for st, n := range scriptTypeNames {
		if n == name {
			return st, nil
		}
	}
	if st, ok := scriptTypeAliases[name]; ok {
		return st, nil
	}
	return 0, WrapError(ErrUnsupportedCombination, "parse script type", fmt.Errorf("unknown script type %q", name))
}

// ScriptTypeForPurpose maps a BIP43 purpose (44, 49, 84 or 86) to its script
// type.
func ScriptTypeForPurpose(purpose uint32) (ScriptType, error) {
	for st, p := range scriptTypePurposes {
		if p == purpose {
			return st, nil
		}
	}
	return 0, WrapError(ErrUnsupportedCombination, "script type for purpose", fmt.Errorf("no script type for purpose %d", purpose))
}

func scriptTypeForPath(path DerivationPath) (ScriptType, error) {
	purpose, ok := path.Purpose()
	if !ok {
		return 0, WrapError(ErrUnsupportedCombination, "script type for path", fmt.Errorf("path %s has no purpose", path))
	}
	return ScriptTypeForPurpose(purpose)
}

// addressEncoder turns a compressed public key into an address.
type addressEncoder func(pub *btcec.PublicKey, params *chaincfg.Params) (btcutil.Address, error)

var addressEncoders = map[ScriptType]addressEncoder{
	P2PKH:    encodeP2PKH,
	P2SHWPKH: encodeP2SHWPKH,
	P2WPKH:   encodeP2WPKH,
	P2TR:     encodeP2TR,
}

func encodeP2PKH(pub *btcec.PublicKey, params *chaincfg.Params) (btcutil.Address, error) {
	return btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub.SerializeCompressed()), params)
}

func encodeP2SHWPKH(pub *btcec.PublicKey, params *chaincfg.Params) (btcutil.Address, error) {
	redeemScript, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(btcutil.Hash160(pub.SerializeCompressed())).
		Script()
	if err != nil {
		return nil, err
	}
	return btcutil.NewAddressScriptHash(redeemScript, params)
}

func encodeP2WPKH(pub *btcec.PublicKey, params *chaincfg.Params) (btcutil.Address, error) {
	return btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pub.SerializeCompressed()), params)
}

// encodeP2TR commits to the BIP86 output key: the internal key tweaked with
// an empty script tree.
func encodeP2TR(pub *btcec.PublicKey, params *chaincfg.Params) (btcutil.Address, error) {
	outputKey := txscript.ComputeTaprootKeyNoScript(pub)
	return btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), params)
}

// EncodeAddress renders the address of pub for the given script type and
// network. Unknown script types or networks fail with
// ErrUnsupportedCombination.
func EncodeAddress(pub *btcec.PublicKey, st ScriptType, net Network) (string, error) {
	params, err := net.Params()
	if err != nil {
		return "", err
	}
	encode, ok := addressEncoders[st]
	if !ok {
		return "", WrapError(ErrUnsupportedCombination, "encode address", fmt.Errorf("%s on %s", st, net))
	}
	addr, err := encode(pub, params)
	if err != nil {
		return "", WrapError(ErrUnsupportedCombination, "encode address", err)
	}
	return addr.EncodeAddress(), nil
}

// EncodeWIF renders priv in compressed Wallet Import Format.
func EncodeWIF(priv *btcec.PrivateKey, net Network) (string, error) {
	params, err := net.Params()
	if err != nil {
		return "", err
	}
	wif, err := btcutil.NewWIF(priv, params, true)
	if err != nil {
		return "", fmt.Errorf("could not encode wif: %w", err)
	}
	return wif.String(), nil
}

// DerivedAddress is one derived address along with the data needed to find
// it again.
type DerivedAddress struct {
	Address    string
	Path       string
	ScriptType ScriptType
	Network    Network
	// PublicKey is the hex encoded compressed public key.
	PublicKey string
}

func newDerivedAddress(key *ExtendedKey, path DerivationPath, st ScriptType) (DerivedAddress, error) {
	pub, err := key.PublicKey()
	if err != nil {
		return DerivedAddress{}, err
	}
	addr, err := EncodeAddress(pub, st, key.Network())
	if err != nil {
		return DerivedAddress{}, err
	}
	return DerivedAddress{
		Address:    addr,
		Path:       path.String(),
		ScriptType: st,
		Network:    key.Network(),
		PublicKey:  hex.EncodeToString(pub.SerializeCompressed()),
	}, nil
}
