// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedscan

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// ExtendedKey is a BIP32 node: a key, its chain code and its position in the
// tree. Values are immutable; derivation returns new keys.
type ExtendedKey struct {
	key *hdkeychain.ExtendedKey
	net Network
}

// NewRootKey computes the BIP32 master key of a seed using HMAC-SHA512 keyed
// with "Bitcoin seed". Seeds outside 16..64 bytes and seeds that produce an
// invalid master scalar fail with ErrKeyDerivationFailed.
func NewRootKey(seed []byte, net Network) (*ExtendedKey, error) {
	params, err := net.Params()
	if err != nil {
		return nil, err
	}
	key, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, WrapError(ErrKeyDerivationFailed, "root key", err)
	}
	return &ExtendedKey{key: key, net: net}, nil
}

// DeriveChild derives the child at index, which must be below 2^31. Hardened
// children need a private parent. A step that yields an invalid key is
// reported as ErrKeyDerivationFailed instead of skipping to the next index.
func (k *ExtendedKey) DeriveChild(index uint32, hardened bool) (*ExtendedKey, error) {
	if index > MaxIndex {
		return nil, WrapError(ErrIndexOutOfRange, "derive child", fmt.Errorf("index %d exceeds %d", index, uint32(MaxIndex)))
	}
	if hardened {
		index += hdkeychain.HardenedKeyStart
	}
	child, err := k.key.Derive(index)
	if err != nil {
		return nil, WrapError(ErrKeyDerivationFailed, "derive child", err)
	}
	return &ExtendedKey{key: child, net: k.net}, nil
}

// DerivePath folds DeriveChild over every step of path. An empty path
// returns the receiver.
func (k *ExtendedKey) DerivePath(path DerivationPath) (*ExtendedKey, error) {
	cur := k
	for _, step := range path {
		index, hardened := splitStep(step)
		next, err := cur.DeriveChild(index, hardened)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// PrivateKey returns the secp256k1 private key. Public-only keys fail with
// ErrKeyDerivationFailed.
func (k *ExtendedKey) PrivateKey() (*btcec.PrivateKey, error) {
	priv, err := k.key.ECPrivKey()
	if err != nil {
		return nil, WrapError(ErrKeyDerivationFailed, "private key", err)
	}
	return priv, nil
}

// PublicKey returns the secp256k1 public key.
func (k *ExtendedKey) PublicKey() (*btcec.PublicKey, error) {
	pub, err := k.key.ECPubKey()
	if err != nil {
		return nil, WrapError(ErrKeyDerivationFailed, "public key", err)
	}
	return pub, nil
}

// Neuter returns the public-only version of the key.
func (k *ExtendedKey) Neuter() (*ExtendedKey, error) {
	pub, err := k.key.Neuter()
	if err != nil {
		return nil, WrapError(ErrKeyDerivationFailed, "neuter", err)
	}
	return &ExtendedKey{key: pub, net: k.net}, nil
}

func (k *ExtendedKey) ChainCode() []byte         { return k.key.ChainCode() }
func (k *ExtendedKey) Depth() uint8              { return k.key.Depth() }
func (k *ExtendedKey) ParentFingerprint() uint32 { return k.key.ParentFingerprint() }
func (k *ExtendedKey) ChildIndex() uint32        { return k.key.ChildIndex() }
func (k *ExtendedKey) IsPrivate() bool           { return k.key.IsPrivate() }
func (k *ExtendedKey) Network() Network          { return k.net }

// String returns the base58 serialization (xprv/xpub, tprv/tpub).
func (k *ExtendedKey) String() string {
	return k.key.String()
}
