// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedscan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// MaxIndex is the largest child index accepted before the hardened offset is
// applied.
const MaxIndex = hdkeychain.HardenedKeyStart - 1

// DerivationPath is the binary form of a BIP32 path. Hardened steps carry the
// 2^31 offset.
type DerivationPath []uint32

// ParsePath parses a textual derivation path such as "m/84'/0'/0'/0/0".
//
// The leading "m" is optional, steps are separated by "/" and a step may be
// marked hardened with a trailing "'", "h" or "H". "m" alone is the root
// path. Empty steps, non-decimal steps and indexes of 2^31 or more are
// rejected with ErrMalformedPath. Both account prefixes ("m/86'/0'/0'") and
// full five level paths are accepted.
func ParsePath(s string) (DerivationPath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, WrapError(ErrMalformedPath, "parse path", fmt.Errorf("empty path"))
	}

	elems := strings.Split(s, "/")
	if elems[0] == "m" || elems[0] == "M" {
		elems = elems[1:]
	}

	path := make(DerivationPath, 0, len(elems))
	for i, elem := range elems {
		step, err := parseStep(elem)
		if err != nil {
			return nil, WrapError(ErrMalformedPath, "parse path", fmt.Errorf("step %d %q: %w", i, elem, err))
		}
		path = append(path, step)
	}
	return path, nil
}

func parseStep(elem string) (uint32, error) {
	var offset uint32
	if n := len(elem); n > 0 && (elem[n-1] == '\'' || elem[n-1] == 'h' || elem[n-1] == 'H') {
		offset = hdkeychain.HardenedKeyStart
		elem = elem[:n-1]
	}
	if elem == "" {
		return 0, fmt.Errorf("empty index")
	}
	for _, r := range elem {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("index is not a decimal number")
		}
	}
	v, err := strconv.ParseUint(elem, 10, 32)
	if err != nil || v > MaxIndex {
		return 0, fmt.Errorf("index must be in range [0, %d]", MaxIndex)
	}
	return uint32(v) + offset, nil
}

// String renders the canonical form of the path, e.g. "m/44'/0'/0'/0/0".
func (p DerivationPath) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, step := range p {
		index, hardened := splitStep(step)
		b.WriteString("/")
		b.WriteString(strconv.FormatUint(uint64(index), 10))
		if hardened {
			b.WriteString("'")
		}
	}
	return b.String()
}

// Purpose returns the first step of the path without the hardened offset.
func (p DerivationPath) Purpose() (uint32, bool) {
	if len(p) == 0 {
		return 0, false
	}
	purpose, _ := splitStep(p[0])
	return purpose, true
}

// Child returns a copy of the path extended by one step. The receiver is
// never modified.
func (p DerivationPath) Child(index uint32, hardened bool) (DerivationPath, error) {
	if index > MaxIndex {
		return nil, WrapError(ErrIndexOutOfRange, "extend path", fmt.Errorf("index %d exceeds %d", index, uint32(MaxIndex)))
	}
	if hardened {
		index += hdkeychain.HardenedKeyStart
	}
	child := make(DerivationPath, len(p), len(p)+1)
	copy(child, p)
	return append(child, index), nil
}

// IsHardened reports whether a path step carries the hardened offset.
func IsHardened(step uint32) bool {
	return step >= hdkeychain.HardenedKeyStart
}

func splitStep(step uint32) (uint32, bool) {
	if IsHardened(step) {
		return step - hdkeychain.HardenedKeyStart, true
	}
	return step, false
}
