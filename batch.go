// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedscan

import (
	"fmt"
)

// DeriveRange derives count consecutive addresses below an account path.
//
// Each address sits at accountPath/{0|1}/{start+i}, where the branch is 1
// when isChange is set. The script type follows the purpose of the account
// path (44, 49, 84 or 86). The branch key is derived once and every address
// is a direct child of it, so the results equal independent derivations of
// the full paths.
//
// Parameters:
//   - phrase: The BIP39 mnemonic
//   - accountPath: An account level path such as "m/86'/0'/0'"
//   - net: The network to encode addresses for
//   - passphrase: The optional BIP39 passphrase
//   - isChange: Derive from the internal (change) branch
//   - start: The first address index
//   - count: The number of addresses
//
// Returns:
//   - The addresses in ascending index order; empty when count is 0
//   - ErrIndexOutOfRange if start+count-1 does not fit in 31 bits
func DeriveRange(phrase, accountPath string, net Network, passphrase string, isChange bool, start, count uint32) ([]DerivedAddress, error) {
	m, err := ParseMnemonic(phrase)
	if err != nil {
		return nil, err
	}
	path, err := ParsePath(accountPath)
	if err != nil {
		return nil, err
	}
	st, err := scriptTypeForPath(path)
	if err != nil {
		return nil, err
	}
	if count > 0 && uint64(start)+uint64(count)-1 > MaxIndex {
		return nil, WrapError(ErrIndexOutOfRange, "derive range",
			fmt.Errorf("range %d..%d exceeds %d", start, uint64(start)+uint64(count)-1, uint32(MaxIndex)))
	}
	if count == 0 {
		return []DerivedAddress{}, nil
	}

	root, err := NewRootKey(m.Seed(passphrase), net)
	if err != nil {
		return nil, err
	}
	return deriveBranch(root, path, st, isChange, start, count)
}

func deriveBranch(root *ExtendedKey, account DerivationPath, st ScriptType, isChange bool, start, count uint32) ([]DerivedAddress, error) {
	var branchIndex uint32
	if isChange {
		branchIndex = 1
	}
	branchPath, err := account.Child(branchIndex, false)
	if err != nil {
		return nil, err
	}
	branch, err := root.DerivePath(branchPath)
	if err != nil {
		return nil, err
	}

	addrs := make([]DerivedAddress, 0, count)
	for i := uint32(0); i < count; i++ {
		index := start + i
		key, err := branch.DeriveChild(index, false)
		if err != nil {
			return nil, err
		}
		path, err := branchPath.Child(index, false)
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
