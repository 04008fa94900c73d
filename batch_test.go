// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedscan

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"
)

// TestDeriveRange checks receive and change ranges against the published
// BIP84 and BIP86 vectors
func TestDeriveRange(t *testing.T) {
	is := is.New(t)

	receive, err := DeriveRange(abandonAbout, "m/84'/0'/0'", Mainnet, "", false, 0, 2)
	is.NoErr(err)
	is.Equal(len(receive), 2)
	is.Equal(receive[0].Address, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu")
	is.Equal(receive[0].Path, "m/84'/0'/0'/0/0")
	is.Equal(receive[1].Address, "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g")
	is.Equal(receive[1].Path, "m/84'/0'/0'/0/1")

	change, err := DeriveRange(abandonAbout, "m/86'/0'/0'", Mainnet, "", true, 0, 1)
	is.NoErr(err)
	is.Equal(len(change), 1)
	is.Equal(change[0].Address, "bc1p3qkhfews2uk44qtvauqyr2ttdsw7svhkl9nkm9s9c3x4ax5h60wqwruhk7")
	is.Equal(change[0].Path, "m/86'/0'/0'/1/0")
	is.Equal(change[0].ScriptType, P2TR)
}

// TestDeriveRange_MatchesSingleDerivation verifies every address of a range
// equals an independent derivation of its full path
func TestDeriveRange_MatchesSingleDerivation(t *testing.T) {
	is := is.New(t)

	for _, account := range []string{"m/44'/0'/0'", "m/49'/0'/0'", "m/84'/0'/0'", "m/86'/0'/0'"} {
		addrs, err := DeriveRange(abandonAbout, account, Mainnet, "", false, 10, 3)
		is.NoErr(err)
		is.Equal(len(addrs), 3)

		for i, addr := range addrs {
			path := fmt.Sprintf("%s/0/%d", account, 10+i)
			is.Equal(addr.Path, path)

			single, err := DeriveBitcoinAddress(abandonAbout, path, Mainnet, "")
			is.NoErr(err)
			is.Equal(addr, *single)
		}
	}
}

// TestDeriveRange_Empty verifies a zero count is not an error
func TestDeriveRange_Empty(t *testing.T) {
	is := is.New(t)

	addrs, err := DeriveRange(abandonAbout, "m/84'/0'/0'", Mainnet, "", false, 5, 0)
	is.NoErr(err)
	is.True(addrs != nil)
	is.Equal(len(addrs), 0)
}

// TestDeriveRange_Bounds tests the top of the non-hardened index range
func TestDeriveRange_Bounds(t *testing.T) {
	is := is.New(t)

	addrs, err := DeriveRange(abandonAbout, "m/84'/0'/0'", Mainnet, "", false, MaxIndex, 1)
	is.NoErr(err)
	is.Equal(addrs[0].Path, "m/84'/0'/0'/0/2147483647")

	_, err = DeriveRange(abandonAbout, "m/84'/0'/0'", Mainnet, "", false, MaxIndex, 2)
	is.True(errors.Is(err, ErrIndexOutOfRange))

	_, err = DeriveRange(abandonAbout, "m/84'/0'/0'", Mainnet, "", false, 4294967295, 4294967295)
	is.True(errors.Is(err, ErrIndexOutOfRange))
}

// TestDeriveRange_Errors tests invalid inputs
func TestDeriveRange_Errors(t *testing.T) {
	is := is.New(t)

	_, err := DeriveRange(abandonAbout, "m/0'/0'/0'", Mainnet, "", false, 0, 1)
	is.True(errors.Is(err, ErrUnsupportedCombination))

	_, err = DeriveRange(abandonAbout, "m", Mainnet, "", false, 0, 1)
	is.True(errors.Is(err, ErrUnsupportedCombination))

	_, err = DeriveRange(abandonAbout, "m/84'/0'/x", Mainnet, "", false, 0, 1)
	is.True(errors.Is(err, ErrMalformedPath))

	_, err = DeriveRange("zoo zoo", "m/84'/0'/0'", Mainnet, "", false, 0, 1)
	is.True(errors.Is(err, ErrInvalidMnemonic))
}

// TestDeriveBitcoinAddresses_Default verifies the default account path
func TestDeriveBitcoinAddresses_Default(t *testing.T) {
	is := is.New(t)

	addrs, err := DeriveBitcoinAddresses(abandonAbout, "", Testnet, "", false, 0, 1)
	is.NoErr(err)
	is.Equal(addrs[0].Path, "m/84'/1'/0'/0/0")
	is.Equal(addrs[0].Address, "tb1q6rz28mcfaxtmd6v789l9rrlrusdprr9pqcpvkl")
}
