// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedscan

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with errors.Is. Only ErrProvider describes a transient condition; the
// others point at bad input or a programming error and are never retried.
var (
	// ErrInvalidMnemonic is returned for a bad word count, an unknown word or
	// a checksum mismatch.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	// ErrMalformedPath is returned when a derivation path cannot be parsed.
	ErrMalformedPath = errors.New("malformed derivation path")
	// ErrKeyDerivationFailed is returned when a BIP32 step yields an invalid
	// key. The probability is about 2^-127 per step.
	ErrKeyDerivationFailed = errors.New("key derivation failed")
	// ErrUnsupportedCombination is returned when a script type, network or
	// path purpose has no address encoding.
	ErrUnsupportedCombination = errors.New("unsupported script type and network combination")
	// ErrInvalidAddress is returned when an address cannot be decoded for the
	// requested network.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrIndexOutOfRange is returned when a child index leaves the 31-bit
	// non-hardened range.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrProvider is returned by balance providers for transport, timeout or
	// response format failures.
	ErrProvider = errors.New("balance provider error")
)

// Mnemonic validation details. They are always wrapped together with
// ErrInvalidMnemonic.
var (
	ErrInvalidWordCount = errors.New("word count must be 12, 15, 18, 21 or 24")
	ErrUnknownWord      = errors.New("word not found in any wordlist")
	ErrInvalidChecksum  = errors.New("checksum mismatch")
)

// Error carries the kind of failure, the operation that failed and the
// underlying cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WrapError tags err with one of the error kinds declared above. A nil err
// yields an *Error carrying the kind alone.
func WrapError(kind error, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}
