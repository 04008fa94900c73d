// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package circuitbreaker

import (
	"errors"
	"io"
	"testing"

	"github.com/matryer/is"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

func TestNewCircuitBreaker(t *testing.T) {
	is := is.New(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cb := NewCircuitBreaker("https://example.org/api", logger)
	is.Equal(cb.Name(), "https://example.org/api")
	is.Equal(cb.State(), gobreaker.StateClosed)

	fail := func() (interface{}, error) { return nil, errors.New("unavailable") }

	// the breaker stays closed until the request floor is passed
	for i := 0; i < MaxNumOfFailingRequests; i++ {
		_, _ = cb.Execute(fail)
	}
	is.Equal(cb.State(), gobreaker.StateClosed)

	_, _ = cb.Execute(fail)
	is.Equal(cb.State(), gobreaker.StateOpen)

	_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	is.True(errors.Is(err, gobreaker.ErrOpenState))
}

func TestNewCircuitBreaker_Ratio(t *testing.T) {
	is := is.New(t)

	cb := NewCircuitBreaker("ratio", nil)

	ok := func() (interface{}, error) { return nil, nil }
	fail := func() (interface{}, error) { return nil, errors.New("unavailable") }

	// half of the requests failing stays below the ratio
	for i := 0; i < 2*MaxNumOfFailingRequests; i++ {
		if i%2 == 0 {
			_, _ = cb.Execute(ok)
		} else {
			_, _ = cb.Execute(fail)
		}
	}
	is.Equal(cb.State(), gobreaker.StateClosed)
}
