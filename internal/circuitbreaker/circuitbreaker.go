// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package circuitbreaker

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var (
	// MaxNumOfFailingRequests is the number of requests a breaker must see
	// before it may trip.
	MaxNumOfFailingRequests = 10
	// FailingRatio is the share of failed requests that trips the breaker.
	FailingRatio = 0.6
	// OpenTimeout is how long a tripped breaker rejects requests before it
	// lets a probe through.
	OpenTimeout = 30 * time.Second
)

// NewCircuitBreaker is a factory function returning a *gobreaker.CircuitBreaker
// named after the endpoint it guards. The breaker trips once more than
// MaxNumOfFailingRequests requests were seen and the failing ratio has met
// FailingRatio. State changes are logged at warn level.
func NewCircuitBreaker(name string, logger logrus.FieldLogger) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"endpoint": name,
				"from":     from.String(),
				"to":       to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
}
