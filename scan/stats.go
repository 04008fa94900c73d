// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package scan

import "sync/atomic"

// Stats counts the outcomes of a run. Counters only grow and are safe for
// concurrent use.
type Stats struct {
	iterations     atomic.Int64
	withBalance    atomic.Int64
	withoutBalance atomic.Int64
	failed         atomic.Int64
}

// StatsSnapshot is a point in time copy of Stats.
type StatsSnapshot struct {
	Iterations     int64
	WithBalance    int64
	WithoutBalance int64
	Failed         int64
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Iterations:     s.iterations.Load(),
		WithBalance:    s.withBalance.Load(),
		WithoutBalance: s.withoutBalance.Load(),
		Failed:         s.failed.Load(),
	}
}

// Checked is the number of lookups attempted.
func (s StatsSnapshot) Checked() int64 {
	return s.WithBalance + s.WithoutBalance + s.Failed
}
