// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package scan

// Reporter receives every finished iteration, in order, from the goroutine
// that called Run.
type Reporter interface {
	Report(IterationResult)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(IterationResult)

func (f ReporterFunc) Report(r IterationResult) { f(r) }

type multiReporter []Reporter

func (m multiReporter) Report(r IterationResult) {
	for _, rep := range m {
		rep.Report(r)
	}
}

// MultiReporter fans results out to every reporter in order. Nil reporters
// are skipped.
func MultiReporter(reporters ...Reporter) Reporter {
	m := make(multiReporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}
