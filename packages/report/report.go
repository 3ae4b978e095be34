// Package report holds the results of accordance runs and the formatters
// that render them for the console or for machines.
package report

import "time"

// CheckResult is the outcome of evaluating one accordance.
type CheckResult struct {
	Name     string
	Passed   bool
	Rules    int
	Failure  string
	Duration time.Duration
}

// RunResult aggregates the checks of one spec file run.
type RunResult struct {
	SpecFile string
	Results  []CheckResult
	Passed   int
	Failed   int
	Duration time.Duration
}

// Add appends a check result and updates the counters.
func (r *RunResult) Add(cr CheckResult) {
	r.Results = append(r.Results, cr)
	if cr.Passed {
		r.Passed++
	} else {
		r.Failed++
	}
}

// Ok reports whether every check passed.
func (r *RunResult) Ok() bool {
	return r.Failed == 0
}
