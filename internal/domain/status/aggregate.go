// Package status derives an audit job's status from its per-region results.
package status

import "github.com/feru-app/beacon/internal/domain/model"

// Decision is the outcome of aggregating a job's result statuses.
type Decision struct {
	// Status is the job status to persist when Transition is true.
	Status model.AuditStatus
	// Transition reports whether the job status should change at all.
	// Some results terminal and the rest still pending (with nothing running)
	// is not a decidable state, so the current job status is kept.
	Transition bool
	// Terminal reports whether Status closes the job (completed_at must be set once).
	Terminal bool
}

// Aggregate maps the set of current result statuses to the owning job's status.
//
// Rules, in order:
//   - every result completed   -> completed (terminal)
//   - any result running       -> running
//   - every result failed      -> failed (terminal)
//   - every result terminal,
//     completed/failed mixed   -> partial (terminal)
//   - anything else            -> no transition
//
// The function is pure and total over the four result statuses; callers
// persist the decision.
func Aggregate(results []model.AuditStatus) Decision {
	if len(results) == 0 {
		return Decision{}
	}

	var running, pending, completed, failed int
	for _, s := range results {
		switch s {
		case model.StatusRunning:
			running++
		case model.StatusPending:
			pending++
		case model.StatusCompleted:
			completed++
		case model.StatusFailed:
			failed++
		}
	}

	switch {
	case completed == len(results):
		return Decision{Status: model.StatusCompleted, Transition: true, Terminal: true}
	case running > 0:
		return Decision{Status: model.StatusRunning, Transition: true}
	case failed == len(results):
		return Decision{Status: model.StatusFailed, Transition: true, Terminal: true}
	case pending == 0:
		// Mixed completed/failed with nothing left in flight.
		return Decision{Status: model.StatusPartial, Transition: true, Terminal: true}
	default:
		return Decision{}
	}
}
