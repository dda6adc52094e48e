package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrJobNotFound is returned when an audit job is not found.
	ErrJobNotFound = errors.New("audit job not found")
	// ErrResultNotFound is returned when a per-region result is not found.
	ErrResultNotFound = errors.New("audit result not found")
	// ErrMonitorNotFound is returned when a monitor entry is not found.
	ErrMonitorNotFound = errors.New("monitor not found")
)
