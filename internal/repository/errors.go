// Package repository implements raw-SQL data access. These sentinel
// values let the service layer distinguish failure scenarios without
// depending on driver error types.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no usable row. Filtered
// lookups (non-revoked sessions, unused magic links) return it for rows
// that exist but are no longer eligible.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
// The orchestrator pre-checks uniqueness to produce field-specific
// errors; this is the database backstop for the check-then-insert race.
var ErrDuplicate = errors.New("duplicate")

// DuplicateError is a duplicate with the colliding column attached when
// the driver message names the unique key. errors.Is against
// ErrDuplicate matches.
type DuplicateError struct{ Field string }

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return "duplicate"
	}
	return "duplicate " + e.Field
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }
