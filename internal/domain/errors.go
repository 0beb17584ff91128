package domain

import "errors"

// Sentinel error kinds for domain rule violations. Services wrap these with
// context via fmt.Errorf so callers can match with errors.Is; the delivery
// layer maps each kind to an HTTP status.
var (
	// ErrNotFound means the referenced entity does not exist, or exists but is
	// not visible to the caller (ownership mismatches are reported as not found
	// rather than forbidden).
	ErrNotFound = errors.New("not found")

	// ErrConflict means a business-rule precondition failed: wrong state,
	// capacity exhausted, duplicate request, moderation mismatch.
	ErrConflict = errors.New("conflict")

	// ErrBadRequest means the input is malformed: unparseable date, unknown
	// status token, event date too close to now.
	ErrBadRequest = errors.New("bad request")
)
