package engine

import "errors"

// Sentinel errors for the engine package.
// Use errors.Is to check: errors.Is(err, engine.ErrVersionConflict)
var (
	// ErrInvalidOutcome reports an answer outcome whose timestamp precedes the
	// record's last review. The engine rejects it rather than reordering history.
	ErrInvalidOutcome = errors.New("engine: outcome predates last review")

	// ErrVersionConflict reports a concurrent mastery write. Retryable: re-read
	// the record and recompute the update.
	ErrVersionConflict = errors.New("engine: mastery record version conflict")

	// ErrInvalidBudget reports a non-positive plan duration.
	ErrInvalidBudget = errors.New("engine: study budget must be positive")

	// ErrNoEligibleTopics reports an empty topic catalog for a plan request.
	ErrNoEligibleTopics = errors.New("engine: no eligible topics for study plan")
)
