package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced to callers.
var (
	// ErrNotFound reports that a lookup by identity found nothing.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a uniqueness-constraint violation: the row is
	// already ingested. Expected under at-least-once delivery, not a
	// failure.
	ErrConflict = errors.New("already exists")
)

// Status classifies the result of one idempotent write.
type Status int

const (
	// StatusSuccess: the row was written.
	StatusSuccess Status = iota
	// StatusConflict: the row already existed; nothing was written.
	StatusConflict
	// StatusError: some other persistence failure; the row was not written
	// but the batch continues.
	StatusError
)

// String returns the status name for reports and logs.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusConflict:
		return "conflict"
	default:
		return "error"
	}
}

// Outcome is the per-row result of an idempotent upsert.
type Outcome struct {
	Status Status
	Err    error // set only for StatusError
}

// outcomeFromErr classifies a write error into an Outcome.
func outcomeFromErr(err error) Outcome {
	if err == nil {
		return Outcome{Status: StatusSuccess}
	}
	if errors.Is(err, ErrConflict) {
		return Outcome{Status: StatusConflict}
	}
	return Outcome{Status: StatusError, Err: err}
}

const (
	pgUniqueViolation = "23505"
)

// mapWriteErr converts low-level pgx errors to sentinel errors where a
// sentinel applies.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrConflict
	}
	return err
}

// mapLookupErr converts pgx.ErrNoRows to ErrNotFound.
func mapLookupErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
