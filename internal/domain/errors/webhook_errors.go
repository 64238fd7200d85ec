package errors

import (
	"errors"
	"fmt"
)

// ErrDuplicateEvent is returned when the ledger already holds a row for
// the event id. Under a delivery race the unique index, not the lookup,
// is what produces it.
var ErrDuplicateEvent = errors.New("webhook event already recorded")

// ErrEventNotFound is returned when a ledger row does not exist.
var ErrEventNotFound = errors.New("webhook event not found")

// ErrEventFinalized is returned when a terminal status write matched no
// row still in `processing`. The ledger guards terminal status as
// write-once; callers treat this as telemetry, not as pipeline failure.
var ErrEventFinalized = errors.New("webhook event already finalized")

// TelemetryError marks a failure of best-effort bookkeeping (retry
// counters, completion timestamps). Call sites are required to log and
// swallow it; it must never unwind the processing path.
type TelemetryError struct {
	Op  string
	Err error
}

func (e *TelemetryError) Error() string {
	return fmt.Sprintf("telemetry %s: %v", e.Op, e.Err)
}

func (e *TelemetryError) Unwrap() error {
	return e.Err
}

// NewTelemetryError wraps a bookkeeping failure.
func NewTelemetryError(op string, err error) *TelemetryError {
	return &TelemetryError{Op: op, Err: err}
}

// IsTelemetry reports whether err is (or wraps) a TelemetryError.
func IsTelemetry(err error) bool {
	var te *TelemetryError
	return errors.As(err, &te)
}
