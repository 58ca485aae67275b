package gdbscan

import (
	"errors"
	"fmt"
)

// ErrAlreadyFrozen is returned when a StagingGraph is mutated or finalized
// a second time after Finalize has already consumed it.
var ErrAlreadyFrozen = errors.New("graph: already frozen")

// ConfigError indicates an invalid run configuration: ε ≤ 0, MinPts == 0,
// NumWorkers == 0, or malformed/unreadable input.
type ConfigError struct {
	Field string
	Value any
	cause error
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("config: invalid %s", e.Field)
	}
	return fmt.Sprintf("config: invalid %s: %v", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.cause }

// NewConfigError builds a ConfigError for the named field.
func NewConfigError(field string, value any) *ConfigError {
	return &ConfigError{Field: field, Value: value}
}

// OutOfRange indicates a node index outside [0, N) was used in an edge
// insertion or neighbor query.
type OutOfRange struct {
	Index int
	N     int
	cause error
}

func (e *OutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.N)
}

func (e *OutOfRange) Unwrap() error { return e.cause }

// PhaseError indicates an operation was attempted in the wrong graph
// lifecycle phase: mutating a StagingGraph, or calling Finalize on one,
// after it has already been finalized.
type PhaseError struct {
	Op    string
	cause error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase error: %s", e.Op)
}

func (e *PhaseError) Unwrap() error { return e.cause }

// NewPhaseError builds a PhaseError for the named operation, wrapping cause
// (typically ErrAlreadyFrozen) so callers can still errors.Is/errors.As
// through it.
func NewPhaseError(op string, cause error) *PhaseError {
	return &PhaseError{Op: op, cause: cause}
}

// Internal indicates an invariant violation detected at runtime — a
// programming defect, not a user input error.
type Internal struct {
	Msg   string
	cause error
}

func (e *Internal) Error() string {
	return fmt.Sprintf("internal: %s", e.Msg)
}

func (e *Internal) Unwrap() error { return e.cause }

// TranslateError normalizes subpackage errors into the four error kinds
// above at the public API boundary (solver.Run), so callers can use a
// single errors.As/errors.Is surface regardless of which internal package
// produced the failure.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var ce *ConfigError
	if errors.As(err, &ce) {
		return err
	}
	var oor *OutOfRange
	if errors.As(err, &oor) {
		return err
	}
	var pe *PhaseError
	if errors.As(err, &pe) {
		return err
	}
	var ie *Internal
	if errors.As(err, &ie) {
		return err
	}

	if errors.Is(err, ErrAlreadyFrozen) {
		return NewPhaseError(err.Error(), err)
	}

	return &Internal{Msg: err.Error(), cause: err}
}
