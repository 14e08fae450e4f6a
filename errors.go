package shipflow

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors. Every typed error below unwraps to exactly one of them.
var (
	// ErrValidation indicates malformed or inconsistent input shape.
	ErrValidation = errors.New("shipflow: validation failed")

	// ErrInfeasible indicates that no flow assignment satisfies the constraints.
	ErrInfeasible = errors.New("shipflow: problem is infeasible")

	// ErrTimeout indicates that a solve exceeded its time budget.
	ErrTimeout = errors.New("shipflow: solve timed out")

	// ErrPath indicates that activated arcs do not form a single simple path.
	ErrPath = errors.New("shipflow: inconsistent activated arc set")

	// ErrModel indicates that an assignment violates the flow model.
	ErrModel = errors.New("shipflow: assignment violates model")
)

// ValidationError describes one offending input field.
// Row is the zero-based input row, or -1 when the error is not row-specific.
type ValidationError struct {
	Field  string
	Row    int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("shipflow: invalid %s at row %d: %s", e.Field, e.Row, e.Reason)
	}

	return fmt.Sprintf("shipflow: invalid %s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid is shorthand for a ValidationError that is not tied to a row.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Row: -1, Reason: fmt.Sprintf(format, args...)}
}

// InfeasibleError reports a (source, sink) pair with no feasible flow.
type InfeasibleError struct {
	Source, Sink string
	Reason       string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("shipflow: no feasible flow from %q to %q: %s", e.Source, e.Sink, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInfeasible) hold.
func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }

// TimeoutError reports a solve that did not finish within Budget.
type TimeoutError struct {
	Source, Sink string
	Budget       time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("shipflow: solve %q→%q exceeded %s", e.Source, e.Sink, e.Budget)
}

// Unwrap makes errors.Is(err, ErrTimeout) hold.
func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// PathError reports an activated arc set that cannot be linearized.
type PathError struct {
	Source string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("shipflow: cannot order arcs from %q: %s", e.Source, e.Reason)
}

// Unwrap makes errors.Is(err, ErrPath) hold.
func (e *PathError) Unwrap() error { return ErrPath }

// ModelError reports the first violated bound or constraint of an assignment.
type ModelError struct {
	Constraint string
	Reason     string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("shipflow: %s: %s", e.Constraint, e.Reason)
}

// Unwrap makes errors.Is(err, ErrModel) hold.
func (e *ModelError) Unwrap() error { return ErrModel }
