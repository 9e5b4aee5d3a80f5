package scm

import (
	"errors"
	"fmt"
)

// Domain errors for the self-consistent modelling loop.
var (
	// ErrEmptyModel indicates an iteration was requested with no components.
	ErrEmptyModel = errors.New("scm: model has no components")

	// ErrNoPotential indicates a DF-based component was added before any
	// iteration produced a potential to integrate it in.
	ErrNoPotential = errors.New("scm: DF-based component requires a potential from a previous iteration")
)

// SolveError indicates the potential solver could not produce a valid
// potential from the summed density. The iteration that raised it did not
// publish a new potential; the model's previous one remains valid.
type SolveError struct {
	Iteration int
	Wrapped   error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("scm: iteration %d: potential solve failed: %v", e.Iteration, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}

// WarningKind distinguishes "component contributed nothing" from "component
// integration errored at some grid points".
type WarningKind int

const (
	// WarnIntegration: some grid points failed to converge and were
	// treated as zero density.
	WarnIntegration WarningKind = iota
	// WarnEmpty: the component's whole contribution collapsed to zero mass.
	WarnEmpty
)

// Warning is a non-fatal per-iteration signal, accumulated and returned with
// the iteration report rather than raised.
type Warning struct {
	Component    string
	Kind         WarningKind
	FailedPoints int
	GridPoints   int
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnEmpty:
		return fmt.Sprintf("component %q contributed zero mass", w.Component)
	default:
		return fmt.Sprintf("component %q: %d of %d grid points failed to converge (zeroed)",
			w.Component, w.FailedPoints, w.GridPoints)
	}
}
