package ir

import "fmt"

// Sentinel errors for ir. Wrapped with %w at the point they are returned so
// callers can branch with errors.Is.
var (
	// ErrUnknownPredicate is returned when a rule or atom references a
	// predicate index that was never registered with the program.
	ErrUnknownPredicate = fmt.Errorf("ir: unknown predicate")

	// ErrUnknownFunction identifies an expression that references a
	// function index that was never registered with the program. Validate
	// does not check expressions and does not return it.
	ErrUnknownFunction = fmt.Errorf("ir: unknown function")

	// ErrArityMismatch is returned when an atom or function term supplies a
	// different number of arguments than its predicate/function declares.
	ErrArityMismatch = fmt.Errorf("ir: arity mismatch")

	// ErrUnknownVariable is returned when a term refers to a variable
	// position outside the enclosing rule's parameter vector.
	ErrUnknownVariable = fmt.Errorf("ir: unknown variable")

	// ErrInvalidProgram aggregates every structural problem found while
	// validating a Program; it wraps a *multierror.Error.
	ErrInvalidProgram = fmt.Errorf("ir: invalid program")
)
