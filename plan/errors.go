package plan

import "fmt"

// Sentinel errors raised while translating a Task into an ir.Program.
// These are InvalidProgram-flavored: all fatal, all detected
// before any engine run starts.
var (
	ErrUnknownObject       = fmt.Errorf("plan: unknown object")
	ErrUnknownPredicateName = fmt.Errorf("plan: unknown predicate")
	ErrUnknownFunctionName  = fmt.Errorf("plan: unknown function")
	ErrUnknownParameter     = fmt.Errorf("plan: unknown parameter")
	ErrArityMismatch        = fmt.Errorf("plan: arity mismatch")
	ErrBadPredicateRole     = fmt.Errorf("plan: predicate role cannot appear in a rule body")
)
