// File: validate.go
// Role: pre-run structural validation (InvalidProgram).
package ir

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate checks every rule in p.Rules against the declared predicates,
// accumulating every problem found (not just the first) via
// go-multierror, matching the nomad go.mod's use of go-multierror for
// exactly this kind of "report everything wrong, then fail once" pattern.
// Numeric constraints are not checked: an unregistered function or a
// function-term arity mismatch inside one goes unreported.
//
// Returns a non-nil error wrapping ErrInvalidProgram iff at least one
// problem was found.
func Validate(p *Program) error {
	var errs *multierror.Error
	var arity int // parameter count of the rule being checked

	checkAtom := func(context string, a AtomData) {
		pred := p.Predicates.Get(a.Predicate)
		if len(a.Args) != pred.Arity {
			errs = multierror.Append(errs, fmt.Errorf("%s: predicate %q expects arity %d, got %d: %w",
				context, pred.Name, pred.Arity, len(a.Args), ErrArityMismatch))
		}
		for _, t := range a.Args {
			if t.Kind == TermVariable && (t.Variable < 0 || t.Variable >= arity) {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w (position %d)", context, ErrUnknownVariable, t.Variable))
			}
		}
	}
	checkLiterals := func(context string, lits []Literal, wantRole Role) {
		for _, l := range lits {
			a := p.Atoms.Get(l.Atom)
			if a.Predicate >= p.Predicates.Size() {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w (predicate index %d)", context, ErrUnknownPredicate, a.Predicate))
				continue
			}
			pred := p.Predicates.Get(a.Predicate)
			if pred.Role != wantRole {
				errs = multierror.Append(errs, fmt.Errorf("%s: predicate %q has role %s, expected %s",
					context, pred.Name, pred.Role, wantRole))
			}
			checkAtom(context, a)
		}
	}

	for i := Index(0); i < p.Rules.Size(); i++ {
		rule := p.Rules.Get(i)
		context := fmt.Sprintf("rule %q (#%d)", rule.Name, i)
		arity = len(rule.Body.Parameters)

		if rule.Head.Predicate >= p.Predicates.Size() {
			errs = multierror.Append(errs, fmt.Errorf("%s: head %w", context, ErrUnknownPredicate))
		} else {
			headPred := p.Predicates.Get(rule.Head.Predicate)
			if headPred.Role != Fluent && headPred.Role != Derived {
				errs = multierror.Append(errs, fmt.Errorf("%s: head predicate %q must be Fluent or Derived, got %s",
					context, headPred.Name, headPred.Role))
			}
			checkAtom(context+" head", rule.Head)
		}

		checkLiterals(context+" body.static", rule.Body.Static, Static)
		checkLiterals(context+" body.fluent", rule.Body.Fluent, Fluent)
		checkLiterals(context+" body.derived", rule.Body.Derived, Derived)

		for _, v := range rule.Body.Parameters {
			if v.Position < 0 || v.Position >= len(rule.Body.Parameters) {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w (position %d)", context, ErrUnknownVariable, v.Position))
			}
		}
	}

	if errs != nil && errs.Len() > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProgram, errs.ErrorOrNil())
	}
	return nil
}
