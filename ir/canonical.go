// File: canonical.go
// Role: deterministic normal form for commutative/associative nodes before
// interning.
package ir

import "golang.org/x/exp/slices"

// CanonicalizeOperands orders op's operand indices when op is commutative.
// Non-commutative
// operators (Sub, Div, Lt, Le, Gt, Ge) are left untouched: their operand
// order is semantically meaningful.
//
// Canonicalization is intrinsic: operands must already be indices into an
// expression repository, never raw unintered data.
func CanonicalizeOperands(op Op, operands []Index) []Index {
	if !op.Commutative() {
		return operands
	}
	out := slices.Clone(operands)
	slices.Sort(out)
	return out
}

// CanonicalizeExpr returns e with its operands canonically ordered.
// Idempotent: CanonicalizeExpr(CanonicalizeExpr(e)) == CanonicalizeExpr(e),
// since Sort on an already-sorted slice is a no-op.
func CanonicalizeExpr(e ExprData) ExprData {
	if e.Kind == ExprUnary || e.Kind == ExprBinary || e.Kind == ExprMulti {
		e.Operands = CanonicalizeOperands(e.Op, e.Operands)
	}
	return e
}

// literalCompare orders literals by (atom index, polarity) so equal-atom
// literals of differing polarity sort deterministically and stably.
func literalCompare(a, b Literal) int {
	if a.Atom != b.Atom {
		if a.Atom < b.Atom {
			return -1
		}
		return 1
	}
	switch {
	case a.Positive == b.Positive:
		return 0
	case !a.Positive:
		return -1
	default:
		return 1
	}
}

// CanonicalizeCondition sorts a ConjunctiveCondition's static-literal,
// fluent-literal, derived-literal and numeric-constraint lists into a
// deterministic order. Parameters are never reordered: parameter position
// is load-bearing (it is the binding vector's index).
func CanonicalizeCondition(cc ConjunctiveCondition) ConjunctiveCondition {
	cc.Static = slices.Clone(cc.Static)
	slices.SortFunc(cc.Static, literalCompare)
	cc.Fluent = slices.Clone(cc.Fluent)
	slices.SortFunc(cc.Fluent, literalCompare)
	cc.Derived = slices.Clone(cc.Derived)
	slices.SortFunc(cc.Derived, literalCompare)
	cc.Numeric = slices.Clone(cc.Numeric)
	slices.Sort(cc.Numeric)
	return cc
}

// ProgramOrder is the deterministic traversal order for whole-program
// iteration: interned nodes in index order. It does not renumber anything
// (indices are assigned at intern time and never change); it is purely a
// stable iteration order for diagnostics, serialization and testing.
func ProgramOrder(n Index) []Index {
	out := make([]Index, n)
	for i := range out {
		out[i] = Index(i)
	}
	return out
}
