package ir

import "fmt"

// TermKind discriminates the two Term variants.
type TermKind uint8

const (
	TermVariable TermKind = iota
	TermObject
)

// Term is a schema-level argument: either a reference to a rule parameter
// (by position) or a fixed constant object. Modeled as a small tagged-sum
// rather than an interface so the grounder's inner loop dispatches on a
// byte instead of through a vtable.
type Term struct {
	Kind     TermKind
	Variable int   // valid iff Kind == TermVariable: position in the rule's parameter vector
	Object   Index // valid iff Kind == TermObject
}

// VarTerm builds a Term referencing parameter position pos.
func VarTerm(pos int) Term { return Term{Kind: TermVariable, Variable: pos} }

// ObjTerm builds a Term naming a fixed object.
func ObjTerm(obj Index) Term { return Term{Kind: TermObject, Object: obj} }

func (t Term) String() string {
	switch t.Kind {
	case TermVariable:
		return fmt.Sprintf("?%d", t.Variable)
	case TermObject:
		return fmt.Sprintf("#%d", t.Object)
	default:
		return "<bad-term>"
	}
}

// key renders a Term into its portion of a canonical identifying-members
// string; used by AtomData.Key and FunctionTermData.Key.
func (t Term) key() string {
	switch t.Kind {
	case TermVariable:
		return fmt.Sprintf("v%d", t.Variable)
	case TermObject:
		return fmt.Sprintf("o%d", t.Object)
	default:
		return "?"
	}
}

// Binding is a ground substitution: Binding[p] is the object bound to
// parameter position p. GroundAtom, GroundFunctionTerm and GroundExprTree
// consume one of these.
type Binding []Index

// Substitute resolves a schema Term under binding, returning the bound
// object. Panics if t is a variable outside binding's range, which would
// indicate a malformed rule (caught earlier by Validate).
func (b Binding) Substitute(t Term) Index {
	if t.Kind == TermObject {
		return t.Object
	}
	return b[t.Variable]
}
