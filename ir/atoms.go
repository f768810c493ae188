package ir

import (
	"fmt"
	"strings"
)

// AtomData is a schema-level atom: a predicate applied to a tuple of terms.
// Schema atoms are interned
// flatly (one Repository[AtomData] per Program/Overlay); only ground atoms
// are group-indexed by predicate.
type AtomData struct {
	Predicate Index
	Args      []Term
}

// Key implements Data; canonical because AtomData's Args are never
// reordered (argument position is meaningful, unlike a commutative
// operator's children).
func (a AtomData) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "p%d(", a.Predicate)
	for i, arg := range a.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(arg.key())
	}
	b.WriteByte(')')
	return b.String()
}

// GroundAtomData is a fully ground atom: a predicate applied to a tuple of
// objects. These are the
// nodes stored in the group-indexed GroundAtoms repository.
type GroundAtomData struct {
	Predicate Index
	Args      []Index
}

// Key implements Data.
func (a GroundAtomData) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "p%d(", a.Predicate)
	for i, arg := range a.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "o%d", arg)
	}
	b.WriteByte(')')
	return b.String()
}

// Literal is a schema-level atom with a polarity.
type Literal struct {
	Atom     Index // index into the schema AtomData repository
	Positive bool
}

func (l Literal) key() string {
	if l.Positive {
		return fmt.Sprintf("+a%d", l.Atom)
	}
	return fmt.Sprintf("-a%d", l.Atom)
}
