package ir

import "fmt"

// ObjectData names a constant object of the planning task's universe.
type ObjectData struct {
	Name string
}

// Key implements Data.
func (o ObjectData) Key() string { return o.Name }

// PredicateData names and types a predicate symbol.
type PredicateData struct {
	Name  string
	Arity int
	Role  Role
}

// Key implements Data. Arity/Role are part of the symbol's declaration, not
// its identity: redeclaring "at/2" with a different arity is an
// InvalidProgram error, not a second predicate, so Key is name-only and the
// arity/role mismatch is caught by Validate.
func (p PredicateData) Key() string { return p.Name }

// FunctionData names and types a function symbol.
type FunctionData struct {
	Name  string
	Arity int
	Role  Role
}

// Key implements Data.
func (f FunctionData) Key() string { return f.Name }

// VariableData names a schema parameter. Variables are scoped to the rule
// or action schema that declares them: unlike objects/predicates/functions
// they are not interned in a shared Program-wide repository, since two
// different rules legitimately reuse the name "x" for unrelated parameters.
// SymbolTable (see below) is the small per-scope name->position map a
// Builder uses while assembling a ConjunctiveCondition.
type VariableData struct {
	// Name is the source-level parameter name, kept for diagnostics only.
	Name string
	// Position is this variable's 0-based index in its owning rule's
	// parameter vector; it is what grounding actually substitutes against.
	Position int
}

func (v VariableData) Key() string { return fmt.Sprintf("%s@%d", v.Name, v.Position) }

// SymbolTable resolves parameter names to positions while a rule or action
// schema body is being built, and is discarded once the ConjunctiveCondition
// is interned (only Position survives into the IR).
type SymbolTable struct {
	byName map[string]int
	order  []VariableData
}

// NewSymbolTable returns an empty per-scope symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string]int)}
}

// Declare registers name as the next parameter position, or returns the
// existing position if name was already declared in this scope.
func (s *SymbolTable) Declare(name string) VariableData {
	if pos, ok := s.byName[name]; ok {
		return s.order[pos]
	}
	v := VariableData{Name: name, Position: len(s.order)}
	s.byName[name] = v.Position
	s.order = append(s.order, v)
	return v
}

// Variables returns the declared variables in declaration order; this is
// the rule's parameter vector.
func (s *SymbolTable) Variables() []VariableData {
	out := make([]VariableData, len(s.order))
	copy(out, s.order)
	return out
}
