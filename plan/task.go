// File: task.go
// Role: the "parsed task" surface the core consumes: predicate
// and function declarations, action schemas, axioms, objects, the initial
// state and the goal. PDDL parsing itself is out of scope; a
// caller builds one of these from whatever source syntax it reads.
package plan

import "github.com/liftedplan/kpkc/ir"

// TermKind discriminates a schema-level term the same way ir.TermKind does,
// just named at the planning-task boundary (variable names here, not
// positions: positions are assigned when a rule is built).
type TermKind uint8

const (
	TermVar TermKind = iota
	TermObj
)

// TermSchema is one argument of an AtomSchema or FunctionTermSchema: either
// a reference to one of the enclosing schema's declared parameters, by
// name, or a fixed object, by name.
type TermSchema struct {
	Kind TermKind
	Name string // parameter name iff Kind == TermVar, object name iff TermObj
}

// Var builds a TermSchema referencing parameter name.
func Var(name string) TermSchema { return TermSchema{Kind: TermVar, Name: name} }

// Obj builds a TermSchema naming a fixed object.
func Obj(name string) TermSchema { return TermSchema{Kind: TermObj, Name: name} }

// AtomSchema is a schema-level atom: a predicate name applied to a tuple of
// terms (Atom, named rather than interned at this boundary).
type AtomSchema struct {
	Predicate string
	Args      []TermSchema
}

// LiteralSchema is an AtomSchema with a polarity (Literal).
type LiteralSchema struct {
	Atom     AtomSchema
	Positive bool
}

// FunctionTermSchema is a schema-level function term.
type FunctionTermSchema struct {
	Function string
	Args     []TermSchema
}

// ExprKind mirrors ir.ExprKind at the task boundary.
type ExprKind = ir.ExprKind

// ExprSchema is a schema-level numeric/boolean expression tree (mirroring ir.Expr,
// named rather than interned until package plan's translator walks
// it into the core's ir.Program.
type ExprSchema struct {
	Kind ExprKind

	Number float64 // valid iff Kind == ir.ExprNumber

	Op       ir.Op
	Operands []*ExprSchema // len 1 (Unary), 2 (Binary), n (Multi)

	FuncTerm *FunctionTermSchema // valid iff Kind == ir.ExprFuncTerm
	FuncRole ir.Role
}

// NumberExpr builds a constant ExprSchema leaf.
func NumberExpr(v float64) *ExprSchema { return &ExprSchema{Kind: ir.ExprNumber, Number: v} }

// FuncTermExpr builds a function-term ExprSchema leaf.
func FuncTermExpr(ft FunctionTermSchema, role ir.Role) *ExprSchema {
	return &ExprSchema{Kind: ir.ExprFuncTerm, FuncTerm: &ft, FuncRole: role}
}

// UnaryExpr, BinaryExpr and MultiExpr build the corresponding ExprSchema
// operator nodes.
func UnaryExpr(op ir.Op, operand *ExprSchema) *ExprSchema {
	return &ExprSchema{Kind: ir.ExprUnary, Op: op, Operands: []*ExprSchema{operand}}
}
func BinaryExpr(op ir.Op, lhs, rhs *ExprSchema) *ExprSchema {
	return &ExprSchema{Kind: ir.ExprBinary, Op: op, Operands: []*ExprSchema{lhs, rhs}}
}
func MultiExpr(op ir.Op, operands ...*ExprSchema) *ExprSchema {
	return &ExprSchema{Kind: ir.ExprMulti, Op: op, Operands: operands}
}

// NumericEffectKind is the numeric effect operator set:
// "Numeric effects: assign, increase, decrease, scale-up, scale-down."
type NumericEffectKind uint8

const (
	EffectAssign NumericEffectKind = iota
	EffectIncrease
	EffectDecrease
	EffectScaleUp
	EffectScaleDown
)

// NumericEffect applies Value to Target under Kind's combine rule. Any NaN
// in Value makes the whole effect inapplicable (left unapplied, prior
// value kept) rather than poisoning Target with NaN.
type NumericEffect struct {
	Kind   NumericEffectKind
	Target FunctionTermSchema
	Value  *ExprSchema
}

// ConditionalEffect is one (condition -> add/delete/numeric) clause of an
// action schema's effect list. An effect with an empty Condition is unconditional.
type ConditionalEffect struct {
	Condition []LiteralSchema
	Add       []AtomSchema
	Del       []AtomSchema
	Numeric   []NumericEffect
}

// ActionSchema is a parametric action: name, parameters, preconditions
// (literal and numeric), conditional effects, and a cost.
//
// Cost is a compile-time constant rather than a full cost expression:
// ir.RuleData models a rule's cost as a fixed uint32, so a per-binding
// variable cost has nowhere to live in the IR this package targets.
// Translate folds CostExpr into a constant when given one (see
// translate.go); give a bare Cost directly when there is no expression to
// fold.
type ActionSchema struct {
	Name                string
	Parameters          []string
	Precondition        []LiteralSchema
	NumericPrecondition []*ExprSchema
	Effects             []ConditionalEffect
	Cost                uint32
	CostExpr            *ExprSchema // optional; when set it replaces Cost: its folded value, or 1 if it does not fold to a non-negative constant
}

// AxiomSchema is a parametric derived-predicate definition, named rather
// than interned at the task boundary: body implies a derived head atom,
// contributing no cost.
type AxiomSchema struct {
	Name        string
	Parameters  []string
	Body        []LiteralSchema
	NumericBody []*ExprSchema
	Head        AtomSchema
}

// PredicateDecl declares one predicate symbol.
type PredicateDecl struct {
	Name  string
	Arity int
	Role  ir.Role
}

// FunctionDecl declares one function symbol.
type FunctionDecl struct {
	Name  string
	Arity int
	Role  ir.Role
}

// Domain bundles every schema-level declaration a task is built against
// (domain.predicates, domain.functions, domain.actions, domain.axioms).
type Domain interface {
	Predicates() []PredicateDecl
	Functions() []FunctionDecl
	Actions() []ActionSchema
	Axioms() []AxiomSchema
}

// GroundAtom is a ground, named atom: object names rather than ir.Index
// values, since a Task is built before any object is interned.
type GroundAtom struct {
	Predicate string
	Args      []string
}

// GroundFunctionValue is one entry of a task's initial function values.
type GroundFunctionValue struct {
	Function string
	Args     []string
	Value    float64
}

// Task bundles a Domain with a concrete problem instance: the object
// universe, the initial ground atoms and function values, and the goal
// condition as a conjunctive ground condition.
type Task interface {
	Domain() Domain
	Objects() []string
	InitialAtoms() []GroundAtom
	InitialFunctionValues() []GroundFunctionValue
	Goal() []GroundAtom
}
