// File: builder.go
// Role: scratch buffers that accumulate an IR node's fields, then submit
// the finished node to a repository for interning.
//
// Each builder is a mutable scratch value assembled step by step, then
// handed once to GetOrCreate, which turns it into something immutable and
// shared. Clear resets a builder in place so the same value can be reused
// across many atoms without reallocating its backing slice.
package ir

// AtomBuilder assembles a schema AtomData before interning.
type AtomBuilder struct{ data AtomData }

func NewAtomBuilder() *AtomBuilder { return &AtomBuilder{} }

// Clear resets the builder to empty, keeping its Args backing array.
func (b *AtomBuilder) Clear() *AtomBuilder {
	b.data.Predicate = 0
	b.data.Args = b.data.Args[:0]
	return b
}

func (b *AtomBuilder) Predicate(p Index) *AtomBuilder { b.data.Predicate = p; return b }
func (b *AtomBuilder) Arg(t Term) *AtomBuilder         { b.data.Args = append(b.data.Args, t); return b }

// Build returns a defensive copy of the accumulated AtomData, safe to
// intern even if the builder is reused afterward.
func (b *AtomBuilder) Build() AtomData {
	args := make([]Term, len(b.data.Args))
	copy(args, b.data.Args)
	return AtomData{Predicate: b.data.Predicate, Args: args}
}

// Intern submits the built atom to repo.
func (b *AtomBuilder) Intern(repo *Overlay[AtomData]) (Index, bool) {
	return repo.GetOrCreate(b.Build())
}

// GroundAtomBuilder assembles a GroundAtomData before interning into a
// GroupedOverlay keyed by predicate.
type GroundAtomBuilder struct{ data GroundAtomData }

func NewGroundAtomBuilder() *GroundAtomBuilder { return &GroundAtomBuilder{} }

func (b *GroundAtomBuilder) Clear() *GroundAtomBuilder {
	b.data.Predicate = 0
	b.data.Args = b.data.Args[:0]
	return b
}

func (b *GroundAtomBuilder) Predicate(p Index) *GroundAtomBuilder { b.data.Predicate = p; return b }
func (b *GroundAtomBuilder) Arg(o Index) *GroundAtomBuilder       { b.data.Args = append(b.data.Args, o); return b }

func (b *GroundAtomBuilder) Build() GroundAtomData {
	args := make([]Index, len(b.data.Args))
	copy(args, b.data.Args)
	return GroundAtomData{Predicate: b.data.Predicate, Args: args}
}

func (b *GroundAtomBuilder) Intern(repo *GroupedOverlay[GroundAtomData]) (GroupIndex, bool) {
	ga := b.Build()
	return repo.GetOrCreate(ga.Predicate, ga)
}

// ExprBuilder assembles a schema ExprData before canonicalizing+interning.
type ExprBuilder struct{ data ExprData }

func NewExprBuilder() *ExprBuilder { return &ExprBuilder{} }

func (b *ExprBuilder) Clear() *ExprBuilder {
	b.data = ExprData{Operands: b.data.Operands[:0]}
	return b
}

func (b *ExprBuilder) Number(v float64) *ExprBuilder {
	b.data.Kind, b.data.Number = ExprNumber, v
	return b
}

func (b *ExprBuilder) Op(kind ExprKind, op Op) *ExprBuilder {
	b.data.Kind, b.data.Op = kind, op
	return b
}

func (b *ExprBuilder) Operand(e Index) *ExprBuilder {
	b.data.Operands = append(b.data.Operands, e)
	return b
}

func (b *ExprBuilder) FuncTerm(ft Index, role Role) *ExprBuilder {
	b.data.Kind, b.data.FuncTerm, b.data.FuncRole = ExprFuncTerm, ft, role
	return b
}

func (b *ExprBuilder) Build() ExprData {
	operands := make([]Index, len(b.data.Operands))
	copy(operands, b.data.Operands)
	e := b.data
	e.Operands = operands
	return CanonicalizeExpr(e)
}

func (b *ExprBuilder) Intern(repo *Overlay[ExprData]) (Index, bool) {
	return repo.GetOrCreate(b.Build())
}

// ConditionBuilder assembles a ConjunctiveCondition for one rule.
type ConditionBuilder struct {
	symbols *SymbolTable
	data    ConjunctiveCondition
}

func NewConditionBuilder() *ConditionBuilder {
	return &ConditionBuilder{symbols: NewSymbolTable()}
}

// Var declares (or reuses) a named parameter and returns the Term that
// refers to it.
func (b *ConditionBuilder) Var(name string) Term {
	return VarTerm(b.symbols.Declare(name).Position)
}

func (b *ConditionBuilder) Static(l Literal) *ConditionBuilder {
	b.data.Static = append(b.data.Static, l)
	return b
}

func (b *ConditionBuilder) Fluent(l Literal) *ConditionBuilder {
	b.data.Fluent = append(b.data.Fluent, l)
	return b
}

func (b *ConditionBuilder) Derived(l Literal) *ConditionBuilder {
	b.data.Derived = append(b.data.Derived, l)
	return b
}

func (b *ConditionBuilder) Numeric(constraint Index) *ConditionBuilder {
	b.data.Numeric = append(b.data.Numeric, constraint)
	return b
}

// Build finalizes the condition's parameter vector from every variable
// declared so far, then canonicalizes the literal/constraint lists.
func (b *ConditionBuilder) Build() ConjunctiveCondition {
	cc := b.data
	cc.Parameters = b.symbols.Variables()
	return CanonicalizeCondition(cc)
}

// RuleBuilder assembles a RuleData before interning.
type RuleBuilder struct {
	name string
	cost uint32
	head AtomData
	cond *ConditionBuilder
}

func NewRuleBuilder(name string) *RuleBuilder {
	return &RuleBuilder{name: name, cond: NewConditionBuilder()}
}

func (b *RuleBuilder) Condition() *ConditionBuilder { return b.cond }
func (b *RuleBuilder) Cost(c uint32) *RuleBuilder    { b.cost = c; return b }
func (b *RuleBuilder) Head(head AtomData) *RuleBuilder {
	b.head = head
	return b
}

func (b *RuleBuilder) Build() RuleData {
	return RuleData{Body: b.cond.Build(), Head: b.head, Cost: b.cost, Name: b.name}
}

func (b *RuleBuilder) Intern(repo *Overlay[RuleData]) (Index, bool) {
	return repo.GetOrCreate(b.Build())
}
