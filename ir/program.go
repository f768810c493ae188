// File: program.go
// Role: the root/overlay arena bundle threaded through every other package.
package ir

// Program bundles every interned repository the grounder needs. A root
// Program is built once by package plan while translating a parsed task.
// Overlay builds a child Program over a shared one, for a worker that must
// intern without writing to the parent. Package engine does not use it: its
// rule workers (kpkc.EnumerateAll) only collect bindings, and heads are
// interned straight into the root Program on a single goroutine.
type Program struct {
	Objects    *Overlay[ObjectData]
	Predicates *Overlay[PredicateData]
	Functions  *Overlay[FunctionData]

	Atoms     *Overlay[AtomData]         // schema atoms
	FuncTerms *Overlay[FunctionTermData] // schema function terms
	Exprs     *Overlay[ExprData]         // schema expressions
	Rules     *Overlay[RuleData]

	GroundAtoms     *GroupedOverlay[GroundAtomData]         // by predicate
	GroundFuncTerms *GroupedOverlay[GroundFunctionTermData] // by function
	GroundExprs     *Overlay[GroundExprData]                // scratch ground expression arena
}

// NewProgram returns an empty root Program (every repository has a
// zero-size, never-find parent).
func NewProgram() *Program {
	return &Program{
		Objects:         NewRootOverlay[ObjectData](),
		Predicates:      NewRootOverlay[PredicateData](),
		Functions:       NewRootOverlay[FunctionData](),
		Atoms:           NewRootOverlay[AtomData](),
		FuncTerms:       NewRootOverlay[FunctionTermData](),
		Exprs:           NewRootOverlay[ExprData](),
		Rules:           NewRootOverlay[RuleData](),
		GroundAtoms:     NewGroupedOverlay[GroundAtomData](nil),
		GroundFuncTerms: NewGroupedOverlay[GroundFunctionTermData](nil),
		GroundExprs:     NewRootOverlay[GroundExprData](),
	}
}

// Overlay returns a child Program whose every repository is an Overlay (or
// GroupedOverlay) on top of the corresponding repository in p. Workers use
// this to get an exclusively-owned scratch arena that still sees every node
// p already holds.
func (p *Program) Overlay() *Program {
	return &Program{
		Objects:         NewOverlay[ObjectData](p.Objects),
		Predicates:      NewOverlay[PredicateData](p.Predicates),
		Functions:       NewOverlay[FunctionData](p.Functions),
		Atoms:           NewOverlay[AtomData](p.Atoms),
		FuncTerms:       NewOverlay[FunctionTermData](p.FuncTerms),
		Exprs:           NewOverlay[ExprData](p.Exprs),
		Rules:           NewOverlay[RuleData](p.Rules),
		GroundAtoms:     NewGroupedOverlay[GroundAtomData](p.GroundAtoms),
		GroundFuncTerms: NewGroupedOverlay[GroundFunctionTermData](p.GroundFuncTerms),
		GroundExprs:     NewOverlay[GroundExprData](p.GroundExprs),
	}
}

// MergeResult reports the authoritative remapping produced by merging a
// worker Program into its parent.
type MergeResult struct {
	// GroundAtoms is every ground-atom entry the worker interned locally,
	// with its final (globally-assigned) index. Callers (the engine's
	// annotation tables, pending-binding store, cost buckets) must rewrite
	// any stored worker-local GroundAtom index through this list.
	GroundAtoms []GroupMergeEntry
}

// NewHeads returns the subset of GroundAtoms that did not already exist in
// the program before this merge — the merge step's new heads.
func (r MergeResult) NewHeads() []GroupIndex {
	var out []GroupIndex
	for _, e := range r.GroundAtoms {
		if e.Inserted {
			out = append(out, e.To)
		}
	}
	return out
}

// MergeInto folds every node the receiver interned locally (a worker
// overlay produced during one rule's enumeration) into dst. It must be
// called from a single goroutine at a time per dst, in the caller's chosen
// worker order; callers never invoke MergeInto concurrently on the same
// dst.
func (p *Program) MergeInto(dst *Program) MergeResult {
	p.Objects.MergeInto(dst.Objects)
	p.Predicates.MergeInto(dst.Predicates)
	p.Functions.MergeInto(dst.Functions)
	p.Atoms.MergeInto(dst.Atoms)
	p.FuncTerms.MergeInto(dst.FuncTerms)
	p.Exprs.MergeInto(dst.Exprs)
	p.Rules.MergeInto(dst.Rules)
	p.GroundFuncTerms.MergeInto(dst.GroundFuncTerms)
	p.GroundExprs.MergeInto(dst.GroundExprs)

	return MergeResult{GroundAtoms: p.GroundAtoms.MergeInto(dst.GroundAtoms)}
}
