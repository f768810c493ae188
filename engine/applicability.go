// File: applicability.go
// Role: the exact post-clique verification that every binding
// kpkc's overapproximated walk proposes must still pass before it is
// accepted: full re-check of every literal kind and every numeric
// constraint, with no shortcuts.
package engine

import (
	"github.com/liftedplan/kpkc/facts"
	"github.com/liftedplan/kpkc/ir"
)

// Applicable reports whether binding satisfies rule's entire body against
// the current fact sets: every literal (Static, Fluent, Derived) checked
// by exact ground-atom presence, and every numeric constraint evaluated
// exactly via ir.EvalConstraint.
func Applicable(p *ir.Program, rule ir.RuleData, binding ir.Binding, fs *facts.FactSets) bool {
	return StaticApplicable(p, rule, binding, fs) && DynamicApplicable(p, rule, binding, fs)
}

// StaticApplicable checks only rule's Static body literals. A binding that
// fails here can never become applicable later (the static fact set never
// changes during a run), so the driver discards it permanently rather than
// holding it pending.
func StaticApplicable(p *ir.Program, rule ir.RuleData, binding ir.Binding, fs *facts.FactSets) bool {
	return literalsHold(p, rule.Body.Static, ir.Static, binding, fs)
}

// DynamicApplicable checks rule's Fluent and Derived body literals plus
// every numeric constraint. A binding that passes StaticApplicable but
// fails here is held pending and re-checked every iteration of the current
// stratum, since the fluent/derived fact set and function
// values can still change.
func DynamicApplicable(p *ir.Program, rule ir.RuleData, binding ir.Binding, fs *facts.FactSets) bool {
	if !literalsHold(p, rule.Body.Fluent, ir.Fluent, binding, fs) {
		return false
	}
	if !literalsHold(p, rule.Body.Derived, ir.Derived, binding, fs) {
		return false
	}
	for _, n := range rule.Body.Numeric {
		if !numericHolds(p, n, binding, fs) {
			return false
		}
	}
	return true
}

func literalsHold(p *ir.Program, lits []ir.Literal, role ir.Role, binding ir.Binding, fs *facts.FactSets) bool {
	fset := fs.ForRole(role)
	for _, l := range lits {
		atom := p.Atoms.Get(l.Atom)
		ground := ir.GroundAtom(atom, binding)
		idx, found := p.GroundAtoms.Find(atom.Predicate, ground)
		present := found && fset.Contains(idx)
		if l.Positive != present {
			return false
		}
	}
	return true
}

func numericHolds(p *ir.Program, exprIdx ir.Index, binding ir.Binding, fs *facts.FactSets) bool {
	groundFT := func(schemaFT ir.Index, b ir.Binding) ir.GroupIndex {
		ft := p.FuncTerms.Get(schemaFT)
		ground := ir.GroundFunctionTerm(ft, b)
		idx, found := p.GroundFuncTerms.Find(ft.Function, ground)
		if !found {
			return ir.UndefinedFuncTerm
		}
		return idx
	}
	root, get := ir.GroundExprTree(exprIdx, p.Exprs, groundFT, binding)
	return ir.EvalConstraint(root, get, fs.Functions)
}
