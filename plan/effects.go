// File: effects.go
// Role: grounding and applying a GroundAction's conditional effects
// (including numeric effects) to a State. These run outside the core's
// Datalog engine entirely: effects
// are monotone-unsafe (delete effects retract facts), so they are applied
// the ordinary imperative way a STRIPS/ADL successor function always has
// been, once the engine has told us a ground action is applicable.
package plan

import (
	"math"

	"github.com/liftedplan/kpkc/ir"
)

// groundArgs resolves a schema term list to object indices under binding.
func groundArgs(built *Built, paramPos map[string]int, binding ir.Binding, args []TermSchema) ([]ir.Index, error) {
	out := make([]ir.Index, len(args))
	for i, t := range args {
		switch t.Kind {
		case TermVar:
			pos, ok := paramPos[t.Name]
			if !ok {
				return nil, ErrUnknownParameter
			}
			out[i] = binding[pos]
		default:
			obj, ok := built.Objects[t.Name]
			if !ok {
				return nil, ErrUnknownObject
			}
			out[i] = obj
		}
	}
	return out, nil
}

func groundAtomSchema(built *Built, paramPos map[string]int, binding ir.Binding, a AtomSchema) (ir.GroupIndex, error) {
	predIdx, ok := built.Predicates[a.Predicate]
	if !ok {
		return ir.GroupIndex{}, ErrUnknownPredicateName
	}
	args, err := groundArgs(built, paramPos, binding, a.Args)
	if err != nil {
		return ir.GroupIndex{}, err
	}
	idx, _ := built.Program.GroundAtoms.GetOrCreate(predIdx, ir.GroundAtomData{Predicate: predIdx, Args: args})
	return idx, nil
}

// evalExprSchema evaluates a task-level expression tree directly (not via
// the interned ir.Expr arena: numeric effect values are computed once per
// application against a concrete state, never enumerated by kpkc, so there
// is nothing to intern them for). Mirrors ir.EvalNumeric's NaN propagation.
func evalExprSchema(built *Built, paramPos map[string]int, binding ir.Binding, s *State, e *ExprSchema) float64 {
	switch e.Kind {
	case ir.ExprNumber:
		return e.Number
	case ir.ExprFuncTerm:
		fnIdx, ok := built.Functions[e.FuncTerm.Function]
		if !ok {
			return math.NaN()
		}
		args, err := groundArgs(built, paramPos, binding, e.FuncTerm.Args)
		if err != nil {
			return math.NaN()
		}
		idx, _ := built.Program.GroundFuncTerms.GetOrCreate(fnIdx, ir.GroundFunctionTermData{Function: fnIdx, Args: args})
		v, ok := s.Facts.Functions.Value(idx)
		if !ok {
			return math.NaN()
		}
		return v
	case ir.ExprUnary:
		v := evalExprSchema(built, paramPos, binding, s, e.Operands[0])
		if e.Op == ir.OpNeg {
			return -v
		}
		return math.NaN()
	case ir.ExprBinary:
		l := evalExprSchema(built, paramPos, binding, s, e.Operands[0])
		r := evalExprSchema(built, paramPos, binding, s, e.Operands[1])
		if math.IsNaN(l) || math.IsNaN(r) {
			return math.NaN()
		}
		switch e.Op {
		case ir.OpAdd:
			return l + r
		case ir.OpSub:
			return l - r
		case ir.OpMul:
			return l * r
		case ir.OpDiv:
			if r == 0 {
				return math.NaN()
			}
			return l / r
		default:
			return math.NaN()
		}
	case ir.ExprMulti:
		acc := 0.0
		if e.Op == ir.OpMultiMul {
			acc = 1
		}
		for _, o := range e.Operands {
			v := evalExprSchema(built, paramPos, binding, s, o)
			if math.IsNaN(v) {
				return math.NaN()
			}
			if e.Op == ir.OpMultiMul {
				acc *= v
			} else {
				acc += v
			}
		}
		return acc
	default:
		return math.NaN()
	}
}

// literalsHoldSchema checks a schema literal list against s under binding,
// used for a conditional effect's guard (distinct from a precondition: it
// is checked after the action's own precondition already passed, against
// the same state).
func literalsHoldSchema(built *Built, paramPos map[string]int, binding ir.Binding, s *State, lits []LiteralSchema) bool {
	for _, l := range lits {
		idx, err := groundAtomSchema(built, paramPos, binding, l.Atom)
		if err != nil {
			return false
		}
		role, _ := built.PredicateRole(l.Atom.Predicate)
		present := s.Facts.ForRole(role).Contains(idx)
		if present != l.Positive {
			return false
		}
	}
	return true
}

// Apply returns the State reached by applying ga to s, leaving s untouched.
// Effects are evaluated in schema order against s's pre-effect values: the
// ordered effect list governs iteration order only, and every effect reads
// the same pre-state, as simultaneous-effects semantics requires.
func Apply(s *State, ga GroundAction) *State {
	next := s.Clone()
	built := s.built
	paramPos := make(map[string]int, len(ga.Schema.Parameters))
	for i, name := range ga.Schema.Parameters {
		paramPos[name] = i
	}

	type addDel struct {
		idx ir.GroupIndex
		add bool
	}
	var pending []addDel
	type numApply struct {
		target ir.GroupIndex
		kind   NumericEffectKind
		value  float64
	}
	var numPending []numApply

	for _, eff := range ga.Schema.Effects {
		if len(eff.Condition) > 0 && !literalsHoldSchema(built, paramPos, ga.Binding, s, eff.Condition) {
			continue
		}
		for _, a := range eff.Add {
			idx, err := groundAtomSchema(built, paramPos, ga.Binding, a)
			if err == nil {
				pending = append(pending, addDel{idx, true})
			}
		}
		for _, a := range eff.Del {
			idx, err := groundAtomSchema(built, paramPos, ga.Binding, a)
			if err == nil {
				pending = append(pending, addDel{idx, false})
			}
		}
		for _, n := range eff.Numeric {
			fnIdx, ok := built.Functions[n.Target.Function]
			if !ok {
				continue
			}
			args, err := groundArgs(built, paramPos, ga.Binding, n.Target.Args)
			if err != nil {
				continue
			}
			target, _ := built.Program.GroundFuncTerms.GetOrCreate(fnIdx, ir.GroundFunctionTermData{Function: fnIdx, Args: args})
			v := evalExprSchema(built, paramPos, ga.Binding, s, n.Value)
			if math.IsNaN(v) {
				continue
			}
			numPending = append(numPending, numApply{target, n.Kind, v})
		}
	}

	for _, ad := range pending {
		role := built.Program.Predicates.Get(ad.idx.Group).Role
		if ad.add {
			next.Facts.ForRole(role).Add(ad.idx)
		} else {
			next.Facts.ForRole(role).Remove(ad.idx)
		}
	}
	for _, n := range numPending {
		cur, ok := next.Facts.Functions.Value(n.target)
		if !ok {
			if n.kind != EffectAssign {
				// Increasing/scaling an undefined function is NaN territory;
				// the effect is inapplicable, not "as if it were zero".
				continue
			}
			cur = 0
		}
		var nv float64
		switch n.kind {
		case EffectAssign:
			nv = n.value
		case EffectIncrease:
			nv = cur + n.value
		case EffectDecrease:
			nv = cur - n.value
		case EffectScaleUp:
			nv = cur * n.value
		case EffectScaleDown:
			if n.value == 0 {
				continue
			}
			nv = cur / n.value
		}
		next.Facts.Functions.Set(n.target, nv)
	}

	return next
}
