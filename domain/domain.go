// File: domain.go
// Role: fixed-point variable-domain analysis. A worklist-until-empty loop
// where the "frontier" is the set of predicate positions whose domain grew
// on the last round; the loop runs until a round grows nothing.
package domain

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/exp/maps"

	"github.com/liftedplan/kpkc/ir"
)

// PositionKey names one argument position of a predicate or function symbol.
type PositionKey struct {
	Symbol   ir.Index
	Position int
}

// Domains is the output of Analyze: a conservative superset of the objects
// that may ever occupy a given predicate/function position or rule
// parameter.
type Domains struct {
	universe *bitset.BitSet

	predicates map[PositionKey]*bitset.BitSet
	functions  map[PositionKey]*bitset.BitSet

	// ruleParams[r][pos] is rule r's parameter pos's domain.
	ruleParams map[ir.Index][]*bitset.BitSet
}

// Universe returns every object known to the program.
func (d *Domains) Universe() *bitset.BitSet { return d.universe.Clone() }

// Predicate returns predicate pred's domain at position pos, or an empty set
// if that position never appeared.
func (d *Domains) Predicate(pred ir.Index, pos int) *bitset.BitSet {
	return d.lookup(d.predicates, PositionKey{pred, pos})
}

// Function returns function fn's domain at position pos.
func (d *Domains) Function(fn ir.Index, pos int) *bitset.BitSet {
	return d.lookup(d.functions, PositionKey{fn, pos})
}

// RuleParameter returns rule's parameter pos's domain.
func (d *Domains) RuleParameter(rule ir.Index, pos int) *bitset.BitSet {
	sets := d.ruleParams[rule]
	if pos < 0 || pos >= len(sets) {
		return bitset.New(0)
	}
	return sets[pos]
}

func (d *Domains) lookup(m map[PositionKey]*bitset.BitSet, key PositionKey) *bitset.BitSet {
	if s, ok := m[key]; ok {
		return s
	}
	return bitset.New(0)
}

func (d *Domains) widen(m map[PositionKey]*bitset.BitSet, key PositionKey, with *bitset.BitSet) bool {
	s, ok := m[key]
	if !ok {
		s = bitset.New(d.universe.Len())
		m[key] = s
	}
	before := s.Count()
	s.InPlaceUnion(with)
	return s.Count() != before
}

// Option configures Analyze.
type Option func(*config)

type config struct {
	logger hclog.Logger
}

func defaultConfig() config {
	return config{logger: hclog.NewNullLogger()}
}

// WithLogger overrides Analyze's logger (default: discards everything),
// mirroring engine.WithLogger and plan.WithLogger.
func WithLogger(l hclog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Analyze runs the fixed-point algorithm of over the fully-populated initial
// state of p (its GroundAtoms/GroundFuncTerms must already hold every initial
// fact; Analyze does not itself consult any notion of "which atoms are
// initial" beyond "whatever p.GroundAtoms currently contains").
func Analyze(p *ir.Program, opts ...Option) *Domains {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	d := &Domains{
		universe:   bitset.New(uint(p.Objects.Size())),
		predicates: make(map[PositionKey]*bitset.BitSet),
		functions:  make(map[PositionKey]*bitset.BitSet),
		ruleParams: make(map[ir.Index][]*bitset.BitSet),
	}
	for o := ir.Index(0); o < p.Objects.Size(); o++ {
		d.universe.Set(uint(o))
	}

	// Step 1: seed predicate/function position domains from the initial
	// ground atoms and ground function terms already interned in p.
	p.GroundAtoms.Merge(func(_ ir.Index, idx ir.GroupIndex, atom ir.GroundAtomData) {
		for pos, obj := range atom.Args {
			d.seed(d.predicates, PositionKey{atom.Predicate, pos}, obj)
		}
	})
	p.GroundFuncTerms.Merge(func(_ ir.Index, idx ir.GroupIndex, ft ir.GroundFunctionTermData) {
		for pos, obj := range ft.Args {
			d.seed(d.functions, PositionKey{ft.Function, pos}, obj)
		}
	})

	// Step 2: initialize and restrict every rule parameter's domain from
	// static literals and numeric constraints.
	for i := ir.Index(0); i < p.Rules.Size(); i++ {
		rule := p.Rules.Get(i)
		params := make([]*bitset.BitSet, rule.Body.Arity())
		for pos := range params {
			params[pos] = d.universe.Clone()
		}
		for _, lit := range rule.Body.Static {
			atom := p.Atoms.Get(lit.Atom)
			restrictByAtom(d.predicates, atom, params)
		}
		for _, constraintIdx := range rule.Body.Numeric {
			restrictByNumeric(p, constraintIdx, d.functions, params)
		}
		d.ruleParams[i] = params
	}

	// Step 3: iterate widening fluent predicate position domains from body
	// fluent literals and rule heads until no domain grows.
	for {
		grown := map[PositionKey]bool{}
		for i := ir.Index(0); i < p.Rules.Size(); i++ {
			rule := p.Rules.Get(i)
			params := d.ruleParams[i]

			widenFromAtom := func(atom ir.AtomData) {
				for pos, term := range atom.Args {
					if term.Kind != ir.TermVariable {
						continue
					}
					key := PositionKey{atom.Predicate, pos}
					if d.widen(d.predicates, key, params[term.Variable]) {
						grown[key] = true
					}
				}
			}
			for _, lit := range rule.Body.Fluent {
				widenFromAtom(p.Atoms.Get(lit.Atom))
			}
			widenFromAtom(rule.Head)
		}
		if len(grown) == 0 {
			break
		}
		if cfg.logger.IsDebug() {
			keys := maps.Keys(grown)
			preds := make([]ir.Index, len(keys))
			for i, k := range keys {
				preds[i] = k.Symbol
			}
			cfg.logger.Debug("fluent predicate domains grew", "positions", len(keys), "predicates", preds)
		}
	}

	return d
}

func (d *Domains) seed(m map[PositionKey]*bitset.BitSet, key PositionKey, obj ir.Index) {
	s, ok := m[key]
	if !ok {
		s = bitset.New(d.universe.Len())
		m[key] = s
	}
	s.Set(uint(obj))
}

// restrictByAtom intersects every rule parameter mentioned (in a variable
// position) of a static body atom with that atom's predicate/position
// domain. Positions bound to a constant Term contribute no restriction.
func restrictByAtom(predicates map[PositionKey]*bitset.BitSet, atom ir.AtomData, params []*bitset.BitSet) {
	for pos, term := range atom.Args {
		if term.Kind != ir.TermVariable {
			continue
		}
		if dom, ok := predicates[PositionKey{atom.Predicate, pos}]; ok {
			params[term.Variable].InPlaceIntersection(dom)
		} else {
			params[term.Variable].InPlaceIntersection(bitset.New(0))
		}
	}
}

// restrictByNumeric walks a schema expression tree looking for function-term
// leaves, restricting any rule parameter bound into one of that function
// term's argument positions by the corresponding function domain.
func restrictByNumeric(p *ir.Program, exprIdx ir.Index, functions map[PositionKey]*bitset.BitSet, params []*bitset.BitSet) {
	var walk func(ir.Index)
	walk = func(idx ir.Index) {
		e := p.Exprs.Get(idx)
		switch e.Kind {
		case ir.ExprFuncTerm:
			ft := p.FuncTerms.Get(e.FuncTerm)
			for pos, term := range ft.Args {
				if term.Kind != ir.TermVariable {
					continue
				}
				if dom, ok := functions[PositionKey{ft.Function, pos}]; ok {
					params[term.Variable].InPlaceIntersection(dom)
				} else {
					params[term.Variable].InPlaceIntersection(bitset.New(0))
				}
			}
		case ir.ExprUnary, ir.ExprBinary, ir.ExprMulti:
			for _, o := range e.Operands {
				walk(o)
			}
		}
	}
	walk(exprIdx)
}
