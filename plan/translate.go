// File: translate.go
// Role: Translator turns a Task into an ir.Program plus one
// RuleData per action schema (head = a synthesized per-schema "header"
// predicate) and per axiom (head = the axiom's own declared derived
// predicate), one effect-reachability RuleData per add atom of each
// action's effects, the initial FactSets, and every other per-run artifact
// package engine's Driver needs (domain analysis, stratification, static
// assignment sets).
//
// Construction is staged: names and arities are checked while each
// declaration is accumulated into named fields, and the analyses run once
// at the end.
package plan

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/liftedplan/kpkc/consistency"
	"github.com/liftedplan/kpkc/domain"
	"github.com/liftedplan/kpkc/facts"
	"github.com/liftedplan/kpkc/ir"
	"github.com/liftedplan/kpkc/stratify"
)

// ActionTemplate is the per-action-schema data the translator keeps beside
// its RuleData: the header predicate synthesized for it, and the original
// schema (still carrying its Effects), so the successor generator can
// ground the full action once the header atom is derived.
type ActionTemplate struct {
	Schema          ActionSchema
	RuleIdx         ir.Index
	HeaderPredicate ir.Index
	// ParamPos maps a declared parameter name to its position in the
	// rule's binding vector, the same order Schema.Parameters lists them.
	ParamPos map[string]int
}

// Built is everything Translate produces: the interned program, every
// per-run analysis artifact engine.Driver needs, the initial fact state,
// the goal atoms, and the action/object bookkeeping the glue layer
// (successor generation, heuristics, plan serialization) needs to go back
// and forth between ir.Index values and task-level names.
type Built struct {
	Program           *ir.Program
	Domains           *domain.Domains
	Strat             *stratify.Result
	StaticAssignments consistency.StaticAssignments
	InitialFacts      *facts.FactSets
	Goal              []ir.GroupIndex

	Objects     map[string]ir.Index
	ObjectNames map[ir.Index]string

	Predicates map[string]ir.Index
	predicateDecls map[string]PredicateDecl
	Functions   map[string]ir.Index
	functionDecls map[string]FunctionDecl

	// ActionByRule and ActionByHeader both resolve to the same
	// *ActionTemplate; the successor generator has a rule index handy from
	// the engine's bookkeeping but needs to recognize a *ground atom's*
	// predicate as an action header, hence both directions.
	ActionByRule   map[ir.Index]*ActionTemplate
	ActionByHeader map[ir.Index]*ActionTemplate
	// EffectRuleOwner maps an effect-reachability rule's index (built by
	// buildEffectReachabilityRules), and any guard rule split off one, back
	// to the action template it belongs to, so the successor generator
	// (successor.go) can leave these rules out of its engine runs.
	EffectRuleOwner map[ir.Index]*ActionTemplate
}

// PredicateRole looks up a declared predicate's role by name.
func (b *Built) PredicateRole(name string) (ir.Role, bool) {
	d, ok := b.predicateDecls[name]
	return d.Role, ok
}

// ObjectName renders obj back to its task-level name, for plan
// serialization and diagnostics.
func (b *Built) ObjectName(obj ir.Index) string { return b.ObjectNames[obj] }

type translator struct {
	log     hclog.Logger
	program *ir.Program
	b       *Built
}

// TranslateOption configures Translate.
type TranslateOption func(*translator)

// WithLogger overrides the translator's logger (default: discards
// everything), mirroring engine.WithLogger.
func WithLogger(l hclog.Logger) TranslateOption {
	return func(t *translator) { t.log = l }
}

// Translate builds a complete Built from task. It returns an error
// (wrapping one of this package's sentinels, or stratify.ErrNotStratifiable)
// the first time it finds a structural problem; unlike ir.Validate it does
// not accumulate every problem, since most come from programmatically
// constructed Task values rather than hand-authored source text.
func Translate(task Task, opts ...TranslateOption) (*Built, error) {
	tr := &translator{
		log:     hclog.NewNullLogger(),
		program: ir.NewProgram(),
	}
	for _, o := range opts {
		o(tr)
	}
	tr.b = &Built{
		Program:        tr.program,
		InitialFacts:   facts.NewFactSets(),
		Objects:        map[string]ir.Index{},
		ObjectNames:    map[ir.Index]string{},
		Predicates:     map[string]ir.Index{},
		predicateDecls: map[string]PredicateDecl{},
		Functions:      map[string]ir.Index{},
		functionDecls:  map[string]FunctionDecl{},
		ActionByRule:    map[ir.Index]*ActionTemplate{},
		ActionByHeader:  map[ir.Index]*ActionTemplate{},
		EffectRuleOwner: map[ir.Index]*ActionTemplate{},
	}

	for _, name := range task.Objects() {
		idx, _ := tr.program.Objects.GetOrCreate(ir.ObjectData{Name: name})
		tr.b.Objects[name] = idx
		tr.b.ObjectNames[idx] = name
	}

	dom := task.Domain()
	for _, pd := range dom.Predicates() {
		idx, _ := tr.program.Predicates.GetOrCreate(ir.PredicateData{Name: pd.Name, Arity: pd.Arity, Role: pd.Role})
		tr.b.Predicates[pd.Name] = idx
		tr.b.predicateDecls[pd.Name] = pd
	}
	for _, fd := range dom.Functions() {
		idx, _ := tr.program.Functions.GetOrCreate(ir.FunctionData{Name: fd.Name, Arity: fd.Arity, Role: fd.Role})
		tr.b.Functions[fd.Name] = idx
		tr.b.functionDecls[fd.Name] = fd
	}

	for _, action := range dom.Actions() {
		if err := tr.buildAction(action); err != nil {
			return nil, fmt.Errorf("action %q: %w", action.Name, err)
		}
	}
	for _, axiom := range dom.Axioms() {
		if err := tr.buildAxiom(axiom); err != nil {
			return nil, fmt.Errorf("axiom %q: %w", axiom.Name, err)
		}
	}

	// Project dangling existential variables out of every rule before any
	// analysis runs. The rewrite preserves all interned indices, so the
	// action templates recorded above stay valid.
	rewrite := ir.EliminateDanglingExistentials(tr.program)
	tr.program = rewrite.Program
	tr.b.Program = tr.program
	if len(rewrite.Guards) > 0 {
		tr.log.Debug("eliminated dangling existentials", "rules", len(rewrite.Guards))
		// A guard split off an effect-reachability rule serves only the
		// relaxed runs its owner does; register it so successor runs skip
		// it alongside its owner.
		type guardOwner struct {
			guard ir.Index
			tmpl  *ActionTemplate
		}
		var owned []guardOwner
		for ruleIdx, tmpl := range tr.b.EffectRuleOwner {
			if g, ok := rewrite.Guards[ruleIdx]; ok {
				owned = append(owned, guardOwner{guard: g, tmpl: tmpl})
			}
		}
		for _, o := range owned {
			tr.b.EffectRuleOwner[o.guard] = o.tmpl
		}
	}

	for _, a := range task.InitialAtoms() {
		idx, pred, err := tr.groundAtom(a)
		if err != nil {
			return nil, fmt.Errorf("initial atom %s: %w", a.Predicate, err)
		}
		role := tr.b.predicateDecls[tr.predicateName(pred)].Role
		tr.b.InitialFacts.ForRole(role).Add(idx)
	}
	for _, fv := range task.InitialFunctionValues() {
		idx, err := tr.groundFuncTerm(fv.Function, fv.Args)
		if err != nil {
			return nil, fmt.Errorf("initial value of %s: %w", fv.Function, err)
		}
		tr.b.InitialFacts.Functions.Set(idx, fv.Value)
	}

	tr.b.Domains = domain.Analyze(tr.program, domain.WithLogger(tr.log))

	strat, err := stratify.Stratify(tr.program)
	if err != nil {
		return nil, err
	}
	tr.b.Strat = strat

	tr.b.StaticAssignments = consistency.BuildStaticAssignments(tr.program, tr.b.InitialFacts)

	for _, g := range task.Goal() {
		idx, _, err := tr.groundAtom(g)
		if err != nil {
			return nil, fmt.Errorf("goal atom %s: %w", g.Predicate, err)
		}
		tr.b.Goal = append(tr.b.Goal, idx)
	}

	tr.log.Debug("translated task",
		"objects", len(tr.b.Objects),
		"predicates", len(tr.b.Predicates),
		"functions", len(tr.b.Functions),
		"rules", tr.program.Rules.Size(),
		"strata", strat.NumStrata,
	)

	return tr.b, nil
}

func (tr *translator) predicateName(idx ir.Index) string {
	return tr.program.Predicates.Get(idx).Name
}

func (tr *translator) buildAction(a ActionSchema) error {
	// The header predicate is Derived, not Fluent: its only job is to let
	// the bottom-up engine tell package plan which bindings are applicable
	// right now, and Derived facts are recomputed from scratch every run
	// (facts.FactSets.Derived's doc comment) instead of persisting across
	// the State clones that real Fluent effects live in.
	headerName := "__action$" + a.Name
	headerIdx, _ := tr.program.Predicates.GetOrCreate(ir.PredicateData{
		Name: headerName, Arity: len(a.Parameters), Role: ir.Derived,
	})

	rb := ir.NewRuleBuilder(a.Name)
	cb := rb.Condition()
	paramPos := make(map[string]int, len(a.Parameters))
	for _, name := range a.Parameters {
		t := cb.Var(name)
		paramPos[name] = t.Variable
	}

	for _, lit := range a.Precondition {
		if err := tr.addLiteral(cb, paramPos, lit); err != nil {
			return err
		}
	}
	for _, n := range a.NumericPrecondition {
		idx, err := tr.buildExpr(paramPos, n)
		if err != nil {
			return err
		}
		cb.Numeric(idx)
	}

	head := ir.AtomData{Predicate: headerIdx, Args: make([]ir.Term, len(a.Parameters))}
	for i := range a.Parameters {
		head.Args[i] = ir.VarTerm(i)
	}
	rb.Head(head)

	cost := a.Cost
	if a.CostExpr != nil {
		cost = tr.foldConstCost(a.CostExpr, a.Name)
	}
	rb.Cost(cost)

	ruleIdx, _ := rb.Intern(tr.program.Rules)

	tmpl := &ActionTemplate{Schema: a, RuleIdx: ruleIdx, HeaderPredicate: headerIdx, ParamPos: paramPos}
	tr.b.ActionByRule[ruleIdx] = tmpl
	tr.b.ActionByHeader[headerIdx] = tmpl

	if err := tr.buildEffectReachabilityRules(a, cost, tmpl); err != nil {
		return err
	}
	return nil
}

// buildEffectReachabilityRules adds one extra rule per (conditional effect,
// add atom): body = the action's own precondition plus that effect's guard,
// head = the added atom itself, cost = the action's cost. These are what
// let package plan's heuristics (h_max/h_add/h_ff) propagate reachability
// and cost through an action's actual add effects, not merely through its
// synthesized "applicable" header (successor.go's concern). Delete effects
// contribute no rule at all: ignoring them is the standard delete
// relaxation every one of the three heuristics is built on,
// and it falls out for free here since the core engine never retracts a
// derived fact once added.
func (tr *translator) buildEffectReachabilityRules(a ActionSchema, cost uint32, tmpl *ActionTemplate) error {
	for ei, eff := range a.Effects {
		for ai, add := range eff.Add {
			rb := ir.NewRuleBuilder(fmt.Sprintf("%s$effect%d$%d", a.Name, ei, ai))
			cb := rb.Condition()
			local := map[string]int{}
			ensure := func(name string) int {
				if pos, ok := local[name]; ok {
					return pos
				}
				t := cb.Var(name)
				local[name] = t.Variable
				return t.Variable
			}
			// Touch every parameter the add atom's own args reference
			// before building the body, so a head-only variable still gets
			// a position even if no literal happens to mention it first.
			for _, arg := range add.Args {
				if arg.Kind == TermVar {
					ensure(arg.Name)
				}
			}
			addLit := func(lit LiteralSchema) error {
				for _, arg := range lit.Atom.Args {
					if arg.Kind == TermVar {
						ensure(arg.Name)
					}
				}
				return tr.addLiteral(cb, local, lit)
			}
			for _, lit := range a.Precondition {
				if err := addLit(lit); err != nil {
					return err
				}
			}
			for _, lit := range eff.Condition {
				if err := addLit(lit); err != nil {
					return err
				}
			}
			for _, n := range a.NumericPrecondition {
				ensureExprVars(n, ensure)
			}
			for _, n := range a.NumericPrecondition {
				idx, err := tr.buildExpr(local, n)
				if err != nil {
					return err
				}
				cb.Numeric(idx)
			}

			args := make([]ir.Term, len(add.Args))
			for i, arg := range add.Args {
				t, err := tr.resolveTerm(local, arg)
				if err != nil {
					return err
				}
				args[i] = t
			}
			headPred, ok := tr.b.Predicates[add.Predicate]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownPredicateName, add.Predicate)
			}
			rb.Head(ir.AtomData{Predicate: headPred, Args: args})
			rb.Cost(cost)
			effectRuleIdx, _ := rb.Intern(tr.program.Rules)
			tr.b.EffectRuleOwner[effectRuleIdx] = tmpl
		}
	}
	return nil
}

func (tr *translator) buildAxiom(a AxiomSchema) error {
	predIdx, ok := tr.b.Predicates[a.Head.Predicate]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPredicateName, a.Head.Predicate)
	}
	decl := tr.b.predicateDecls[a.Head.Predicate]
	if decl.Role != ir.Derived {
		return fmt.Errorf("%s: head predicate must be Derived, got %s: %w", a.Head.Predicate, decl.Role, ErrBadPredicateRole)
	}

	rb := ir.NewRuleBuilder(a.Name)
	cb := rb.Condition()
	paramPos := make(map[string]int, len(a.Parameters))
	for _, name := range a.Parameters {
		t := cb.Var(name)
		paramPos[name] = t.Variable
	}
	for _, lit := range a.Body {
		if err := tr.addLiteral(cb, paramPos, lit); err != nil {
			return err
		}
	}
	for _, n := range a.NumericBody {
		idx, err := tr.buildExpr(paramPos, n)
		if err != nil {
			return err
		}
		cb.Numeric(idx)
	}

	args := make([]ir.Term, len(a.Head.Args))
	for i, arg := range a.Head.Args {
		t, err := tr.resolveTerm(paramPos, arg)
		if err != nil {
			return err
		}
		args[i] = t
	}
	rb.Head(ir.AtomData{Predicate: predIdx, Args: args})
	rb.Cost(0)
	rb.Intern(tr.program.Rules)
	return nil
}

func (tr *translator) resolveTerm(paramPos map[string]int, t TermSchema) (ir.Term, error) {
	switch t.Kind {
	case TermVar:
		pos, ok := paramPos[t.Name]
		if !ok {
			return ir.Term{}, fmt.Errorf("%w: %s", ErrUnknownParameter, t.Name)
		}
		return ir.VarTerm(pos), nil
	default:
		obj, ok := tr.b.Objects[t.Name]
		if !ok {
			return ir.Term{}, fmt.Errorf("%w: %s", ErrUnknownObject, t.Name)
		}
		return ir.ObjTerm(obj), nil
	}
}

func (tr *translator) buildAtom(paramPos map[string]int, a AtomSchema) (ir.Index, ir.Index, error) {
	predIdx, ok := tr.b.Predicates[a.Predicate]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownPredicateName, a.Predicate)
	}
	decl := tr.b.predicateDecls[a.Predicate]
	if len(a.Args) != decl.Arity {
		return 0, 0, fmt.Errorf("%s: expects arity %d, got %d: %w", a.Predicate, decl.Arity, len(a.Args), ErrArityMismatch)
	}

	ab := ir.NewAtomBuilder().Predicate(predIdx)
	for _, arg := range a.Args {
		t, err := tr.resolveTerm(paramPos, arg)
		if err != nil {
			return 0, 0, err
		}
		ab.Arg(t)
	}
	idx, _ := ab.Intern(tr.program.Atoms)
	return idx, predIdx, nil
}

func (tr *translator) addLiteral(cb *ir.ConditionBuilder, paramPos map[string]int, lit LiteralSchema) error {
	atomIdx, predIdx, err := tr.buildAtom(paramPos, lit.Atom)
	if err != nil {
		return err
	}
	l := ir.Literal{Atom: atomIdx, Positive: lit.Positive}
	switch tr.program.Predicates.Get(predIdx).Role {
	case ir.Static:
		cb.Static(l)
	case ir.Fluent:
		cb.Fluent(l)
	case ir.Derived:
		cb.Derived(l)
	default:
		return fmt.Errorf("%s: %w", lit.Atom.Predicate, ErrBadPredicateRole)
	}
	return nil
}

func (tr *translator) buildFuncTerm(paramPos map[string]int, ft FunctionTermSchema) (ir.Index, ir.Role, error) {
	fnIdx, ok := tr.b.Functions[ft.Function]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownFunctionName, ft.Function)
	}
	decl := tr.b.functionDecls[ft.Function]
	if len(ft.Args) != decl.Arity {
		return 0, 0, fmt.Errorf("%s: expects arity %d, got %d: %w", ft.Function, decl.Arity, len(ft.Args), ErrArityMismatch)
	}
	args := make([]ir.Term, len(ft.Args))
	for i, arg := range ft.Args {
		t, err := tr.resolveTerm(paramPos, arg)
		if err != nil {
			return 0, 0, err
		}
		args[i] = t
	}
	idx, _ := tr.program.FuncTerms.GetOrCreate(ir.FunctionTermData{Function: fnIdx, Args: args})
	return idx, decl.Role, nil
}

func (tr *translator) buildExpr(paramPos map[string]int, e *ExprSchema) (ir.Index, error) {
	eb := ir.NewExprBuilder()
	switch e.Kind {
	case ir.ExprNumber:
		eb.Number(e.Number)
	case ir.ExprFuncTerm:
		ftIdx, role, err := tr.buildFuncTerm(paramPos, *e.FuncTerm)
		if err != nil {
			return 0, err
		}
		eb.FuncTerm(ftIdx, role)
	case ir.ExprUnary, ir.ExprBinary, ir.ExprMulti:
		eb.Op(e.Kind, e.Op)
		for _, o := range e.Operands {
			oi, err := tr.buildExpr(paramPos, o)
			if err != nil {
				return 0, err
			}
			eb.Operand(oi)
		}
	}
	idx, _ := eb.Intern(tr.program.Exprs)
	return idx, nil
}

// groundAtom interns a ground, named atom and returns its GroupIndex and
// predicate index.
func (tr *translator) groundAtom(a GroundAtom) (ir.GroupIndex, ir.Index, error) {
	predIdx, ok := tr.b.Predicates[a.Predicate]
	if !ok {
		return ir.GroupIndex{}, 0, fmt.Errorf("%w: %s", ErrUnknownPredicateName, a.Predicate)
	}
	decl := tr.b.predicateDecls[a.Predicate]
	if len(a.Args) != decl.Arity {
		return ir.GroupIndex{}, 0, fmt.Errorf("%s: expects arity %d, got %d: %w", a.Predicate, decl.Arity, len(a.Args), ErrArityMismatch)
	}
	args := make([]ir.Index, len(a.Args))
	for i, name := range a.Args {
		obj, ok := tr.b.Objects[name]
		if !ok {
			return ir.GroupIndex{}, 0, fmt.Errorf("%w: %s", ErrUnknownObject, name)
		}
		args[i] = obj
	}
	idx, _ := tr.program.GroundAtoms.GetOrCreate(predIdx, ir.GroundAtomData{Predicate: predIdx, Args: args})
	return idx, predIdx, nil
}

func (tr *translator) groundFuncTerm(function string, argNames []string) (ir.GroupIndex, error) {
	fnIdx, ok := tr.b.Functions[function]
	if !ok {
		return ir.GroupIndex{}, fmt.Errorf("%w: %s", ErrUnknownFunctionName, function)
	}
	args := make([]ir.Index, len(argNames))
	for i, name := range argNames {
		obj, ok := tr.b.Objects[name]
		if !ok {
			return ir.GroupIndex{}, fmt.Errorf("%w: %s", ErrUnknownObject, name)
		}
		args[i] = obj
	}
	idx, _ := tr.program.GroundFuncTerms.GetOrCreate(fnIdx, ir.GroundFunctionTermData{Function: fnIdx, Args: args})
	return idx, nil
}

// foldConstExprValue evaluates e to a constant float64 iff it contains no
// FunctionTerm leaf, no division by zero and only Neg, Add, Sub, Mul, Div
// and multi-operand Add/Mul operators (cost "expression" collapsed to a
// compile-time constant, see ActionSchema.CostExpr's doc comment).
func foldConstExprValue(e *ExprSchema) (float64, bool) {
	switch e.Kind {
	case ir.ExprNumber:
		return e.Number, true
	case ir.ExprFuncTerm:
		return 0, false
	case ir.ExprUnary:
		v, ok := foldConstExprValue(e.Operands[0])
		if !ok || e.Op != ir.OpNeg {
			return 0, false
		}
		return -v, true
	case ir.ExprBinary:
		l, ok1 := foldConstExprValue(e.Operands[0])
		r, ok2 := foldConstExprValue(e.Operands[1])
		if !ok1 || !ok2 {
			return 0, false
		}
		switch e.Op {
		case ir.OpAdd:
			return l + r, true
		case ir.OpSub:
			return l - r, true
		case ir.OpMul:
			return l * r, true
		case ir.OpDiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		default:
			return 0, false
		}
	case ir.ExprMulti:
		acc := 0.0
		if e.Op == ir.OpMultiMul {
			acc = 1
		}
		for _, o := range e.Operands {
			v, ok := foldConstExprValue(o)
			if !ok {
				return 0, false
			}
			if e.Op == ir.OpMultiMul {
				acc *= v
			} else {
				acc += v
			}
		}
		return acc, true
	default:
		return 0, false
	}
}

// ensureExprVars walks e, declaring (via ensure) every variable referenced
// by a FuncTerm leaf's arguments, so a numeric precondition can mention a
// parameter no literal happens to touch.
func ensureExprVars(e *ExprSchema, ensure func(string) int) {
	switch e.Kind {
	case ir.ExprFuncTerm:
		for _, arg := range e.FuncTerm.Args {
			if arg.Kind == TermVar {
				ensure(arg.Name)
			}
		}
	case ir.ExprUnary, ir.ExprBinary, ir.ExprMulti:
		for _, o := range e.Operands {
			ensureExprVars(o, ensure)
		}
	}
}

func (tr *translator) foldConstCost(e *ExprSchema, actionName string) uint32 {
	v, ok := foldConstExprValue(e)
	if !ok || v < 0 || math.IsNaN(v) {
		tr.log.Warn("action cost expression is not a compile-time constant, defaulting to unit cost",
			"action", actionName)
		return 1
	}
	return uint32(math.Round(v))
}
