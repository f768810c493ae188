// File: grounder.go
// Role: substitutes a variable->object binding into schema IR, producing
// ground IR.
package ir

// GroundAtom substitutes binding into a schema atom, returning ground data
// ready for GroupedOverlay.GetOrCreate. It does not intern anything itself:
// callers choose whether the result is worth interning (a candidate head
// always is; a body literal being merely checked for presence is not).
func GroundAtom(schema AtomData, binding Binding) GroundAtomData {
	args := make([]Index, len(schema.Args))
	for i, t := range schema.Args {
		args[i] = binding.Substitute(t)
	}
	return GroundAtomData{Predicate: schema.Predicate, Args: args}
}

// GroundAtomInto writes schema's grounding into out, reusing out.Args
// instead of allocating a fresh slice when its capacity suffices: a scratch
// path that writes into a caller-provided buffer without interning, used by
// checks that only need equality comparison against an already-interned
// node. out.Args is resliced to len(schema.Args) when its capacity allows;
// otherwise a new slice of that length is allocated.
func GroundAtomInto(schema AtomData, binding Binding, out *GroundAtomData) {
	out.Predicate = schema.Predicate
	if cap(out.Args) < len(schema.Args) {
		out.Args = make([]Index, len(schema.Args))
	} else {
		out.Args = out.Args[:len(schema.Args)]
	}
	for i, t := range schema.Args {
		out.Args[i] = binding.Substitute(t)
	}
}

// GroundFunctionTerm substitutes binding into a schema function term.
func GroundFunctionTerm(schema FunctionTermData, binding Binding) GroundFunctionTermData {
	args := make([]Index, len(schema.Args))
	for i, t := range schema.Args {
		args[i] = binding.Substitute(t)
	}
	return GroundFunctionTermData{Function: schema.Function, Args: args}
}

// SchemaExprs resolves a schema Expr index to its data; implemented by
// *Overlay[ExprData] and any read-only view over it.
type SchemaExprs interface {
	Get(Index) ExprData
}

// SchemaFuncTerms resolves a schema FunctionTerm index to its data.
type SchemaFuncTerms interface {
	Get(Index) FunctionTermData
}

// GroundExprFn grounds a schema function-term index into a concrete
// GroupIndex, typically by looking the grounded term up (or interning it)
// in a GroundFunctionTerms group repository.
type GroundExprFn func(schemaFuncTerm Index, binding Binding) GroupIndex

// GroundExprTree recursively grounds a schema expression tree into a flat
// scratch arena (not interned in any shared repository — the
// "ground_into_buffer" philosophy generalized to trees), returning the root
// GroundExprData and a get closure resolving any operand index within that
// same arena, suitable for ir.EvalNumeric/EvalConstraint.
func GroundExprTree(root Index, exprs SchemaExprs, groundFT GroundExprFn, binding Binding) (GroundExprData, func(Index) GroundExprData) {
	arena := make([]GroundExprData, 0, 8)
	var walk func(Index) Index
	walk = func(schemaIdx Index) Index {
		e := exprs.Get(schemaIdx)
		var g GroundExprData
		switch e.Kind {
		case ExprNumber:
			g = GroundExprData{Kind: ExprNumber, Number: e.Number}
		case ExprFuncTerm:
			g = GroundExprData{Kind: ExprFuncTerm, FuncTerm: groundFT(e.FuncTerm, binding), FuncRole: e.FuncRole}
		case ExprUnary, ExprBinary, ExprMulti:
			operands := make([]Index, len(e.Operands))
			for i, o := range e.Operands {
				operands[i] = walk(o)
			}
			g = GroundExprData{Kind: e.Kind, Op: e.Op, Operands: operands}
		}
		arena = append(arena, g)
		return Index(len(arena) - 1)
	}
	rootLocal := walk(root)
	get := func(i Index) GroundExprData { return arena[i] }
	return get(rootLocal), get
}
