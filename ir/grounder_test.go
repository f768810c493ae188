package ir_test

import (
	"testing"

	"github.com/liftedplan/kpkc/ir"
	"github.com/stretchr/testify/require"
)

func TestGroundAtom_Substitution(t *testing.T) {
	// at(?ball, ?room) grounded with binding [ball1, rooma]
	schema := ir.AtomData{Predicate: 4, Args: []ir.Term{ir.VarTerm(0), ir.VarTerm(1)}}
	binding := ir.Binding{10, 20}

	got := ir.GroundAtom(schema, binding)
	require.Equal(t, ir.GroundAtomData{Predicate: 4, Args: []ir.Index{10, 20}}, got)
}

func TestGroundAtom_MixedConstantAndVariable(t *testing.T) {
	// handempty() has no args; at(?x, roomb) mixes a variable and a constant.
	schema := ir.AtomData{Predicate: 1, Args: []ir.Term{ir.VarTerm(0), ir.ObjTerm(99)}}
	binding := ir.Binding{7}

	got := ir.GroundAtom(schema, binding)
	require.Equal(t, ir.GroundAtomData{Predicate: 1, Args: []ir.Index{7, 99}}, got)
}

type fakeExprs map[ir.Index]ir.ExprData

func (f fakeExprs) Get(i ir.Index) ir.ExprData { return f[i] }

type fixedFunctionValues map[ir.GroupIndex]float64

func (f fixedFunctionValues) Value(ft ir.GroupIndex) (float64, bool) {
	v, ok := f[ft]
	return v, ok
}

func TestGroundExprTree_ArithmeticAndNaNPropagation(t *testing.T) {
	// expr: (cost_fn(?x) + 2) / 0 with cost_fn = 5  -> (5 + 2) / 0, and the
	// division by zero yields NaN.
	exprs := fakeExprs{
		0: {Kind: ir.ExprFuncTerm, FuncTerm: 100, FuncRole: ir.Fluent},
		1: {Kind: ir.ExprNumber, Number: 2},
		2: {Kind: ir.ExprBinary, Op: ir.OpAdd, Operands: []ir.Index{0, 1}},
		3: {Kind: ir.ExprNumber, Number: 0},
		4: {Kind: ir.ExprBinary, Op: ir.OpDiv, Operands: []ir.Index{2, 3}},
	}
	groundFT := func(schemaFT ir.Index, binding ir.Binding) ir.GroupIndex {
		return ir.GroupIndex{Group: 1, Value: ir.Index(binding[0])}
	}
	binding := ir.Binding{0}
	values := fixedFunctionValues{{Group: 1, Value: 0}: 5}

	root, get := ir.GroundExprTree(4, exprs, groundFT, binding)
	result := ir.EvalNumeric(root, get, values)
	require.True(t, isNaN(result))
}

func TestGroundExprTree_Comparison(t *testing.T) {
	exprs := fakeExprs{
		0: {Kind: ir.ExprFuncTerm, FuncTerm: 100, FuncRole: ir.Fluent},
		1: {Kind: ir.ExprNumber, Number: 3},
		2: {Kind: ir.ExprBinary, Op: ir.OpGe, Operands: []ir.Index{0, 1}},
	}
	groundFT := func(schemaFT ir.Index, binding ir.Binding) ir.GroupIndex {
		return ir.GroupIndex{Group: 2, Value: 0}
	}
	values := fixedFunctionValues{{Group: 2, Value: 0}: 4}

	root, get := ir.GroundExprTree(2, exprs, groundFT, nil)
	require.True(t, ir.EvalConstraint(root, get, values))
}

func TestGroundExprTree_UndefinedFunctionIsFalse(t *testing.T) {
	exprs := fakeExprs{
		0: {Kind: ir.ExprFuncTerm, FuncTerm: 100, FuncRole: ir.Fluent},
		1: {Kind: ir.ExprNumber, Number: 3},
		2: {Kind: ir.ExprBinary, Op: ir.OpEq, Operands: []ir.Index{0, 1}},
	}
	groundFT := func(schemaFT ir.Index, binding ir.Binding) ir.GroupIndex {
		return ir.GroupIndex{Group: 9, Value: 0}
	}
	values := fixedFunctionValues{} // no value recorded -> NaN -> constraint false

	root, get := ir.GroundExprTree(2, exprs, groundFT, nil)
	require.False(t, ir.EvalConstraint(root, get, values))
}

func isNaN(f float64) bool { return f != f }
