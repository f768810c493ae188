package ir

import (
	"fmt"
	"math"
	"strings"
)

// FunctionTermData is a schema-level function term: a function applied to a
// tuple of terms.
type FunctionTermData struct {
	Function Index
	Args     []Term
}

func (f FunctionTermData) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "f%d(", f.Function)
	for i, arg := range f.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(arg.key())
	}
	b.WriteByte(')')
	return b.String()
}

// GroundFunctionTermData is a fully ground function term, group-indexed by
// function the same way GroundAtomData is group-indexed by predicate.
type GroundFunctionTermData struct {
	Function Index
	Args     []Index
}

func (f GroundFunctionTermData) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "f%d(", f.Function)
	for i, arg := range f.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "o%d", arg)
	}
	b.WriteByte(')')
	return b.String()
}

// Op is the numeric operator set: unary negation; binary
// arithmetic and comparison; n-ary (multi) associative-commutative
// arithmetic.
type Op uint8

const (
	OpNeg Op = iota // unary −
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpMultiAdd // n-ary +
	OpMultiMul // n-ary ·
)

// IsComparison reports whether op evaluates to a boolean rather than a
// number.
func (op Op) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// Commutative reports whether op's operands may be freely reordered during
// canonicalization. Only symmetric operators qualify:
// Add/Mul/Eq/Ne and both MultiOps. Sub/Div/Lt/Le/Gt/Ge are order-sensitive.
func (op Op) Commutative() bool {
	switch op {
	case OpAdd, OpMul, OpEq, OpNe, OpMultiAdd, OpMultiMul:
		return true
	default:
		return false
	}
}

func (op Op) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpMultiAdd:
		return "sum"
	case OpMultiMul:
		return "prod"
	default:
		return "?"
	}
}

// ExprKind discriminates the Expr sum type: Number, UnaryOp, BinaryOp,
// MultiOp, and FunctionTerm (Static, Fluent, or Auxiliary).
type ExprKind uint8

const (
	ExprNumber ExprKind = iota
	ExprUnary
	ExprBinary
	ExprMulti
	ExprFuncTerm
)

// ExprData is a schema-level numeric/boolean expression node.
type ExprData struct {
	Kind ExprKind

	Number float64 // valid iff Kind == ExprNumber

	Op       Op      // valid iff Kind in {Unary, Binary, Multi}
	Operands []Index // operand Expr indices; len 1 (Unary), 2 (Binary), or n (Multi)

	FuncTerm Index // schema FunctionTermData index; valid iff Kind == ExprFuncTerm
	FuncRole Role  // Static, Fluent, or Auxiliary
}

// Key implements Data. Commutative operator children must already be
// canonically sorted by CanonicalizeExpr before interning; Key just
// renders whatever order Operands currently holds.
func (e ExprData) Key() string {
	switch e.Kind {
	case ExprNumber:
		return fmt.Sprintf("n%v", e.Number)
	case ExprUnary, ExprBinary, ExprMulti:
		var b strings.Builder
		fmt.Fprintf(&b, "%s(", e.Op)
		for i, o := range e.Operands {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "e%d", o)
		}
		b.WriteByte(')')
		return b.String()
	case ExprFuncTerm:
		return fmt.Sprintf("ft%d@%d", e.FuncTerm, e.FuncRole)
	default:
		return "?"
	}
}

// GroundExprData mirrors ExprData without variables: function-term operands
// reference a GroundFunctionTermData group index instead of a schema one.
type GroundExprData struct {
	Kind     ExprKind
	Number   float64
	Op       Op
	Operands []Index
	FuncTerm GroupIndex
	FuncRole Role
}

func (e GroundExprData) Key() string {
	switch e.Kind {
	case ExprNumber:
		return fmt.Sprintf("n%v", e.Number)
	case ExprUnary, ExprBinary, ExprMulti:
		var b strings.Builder
		fmt.Fprintf(&b, "%s(", e.Op)
		for i, o := range e.Operands {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "e%d", o)
		}
		b.WriteByte(')')
		return b.String()
	case ExprFuncTerm:
		return fmt.Sprintf("ft%d.%d@%d", e.FuncTerm.Group, e.FuncTerm.Value, e.FuncRole)
	default:
		return "?"
	}
}

// FunctionValues resolves a ground function term to its current value
// (an undefined function evaluates to NaN).
type FunctionValues interface {
	Value(ft GroupIndex) (float64, bool)
}

// UndefinedFuncTerm is the GroupIndex a GroundExprFn returns for a function
// term that was never interned. No repository ever assigns it, so value
// lookups miss and the enclosing expression evaluates to NaN.
var UndefinedFuncTerm = GroupIndex{Group: ^Index(0), Value: ^Index(0)}

// EvalNumeric evaluates a ground expression tree to a float64, propagating
// NaN through every operator: division by zero yields NaN, and any
// expression containing NaN makes its enclosing constraint false and its
// enclosing numeric effect inapplicable. get resolves a GroundExprData
// by index (the caller's ground expression repository).
func EvalNumeric(expr GroundExprData, get func(Index) GroundExprData, values FunctionValues) float64 {
	switch expr.Kind {
	case ExprNumber:
		return expr.Number
	case ExprFuncTerm:
		v, ok := values.Value(expr.FuncTerm)
		if !ok {
			return math.NaN()
		}
		return v
	case ExprUnary:
		v := EvalNumeric(get(expr.Operands[0]), get, values)
		if expr.Op == OpNeg {
			return -v
		}
		return math.NaN()
	case ExprBinary:
		l := EvalNumeric(get(expr.Operands[0]), get, values)
		r := EvalNumeric(get(expr.Operands[1]), get, values)
		if math.IsNaN(l) || math.IsNaN(r) {
			return math.NaN()
		}
		switch expr.Op {
		case OpAdd:
			return l + r
		case OpSub:
			return l - r
		case OpMul:
			return l * r
		case OpDiv:
			if r == 0 {
				return math.NaN()
			}
			return l / r
		default:
			// Comparison ops are evaluated via EvalConstraint, not here.
			return math.NaN()
		}
	case ExprMulti:
		var acc float64
		if expr.Op == OpMultiMul {
			acc = 1
		}
		for _, o := range expr.Operands {
			v := EvalNumeric(get(o), get, values)
			if math.IsNaN(v) {
				return math.NaN()
			}
			if expr.Op == OpMultiMul {
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

// EvalConstraint evaluates a ground comparison expression to a boolean,
// treating any NaN operand as false.
func EvalConstraint(expr GroundExprData, get func(Index) GroundExprData, values FunctionValues) bool {
	if expr.Kind != ExprBinary || !expr.Op.IsComparison() {
		return false
	}
	l := EvalNumeric(get(expr.Operands[0]), get, values)
	r := EvalNumeric(get(expr.Operands[1]), get, values)
	if math.IsNaN(l) || math.IsNaN(r) {
		return false
	}
	switch expr.Op {
	case OpEq:
		return l == r
	case OpNe:
		return l != r
	case OpLt:
		return l < r
	case OpLe:
		return l <= r
	case OpGt:
		return l > r
	case OpGe:
		return l >= r
	default:
		return false
	}
}
