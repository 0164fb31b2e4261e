package eval_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/sassgo/eval"
	"github.com/titpetric/sassgo/scope"
	"github.com/titpetric/sassgo/value"
)

func TestEvalVariableLookup(t *testing.T) {
	s := scope.New()
	s.Define("x", value.Scalar(10), false)

	got, err := eval.Eval(value.NewVariable("x"), s, false)
	require.NoError(t, err)
	require.True(t, value.Equal(value.Scalar(10), got))
}

func TestEvalArithmeticAddsUnits(t *testing.T) {
	s := scope.New()
	px10 := value.NewNumber(big.NewRat(10, 1), "px", false, false)
	px5 := value.NewNumber(big.NewRat(5, 1), "px", false, false)

	got, err := eval.Eval(value.NewBinOp(px10, value.OpPlus, px5), s, false)
	require.NoError(t, err)

	n := got.(*value.Number)
	require.Equal(t, big.NewRat(15, 1), n.Q)
	require.Equal(t, value.Unit("px"), n.Unit)
}

func TestEvalUnresolvedBinOpStaysSymbolic(t *testing.T) {
	s := scope.New()
	a := value.NewLiteral("solid", value.QuoteNone)
	b := value.TheTrue

	got, err := eval.Eval(value.NewBinOp(a, value.OpMultiply, b), s, false)
	require.NoError(t, err)
	_, ok := got.(*value.BinOp)
	require.True(t, ok, "an operator with no matching rule for its operand types stays a symbolic BinOp")
}

func TestEvalDivSymbolicOutsideArithmeticContext(t *testing.T) {
	s := scope.New()
	ten := value.NewNumber(big.NewRat(10, 1), "px", false, false)
	oneFive := value.NewNumber(big.NewRat(3, 2), value.UnitNone, false, false)

	got, err := eval.Eval(value.NewDiv(ten, oneFive, false, false), s, false)
	require.NoError(t, err)

	_, ok := got.(*value.Div)
	require.True(t, ok, "font: 10px/1.5 must survive as a symbolic Div outside arithmetic context")
}

func TestEvalDivResolvesInsideParens(t *testing.T) {
	s := scope.New()
	ten := value.NewNumber(big.NewRat(10, 1), value.UnitNone, false, false)
	two := value.NewNumber(big.NewRat(2, 1), value.UnitNone, false, false)

	got, err := eval.Eval(value.NewParen(value.NewDiv(ten, two, false, false)), s, false)
	require.NoError(t, err)

	n, ok := got.(*value.Number)
	require.True(t, ok, "a Div inside parens must resolve arithmetically")
	require.Equal(t, big.NewRat(5, 1), n.Q)
}

func TestEvalDivResolvesWhenOperandIsVariable(t *testing.T) {
	s := scope.New()
	s.Define("base", value.NewNumber(big.NewRat(10, 1), value.UnitNone, false, false), false)
	two := value.NewNumber(big.NewRat(2, 1), value.UnitNone, false, false)

	got, err := eval.Eval(value.NewDiv(value.NewVariable("base"), two, false, false), s, false)
	require.NoError(t, err)

	n, ok := got.(*value.Number)
	require.True(t, ok, "a variable operand marks the Div as resolvable per the six-step rule")
	require.Equal(t, big.NewRat(5, 1), n.Q)
}

func TestEvalDivNestedInBinOpResolvesOutsideParens(t *testing.T) {
	s := scope.New()
	ten := value.NewNumber(big.NewRat(10, 1), "px", false, false)
	eight := value.NewNumber(big.NewRat(8, 1), "px", false, false)
	one := value.Scalar(1)

	div := value.NewDiv(ten, eight, false, false)
	got, err := eval.Eval(value.NewBinOp(div, value.OpPlus, one), s, false)
	require.NoError(t, err)

	n, ok := got.(*value.Number)
	require.True(t, ok, "a Div nested in a BinOp must resolve arithmetically even outside parens")
	require.Equal(t, big.NewRat(9, 4), n.Q, "10px/8px + 1 == 2.25")
	require.Equal(t, value.UnitNone, n.Unit)
}

func TestEvalInterpolationStringifiesBare(t *testing.T) {
	s := scope.New()
	s.Define("name", value.NewLiteral("box", value.QuoteDouble), false)

	got, err := eval.Eval(value.NewInterpolation(value.NewVariable("name")), s, false)
	require.NoError(t, err)

	lit := got.(*value.Literal)
	require.Equal(t, "box", lit.S)
	require.Equal(t, value.QuoteNone, lit.Q, "interpolation always yields an unquoted literal")
}

func TestEvalUnknownCallStaysSymbolic(t *testing.T) {
	s := scope.New()
	call := value.NewCall("url", []value.Arg{{Value: value.NewLiteral("a.png", value.QuoteDouble)}})

	got, err := eval.Eval(call, s, false)
	require.NoError(t, err)

	out, ok := got.(*value.Call)
	require.True(t, ok, "an unrecognized function name round-trips as a symbolic Call")
	require.Equal(t, "url", out.Name)
}

func TestEvalBuiltinCallMix(t *testing.T) {
	s := scope.New()
	red := value.RGBAInt(255, 0, 0, big.NewRat(1, 1))
	blue := value.RGBAInt(0, 0, 255, big.NewRat(1, 1))
	fifty := value.NewNumber(big.NewRat(50, 1), "%", false, false)

	call := value.NewCall("mix", []value.Arg{{Value: red}, {Value: blue}, {Value: fifty}})
	got, err := eval.Eval(call, s, false)
	require.NoError(t, err)

	c, ok := got.(*value.Color)
	require.True(t, ok)
	require.Equal(t, int64(127), c.R.Num().Int64()/c.R.Denom().Int64())
}

func TestEvalListEvaluatesEachItem(t *testing.T) {
	s := scope.New()
	s.Define("a", value.Scalar(1), false)
	s.Define("b", value.Scalar(2), false)

	list := value.NewList([]value.Value{value.NewVariable("a"), value.NewVariable("b")}, value.SepSpace, false)
	got, err := eval.Eval(list, s, false)
	require.NoError(t, err)

	out := got.(*value.List)
	require.True(t, value.Equal(value.Scalar(1), out.Items[0]))
	require.True(t, value.Equal(value.Scalar(2), out.Items[1]))
}

func TestEvalMapEvaluatesKeysAndValues(t *testing.T) {
	s := scope.New()
	m := value.NewMap()
	m.Set(value.NewLiteral("k", value.QuoteNone), value.NewVariable("missing"))

	got, err := eval.Eval(m, s, false)
	require.NoError(t, err)

	out := got.(*value.Map)
	v, ok := out.Get(value.NewLiteral("k", value.QuoteNone))
	require.True(t, ok)
	require.Same(t, value.TheNull, v, "an undefined variable used as a map value evaluates to Null, not an error")
}
