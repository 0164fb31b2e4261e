package functions_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/sassgo/functions"
	"github.com/titpetric/sassgo/value"
)

func arg(v value.Value) value.Arg { return value.Arg{Value: v} }

func TestLookupUnknownName(t *testing.T) {
	_, _, ok := functions.Lookup("not-a-function")
	require.False(t, ok)
}

func TestLookupIsDashUnderscoreAndCaseInsensitive(t *testing.T) {
	_, _, ok := functions.Lookup("type_of")
	require.True(t, ok)
	_, _, ok = functions.Lookup("TYPE-OF")
	require.True(t, ok)
}

func TestBindPositional(t *testing.T) {
	bound, err := functions.Bind([]string{"a", "b"}, []value.Arg{arg(value.Scalar(1)), arg(value.Scalar(2))})
	require.NoError(t, err)
	require.True(t, value.Equal(value.Scalar(1), bound["a"]))
	require.True(t, value.Equal(value.Scalar(2), bound["b"]))
}

func TestBindNamedSkipsFilledPositionalSlots(t *testing.T) {
	args := []value.Arg{
		{Name: "b", Value: value.Scalar(2)},
		{Value: value.Scalar(1)},
	}
	bound, err := functions.Bind([]string{"a", "b"}, args)
	require.NoError(t, err)
	require.True(t, value.Equal(value.Scalar(1), bound["a"]))
	require.True(t, value.Equal(value.Scalar(2), bound["b"]))
}

func TestBindTooManyPositionalArgsErrors(t *testing.T) {
	_, err := functions.Bind([]string{"a"}, []value.Arg{arg(value.Scalar(1)), arg(value.Scalar(2))})
	require.Error(t, err)
}

func TestRGBBuiltinDefaultsAlphaToOne(t *testing.T) {
	_, fn, ok := functions.Lookup("rgb")
	require.True(t, ok)

	got, err := fn([]value.Arg{arg(value.Scalar(0)), arg(value.Scalar(128)), arg(value.Scalar(255))})
	require.NoError(t, err)
	c := got.(*value.Color)
	require.Equal(t, big.NewRat(1, 1), c.A)
}

func TestRedGreenBlueChannelAccessors(t *testing.T) {
	c := value.RGBAInt(10, 20, 30, big.NewRat(1, 1))
	_, red, ok := functions.Lookup("red")
	require.True(t, ok)
	got, err := red([]value.Arg{arg(c)})
	require.NoError(t, err)
	require.True(t, value.Equal(value.Scalar(10), got))
}

func TestMixDefaultWeightIsFifty(t *testing.T) {
	_, mix, ok := functions.Lookup("mix")
	require.True(t, ok)

	red := value.RGBAInt(255, 0, 0, big.NewRat(1, 1))
	blue := value.RGBAInt(0, 0, 255, big.NewRat(1, 1))
	got, err := mix([]value.Arg{arg(red), arg(blue)})
	require.NoError(t, err)

	c := got.(*value.Color)
	require.Equal(t, big.NewRat(255, 2), c.R)
}

func TestInvertFullWeight(t *testing.T) {
	_, invert, ok := functions.Lookup("invert")
	require.True(t, ok)

	white := value.RGBAInt(255, 255, 255, big.NewRat(1, 1))
	got, err := invert([]value.Arg{arg(white)})
	require.NoError(t, err)

	c := got.(*value.Color)
	require.Equal(t, big.NewRat(0, 1), c.R)
}

func TestQuoteAndUnquote(t *testing.T) {
	_, quote, ok := functions.Lookup("quote")
	require.True(t, ok)
	got, err := quote([]value.Arg{arg(value.NewLiteral("hi", value.QuoteNone))})
	require.NoError(t, err)
	lit := got.(*value.Literal)
	require.Equal(t, value.QuoteDouble, lit.Q)

	_, unquote, ok := functions.Lookup("unquote")
	require.True(t, ok)
	got, err = unquote([]value.Arg{arg(lit)})
	require.NoError(t, err)
	require.Equal(t, value.QuoteNone, got.(*value.Literal).Q)
}

func TestIfPicksBranchByTruthiness(t *testing.T) {
	_, biIf, ok := functions.Lookup("if")
	require.True(t, ok)

	got, err := biIf([]value.Arg{arg(value.TheTrue), arg(value.Scalar(1)), arg(value.Scalar(2))})
	require.NoError(t, err)
	require.True(t, value.Equal(value.Scalar(1), got))

	got, err = biIf([]value.Arg{arg(value.TheFalse), arg(value.Scalar(1)), arg(value.Scalar(2))})
	require.NoError(t, err)
	require.True(t, value.Equal(value.Scalar(2), got))
}

func TestUnitAndUnitless(t *testing.T) {
	_, unit, ok := functions.Lookup("unit")
	require.True(t, ok)
	px := value.NewNumber(big.NewRat(1, 1), "px", false, false)
	got, err := unit([]value.Arg{arg(px)})
	require.NoError(t, err)
	require.Equal(t, "px", got.(*value.Literal).S)

	_, unitless, ok := functions.Lookup("unitless")
	require.True(t, ok)
	got, err = unitless([]value.Arg{arg(value.Scalar(1))})
	require.NoError(t, err)
	require.Same(t, value.TheTrue, got)
}

func TestTypeOfBuiltin(t *testing.T) {
	_, typeOf, ok := functions.Lookup("type-of")
	require.True(t, ok)
	got, err := typeOf([]value.Arg{arg(value.Scalar(1))})
	require.NoError(t, err)
	require.Equal(t, "number", got.(*value.Literal).S)
}

func TestLightenAndDarkenMoveLightnessTowardsExtremes(t *testing.T) {
	_, lighten, ok := functions.Lookup("lighten")
	require.True(t, ok)
	gray := value.RGBAInt(128, 128, 128, big.NewRat(1, 1))
	twentyPct := value.NewNumber(big.NewRat(20, 1), "%", false, false)

	got, err := lighten([]value.Arg{arg(gray), arg(twentyPct)})
	require.NoError(t, err)
	lighter := got.(*value.Color)

	_, darken, ok := functions.Lookup("darken")
	require.True(t, ok)
	got, err = darken([]value.Arg{arg(gray), arg(twentyPct)})
	require.NoError(t, err)
	darker := got.(*value.Color)

	require.Greater(t, lighter.R.Cmp(gray.R), 0)
	require.Less(t, darker.R.Cmp(gray.R), 0)
}

func TestGrayscaleAndGreyscaleAreAliases(t *testing.T) {
	_, gray, ok := functions.Lookup("grayscale")
	require.True(t, ok)
	_, grey, ok := functions.Lookup("greyscale")
	require.True(t, ok)

	c := value.RGBAInt(200, 50, 50, big.NewRat(1, 1))
	got1, err := gray([]value.Arg{arg(c)})
	require.NoError(t, err)
	got2, err := grey([]value.Arg{arg(c)})
	require.NoError(t, err)
	require.True(t, value.Equal(got1, got2))
}

func TestBuiltinReturnsBadValueErrorForWrongType(t *testing.T) {
	_, red, ok := functions.Lookup("red")
	require.True(t, ok)
	_, err := red([]value.Arg{arg(value.NewLiteral("not a color", value.QuoteNone))})
	require.Error(t, err)

	var badValue *value.BadValueError
	require.ErrorAs(t, err, &badValue)
}
