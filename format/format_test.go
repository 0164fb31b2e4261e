package format_test

import (
	"math/big"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/titpetric/sassgo/format"
	"github.com/titpetric/sassgo/value"
)

func TestStringNumberFractionalDigitsAndRounding(t *testing.T) {
	n := value.NewNumber(big.NewRat(1, 3), value.UnitNone, false, false)
	require.Equal(t, "0.3333", format.String(n, format.Expanded), "a fifth residual digit of 3 rounds down")

	n2 := value.NewNumber(big.NewRat(2, 3), value.UnitNone, false, false)
	require.Equal(t, "0.6667", format.String(n2, format.Expanded), "a fifth residual digit of 6 rounds the fourth digit up")
}

func TestStringNumberTrailingZeroSuppression(t *testing.T) {
	n := value.NewNumber(big.NewRat(1, 2), value.UnitNone, false, false)
	require.Equal(t, "0.5", format.String(n, format.Expanded))
}

func TestStringNumberUnitAppended(t *testing.T) {
	n := value.NewNumber(big.NewRat(16, 1), "px", false, false)
	require.Equal(t, "16px", format.String(n, format.Expanded))
}

func TestStringNumberExplicitSign(t *testing.T) {
	n := value.NewNumber(big.NewRat(5, 1), value.UnitNone, true, false)
	require.Equal(t, "+5", format.String(n, format.Expanded))
}

func TestStringColorNamedSourceEchoesVerbatim(t *testing.T) {
	c := value.RGBAInt(0, 0, 255, big.NewRat(1, 1)).WithName("blue")
	require.Equal(t, "blue", format.String(c, format.Expanded), "an author-spelled color name is never recomputed")
}

func TestStringColorPrefersNameWhenOneExistsExpanded(t *testing.T) {
	red := value.RGBAInt(255, 0, 0, big.NewRat(1, 1))
	require.Equal(t, "red", format.String(red, format.Expanded))
}

func TestStringColorCompressedPrefersShorterOfNameAndHex(t *testing.T) {
	// #3498db has no CSS name and is not a multiple-of-17 short hex.
	c := value.RGBAInt(0x34, 0x98, 0xdb, big.NewRat(1, 1))
	require.Equal(t, "#3498db", format.String(c, format.Compressed))
}

func TestStringColorCompressedShortHex(t *testing.T) {
	c := value.RGBAInt(0x33, 0x66, 0x99, big.NewRat(1, 1))
	require.Equal(t, "#369", format.String(c, format.Compressed))
}

func TestStringColorTransparent(t *testing.T) {
	c := value.RGBA(big.NewRat(0, 1), big.NewRat(0, 1), big.NewRat(0, 1), big.NewRat(0, 1))
	require.Equal(t, "transparent", format.String(c, format.Expanded))
}

func TestStringColorWithAlphaRendersRGBA(t *testing.T) {
	c := value.RGBA(big.NewRat(0, 1), big.NewRat(128, 1), big.NewRat(255, 1), big.NewRat(1, 2))
	require.Equal(t, "rgba(0, 128, 255, 0.5)", format.String(c, format.Expanded))
	require.Equal(t, "rgba(0,128,255,0.5)", format.String(c, format.Compressed),
		"alpha always keeps its leading zero, per the rgba(0,0,0,0.00) requirement recorded in format.go")
}

func TestStringListSpaceSeparated(t *testing.T) {
	l := value.NewList([]value.Value{value.Scalar(1), value.Scalar(2)}, value.SepSpace, false)
	require.Equal(t, "1 2", format.String(l, format.Expanded))
}

func TestStringListCommaSeparatedExpandedHasSpaceAfterComma(t *testing.T) {
	l := value.NewList([]value.Value{value.Scalar(1), value.Scalar(2)}, value.SepComma, false)
	require.Equal(t, "1, 2", format.String(l, format.Expanded))
	require.Equal(t, "1,2", format.String(l, format.Compressed))
}

func TestStringListSingleElementCommaKeepsTrailingComma(t *testing.T) {
	l := value.NewList([]value.Value{value.Scalar(1)}, value.SepComma, false)
	require.Equal(t, "1,", format.String(l, format.Expanded))
}

func TestStringListFiltersNullItems(t *testing.T) {
	l := value.NewList([]value.Value{value.Scalar(1), value.TheNull, value.Scalar(2)}, value.SepSpace, false)
	require.Equal(t, "1 2", format.String(l, format.Expanded))
}

func TestStringListBracketedWrapsNestedUnbracketedSpaceList(t *testing.T) {
	nested := value.NewList([]value.Value{value.Scalar(1), value.Scalar(2)}, value.SepSpace, false)
	outer := value.NewList([]value.Value{nested}, value.SepComma, true)
	require.Equal(t, "[(1 2)]", format.String(outer, format.Expanded))
}

func TestStringMap(t *testing.T) {
	m := value.NewMap()
	m.Set(value.NewLiteral("k", value.QuoteDouble), value.Scalar(1))
	require.Equal(t, `("k": 1)`, format.String(m, format.Expanded))
	require.Equal(t, `("k":1)`, format.String(m, format.Compressed))
}

func TestStringDivPreservesIndependentSpacing(t *testing.T) {
	d := value.NewDiv(value.NewNumber(big.NewRat(10, 1), "px", false, false),
		value.NewNumber(big.NewRat(3, 2), value.UnitNone, false, false), false, true)
	require.Equal(t, "10px/ 1.5", format.String(d, format.Expanded))
}

func TestStringCallWithNamedArgument(t *testing.T) {
	c := value.NewCall("rgba", []value.Arg{
		{Value: value.Scalar(0)},
		{Name: "alpha", Value: value.NewNumber(big.NewRat(1, 2), value.UnitNone, false, false)},
	})
	require.Equal(t, "rgba(0, $alpha: 0.5)", format.String(c, format.Expanded))
}

func TestStringLiteralEscapesOwnQuoteCharacter(t *testing.T) {
	d := value.NewLiteral(`say "hi"`, value.QuoteDouble)
	require.Equal(t, `"say \"hi\""`, format.String(d, format.Expanded))

	s := value.NewLiteral(`it's ok`, value.QuoteSingle)
	require.Equal(t, `'it\'s ok'`, format.String(s, format.Expanded))
}

func TestStringNullRendersEmpty(t *testing.T) {
	require.Equal(t, "", format.String(value.TheNull, format.Expanded))
}

func TestStringVariableAndInterpolationRoundTripUnevaluated(t *testing.T) {
	require.Equal(t, "$x", format.String(value.NewVariable("x"), format.Expanded))

	interp := value.NewInterpolation(value.NewVariable("x"))
	require.Equal(t, "#{$x}", format.String(interp, format.Expanded))
}

// A table of representative declaration-value renderings, snapshotted in
// one pass so a future change to any branch of write() shows up as a
// single, readable diff instead of one assertion at a time.
func TestStringSnapshotAcrossVariants(t *testing.T) {
	values := map[string]value.Value{
		"scalar":        value.Scalar(42),
		"percentage":    value.NewNumber(big.NewRat(1, 4), "%", false, false),
		"zero":          value.NewNumber(big.NewRat(0, 1), value.UnitNone, false, false),
		"bool_true":     value.TheTrue,
		"bool_false":    value.TheFalse,
		"quoted_string": value.NewLiteral("hi", value.QuoteDouble),
		"binop":         value.NewBinOp(value.Scalar(1), value.OpEqual, value.Scalar(2)),
		"unary_not":     value.NewUnaryOp(value.OpNot, value.TheTrue),
	}
	for name, v := range values {
		snaps.MatchSnapshot(t, name, format.String(v, format.Expanded))
	}
}
