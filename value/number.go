package value

import (
	"math/big"
	"strings"
)

// Unit is a simplified unit token: the spec's "enumeration augmented with
// an unknown-unit carrier" collapses naturally onto a plain string in Go,
// since no operator in §4.2 inspects anything about a unit beyond
// equality and "is it None" — carrying a fielded exponent map would add
// machinery no rule in this core ever reads.
type Unit string

// UnitNone is the absence of a unit.
const UnitNone Unit = ""

// unitTable lists the recognized unit tokens, queried through IsKnownUnit;
// nothing else in the module consults it, and it is not load-bearing for
// the value algebra itself.
var unitTable = map[string]bool{
	"px": true, "em": true, "rem": true, "%": true, "pt": true, "cm": true,
	"mm": true, "in": true, "pc": true, "ex": true, "ch": true, "fr": true,
	"deg": true, "rad": true, "grad": true, "turn": true,
	"s": true, "ms": true, "Hz": true, "kHz": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true,
	"dpi": true, "dpcm": true, "dppx": true,
}

// IsKnownUnit reports whether tok is a recognized unit token.
func IsKnownUnit(tok string) bool {
	return unitTable[tok]
}

// Number is the exact-rational numeric variant: q is always kept reduced
// by math/big.Rat's own normalization, u is the trailing unit token, sign
// is the explicit-sign flag (`+5`) and calc is the calculated flag that
// drives the Div re-evaluation rule in §4.4.
type Number struct {
	Q    *big.Rat
	Unit Unit
	Sign bool
	Calc bool
}

func (*Number) valueNode() {}

// NewNumber builds a Number from an already-constructed rational. q is not
// copied; callers must not mutate it afterwards (Value trees are
// immutable after construction, §3.1).
func NewNumber(q *big.Rat, unit Unit, sign, calc bool) *Number {
	return &Number{Q: q, Unit: unit, Sign: sign, Calc: calc}
}

// Scalar implements the `scalar(n)` constructor: Number(n/1, none-unit,
// no-sign, not-calc).
func Scalar(n int64) *Number {
	return &Number{Q: big.NewRat(n, 1)}
}

// ScalarRat is Scalar generalized to an arbitrary rational, used by
// built-ins (e.g. `red()`, `alpha()`) that must produce a number from a
// computed fraction rather than a small integer literal.
func ScalarRat(q *big.Rat) *Number {
	return &Number{Q: new(big.Rat).Set(q)}
}

// ParseDecimal parses a decimal literal as produced by the lexer (digits,
// optional `.` and fractional digits, optional leading `-`) into an exact
// rational. big.Rat's own SetString already performs exact decimal-string
// parsing without an intermediate float, which is exactly the "parse
// straight to rational" behaviour the spec requires.
func ParseDecimal(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	q := new(big.Rat)
	_, ok := q.SetString(s)
	if !ok {
		return nil, false
	}
	return q, true
}

// IsInteger reports whether q has denominator 1.
func IsInteger(q *big.Rat) bool {
	return q.IsInt()
}

// Truncate returns the integer part of q, truncated towards zero (this
// matches Rust's Ratio::to_integer, used throughout the reference
// formatter).
func Truncate(q *big.Rat) *big.Int {
	return new(big.Int).Quo(q.Num(), q.Denom())
}

// Fract returns q minus its truncated integer part, as a rational in
// (-1, 1).
func Fract(q *big.Rat) *big.Rat {
	t := Truncate(q)
	return new(big.Rat).Sub(q, new(big.Rat).SetInt(t))
}

var ratZero = big.NewRat(0, 1)

// IsZero reports whether q is exactly zero.
func IsZero(q *big.Rat) bool {
	return q.Sign() == 0
}

// IsNegative reports whether q is strictly negative.
func IsNegative(q *big.Rat) bool {
	return q.Sign() < 0
}
