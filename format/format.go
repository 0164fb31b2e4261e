// Package format renders an evaluated (or partially evaluated) value.Value
// tree to CSS text, in either the Expanded or Compressed output style
// (§4.6, §6). Grounded on two sources: the teacher's formatter.Formatter
// for the writer/indentation shape (every branch writes into one shared
// strings.Builder rather than returning strings from every branch),
// and original_source/src/css/value.rs's Display impl for the value-level
// branching (Decimals number formatting, color name/hex selection, list
// separator and bracket rules) that the distilled specification leaves
// implicit in prose.
package format

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/titpetric/sassgo/value"
)

// Style selects between the two output conventions of §4.6/§6.
type Style int

const (
	// Expanded renders one declaration per line with a space after `:`
	// and after list/function-argument commas.
	Expanded Style = iota
	// Compressed strips all optional whitespace, per §6.
	Compressed
)

// String renders v under the given style. It is the entry point the
// evaluator's interpolation, the built-in registry (`quote()` renders its
// argument through it) and the rule-level driver all use, so the same
// code path produces identical text whether the value came from a
// declaration's right-hand side or from a function call argument.
func String(v value.Value, style Style) string {
	var b strings.Builder
	write(&b, v, style)
	return b.String()
}

func write(b *strings.Builder, v value.Value, style Style) {
	switch t := v.(type) {
	case *value.Null:
		// A bare Null renders as nothing; callers that need to suppress
		// a whole declaration check value.IsNull before calling String.
	case *value.True:
		b.WriteString("true")
	case *value.False:
		b.WriteString("false")
	case *value.Literal:
		writeLiteral(b, t)
	case *value.Number:
		writeNumber(b, t, style)
	case *value.Color:
		writeColor(b, t, style)
	case *value.List:
		writeList(b, t, style)
	case *value.Map:
		writeMap(b, t, style)
	case *value.Div:
		writeDiv(b, t, style)
	case *value.BinOp:
		// `a op b` with spaces around the operator; `+` prints as plain
		// juxtaposition, and `and`/`or` already carry their own spaces.
		write(b, t.A, style)
		if t.Op == value.OpPlus || t.Op == value.OpAnd || t.Op == value.OpOr {
			b.WriteString(t.Op.String())
		} else {
			b.WriteString(" " + t.Op.String() + " ")
		}
		write(b, t.B, style)
	case *value.UnaryOp:
		b.WriteString(t.Op.String())
		write(b, t.A, style)
	case *value.Call:
		writeCall(b, t, style)
	case *value.Paren:
		b.WriteByte('(')
		write(b, t.A, style)
		b.WriteByte(')')
	case *value.Variable:
		b.WriteByte('$')
		b.WriteString(t.Name)
	case *value.Interpolation:
		b.WriteString("#{")
		write(b, t.A, style)
		b.WriteByte('}')
	case *value.Function:
		b.WriteString(t.Name)
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

func writeLiteral(b *strings.Builder, l *value.Literal) {
	switch l.Q {
	case value.QuoteDouble:
		b.WriteByte('"')
		writeEscaped(b, l.S, '"')
		b.WriteByte('"')
	case value.QuoteSingle:
		b.WriteByte('\'')
		writeEscaped(b, l.S, '\'')
		b.WriteByte('\'')
	default:
		b.WriteString(l.S)
	}
}

// writeEscaped copies s to b, backslash-escaping any occurrence of quote so
// a quoted literal containing its own delimiter round-trips as valid CSS.
func writeEscaped(b *strings.Builder, s string, quote rune) {
	for _, c := range s {
		if c == quote {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
}

// writeNumber renders a Number's rational value via Decimals, then its
// unit token and, when Sign is set (an explicit `+5`), a leading `+`. In
// Compressed style the leading "0" of a value strictly between -1 and 1
// is dropped (`.5`).
func writeNumber(b *strings.Builder, n *value.Number, style Style) {
	if n.Sign && !value.IsNegative(n.Q) {
		b.WriteByte('+')
	}
	b.WriteString(decimals(n.Q, false, style == Compressed))
	b.WriteString(string(n.Unit))
}

// decimals ports original_source/src/css/value.rs's Decimals struct
// verbatim: an integer part (with explicit sign when requested) followed
// by up to four fractional digits, a rounded fifth residual digit when the
// remainder after four digits is non-zero, and trailing-zero suppression.
// skipZero (when true) omits a leading "0" before the decimal point for a
// fraction with zero integer part, matching the scss convention `.5`
// instead of `0.5`; explicitSign forces a `+` on a non-negative integer
// part. Both flags are plumbed through by callers that need a different
// combination (Color's rgba() alpha channel always passes skipZero=false
// per the open question recorded in §9: the reference formatter's own
// test suite requires `rgba(0, 0, 0, 0.00)`-style zero, not a bare `.00`).
func decimals(q *big.Rat, explicitSign, skipZero bool) string {
	neg := value.IsNegative(q)
	abs := new(big.Rat).Abs(q)
	whole := value.Truncate(abs)
	frac := new(big.Rat).Sub(abs, new(big.Rat).SetInt(whole))

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	} else if explicitSign {
		b.WriteByte('+')
	}

	wholeIsZero := whole.Sign() == 0
	if !(skipZero && wholeIsZero && frac.Sign() != 0) {
		b.WriteString(whole.String())
	}

	if frac.Sign() == 0 {
		return b.String()
	}

	digits := make([]int64, 0, 5)
	f := new(big.Rat).Set(frac)
	ten := big.NewRat(10, 1)
	for i := 0; i < 4; i++ {
		f.Mul(f, ten)
		d := value.Truncate(f)
		digits = append(digits, d.Int64())
		f.Sub(f, new(big.Rat).SetInt(d))
	}
	if f.Sign() != 0 {
		f.Mul(f, ten)
		fifth := value.Truncate(f)
		rounded := fifth.Int64()
		if rounded >= 5 {
			digits[len(digits)-1]++
			for i := len(digits) - 1; i > 0 && digits[i] >= 10; i-- {
				digits[i] -= 10
				digits[i-1]++
			}
		}
	}
	for len(digits) > 0 && digits[len(digits)-1] == 0 {
		digits = digits[:len(digits)-1]
	}
	if len(digits) == 0 {
		return b.String()
	}
	b.WriteByte('.')
	for _, d := range digits {
		b.WriteByte(byte('0' + d))
	}
	return b.String()
}

// writeColor implements the branching from original_source/src/css/
// value.rs lines ~298-349: an author-spelled name is echoed verbatim; a
// fully opaque color picks between its canonical CSS name and a hex
// literal, preferring whichever is shorter in Compressed style and always
// preferring the name in Expanded style when one exists; "transparent" is
// special-cased; a color with any alpha below 1 always renders as
// `rgba(...)`.
func writeColor(b *strings.Builder, c *value.Color, style Style) {
	if c.Name != "" {
		b.WriteString(c.Name)
		return
	}
	r := value.ChannelByte(c.R)
	g := value.ChannelByte(c.G)
	bch := value.ChannelByte(c.B)

	if r == 0 && g == 0 && bch == 0 && c.A.Sign() == 0 {
		b.WriteString("transparent")
		return
	}
	if c.A.Cmp(big.NewRat(1, 1)) >= 0 {
		name, hasName := value.NameOf(r, g, bch)
		hex := hexString(r, g, bch)
		if style == Compressed {
			shortHex, canShort := shortHexString(r, g, bch)
			best := hex
			if canShort {
				best = shortHex
			}
			if hasName && len(name) <= len(best) {
				b.WriteString(name)
				return
			}
			b.WriteString(best)
			return
		}
		if hasName {
			b.WriteString(name)
			return
		}
		b.WriteString(hex)
		return
	}

	fmt.Fprintf(b, "rgba(%d", r)
	writeSep(b, style)
	fmt.Fprintf(b, "%d", g)
	writeSep(b, style)
	fmt.Fprintf(b, "%d", bch)
	writeSep(b, style)
	b.WriteString(decimals(c.A, false, false))
	b.WriteByte(')')
}

func writeSep(b *strings.Builder, style Style) {
	if style == Expanded {
		b.WriteString(", ")
	} else {
		b.WriteByte(',')
	}
}

func hexString(r, g, bch uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, bch)
}

func shortHexString(r, g, bch uint8) (string, bool) {
	if r%17 != 0 || g%17 != 0 || bch%17 != 0 {
		return "", false
	}
	return fmt.Sprintf("#%x%x%x", r/17, g/17, bch/17), true
}

// writeList implements §3.1's list-printing invariants: null items are
// filtered out first; a bracketed outer list wraps a nested unbracketed
// space list in parentheses to keep it from merging with the outer
// separator; a single-element comma list still prints its trailing comma
// (the one case Collapse does not absorb, since the caller built the List
// directly instead of going through Collapse).
func writeList(b *strings.Builder, l *value.List, style Style) {
	items := make([]value.Value, 0, len(l.Items))
	for _, it := range l.Items {
		if value.IsNull(it) {
			continue
		}
		items = append(items, it)
	}

	if l.Bracketed {
		b.WriteByte('[')
	}
	sep := ", "
	if style == Compressed {
		sep = ","
	}
	if l.Sep == value.SepSpace {
		sep = " "
	}
	for i, it := range items {
		if i > 0 {
			b.WriteString(sep)
		}
		if nested, ok := it.(*value.List); ok && l.Bracketed && !nested.Bracketed && nested.Sep == value.SepSpace {
			b.WriteByte('(')
			write(b, nested, style)
			b.WriteByte(')')
			continue
		}
		write(b, it, style)
	}
	if len(items) == 1 && l.Sep == value.SepComma && !l.Bracketed {
		b.WriteByte(',')
	}
	if l.Bracketed {
		b.WriteByte(']')
	}
}

func writeMap(b *strings.Builder, m *value.Map, style Style) {
	b.WriteByte('(')
	for i := range m.Keys {
		if i > 0 {
			writeSep(b, style)
		}
		write(b, m.Keys[i], style)
		b.WriteByte(':')
		if style == Expanded {
			b.WriteByte(' ')
		}
		write(b, m.Vals[i], style)
	}
	b.WriteByte(')')
}

// writeDiv renders an unresolved slash form, preserving the two
// independent spacing flags the symbolic Div node carries: `10px/8px` and
// `10px /8px` are different source forms and must round-trip unchanged.
func writeDiv(b *strings.Builder, d *value.Div, style Style) {
	write(b, d.A, style)
	if d.SpaceBefore {
		b.WriteByte(' ')
	}
	b.WriteByte('/')
	if d.SpaceAfter {
		b.WriteByte(' ')
	}
	write(b, d.B, style)
}

func writeCall(b *strings.Builder, c *value.Call, style Style) {
	b.WriteString(c.Name)
	b.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			writeSep(b, style)
		}
		if arg.Name != "" {
			b.WriteByte('$')
			b.WriteString(arg.Name)
			b.WriteByte(':')
			if style == Expanded {
				b.WriteByte(' ')
			}
		}
		write(b, arg.Value, style)
	}
	b.WriteByte(')')
}
