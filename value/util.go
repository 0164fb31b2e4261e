package value

import (
	"math/big"
	"strings"
)

// IsTrue implements the `is_true(v)` predicate from §3.1: everything is
// true except False and Null.
func IsTrue(v Value) bool {
	switch v.(type) {
	case *False, *Null:
		return false
	default:
		return true
	}
}

// IsNull implements `is_null(v)`: Null itself, or an unbracketed list
// whose elements are all (recursively) null.
func IsNull(v Value) bool {
	switch t := v.(type) {
	case *Null:
		return true
	case *List:
		if t.Bracketed {
			return false
		}
		for _, item := range t.Items {
			if !IsNull(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsCalculated implements `is_calculated(v)`: true for a Number with its
// calc flag set, and for any Color whose source name is absent.
func IsCalculated(v Value) bool {
	switch t := v.(type) {
	case *Number:
		return t.Calc
	case *Color:
		return t.Name == ""
	default:
		return false
	}
}

// IntoCalculated implements `into_calculated(v)`: sets the calculated flag
// on Numbers, recursing through List; identity elsewhere.
func IntoCalculated(v Value) Value {
	switch t := v.(type) {
	case *Number:
		return &Number{Q: t.Q, Unit: t.Unit, Sign: t.Sign, Calc: true}
	case *List:
		items := make([]Value, len(t.Items))
		for i, item := range t.Items {
			items[i] = IntoCalculated(item)
		}
		return &List{Items: items, Sep: t.Sep, Bracketed: t.Bracketed}
	default:
		return v
	}
}

// IterItems implements `iter_items(v)`: List yields its elements, Map
// yields its entries as 2-element space lists in insertion order,
// anything else yields a singleton.
func IterItems(v Value) []Value {
	switch t := v.(type) {
	case *List:
		return t.Items
	case *Map:
		out := make([]Value, len(t.Keys))
		for i := range t.Keys {
			out[i] = &List{Items: []Value{t.Keys[i], t.Vals[i]}, Sep: SepSpace}
		}
		return out
	default:
		return []Value{v}
	}
}

// BadValueError is the §7 `BadValue{expected, got}` error kind.
type BadValueError struct {
	Expected string
	Got      Value
}

func (e *BadValueError) Error() string {
	return "expected " + e.Expected + ", got " + TypeOf(e.Got)
}

// IntegerValue implements `integer_value(v)`: succeeds only for a Number
// whose rational has denominator 1.
func IntegerValue(v Value) (*big.Int, error) {
	n, ok := v.(*Number)
	if !ok || !IsInteger(n.Q) {
		return nil, &BadValueError{Expected: "integer", Got: v}
	}
	return Truncate(n.Q), nil
}

// NormalizeName makes `-` and `_` interchangeable in identifiers, per §6:
// "names are case-sensitive, `-` and `_` interchangeable". Shared by
// Scope and the function registry so a variable, mixin or function looked
// up with either spelling resolves to the same binding.
func NormalizeName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}

// TypeOf names a value's dynamic variant, consulted by the `type-of`
// built-in and by error messages.
func TypeOf(v Value) string {
	switch v.(type) {
	case *Number:
		return "number"
	case *Color:
		return "color"
	case *Literal:
		return "string"
	case *List:
		return "list"
	case *Map:
		return "map"
	case *True, *False:
		return "bool"
	case *Null:
		return "null"
	case *Function:
		return "function"
	default:
		return "unknown"
	}
}

// decodeEscape implements the single-escape decode table shared by
// Unquote and Unrequote: \0 -> U+FFFD, \<decimal digit 1-9> -> that code
// point, \<hex letter> -> 10..15, any other \<char> -> that char.
// ok is false when the backslash was dangling at end of string.
func decodeEscape(r rune, hasNext bool) (rune, bool) {
	if !hasNext {
		return '\\', false
	}
	switch {
	case r == '0':
		return '�', true
	case r >= '1' && r <= '9':
		return rune(r - '0'), true
	case r >= 'a' && r <= 'f':
		return rune(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return rune(r-'A') + 10, true
	default:
		return r, true
	}
}

// Unquote implements `unquote(v)` from §4.1: decodes CSS escapes in a
// quoted Literal and drops its quoting; recurses through List; identity
// elsewhere.
func Unquote(v Value) Value {
	switch t := v.(type) {
	case *Literal:
		if t.Q == QuoteNone {
			return &Literal{S: t.S, Q: QuoteNone}
		}
		return &Literal{S: unquoteString(t.S), Q: QuoteNone}
	case *List:
		items := make([]Value, len(t.Items))
		for i, item := range t.Items {
			items[i] = Unquote(item)
		}
		return &List{Items: items, Sep: t.Sep, Bracketed: t.Bracketed}
	default:
		return v
	}
}

func unquoteString(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '\\' {
			b.WriteRune(c)
			continue
		}
		if i+1 >= len(runes) {
			b.WriteRune('\\')
			break
		}
		i++
		decoded, ok := decodeEscape(runes[i], true)
		if !ok {
			b.WriteRune('\\')
			continue
		}
		b.WriteRune(decoded)
	}
	return b.String()
}

// Unrequote implements `unrequote(v)`: unquote followed by a re-quote that
// picks single quotes iff the unquoted form contains `"` and no `'`, else
// double quotes. Its own escape pass differs from Unquote in two ways
// (documented in §9 of the expanded specification): `\\` re-escapes to a
// literal double backslash, and `\a`/`\A` re-escapes to the literal
// two-character sequence `\a` rather than decoding to a control code point.
func Unrequote(v Value) Value {
	switch t := v.(type) {
	case *Literal:
		if t.Q == QuoteNone {
			return &Literal{S: t.S, Q: QuoteNone}
		}
		result := unrequoteString(t.S)
		q := QuoteDouble
		if strings.Contains(result, "\"") && !strings.Contains(result, "'") {
			q = QuoteSingle
		}
		return &Literal{S: result, Q: q}
	case *List:
		items := make([]Value, len(t.Items))
		for i, item := range t.Items {
			items[i] = Unrequote(item)
		}
		return &List{Items: items, Sep: t.Sep, Bracketed: t.Bracketed}
	default:
		return v
	}
}

func unrequoteString(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '\\' {
			b.WriteRune(c)
			continue
		}
		if i+1 >= len(runes) {
			b.WriteRune('\\')
			break
		}
		i++
		next := runes[i]
		switch {
		case next == '\\':
			b.WriteString(`\\`)
		case next == '0':
			b.WriteRune('�')
		case next >= '1' && next <= '9':
			b.WriteRune(rune(next - '0'))
		case next == 'a' || next == 'A':
			b.WriteString(`\a`)
		case next >= 'b' && next <= 'f':
			b.WriteRune(rune(next-'a') + 10)
		case next >= 'B' && next <= 'F':
			b.WriteRune(rune(next-'A') + 10)
		default:
			b.WriteRune(next)
		}
	}
	return b.String()
}

// Equal implements structural equality: numbers compare by rational value
// but only when units match (equal magnitude, different unit is NOT
// equal); True/False/Null equal only themselves; literals compare by
// their stored string regardless of quoting style, without decoding its
// escape sequences first.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Unit == bv.Unit && av.Q.Cmp(bv.Q) == 0
	case *Color:
		bv, ok := b.(*Color)
		return ok && av.R.Cmp(bv.R) == 0 && av.G.Cmp(bv.G) == 0 &&
			av.B.Cmp(bv.B) == 0 && av.A.Cmp(bv.A) == 0
	case *Literal:
		bv, ok := b.(*Literal)
		return ok && av.S == bv.S
	case *True:
		_, ok := b.(*True)
		return ok
	case *False:
		_, ok := b.(*False)
		return ok
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *List:
		bv, ok := b.(*List)
		if !ok || av.Sep != bv.Sep || av.Bracketed != bv.Bracketed || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || len(av.Keys) != len(bv.Keys) {
			return false
		}
		for i := range av.Keys {
			other, found := bv.Get(av.Keys[i])
			if !found || !Equal(av.Vals[i], other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
