package value

import "math/big"

// combineUnits implements the unit-compatibility table from §4.2 for the
// four arithmetic operators that carry a unit result (+, -, *, /); Modulo
// follows the same table. ok is false when the spec leaves the
// combination undefined, which the caller turns into a symbolic fallback.
func combineUnits(op Op, au, bu Unit) (Unit, bool) {
	if au == UnitNone {
		return bu, true
	}
	if bu == UnitNone {
		return au, true
	}
	if au == bu {
		switch op {
		case OpPlus, OpMinus:
			return au, true
		case OpDivide:
			return UnitNone, true
		default:
			return UnitNone, false
		}
	}
	return UnitNone, false
}

// Apply implements the binary operator semantics of §4.2. ok is false
// when no rule applies and the caller should keep a symbolic BinOp/Div.
func Apply(op Op, a, b Value) (Value, bool) {
	switch op {
	case OpEqual:
		return Bool(Equal(a, b)), true
	case OpNotEqual:
		return Bool(!Equal(a, b)), true
	case OpAnd:
		if !IsTrue(a) {
			return a, true
		}
		return b, true
	case OpOr:
		if IsTrue(a) {
			return a, true
		}
		return b, true
	}

	if an, ok := a.(*Number); ok {
		if bn, ok := b.(*Number); ok {
			return applyNumbers(op, an, bn)
		}
	}
	if ac, ok := a.(*Color); ok {
		if bn, ok := b.(*Number); ok {
			return applyColorNumber(op, ac, bn)
		}
		if bc, ok := b.(*Color); ok {
			return applyColorColor(op, ac, bc)
		}
	}
	if lit, ok := a.(*Literal); ok {
		return concat(lit, op, b)
	}
	if lit, ok := b.(*Literal); ok {
		return concat2(a, op, lit)
	}
	return nil, false
}

func applyNumbers(op Op, a, b *Number) (Value, bool) {
	switch op {
	case OpGreater, OpGreaterEqual, OpLesser, OpLesserEqual:
		if a.Unit != b.Unit && a.Unit != UnitNone && b.Unit != UnitNone {
			return nil, false
		}
		c := a.Q.Cmp(b.Q)
		switch op {
		case OpGreater:
			return Bool(c > 0), true
		case OpGreaterEqual:
			return Bool(c >= 0), true
		case OpLesser:
			return Bool(c < 0), true
		default:
			return Bool(c <= 0), true
		}
	case OpPlus, OpMinus, OpMultiply, OpDivide, OpModulo:
		unit, ok := combineUnits(op, a.Unit, b.Unit)
		if !ok {
			return nil, false
		}
		if (op == OpDivide || op == OpModulo) && IsZero(b.Q) {
			return nil, false
		}
		var q *big.Rat
		switch op {
		case OpPlus:
			q = new(big.Rat).Add(a.Q, b.Q)
		case OpMinus:
			q = new(big.Rat).Sub(a.Q, b.Q)
		case OpMultiply:
			q = new(big.Rat).Mul(a.Q, b.Q)
		case OpDivide:
			q = new(big.Rat).Quo(a.Q, b.Q)
		case OpModulo:
			quot := new(big.Rat).Quo(a.Q, b.Q)
			n := Truncate(quot)
			q = new(big.Rat).Sub(a.Q, new(big.Rat).Mul(b.Q, new(big.Rat).SetInt(n)))
		}
		return &Number{Q: q, Unit: unit, Calc: true}, true
	default:
		return nil, false
	}
}

func applyColorNumber(op Op, c *Color, n *Number) (Value, bool) {
	switch op {
	case OpPlus, OpMinus:
		var f func(x, y *big.Rat) *big.Rat
		if op == OpPlus {
			f = func(x, y *big.Rat) *big.Rat { return new(big.Rat).Add(x, y) }
		} else {
			f = func(x, y *big.Rat) *big.Rat { return new(big.Rat).Sub(x, y) }
		}
		return RGBA(f(c.R, n.Q), f(c.G, n.Q), f(c.B, n.Q), c.A), true
	case OpDivide:
		if n.Unit != UnitNone || IsZero(n.Q) {
			return nil, false
		}
		return RGBA(
			new(big.Rat).Quo(c.R, n.Q),
			new(big.Rat).Quo(c.G, n.Q),
			new(big.Rat).Quo(c.B, n.Q),
			c.A,
		), true
	default:
		return nil, false
	}
}

func applyColorColor(op Op, a, b *Color) (Value, bool) {
	switch op {
	case OpPlus, OpMinus:
		var f func(x, y *big.Rat) *big.Rat
		if op == OpPlus {
			f = func(x, y *big.Rat) *big.Rat { return new(big.Rat).Add(x, y) }
		} else {
			f = func(x, y *big.Rat) *big.Rat { return new(big.Rat).Sub(x, y) }
		}
		return RGBA(f(a.R, b.R), f(a.G, b.G), f(a.B, b.B), a.A), true
	default:
		return nil, false
	}
}

// concat and concat2 implement "Any + Literal"/"Literal + Any" string
// concatenation (§4.2, §4.6): the `+` operator is the only one that
// concatenates; every other operator against a Literal has no rule.
// Per the open question in §9, a Number operand's unit is preserved in
// its printed form when concatenated, since the reference implementation
// concatenates via the formatter rather than stripping units first.
func concat(lit *Literal, op Op, b Value) (Value, bool) {
	if op != OpPlus {
		return nil, false
	}
	return &Literal{S: lit.S + stringify(b), Q: lit.Q}, true
}

func concat2(a Value, op Op, lit *Literal) (Value, bool) {
	if op != OpPlus {
		return nil, false
	}
	return &Literal{S: stringify(a) + lit.S, Q: lit.Q}, true
}

// stringify is a minimal, dependency-free renderer used only by string
// concatenation, which must be able to format an arbitrary operand
// without importing the format package (that would create an import
// cycle, since format imports value). It mirrors the Expanded style's
// plain-value branches closely enough for concatenation purposes; the
// canonical, spec-exact serialization lives in package format and is used
// everywhere output actually reaches the user.
func stringify(v Value) string {
	switch t := v.(type) {
	case *Literal:
		return t.S
	case *Number:
		return numberPlain(t)
	case *True:
		return "true"
	case *False:
		return "false"
	case *Null:
		return ""
	default:
		return ""
	}
}

func numberPlain(n *Number) string {
	s := n.Q.RatString()
	if IsInteger(n.Q) {
		s = n.Q.Num().String()
	}
	return s + string(n.Unit)
}

// ApplyUnary implements §4.2's unary operators.
func ApplyUnary(op Op, a Value) (Value, bool) {
	switch op {
	case OpNot:
		return Bool(!IsTrue(a)), true
	case OpMinus:
		if n, ok := a.(*Number); ok {
			return &Number{Q: new(big.Rat).Neg(n.Q), Unit: n.Unit, Calc: true}, true
		}
		return nil, false
	case OpPlus:
		if n, ok := a.(*Number); ok {
			return &Number{Q: n.Q, Unit: n.Unit, Sign: true, Calc: n.Calc}, true
		}
		return nil, false
	default:
		return nil, false
	}
}
