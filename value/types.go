// Package value implements the Sass value algebra: a tagged union of the
// forms a Sass expression can take before and after evaluation, together
// with the constructors, predicates and structural operations the
// evaluator and formatter build on.
package value

// Value is the sealed tagged union at the core of the value algebra. Every
// concrete variant below implements it; construction is gated through the
// package-level constructor functions so the invariants documented on each
// type hold for every instance in circulation.
type Value interface {
	valueNode()
}

// Quoting records how a Literal was authored, so formatting can restore it.
type Quoting int

const (
	QuoteNone Quoting = iota
	QuoteDouble
	QuoteSingle
)

// Literal is a string value: quoted or bare.
type Literal struct {
	S string
	Q Quoting
}

func (*Literal) valueNode() {}

// NewLiteral builds a Literal with the given quoting.
func NewLiteral(s string, q Quoting) *Literal {
	return &Literal{S: s, Q: q}
}

// Separator distinguishes the two List joining conventions Sass supports.
type Separator int

const (
	SepSpace Separator = iota
	SepComma
)

// List is an ordered sequence of values under one separator, optionally
// wrapped in the author's square brackets.
type List struct {
	Items     []Value
	Sep       Separator
	Bracketed bool
}

func (*List) valueNode() {}

// NewList builds a List from items, leaving a one-element unbracketed
// comma list to be collapsed by the caller if that is the desired surface
// behaviour (see Collapse).
func NewList(items []Value, sep Separator, bracketed bool) *List {
	return &List{Items: items, Sep: sep, Bracketed: bracketed}
}

// Collapse implements the "single element, no trailing comma" rule from
// the data model: a one-item unbracketed list is indistinguishable from
// its element in expression position.
func Collapse(items []Value, sep Separator, bracketed bool, trailingComma bool) Value {
	if len(items) == 1 && !bracketed && !trailingComma {
		return items[0]
	}
	return NewList(items, sep, bracketed)
}

// Map is an insertion-ordered association of value to value; keys compare
// by structural equality (Equal), not identity.
type Map struct {
	Keys []Value
	Vals []Value
}

func (*Map) valueNode() {}

// NewMap builds an empty Map ready for Set.
func NewMap() *Map {
	return &Map{}
}

// Set inserts or overwrites the value bound to key, preserving the
// position of an existing key and appending otherwise.
func (m *Map) Set(key, val Value) {
	for i, k := range m.Keys {
		if Equal(k, key) {
			m.Vals[i] = val
			return
		}
	}
	m.Keys = append(m.Keys, key)
	m.Vals = append(m.Vals, val)
}

// Get looks up key by structural equality.
func (m *Map) Get(key Value) (Value, bool) {
	for i, k := range m.Keys {
		if Equal(k, key) {
			return m.Vals[i], true
		}
	}
	return nil, false
}

// Div is the symbolic slash form: two operands and the two independent
// spacing flags the Sass "/" ambiguity contract requires the formatter to
// preserve when the division cannot be resolved arithmetically.
type Div struct {
	A, B               Value
	SpaceBefore, SpaceAfter bool
}

func (*Div) valueNode() {}

// NewDiv builds a symbolic Div node.
func NewDiv(a, b Value, spaceBefore, spaceAfter bool) *Div {
	return &Div{A: a, B: b, SpaceBefore: spaceBefore, SpaceAfter: spaceAfter}
}

// Op enumerates the binary and unary operators of §4.2.
type Op int

const (
	OpPlus Op = iota
	OpMinus
	OpMultiply
	OpDivide
	OpModulo
	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLesser
	OpLesserEqual
	OpAnd
	OpOr
	OpNot
)

// String renders an Op in its Sass surface spelling, used by the
// formatter's unresolved-BinOp/UnaryOp branch.
func (op Op) String() string {
	switch op {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpLesser:
		return "<"
	case OpLesserEqual:
		return "<="
	case OpAnd:
		return " and "
	case OpOr:
		return " or "
	case OpNot:
		return "not "
	default:
		return "?"
	}
}

// BinOp is a binary expression that survives evaluation unresolved (no
// operator rule applied to its operand types).
type BinOp struct {
	A  Value
	Op Op
	B  Value
}

func (*BinOp) valueNode() {}

// NewBinOp builds a symbolic BinOp node.
func NewBinOp(a Value, op Op, b Value) *BinOp {
	return &BinOp{A: a, Op: op, B: b}
}

// UnaryOp is a unary expression (currently Minus, Plus or Not) that
// survives evaluation unresolved.
type UnaryOp struct {
	Op Op
	A  Value
}

func (*UnaryOp) valueNode() {}

// NewUnaryOp builds a symbolic UnaryOp node.
func NewUnaryOp(op Op, a Value) *UnaryOp {
	return &UnaryOp{Op: op, A: a}
}

// Arg is one argument to a Call: an optional keyword name (for Sass
// named-argument calls, §4.5 of the expanded specification) and the
// argument expression.
type Arg struct {
	Name string
	Value Value
}

// Call is a function invocation: as parsed, or, after evaluation, a
// symbolic form with evaluated arguments, kept because no user-defined or
// built-in function matches its name.
type Call struct {
	Name string
	Args []Arg
}

func (*Call) valueNode() {}

// NewCall builds a Call node.
func NewCall(name string, args []Arg) *Call {
	return &Call{Name: name, Args: args}
}

// Paren is a parenthesized sub-expression; it only appears before
// evaluation (evaluating it pushes the arithmetic flag and discards the
// wrapper, per §4.4).
type Paren struct {
	A Value
}

func (*Paren) valueNode() {}

// NewParen builds a Paren node.
func NewParen(a Value) *Paren {
	return &Paren{A: a}
}

// Variable is an unevaluated `$name` reference.
type Variable struct {
	Name string
}

func (*Variable) valueNode() {}

// NewVariable builds a Variable node.
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

// Interpolation is an unevaluated `#{...}` node.
type Interpolation struct {
	A Value
}

func (*Interpolation) valueNode() {}

// NewInterpolation builds an Interpolation node.
func NewInterpolation(a Value) *Interpolation {
	return &Interpolation{A: a}
}

// Function is an evaluated, possibly-bound function reference (the result
// of `get-function(...)`-style built-ins); Bound is nil for an unbound
// reference by name only.
type Function struct {
	Name  string
	Bound *Value
}

func (*Function) valueNode() {}

// Null, True and False are the three evaluated nullary forms.
type Null struct{}
type True struct{}
type False struct{}

func (*Null) valueNode()  {}
func (*True) valueNode()  {}
func (*False) valueNode() {}

var (
	TheNull  = &Null{}
	TheTrue  = &True{}
	TheFalse = &False{}
)

// Bool returns TheTrue or TheFalse for a Go bool, matching the `bool(b)`
// constructor from §4.1.
func Bool(b bool) Value {
	if b {
		return TheTrue
	}
	return TheFalse
}
