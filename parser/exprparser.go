package parser

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/titpetric/sassgo/value"
)

// ExprParser turns a token stream from Lexer into a value.Value tree,
// built for the evaluator (package eval) to consume directly rather than
// re-parsing strings at evaluation time the way the teacher's
// expression.Evaluator did. It is a peek/advance token cursor (the same
// shape StyleParser uses) that targets value.Value instead of the
// teacher's ast.Value, since the
// expanded specification's evaluator and formatter are built directly on
// the value algebra in package value.
//
// Precedence, low to high: or, and, equality (==, !=), relational
// (<, <=, >, >=), additive (+, -), multiplicative (*, /, %), unary
// (-, +, not), primary.
type ExprParser struct {
	toks []Token
	pos  int
}

// NewExprParser tokenizes src and prepares a value-expression parser over
// it. Trailing/leading whitespace and comments are already stripped by
// the lexer's own skipWhitespaceAndComments.
func NewExprParser(src string) *ExprParser {
	lex := NewLexer(src)
	return &ExprParser{toks: lex.Tokenize()}
}

func (p *ExprParser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Type: TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *ExprParser) advance() Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *ExprParser) atEnd() bool {
	return p.peek().Type == TokenEOF
}

// ParseValue parses a complete value expression (§4.1's comma/space list
// grammar at the top) and requires the token stream to be fully consumed.
func (p *ExprParser) ParseValue() (value.Value, error) {
	v, err := p.parseCommaList()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("unexpected token %q at position %d", p.peek().Value, p.pos)
	}
	return v, nil
}

// parseCommaList implements the outer comma-separated list; a bracketed
// form `[a, b]` is recognized at the space-list level below so that
// `[1, 2]` still parses as one bracketed comma list rather than two
// bracketed singletons.
func (p *ExprParser) parseCommaList() (value.Value, error) {
	first, err := p.parseSpaceList()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TokenComma {
		return first, nil
	}
	items := []value.Value{first}
	for p.peek().Type == TokenComma {
		p.advance()
		next, err := p.parseSpaceList()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	return value.Collapse(items, value.SepComma, false, false), nil
}

func (p *ExprParser) parseSpaceList() (value.Value, error) {
	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	items := []value.Value{first}
	for canStartOperand(p.peek().Type) {
		next, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	return value.Collapse(items, value.SepSpace, false, false), nil
}

// canStartOperand reports whether tt can begin a new space-list element;
// used to decide whether to keep consuming a bare space-separated run
// (e.g. `1px solid red`) without mistaking the next binary operator's
// operand for a new element (those are consumed inside parseOr/parseAnd/
// etc., never here).
func canStartOperand(tt TokenType) bool {
	switch tt {
	case TokenNumber, TokenColor, TokenString, TokenIdent, TokenKeyword,
		TokenFunction, TokenVariable, TokenLParen, TokenLBracket, TokenInterp, TokenHash:
		return true
	default:
		return false
	}
}

func (p *ExprParser) parseOr() (value.Value, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = value.NewBinOp(left, value.OpOr, right)
	}
	return left, nil
}

func (p *ExprParser) parseAnd() (value.Value, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenAnd {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = value.NewBinOp(left, value.OpAnd, right)
	}
	return left, nil
}

func (p *ExprParser) parseEquality() (value.Value, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenEq || p.peek().Type == TokenNe {
		op := value.OpEqual
		if p.peek().Type == TokenNe {
			op = value.OpNotEqual
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = value.NewBinOp(left, op, right)
	}
	return left, nil
}

func (p *ExprParser) parseRelational() (value.Value, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op value.Op
		switch p.peek().Type {
		case TokenLt:
			op = value.OpLesser
		case TokenLe:
			op = value.OpLesserEqual
		case TokenGreater:
			op = value.OpGreater
		case TokenGe:
			op = value.OpGreaterEqual
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = value.NewBinOp(left, op, right)
	}
}

func (p *ExprParser) parseAdditive() (value.Value, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenPlus || p.peek().Type == TokenMinus {
		op := value.OpPlus
		if p.peek().Type == TokenMinus {
			op = value.OpMinus
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = value.NewBinOp(left, op, right)
	}
	return left, nil
}

func (p *ExprParser) parseMultiplicative() (value.Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case TokenStar:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = value.NewBinOp(left, value.OpMultiply, right)
		case TokenSlash:
			// The Div node's two spacing flags come from token offsets:
			// a gap between the previous token's source end and the
			// slash, or between the slash and the next token, is
			// whitespace (`10px/8px` vs `10px / 8px`). A variable's
			// token omits its `$` and a string's omits its quotes; a
			// string whose escapes were decoded ends up shorter than its
			// source and reads as spaced before the slash.
			prev := p.toks[p.pos-1]
			end := prev.Offset + len(prev.Value)
			switch prev.Type {
			case TokenVariable:
				end++
			case TokenString:
				end += 2
			}
			slash := p.advance()
			spaceBefore := slash.Offset > end
			spaceAfter := p.peek().Type != TokenEOF && p.peek().Offset > slash.Offset+1
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = value.NewDiv(left, right, spaceBefore, spaceAfter)
		case TokenPercent:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = value.NewBinOp(left, value.OpModulo, right)
		default:
			return left, nil
		}
	}
}

func (p *ExprParser) parseUnary() (value.Value, error) {
	switch {
	case p.peek().Type == TokenMinus:
		p.advance()
		a, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return value.NewUnaryOp(value.OpMinus, a), nil
	case p.peek().Type == TokenPlus:
		p.advance()
		a, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return value.NewUnaryOp(value.OpPlus, a), nil
	case p.peek().Type == TokenNot:
		p.advance()
		a, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return value.NewUnaryOp(value.OpNot, a), nil
	default:
		return p.parsePrimary()
	}
}

func (p *ExprParser) parsePrimary() (value.Value, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		return p.numberFromToken(tok)
	case TokenColor:
		p.advance()
		return colorFromHex(tok.Value)
	case TokenString:
		p.advance()
		q := value.QuoteDouble
		if tok.QuoteChar == "'" {
			q = value.QuoteSingle
		}
		return value.NewLiteral(tok.Value, q), nil
	case TokenVariable:
		p.advance()
		return value.NewVariable(tok.Value), nil
	case TokenLParen:
		p.advance()
		inner, err := p.parseCommaList()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != TokenRParen {
			return nil, fmt.Errorf("expected ) at position %d", p.pos)
		}
		p.advance()
		return value.NewParen(inner), nil
	case TokenLBracket:
		p.advance()
		items, comma, err := p.parseBracketItems()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != TokenRBracket {
			return nil, fmt.Errorf("expected ] at position %d", p.pos)
		}
		p.advance()
		sep := value.SepSpace
		if comma {
			sep = value.SepComma
		}
		return value.NewList(items, sep, true), nil
	case TokenInterp:
		p.advance()
		inner, err := p.parseCommaList()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != TokenInterpEnd && p.peek().Type != TokenRBrace {
			return nil, fmt.Errorf("expected } at position %d", p.pos)
		}
		p.advance()
		return value.NewInterpolation(inner), nil
	case TokenIdent, TokenKeyword, TokenFunction:
		return p.parseIdentOrCall()
	case TokenHash:
		p.advance()
		return value.NewLiteral("#", value.QuoteNone), nil
	default:
		return nil, fmt.Errorf("unexpected token %q (%s) at position %d", tok.Value, tok.Type, p.pos)
	}
}

// parseBracketItems parses the items of a `[...]` list and reports
// whether they were separated by commas.
func (p *ExprParser) parseBracketItems() ([]value.Value, bool, error) {
	var items []value.Value
	comma := false
	if p.peek().Type == TokenRBracket {
		return items, comma, nil
	}
	for {
		v, err := p.parseOr()
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)
		if p.peek().Type == TokenComma {
			p.advance()
			comma = true
			continue
		}
		return items, comma, nil
	}
}

func (p *ExprParser) parseIdentOrCall() (value.Value, error) {
	tok := p.advance()
	name := tok.Value
	switch strings.ToLower(name) {
	case "true":
		return value.TheTrue, nil
	case "false":
		return value.TheFalse, nil
	case "null":
		return value.TheNull, nil
	}
	if p.peek().Type == TokenLParen {
		p.advance()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != TokenRParen {
			return nil, fmt.Errorf("expected ) closing call %s at position %d", name, p.pos)
		}
		p.advance()
		return value.NewCall(name, args), nil
	}
	return value.NewLiteral(name, value.QuoteNone), nil
}

func (p *ExprParser) parseArgs() ([]value.Arg, error) {
	var args []value.Arg
	if p.peek().Type == TokenRParen {
		return args, nil
	}
	for {
		name := ""
		if p.peek().Type == TokenVariable && p.toks[min(p.pos+1, len(p.toks)-1)].Type == TokenColon {
			name = p.peek().Value
			p.advance()
			p.advance() // colon
		}
		v, err := p.parseSpaceList()
		if err != nil {
			return nil, err
		}
		args = append(args, value.Arg{Name: name, Value: v})
		if p.peek().Type == TokenComma {
			p.advance()
			continue
		}
		return args, nil
	}
}

func (p *ExprParser) numberFromToken(tok Token) (value.Value, error) {
	s := tok.Value
	unit := value.UnitNone
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	numPart := s[:i]
	unitPart := s[i:]
	if unitPart != "" {
		unit = value.Unit(unitPart)
	}
	q, ok := value.ParseDecimal(numPart)
	if !ok {
		return nil, fmt.Errorf("invalid number literal %q", s)
	}
	return value.NewNumber(q, unit, strings.HasPrefix(numPart, "+"), false), nil
}

// colorFromHex builds a Color from a `#rgb`/`#rgba`/`#rrggbb`/`#rrggbbaa`
// literal, expanding the short forms per CSS convention and carrying the
// author's spelling so the formatter can echo it back verbatim per §3.1's
// "optional source name for reversible... emission".
func colorFromHex(s string) (value.Value, error) {
	hex := strings.TrimPrefix(s, "#")
	expand := func(c byte) (byte, byte) { return c, c }
	var r, g, b, a [2]byte
	switch len(hex) {
	case 3, 4:
		r[0], r[1] = expand(hex[0])
		g[0], g[1] = expand(hex[1])
		b[0], b[1] = expand(hex[2])
		if len(hex) == 4 {
			a[0], a[1] = expand(hex[3])
		}
	case 6, 8:
		r = [2]byte{hex[0], hex[1]}
		g = [2]byte{hex[2], hex[3]}
		b = [2]byte{hex[4], hex[5]}
		if len(hex) == 8 {
			a = [2]byte{hex[6], hex[7]}
		}
	default:
		return nil, fmt.Errorf("invalid hex color %q", s)
	}
	rv := hexByte(r)
	gv := hexByte(g)
	bv := hexByte(b)
	av := int64(255)
	if len(hex) == 4 || len(hex) == 8 {
		av = int64(hexByte(a))
	}
	c := value.RGBAInt(rv, gv, bv, big.NewRat(av, 255))
	return c.WithName(s), nil
}

func hexByte(pair [2]byte) int64 {
	hi := hexDigit(pair[0])
	lo := hexDigit(pair[1])
	return int64(hi*16 + lo)
}

func hexDigit(c byte) int64 {
	switch {
	case c >= '0' && c <= '9':
		return int64(c - '0')
	case c >= 'a' && c <= 'f':
		return int64(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int64(c-'A') + 10
	default:
		return 0
	}
}

