// Package eval implements the recursive evaluator of §4.4: given a scope
// and an arithmetic-context flag, it walks a value.Value tree produced by
// the parser and resolves variables, function calls and operators down to
// the seven evaluated forms (Number, Color, Literal, List, Map, Null,
// True/False), leaving only genuinely unresolvable operations (an unknown
// function, an operator with no matching rule) as symbolic nodes.
//
// Grounded on original_source/src/value/mod.rs's `do_evaluate`, which is
// the tree-walking reference this package ports; the teacher's own
// expression.Evaluator worked over raw strings re-parsed at every step
// (regex-based variable substitution, operator-precedence string
// splitting) because the teacher had no separate parse stage producing an
// expression tree. Since SPEC_FULL.md's parser (§10.4) does build a
// value.Value tree up front, this package evaluates that tree directly
// instead of re-deriving the teacher's string-splitting approach.
package eval

import (
	"fmt"

	"github.com/titpetric/sassgo/format"
	"github.com/titpetric/sassgo/functions"
	"github.com/titpetric/sassgo/scope"
	"github.com/titpetric/sassgo/value"
)

// UndefinedFunctionError describes a call whose name neither the scope's
// user-defined functions nor the built-in registry recognize. Eval does
// not return it: an unknown name is kept as a symbolic Call node so it can
// round-trip to CSS unchanged, matching the "unknown plain-CSS function"
// case in §4.4.
type UndefinedFunctionError struct {
	Name string
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function: %s", e.Name)
}

// Eval implements `evaluate(v, scope, arithmetic)`. arithmetic tracks
// whether the current position is inside a parenthesized or function-
// argument context, where bare `/` must always resolve arithmetically
// rather than stay a symbolic Div (§4.4's six-step Div rule).
func Eval(v value.Value, s *scope.Scope, arithmetic bool) (value.Value, error) {
	switch t := v.(type) {
	case *value.Variable:
		return value.IntoCalculated(s.Get(t.Name)), nil

	case *value.Paren:
		return Eval(t.A, s, true)

	case *value.Interpolation:
		inner, err := Eval(t.A, s, true)
		if err != nil {
			return nil, err
		}
		return value.NewLiteral(stringifyForInterpolation(inner), value.QuoteNone), nil

	case *value.List:
		items := make([]value.Value, len(t.Items))
		for i, item := range t.Items {
			ev, err := Eval(item, s, false)
			if err != nil {
				return nil, err
			}
			items[i] = ev
		}
		return &value.List{Items: items, Sep: t.Sep, Bracketed: t.Bracketed}, nil

	case *value.Map:
		out := value.NewMap()
		for i := range t.Keys {
			k, err := Eval(t.Keys[i], s, arithmetic)
			if err != nil {
				return nil, err
			}
			val, err := Eval(t.Vals[i], s, arithmetic)
			if err != nil {
				return nil, err
			}
			out.Set(k, val)
		}
		return out, nil

	case *value.UnaryOp:
		a, err := Eval(t.A, s, true)
		if err != nil {
			return nil, err
		}
		if res, ok := value.ApplyUnary(t.Op, a); ok {
			return res, nil
		}
		return value.NewUnaryOp(t.Op, a), nil

	case *value.BinOp:
		return evalBinOp(t, s, arithmetic)

	case *value.Div:
		return evalDiv(t, s, arithmetic)

	case *value.Call:
		return evalCall(t, s, arithmetic)

	case *value.Number:
		return &value.Number{Q: t.Q, Unit: t.Unit, Sign: t.Sign, Calc: arithmetic || t.Calc}, nil

	case *value.Color, *value.Literal,
		*value.Null, *value.True, *value.False, *value.Function:
		return t, nil

	default:
		return v, nil
	}
}

// evalBinOp always evaluates its operands with arithmetic=true, per
// original_source/src/value/mod.rs's `do_evaluate` for BinOp: once an
// operator sits between two operands, both sides resolve arithmetically
// regardless of the surrounding context's own arithmetic flag.
func evalBinOp(t *value.BinOp, s *scope.Scope, arithmetic bool) (value.Value, error) {
	a, err := Eval(t.A, s, true)
	if err != nil {
		return nil, err
	}
	b, err := Eval(t.B, s, true)
	if err != nil {
		return nil, err
	}
	if res, ok := value.Apply(t.Op, a, b); ok {
		return res, nil
	}
	return value.NewBinOp(a, t.Op, b), nil
}

// evalDiv implements §4.4's six-step re-evaluation rule for the symbolic
// slash form: a bare `/` only resolves to arithmetic division when at
// least one side is already "calculated" (the result of a prior
// arithmetic operation, a parenthesized expression, or a variable
// reference) or the surrounding context is itself arithmetic; otherwise
// it survives as a Div node so `font: 10px/1.5` prints unchanged.
//
// Grounded on original_source/src/value/mod.rs's Div arm: the left
// operand evaluates under the caller's own arithmetic flag, the right
// operand's flag additionally picks up the (unevaluated) left operand's
// own calculated bit, and if that makes the right side calculated while
// the left stayed plain, the left is re-evaluated once more with
// arithmetic forced true so both sides end up resolved together.
func evalDiv(t *value.Div, s *scope.Scope, arithmetic bool) (value.Value, error) {
	a, err := Eval(t.A, s, arithmetic)
	if err != nil {
		return nil, err
	}
	b, err := Eval(t.B, s, arithmetic || value.IsCalculated(t.A))
	if err != nil {
		return nil, err
	}

	if !arithmetic && value.IsCalculated(b) && !value.IsCalculated(t.A) {
		a, err = Eval(t.A, s, true)
		if err != nil {
			return nil, err
		}
	}

	if arithmetic || value.IsCalculated(a) || value.IsCalculated(b) {
		if res, ok := value.Apply(value.OpDivide, a, b); ok {
			return res, nil
		}
	}
	return value.NewDiv(a, b, t.SpaceBefore, t.SpaceAfter), nil
}

// evalCall implements §4.5's two-collaborator contract: the scope's own
// user-defined functions are consulted first, then the read-only builtin
// registry; a name neither recognizes is kept as a symbolic Call so it
// can round-trip as a plain CSS function (e.g. `calc(...)`, `url(...)`).
func evalCall(t *value.Call, s *scope.Scope, arithmetic bool) (value.Value, error) {
	args := make([]value.Arg, len(t.Args))
	for i, a := range t.Args {
		ev, err := Eval(a.Value, s, true)
		if err != nil {
			return nil, err
		}
		args[i] = value.Arg{Name: a.Name, Value: ev}
	}

	if fn, ok := s.GetFunction(t.Name); ok {
		return callUserFunction(fn, args, s)
	}

	if _, builtin, ok := functions.Lookup(t.Name); ok {
		res, err := builtin(args)
		if err != nil {
			return nil, &functions.CallError{Name: t.Name, Cause: err}
		}
		return res, nil
	}

	return value.NewCall(t.Name, args), nil
}

// callUserFunction runs a user-defined `@function`'s body in a child
// scope with its parameters bound; the body itself is the opaque
// `interface{}` the rule-level driver attaches (§1: the driver, not this
// package, owns statement execution), so this stub binds arguments and
// hands back to that driver type when present, keeping eval itself free
// of any dependency on the statement/AST layer.
func callUserFunction(fn *scope.Function, args []value.Arg, s *scope.Scope) (value.Value, error) {
	child := s.Child()
	bound, err := functions.Bind(fn.Params, args)
	if err != nil {
		return nil, &functions.CallError{Name: fn.Name, Cause: err}
	}
	for _, p := range fn.Params {
		if v, ok := bound[p]; ok {
			child.Define(p, v, false)
		} else {
			child.Define(p, value.TheNull, false)
		}
	}
	runner, ok := fn.Body.(interface {
		Run(*scope.Scope) (value.Value, error)
	})
	if !ok {
		return nil, fmt.Errorf("function %s has no runnable body", fn.Name)
	}
	return runner.Run(child)
}

// stringifyForInterpolation renders an evaluated value as it appears when
// spliced into a #{...} interpolation: a literal is unquoted (its escapes
// decoded), Null contributes nothing, and every other value is rendered
// by the CSS formatter in Expanded style.
func stringifyForInterpolation(v value.Value) string {
	switch t := v.(type) {
	case *value.Literal:
		return value.Unquote(t).(*value.Literal).S
	case *value.True:
		return "true"
	case *value.False:
		return "false"
	case *value.Null:
		return ""
	default:
		return format.String(v, format.Expanded)
	}
}
