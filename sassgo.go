// Package sassgo is the module's public entry point: it wires the
// parser, evaluator, built-in function registry and formatter together
// into the single `Compile` call the rest of this module's surface
// (the HTTP handler, the middleware, and cmd/sassgo) is built on top of.
// Grounded on the teacher's own root package, which played the same role
// for its dst-parser/renderer pair.
package sassgo

import (
	"fmt"
	"strings"

	"github.com/titpetric/sassgo/eval"
	"github.com/titpetric/sassgo/format"
	"github.com/titpetric/sassgo/parser"
	"github.com/titpetric/sassgo/scope"
	"github.com/titpetric/sassgo/value"
)

// OutputStyle selects the formatter convention the compiled CSS is
// rendered with; it is a thin, stable public alias over format.Style so
// callers outside this module need not import package format directly.
type OutputStyle = format.Style

const (
	Expanded   = format.Expanded
	Compressed = format.Compressed
)

// CompileError wraps a failure from any compilation stage with the
// stage name that produced it, the one error-reporting convention this
// module's driver uses (§7): callers can tell a parse failure from an
// evaluation failure without type-asserting into package internals.
type CompileError struct {
	Stage string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("sassgo: %s: %v", e.Stage, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile parses source as Sass/SCSS, evaluates every declaration's and
// variable's right-hand side against a fresh root scope, and renders the
// result as CSS text in the requested style. It is the single public
// surface §6 requires: no package-level state is kept between calls, so
// concurrent calls from independent goroutines are safe (§5).
func Compile(source []byte, style OutputStyle) ([]byte, error) {
	sheet, err := parser.NewStyleParser(string(source)).ParseStylesheet()
	if err != nil {
		return nil, &CompileError{Stage: "parse", Err: err}
	}

	root := scope.New()
	var out strings.Builder
	if err := renderNodes(&out, sheet.Nodes, root, style, 0); err != nil {
		return nil, &CompileError{Stage: "evaluate", Err: err}
	}
	return []byte(out.String()), nil
}

func renderNodes(out *strings.Builder, nodes []parser.Node, s *scope.Scope, style OutputStyle, depth int) error {
	for _, n := range nodes {
		switch t := n.(type) {
		case *parser.VarDecl:
			v, err := eval.Eval(t.Value, s, true)
			if err != nil {
				return err
			}
			if t.Default {
				s.DefineDefault(t.Name, v, t.Global)
			} else {
				s.Define(t.Name, v, t.Global)
			}
		case *parser.Rule:
			if err := renderRule(out, t, s, style, depth); err != nil {
				return err
			}
		case *parser.Declaration:
			if err := renderDeclaration(out, t, s, style, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderRule(out *strings.Builder, rule *parser.Rule, s *scope.Scope, style OutputStyle, depth int) error {
	child := s.Child()
	selector := rule.Selector
	for i := strings.Index(selector, "#{"); i >= 0; i = strings.Index(selector, "#{") {
		j := strings.Index(selector[i:], "}")
		if j < 0 {
			break
		}
		inner, err := parser.NewExprParser(selector[i+2 : i+j]).ParseValue()
		if err != nil {
			return err
		}
		v, err := eval.Eval(value.NewInterpolation(inner), s, false)
		if err != nil {
			return err
		}
		selector = selector[:i] + format.String(v, style) + selector[i+j+1:]
	}

	writeIndent(out, style, depth)
	out.WriteString(selector)
	if style == Expanded {
		out.WriteString(" {\n")
	} else {
		out.WriteByte('{')
	}

	var body strings.Builder
	if err := renderNodes(&body, rule.Body, child, style, depth+1); err != nil {
		return err
	}
	out.WriteString(body.String())

	if style == Expanded {
		writeIndent(out, style, depth)
		out.WriteString("}\n")
	} else {
		out.WriteByte('}')
	}
	return nil
}

func renderDeclaration(out *strings.Builder, decl *parser.Declaration, s *scope.Scope, style OutputStyle, depth int) error {
	v, err := eval.Eval(decl.Value, s, false)
	if err != nil {
		return err
	}
	if value.IsNull(v) {
		return nil
	}
	writeIndent(out, style, depth)
	out.WriteString(decl.Property)
	out.WriteByte(':')
	if style == Expanded {
		out.WriteByte(' ')
	}
	out.WriteString(format.String(v, style))
	out.WriteByte(';')
	if style == Expanded {
		out.WriteByte('\n')
	}
	return nil
}

func writeIndent(out *strings.Builder, style OutputStyle, depth int) {
	if style != Expanded {
		return
	}
	for i := 0; i < depth; i++ {
		out.WriteString("  ")
	}
}
