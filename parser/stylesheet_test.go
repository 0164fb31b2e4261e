package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/sassgo/parser"
	"github.com/titpetric/sassgo/value"
)

func parseSheet(t *testing.T, src string) *parser.Stylesheet {
	t.Helper()
	sheet, err := parser.NewStyleParser(src).ParseStylesheet()
	require.NoError(t, err)
	return sheet
}

func TestParseVarDecl(t *testing.T) {
	sheet := parseSheet(t, `$primary: #336699;`)
	require.Len(t, sheet.Nodes, 1)

	v := sheet.Nodes[0].(*parser.VarDecl)
	require.Equal(t, "primary", v.Name)
	require.False(t, v.Default)
	require.False(t, v.Global)
}

func TestParseVarDeclWithDefaultFlag(t *testing.T) {
	sheet := parseSheet(t, `$gap: 8px !default;`)
	v := sheet.Nodes[0].(*parser.VarDecl)
	require.True(t, v.Default)
	require.False(t, v.Global)
}

func TestParseVarDeclWithGlobalFlag(t *testing.T) {
	sheet := parseSheet(t, `$gap: 8px !global;`)
	v := sheet.Nodes[0].(*parser.VarDecl)
	require.True(t, v.Global)
	require.False(t, v.Default)
}

func TestParseSimpleRule(t *testing.T) {
	sheet := parseSheet(t, `.card { color: red; }`)
	require.Len(t, sheet.Nodes, 1)

	rule := sheet.Nodes[0].(*parser.Rule)
	require.Equal(t, ".card", rule.Selector)
	require.Len(t, rule.Body, 1)

	decl := rule.Body[0].(*parser.Declaration)
	require.Equal(t, "color", decl.Property)
}

func TestParseNestedRule(t *testing.T) {
	sheet := parseSheet(t, `.card { .title { font-weight: bold; } }`)
	rule := sheet.Nodes[0].(*parser.Rule)
	require.Len(t, rule.Body, 1)

	nested := rule.Body[0].(*parser.Rule)
	require.Equal(t, ".title", nested.Selector)
}

func TestParseRuleWithVariableDeclarationInBody(t *testing.T) {
	sheet := parseSheet(t, `.card { $local: 1px; border: $local; }`)
	rule := sheet.Nodes[0].(*parser.Rule)
	require.Len(t, rule.Body, 2)

	_, isVar := rule.Body[0].(*parser.VarDecl)
	require.True(t, isVar)

	_, isDecl := rule.Body[1].(*parser.Declaration)
	require.True(t, isDecl)
}

func TestParseDeclarationValueIsExpressionTree(t *testing.T) {
	sheet := parseSheet(t, `.card { margin: 1px 2px; }`)
	rule := sheet.Nodes[0].(*parser.Rule)
	decl := rule.Body[0].(*parser.Declaration)

	list, ok := decl.Value.(*value.List)
	require.True(t, ok)
	require.Equal(t, value.SepSpace, list.Sep)
}

func TestParseMultipleTopLevelStatements(t *testing.T) {
	sheet := parseSheet(t, `
$primary: blue;
.a { color: $primary; }
.b { color: red; }
`)
	require.Len(t, sheet.Nodes, 3)
}

func TestParseEmptySource(t *testing.T) {
	sheet := parseSheet(t, "")
	require.Empty(t, sheet.Nodes)
}
