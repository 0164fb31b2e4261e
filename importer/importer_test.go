package importer_test

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/sassgo/importer"
	"github.com/titpetric/sassgo/parser"
)

func parseSheet(t *testing.T, src string) *parser.Stylesheet {
	t.Helper()
	sheet, err := parser.NewStyleParser(src).ParseStylesheet()
	require.NoError(t, err)
	return sheet
}

func TestResolveImportsSplicesImportedNodes(t *testing.T) {
	fsys := fstest.MapFS{
		"imported.scss": &fstest.MapFile{
			Data: []byte(`$size: 10px; .imported { width: $size; }`),
		},
	}

	sheet := parseSheet(t, `@import "imported.scss"; .main { color: red; }`)
	imp := importer.New(fsys)

	err := imp.ResolveImports(sheet, "main.scss")
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 3) // $size, .imported, .main
}

func TestResolveImportsMissingFileErrors(t *testing.T) {
	fsys := fstest.MapFS{}
	sheet := parseSheet(t, `@import "missing.scss";`)

	err := importer.New(fsys).ResolveImports(sheet, "main.scss")
	require.Error(t, err)
	require.Contains(t, err.Error(), "import not found")
}

func TestResolveImportsFindsUnderscoredPartial(t *testing.T) {
	fsys := fstest.MapFS{
		"_vars.scss": &fstest.MapFile{
			Data: []byte(`$primary: blue;`),
		},
	}
	sheet := parseSheet(t, `@import "vars";`)

	err := importer.New(fsys).ResolveImports(sheet, "main.scss")
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 1)

	v, ok := sheet.Nodes[0].(*parser.VarDecl)
	require.True(t, ok)
	require.Equal(t, "primary", v.Name)
}

func TestResolveImportsCommaSeparatedTargets(t *testing.T) {
	fsys := fstest.MapFS{
		"a.scss": &fstest.MapFile{Data: []byte(`.a { color: red; }`)},
		"b.scss": &fstest.MapFile{Data: []byte(`.b { color: blue; }`)},
	}
	sheet := parseSheet(t, `@import "a.scss", "b.scss";`)

	err := importer.New(fsys).ResolveImports(sheet, "main.scss")
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 2)
}

func TestResolveImportsRelativeToImportingDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"styles/main.scss":    &fstest.MapFile{Data: []byte(`@import "partial.scss";`)},
		"styles/partial.scss": &fstest.MapFile{Data: []byte(`.partial { display: block; }`)},
	}
	sheet := parseSheet(t, `@import "partial.scss";`)

	err := importer.New(fsys).ResolveImports(sheet, "styles/main.scss")
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 1)
}

func TestResolveImportsNestedImportsResolveRecursively(t *testing.T) {
	fsys := fstest.MapFS{
		"level1.scss": &fstest.MapFile{
			Data: []byte(`@import "level2.scss"; .level1 { color: blue; }`),
		},
		"level2.scss": &fstest.MapFile{
			Data: []byte(`.level2 { color: green; }`),
		},
	}
	sheet := parseSheet(t, `@import "level1.scss";`)

	err := importer.New(fsys).ResolveImports(sheet, "main.scss")
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 2) // .level2 and .level1, in source order
}

func TestResolveImportsWithRealFilesystem(t *testing.T) {
	tmpDir := t.TempDir()

	importedContent := `$color: red; .card { background: $color; }`
	mainContent := `@import "imported.scss"; .container { padding: 10px; }`

	require.NoError(t, os.WriteFile(tmpDir+"/imported.scss", []byte(importedContent), 0644))
	require.NoError(t, os.WriteFile(tmpDir+"/main.scss", []byte(mainContent), 0644))

	source, err := os.ReadFile(tmpDir + "/main.scss")
	require.NoError(t, err)

	sheet := parseSheet(t, string(source))
	err = importer.New(os.DirFS(tmpDir)).ResolveImports(sheet, "main.scss")
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 3) // $color, .card, .container
}
