// Package importer handles @import resolution for multi-file Sass
// stylesheets. It is an external collaborator, not part of the core
// Compile entry point (§1/§10.4: multi-file resolution is out of the
// evaluator's scope), retained for callers that want to assemble a tree
// of .scss/.sass partials before handing a single merged Stylesheet to
// the core. It resolves against parser.StyleParser's value.Value-based
// Stylesheet, splicing each imported file's Nodes in place of the
// *parser.AtImport that named it.
package importer

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/titpetric/sassgo/parser"
)

// Importer resolves @import targets against a filesystem rooted at the
// stylesheet tree it serves.
type Importer struct {
	fs fs.FS
}

// New creates an Importer reading imports from filesystem.
func New(filesystem fs.FS) *Importer {
	return &Importer{fs: filesystem}
}

// ResolveImports replaces every top-level *parser.AtImport in sheet with
// the Nodes of the file(s) it names, resolved relative to basePath (the
// path sheet itself was read from). Imports nested inside a rule's body
// are left as-is: Sass's own `@import` is only meaningful at the
// stylesheet's top level, matching the teacher's own ResolveImports,
// which likewise only ever walked the root statement list.
func (imp *Importer) ResolveImports(sheet *parser.Stylesheet, basePath string) error {
	resolved, err := imp.resolveNodes(sheet.Nodes, basePath)
	if err != nil {
		return err
	}
	sheet.Nodes = resolved
	return nil
}

func (imp *Importer) resolveNodes(nodes []parser.Node, basePath string) ([]parser.Node, error) {
	var out []parser.Node
	for _, n := range nodes {
		at, ok := n.(*parser.AtImport)
		if !ok {
			out = append(out, n)
			continue
		}
		for _, target := range at.Targets {
			spliced, err := imp.resolveOne(target, basePath)
			if err != nil {
				return nil, err
			}
			out = append(out, spliced...)
		}
	}
	return out, nil
}

// resolveOne reads and parses the single file target names (trying each
// of Sass's conventional partial spellings in turn), recursively
// resolves its own imports, and returns its top-level Nodes ready to
// splice into the importing stylesheet.
func (imp *Importer) resolveOne(target, basePath string) ([]parser.Node, error) {
	resolvedPath, content, err := imp.readTarget(target, basePath)
	if err != nil {
		return nil, err
	}

	sheet, err := parser.NewStyleParser(string(content)).ParseStylesheet()
	if err != nil {
		return nil, fmt.Errorf("importer: parse %q: %w", resolvedPath, err)
	}

	if err := imp.ResolveImports(sheet, resolvedPath); err != nil {
		return nil, fmt.Errorf("importer: resolve imports in %q: %w", resolvedPath, err)
	}

	return sheet.Nodes, nil
}

// readTarget resolves target relative to the directory basePath lives
// in, trying the names candidatePaths lists (Sass's partial-file
// convention: a leading underscore, a .scss or .sass suffix) so
// `@import "vars"` finds a sibling `_vars.scss`.
func (imp *Importer) readTarget(target, basePath string) (string, []byte, error) {
	dir := filepath.Dir(basePath)
	if dir == "." {
		dir = ""
	}

	for _, candidate := range candidatePaths(target) {
		resolved := filepath.ToSlash(filepath.Join(dir, candidate))
		content, err := fs.ReadFile(imp.fs, resolved)
		if err == nil {
			return resolved, content, nil
		}
	}

	return "", nil, fmt.Errorf("importer: import not found: %q (searched from %q)", target, basePath)
}

// candidatePaths enumerates the filenames a bare Sass import target can
// resolve to, in lookup order. A target with an extension yields the
// literal name, then its underscored partial form; a target without one
// yields `name.scss`, `_name.scss`, `name.sass`, `_name.sass`, and the
// bare name itself is not tried.
func candidatePaths(target string) []string {
	ext := filepath.Ext(target)
	base := target
	dir := ""
	if i := lastSlash(target); i >= 0 {
		dir = target[:i+1]
		base = target[i+1:]
	}

	var names []string
	if ext != "" {
		names = append(names, base, "_"+base)
	} else {
		names = append(names, base+".scss", "_"+base+".scss", base+".sass", "_"+base+".sass")
	}

	out := make([]string, len(names))
	for i, n := range names {
		out[i] = dir + n
	}
	return out
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
