// Command sassgo is the CLI surface of the module: a `compile` subcommand
// that turns one .scss/.sass file into CSS on stdout, and a `fmt` subcommand
// that rewrites files to their compiled CSS in place. Grounded on the
// teacher's cmd/lessgo/main.go (same flag-based subcommand shape, same
// os.Args dispatch), with the LESS parser/importer/renderer pipeline
// replaced by the single Compile entry point; there is no Sass-source
// pretty-printer in this module's scope (§1 excludes whole-stylesheet
// grammar beyond what Compile itself needs), so `fmt` rewrites a file to
// its compiled form rather than to a reformatted Sass source.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/titpetric/sassgo"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: sassgo <command> [args]\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  fmt <files>      Compile Sass files to CSS in place\n")
		fmt.Fprintf(os.Stderr, "  compile <file>   Compile a Sass file to CSS on stdout\n")
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "fmt":
		fmtCmd := flag.NewFlagSet("fmt", flag.ExitOnError)
		compressed := fmtCmd.Bool("compressed", false, "emit compressed CSS")
		fmtCmd.Parse(os.Args[2:])

		files := fmtCmd.Args()
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "Usage: sassgo fmt <files...>\n")
			os.Exit(1)
		}

		style := sassgo.Expanded
		if *compressed {
			style = sassgo.Compressed
		}

		if err := formatFiles(files, style); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "compile":
		compileCmd := flag.NewFlagSet("compile", flag.ExitOnError)
		compressed := compileCmd.Bool("compressed", false, "emit compressed CSS")
		compileCmd.Parse(os.Args[2:])

		args := compileCmd.Args()
		if len(args) < 1 {
			fmt.Fprintf(os.Stderr, "Usage: sassgo compile <file>\n")
			os.Exit(1)
		}

		style := sassgo.Expanded
		if *compressed {
			style = sassgo.Compressed
		}

		if err := compileFile(args[0], style); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		os.Exit(1)
	}
}

// formatFiles compiles each matched .scss/.sass file and rewrites it with
// its compiled CSS.
func formatFiles(patterns []string, style sassgo.OutputStyle) error {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			return fmt.Errorf("no files matching %q", pattern)
		}

		for _, path := range matches {
			if !strings.HasSuffix(path, ".scss") && !strings.HasSuffix(path, ".sass") {
				fmt.Printf("Skipping non-Sass file: %s\n", path)
				continue
			}

			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			css, err := sassgo.Compile(source, style)
			if err != nil {
				return fmt.Errorf("failed to compile %s: %w", path, err)
			}

			if err := os.WriteFile(path, css, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Printf("Compiled: %s\n", path)
		}
	}

	return nil
}

// compileFile reads, compiles and prints one Sass file's CSS to stdout.
func compileFile(path string, style sassgo.OutputStyle) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	css, err := sassgo.Compile(source, style)
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}

	fmt.Print(string(css))
	return nil
}
