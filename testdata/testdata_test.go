package testdata_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/sassgo"
)

// TestFixtures compiles every .scss fixture and compares it against its
// adjacent expected .css file, normalizing whitespace for comparison.
// Grounded on the teacher's own fixture-pair test shape (match by base
// name, group by extension), adapted to call Compile directly instead of
// the LESS parser/importer/renderer pipeline.
func TestFixtures(t *testing.T) {
	fixturesDir := "fixtures"
	entries, err := os.ReadDir(fixturesDir)
	require.NoError(t, err, "failed to read fixtures directory")

	fixtures := make(map[string]map[string]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "_") {
			continue
		}
		ext := filepath.Ext(name)
		baseName := strings.TrimSuffix(name, ext)

		if fixtures[baseName] == nil {
			fixtures[baseName] = make(map[string]string)
		}

		path := filepath.Join(fixturesDir, name)
		content, err := os.ReadFile(path)
		require.NoError(t, err, "failed to read %s", name)

		fixtures[baseName][strings.TrimPrefix(ext, ".")] = string(content)
	}

	for fixtureName, files := range fixtures {
		t.Run(fixtureName, func(t *testing.T) {
			scss, ok := files["scss"]
			require.True(t, ok, "missing .scss file for fixture %s", fixtureName)

			expected, ok := files["css"]
			require.True(t, ok, "missing .css file for fixture %s", fixtureName)

			compiled, err := sassgo.Compile([]byte(scss), sassgo.Expanded)
			require.NoError(t, err, "failed to compile %s", fixtureName)

			require.Equal(t, normalizeCSS(expected), normalizeCSS(string(compiled)),
				"compiled CSS does not match expected output for fixture %s", fixtureName)
		})
	}
}

// normalizeCSS normalizes CSS for comparison by trimming whitespace and
// collapsing blank lines.
func normalizeCSS(css string) string {
	css = strings.TrimSpace(css)
	lines := strings.Split(css, "\n")
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
