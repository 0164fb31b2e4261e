package sassgo

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/titpetric/sassgo/internal/strings"
)

// Error types for Sass compilation and serving.
var (
	ErrNotFound          = errors.New("not found")
	ErrCompilationFailed = errors.New("compilation failed")
)

// Handler serves .scss/.sass files from a filesystem, compiling each to CSS
// on request. Grounded on the teacher's own Handler (same fs.FS/prefix
// shape), with the dst-parser/renderer pipeline replaced by Compile.
type Handler struct {
	pathPrefix string
	fileSystem fs.FS
	style      OutputStyle
}

// NewHandler creates a new Sass compilation handler.
// fileSystem is where to read .scss/.sass files from; pathPrefix is the
// URL path prefix to match and strip (e.g., "/assets/css").
func NewHandler(fileSystem fs.FS, pathPrefix string) http.Handler {
	return &Handler{
		pathPrefix: pathPrefix,
		fileSystem: fileSystem,
		style:      Expanded,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.pathPrefix != "" && !strings.HasPrefix(r.URL.Path, h.pathPrefix) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if !isSassPath(r.URL.Path) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	sassPath := strings.TrimPrefix(r.URL.Path, h.pathPrefix)
	if h.pathPrefix != "/" {
		sassPath = strings.TrimPrefix(sassPath, "/")
	}

	info, err := fs.Stat(h.fileSystem, sassPath)
	if err != nil || info.IsDir() {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	source, err := fs.ReadFile(h.fileSystem, sassPath)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	css, err := Compile(source, h.style)
	if err != nil {
		http.Error(w, "Compilation Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if r.Method != http.MethodHead {
		w.Write(css)
	}
}

// isSassPath reports whether path ends in a recognized Sass source suffix.
func isSassPath(path string) bool {
	return strings.HasSuffix(path, ".scss") || strings.HasSuffix(path, ".sass")
}
