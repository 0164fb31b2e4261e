package sassgo

import (
	"io/fs"
	"net/http"

	"github.com/titpetric/sassgo/internal/strings"
)

// NewMiddleware creates an HTTP middleware that compiles .scss/.sass files to
// CSS on-the-fly. It intercepts requests to files with a Sass extension,
// compiles them with Compile, and returns the resulting CSS with the
// appropriate Content-Type header.
//
// Parameters:
//   - basePath: the URL path prefix to match (e.g., "/assets/css")
//   - fileSystem: the filesystem to read .scss/.sass files from (e.g., os.DirFS("./assets/css"))
//
// Example usage with chi:
//
//	chi.Use(sassgo.NewMiddleware("/assets/css", os.DirFS("./assets/css")))
//
// When a request to /assets/css/style.scss is made, it will:
// 1. Check if the request path matches basePath and ends in .scss/.sass
// 2. Read the file from the provided filesystem
// 3. Compile it from Sass to CSS
// 4. Return the compiled CSS with Content-Type: text/css
// 5. If the request isn't a GET/HEAD, is outside basePath, or isn't for a
// Sass source, pass to next handler; a Sass path whose file doesn't exist
// gets a 404 response and next is not called
func NewMiddleware(basePath string, fileSystem fs.FS) func(http.Handler) http.Handler {
	handler := NewHandler(fileSystem, basePath)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(r.URL.Path, basePath) {
				next.ServeHTTP(w, r)
				return
			}

			if !isSassPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}
