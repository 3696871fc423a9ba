// Package static provides the embedded chat UI.
package static

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
)

//go:embed ui
var uiFS embed.FS

// Handler returns an http.Handler that serves the embedded chat UI.
// The assets are embedded at compile time, so the sub-filesystem lookup
// cannot fail at runtime.
func Handler() http.Handler {
	sub, err := fs.Sub(uiFS, "ui")
	if err != nil {
		panic(fmt.Sprintf("static: failed to create sub-filesystem: %v", err))
	}
	return http.FileServer(http.FS(sub))
}
