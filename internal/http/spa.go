package http

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

const indexFile = "index.html"

// StaticFS returns dir as an fs.FS when it is a directory holding index.html.
func StaticFS(dir string) (fs.FS, bool) {
	if dir == "" {
		return nil, false
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false
	}
	fsys := os.DirFS(dir)
	if _, err := fs.Stat(fsys, indexFile); err != nil {
		return nil, false
	}
	return fsys, true
}

// spaHandler serves existing files and falls back to index.html so client-side
// routes survive a reload.
type spaHandler struct {
	fsys  fs.FS
	files http.Handler
}

// NewSPAHandler returns a handler serving the single-page dashboard from fsys.
func NewSPAHandler(fsys fs.FS) http.Handler {
	return &spaHandler{fsys: fsys, files: http.FileServerFS(fsys)}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" {
		if info, err := fs.Stat(h.fsys, name); err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}
	http.ServeFileFS(w, r, h.fsys, indexFile)
}
