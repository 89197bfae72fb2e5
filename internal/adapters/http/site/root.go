// Package site serves the map page and the files it loads.
package site

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// IndexFile is served for the root path.
const IndexFile = "index.html"

// Handler serves embedded page assets first and then files under a static
// directory on disk (the data GeoJSON, chart SVGs, icon backgrounds).
type Handler struct {
	embedded fs.FS
	disk     fs.FS
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithDiskFS replaces the on-disk static directory.
func WithDiskFS(fsys fs.FS) Option {
	return func(h *Handler) {
		h.disk = fsys
	}
}

// NewHandler creates a handler over staticDir. An empty staticDir serves
// the embedded page only.
func NewHandler(staticDir string, opts ...Option) *Handler {
	h := &Handler{embedded: pageFS}
	if staticDir != "" {
		h.disk = os.DirFS(staticDir)
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the page routes to mux. Every GET path not claimed by a
// more specific route falls through to the handler.
func Register(_ context.Context, mux *http.ServeMux, staticDir string) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", NewHandler(staticDir))
}

// ServeHTTP handles GET / and GET /<asset> requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = IndexFile
	}
	for _, fsys := range []fs.FS{h.embedded, h.disk} {
		if isFile(fsys, name) {
			http.ServeFileFS(w, r, fsys, name)
			return
		}
	}
	http.NotFound(w, r)
}

func isFile(fsys fs.FS, name string) bool {
	if fsys == nil || !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
