package site

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var staticFS embed.FS

// pageFS exposes the embedded page assets rooted at static/.
var pageFS fs.FS = func() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}()
