package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/**
var staticFS embed.FS

// FS returns an http.FileSystem rooted at the embedded UI directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Unreachable unless the embed directive and directory name drift.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
