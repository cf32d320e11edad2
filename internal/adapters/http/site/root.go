// Package site serves the embedded browser UI: a match list, possession
// chain viewer, and similarity search front end backed by the JSON API.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded UI to mux at the root path. Paths not
// claimed by more specific routes fall through to the static file server.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", http.FileServer(FS()))
}
