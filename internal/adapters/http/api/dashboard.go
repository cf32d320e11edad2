// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// dashboardFS exposes a sub-filesystem rooted at static/ so handlers can
// reference assets by bare name.
var dashboardFS fs.FS = func() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}()

// dashboardHandler serves the embedded metrics dashboard: a single page
// that polls /healthz and charts search latency, index size, and scan
// pool load in the browser.
type dashboardHandler struct{}

func newDashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, dashboardFS, "dashboard.html")
}
