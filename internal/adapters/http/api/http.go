// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/replay/internal/adapters/index"
	"github.com/okian/replay/internal/adapters/repository"
	"github.com/okian/replay/internal/adapters/search"
	"github.com/okian/replay/internal/domain/model"
)

// MatchDependencies covers the corpus read operations.
type MatchDependencies interface {
	Matches(ctx context.Context) ([]model.MatchInfo, error)
	Metadata(ctx context.Context, matchID string) (model.MatchInfo, error)
	Goals(ctx context.Context, matchID string) ([]model.Goal, error)
	Plays(ctx context.Context, matchID string) ([]model.Sequence, error)
}

// SearchDependencies covers snapshot lookups and the similarity operations.
type SearchDependencies interface {
	Sequence(ctx context.Context, key model.Key) (model.Sequence, error)
	Event(ctx context.Context, key model.EventKey) (model.Event, error)

	SimilarEvents(ctx context.Context, query model.Event, exclude *model.EventKey, topN int) ([]search.EventResult, error)
	SimilarSequencesAligned(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]search.AlignedResult, error)
	SimilarSequencesLexical(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]search.SequenceResult, error)
	SimilarSequencesHybrid(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]search.HybridResult, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	SearchDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	matchesHandler        *MatchesHandler
	eventSearchHandler    *EventSearchHandler
	sequenceSearchHandler *SequenceSearchHandler
	statsHandler          *StatsHandler
	healthHandler         *HealthHandler
	dashboardHandler      *dashboardHandler
	adminHandler          *AdminHandler
}

// NewServer creates a new API server with all handlers. Dependencies that
// also implement Reindexer get the reindex route.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	s := &Server{
		matchesHandler:        NewMatchesHandler(deps),
		eventSearchHandler:    NewEventSearchHandler(deps),
		sequenceSearchHandler: NewSequenceSearchHandler(deps),
		statsHandler:          NewStatsHandler(statsProvider),
		healthHandler:         NewHealthHandler(),
		dashboardHandler:      newDashboardHandler(),
	}
	if reindexer, ok := deps.(Reindexer); ok {
		s.adminHandler = NewAdminHandler(reindexer)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/matches", MetricsMiddleware(s.matchesHandler.HandleList, "matches"))
	mux.HandleFunc("/api/matches/", MetricsMiddleware(s.matchesHandler.HandleMatch, "match_detail"))
	mux.HandleFunc("/api/search/event", MetricsMiddleware(s.eventSearchHandler.HandleSearch, "search_event"))
	mux.HandleFunc("/api/search/sequence", MetricsMiddleware(s.sequenceSearchHandler.HandleSearch, "search_sequence"))
	if s.adminHandler != nil {
		mux.HandleFunc("/api/reindex", MetricsMiddleware(s.adminHandler.HandleReindex, "reindex"))
	}
}

// searchResponse is the common envelope for both search endpoints.
type searchResponse struct {
	Query   any `json:"query"`
	Results any `json:"results"`
	Count   int `json:"count"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeUpstreamError translates sentinel errors from the corpus layers into
// HTTP statuses; everything else is a 500.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrMatchNotFound),
		errors.Is(err, index.ErrSequenceNotFound),
		errors.Is(err, index.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
