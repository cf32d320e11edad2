// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/replay/internal/domain/model"
)

// EventSearchHandler handles single-event similarity requests.
type EventSearchHandler struct {
	deps SearchDependencies
}

// NewEventSearchHandler creates a new event search handler.
func NewEventSearchHandler(deps SearchDependencies) *EventSearchHandler {
	return &EventSearchHandler{deps: deps}
}

// eventSearchRequest mirrors the OpenAPI schema for POST /api/search/event.
// The query is either an inline event or a reference to a corpus event; a
// referenced event excludes itself from the results.
type eventSearchRequest struct {
	MatchID    string       `json:"matchId"`
	SequenceID *int         `json:"sequenceId"`
	EventIndex *int         `json:"eventIndex"`
	Event      *model.Event `json:"event"`
	TopN       int          `json:"topN"`
}

func (req eventSearchRequest) key() (model.EventKey, bool) {
	if req.MatchID == "" || req.SequenceID == nil || req.EventIndex == nil {
		return model.EventKey{}, false
	}
	return model.EventKey{
		Key:        model.Key{MatchID: req.MatchID, SequenceID: *req.SequenceID},
		EventIndex: *req.EventIndex,
	}, true
}

type eventQueryEcho struct {
	EventType  string `json:"eventType"`
	PlayerName string `json:"playerName"`
	Time       string `json:"time"`
}

// HandleSearch handles POST /api/search/event requests.
func (h *EventSearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	var req eventSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var (
		query   model.Event
		exclude *model.EventKey
	)
	key, hasKey := req.key()
	switch {
	case req.Event != nil:
		query = *req.Event
		if hasKey {
			exclude = &key
		}
	case hasKey:
		ev, err := h.deps.Event(r.Context(), key)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		query = ev
		exclude = &key
	default:
		writeError(w, http.StatusBadRequest, "bad_request",
			errors.New("event or matchId/sequenceId/eventIndex required"))
		return
	}

	results, err := h.deps.SimilarEvents(r.Context(), query, exclude, req.TopN)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query: eventQueryEcho{
			EventType:  eventDisplayType(query),
			PlayerName: query.PlayerName,
			Time:       query.Time,
		},
		Results: results,
		Count:   len(results),
	})
}

func eventDisplayType(ev model.Event) string {
	if ev.Label != "" {
		return ev.Label
	}
	return ev.Type
}
