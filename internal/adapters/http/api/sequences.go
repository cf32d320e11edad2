// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/replay/internal/adapters/search"
	"github.com/okian/replay/internal/domain/model"
)

// SequenceSearchHandler handles possession-chain similarity requests.
type SequenceSearchHandler struct {
	deps SearchDependencies
}

// NewSequenceSearchHandler creates a new sequence search handler.
func NewSequenceSearchHandler(deps SearchDependencies) *SequenceSearchHandler {
	return &SequenceSearchHandler{deps: deps}
}

// sequenceSearchRequest mirrors the OpenAPI schema for
// POST /api/search/sequence. The query is either an inline event list or a
// reference to a corpus chain; a referenced chain excludes itself.
type sequenceSearchRequest struct {
	MatchID    string        `json:"matchId"`
	SequenceID *int          `json:"sequenceId"`
	Events     []model.Event `json:"events"`
	TopN       int           `json:"topN"`
	Method     string        `json:"method"`
}

func (req sequenceSearchRequest) key() (model.Key, bool) {
	if req.MatchID == "" || req.SequenceID == nil {
		return model.Key{}, false
	}
	return model.Key{MatchID: req.MatchID, SequenceID: *req.SequenceID}, true
}

type sequenceQueryEcho struct {
	Setpiece   string `json:"setpieceType"`
	EventCount int    `json:"eventCount"`
	Time       string `json:"time"`
	Method     string `json:"method"`
}

// HandleSearch handles POST /api/search/sequence requests.
func (h *SequenceSearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	var req sequenceSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	method := req.Method
	if method == "" {
		method = search.MethodHybrid
	}
	switch method {
	case search.MethodHybrid, search.MethodAligned, search.MethodLexical:
	default:
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("unknown method %q", req.Method))
		return
	}

	var (
		query   []model.Event
		exclude *model.Key
	)
	key, hasKey := req.key()
	switch {
	case len(req.Events) > 0:
		query = req.Events
		if hasKey {
			exclude = &key
		}
	case hasKey:
		seq, err := h.deps.Sequence(r.Context(), key)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		query = seq.Events
		exclude = &key
	default:
		writeError(w, http.StatusBadRequest, "bad_request",
			errors.New("events or matchId/sequenceId required"))
		return
	}

	var (
		results any
		count   int
		err     error
	)
	switch method {
	case search.MethodAligned:
		var rs []search.AlignedResult
		rs, err = h.deps.SimilarSequencesAligned(r.Context(), query, exclude, req.TopN)
		results, count = rs, len(rs)
	case search.MethodLexical:
		var rs []search.SequenceResult
		rs, err = h.deps.SimilarSequencesLexical(r.Context(), query, exclude, req.TopN)
		results, count = rs, len(rs)
	default:
		var rs []search.HybridResult
		rs, err = h.deps.SimilarSequencesHybrid(r.Context(), query, exclude, req.TopN)
		results, count = rs, len(rs)
	}
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	echo := sequenceQueryEcho{EventCount: len(query), Method: method}
	if len(query) > 0 {
		echo.Setpiece = query[0].SetpieceLabel
		echo.Time = query[0].Time
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   echo,
		Results: results,
		Count:   count,
	})
}
