// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/okian/replay/internal/domain/model"
)

// MatchesHandler handles corpus listing and per-match detail requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleList handles GET /api/matches requests.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	matches, err := h.deps.Matches(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Matches []model.MatchInfo `json:"matches"`
	}{Matches: matches})
}

// HandleMatch handles GET /api/matches/{id}/goals and
// GET /api/matches/{id}/plays requests.
func (h *MatchesHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/matches/")
	matchID, resource, ok := strings.Cut(rest, "/")
	if !ok || matchID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	switch resource {
	case "goals":
		h.handleGoals(w, r, matchID)
	case "plays":
		h.handlePlays(w, r, matchID)
	default:
		writeError(w, http.StatusNotFound, "not_found", nil)
	}
}

// teamEnvelope repeats the match header on detail responses so clients can
// label sides without a second fetch.
type teamEnvelope struct {
	HomeTeam model.TeamInfo `json:"homeTeam"`
	AwayTeam model.TeamInfo `json:"awayTeam"`
}

type goalSummary struct {
	EventID    int            `json:"eventId"`
	Time       string         `json:"formattedTime"`
	Period     int            `json:"period"`
	TeamID     string         `json:"teamId"`
	TeamName   string         `json:"teamName"`
	PlayerName string         `json:"playerName"`
	Ball       model.Position `json:"ballPosition"`
	IsPenalty  bool           `json:"isPenalty"`
}

type goalSnapshot struct {
	HomePlayers []model.PlayerPosition `json:"homePlayers"`
	AwayPlayers []model.PlayerPosition `json:"awayPlayers"`
	Ball        model.Position         `json:"ball"`
}

type buildupEvent struct {
	EventType  string         `json:"eventType"`
	Label      string         `json:"label"`
	PlayerName string         `json:"playerName"`
	Time       string         `json:"formattedTime"`
	TeamID     string         `json:"teamId"`
	Ball       model.Position `json:"ballPosition"`
}

type goalView struct {
	Goal      goalSummary    `json:"goal"`
	Snapshot  goalSnapshot   `json:"snapshot"`
	Preceding []buildupEvent `json:"precedingEvents"`
}

func (h *MatchesHandler) handleGoals(w http.ResponseWriter, r *http.Request, matchID string) {
	info, err := h.deps.Metadata(r.Context(), matchID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	goals, err := h.deps.Goals(r.Context(), matchID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		preceding := make([]buildupEvent, 0, len(g.PassSequence))
		for _, p := range g.PassSequence {
			preceding = append(preceding, buildupEvent{
				EventType:  "pass",
				Label:      "Pass",
				PlayerName: p.PasserName,
				Time:       p.Time,
				TeamID:     p.TeamID,
				Ball:       p.Ball,
			})
		}
		views = append(views, goalView{
			Goal: goalSummary{
				EventID:    g.EventIndex,
				Time:       g.Time,
				Period:     g.Period,
				TeamID:     g.ScoringTeamID,
				TeamName:   scoringTeamName(info, g.ScoringTeamID),
				PlayerName: g.ScorerName,
				Ball:       g.Ball,
				IsPenalty:  g.IsPenalty,
			},
			Snapshot: goalSnapshot{
				HomePlayers: g.HomePlayers,
				AwayPlayers: g.AwayPlayers,
				Ball:        g.Ball,
			},
			Preceding: preceding,
		})
	}

	writeJSON(w, http.StatusOK, struct {
		MatchID string       `json:"matchId"`
		Match   teamEnvelope `json:"match"`
		Goals   []goalView   `json:"goals"`
	}{
		MatchID: matchID,
		Match:   teamEnvelope{HomeTeam: info.HomeTeam, AwayTeam: info.AwayTeam},
		Goals:   views,
	})
}

// scoringTeamName resolves the display name for the scoring side, falling
// back to the side label when the metadata carries no name.
func scoringTeamName(info model.MatchInfo, teamID string) string {
	if teamID == info.HomeTeam.ID {
		if info.HomeTeam.Name != "" {
			return info.HomeTeam.Name
		}
		return "Home"
	}
	if info.AwayTeam.Name != "" {
		return info.AwayTeam.Name
	}
	return "Away"
}

type playView struct {
	SequenceID int           `json:"sequenceId"`
	TeamID     string        `json:"teamId"`
	Setpiece   string        `json:"setpieceType"`
	Time       string        `json:"time"`
	Events     []model.Event `json:"events"`
}

func (h *MatchesHandler) handlePlays(w http.ResponseWriter, r *http.Request, matchID string) {
	info, err := h.deps.Metadata(r.Context(), matchID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	sequences, err := h.deps.Plays(r.Context(), matchID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	// The repository keeps first-appearance order for indexing; the display
	// view orders chains by id.
	views := make([]playView, 0, len(sequences))
	totalEvents := 0
	for _, seq := range sequences {
		views = append(views, playView{
			SequenceID: seq.SequenceID,
			TeamID:     seq.TeamID,
			Setpiece:   setpieceDisplay(seq),
			Time:       seq.Time,
			Events:     seq.Events,
		})
		totalEvents += len(seq.Events)
	}
	sort.SliceStable(views, func(a, b int) bool { return views[a].SequenceID < views[b].SequenceID })

	writeJSON(w, http.StatusOK, struct {
		MatchID        string       `json:"matchId"`
		Match          teamEnvelope `json:"match"`
		Plays          []playView   `json:"plays"`
		TotalEvents    int          `json:"totalEvents"`
		TotalSequences int          `json:"totalSequences"`
	}{
		MatchID:        matchID,
		Match:          teamEnvelope{HomeTeam: info.HomeTeam, AwayTeam: info.AwayTeam},
		Plays:          views,
		TotalEvents:    totalEvents,
		TotalSequences: len(views),
	})
}

// setpieceDisplay prefers the mapped label, then the raw code, then the
// open-play default.
func setpieceDisplay(seq model.Sequence) string {
	if seq.SetpieceLabel != "" {
		return seq.SetpieceLabel
	}
	if len(seq.Events) > 0 && seq.Events[0].SetpieceType != "" {
		return seq.Events[0].SetpieceType
	}
	return "Open Play"
}
