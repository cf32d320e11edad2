package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/replay/internal/domain/model"
)

// flexString decodes JSON values that feeds serialize inconsistently as
// string, number, or null. Null becomes the empty string.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return fmt.Errorf("decode string: %w", err)
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode number: %w", err)
	}
	*s = flexString(n.String())
	return nil
}

type rawTeam struct {
	ID        flexString `json:"id"`
	Name      string     `json:"name"`
	ShortName string     `json:"shortName"`
}

type rawStadium struct {
	Name string `json:"name"`
}

type rawMetadata struct {
	HomeTeam *rawTeam    `json:"homeTeam"`
	AwayTeam *rawTeam    `json:"awayTeam"`
	Date     string      `json:"date"`
	Stadium  *rawStadium `json:"stadium"`
}

type rawRosterEntry struct {
	Player struct {
		ID       flexString `json:"id"`
		Nickname string     `json:"nickname"`
	} `json:"player"`
}

type rawGameEvents struct {
	FormattedClock string     `json:"startFormattedGameClock"`
	Period         int        `json:"period"`
	SetpieceType   string     `json:"setpieceType"`
	TeamID         flexString `json:"teamId"`
	TeamName       string     `json:"teamName"`
	PlayerName     string     `json:"playerName"`
	PlayerID       int        `json:"playerId"`
}

type rawPossession struct {
	Type     string `json:"possessionEventType"`
	NonEvent bool   `json:"nonEvent"`

	PasserName   string `json:"passerPlayerName"`
	PasserID     int    `json:"passerPlayerId"`
	ReceiverName string `json:"receiverPlayerName"`
	ReceiverID   int    `json:"receiverPlayerId"`
	TargetName   string `json:"targetPlayerName"`
	TargetID     int    `json:"targetPlayerId"`

	ShooterName string `json:"shooterPlayerName"`
	ShooterID   int    `json:"shooterPlayerId"`
	KeeperName  string `json:"keeperPlayerName"`
	KeeperID    int    `json:"keeperPlayerId"`

	CrosserName string `json:"crosserPlayerName"`
	CrosserID   int    `json:"crosserPlayerId"`
	ClearerName string `json:"clearerPlayerName"`
	ClearerID   int    `json:"clearerPlayerId"`

	HomeDuelName string `json:"homeDuelPlayerName"`
	HomeDuelID   int    `json:"homeDuelPlayerId"`
	AwayDuelName string `json:"awayDuelPlayerName"`
	AwayDuelID   int    `json:"awayDuelPlayerId"`

	TouchName       string `json:"touchPlayerName"`
	TouchID         int    `json:"touchPlayerId"`
	BallCarrierName string `json:"ballCarrierPlayerName"`
	BallCarrierID   int    `json:"ballCarrierPlayerId"`
	RebounderName   string `json:"rebounderPlayerName"`
	RebounderID     int    `json:"rebounderPlayerId"`

	PassOutcome      string `json:"passOutcomeType"`
	ShotOutcome      string `json:"shotOutcomeType"`
	CrossOutcome     string `json:"crossOutcomeType"`
	ClearanceOutcome string `json:"clearanceOutcomeType"`
	ChallengeOutcome string `json:"challengeOutcomeType"`

	PassType     string `json:"passType"`
	ShotType     string `json:"shotType"`
	PressureType string `json:"pressureType"`
}

type rawEvent struct {
	GameEventID int64                  `json:"gameEventId"`
	Sequence    int                    `json:"sequence"`
	Game        rawGameEvents          `json:"gameEvents"`
	Possession  rawPossession          `json:"possessionEvents"`
	Ball        []model.Position       `json:"ball"`
	HomePlayers []model.PlayerPosition `json:"homePlayers"`
	AwayPlayers []model.PlayerPosition `json:"awayPlayers"`
}

// ballAt returns the first tracked ball frame of the event, or the zero
// position when the feed carried none.
func ballAt(raw rawEvent) model.Position {
	if len(raw.Ball) > 0 {
		return raw.Ball[0]
	}
	return model.Position{}
}

// decodeMetadata accepts both shapes the feed uses: a bare metadata object
// and a single-element array wrapping one.
func decodeMetadata(data []byte) (rawMetadata, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []rawMetadata
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return rawMetadata{}, fmt.Errorf("decode metadata list: %w", err)
		}
		if len(list) == 0 {
			return rawMetadata{}, nil
		}
		return list[0], nil
	}
	var meta rawMetadata
	if err := json.Unmarshal(trimmed, &meta); err != nil {
		return rawMetadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	return meta, nil
}

// decodeRoster builds the player id to display name map. Roster files key
// players by string ids while event files carry numeric ids, so lookups go
// through the string form.
func decodeRoster(data []byte) (map[string]string, error) {
	var entries []rawRosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	roster := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Player.ID == "" {
			continue
		}
		roster[string(e.Player.ID)] = e.Player.Nickname
	}
	return roster, nil
}

func teamInfo(team *rawTeam) model.TeamInfo {
	if team == nil {
		return model.TeamInfo{}
	}
	return model.TeamInfo{
		ID:        string(team.ID),
		Name:      team.Name,
		ShortName: team.ShortName,
	}
}

func matchInfo(id string, meta rawMetadata) model.MatchInfo {
	info := model.MatchInfo{
		ID:       id,
		HomeTeam: teamInfo(meta.HomeTeam),
		AwayTeam: teamInfo(meta.AwayTeam),
		Date:     meta.Date,
	}
	if meta.Stadium != nil {
		info.Stadium = meta.Stadium.Name
	}
	return info
}
