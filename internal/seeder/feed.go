package seeder

import (
	"github.com/okian/replay/internal/domain/model"
)

// Write-side mirrors of the raw feed shape the repository ingests. Field
// names match the feed, not the normalized model. Team and player ids are
// serialized as numbers; the reader accepts both forms.

type teamRecord struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type stadiumRecord struct {
	Name string `json:"name"`
}

type metadataRecord struct {
	HomeTeam teamRecord    `json:"homeTeam"`
	AwayTeam teamRecord    `json:"awayTeam"`
	Date     string        `json:"date"`
	Stadium  stadiumRecord `json:"stadium"`
}

type rosterPlayer struct {
	ID       int    `json:"id"`
	Nickname string `json:"nickname"`
}

type rosterEntry struct {
	Player rosterPlayer `json:"player"`
}

type gameHeader struct {
	Clock        string `json:"startFormattedGameClock"`
	Period       int    `json:"period"`
	SetpieceType string `json:"setpieceType,omitempty"`
	TeamID       int    `json:"teamId"`
	TeamName     string `json:"teamName"`
	PlayerName   string `json:"playerName,omitempty"`
	PlayerID     int    `json:"playerId,omitempty"`
}

// possessionBlock carries the per-type actor fields of the feed. Only the
// fields of the event's own type are filled; the rest stay omitted.
type possessionBlock struct {
	Type     string `json:"possessionEventType"`
	NonEvent bool   `json:"nonEvent"`

	PasserName   string `json:"passerPlayerName,omitempty"`
	PasserID     int    `json:"passerPlayerId,omitempty"`
	ReceiverName string `json:"receiverPlayerName,omitempty"`
	ReceiverID   int    `json:"receiverPlayerId,omitempty"`
	TargetName   string `json:"targetPlayerName,omitempty"`
	TargetID     int    `json:"targetPlayerId,omitempty"`

	ShooterName string `json:"shooterPlayerName,omitempty"`
	ShooterID   int    `json:"shooterPlayerId,omitempty"`
	KeeperName  string `json:"keeperPlayerName,omitempty"`
	KeeperID    int    `json:"keeperPlayerId,omitempty"`

	CrosserName string `json:"crosserPlayerName,omitempty"`
	CrosserID   int    `json:"crosserPlayerId,omitempty"`
	ClearerName string `json:"clearerPlayerName,omitempty"`
	ClearerID   int    `json:"clearerPlayerId,omitempty"`

	BallCarrierName string `json:"ballCarrierPlayerName,omitempty"`
	BallCarrierID   int    `json:"ballCarrierPlayerId,omitempty"`
	TouchName       string `json:"touchPlayerName,omitempty"`
	TouchID         int    `json:"touchPlayerId,omitempty"`

	PassOutcome      string `json:"passOutcomeType,omitempty"`
	ShotOutcome      string `json:"shotOutcomeType,omitempty"`
	CrossOutcome     string `json:"crossOutcomeType,omitempty"`
	ClearanceOutcome string `json:"clearanceOutcomeType,omitempty"`

	PassType     string `json:"passType,omitempty"`
	ShotType     string `json:"shotType,omitempty"`
	PressureType string `json:"pressureType,omitempty"`
}

type eventRecord struct {
	GameEventID int64                  `json:"gameEventId"`
	Sequence    int                    `json:"sequence"`
	Game        gameHeader             `json:"gameEvents"`
	Possession  possessionBlock        `json:"possessionEvents"`
	Ball        []model.Position       `json:"ball"`
	HomePlayers []model.PlayerPosition `json:"homePlayers"`
	AwayPlayers []model.PlayerPosition `json:"awayPlayers"`
}

// Match is one generated match with the content of its three corpus files.
type Match struct {
	ID       string
	Metadata metadataRecord
	Events   []eventRecord
	Rosters  []rosterEntry
}
