package model

// TeamInfo identifies one side of a match.
type TeamInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

// MatchInfo is the lightweight match header used by listings. Event data
// stays out of it so listing the corpus never forces a full parse.
type MatchInfo struct {
	ID       string   `json:"id"`
	HomeTeam TeamInfo `json:"homeTeam"`
	AwayTeam TeamInfo `json:"awayTeam"`
	Date     string   `json:"date"`
	Stadium  string   `json:"stadium"`
}

// PassLink is one pass in the build-up to a goal.
type PassLink struct {
	PasserName   string   `json:"passerName"`
	ReceiverName string   `json:"receiverName"`
	Time         string   `json:"time"`
	TeamID       string   `json:"teamId"`
	Ball         Position `json:"ballPosition"`
}

// Goal is a scored shot with its build-up context. Player lists hold only
// the players involved in the move, not the full tracked formation.
type Goal struct {
	EventIndex    int              `json:"eventIndex"`
	Time          string           `json:"time"`
	Period        int              `json:"period"`
	ScorerName    string           `json:"scorerName"`
	ScoringTeamID string           `json:"scoringTeamId"`
	PassSequence  []PassLink       `json:"passSequence"`
	Ball          Position         `json:"ballPosition"`
	HomePlayers   []PlayerPosition `json:"homePlayers"`
	AwayPlayers   []PlayerPosition `json:"awayPlayers"`
	IsPenalty     bool             `json:"isPenalty"`
}
