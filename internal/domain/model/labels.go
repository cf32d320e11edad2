package model

// Display labels for possession event type codes.
var eventLabels = map[string]string{
	TypePass:         "Pass",
	TypeShot:         "Shot",
	TypeCross:        "Cross",
	TypeClearance:    "Clearance",
	TypeChallenge:    "Challenge",
	TypeTouch:        "Touch",
	TypeBallCarry:    "Ball Carry",
	TypeInitialTouch: "Initial Touch",
	TypeRebound:      "Rebound",
}

// Display labels for setpiece type codes.
var setpieceLabels = map[string]string{
	"O": "Open Play",
	"T": "Throw-in",
	"C": "Corner",
	"K": "Kickoff",
	"P": "Penalty",
	"G": "Goal Kick",
	"F": "Free Kick",
}

// EventLabel returns the display label for an event type code. Unknown
// codes fall back to the code itself so nothing renders blank.
func EventLabel(code string) string {
	if label, ok := eventLabels[code]; ok {
		return label
	}
	return code
}

// SetpieceLabel returns the display label for a setpiece code, or empty
// when the code is unknown.
func SetpieceLabel(code string) string {
	return setpieceLabels[code]
}
