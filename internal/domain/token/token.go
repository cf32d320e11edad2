// Package token renders possession events and sequences as space-joined
// token strings for lexical indexing. Token shapes and thresholds are fixed;
// changing them silently re-weights every fitted vocabulary.
package token

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/replay/internal/domain/model"
)

// nearBallRadius bounds which players contribute zone and pressure tokens.
const nearBallRadius = 15.0

// Pressure bucket thresholds over the near-ball player count.
const (
	pressureLowMax    = 2
	pressureMediumMax = 4
)

// Sequence length bucket thresholds.
const (
	lengthShortMax  = 3
	lengthMediumMax = 8
)

// Ball progression thresholds in x-units.
const (
	progressionStrong = 20.0
	progressionSoft   = 5.0
)

// passDirectionThreshold is the x-displacement beyond which a pass counts
// as forward or backward.
const passDirectionThreshold = 10.0

// passCountCap caps the passes_<n> token so long chains share a term.
const passCountCap = 10

// PitchZone maps a pitch coordinate to its zone token, the cross product of
// seven x bands and five y bands on the centered 105x68 pitch.
func PitchZone(x, y float64) string {
	var xb string
	switch {
	case x < -40:
		xb = "own_box"
	case x < -25:
		xb = "def_deep"
	case x < -10:
		xb = "def"
	case x < 10:
		xb = "mid"
	case x < 25:
		xb = "att"
	case x < 40:
		xb = "att_deep"
	default:
		xb = "opp_box"
	}

	var yb string
	switch {
	case y < -20:
		yb = "left_wide"
	case y < -7:
		yb = "left"
	case y < 7:
		yb = "center"
	case y < 20:
		yb = "right"
	default:
		yb = "right_wide"
	}

	return xb + "_" + yb
}

// Event renders a single event. Discriminative parts (type, ball zone, shot
// outcome, goal) repeat to weight them in the downstream term frequencies.
func Event(ev model.Event) string {
	var parts []string

	typeName := labelOrCode(ev)
	if typeName != "" {
		t := "type_" + typeName
		parts = append(parts, t, t)
	}

	if sp := setpieceName(ev); sp != "" {
		parts = append(parts, "setpiece_"+strings.ReplaceAll(sp, " ", "_"))
	}

	if ev.Outcome != "" {
		parts = append(parts, "outcome_"+ev.Outcome)
	}

	zone := "ballzone_" + PitchZone(ev.Ball.X, ev.Ball.Y)
	parts = append(parts, zone, zone)

	if typeName == "Shot" || typeName == model.TypeShot {
		if ev.Outcome != "" {
			o := "shot_outcome_" + ev.Outcome
			parts = append(parts, o, o, o)
		}
		if ev.IsGoal {
			parts = append(parts, "is_goal", "is_goal", "is_goal")
		}
	}

	if typeName == "Pass" || typeName == model.TypePass {
		if ev.PassType != "" {
			parts = append(parts, "passtype_"+ev.PassType)
		}
		parts = appendPassTarget(parts, ev)
	}

	nearHome := nearPositions(ev.HomePlayers, ev.Ball)
	nearAway := nearPositions(ev.AwayPlayers, ev.Ball)
	parts = appendZones(parts, "near_home_", nearHome)
	parts = appendZones(parts, "near_away_", nearAway)

	switch totalNear := len(nearHome) + len(nearAway); {
	case totalNear <= pressureLowMax:
		parts = append(parts, "pressure_low")
	case totalNear <= pressureMediumMax:
		parts = append(parts, "pressure_medium")
	default:
		parts = append(parts, "pressure_high")
	}

	return strings.Join(parts, " ")
}

// Sequence renders a whole possession chain.
func Sequence(events []model.Event) string {
	if len(events) == 0 {
		return ""
	}

	var parts []string

	for _, ev := range events {
		if typeName := labelOrCode(ev); typeName != "" {
			parts = append(parts, "type_"+typeName)
		}
	}

	if sp := setpieceName(events[0]); sp != "" {
		t := "setpiece_" + strings.ReplaceAll(sp, " ", "_")
		parts = append(parts, t, t)
	}

	parts = append(parts, "length_"+lengthCategory(len(events)))

	start := events[0].Ball
	end := events[len(events)-1].Ball
	parts = append(parts, "start_"+PitchZone(start.X, start.Y))
	parts = append(parts, "end_"+PitchZone(end.X, end.Y))

	switch diff := end.X - start.X; {
	case diff > progressionStrong:
		parts = append(parts, "progression_forward_strong")
	case diff > progressionSoft:
		parts = append(parts, "progression_forward")
	case diff < -progressionStrong:
		parts = append(parts, "progression_backward_strong")
	case diff < -progressionSoft:
		parts = append(parts, "progression_backward")
	default:
		parts = append(parts, "progression_lateral")
	}

	passCount := 0
	hasShot := false
	hasGoal := false
	for _, ev := range events {
		if ev.Type == model.TypePass || ev.Label == "Pass" {
			passCount++
		}
		if ev.Type == model.TypeShot || ev.Label == "Shot" {
			hasShot = true
		}
		if ev.IsGoal {
			hasGoal = true
		}
	}

	if passCount > 0 {
		if passCount > passCountCap {
			passCount = passCountCap
		}
		parts = append(parts, fmt.Sprintf("passes_%d", passCount))
	}
	if hasShot {
		parts = append(parts, "has_shot", "has_shot")
	}
	if hasGoal {
		parts = append(parts, "has_goal", "has_goal", "has_goal")
	}

	return strings.Join(parts, " ")
}

func labelOrCode(ev model.Event) string {
	if ev.Label != "" {
		return ev.Label
	}
	return model.EventLabel(ev.Type)
}

func setpieceName(ev model.Event) string {
	if ev.SetpieceLabel != "" {
		return ev.SetpieceLabel
	}
	return model.SetpieceLabel(ev.SetpieceType)
}

func lengthCategory(n int) string {
	switch {
	case n <= lengthShortMax:
		return "short"
	case n <= lengthMediumMax:
		return "medium"
	default:
		return "long"
	}
}

// appendPassTarget adds the receiver zone and direction tokens when the
// secondary player resolves to a tracked position, home side searched first.
func appendPassTarget(parts []string, ev model.Event) []string {
	if ev.SecondaryPlayerName == "" {
		return parts
	}

	recv, ok := findPlayer(ev.HomePlayers, ev.SecondaryPlayerID)
	if !ok {
		recv, ok = findPlayer(ev.AwayPlayers, ev.SecondaryPlayerID)
	}
	if !ok {
		return parts
	}

	parts = append(parts, "pass_to_"+PitchZone(recv.X, recv.Y))
	if recv.X > ev.Ball.X+passDirectionThreshold {
		parts = append(parts, "pass_forward")
	} else if recv.X < ev.Ball.X-passDirectionThreshold {
		parts = append(parts, "pass_backward")
	}
	return parts
}

func findPlayer(players []model.PlayerPosition, id int) (model.PlayerPosition, bool) {
	for _, p := range players {
		if p.PlayerID == id {
			return p, true
		}
	}
	return model.PlayerPosition{}, false
}

func nearPositions(players []model.PlayerPosition, ball model.Position) []model.PlayerPosition {
	var near []model.PlayerPosition
	for _, p := range players {
		pos := model.Position{X: p.X, Y: p.Y}
		if pos.DistanceTo(ball) <= nearBallRadius {
			near = append(near, p)
		}
	}
	return near
}

// appendZones adds one prefixed token per distinct occupied zone, sorted for
// deterministic output.
func appendZones(parts []string, prefix string, players []model.PlayerPosition) []string {
	if len(players) == 0 {
		return parts
	}

	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		seen[PitchZone(p.X, p.Y)] = struct{}{}
	}

	zones := make([]string, 0, len(seen))
	for z := range seen {
		zones = append(zones, z)
	}
	sort.Strings(zones)

	for _, z := range zones {
		parts = append(parts, prefix+z)
	}
	return parts
}
