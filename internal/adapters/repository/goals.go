package repository

import (
	"strconv"

	"github.com/okian/replay/internal/domain/model"
)

// Build-up reconstruction bounds. The lookback is over raw feed events,
// the window over possession sequence numbers.
const (
	goalLookbackEvents = 20
	goalSequenceWindow = 3
	goalMaxPasses      = 5
	goalMaxSidePlayers = 6
)

// findGoals scans the raw feed for allowed scored shots and reconstructs
// the build-up behind each: the recent passes feeding the move and where
// the involved players stood. Disallowed goals carry nonEvent and are
// skipped; replays of the same strike are deduplicated by clock and
// shooter. Penalties skip build-up and show only the taker and keepers.
func findGoals(raws []rawEvent, roster map[string]string) []model.Goal {
	goals := make([]model.Goal, 0, 4)
	seen := make(map[string]struct{})

	for i, raw := range raws {
		poss := raw.Possession
		if poss.ShotOutcome != "G" || poss.NonEvent {
			continue
		}

		goalKey := raw.Game.FormattedClock + "_" + strconv.Itoa(poss.ShooterID)
		if _, dup := seen[goalKey]; dup {
			continue
		}
		seen[goalKey] = struct{}{}

		isPenalty := raw.Game.SetpieceType == "P" || poss.ShotType == "PK"

		passes := make([]model.PassLink, 0, goalMaxPasses)
		positions := make(map[int]model.PlayerPosition)
		var positionOrder []int

		if !isPenalty {
			start := i - goalLookbackEvents
			if start < 0 {
				start = 0
			}
			for j := start; j < i; j++ {
				prev := raws[j]
				if prev.Sequence < raw.Sequence-goalSequenceWindow || prev.Sequence > raw.Sequence {
					continue
				}
				if prev.Possession.Type != model.TypePass {
					continue
				}

				passerID := prev.Possession.PasserID
				passerName := prev.Possession.PasserName
				receiverID := prev.Possession.ReceiverID
				if receiverID == 0 {
					receiverID = prev.Possession.TargetID
				}
				receiverName := prev.Possession.ReceiverName
				if receiverName == "" {
					receiverName = prev.Possession.TargetName
				}

				if passerName != "" {
					passes = append(passes, model.PassLink{
						PasserName:   passerName,
						ReceiverName: receiverName,
						Time:         prev.Game.FormattedClock,
						TeamID:       string(prev.Game.TeamID),
						Ball:         ballAt(prev),
					})
				}

				recordInvolved(prev, passerID, passerName, positions, &positionOrder)
				recordInvolved(prev, receiverID, receiverName, positions, &positionOrder)
			}
		}

		if len(passes) > goalMaxPasses {
			passes = passes[len(passes)-goalMaxPasses:]
		}

		scorerID := poss.ShooterID
		scorerName := poss.ShooterName
		if scorerName == "" && scorerID != 0 {
			scorerName = rosterName(roster, scorerID)
			if scorerName == "" {
				scorerName = "Unknown"
			}
		}

		var home, away []model.PlayerPosition
		if isPenalty {
			if pos, isHome, ok := findTrackedPlayer(raw, scorerID); ok {
				taker := model.PlayerPosition{
					PlayerID:      scorerID,
					PlayerName:    scorerName,
					JerseyNum:     pos.JerseyNum,
					PositionGroup: "CF",
					X:             pos.X,
					Y:             pos.Y,
				}
				if isHome {
					home = append(home, taker)
				} else {
					away = append(away, taker)
				}
			}
			home = appendGoalkeeper(home, raw.HomePlayers, poss.KeeperID, poss.KeeperName)
			away = appendGoalkeeper(away, raw.AwayPlayers, poss.KeeperID, poss.KeeperName)
		} else {
			home = appendGoalkeeper(home, raw.HomePlayers, poss.KeeperID, poss.KeeperName)
			away = appendGoalkeeper(away, raw.AwayPlayers, poss.KeeperID, poss.KeeperName)

			for _, pid := range positionOrder {
				snap := positions[pid]
				if trackedInHome(raw, pid) {
					if len(home) < goalMaxSidePlayers {
						home = append(home, snap)
					}
				} else if len(away) < goalMaxSidePlayers {
					away = append(away, snap)
				}
			}

			if scorerID != 0 && !containsPlayer(home, scorerID) && !containsPlayer(away, scorerID) {
				if pos, isHome, ok := findTrackedPlayer(raw, scorerID); ok {
					scorer := model.PlayerPosition{
						PlayerID:      scorerID,
						PlayerName:    scorerName,
						JerseyNum:     pos.JerseyNum,
						PositionGroup: pos.PositionGroup,
						X:             pos.X,
						Y:             pos.Y,
					}
					if isHome {
						home = append(home, scorer)
					} else {
						away = append(away, scorer)
					}
				}
			}
		}

		goals = append(goals, model.Goal{
			EventIndex:    i,
			Time:          raw.Game.FormattedClock,
			Period:        periodOf(raw),
			ScorerName:    scorerName,
			ScoringTeamID: string(raw.Game.TeamID),
			PassSequence:  passes,
			Ball:          ballAt(raw),
			HomePlayers:   home,
			AwayPlayers:   away,
			IsPenalty:     isPenalty,
		})
	}
	return goals
}

// recordInvolved snapshots where a build-up participant stood at the
// moment of the pass. Later touches overwrite the spot but keep the order
// of first involvement.
func recordInvolved(raw rawEvent, id int, name string, positions map[int]model.PlayerPosition, order *[]int) {
	if id == 0 {
		return
	}
	pos, _, ok := findTrackedPlayer(raw, id)
	if !ok {
		return
	}
	if _, have := positions[id]; !have {
		*order = append(*order, id)
	}
	positions[id] = model.PlayerPosition{
		PlayerID:      id,
		PlayerName:    name,
		JerseyNum:     pos.JerseyNum,
		PositionGroup: pos.PositionGroup,
		X:             pos.X,
		Y:             pos.Y,
	}
}

// findTrackedPlayer locates a player in the event's tracked formations,
// home side first. The second return reports which side held the player.
func findTrackedPlayer(raw rawEvent, id int) (model.PlayerPosition, bool, bool) {
	for _, p := range raw.HomePlayers {
		if p.PlayerID == id {
			return p, true, true
		}
	}
	for _, p := range raw.AwayPlayers {
		if p.PlayerID == id {
			return p, false, true
		}
	}
	return model.PlayerPosition{}, false, false
}

func trackedInHome(raw rawEvent, id int) bool {
	for _, p := range raw.HomePlayers {
		if p.PlayerID == id {
			return true
		}
	}
	return false
}

func containsPlayer(players []model.PlayerPosition, id int) bool {
	for _, p := range players {
		if p.PlayerID == id {
			return true
		}
	}
	return false
}

// appendGoalkeeper adds the side's keeper when one is tracked: the first
// player in the GK position group, or the one matching the shot's keeper
// id when the group is unlabeled.
func appendGoalkeeper(side, players []model.PlayerPosition, keeperID int, keeperName string) []model.PlayerPosition {
	for _, p := range players {
		if p.PositionGroup == "GK" || (keeperID != 0 && p.PlayerID == keeperID) {
			return append(side, model.PlayerPosition{
				PlayerID:      p.PlayerID,
				PlayerName:    keeperName,
				JerseyNum:     p.JerseyNum,
				PositionGroup: "GK",
				X:             p.X,
				Y:             p.Y,
			})
		}
	}
	return side
}
