package repository

import (
	"strconv"

	"github.com/okian/replay/internal/domain/model"
)

// normalizeEvents flattens the raw feed of one match into model events.
// Frames without a possession type and disallowed events are dropped.
// Index keeps the position in the raw feed so goals and plays agree on
// event addressing.
func normalizeEvents(raws []rawEvent, roster map[string]string) []model.Event {
	events := make([]model.Event, 0, len(raws))
	for i, raw := range raws {
		poss := raw.Possession
		if poss.Type == "" || poss.NonEvent {
			continue
		}

		name, id := primaryPlayer(raw)
		if name == "" && id != 0 {
			name = rosterName(roster, id)
			if name == "" {
				name = "Unknown"
			}
		}

		secName, secID := secondaryPlayer(poss)
		if secName == "" && secID != 0 {
			secName = rosterName(roster, secID)
		}

		outcome, isGoal := outcomeFor(poss)

		ev := model.Event{
			Index:               i,
			EventID:             raw.GameEventID,
			SequenceID:          raw.Sequence,
			Time:                raw.Game.FormattedClock,
			Period:              periodOf(raw),
			Type:                poss.Type,
			Label:               model.EventLabel(poss.Type),
			SetpieceType:        raw.Game.SetpieceType,
			SetpieceLabel:       model.SetpieceLabel(raw.Game.SetpieceType),
			TeamID:              string(raw.Game.TeamID),
			TeamName:            raw.Game.TeamName,
			PlayerID:            id,
			PlayerName:          name,
			SecondaryPlayerID:   secID,
			SecondaryPlayerName: secName,
			KeyPlayerIDs:        keyPlayerIDs(poss, id, secID),
			Outcome:             outcome,
			IsGoal:              isGoal,
			Ball:                ballAt(raw),
			HomePlayers:         raw.HomePlayers,
			AwayPlayers:         raw.AwayPlayers,
			PassType:            poss.PassType,
			ShotType:            poss.ShotType,
			PressureType:        poss.PressureType,
		}
		if poss.Type == model.TypeShot {
			ev.AssisterID = poss.PasserID
			ev.AssisterName = poss.PasserName
			ev.KeeperName = poss.KeeperName
		}
		events = append(events, ev)
	}
	return events
}

// groupSequences splits a match's flat event list into possession chains.
// Chains keep the order in which they first appear in the feed, and the
// chain header comes from its first event.
func groupSequences(matchID string, events []model.Event) []model.Sequence {
	groups := make(map[int]*model.Sequence)
	order := make([]int, 0, len(events)/4+1)
	for _, ev := range events {
		seq, ok := groups[ev.SequenceID]
		if !ok {
			seq = &model.Sequence{
				MatchID:       matchID,
				SequenceID:    ev.SequenceID,
				TeamID:        ev.TeamID,
				Time:          ev.Time,
				SetpieceLabel: ev.SetpieceLabel,
			}
			groups[ev.SequenceID] = seq
			order = append(order, ev.SequenceID)
		}
		seq.Events = append(seq.Events, ev)
	}

	sequences := make([]model.Sequence, 0, len(order))
	for _, id := range order {
		sequences = append(sequences, *groups[id])
	}
	return sequences
}

// primaryPlayer resolves the player a possession event is about. Each
// event type records its actor under a different field; duels show both
// players joined into one display name.
func primaryPlayer(raw rawEvent) (string, int) {
	poss := raw.Possession
	switch poss.Type {
	case model.TypePass:
		return poss.PasserName, poss.PasserID
	case model.TypeShot:
		return poss.ShooterName, poss.ShooterID
	case model.TypeCross:
		return poss.CrosserName, poss.CrosserID
	case model.TypeClearance:
		return poss.ClearerName, poss.ClearerID
	case model.TypeChallenge:
		var name string
		switch {
		case poss.HomeDuelName != "" && poss.AwayDuelName != "":
			name = poss.HomeDuelName + " vs " + poss.AwayDuelName
		case poss.HomeDuelName != "":
			name = poss.HomeDuelName
		default:
			name = poss.AwayDuelName
		}
		id := poss.HomeDuelID
		if id == 0 {
			id = poss.AwayDuelID
		}
		return name, id
	case model.TypeTouch:
		return poss.TouchName, poss.TouchID
	case model.TypeBallCarry:
		return poss.BallCarrierName, poss.BallCarrierID
	case model.TypeRebound:
		return poss.RebounderName, poss.RebounderID
	}
	return raw.Game.PlayerName, raw.Game.PlayerID
}

// secondaryPlayer resolves the other end of an event: the receiver or
// intended target of a pass or cross, or the keeper facing a shot.
func secondaryPlayer(poss rawPossession) (string, int) {
	switch poss.Type {
	case model.TypePass:
		name := poss.ReceiverName
		if name == "" {
			name = poss.TargetName
		}
		id := poss.ReceiverID
		if id == 0 {
			id = poss.TargetID
		}
		return name, id
	case model.TypeCross:
		return poss.TargetName, poss.TargetID
	case model.TypeShot:
		return "", poss.KeeperID
	}
	return "", 0
}

func keyPlayerIDs(poss rawPossession, playerID, secondaryID int) []int {
	ids := make([]int, 0, 4)
	if playerID != 0 {
		ids = append(ids, playerID)
	}
	if secondaryID != 0 {
		ids = append(ids, secondaryID)
	}
	if poss.Type == model.TypeShot && poss.PasserID != 0 {
		ids = append(ids, poss.PasserID)
	}
	if poss.Type == model.TypeChallenge {
		if poss.HomeDuelID != 0 {
			ids = append(ids, poss.HomeDuelID)
		}
		if poss.AwayDuelID != 0 {
			ids = append(ids, poss.AwayDuelID)
		}
	}
	return ids
}

func outcomeFor(poss rawPossession) (outcome string, isGoal bool) {
	switch poss.Type {
	case model.TypePass:
		return poss.PassOutcome, false
	case model.TypeShot:
		return poss.ShotOutcome, poss.ShotOutcome == "G"
	case model.TypeCross:
		return poss.CrossOutcome, false
	case model.TypeClearance:
		return poss.ClearanceOutcome, false
	case model.TypeChallenge:
		return poss.ChallengeOutcome, false
	}
	return "", false
}

// periodOf defaults to the first period when the feed left it out.
func periodOf(raw rawEvent) int {
	if raw.Game.Period == 0 {
		return 1
	}
	return raw.Game.Period
}

func rosterName(roster map[string]string, playerID int) string {
	if playerID == 0 || len(roster) == 0 {
		return ""
	}
	return roster[strconv.Itoa(playerID)]
}
