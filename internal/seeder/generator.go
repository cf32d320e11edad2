package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/replay/internal/domain/model"
	"github.com/okian/replay/pkg/logger"
)

// Match timeline layout. Chains spread across a regulation match; each
// step moves the clock forward a few seconds.
const (
	matchMinutes    = 90
	halfMinutes     = 45
	secondsPerStep  = 4
	secondsPerMin   = 60
	eventIDStride   = 1_000_000
	matchDaySpacing = 7 // days between consecutive synthetic kickoffs
)

// kickoffBase anchors synthetic match dates. Fixed rather than derived
// from the wall clock so repeated runs produce comparable corpora.
var kickoffBase = time.Date(2025, time.August, 2, 0, 0, 0, 0, time.UTC)

// generateMatches builds the configured number of matches concurrently.
// Matches land at their index so output order is stable regardless of
// which worker finished first.
func generateMatches(ctx context.Context, cfg *Config, stats *Stats) ([]Match, error) {
	log := logger.Get()
	log.Info(ctx, "generating corpus",
		logger.Int("matches", cfg.Matches),
		logger.Int("sequencesPerMatch", cfg.Sequences),
		logger.Int("eventsPerChain", cfg.Events),
		logger.Int("workers", cfg.Workers))

	matches := make([]Match, cfg.Matches)

	type buildResult struct {
		index int
		match Match
		err   error
	}
	results := make(chan buildResult, cfg.Matches)

	workers := cfg.Workers
	if workers > cfg.Matches {
		workers = cfg.Matches
	}
	perWorker := cfg.Matches / workers

	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := start + perWorker
		if w == workers-1 {
			end = cfg.Matches
		}
		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					results <- buildResult{index: i, err: ctx.Err()}
					return
				default:
					results <- buildResult{index: i, match: buildMatch(i, cfg)}
				}
			}
		}(start, end)
	}

	for range matches {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generation cancelled: %w", ctx.Err())
		case r := <-results:
			if r.err != nil {
				return nil, fmt.Errorf("generate match %d: %w", r.index, r.err)
			}
			matches[r.index] = r.match
		}
	}

	for _, m := range matches {
		stats.MatchesWritten++
		stats.EventsWritten += len(m.Events)
		seen := make(map[int]struct{})
		for _, ev := range m.Events {
			seen[ev.Sequence] = struct{}{}
			if ev.Possession.ShotOutcome == "G" {
				stats.GoalsWritten++
			}
		}
		stats.SequencesWritten += len(seen)
	}

	log.Info(ctx, "generated corpus",
		logger.Int("matches", stats.MatchesWritten),
		logger.Int("sequences", stats.SequencesWritten),
		logger.Int("events", stats.EventsWritten),
		logger.Int("goals", stats.GoalsWritten))
	return matches, nil
}

// buildMatch assembles one match: metadata, both rosters, and a set of
// possession chains cycling through the archetypes. Home and away take
// turns attacking so both team ids appear on chains.
func buildMatch(idx int, cfg *Config) Match {
	home, away := buildSquads(idx)

	m := Match{
		ID: uuid.New().String(),
		Metadata: metadataRecord{
			HomeTeam: teamRecord{ID: home.club.ID, Name: home.club.Name, ShortName: home.club.ShortName},
			AwayTeam: teamRecord{ID: away.club.ID, Name: away.club.Name, ShortName: away.club.ShortName},
			Date:     kickoffBase.AddDate(0, 0, idx*matchDaySpacing).Format("2006-01-02"),
			Stadium:  stadiumRecord{Name: home.club.Stadium},
		},
		Rosters: rosterEntries(home, away),
	}

	nextID := eventIDs(idx)
	for seq := 1; seq <= cfg.Sequences; seq++ {
		arch := archetypes[(seq-1)%len(archetypes)]
		attacking, defending := home, away
		homeSide := seq%2 == 1
		if !homeSide {
			attacking, defending = away, home
		}

		minute := (seq - 1) * matchMinutes / cfg.Sequences
		cc := chainContext{
			seq:       seq,
			minute:    minute,
			second:    int(randInt(secondsPerMin)),
			period:    periodForMinute(minute),
			arch:      arch,
			attacking: attacking,
			defending: defending,
			homeSide:  homeSide,
		}

		steps := chainSteps(arch, chainLength(cfg.Events))
		m.Events = append(m.Events, cc.events(steps, nextID)...)
	}
	return m
}

// eventIDs returns a generator of feed event ids unique within the corpus
// as long as no match exceeds the stride.
func eventIDs(matchIdx int) func() int64 {
	next := int64(matchIdx+1) * eventIDStride
	return func() int64 {
		next++
		return next
	}
}

// chainLength draws a chain size between the alignable minimum and the
// configured bound, so corpora mix short and long chains.
func chainLength(bound int) int {
	if bound <= minChainLength {
		return minChainLength
	}
	return minChainLength + int(randInt(int64(bound-minChainLength+1)))
}

func periodForMinute(minute int) int {
	if minute < halfMinutes {
		return 1
	}
	return 2
}

// chainContext carries the fixed facts of one possession chain while its
// events are built.
type chainContext struct {
	seq       int
	minute    int
	second    int
	period    int
	arch      archetype
	attacking squad
	defending squad
	homeSide  bool
}

// events renders the planned steps of one chain into feed records. The
// actor rotates through the attacking outfield; a shot credits the
// previous actor as the passer so goal build-ups resolve an assister.
func (c chainContext) events(steps []step, nextID func() int64) []eventRecord {
	records := make([]eventRecord, 0, len(steps))
	prevActor := c.attacking.outfield(c.seq)

	for i, st := range steps {
		actor := c.attacking.outfield(c.seq + i)
		partner := c.attacking.outfield(c.seq + i + 1)

		rec := eventRecord{
			GameEventID: nextID(),
			Sequence:    c.seq,
			Game: gameHeader{
				Clock:      clockAt(c.minute, c.second+i*secondsPerStep),
				Period:     c.period,
				TeamID:     c.attacking.club.ID,
				TeamName:   c.attacking.club.Name,
				PlayerName: actor.Name,
				PlayerID:   actor.ID,
			},
			Possession: possessionFor(st.kind, actor, partner, c.defending.keeper(), prevActor),
			Ball:       []model.Position{st.pos},
		}
		if i == 0 {
			rec.Game.SetpieceType = c.arch.setpiece
		}

		homeSquad, awaySquad := c.attacking, c.defending
		if !c.homeSide {
			homeSquad, awaySquad = c.defending, c.attacking
		}
		rec.HomePlayers = trackedFormation(homeSquad, st.pos, c.homeSide, actor.ID)
		rec.AwayPlayers = trackedFormation(awaySquad, st.pos, !c.homeSide, actor.ID)

		records = append(records, rec)
		prevActor = actor
	}
	return records
}

// possessionFor fills the per-type actor fields of one feed record. Only
// the fields belonging to the event's own type are set, matching how
// feeds leave the rest null.
func possessionFor(kind string, actor, partner, keeper, assist player) possessionBlock {
	p := possessionBlock{Type: kind}

	switch kind {
	case model.TypePass:
		p.PasserName, p.PasserID = actor.Name, actor.ID
		p.ReceiverName, p.ReceiverID = partner.Name, partner.ID
		p.PassOutcome = "C"
		p.PassType = "S"
		if randFloat() < longPassShare {
			p.PassType = "L"
		}
	case model.TypeCross:
		p.CrosserName, p.CrosserID = actor.Name, actor.ID
		p.TargetName, p.TargetID = partner.Name, partner.ID
		p.CrossOutcome = "C"
	case model.TypeClearance:
		p.ClearerName, p.ClearerID = actor.Name, actor.ID
		p.ClearanceOutcome = "P"
	case model.TypeShot:
		p.ShooterName, p.ShooterID = actor.Name, actor.ID
		p.KeeperName, p.KeeperID = keeper.Name, keeper.ID
		p.PasserName, p.PasserID = assist.Name, assist.ID
		p.ShotOutcome = shotOutcome()
		p.ShotType = "F"
		if randFloat() < headerShare {
			p.ShotType = "H"
		}
	case model.TypeBallCarry:
		p.BallCarrierName, p.BallCarrierID = actor.Name, actor.ID
	default:
		p.TouchName, p.TouchID = actor.Name, actor.ID
	}

	if kind != model.TypeShot && randFloat() < pressureShare {
		p.PressureType = "P"
	}
	return p
}

// trackedFormation places one squad's eleven for a single frame. The
// actor stands on the ball, attackers support behind it, defenders screen
// toward their own goal, and keepers hold the line. Attacks always run
// toward positive x in this corpus.
func trackedFormation(s squad, ball model.Position, attacking bool, actorID int) []model.PlayerPosition {
	const (
		keeperDepth  = 4.0
		supportDepth = 6.0
		screenDepth  = 8.0
		spread       = 3.0
	)

	goalX := pitchHalfLength - keeperDepth
	if attacking {
		goalX = -pitchHalfLength + keeperDepth
	}

	players := make([]model.PlayerPosition, 0, len(s.players))
	for _, p := range s.players {
		var pos model.Position
		switch {
		case p.ID == actorID:
			pos = model.Position{X: ball.X + jitter(1), Y: ball.Y + jitter(1)}
		case p.Group == "GK":
			pos = model.Position{X: goalX, Y: jitter(spread)}
		case attacking:
			pos = model.Position{
				X: ball.X - supportDepth - float64(p.Jersey%4)*spread + jitter(spread),
				Y: ball.Y + float64(p.Jersey-6)*spread + jitter(spread),
			}
		default:
			pos = model.Position{
				X: ball.X + screenDepth + float64(p.Jersey%4)*spread + jitter(spread),
				Y: ball.Y/2 + float64(p.Jersey-6)*spread + jitter(spread),
			}
		}
		pos = clampPitch(pos)
		players = append(players, model.PlayerPosition{
			PlayerID:      p.ID,
			PlayerName:    p.Name,
			JerseyNum:     p.Jersey,
			PositionGroup: p.Group,
			X:             pos.X,
			Y:             pos.Y,
		})
	}
	return players
}

// clockAt formats a game clock, rolling surplus seconds into minutes.
func clockAt(minute, second int) string {
	minute += second / secondsPerMin
	second %= secondsPerMin
	return fmt.Sprintf("%02d:%02d", minute, second)
}

func rosterEntries(home, away squad) []rosterEntry {
	entries := make([]rosterEntry, 0, len(home.players)+len(away.players))
	for _, s := range []squad{home, away} {
		for _, p := range s.players {
			entries = append(entries, rosterEntry{Player: rosterPlayer{ID: p.ID, Nickname: p.Name}})
		}
	}
	return entries
}
