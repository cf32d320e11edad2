package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/replay/internal/adapters/repository"
	service "github.com/okian/replay/internal/app"
	"github.com/okian/replay/internal/domain/model"
)

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

const metadataHarbor = `{
	"homeTeam": {"id": 77, "name": "Harbor FC", "shortName": "HAR"},
	"awayTeam": {"id": 88, "name": "Valley United", "shortName": "VAL"},
	"date": "2025-03-01",
	"stadium": {"name": "Dockside Park"}
}`

const metadataRidge = `{
	"homeTeam": {"id": 90, "name": "Ridge Town", "shortName": "RID"},
	"awayTeam": {"id": 91, "name": "Lakeside SC", "shortName": "LAK"},
	"date": "2025-03-08",
	"stadium": {"name": "Summit Field"}
}`

const rosterHarbor = `[
	{"player": {"id": "9", "nickname": "Ana"}},
	{"player": {"id": "4", "nickname": "Bea"}},
	{"player": {"id": "21", "nickname": "Kip"}}
]`

// Sequence 1 is a four-event attack ending in a goal by Bea; sequence 2 a
// lone clearance by the other side.
const eventsHarbor = `[
	{
		"gameEventId": 1, "sequence": 1,
		"gameEvents": {"startFormattedGameClock": "11:30", "period": 1, "teamId": 77, "teamName": "Harbor FC"},
		"possessionEvents": {"possessionEventType": "PA", "passerPlayerName": "Ana", "passerPlayerId": 9, "receiverPlayerName": "Bea", "receiverPlayerId": 4, "passOutcomeType": "C"},
		"ball": [{"x": -5, "y": 0}],
		"homePlayers": [
			{"playerId": 9, "playerName": "Ana", "jerseyNum": 8, "positionGroupType": "CM", "x": -5, "y": 1},
			{"playerId": 4, "playerName": "Bea", "jerseyNum": 9, "positionGroupType": "CF", "x": 3, "y": 4}
		],
		"awayPlayers": [{"playerId": 21, "playerName": "Kip", "jerseyNum": 1, "positionGroupType": "GK", "x": 51, "y": 0}]
	},
	{
		"gameEventId": 2, "sequence": 1,
		"gameEvents": {"startFormattedGameClock": "11:38", "period": 1, "teamId": 77, "teamName": "Harbor FC"},
		"possessionEvents": {"possessionEventType": "PA", "passerPlayerName": "Bea", "passerPlayerId": 4, "receiverPlayerName": "Ana", "receiverPlayerId": 9, "passOutcomeType": "C"},
		"ball": [{"x": 5, "y": 5}],
		"homePlayers": [
			{"playerId": 9, "playerName": "Ana", "jerseyNum": 8, "positionGroupType": "CM", "x": 4, "y": 6},
			{"playerId": 4, "playerName": "Bea", "jerseyNum": 9, "positionGroupType": "CF", "x": 12, "y": 2}
		],
		"awayPlayers": [{"playerId": 21, "playerName": "Kip", "jerseyNum": 1, "positionGroupType": "GK", "x": 51, "y": 0}]
	},
	{
		"gameEventId": 3, "sequence": 1,
		"gameEvents": {"startFormattedGameClock": "11:49", "period": 1, "teamId": 77, "teamName": "Harbor FC"},
		"possessionEvents": {"possessionEventType": "CR", "crosserPlayerName": "Ana", "crosserPlayerId": 9, "crossOutcomeType": "C"},
		"ball": [{"x": 18, "y": -8}],
		"homePlayers": [
			{"playerId": 9, "playerName": "Ana", "jerseyNum": 8, "positionGroupType": "CM", "x": 18, "y": -7},
			{"playerId": 4, "playerName": "Bea", "jerseyNum": 9, "positionGroupType": "CF", "x": 30, "y": 1}
		],
		"awayPlayers": [{"playerId": 21, "playerName": "Kip", "jerseyNum": 1, "positionGroupType": "GK", "x": 51, "y": 0}]
	},
	{
		"gameEventId": 4, "sequence": 1,
		"gameEvents": {"startFormattedGameClock": "12:02", "period": 1, "teamId": 77, "teamName": "Harbor FC"},
		"possessionEvents": {"possessionEventType": "SH", "shooterPlayerName": "Bea", "shooterPlayerId": 4, "keeperPlayerName": "Kip", "keeperPlayerId": 21, "passerPlayerName": "Ana", "passerPlayerId": 9, "shotOutcomeType": "G"},
		"ball": [{"x": 45, "y": 2}],
		"homePlayers": [
			{"playerId": 9, "playerName": "Ana", "jerseyNum": 8, "positionGroupType": "CM", "x": 35, "y": -5},
			{"playerId": 4, "playerName": "Bea", "jerseyNum": 9, "positionGroupType": "CF", "x": 44, "y": 2}
		],
		"awayPlayers": [{"playerId": 21, "playerName": "Kip", "jerseyNum": 1, "positionGroupType": "GK", "x": 51, "y": 0}]
	},
	{
		"gameEventId": 5, "sequence": 2,
		"gameEvents": {"startFormattedGameClock": "13:00", "period": 1, "teamId": 88, "teamName": "Valley United"},
		"possessionEvents": {"possessionEventType": "CL", "clearerPlayerName": "Dag", "clearerPlayerId": 15, "clearanceOutcomeType": "P"},
		"ball": [{"x": -30, "y": -25}],
		"homePlayers": [],
		"awayPlayers": [{"playerId": 15, "playerName": "Dag", "jerseyNum": 5, "positionGroupType": "CB", "x": -31, "y": -24}]
	}
]`

// One attack mirroring the Harbor goal move, saved instead of scored.
const eventsRidge = `[
	{
		"gameEventId": 11, "sequence": 1,
		"gameEvents": {"startFormattedGameClock": "20:10", "period": 1, "teamId": 90, "teamName": "Ridge Town"},
		"possessionEvents": {"possessionEventType": "PA", "passerPlayerName": "Oda", "passerPlayerId": 30, "receiverPlayerName": "Pim", "receiverPlayerId": 31, "passOutcomeType": "C"},
		"ball": [{"x": -4, "y": 1}],
		"homePlayers": [],
		"awayPlayers": []
	},
	{
		"gameEventId": 12, "sequence": 1,
		"gameEvents": {"startFormattedGameClock": "20:19", "period": 1, "teamId": 90, "teamName": "Ridge Town"},
		"possessionEvents": {"possessionEventType": "PA", "passerPlayerName": "Pim", "passerPlayerId": 31, "receiverPlayerName": "Oda", "receiverPlayerId": 30, "passOutcomeType": "C"},
		"ball": [{"x": 6, "y": 4}],
		"homePlayers": [],
		"awayPlayers": []
	},
	{
		"gameEventId": 13, "sequence": 1,
		"gameEvents": {"startFormattedGameClock": "20:27", "period": 1, "teamId": 90, "teamName": "Ridge Town"},
		"possessionEvents": {"possessionEventType": "CR", "crosserPlayerName": "Oda", "crosserPlayerId": 30, "crossOutcomeType": "C"},
		"ball": [{"x": 20, "y": -8}],
		"homePlayers": [],
		"awayPlayers": []
	},
	{
		"gameEventId": 14, "sequence": 1,
		"gameEvents": {"startFormattedGameClock": "20:33", "period": 1, "teamId": 90, "teamName": "Ridge Town"},
		"possessionEvents": {"possessionEventType": "SH", "shooterPlayerName": "Pim", "shooterPlayerId": 31, "shotOutcomeType": "S"},
		"ball": [{"x": 44, "y": 1}],
		"homePlayers": [],
		"awayPlayers": []
	}
]`

func writeCorpus(t *testing.T, dir string) {
	t.Helper()
	write(t, dir, "1001_metadata.json", metadataHarbor)
	write(t, dir, "1001_events.json", eventsHarbor)
	write(t, dir, "1001_rosters.json", rosterHarbor)
	write(t, dir, "1002_metadata.json", metadataRidge)
	write(t, dir, "1002_events.json", eventsRidge)
}

func startCorpusService(t *testing.T, dir string) *service.Service {
	t.Helper()
	svc := service.New(
		service.WithCorpusDir(dir),
		service.WithScanWorkers(2),
		service.WithDocFreqBounds(1, 1.0),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	// The warm-up build runs in the background; the first index read joins
	// it and waits, so assertions below see a finished snapshot.
	if _, err := svc.Sequence(ctx, model.Key{MatchID: "1001", SequenceID: 1}); err != nil {
		t.Fatalf("warm index: %v", err)
	}
	return svc
}

func TestServiceIntegration_Corpus(t *testing.T) {
	Convey("Given a service over a corpus directory", t, func() {
		dir := t.TempDir()
		writeCorpus(t, dir)

		svc := startCorpusService(t, dir)
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then the startup build saw both matches", func() {
			stats := svc.GetStats()
			So(stats["index_built"], ShouldEqual, true)
			So(stats["matches"], ShouldEqual, 2)
			So(stats["sequences"], ShouldEqual, 3)
			So(stats["events"], ShouldEqual, 9)
		})

		Convey("When listing matches", func() {
			matches, err := svc.Matches(ctx)
			So(err, ShouldBeNil)
			So(matches, ShouldHaveLength, 2)

			Convey("Then they come back sorted by date", func() {
				So(matches[0].ID, ShouldEqual, "1001")
				So(matches[0].HomeTeam.Name, ShouldEqual, "Harbor FC")
				So(matches[1].ID, ShouldEqual, "1002")
			})
		})

		Convey("When reading one match", func() {
			info, err := svc.Metadata(ctx, "1001")
			So(err, ShouldBeNil)
			So(info.AwayTeam.Name, ShouldEqual, "Valley United")
			So(info.Stadium, ShouldEqual, "Dockside Park")

			plays, err := svc.Plays(ctx, "1001")
			So(err, ShouldBeNil)
			So(plays, ShouldHaveLength, 2)
			So(plays[0].SequenceID, ShouldEqual, 1)
			So(plays[0].Events, ShouldHaveLength, 4)
			So(plays[0].Events[0].PlayerName, ShouldEqual, "Ana")
		})

		Convey("When reading an unknown match", func() {
			_, err := svc.Metadata(ctx, "nope")
			So(errors.Is(err, repository.ErrMatchNotFound), ShouldBeTrue)
		})

		Convey("When reading goals", func() {
			goals, err := svc.Goals(ctx, "1001")
			So(err, ShouldBeNil)
			So(goals, ShouldHaveLength, 1)

			goal := goals[0]
			So(goal.ScorerName, ShouldEqual, "Bea")
			So(goal.ScoringTeamID, ShouldEqual, "77")
			So(goal.EventIndex, ShouldEqual, 3)
			So(goal.IsPenalty, ShouldBeFalse)

			Convey("Then the build-up holds both feeding passes", func() {
				So(goal.PassSequence, ShouldHaveLength, 2)
				So(goal.PassSequence[0].PasserName, ShouldEqual, "Ana")
				So(goal.PassSequence[1].PasserName, ShouldEqual, "Bea")
			})

			Convey("And the keeper stands in the away snapshot", func() {
				So(goal.AwayPlayers, ShouldNotBeEmpty)
				So(goal.AwayPlayers[0].PositionGroup, ShouldEqual, "GK")
				So(goal.AwayPlayers[0].PlayerName, ShouldEqual, "Kip")
			})
		})
	})
}

func TestServiceIntegration_Search(t *testing.T) {
	Convey("Given a service over a corpus directory", t, func() {
		dir := t.TempDir()
		writeCorpus(t, dir)

		svc := startCorpusService(t, dir)
		defer svc.Stop()
		ctx := context.Background()

		key := model.Key{MatchID: "1001", SequenceID: 1}
		seq, err := svc.Sequence(ctx, key)
		So(err, ShouldBeNil)
		So(seq.Events, ShouldHaveLength, 4)

		Convey("When searching by alignment with the chain excluded", func() {
			results, err := svc.SimilarSequencesAligned(ctx, seq.Events, &key, 5)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 2)

			Convey("Then the mirrored Ridge attack ranks first", func() {
				So(results[0].Key, ShouldResemble, model.Key{MatchID: "1002", SequenceID: 1})
				So(results[0].Similarity, ShouldBeGreaterThan, 0.8)
				So(results[0].Path, ShouldNotBeEmpty)
			})
		})

		Convey("When searching with the hybrid blend", func() {
			results, err := svc.SimilarSequencesHybrid(ctx, seq.Events, &key, 5)
			So(err, ShouldBeNil)
			So(results, ShouldNotBeEmpty)
			So(results[0].Key, ShouldResemble, model.Key{MatchID: "1002", SequenceID: 1})
			So(results[0].DTWSimilarity, ShouldBeGreaterThan, 0)
			So(results[0].LexicalSimilarity, ShouldBeGreaterThan, 0)
		})

		Convey("When searching for events similar to the goal", func() {
			goalKey := model.EventKey{Key: key, EventIndex: 3}
			query, err := svc.Event(ctx, goalKey)
			So(err, ShouldBeNil)
			So(query.IsGoal, ShouldBeTrue)

			results, err := svc.SimilarEvents(ctx, query, &goalKey, 5)
			So(err, ShouldBeNil)
			So(results, ShouldNotBeEmpty)

			Convey("Then the Ridge shot leads and self never appears", func() {
				So(results[0].EventKey.Key, ShouldResemble, model.Key{MatchID: "1002", SequenceID: 1})
				So(results[0].Event.Type, ShouldEqual, model.TypeShot)
				for _, r := range results {
					So(r.EventKey, ShouldNotResemble, goalKey)
				}
			})
		})
	})
}

func TestServiceIntegration_Reindex(t *testing.T) {
	Convey("Given a started service with a built index", t, func() {
		dir := t.TempDir()
		writeCorpus(t, dir)

		svc := startCorpusService(t, dir)
		defer svc.Stop()
		ctx := context.Background()

		So(svc.GetStats()["matches"], ShouldEqual, 2)

		Convey("When a match lands in the corpus after the build", func() {
			write(t, dir, "1003_metadata.json", metadataRidge)
			write(t, dir, "1003_events.json", eventsRidge)

			Convey("Then the running snapshot does not see it", func() {
				So(svc.GetStats()["matches"], ShouldEqual, 2)
			})

			Convey("And a reindex picks it up", func() {
				So(svc.Reindex(ctx), ShouldBeNil)

				stats := svc.GetStats()
				So(stats["matches"], ShouldEqual, 3)
				So(stats["sequences"], ShouldEqual, 4)

				matches, err := svc.Matches(ctx)
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 3)
			})
		})
	})
}
