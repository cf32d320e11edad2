package seeder

// club is one synthetic team. IDs are serialized as JSON numbers on
// purpose: real feeds mix numeric and string team ids, and the reader's
// flexible decoding should see both.
type club struct {
	ID        int
	Name      string
	ShortName string
	Stadium   string
}

// clubs is the fixture pool. Matches pair neighbours in this list so a
// small corpus still spreads possession across different team ids.
var clubs = []club{
	{ID: 101, Name: "Harbor Rovers", ShortName: "HAR", Stadium: "Dockside Park"},
	{ID: 102, Name: "Ridge Athletic", ShortName: "RID", Stadium: "Summit Field"},
	{ID: 103, Name: "Lakeside City", ShortName: "LAK", Stadium: "Waterfront Arena"},
	{ID: 104, Name: "Foundry Town", ShortName: "FOU", Stadium: "Ironworks Ground"},
	{ID: 105, Name: "Meadow Park", ShortName: "MEA", Stadium: "Greenfield Stadium"},
	{ID: 106, Name: "Granite County", ShortName: "GRA", Stadium: "Quarry Lane"},
	{ID: 107, Name: "Estuary United", ShortName: "EST", Stadium: "Tidewater Bowl"},
	{ID: 108, Name: "Orchard Vale", ShortName: "ORC", Stadium: "Blossom Road"},
}

// nicknames feeds squad generation. Two squads of eleven draw from this
// pool without replacement, so it must hold at least 22 entries.
var nicknames = []string{
	"Ana", "Bea", "Cal", "Dru", "Eli", "Fay", "Gus", "Haw",
	"Ili", "Jun", "Kip", "Lou", "Mir", "Nat", "Oda", "Pim",
	"Qui", "Rio", "Sol", "Tam", "Uri", "Vic", "Wim", "Xan",
	"Yas", "Zef",
}

// player is one squad member.
type player struct {
	ID     int
	Name   string
	Jersey int
	Group  string
}

// squad is one team's eleven for a match.
type squad struct {
	club    club
	players []player
}

// keeper returns the squad's goalkeeper.
func (s squad) keeper() player {
	return s.players[0]
}

// outfield returns a non-keeper player, cycling by n.
func (s squad) outfield(n int) player {
	field := s.players[1:]
	return field[n%len(field)]
}

// positionGroupFor maps a jersey number onto a classic 4-3-3 shape.
func positionGroupFor(jersey int) string {
	switch {
	case jersey == 1:
		return "GK"
	case jersey <= 5:
		return "D"
	case jersey <= 8:
		return "M"
	default:
		return "F"
	}
}

// buildSquads assembles the two squads of match idx. Player ids embed the
// club id so the two rosters never collide inside one match file.
func buildSquads(idx int) (home, away squad) {
	homeClub := clubs[(2*idx)%len(clubs)]
	awayClub := clubs[(2*idx+1)%len(clubs)]

	names := shuffledNames(2 * squadSize)
	home = buildSquad(homeClub, names[:squadSize])
	away = buildSquad(awayClub, names[squadSize:])
	return home, away
}

const squadSize = 11

func buildSquad(c club, names []string) squad {
	players := make([]player, 0, squadSize)
	for jersey := 1; jersey <= squadSize; jersey++ {
		players = append(players, player{
			ID:     c.ID*100 + jersey,
			Name:   names[jersey-1],
			Jersey: jersey,
			Group:  positionGroupFor(jersey),
		})
	}
	return squad{club: c, players: players}
}

// shuffledNames returns n nicknames in random order.
func shuffledNames(n int) []string {
	pool := make([]string, len(nicknames))
	copy(pool, nicknames)
	for i := len(pool) - 1; i > 0; i-- {
		j := int(randInt(int64(i + 1)))
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
