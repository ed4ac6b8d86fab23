package matchup

import (
	"timeline-analyzer/internal/replay"
	"timeline-analyzer/internal/riot"
)

// Side team ids as they appear in the match-summary document
const (
	BlueTeamID = 100
	RedTeamID  = 200
)

// PlayerData is one participant's end-of-game line, the per-side half of a
// matchup record.
type PlayerData struct {
	ParticipantID int         `json:"participantId"`
	PUUID         string      `json:"puuid"`
	ChampionID    int         `json:"championId"`
	ChampionName  string      `json:"championName"`
	ChampLevel    int         `json:"champLevel"`
	Role          replay.Role `json:"role"`
	TeamID        int         `json:"teamId"`

	Items      []int `json:"items"` // 7 slots
	GoldEarned int   `json:"goldEarned"`
	GoldSpent  int   `json:"goldSpent"`

	Kills   int  `json:"kills"`
	Deaths  int  `json:"deaths"`
	Assists int  `json:"assists"`
	Win     bool `json:"win"`

	DamageDealt int `json:"damageDealt"`
	DamageTaken int `json:"damageTaken"`
	VisionScore int `json:"visionScore"`
	CreepScore  int `json:"creepScore"`
}

// Record is a 1v1 pairing of the two participants holding the same assigned
// role on opposing sides, plus the match-level context.
type Record struct {
	Lane         replay.Role `json:"lane"`
	Player1      PlayerData  `json:"player1"` // blue side
	Player2      PlayerData  `json:"player2"` // red side
	MatchID      string      `json:"matchId"`
	GameDuration int         `json:"gameDuration"`
	GameVersion  string      `json:"gameVersion"`
	GameCreation int64       `json:"gameCreation"`
}

// Pairings is the per-match pairing result. Roles without exactly one
// participant per side are never guessed; they are listed in Unpaired so
// callers can tell "no 1v1 pairing" apart from "no data".
type Pairings struct {
	Matchups map[replay.Role]*Record `json:"matchups"`
	Unpaired []replay.Role           `json:"unpaired"`
}

// ExtractPlayers flattens the match-summary participants into PlayerData
func ExtractPlayers(match *riot.MatchResponse) []PlayerData {
	players := make([]PlayerData, 0, len(match.Info.Participants))
	for i := range match.Info.Participants {
		p := &match.Info.Participants[i]
		players = append(players, PlayerData{
			ParticipantID: p.ParticipantID,
			PUUID:         p.PUUID,
			ChampionID:    p.ChampionID,
			ChampionName:  p.ChampionName,
			ChampLevel:    p.ChampLevel,
			Role:          replay.ParseRole(p.TeamPosition),
			TeamID:        p.TeamID,
			Items:         p.Items(),
			GoldEarned:    p.GoldEarned,
			GoldSpent:     p.GoldSpent,
			Kills:         p.Kills,
			Deaths:        p.Deaths,
			Assists:       p.Assists,
			Win:           p.Win,
			DamageDealt:   p.TotalDamageDealtToChampions,
			DamageTaken:   p.TotalDamageTaken,
			VisionScore:   p.VisionScore,
			CreepScore:    p.CreepScore(),
		})
	}
	return players
}

// PairByRole pairs participants into 1v1 matchups. A record is emitted for a
// role iff exactly one participant per side holds it; every other role ends
// up in Unpaired.
func PairByRole(match *riot.MatchResponse) Pairings {
	players := ExtractPlayers(match)

	pairings := Pairings{
		Matchups: make(map[replay.Role]*Record),
		Unpaired: make([]replay.Role, 0),
	}

	for _, role := range replay.Roles {
		var blue, red []PlayerData
		for _, p := range players {
			if p.Role != role {
				continue
			}
			switch p.TeamID {
			case BlueTeamID:
				blue = append(blue, p)
			case RedTeamID:
				red = append(red, p)
			}
		}

		if len(blue) != 1 || len(red) != 1 {
			pairings.Unpaired = append(pairings.Unpaired, role)
			continue
		}

		pairings.Matchups[role] = &Record{
			Lane:         role,
			Player1:      blue[0],
			Player2:      red[0],
			MatchID:      match.Metadata.MatchID,
			GameDuration: match.Info.GameDuration,
			GameVersion:  match.Info.GameVersion,
			GameCreation: match.Info.GameCreation,
		}
	}

	return pairings
}

// ClassifyByLane buckets solo kills by the killer's assigned role, falling
// back to the victim's; kills with neither known go to the UNKNOWN bucket.
// Every bucket is present in the result, empty or not.
func ClassifyByLane(kills []replay.SoloKillRecord, reg *replay.Registry) map[replay.Role][]replay.SoloKillRecord {
	buckets := make(map[replay.Role][]replay.SoloKillRecord, len(replay.Roles)+1)
	for _, role := range replay.Roles {
		buckets[role] = []replay.SoloKillRecord{}
	}
	buckets[replay.RoleUnknown] = []replay.SoloKillRecord{}

	for _, kill := range kills {
		lane := replay.RoleUnknown
		if killer, ok := reg.Get(kill.Killer.ParticipantID); ok && killer.Role != replay.RoleUnknown {
			lane = killer.Role
		} else if victim, ok := reg.Get(kill.Victim.ParticipantID); ok && victim.Role != replay.RoleUnknown {
			lane = victim.Role
		}
		buckets[lane] = append(buckets[lane], kill)
	}

	return buckets
}

// SameLaneKills filters to kills where killer and victim share a known
// assigned role, i.e. kills inside a lane matchup.
func SameLaneKills(kills []replay.SoloKillRecord, reg *replay.Registry) []replay.SoloKillRecord {
	out := make([]replay.SoloKillRecord, 0)
	for _, kill := range kills {
		killer, ok1 := reg.Get(kill.Killer.ParticipantID)
		victim, ok2 := reg.Get(kill.Victim.ParticipantID)
		if !ok1 || !ok2 {
			continue
		}
		if killer.Role == victim.Role && killer.Role != replay.RoleUnknown {
			out = append(out, kill)
		}
	}
	return out
}
