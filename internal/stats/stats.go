package stats

import "timeline-analyzer/internal/replay"

// Game phase boundaries in seconds
const (
	EarlyGameMaxSeconds = 900
	MidGameMaxSeconds   = 1500
)

// MatchStatistics aggregates the full solo-kill set of one match
type MatchStatistics struct {
	TotalSoloKills int     `json:"totalSoloKills"`
	FirstBloodTime int     `json:"firstBloodTime"` // ms, 0 if no kills
	AvgLevelDiff   float64 `json:"avgLevelDiff"`   // killer - victim
	AvgGoldDiff    float64 `json:"avgGoldDiff"`    // killer - victim
	EarlyGameKills int     `json:"earlyGameKills"` // <= 900s
	MidGameKills   int     `json:"midGameKills"`   // 901-1500s
	LateGameKills  int     `json:"lateGameKills"`  // > 1500s
}

// Compute folds the solo-kill set into match statistics. An empty set yields
// the zero statistics, never a division by zero.
func Compute(kills []replay.SoloKillRecord) MatchStatistics {
	if len(kills) == 0 {
		return MatchStatistics{}
	}

	s := MatchStatistics{TotalSoloKills: len(kills)}

	firstBlood := kills[0].Timestamp
	levelSum, goldSum := 0, 0
	for _, kill := range kills {
		if kill.Timestamp < firstBlood {
			firstBlood = kill.Timestamp
		}
		levelSum += kill.Killer.Level - kill.Victim.Level
		goldSum += kill.Killer.TotalGold - kill.Victim.TotalGold

		switch {
		case kill.GameTimeSeconds <= EarlyGameMaxSeconds:
			s.EarlyGameKills++
		case kill.GameTimeSeconds <= MidGameMaxSeconds:
			s.MidGameKills++
		default:
			s.LateGameKills++
		}
	}

	s.FirstBloodTime = firstBlood
	s.AvgLevelDiff = float64(levelSum) / float64(len(kills))
	s.AvgGoldDiff = float64(goldSum) / float64(len(kills))
	return s
}
