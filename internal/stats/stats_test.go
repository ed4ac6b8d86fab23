package stats

import (
	"testing"

	"timeline-analyzer/internal/replay"
)

func kill(ts, killerLevel, victimLevel, killerGold, victimGold int) replay.SoloKillRecord {
	return replay.SoloKillRecord{
		Timestamp:       ts,
		GameTimeSeconds: ts / 1000,
		Killer:          replay.Combatant{Level: killerLevel, TotalGold: killerGold},
		Victim:          replay.Combatant{Level: victimLevel, TotalGold: victimGold},
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil)
	if got != (MatchStatistics{}) {
		t.Errorf("Compute(nil) = %+v, want zero statistics", got)
	}
}

func TestCompute(t *testing.T) {
	kills := []replay.SoloKillRecord{
		kill(600000, 6, 5, 3000, 2500),      // 600s, early
		kill(300000, 4, 4, 2000, 2200),      // 300s, early, first blood
		kill(1200000, 11, 9, 8000, 7000),    // 1200s, mid
		kill(2000000, 16, 16, 14000, 14000), // 2000s, late
	}

	s := Compute(kills)

	if s.TotalSoloKills != 4 {
		t.Errorf("TotalSoloKills = %d, want 4", s.TotalSoloKills)
	}
	if s.FirstBloodTime != 300000 {
		t.Errorf("FirstBloodTime = %d, want 300000", s.FirstBloodTime)
	}
	if s.EarlyGameKills != 2 || s.MidGameKills != 1 || s.LateGameKills != 1 {
		t.Errorf("phase split = %d/%d/%d, want 2/1/1",
			s.EarlyGameKills, s.MidGameKills, s.LateGameKills)
	}
	if s.EarlyGameKills+s.MidGameKills+s.LateGameKills != s.TotalSoloKills {
		t.Error("phase buckets do not sum to total")
	}

	// (1 + 0 + 2 + 0) / 4
	if s.AvgLevelDiff != 0.75 {
		t.Errorf("AvgLevelDiff = %v, want 0.75", s.AvgLevelDiff)
	}
	// (500 - 200 + 1000 + 0) / 4
	if s.AvgGoldDiff != 325 {
		t.Errorf("AvgGoldDiff = %v, want 325", s.AvgGoldDiff)
	}
}

func TestComputePhaseBoundaries(t *testing.T) {
	kills := []replay.SoloKillRecord{
		kill(900000, 5, 5, 0, 0),  // exactly 900s is still early
		kill(901000, 5, 5, 0, 0),  // 901s is mid
		kill(1500000, 5, 5, 0, 0), // exactly 1500s is still mid
		kill(1501000, 5, 5, 0, 0), // 1501s is late
	}

	s := Compute(kills)
	if s.EarlyGameKills != 1 || s.MidGameKills != 2 || s.LateGameKills != 1 {
		t.Errorf("phase split = %d/%d/%d, want 1/2/1",
			s.EarlyGameKills, s.MidGameKills, s.LateGameKills)
	}
}
