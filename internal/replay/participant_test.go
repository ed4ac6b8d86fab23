package replay

import (
	"errors"
	"testing"

	"timeline-analyzer/internal/riot"
)

var lanePositions = []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"}

// newTestMatch builds a 10-participant match summary: ids 1-5 on blue,
// 6-10 on red, one participant per lane per side.
func newTestMatch() *riot.MatchResponse {
	match := &riot.MatchResponse{}
	match.Metadata.MatchID = "KR_1000000001"
	match.Info.GameDuration = 1800
	match.Info.GameVersion = "15.1.650.2407"

	for i := 0; i < 10; i++ {
		teamID := 100
		win := true
		if i >= 5 {
			teamID = 200
			win = false
		}
		match.Info.Participants = append(match.Info.Participants, riot.MatchParticipant{
			ParticipantID: i + 1,
			PUUID:         "puuid-" + lanePositions[i%5],
			TeamID:        teamID,
			TeamPosition:  lanePositions[i%5],
			ChampionID:    100 + i,
			ChampionName:  "Champ" + lanePositions[i%5],
			ChampLevel:    15,
			Win:           win,
		})
	}
	return match
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := BuildRegistry(newTestMatch())
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}
	return reg
}

func TestBuildRegistry(t *testing.T) {
	reg := newTestRegistry(t)

	if got := reg.Len(); got != 10 {
		t.Errorf("Len() = %d, want 10", got)
	}

	p, ok := reg.Get(7)
	if !ok {
		t.Fatal("Get(7) not found")
	}
	if p.TeamID != 200 {
		t.Errorf("participant 7 TeamID = %d, want 200", p.TeamID)
	}
	if p.Role != RoleJungle {
		t.Errorf("participant 7 Role = %s, want JUNGLE", p.Role)
	}

	if _, ok := reg.Get(11); ok {
		t.Error("Get(11) found, want missing")
	}
}

func TestBuildRegistryMalformed(t *testing.T) {
	if _, err := BuildRegistry(nil); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("BuildRegistry(nil) error = %v, want ErrMalformedDocument", err)
	}

	empty := &riot.MatchResponse{}
	if _, err := BuildRegistry(empty); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("BuildRegistry(empty) error = %v, want ErrMalformedDocument", err)
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	reg := newTestRegistry(t)

	ids := reg.IDs()
	if len(ids) != 10 {
		t.Fatalf("IDs() returned %d ids, want 10", len(ids))
	}
	for i, id := range ids {
		if id != i+1 {
			t.Errorf("IDs()[%d] = %d, want %d", i, id, i+1)
		}
	}
}

func TestParseRole(t *testing.T) {
	if got := ParseRole("MIDDLE"); got != RoleMiddle {
		t.Errorf("ParseRole(MIDDLE) = %s, want MIDDLE", got)
	}
	if got := ParseRole(""); got != RoleUnknown {
		t.Errorf("ParseRole(\"\") = %s, want UNKNOWN", got)
	}
	if got := ParseRole("ARAM"); got != RoleUnknown {
		t.Errorf("ParseRole(ARAM) = %s, want UNKNOWN", got)
	}
}
