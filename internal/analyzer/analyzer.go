package analyzer

import (
	"fmt"

	"timeline-analyzer/internal/matchup"
	"timeline-analyzer/internal/replay"
	"timeline-analyzer/internal/riot"
	"timeline-analyzer/internal/stats"
)

// Result is the per-match bundle handed to downstream consumers. Every field
// is freshly allocated by Analyze; nothing references the input documents or
// the replay state that produced it.
type Result struct {
	MatchID      string `json:"matchId"`
	GameDuration int    `json:"gameDuration"` // seconds

	SoloKills     []replay.SoloKillRecord                 `json:"soloKills"`
	LaneSoloKills map[replay.Role][]replay.SoloKillRecord `json:"laneSoloKills"`
	Statistics    stats.MatchStatistics                   `json:"statistics"`

	Matchups      map[replay.Role]*matchup.Record `json:"matchups"`
	UnpairedRoles []replay.Role                   `json:"unpairedRoles"`
	Features      []stats.MatchupFeatures         `json:"features"`

	Participants map[int]replay.Participant `json:"participants"`
	Diagnostics  replay.Diagnostics         `json:"diagnostics"`
}

// Analyze replays one match's documents and returns its result bundle.
// It is pure computation over the in-memory documents: no I/O, no retained
// state, so callers may run one Analyze per match concurrently.
//
// The only aborting condition is a structurally invalid document
// (replay.ErrMalformedDocument); stage-local anomalies are absorbed into
// Result.Diagnostics.
func Analyze(match *riot.MatchResponse, timeline *riot.TimelineResponse, items *stats.ItemTable) (*Result, error) {
	registry, err := replay.BuildRegistry(match)
	if err != nil {
		return nil, err
	}
	if timeline == nil || timeline.Info.Frames == nil {
		return nil, fmt.Errorf("timeline has no frames: %w", replay.ErrMalformedDocument)
	}
	if items == nil {
		items = stats.DefaultItemTable()
	}

	var diag replay.Diagnostics

	events := replay.CollectEvents(timeline)
	ledger := replay.ReplayInventories(events, registry, &diag)
	states := replay.NewStateTimeline(timeline, events)

	kills := replay.ExtractSoloKills(events, registry, states, ledger, &diag)
	laneKills := matchup.ClassifyByLane(kills, registry)
	pairings := matchup.PairByRole(match)

	features := make([]stats.MatchupFeatures, 0, len(pairings.Matchups))
	for _, role := range replay.Roles {
		rec, ok := pairings.Matchups[role]
		if !ok {
			continue
		}
		features = append(features, stats.BuildFeatures(rec, items, &diag))
	}

	return &Result{
		MatchID:       match.Metadata.MatchID,
		GameDuration:  match.Info.GameDuration,
		SoloKills:     kills,
		LaneSoloKills: laneKills,
		Statistics:    stats.Compute(kills),
		Matchups:      pairings.Matchups,
		UnpairedRoles: pairings.Unpaired,
		Features:      features,
		Participants:  registry.All(),
		Diagnostics:   diag,
	}, nil
}
