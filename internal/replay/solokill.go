package replay

import "timeline-analyzer/internal/riot"

// Combatant is one side of a solo kill with its reconstructed pre-kill state
type Combatant struct {
	ParticipantID int           `json:"participantId"`
	Level         int           `json:"level"`
	TotalGold     int           `json:"totalGold"`
	Position      riot.Position `json:"position"`
	Items         []int         `json:"items"` // exactly InventorySlots entries, 0 = empty
}

// SoloKillRecord is an elimination with no assists between opposing sides,
// bound to both parties' exact pre-kill state.
type SoloKillRecord struct {
	Timestamp       int       `json:"timestamp"`
	GameTimeSeconds int       `json:"gameTimeSeconds"`
	Killer          Combatant `json:"killer"`
	Victim          Combatant `json:"victim"`
	Bounty          int       `json:"bounty"`
	FirstBlood      bool      `json:"firstBlood"`
	Shutdown        bool      `json:"shutdown"`
}

// ExtractSoloKills scans the elimination events of the stream in timestamp
// order and emits one record per qualifying kill. Assisted and same-side
// kills are excluded by design; events referencing unknown participants or
// participants without a frame sample are skipped and counted in diag.
func ExtractSoloKills(events []Event, reg *Registry, states *StateTimeline, ledger *Ledger, diag *Diagnostics) []SoloKillRecord {
	kills := make([]SoloKillRecord, 0)

	for _, ev := range events {
		if ev.Kind != KindChampionKill {
			continue
		}
		if len(ev.AssistingIDs) > 0 {
			continue
		}

		killer, ok := reg.Get(ev.KillerID)
		if !ok {
			diag.MissingParticipants++
			continue
		}
		victim, ok := reg.Get(ev.VictimID)
		if !ok {
			diag.MissingParticipants++
			continue
		}
		if killer.TeamID == victim.TeamID {
			continue
		}

		killerState, ok := states.StateAt(killer.ID, ev.Timestamp)
		if !ok {
			diag.MissingStateSamples++
			continue
		}
		victimState, ok := states.StateAt(victim.ID, ev.Timestamp)
		if !ok {
			diag.MissingStateSamples++
			continue
		}

		kills = append(kills, SoloKillRecord{
			Timestamp:       ev.Timestamp,
			GameTimeSeconds: ev.Timestamp / 1000,
			Killer:          bindCombatant(killer.ID, killerState, ledger, ev.Timestamp),
			Victim:          bindCombatant(victim.ID, victimState, ledger, ev.Timestamp),
			Bounty:          ev.Bounty,
			FirstBlood:      ev.FirstBlood,
			Shutdown:        ev.Shutdown,
		})
	}

	return kills
}

func bindCombatant(pid int, s StateSample, ledger *Ledger, ts int) Combatant {
	return Combatant{
		ParticipantID: pid,
		Level:         s.Level,
		TotalGold:     s.TotalGold,
		Position:      s.Position,
		Items:         ledger.PaddedItemsAt(pid, ts),
	}
}
