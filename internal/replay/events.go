package replay

import (
	"sort"

	"timeline-analyzer/internal/riot"
)

// EventKind is the closed set of timeline event types the replay engine
// understands. Everything else in the document maps to KindIgnored.
type EventKind int

const (
	KindIgnored EventKind = iota
	KindItemPurchased
	KindItemSold
	KindItemDestroyed
	KindItemUndo
	KindChampionKill
	KindLevelUp
)

var eventKinds = map[string]EventKind{
	"ITEM_PURCHASED": KindItemPurchased,
	"ITEM_SOLD":      KindItemSold,
	"ITEM_DESTROYED": KindItemDestroyed,
	"ITEM_UNDO":      KindItemUndo,
	"CHAMPION_KILL":  KindChampionKill,
	"LEVEL_UP":       KindLevelUp,
}

// ParseEventKind maps a raw event type string to its kind
func ParseEventKind(s string) EventKind {
	if k, ok := eventKinds[s]; ok {
		return k
	}
	return KindIgnored
}

// Event is a typed in-frame event. Only the fields relevant to its kind are
// populated.
type Event struct {
	Kind          EventKind
	Timestamp     int
	ParticipantID int
	ItemID        int
	Level         int

	// Champion kill fields
	KillerID     int
	VictimID     int
	AssistingIDs []int
	Bounty       int
	Shutdown     bool
	FirstBlood   bool
}

// CollectEvents flattens the timeline document into a single event stream in
// non-decreasing timestamp order. Sorting is stable so ties keep source order,
// which the inventory replay depends on.
func CollectEvents(tl *riot.TimelineResponse) []Event {
	var events []Event
	for _, frame := range tl.Info.Frames {
		for _, raw := range frame.Events {
			kind := ParseEventKind(raw.Type)
			if kind == KindIgnored {
				continue
			}
			ev := Event{
				Kind:          kind,
				Timestamp:     raw.Timestamp,
				ParticipantID: raw.ParticipantID,
				ItemID:        raw.ItemID,
				Level:         raw.Level,
			}
			if kind == KindChampionKill {
				ev.KillerID = raw.KillerID
				ev.VictimID = raw.VictimID
				ev.AssistingIDs = raw.AssistingParticipantIDs
				ev.Bounty = raw.Bounty
				ev.Shutdown = raw.ShutdownBounty > 0
				ev.FirstBlood = raw.KillType == "KILL_FIRST_BLOOD"
			}
			events = append(events, ev)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	return events
}
