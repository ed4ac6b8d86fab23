package replay

import (
	"sort"
	"strconv"

	"timeline-analyzer/internal/riot"
)

// StateSample is one participant's periodic snapshot at a frame boundary
type StateSample struct {
	ParticipantID       int           `json:"participantId"`
	Timestamp           int           `json:"timestamp"`
	Level               int           `json:"level"`
	CurrentGold         int           `json:"currentGold"`
	TotalGold           int           `json:"totalGold"`
	XP                  int           `json:"xp"`
	MinionsKilled       int           `json:"minionsKilled"`
	JungleMinionsKilled int           `json:"jungleMinionsKilled"`
	Position            riot.Position `json:"position"`
}

type levelUpSignal struct {
	timestamp int
	level     int // post-level the signal reports
}

// StateTimeline answers "state of participant P immediately before instant T"
// from the periodic frame samples, correcting the level when a sub-frame
// level-up signal reveals the frame value is stale.
type StateTimeline struct {
	samples  map[int][]StateSample
	levelUps map[int][]levelUpSignal
}

// NewStateTimeline indexes the timeline document's frames plus the level-up
// signals of the flattened event stream.
func NewStateTimeline(tl *riot.TimelineResponse, events []Event) *StateTimeline {
	t := &StateTimeline{
		samples:  make(map[int][]StateSample),
		levelUps: make(map[int][]levelUpSignal),
	}

	for _, frame := range tl.Info.Frames {
		for key, pf := range frame.ParticipantFrames {
			pid, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			t.samples[pid] = append(t.samples[pid], StateSample{
				ParticipantID:       pid,
				Timestamp:           frame.Timestamp,
				Level:               pf.Level,
				CurrentGold:         pf.CurrentGold,
				TotalGold:           pf.TotalGold,
				XP:                  pf.XP,
				MinionsKilled:       pf.MinionsKilled,
				JungleMinionsKilled: pf.JungleMinionsKilled,
				Position:            pf.Position,
			})
		}
	}
	for pid := range t.samples {
		s := t.samples[pid]
		sort.SliceStable(s, func(i, j int) bool { return s[i].Timestamp < s[j].Timestamp })
	}

	for _, ev := range events {
		if ev.Kind != KindLevelUp {
			continue
		}
		t.levelUps[ev.ParticipantID] = append(t.levelUps[ev.ParticipantID],
			levelUpSignal{timestamp: ev.Timestamp, level: ev.Level})
	}

	return t
}

// StateAt returns the latest sample for the participant at or before ts,
// with the level correction applied: if a level-up signal lands strictly
// after the chosen sample but at or before ts, the frame's level is stale and
// the true pre-kill level is the signal's post-level minus one.
func (t *StateTimeline) StateAt(pid, ts int) (StateSample, bool) {
	samples := t.samples[pid]
	idx := sort.Search(len(samples), func(i int) bool { return samples[i].Timestamp > ts })
	if idx == 0 {
		return StateSample{}, false
	}
	s := samples[idx-1]

	corrected := 0
	for _, lu := range t.levelUps[pid] {
		if lu.timestamp > s.Timestamp && lu.timestamp <= ts {
			corrected = lu.level
		}
	}
	if corrected > 0 {
		s.Level = corrected - 1
		if s.Level < 1 {
			s.Level = 1
		}
	}

	return s, true
}
