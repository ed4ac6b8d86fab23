package replay

import (
	"errors"
	"fmt"
	"sort"

	"timeline-analyzer/internal/riot"
)

// ErrMalformedDocument indicates a document is missing a required top-level
// field. It is the only condition that aborts a match's replay.
var ErrMalformedDocument = errors.New("malformed document")

// Role is a participant's assigned lane
type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMiddle  Role = "MIDDLE"
	RoleBottom  Role = "BOTTOM"
	RoleUtility Role = "UTILITY"
	RoleUnknown Role = "UNKNOWN"
)

// Roles lists the five assigned lanes in display order
var Roles = []Role{RoleTop, RoleJungle, RoleMiddle, RoleBottom, RoleUtility}

// ParseRole maps a teamPosition string to a Role, falling back to UNKNOWN
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleTop, RoleJungle, RoleMiddle, RoleBottom, RoleUtility:
		return Role(s)
	}
	return RoleUnknown
}

// Participant holds the static per-match attributes of one participant.
// Immutable after registry construction.
type Participant struct {
	ID           int    `json:"participantId"`
	TeamID       int    `json:"teamId"`
	Role         Role   `json:"role"`
	ChampionID   int    `json:"championId"`
	ChampionName string `json:"championName"`
	Win          bool   `json:"win"`
}

// Registry is the per-match participant lookup
type Registry struct {
	byID map[int]Participant
}

// BuildRegistry builds the participant lookup from the match-summary document.
// A document without a participants list is malformed.
func BuildRegistry(match *riot.MatchResponse) (*Registry, error) {
	if match == nil || len(match.Info.Participants) == 0 {
		return nil, fmt.Errorf("match summary has no participants: %w", ErrMalformedDocument)
	}

	byID := make(map[int]Participant, len(match.Info.Participants))
	for _, p := range match.Info.Participants {
		byID[p.ParticipantID] = Participant{
			ID:           p.ParticipantID,
			TeamID:       p.TeamID,
			Role:         ParseRole(p.TeamPosition),
			ChampionID:   p.ChampionID,
			ChampionName: p.ChampionName,
			Win:          p.Win,
		}
	}
	return &Registry{byID: byID}, nil
}

// Get returns the participant with the given id
func (r *Registry) Get(id int) (Participant, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Len returns the number of registered participants
func (r *Registry) Len() int {
	return len(r.byID)
}

// IDs returns all participant ids in ascending order
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// All returns a copy of the id → participant mapping
func (r *Registry) All() map[int]Participant {
	out := make(map[int]Participant, len(r.byID))
	for id, p := range r.byID {
		out[id] = p
	}
	return out
}
