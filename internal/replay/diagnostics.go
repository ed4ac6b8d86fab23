package replay

// Diagnostics counts the stage-local anomalies absorbed during a replay.
// Anomalies never abort the replay; callers inspect the counters instead of
// parsing log output.
type Diagnostics struct {
	// MissingParticipants counts events referencing a participant id absent
	// from the registry (includes kills credited to non-participants, e.g.
	// turret executions with killerId 0).
	MissingParticipants int `json:"missingParticipants"`

	// MissingStateSamples counts kill events skipped because a referenced
	// participant had no frame sample at or before the kill.
	MissingStateSamples int `json:"missingStateSamples"`

	// UnmatchedUndos counts undo events whose item id did not match the most
	// recently applied purchase/sell for that participant.
	UnmatchedUndos int `json:"unmatchedUndos"`

	// UnknownItems counts item ids valued at the configured default because
	// they were absent from the static item table.
	UnknownItems int `json:"unknownItems"`
}
