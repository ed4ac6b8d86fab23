package riot

// AccountResponse represents the response from /riot/account/v1/accounts/by-riot-id
type AccountResponse struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// MatchResponse represents the response from /lol/match/v5/matches/{matchId}
type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	GameCreation int64              `json:"gameCreation"`
	GameDuration int                `json:"gameDuration"`
	GameVersion  string             `json:"gameVersion"`
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
}

type MatchParticipant struct {
	ParticipantID  int    `json:"participantId"`
	PUUID          string `json:"puuid"`
	RiotIdGameName string `json:"riotIdGameName"`
	RiotIdTagline  string `json:"riotIdTagline"`
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	ChampLevel     int    `json:"champLevel"`
	TeamID         int    `json:"teamId"`       // 100 or 200
	TeamPosition   string `json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	Win            bool   `json:"win"`

	// End-of-game tallies
	Kills                       int `json:"kills"`
	Deaths                      int `json:"deaths"`
	Assists                     int `json:"assists"`
	GoldEarned                  int `json:"goldEarned"`
	GoldSpent                   int `json:"goldSpent"`
	TotalMinionsKilled          int `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int `json:"neutralMinionsKilled"`
	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int `json:"totalDamageTaken"`
	VisionScore                 int `json:"visionScore"`

	// Final inventory
	Item0 int `json:"item0"`
	Item1 int `json:"item1"`
	Item2 int `json:"item2"`
	Item3 int `json:"item3"`
	Item4 int `json:"item4"`
	Item5 int `json:"item5"`
	Item6 int `json:"item6"` // Trinket
}

// Items returns the participant's final inventory as a 7-slot list
func (p *MatchParticipant) Items() []int {
	return []int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6}
}

// CreepScore returns lane plus jungle minion kills
func (p *MatchParticipant) CreepScore() int {
	return p.TotalMinionsKilled + p.NeutralMinionsKilled
}

// TimelineResponse represents the response from /lol/match/v5/matches/{matchId}/timeline
type TimelineResponse struct {
	Metadata TimelineMetadata `json:"metadata"`
	Info     TimelineInfo     `json:"info"`
}

type TimelineMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type TimelineInfo struct {
	FrameInterval int             `json:"frameInterval"`
	Frames        []TimelineFrame `json:"frames"`
}

type TimelineFrame struct {
	Timestamp         int                         `json:"timestamp"`
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"` // keyed by participant id as string
	Events            []TimelineEvent             `json:"events"`
}

// ParticipantFrame is the periodic per-participant snapshot inside a frame
type ParticipantFrame struct {
	ParticipantID       int      `json:"participantId"`
	Level               int      `json:"level"`
	CurrentGold         int      `json:"currentGold"`
	TotalGold           int      `json:"totalGold"`
	XP                  int      `json:"xp"`
	MinionsKilled       int      `json:"minionsKilled"`
	JungleMinionsKilled int      `json:"jungleMinionsKilled"`
	Position            Position `json:"position"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TimelineEvent is a discrete in-frame event. Fields are populated per type;
// unrecognized types are carried through and ignored by the replay engine.
type TimelineEvent struct {
	Type          string `json:"type"`
	Timestamp     int    `json:"timestamp"`
	ParticipantID int    `json:"participantId,omitempty"`
	ItemID        int    `json:"itemId,omitempty"`
	Level         int    `json:"level,omitempty"`

	// CHAMPION_KILL fields
	KillerID                int       `json:"killerId,omitempty"`
	VictimID                int       `json:"victimId,omitempty"`
	AssistingParticipantIDs []int     `json:"assistingParticipantIds,omitempty"`
	Bounty                  int       `json:"bounty,omitempty"`
	ShutdownBounty          int       `json:"shutdownBounty,omitempty"`
	KillType                string    `json:"killType,omitempty"`
	Position                *Position `json:"position,omitempty"`
}
