package stats

import (
	"timeline-analyzer/internal/matchup"
	"timeline-analyzer/internal/replay"
)

// MatchupFeatures is the flat per-matchup feature vector handed to the
// training pipeline. Field set and semantics are the stable contract; any
// serialization beyond the json tags is the consumer's concern.
type MatchupFeatures struct {
	MatchID string      `json:"matchId"`
	Lane    replay.Role `json:"lane"`

	Champion1ID   int    `json:"champion1Id"`
	Champion2ID   int    `json:"champion2Id"`
	Champion1Name string `json:"champion1Name"`
	Champion2Name string `json:"champion2Name"`

	Level1    int `json:"level1"`
	Level2    int `json:"level2"`
	LevelDiff int `json:"levelDiff"`

	GoldEarned1 int `json:"goldEarned1"`
	GoldEarned2 int `json:"goldEarned2"`
	GoldDiff    int `json:"goldDiff"`

	ItemGold1    int `json:"itemGold1"`
	ItemGold2    int `json:"itemGold2"`
	ItemGoldDiff int `json:"itemGoldDiff"`

	Kills1   int     `json:"kills1"`
	Deaths1  int     `json:"deaths1"`
	Assists1 int     `json:"assists1"`
	Kills2   int     `json:"kills2"`
	Deaths2  int     `json:"deaths2"`
	Assists2 int     `json:"assists2"`
	KDADiff  float64 `json:"kdaDiff"`

	DamageDealt1 int `json:"damageDealt1"`
	DamageDealt2 int `json:"damageDealt2"`
	DamageTaken1 int `json:"damageTaken1"`
	DamageTaken2 int `json:"damageTaken2"`

	CS1    int `json:"cs1"`
	CS2    int `json:"cs2"`
	CSDiff int `json:"csDiff"`

	GameDuration int    `json:"gameDuration"`
	GameVersion  string `json:"gameVersion"`

	Player1Win bool `json:"player1Win"`
	Player2Win bool `json:"player2Win"`
}

// BuildFeatures flattens one matchup record into its feature vector. Unknown
// item ids contribute the table's default value and are counted in diag.
func BuildFeatures(rec *matchup.Record, items *ItemTable, diag *replay.Diagnostics) MatchupFeatures {
	p1, p2 := rec.Player1, rec.Player2

	itemGold1 := items.TotalValue(p1.Items, diag)
	itemGold2 := items.TotalValue(p2.Items, diag)

	return MatchupFeatures{
		MatchID:       rec.MatchID,
		Lane:          rec.Lane,
		Champion1ID:   p1.ChampionID,
		Champion2ID:   p2.ChampionID,
		Champion1Name: p1.ChampionName,
		Champion2Name: p2.ChampionName,
		Level1:        p1.ChampLevel,
		Level2:        p2.ChampLevel,
		LevelDiff:     p1.ChampLevel - p2.ChampLevel,
		GoldEarned1:   p1.GoldEarned,
		GoldEarned2:   p2.GoldEarned,
		GoldDiff:      p1.GoldEarned - p2.GoldEarned,
		ItemGold1:     itemGold1,
		ItemGold2:     itemGold2,
		ItemGoldDiff:  itemGold1 - itemGold2,
		Kills1:        p1.Kills,
		Deaths1:       p1.Deaths,
		Assists1:      p1.Assists,
		Kills2:        p2.Kills,
		Deaths2:       p2.Deaths,
		Assists2:      p2.Assists,
		KDADiff:       kdaRatio(p1.Kills, p1.Deaths, p1.Assists) - kdaRatio(p2.Kills, p2.Deaths, p2.Assists),
		DamageDealt1:  p1.DamageDealt,
		DamageDealt2:  p2.DamageDealt,
		DamageTaken1:  p1.DamageTaken,
		DamageTaken2:  p2.DamageTaken,
		CS1:           p1.CreepScore,
		CS2:           p2.CreepScore,
		CSDiff:        p1.CreepScore - p2.CreepScore,
		GameDuration:  rec.GameDuration,
		GameVersion:   rec.GameVersion,
		Player1Win:    p1.Win,
		Player2Win:    p2.Win,
	}
}

// kdaRatio is (kills+assists)/max(deaths,1)
func kdaRatio(kills, deaths, assists int) float64 {
	if deaths < 1 {
		deaths = 1
	}
	return float64(kills+assists) / float64(deaths)
}
