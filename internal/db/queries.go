package db

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"timeline-analyzer/internal/analyzer"
	"timeline-analyzer/internal/replay"
)

// InsertAnalysis persists one analyzed match: the match summary row, its solo
// kills tagged with their lane, and the per-matchup feature rows.
func (db *DB) InsertAnalysis(ctx context.Context, res *analyzer.Result) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO matches (match_id, game_version, game_duration,
			total_solo_kills, first_blood_time, avg_level_diff, avg_gold_diff)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id) DO NOTHING
	`, res.MatchID, gameVersionOf(res), res.GameDuration,
		res.Statistics.TotalSoloKills, res.Statistics.FirstBloodTime,
		res.Statistics.AvgLevelDiff, res.Statistics.AvgGoldDiff)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", res.MatchID, err)
	}

	for _, role := range rolesWithUnknown() {
		for _, kill := range res.LaneSoloKills[role] {
			if err := db.insertSoloKill(ctx, res.MatchID, role, &kill); err != nil {
				return err
			}
		}
	}

	for _, f := range res.Features {
		_, err := db.pool.Exec(ctx, `
			INSERT INTO matchup_features (match_id, lane, champion1_id, champion2_id,
				level_diff, gold_diff, item_gold1, item_gold2, kda_diff, cs_diff, player1_win)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (match_id, lane) DO NOTHING
		`, f.MatchID, string(f.Lane), f.Champion1ID, f.Champion2ID,
			f.LevelDiff, f.GoldDiff, f.ItemGold1, f.ItemGold2, f.KDADiff, f.CSDiff, f.Player1Win)
		if err != nil {
			return fmt.Errorf("failed to insert features for %s %s: %w", f.MatchID, f.Lane, err)
		}
	}

	return nil
}

func (db *DB) insertSoloKill(ctx context.Context, matchID string, lane replay.Role, kill *replay.SoloKillRecord) error {
	killerItems, err := json.Marshal(kill.Killer.Items)
	if err != nil {
		return err
	}
	victimItems, err := json.Marshal(kill.Victim.Items)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx, `
		INSERT INTO solo_kills (match_id, timestamp, lane, killer_id, victim_id,
			killer_level, victim_level, killer_gold, victim_gold,
			killer_items, victim_items, bounty, first_blood, shutdown)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, matchID, kill.Timestamp, string(lane), kill.Killer.ParticipantID, kill.Victim.ParticipantID,
		kill.Killer.Level, kill.Victim.Level, kill.Killer.TotalGold, kill.Victim.TotalGold,
		killerItems, victimItems, kill.Bounty, kill.FirstBlood, kill.Shutdown)
	if err != nil {
		return fmt.Errorf("failed to insert solo kill: %w", err)
	}
	return nil
}

// MatchExists checks if a match has already been analyzed
func (db *DB) MatchExists(ctx context.Context, matchID string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM matches WHERE match_id = $1)
	`, matchID).Scan(&exists)
	return exists, err
}

// GetMatchCount returns the total number of analyzed matches
func (db *DB) GetMatchCount(ctx context.Context) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}

// GetSoloKillCount returns the total number of stored solo kills
func (db *DB) GetSoloKillCount(ctx context.Context) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM solo_kills`).Scan(&count)
	return count, err
}

// TrainingRow is one flat feature row served to the training job
type TrainingRow struct {
	MatchID     string  `json:"matchId"`
	Lane        string  `json:"lane"`
	Champion1ID int     `json:"champion1Id"`
	Champion2ID int     `json:"champion2Id"`
	LevelDiff   int     `json:"levelDiff"`
	GoldDiff    int     `json:"goldDiff"`
	ItemGold1   int     `json:"itemGold1"`
	ItemGold2   int     `json:"itemGold2"`
	KDADiff     float64 `json:"kdaDiff"`
	CSDiff      int     `json:"csDiff"`
	Player1Win  bool    `json:"player1Win"`
}

// SelectTrainingRows returns feature rows for a champion pairing, newest
// matches first. Zero champion ids match any champion.
func (db *DB) SelectTrainingRows(ctx context.Context, champion1ID, champion2ID, limit int) ([]TrainingRow, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT match_id, lane, champion1_id, champion2_id,
		       level_diff, gold_diff, item_gold1, item_gold2, kda_diff, cs_diff, player1_win
		FROM matchup_features
		WHERE ($1 = 0 OR champion1_id = $1)
		  AND ($2 = 0 OR champion2_id = $2)
		ORDER BY id DESC
		LIMIT $3
	`, champion1ID, champion2ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrainingRow
	for rows.Next() {
		var r TrainingRow
		if err := rows.Scan(&r.MatchID, &r.Lane, &r.Champion1ID, &r.Champion2ID,
			&r.LevelDiff, &r.GoldDiff, &r.ItemGold1, &r.ItemGold2, &r.KDADiff, &r.CSDiff, &r.Player1Win); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// gameVersionOf pulls the game version from the first matchup feature row;
// a match with no pairings stores an empty version.
func gameVersionOf(res *analyzer.Result) string {
	for _, f := range res.Features {
		return f.GameVersion
	}
	return ""
}

func rolesWithUnknown() []replay.Role {
	return append(append([]replay.Role{}, replay.Roles...), replay.RoleUnknown)
}
