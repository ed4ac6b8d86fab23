package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	json "github.com/goccy/go-json"

	"timeline-analyzer/internal/analyzer"
	"timeline-analyzer/internal/riot"
	"timeline-analyzer/internal/stats"
)

func main() {
	matchPath := flag.String("match", "", "Path to match JSON (Match-V5)")
	timelinePath := flag.String("timeline", "", "Path to timeline JSON (Match-V5 timeline)")
	itemPath := flag.String("items", "", "Path to Data Dragon item.json (optional)")
	outPath := flag.String("out", "", "Write full result bundle JSON to this path")
	featurePath := flag.String("features", "", "Append matchup features as JSONL to this path")
	flag.Parse()

	if *matchPath == "" || *timelinePath == "" {
		fmt.Println("Usage:")
		fmt.Println("  analyzer --match=match.json --timeline=timeline.json [--items=item.json]")
		fmt.Println("           [--out=result.json] [--features=features.jsonl]")
		os.Exit(1)
	}

	var match riot.MatchResponse
	if err := decodeFile(*matchPath, &match); err != nil {
		log.Fatalf("Failed to read match: %v", err)
	}

	var timeline riot.TimelineResponse
	if err := decodeFile(*timelinePath, &timeline); err != nil {
		log.Fatalf("Failed to read timeline: %v", err)
	}

	items := stats.DefaultItemTable()
	if *itemPath != "" {
		loaded, err := stats.LoadItemTable(*itemPath)
		if err != nil {
			log.Fatalf("Failed to load item table: %v", err)
		}
		items = loaded
	}

	result, err := analyzer.Analyze(&match, &timeline, items)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printSummary(result)

	if *outPath != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal result: %v", err)
		}
		if err := os.WriteFile(*outPath, data, 0644); err != nil {
			log.Fatalf("Failed to write result: %v", err)
		}
		fmt.Printf("\nResult bundle written to %s\n", *outPath)
	}

	if *featurePath != "" {
		if err := appendFeatures(*featurePath, result.Features); err != nil {
			log.Fatalf("Failed to write features: %v", err)
		}
		fmt.Printf("Wrote %d feature rows to %s\n", len(result.Features), *featurePath)
	}
}

func decodeFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func appendFeatures(path string, features []stats.MatchupFeatures) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range features {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(res *analyzer.Result) {
	fmt.Printf("=== Match %s ===\n", res.MatchID)
	fmt.Printf("Duration: %ds\n", res.GameDuration)
	fmt.Printf("Solo kills: %d\n", res.Statistics.TotalSoloKills)
	if res.Statistics.FirstBloodTime > 0 {
		fmt.Printf("First solo kill at: %ds\n", res.Statistics.FirstBloodTime/1000)
	}
	fmt.Printf("Phase split: early=%d mid=%d late=%d\n",
		res.Statistics.EarlyGameKills, res.Statistics.MidGameKills, res.Statistics.LateGameKills)
	fmt.Printf("Avg level diff: %.2f, avg gold diff: %.1f\n",
		res.Statistics.AvgLevelDiff, res.Statistics.AvgGoldDiff)

	fmt.Printf("\nLane matchups (%d paired", len(res.Matchups))
	if len(res.UnpairedRoles) > 0 {
		fmt.Printf(", %d unpaired", len(res.UnpairedRoles))
	}
	fmt.Println("):")
	for _, f := range res.Features {
		fmt.Printf("  %-7s %s vs %s (item gold diff %+d)\n",
			f.Lane, f.Champion1Name, f.Champion2Name, f.ItemGoldDiff)
	}
	for _, role := range res.UnpairedRoles {
		fmt.Printf("  %-7s unpaired\n", string(role))
	}

	d := res.Diagnostics
	if d.MissingParticipants+d.MissingStateSamples+d.UnmatchedUndos+d.UnknownItems > 0 {
		fmt.Printf("\nDiagnostics: missing_participants=%d missing_state=%d unmatched_undos=%d unknown_items=%d\n",
			d.MissingParticipants, d.MissingStateSamples, d.UnmatchedUndos, d.UnknownItems)
	}
}
