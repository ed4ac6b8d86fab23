package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"timeline-analyzer/internal/collector"
	"timeline-analyzer/internal/db"
	"timeline-analyzer/internal/discord"
	"timeline-analyzer/internal/riot"
	"timeline-analyzer/internal/stats"
	"timeline-analyzer/internal/storage"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	// Parse flags
	riotID := flag.String("riot-id", "", "Starting Riot ID (e.g., 'Player#NA1')")
	puuid := flag.String("puuid", "", "Starting PUUID")
	matchCount := flag.Int("count", 20, "Number of matches to fetch per player")
	maxPlayers := flag.Int("max-players", 100, "Maximum unique players to crawl")
	workers := flag.Int("workers", collector.DefaultWorkerCount, "Concurrent match analysis workers")
	itemPath := flag.String("items", "", "Path to Data Dragon item.json (optional)")
	useDB := flag.Bool("db", false, "Also store results in Postgres (DATABASE_URL)")
	flag.Parse()

	// Get blob storage path from env (required)
	dataDir := os.Getenv("BLOB_STORAGE_PATH")
	if dataDir == "" {
		log.Fatal("BLOB_STORAGE_PATH environment variable not set")
	}
	dataDir = strings.Trim(dataDir, "\"")
	fmt.Printf("Using storage path: %s\n", dataDir)

	if *riotID == "" && *puuid == "" {
		fmt.Println("Usage:")
		fmt.Println("  collector --riot-id='Player#NA1' [--count=20] [--max-players=100]")
		fmt.Println("  collector --puuid=PUUID [--count=20] [--max-players=100]")
		fmt.Println()
		fmt.Println("Storage path is set via BLOB_STORAGE_PATH in .env")
		fmt.Println()
		fmt.Println("This will replay matches from the starting player, then snowball")
		fmt.Println("to other players found in those matches. Solo kill features are")
		fmt.Println("written to rotating JSONL files in:")
		fmt.Println("  hot/   - Active writes")
		fmt.Println("  warm/  - Closed files awaiting processing")
		fmt.Println("  cold/  - Compressed archives")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n[Shutdown] Gracefully shutting down...")
		cancel()
	}()

	// Item value table (bundled defaults unless a Data Dragon dump is given)
	items := stats.DefaultItemTable()
	if *itemPath != "" {
		loaded, err := stats.LoadItemTable(*itemPath)
		if err != nil {
			log.Fatalf("Failed to load item table from %s: %v", *itemPath, err)
		}
		items = loaded
		fmt.Printf("Loaded item values from: %s\n", *itemPath)
	}

	// Create file rotator
	rotator, err := storage.NewFileRotator(dataDir)
	if err != nil {
		log.Fatalf("Failed to create file rotator: %v", err)
	}
	defer func() {
		if err := rotator.Close(); err != nil {
			log.Printf("Error closing rotator: %v", err)
		}
	}()

	// Optional Postgres store
	var store *db.DB
	if *useDB {
		store, err = db.New(ctx)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		fmt.Println("Storing results in Postgres")
	}

	// Optional Discord webhook for session notifications
	var webhook *discord.WebhookClient
	if url := strings.Trim(os.Getenv("DISCORD_WEBHOOK_URL"), "\""); url != "" {
		webhook = discord.NewWebhookClient(url)
	}

	// Validate the API key before committing to a long crawl
	apiKey := os.Getenv("RIOT_API_KEY")
	validator := riot.NewKeyValidator()
	valid, err := validator.ValidateKey(ctx, apiKey)
	if err != nil {
		log.Fatalf("Failed to validate API key: %v", err)
	}
	if !valid {
		if webhook != nil {
			if err := webhook.SendKeyInvalid(ctx, apiKey); err != nil {
				log.Printf("Failed to send webhook: %v", err)
			}
		}
		log.Fatal("RIOT_API_KEY was rejected by the Riot API (401/403)")
	}

	// Create Riot API client
	client, err := riot.NewClient()
	if err != nil {
		log.Fatalf("Failed to create Riot client: %v", err)
	}

	// Get starting PUUID
	var startingPUUID string
	if *riotID != "" {
		parts := strings.SplitN(*riotID, "#", 2)
		if len(parts) != 2 {
			log.Fatalf("Invalid Riot ID format '%s', expected 'GameName#TagLine'", *riotID)
		}

		gameName := url.PathEscape(strings.TrimSpace(parts[0]))
		tagLine := url.PathEscape(strings.TrimSpace(parts[1]))

		fmt.Printf("Looking up Riot ID: %s#%s...\n", parts[0], parts[1])
		account, err := client.GetAccountByRiotID(ctx, gameName, tagLine)
		if err != nil {
			log.Fatalf("Failed to lookup %s: %v", *riotID, err)
		}
		fmt.Printf("  Found PUUID: %s\n", account.PUUID)
		startingPUUID = account.PUUID
	} else {
		startingPUUID = *puuid
	}

	crawler := collector.NewCrawler(client, rotator, store, items, collector.CrawlerConfig{
		MatchesPerPlayer: *matchCount,
		MaxPlayers:       *maxPlayers,
		WorkerCount:      *workers,
	})

	if webhook != nil {
		if err := webhook.SendCrawlStarted(ctx, apiKey, startingPUUID); err != nil {
			log.Printf("Failed to send webhook: %v", err)
		}
	}

	startTime := time.Now()
	if err := crawler.Run(ctx, startingPUUID); err != nil {
		log.Fatalf("Crawl failed: %v", err)
	}

	if webhook != nil {
		// The run context may already be canceled; use a fresh one
		_, analyzed, _, kills := crawler.Summary()
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer notifyCancel()
		if err := webhook.SendCrawlCompleted(notifyCtx, int(analyzed), int(kills), time.Since(startTime)); err != nil {
			log.Printf("Failed to send webhook: %v", err)
		}
	}
}
