package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"timeline-analyzer/internal/analyzer"
	"timeline-analyzer/internal/db"
	"timeline-analyzer/internal/replay"
	"timeline-analyzer/internal/riot"
	"timeline-analyzer/internal/stats"
	"timeline-analyzer/internal/storage"
)

const (
	DefaultWorkerCount = 4
	matchChannelBuffer = 50
)

// CrawlerConfig holds configuration for the crawler
type CrawlerConfig struct {
	MatchesPerPlayer int
	MaxPlayers       int
	WorkerCount      int
}

// Crawler walks the match graph from a seed player: fetch a player's match
// history, analyze every unseen match, queue the participants it finds.
// Each worker replays one match at a time; replays share no state, so the
// pool parallelizes cleanly across matches.
type Crawler struct {
	client  *riot.Client
	rotator *storage.FileRotator
	store   *db.DB // optional, may be nil
	items   *stats.ItemTable

	matchesPerPlayer int
	maxPlayers       int
	workerCount      int

	// Deduplication (bloom filters for memory efficiency)
	visitedMatches *bloom.BloomFilter
	visitedPlayers *bloom.BloomFilter
	matchesMu      sync.Mutex
	playersMu      sync.Mutex

	playerQueue   []string
	playerQueueMu sync.Mutex

	matchJobs chan string
	results   chan *matchResult

	// Stats (atomic for thread safety)
	playersQueued   int64
	matchesAnalyzed int64
	matchesSkipped  int64
	soloKillsFound  int64
	startTime       time.Time

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// matchResult carries one analyzed match from a worker to the writer
type matchResult struct {
	matchID   string
	result    *analyzer.Result
	newPUUIDs []string
	err       error
}

// NewCrawler creates a crawler. store may be nil to skip DB persistence.
func NewCrawler(client *riot.Client, rotator *storage.FileRotator, store *db.DB, items *stats.ItemTable, cfg CrawlerConfig) *Crawler {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if items == nil {
		items = stats.DefaultItemTable()
	}

	return &Crawler{
		client:           client,
		rotator:          rotator,
		store:            store,
		items:            items,
		matchesPerPlayer: cfg.MatchesPerPlayer,
		maxPlayers:       cfg.MaxPlayers,
		workerCount:      cfg.WorkerCount,
		visitedMatches:   bloom.NewWithEstimates(500000, 0.001),
		visitedPlayers:   bloom.NewWithEstimates(1000000, 0.001),
		playerQueue:      make([]string, 0, 1000),
		matchJobs:        make(chan string, matchChannelBuffer),
		results:          make(chan *matchResult, matchChannelBuffer),
	}
}

// Run crawls starting from the given PUUID until maxPlayers players have
// been processed or the queue drains. Shutdown order matters: workers must
// finish before results is closed, and the writer must drain before the
// caller's rotator is closed, or the last hot file never reaches warm.
func (c *Crawler) Run(ctx context.Context, startingPUUID string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.cancelMu.Lock()
	c.cancel = cancel
	c.cancelMu.Unlock()

	c.startTime = time.Now()
	c.addPlayer(startingPUUID)

	var workers sync.WaitGroup
	for i := 0; i < c.workerCount; i++ {
		workers.Add(1)
		go c.worker(ctx, &workers)
	}

	writerDone := make(chan struct{})
	go c.processResults(ctx, writerDone)

	c.producerLoop(ctx)

	close(c.matchJobs)
	workers.Wait()
	close(c.results)
	<-writerDone

	c.printSummary()
	return nil
}

// Stop cancels a running crawl
func (c *Crawler) Stop() {
	c.cancelMu.Lock()
	defer c.cancelMu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// producerLoop pops players off the queue and dispatches their unseen matches
func (c *Crawler) producerLoop(ctx context.Context) {
	playersProcessed := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if playersProcessed >= c.maxPlayers {
			return
		}

		puuid := c.popPlayer()
		if puuid == "" {
			time.Sleep(100 * time.Millisecond)
			if c.isQueueEmpty() && len(c.matchJobs) == 0 {
				return
			}
			continue
		}

		matchIDs, err := c.client.GetMatchHistory(ctx, puuid, c.matchesPerPlayer)
		if err != nil {
			log.Printf("[Crawler] Failed to fetch match history for %s: %v", shortID(puuid), err)
			continue
		}
		playersProcessed++

		fmt.Printf("\n[Player %d/%d] [%s] Processing: %s... (%d matches)\n",
			playersProcessed, c.maxPlayers,
			formatDuration(time.Since(c.startTime)), shortID(puuid), len(matchIDs))

		for _, matchID := range matchIDs {
			if c.hasVisitedMatch(matchID) {
				continue
			}
			c.markMatchVisited(matchID)

			select {
			case c.matchJobs <- matchID:
			case <-ctx.Done():
				return
			}
		}
	}
}

// worker fetches and replays matches from the job channel
func (c *Crawler) worker(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case matchID, ok := <-c.matchJobs:
			if !ok {
				return
			}

			// The writer reads until results is closed, which happens only
			// after every worker returns, so this send never blocks forever
			c.results <- c.analyzeMatch(ctx, matchID)
		}
	}
}

// analyzeMatch fetches both documents and runs the replay for one match
func (c *Crawler) analyzeMatch(ctx context.Context, matchID string) *matchResult {
	res := &matchResult{matchID: matchID}

	match, err := c.client.GetMatch(ctx, matchID)
	if err != nil {
		res.err = fmt.Errorf("match fetch: %w", err)
		return res
	}

	timeline, err := c.client.GetTimeline(ctx, matchID)
	if err != nil {
		res.err = fmt.Errorf("timeline fetch: %w", err)
		return res
	}

	bundle, err := analyzer.Analyze(match, timeline, c.items)
	if err != nil {
		res.err = fmt.Errorf("analyze: %w", err)
		return res
	}
	res.result = bundle

	for _, p := range match.Info.Participants {
		if !c.hasVisitedPlayer(p.PUUID) {
			res.newPUUIDs = append(res.newPUUIDs, p.PUUID)
		}
	}

	return res
}

// processResults writes analyzed matches to the feature sink and the store.
// It drains results until the channel closes, even after cancellation, so
// every analyzed match reaches the rotator before Run returns.
func (c *Crawler) processResults(ctx context.Context, done chan struct{}) {
	defer close(done)

	for res := range c.results {
		if res.err != nil {
			if errors.Is(res.err, replay.ErrMalformedDocument) {
				log.Printf("  [Writer] Skipping malformed %s: %v", res.matchID, res.err)
			} else {
				log.Printf("  [Writer] Failed %s: %v", res.matchID, res.err)
			}
			atomic.AddInt64(&c.matchesSkipped, 1)
			continue
		}

		for _, f := range res.result.Features {
			if err := c.rotator.WriteLine(f); err != nil {
				log.Printf("  [Writer] Failed to write features: %v", err)
			}
		}
		if err := c.rotator.MatchComplete(); err != nil {
			log.Printf("  [Writer] Failed to complete match: %v", err)
		}

		if c.store != nil {
			if err := c.store.InsertAnalysis(ctx, res.result); err != nil {
				log.Printf("  [Writer] Failed to store %s: %v", res.matchID, err)
			}
		}

		atomic.AddInt64(&c.matchesAnalyzed, 1)
		atomic.AddInt64(&c.soloKillsFound, int64(res.result.Statistics.TotalSoloKills))

		for _, puuid := range res.newPUUIDs {
			c.addPlayer(puuid)
		}
	}
}

// Bloom filter helpers with mutex protection
func (c *Crawler) hasVisitedMatch(matchID string) bool {
	c.matchesMu.Lock()
	defer c.matchesMu.Unlock()
	return c.visitedMatches.TestString(matchID)
}

func (c *Crawler) markMatchVisited(matchID string) {
	c.matchesMu.Lock()
	defer c.matchesMu.Unlock()
	c.visitedMatches.AddString(matchID)
}

func (c *Crawler) hasVisitedPlayer(puuid string) bool {
	c.playersMu.Lock()
	defer c.playersMu.Unlock()
	return c.visitedPlayers.TestString(puuid)
}

// Queue helpers
func (c *Crawler) addPlayer(puuid string) {
	c.playersMu.Lock()
	if c.visitedPlayers.TestString(puuid) {
		c.playersMu.Unlock()
		return
	}
	c.visitedPlayers.AddString(puuid)
	c.playersMu.Unlock()

	c.playerQueueMu.Lock()
	c.playerQueue = append(c.playerQueue, puuid)
	c.playerQueueMu.Unlock()

	atomic.AddInt64(&c.playersQueued, 1)
}

func (c *Crawler) popPlayer() string {
	c.playerQueueMu.Lock()
	defer c.playerQueueMu.Unlock()

	if len(c.playerQueue) == 0 {
		return ""
	}

	puuid := c.playerQueue[0]
	c.playerQueue = c.playerQueue[1:]
	return puuid
}

func (c *Crawler) isQueueEmpty() bool {
	c.playerQueueMu.Lock()
	defer c.playerQueueMu.Unlock()
	return len(c.playerQueue) == 0
}

// Summary returns the crawl counters: players discovered, matches analyzed,
// matches skipped, solo kills found.
func (c *Crawler) Summary() (players, analyzed, skipped, kills int64) {
	return atomic.LoadInt64(&c.playersQueued),
		atomic.LoadInt64(&c.matchesAnalyzed),
		atomic.LoadInt64(&c.matchesSkipped),
		atomic.LoadInt64(&c.soloKillsFound)
}

func (c *Crawler) printSummary() {
	elapsed := time.Since(c.startTime)
	analyzed := atomic.LoadInt64(&c.matchesAnalyzed)
	skipped := atomic.LoadInt64(&c.matchesSkipped)
	kills := atomic.LoadInt64(&c.soloKillsFound)

	fmt.Printf("\n=== Crawl Complete ===\n")
	fmt.Printf("Total time: %s\n", formatDuration(elapsed))
	fmt.Printf("Players discovered: %d\n", atomic.LoadInt64(&c.playersQueued))
	fmt.Printf("Matches analyzed: %d (skipped %d)\n", analyzed, skipped)
	fmt.Printf("Solo kills found: %d\n", kills)

	if analyzed > 0 {
		fmt.Printf("Avg time per match: %s\n", formatDuration(elapsed/time.Duration(analyzed)))
	}
}

func shortID(puuid string) string {
	if len(puuid) > 16 {
		return puuid[:16]
	}
	return puuid
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", hours, mins, secs)
}
