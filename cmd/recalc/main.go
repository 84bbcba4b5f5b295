package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/osse101/playcredits/internal/bootstrap"
	"github.com/osse101/playcredits/internal/config"
	"github.com/osse101/playcredits/internal/database"
	"github.com/osse101/playcredits/internal/event"
)

func main() {
	gameID := flag.Int64("game", 0, "recalculate credits for one game")
	all := flag.Bool("all", false, "recalculate credits for every game")
	refreshUser := flag.String("refresh-balance", "", "recompute one user's balance")
	diffPeriod := flag.Int64("diff-period", 0, "compare a period's stored history with a fresh ranking")
	snapshotPeriod := flag.Int64("snapshot-period", 0, "rewrite a period's history")
	deadLetters := flag.Bool("dead-letters", false, "summarize undeliverable events and exit")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall timeout")
	flag.Parse()

	if *gameID == 0 && !*all && *refreshUser == "" && *diffPeriod == 0 && *snapshotPeriod == 0 && !*deadLetters {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *deadLetters {
		summarizeDeadLetters(cfg.EventDeadLetterPath)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	_, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize events: %v", err)
	}
	defer func() { _ = publisher.Shutdown(context.Background()) }()

	svcs, err := bootstrap.InitializeServices(cfg, bootstrap.InitializeRepositories(pool), publisher)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch {
	case *all:
		reports, err := svcs.Ledger.RecalculateAll(ctx)
		printJSON(reports)
		if err != nil {
			log.Fatalf("Recalculation stopped: %v", err)
		}
	case *gameID != 0:
		report, err := svcs.Ledger.RecalculateGame(ctx, *gameID)
		if err != nil {
			log.Fatalf("Recalculation failed: %v", err)
		}
		printJSON(report)
	case *refreshUser != "":
		balance, err := svcs.Ledger.RefreshBalance(ctx, *refreshUser)
		if err != nil {
			log.Fatalf("Balance refresh failed: %v", err)
		}
		printJSON(balance)
	case *snapshotPeriod != 0:
		result, err := svcs.Leaderboard.Record(ctx, *snapshotPeriod)
		if err != nil {
			log.Fatalf("Snapshot failed: %v", err)
		}
		printJSON(result)
	case *diffPeriod != 0:
		diff, err := svcs.Leaderboard.Diff(ctx, *diffPeriod)
		if err != nil {
			log.Fatalf("Diff failed: %v", err)
		}
		printJSON(diff)
		if !diff.Clean() {
			os.Exit(1)
		}
	}
}

type deadLetterSummary struct {
	Path   string                 `json:"path"`
	Total  int                    `json:"total"`
	ByType map[event.Type]int     `json:"by_type"`
	Latest *event.DeadLetterEntry `json:"latest,omitempty"`
}

func summarizeDeadLetters(path string) {
	if path == "" {
		path = bootstrap.EventDefaultDeadLetterPath
	}
	entries, err := event.ReadDeadLetters(path)
	if err != nil {
		log.Fatalf("Failed to read dead letters: %v", err)
	}

	summary := deadLetterSummary{Path: path, Total: len(entries), ByType: make(map[event.Type]int)}
	for i := range entries {
		summary.ByType[entries[i].Event.Type]++
	}
	if len(entries) > 0 {
		summary.Latest = &entries[len(entries)-1]
	}
	printJSON(summary)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}
