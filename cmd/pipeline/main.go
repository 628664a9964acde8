package main

import (
	"context"
	"flag"
	"log"
	"time"

	"podcast-pipeline/pkg/config"
	"podcast-pipeline/pkg/ingest"
	"podcast-pipeline/pkg/pipeline"
	"podcast-pipeline/pkg/store"
	"podcast-pipeline/pkg/transcriber"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to TOML config file")
		feedURL    = flag.String("feed", "", "Podcast RSS feed URL (overrides config)")
		localPath  = flag.String("local", "", "Local audio file or directory instead of a feed")
		max        = flag.Int("max", 0, "Max new episodes per run (<=0 means no limit)")
		workers    = flag.Int("workers", 0, "Parallel transcription workers (overrides config)")
		backfill   = flag.Bool("backfill", false, "Process oldest episodes first")
		dryRun     = flag.Bool("dry-run", false, "Preview what would be processed")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *feedURL != "" {
		cfg.Feed.URL = *feedURL
	}
	if *max > 0 {
		cfg.Feed.MaxEpisodes = *max
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if *backfill {
		cfg.Pipeline.OldestFirst = true
	}

	if cfg.Feed.URL == "" && *localPath == "" {
		log.Fatalf("No input: set feed.url in config, or pass -feed or -local")
	}

	ctx := context.Background()

	recordStore, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer closeStore()

	var source ingest.Source
	if *localPath != "" {
		source = ingest.NewLocalSource(*localPath)
	} else {
		var filters []ingest.EpisodeFilter
		if cfg.Feed.SkipPaid {
			filters = append(filters, ingest.NewPaidPreviewFilter())
		}
		if len(cfg.Feed.TitleKeywords) > 0 {
			filters = append(filters, ingest.NewTitleKeywordFilter(cfg.Feed.TitleKeywords))
		}
		source = ingest.NewFeedSource(cfg.Feed.URL, 0, filters...)
	}

	whisper := transcriber.NewWhisperClient(cfg.Whisper.Endpoint, cfg.Whisper.Model, cfg.Whisper.Language)

	p := pipeline.New(source, whisper, recordStore)
	p.SetWorkers(cfg.Pipeline.Workers)
	p.SetMaxEpisodes(cfg.Feed.MaxEpisodes)
	p.SetOldestFirst(cfg.Pipeline.OldestFirst)
	p.SetDryRun(*dryRun)

	start := time.Now()
	result, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}
	log.Printf("Run %s: resolved=%d skipped=%d transcribed=%d failed=%d (%s)",
		result.RunID, result.Resolved, result.Skipped, result.Transcribed, result.Failed,
		time.Since(start))
}
