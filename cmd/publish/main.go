package main

import (
	"context"
	"flag"
	"log"

	"podcast-pipeline/pkg/config"
	"podcast-pipeline/pkg/dataset"
	"podcast-pipeline/pkg/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to TOML config file")
		dataDir    = flag.String("data-dir", "", "Override transcript data directory")
		registry   = flag.String("registry", "", "Override dataset registry base URL")
		noJSONL    = flag.Bool("no-jsonl", false, "Skip the JSONL export")
	)
	flag.Parse()

	repoID := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.Store.Backend = "file"
		cfg.Store.DataDir = *dataDir
	}
	if *registry != "" {
		cfg.Registry.BaseURL = *registry
	}
	if repoID == "" {
		repoID = cfg.Registry.Repo
	}
	if repoID == "" {
		log.Fatalf("Usage: publish [flags] DATASET_REPO (user/name)")
	}
	if cfg.RegistryToken == "" {
		log.Fatalf("HUB_TOKEN not set")
	}

	ctx := context.Background()

	recordStore, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer closeStore()

	records, err := recordStore.LoadRecords(ctx)
	if err != nil {
		log.Fatalf("Failed to load records: %v", err)
	}
	if len(records) == 0 {
		log.Printf("No transcripts found. Nothing to sync.")
		return
	}

	publisher := dataset.NewPublisher(dataset.NewHubClient(cfg.Registry.BaseURL, cfg.RegistryToken))
	publisher.SetExportJSONL(!*noJSONL)

	if err := publisher.Publish(ctx, records, repoID); err != nil {
		log.Fatalf("Publish failed: %v", err)
	}
}
