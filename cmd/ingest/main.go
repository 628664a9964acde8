package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"podcast-pipeline/pkg/httpclient"
	"podcast-pipeline/pkg/ingest"
)

func main() {
	var (
		max      = flag.Int("max", 0, "Max episodes to resolve (<=0 means all)")
		download = flag.Bool("download", false, "Download the audio files instead of just listing episodes")
		outDir   = flag.String("out", "data/audio", "Directory for downloaded audio files")
		skipPaid = flag.Bool("skip-paid", true, "Skip episodes that look like paid previews")
	)
	flag.Parse()

	feedURL := flag.Arg(0)
	if feedURL == "" {
		log.Fatalf("Usage: ingest [flags] FEED_URL")
	}

	ctx := context.Background()

	var filters []ingest.EpisodeFilter
	if *skipPaid {
		filters = append(filters, ingest.NewPaidPreviewFilter())
	}

	source := ingest.NewFeedSource(feedURL, *max, filters...)
	artifacts, err := source.Resolve(ctx)
	if err != nil {
		log.Fatalf("Failed to resolve feed: %v", err)
	}

	log.Printf("Resolved %d episodes from %s", len(artifacts), feedURL)
	for _, a := range artifacts {
		ep := a.Episode
		fmt.Printf("%s  %s  %6.1fm  %s\n", ep.EpisodeID, ep.Date, ep.DurationMinutes(), ep.Title)
	}

	if !*download {
		return
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	client := httpclient.NewClient(httpclient.DownloadClient)
	for _, a := range artifacts {
		dest := filepath.Join(*outDir, a.Filename)
		size, err := client.Download(ctx, a.Episode.AudioURL, dest)
		if err != nil {
			log.Printf("Failed to download %s: %v", a.Episode.EpisodeID, err)
			continue
		}
		log.Printf("Downloaded %s (%d bytes)", dest, size)
	}
}
