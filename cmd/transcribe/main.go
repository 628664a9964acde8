package main

import (
	"context"
	"flag"
	"log"
	"time"

	"podcast-pipeline/pkg/ingest"
	"podcast-pipeline/pkg/pipeline"
	"podcast-pipeline/pkg/store"
	"podcast-pipeline/pkg/transcriber"
)

func main() {
	var (
		endpoint = flag.String("endpoint", "http://localhost:9000", "Whisper ASR service URL")
		model    = flag.String("model", transcriber.DefaultWhisperModel, "Transcription model")
		language = flag.String("language", "", "Language hint (empty = auto-detect)")
		outDir   = flag.String("out", "data/transcripts", "Output directory for transcript JSON/Markdown")
	)
	flag.Parse()

	inputPath := flag.Arg(0)
	if inputPath == "" {
		log.Fatalf("Usage: transcribe [flags] AUDIO_FILE")
	}

	ctx := context.Background()

	source := ingest.NewLocalSource(inputPath)
	whisper := transcriber.NewWhisperClient(*endpoint, *model, *language)
	fileStore := store.NewFileStore(*outDir)

	p := pipeline.New(source, whisper, fileStore)

	start := time.Now()
	result, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("Transcription failed: %v", err)
	}
	log.Printf("Transcribed %d file(s) to %s in %s", result.Transcribed, *outDir, time.Since(start))
}
