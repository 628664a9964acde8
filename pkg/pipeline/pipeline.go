package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"podcast-pipeline/pkg/ingest"
	"podcast-pipeline/pkg/postprocess"
	"podcast-pipeline/pkg/store"
	"podcast-pipeline/pkg/transcriber"
)

// Pipeline runs episodes through ingest → transcribe → post-process → save.
// Processing is strictly sequential by default; SetWorkers enables parallel
// transcription of independent episodes as an explicit enhancement.
type Pipeline struct {
	source      ingest.Source
	transcriber transcriber.Transcriber
	store       store.RecordStore

	workers     int
	maxEpisodes int
	oldestFirst bool
	dryRun      bool
}

// Result summarizes a pipeline run.
type Result struct {
	RunID       string
	Resolved    int
	Skipped     int
	Transcribed int
	Failed      int
}

// New creates a pipeline over the given source, transcriber, and record store.
func New(source ingest.Source, t transcriber.Transcriber, s store.RecordStore) *Pipeline {
	return &Pipeline{
		source:      source,
		transcriber: t,
		store:       s,
		workers:     1,
	}
}

// SetWorkers sets the number of parallel workers. If workers <= 0, it will be
// coerced to 1.
func (p *Pipeline) SetWorkers(workers int) {
	if workers <= 0 {
		p.workers = 1
		return
	}
	p.workers = workers
}

// SetMaxEpisodes limits the number of new episodes processed per run
// (<= 0 means no limit).
func (p *Pipeline) SetMaxEpisodes(max int) {
	p.maxEpisodes = max
}

// SetOldestFirst processes episodes in chronological order, for backfilling
// historical episodes in batches.
func (p *Pipeline) SetOldestFirst(oldestFirst bool) {
	p.oldestFirst = oldestFirst
}

// SetDryRun previews which episodes would be processed without transcribing
// or saving anything.
func (p *Pipeline) SetDryRun(dryRun bool) {
	p.dryRun = dryRun
}

// Run resolves the source, drops already-stored episodes, and processes the
// remaining artifacts. A failed episode is reported and skipped; the run
// continues with the next episode. Run fails only when the source cannot be
// resolved or every episode fails.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	log.Printf("Pipeline run %s starting", result.RunID)

	artifacts, err := p.source.Resolve(ctx)
	if err != nil {
		return result, err
	}
	result.Resolved = len(artifacts)
	log.Printf("Resolved %d audio artifacts", len(artifacts))

	artifacts, skipped, err := p.dropExisting(ctx, artifacts)
	if err != nil {
		return result, err
	}
	result.Skipped = skipped
	if skipped > 0 {
		log.Printf("Skipping %d already-transcribed episodes", skipped)
	}

	if p.oldestFirst {
		sort.SliceStable(artifacts, func(i, j int) bool {
			return artifacts[i].Episode.Date < artifacts[j].Episode.Date
		})
	}
	if p.maxEpisodes > 0 && len(artifacts) > p.maxEpisodes {
		artifacts = artifacts[:p.maxEpisodes]
	}

	if len(artifacts) == 0 {
		log.Printf("Nothing to transcribe. Done.")
		return result, nil
	}

	if p.dryRun {
		for _, a := range artifacts {
			log.Printf("Would transcribe: %s - %s", a.Episode.EpisodeID, a.Episode.Title)
		}
		return result, nil
	}

	succeeded, failed := p.processArtifacts(ctx, artifacts)
	result.Transcribed = succeeded
	result.Failed = failed

	log.Printf("Pipeline run %s complete: %d/%d transcribed", result.RunID, succeeded, len(artifacts))
	if failed > 0 && succeeded == 0 {
		return result, fmt.Errorf("all %d episodes failed to process", failed)
	}
	return result, nil
}

// dropExisting filters out artifacts whose episode IDs are already stored.
func (p *Pipeline) dropExisting(ctx context.Context, artifacts []ingest.AudioArtifact) ([]ingest.AudioArtifact, int, error) {
	existing, err := p.store.ExistingIDs(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load existing episode IDs: %w", err)
	}
	if len(existing) == 0 {
		return artifacts, 0, nil
	}

	kept := make([]ingest.AudioArtifact, 0, len(artifacts))
	for _, a := range artifacts {
		if existing[a.Episode.EpisodeID] {
			continue
		}
		kept = append(kept, a)
	}
	return kept, len(artifacts) - len(kept), nil
}

// processArtifacts runs the transcribe/save loop, fanning out to p.workers
// goroutines when workers > 1.
func (p *Pipeline) processArtifacts(ctx context.Context, artifacts []ingest.AudioArtifact) (succeeded, failed int) {
	jobs := make(chan ingest.AudioArtifact)

	type outcome struct {
		episodeID string
		err       error
	}
	results := make(chan outcome, len(artifacts))

	var wg sync.WaitGroup
	wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer wg.Done()
			for artifact := range jobs {
				err := p.processArtifact(ctx, artifact)
				results <- outcome{episodeID: artifact.Episode.EpisodeID, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, artifact := range artifacts {
			select {
			case <-ctx.Done():
				return
			case jobs <- artifact:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			failed++
			log.Printf("Failed to process %s: %v", res.episodeID, res.err)
			continue
		}
		succeeded++
	}
	return succeeded, failed
}

// processArtifact runs one episode through transcription, post-processing,
// and storage.
func (p *Pipeline) processArtifact(ctx context.Context, artifact ingest.AudioArtifact) error {
	ep := artifact.Episode
	log.Printf("Transcribing: %s - %s", ep.EpisodeID, ep.Title)

	transcript, err := p.transcriber.Transcribe(ctx, artifact)
	if err != nil {
		return err
	}

	if notes, err := postprocess.ShowNotesText(ep.Description); err == nil {
		ep.Description = notes
	}

	record := postprocess.BuildRecord(ep, transcript)
	if err := p.store.SaveRecord(ctx, &record); err != nil {
		return fmt.Errorf("save record: %w", err)
	}

	log.Printf("Done: %s (%d words)", record.EpisodeID, record.WordCount)
	return nil
}
