package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"podcast-pipeline/pkg/domain"
)

const (
	parquetPath = "data/episodes.parquet"
	jsonlPath   = "data/dataset.jsonl"
)

// PublishError indicates that uploading the dataset failed.
type PublishError struct {
	RepoID string
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %s: %v", e.RepoID, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Publisher serializes episode records to Parquet (plus a JSONL export) and
// uploads them to a dataset registry.
type Publisher struct {
	registry    RegistryClient
	exportJSONL bool
}

// NewPublisher creates a publisher backed by the given registry client.
func NewPublisher(registry RegistryClient) *Publisher {
	return &Publisher{
		registry:    registry,
		exportJSONL: true,
	}
}

// SetExportJSONL toggles the JSONL export uploaded alongside the Parquet file.
func (p *Publisher) SetExportJSONL(export bool) {
	p.exportJSONL = export
}

// Publish validates the records, serializes them, and uploads a dataset
// snapshot to repoID. Records are sorted by episode ID; duplicate episode IDs
// are rejected before anything is uploaded.
func (p *Publisher) Publish(ctx context.Context, records []domain.EpisodeRecord, repoID string) error {
	if repoID == "" {
		return &PublishError{RepoID: repoID, Err: fmt.Errorf("no dataset repo specified")}
	}
	if len(records) == 0 {
		log.Printf("No records to publish. Nothing to do.")
		return nil
	}

	if err := validateRecords(records); err != nil {
		return &PublishError{RepoID: repoID, Err: err}
	}

	sorted := make([]domain.EpisodeRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EpisodeID < sorted[j].EpisodeID
	})

	parquetBytes, err := MarshalParquet(sorted)
	if err != nil {
		return &PublishError{RepoID: repoID, Err: err}
	}

	if err := p.registry.CreateRepo(ctx, repoID); err != nil {
		return &PublishError{RepoID: repoID, Err: err}
	}

	commitMessage := fmt.Sprintf("sync: %d episodes", len(sorted))
	if err := p.registry.UploadFile(ctx, repoID, parquetPath, parquetBytes, commitMessage); err != nil {
		return &PublishError{RepoID: repoID, Err: err}
	}
	log.Printf("Uploaded %s (%d records, %d bytes)", parquetPath, len(sorted), len(parquetBytes))

	if p.exportJSONL {
		jsonlBytes, err := marshalJSONL(sorted)
		if err != nil {
			return &PublishError{RepoID: repoID, Err: err}
		}
		if err := p.registry.UploadFile(ctx, repoID, jsonlPath, jsonlBytes, "sync: add JSONL export"); err != nil {
			return &PublishError{RepoID: repoID, Err: err}
		}
		log.Printf("Uploaded %s", jsonlPath)
	}

	log.Printf("Publish complete: %d episodes pushed to %s", len(sorted), repoID)
	return nil
}

// validateRecords checks per-record invariants and episode ID uniqueness
// across the snapshot.
func validateRecords(records []domain.EpisodeRecord) error {
	seen := make(map[string]bool, len(records))
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return err
		}
		id := records[i].EpisodeID
		if seen[id] {
			return fmt.Errorf("duplicate episode_id %s", id)
		}
		seen[id] = true
	}
	return nil
}

// marshalJSONL renders one JSON object per line.
func marshalJSONL(records []domain.EpisodeRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return nil, fmt.Errorf("encode record %s: %w", records[i].EpisodeID, err)
		}
	}
	return buf.Bytes(), nil
}
