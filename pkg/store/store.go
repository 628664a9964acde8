package store

import (
	"context"

	"podcast-pipeline/pkg/domain"
)

// RecordStore is the interface for intermediate transcript storage backends.
// Records are written by the pipeline as episodes are transcribed and read
// back by the publisher.
type RecordStore interface {
	// SaveRecord persists a record, replacing any existing record with the
	// same episode ID.
	SaveRecord(ctx context.Context, record *domain.EpisodeRecord) error

	// ExistingIDs returns the set of episode IDs already stored, used to skip
	// episodes that have already been transcribed.
	ExistingIDs(ctx context.Context) (map[string]bool, error)

	// LoadRecords returns all stored records sorted by episode ID.
	LoadRecords(ctx context.Context) ([]domain.EpisodeRecord, error)
}
