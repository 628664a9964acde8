package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"podcast-pipeline/pkg/domain"
	"podcast-pipeline/pkg/postprocess"
)

// FileStore keeps transcript records as JSON files in a data directory, one
// {episode_id}.json per record with a Markdown rendering alongside. This is
// the layout the publisher reads and the layout committed to the trunk branch.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the data directory path.
func (s *FileStore) Dir() string {
	return s.dir
}

// SaveRecord writes {episode_id}.json and {episode_id}.md.
func (s *FileStore) SaveRecord(ctx context.Context, record *domain.EpisodeRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	jsonPath := filepath.Join(s.dir, record.EpisodeID+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}

	mdPath := filepath.Join(s.dir, record.EpisodeID+".md")
	if err := os.WriteFile(mdPath, []byte(postprocess.RenderMarkdown(*record)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}
	return nil
}

// ExistingIDs returns the episode IDs that already have a JSON file.
func (s *FileStore) ExistingIDs(ctx context.Context) (map[string]bool, error) {
	ids := make(map[string]bool)
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids[strings.TrimSuffix(name, ".json")] = true
	}
	return ids, nil
}

// LoadRecords reads all JSON files in the data directory. Files that fail to
// parse are skipped.
func (s *FileStore) LoadRecords(ctx context.Context) ([]domain.EpisodeRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var records []domain.EpisodeRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var record domain.EpisodeRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].EpisodeID < records[j].EpisodeID
	})
	return records, nil
}
