package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"podcast-pipeline/pkg/domain"
)

func testRecord(id string) *domain.EpisodeRecord {
	return &domain.EpisodeRecord{
		EpisodeID:     id,
		Title:         "Episode " + id,
		Date:          "2025-06-01",
		Duration:      300.0,
		Transcription: "测试转录内容",
		WordCount:     6,
		Segments:      []domain.Segment{{Start: 0, End: 300, Text: "测试转录内容"}},
		Language:      "zh",
		Model:         "large-v3",
	}
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	if err := s.SaveRecord(ctx, testRecord("ep001")); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	jsonPath := filepath.Join(s.Dir(), "ep001.json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("JSON file not written: %v", err)
	}
	var decoded domain.EpisodeRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON file not parseable: %v", err)
	}
	if decoded.EpisodeID != "ep001" || decoded.WordCount != 6 {
		t.Errorf("Unexpected decoded record: %+v", decoded)
	}

	if _, err := os.Stat(filepath.Join(s.Dir(), "ep001.md")); err != nil {
		t.Errorf("Markdown file not written: %v", err)
	}

	records, err := s.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if len(records) != 1 || records[0].EpisodeID != "ep001" {
		t.Errorf("Unexpected loaded records: %+v", records)
	}
}

func TestFileStore_ExistingIDs(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	ids, err := s.ExistingIDs(ctx)
	if err != nil {
		t.Fatalf("ExistingIDs on empty store failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected no IDs, got %v", ids)
	}

	for _, id := range []string{"ep001", "ep002"} {
		if err := s.SaveRecord(ctx, testRecord(id)); err != nil {
			t.Fatalf("SaveRecord failed: %v", err)
		}
	}

	ids, err = s.ExistingIDs(ctx)
	if err != nil {
		t.Fatalf("ExistingIDs failed: %v", err)
	}
	if !ids["ep001"] || !ids["ep002"] || len(ids) != 2 {
		t.Errorf("Unexpected ID set: %v", ids)
	}
}

func TestFileStore_MissingDir(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "never-created"))

	ids, err := s.ExistingIDs(ctx)
	if err != nil || len(ids) != 0 {
		t.Errorf("Missing dir must yield empty set, got %v, %v", ids, err)
	}

	records, err := s.LoadRecords(ctx)
	if err != nil || records != nil {
		t.Errorf("Missing dir must yield no records, got %v, %v", records, err)
	}
}

func TestFileStore_LoadSkipsInvalidJSON(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(dir)

	if err := s.SaveRecord(ctx, testRecord("ep001")); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := s.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected broken file to be skipped, got %d records", len(records))
	}
}

func TestFileStore_RejectsInvalidRecord(t *testing.T) {
	s := NewFileStore(t.TempDir())
	record := testRecord("ep001")
	record.Title = ""
	if err := s.SaveRecord(context.Background(), record); err == nil {
		t.Error("Expected validation error for empty title")
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	if err := s.SaveRecord(ctx, testRecord("ep001")); err != nil {
		t.Fatal(err)
	}
	updated := testRecord("ep001")
	updated.Transcription = "updated"
	updated.WordCount = 7
	if err := s.SaveRecord(ctx, updated); err != nil {
		t.Fatal(err)
	}

	records, err := s.LoadRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Transcription != "updated" {
		t.Errorf("Expected overwritten record, got %+v", records)
	}
}
