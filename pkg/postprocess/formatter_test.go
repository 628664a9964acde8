package postprocess

import (
	"strings"
	"testing"

	"podcast-pipeline/pkg/domain"
	"podcast-pipeline/pkg/transcriber"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int64
	}{
		{"", 0},
		{"hello", 5},
		{"hello world", 10},
		{"你好世界 hello", 9},
		{"  spaced\tout\ntext  ", 13},
	}
	for _, tt := range tests {
		if got := WordCount(tt.text); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	got := CleanText("  hello \n\t world  ")
	if got != "hello world" {
		t.Errorf("CleanText = %q, want %q", got, "hello world")
	}
}

func TestCleanSegments(t *testing.T) {
	segments := []domain.Segment{
		{Start: 0, End: 2, Text: "  你好 "},
		{Start: 2, End: 4, Text: "   "},
		{Start: 4, End: 6, Text: "世界"},
	}
	cleaned := CleanSegments(segments)
	if len(cleaned) != 2 {
		t.Fatalf("Expected 2 segments after cleaning, got %d", len(cleaned))
	}
	if cleaned[0].Text != "你好" {
		t.Errorf("Expected trimmed text, got %q", cleaned[0].Text)
	}
	if cleaned[1].Start != 4 {
		t.Errorf("Timestamps must be preserved, got start %f", cleaned[1].Start)
	}
}

func TestBuildRecord(t *testing.T) {
	episode := domain.Episode{
		EpisodeID: "ep001",
		Title:     "Test Episode",
		Date:      "2025-01-15",
		Duration:  1800,
	}
	transcript := &transcriber.Transcript{
		Text:     "你好世界 hello",
		Language: "zh",
		Duration: 1799.2,
		Model:    "large-v3",
		Segments: []domain.Segment{{Start: 0, End: 5, Text: "你好世界 hello"}},
	}

	record := BuildRecord(episode, transcript)

	if record.EpisodeID != "ep001" || record.Title != "Test Episode" {
		t.Errorf("Record identity fields wrong: %+v", record)
	}
	// Feed duration wins when present
	if record.Duration != 1800 {
		t.Errorf("Expected feed duration 1800, got %f", record.Duration)
	}
	if record.WordCount != 9 {
		t.Errorf("Expected word count 9, got %d", record.WordCount)
	}
	if record.Language != "zh" || record.Model != "large-v3" {
		t.Errorf("Language/model not carried over: %+v", record)
	}
	if err := record.Validate(); err != nil {
		t.Errorf("Built record must be valid: %v", err)
	}
}

func TestBuildRecord_DurationFallback(t *testing.T) {
	episode := domain.Episode{EpisodeID: "ep001", Title: "T"}
	transcript := &transcriber.Transcript{Text: "abc", Duration: 600.0}

	record := BuildRecord(episode, transcript)
	if record.Duration != 600.0 {
		t.Errorf("Expected service duration 600.0, got %f", record.Duration)
	}
}

func TestBuildRecord_TitleFallback(t *testing.T) {
	episode := domain.Episode{EpisodeID: "ep001"}
	record := BuildRecord(episode, &transcriber.Transcript{Text: "abc"})
	if record.Title != "ep001" {
		t.Errorf("Expected title to fall back to episode ID, got %q", record.Title)
	}
}

func TestRenderMarkdown(t *testing.T) {
	record := domain.EpisodeRecord{
		EpisodeID:     "ep001",
		Title:         "My Episode",
		Date:          "2025-01-01",
		Duration:      600,
		Transcription: "Hello world",
		WordCount:     10,
		Language:      "en",
		Model:         "large-v3",
	}
	md := RenderMarkdown(record)
	if !strings.Contains(md, "# My Episode") {
		t.Error("Markdown missing title heading")
	}
	if !strings.Contains(md, "Hello world") {
		t.Error("Markdown missing transcription body")
	}
	if !strings.Contains(md, "600s (10.0 min)") {
		t.Error("Markdown missing duration line")
	}
}
