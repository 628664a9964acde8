package domain

import (
	"errors"
	"fmt"
	"time"
)

// Segment is a timestamped sub-span of a transcript.
type Segment struct {
	Start float64 `json:"start" bson:"start" parquet:"start"`
	End   float64 `json:"end" bson:"end" parquet:"end"`
	Text  string  `json:"text" bson:"text" parquet:"text"`
}

// EpisodeRecord is the final transcript record for one episode, as stored in the
// intermediate JSON representation and published to the dataset registry.
// Records are immutable once published.
type EpisodeRecord struct {
	EpisodeID     string    `json:"episode_id" bson:"episode_id" parquet:"episode_id"`
	Title         string    `json:"title" bson:"title" parquet:"title"`
	Date          string    `json:"date" bson:"date" parquet:"date"`
	Duration      float64   `json:"duration" bson:"duration" parquet:"duration"`
	Transcription string    `json:"transcription" bson:"transcription" parquet:"transcription"`
	WordCount     int64     `json:"word_count" bson:"word_count" parquet:"word_count"`
	Segments      []Segment `json:"segments" bson:"segments" parquet:"segments,list"`
	Language      string    `json:"language" bson:"language" parquet:"language"`
	Model         string    `json:"model" bson:"model" parquet:"model"`
}

var (
	ErrEmptyEpisodeID = errors.New("episode record has empty episode_id")
	ErrEmptyTitle     = errors.New("episode record has empty title")
)

// Validate checks the record invariants: non-empty identifiers, a parseable date,
// non-negative duration and word count, and segments ordered by start time with
// end >= start.
func (r *EpisodeRecord) Validate() error {
	if r.EpisodeID == "" {
		return ErrEmptyEpisodeID
	}
	if r.Title == "" {
		return fmt.Errorf("%w (episode %s)", ErrEmptyTitle, r.EpisodeID)
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return fmt.Errorf("episode %s: invalid date %q: %w", r.EpisodeID, r.Date, err)
		}
	}
	if r.Duration < 0 {
		return fmt.Errorf("episode %s: negative duration %f", r.EpisodeID, r.Duration)
	}
	if r.WordCount < 0 {
		return fmt.Errorf("episode %s: negative word count %d", r.EpisodeID, r.WordCount)
	}
	for i, seg := range r.Segments {
		if seg.End < seg.Start {
			return fmt.Errorf("episode %s: segment %d ends before it starts (%.2f < %.2f)",
				r.EpisodeID, i, seg.End, seg.Start)
		}
		if i > 0 && seg.Start < r.Segments[i-1].Start {
			return fmt.Errorf("episode %s: segment %d out of order (%.2f < %.2f)",
				r.EpisodeID, i, seg.Start, r.Segments[i-1].Start)
		}
	}
	return nil
}
