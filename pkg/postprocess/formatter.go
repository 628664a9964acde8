package postprocess

import (
	"strings"
	"unicode"

	"podcast-pipeline/pkg/domain"
	"podcast-pipeline/pkg/transcriber"
)

// CleanText normalizes transcript text: collapses runs of whitespace into
// single spaces and trims the ends.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// WordCount counts the non-whitespace runes in text. Counting runes rather
// than space-separated words keeps the count meaningful for CJK transcripts,
// where words are not space-delimited.
func WordCount(text string) int64 {
	var count int64
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

// CleanSegments trims segment text and drops segments left empty. Timestamps
// are preserved.
func CleanSegments(segments []domain.Segment) []domain.Segment {
	cleaned := make([]domain.Segment, 0, len(segments))
	for _, seg := range segments {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" {
			continue
		}
		cleaned = append(cleaned, seg)
	}
	return cleaned
}

// BuildRecord assembles the final EpisodeRecord from the feed episode and its
// transcript. The feed duration wins when present; otherwise the duration
// reported by the transcription service is used. word_count is always
// recomputed from the cleaned transcription.
func BuildRecord(episode domain.Episode, transcript *transcriber.Transcript) domain.EpisodeRecord {
	text := CleanText(transcript.Text)

	duration := episode.Duration
	if duration == 0 {
		duration = transcript.Duration
	}

	title := episode.Title
	if title == "" {
		title = episode.EpisodeID
	}

	return domain.EpisodeRecord{
		EpisodeID:     episode.EpisodeID,
		Title:         title,
		Date:          episode.Date,
		Duration:      duration,
		Transcription: text,
		WordCount:     WordCount(text),
		Segments:      CleanSegments(transcript.Segments),
		Language:      transcript.Language,
		Model:         transcript.Model,
	}
}
