package ingest

import (
	"context"
	"strings"

	"podcast-pipeline/pkg/domain"
)

// EpisodeFilter defines the interface for episode filtering
type EpisodeFilter interface {
	ShouldKeep(ctx context.Context, episode domain.Episode) (bool, error)
}

// ApplyFilters returns the episodes that pass every filter.
func ApplyFilters(ctx context.Context, episodes []domain.Episode, filters []EpisodeFilter) ([]domain.Episode, error) {
	if len(filters) == 0 {
		return episodes, nil
	}

	kept := make([]domain.Episode, 0, len(episodes))
	for _, ep := range episodes {
		keep := true
		for _, f := range filters {
			ok, err := f.ShouldKeep(ctx, ep)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, ep)
		}
	}
	return kept, nil
}

// Thresholds below which an RSS entry usually only carries a teaser clip for a
// paid episode.
const (
	MinAudioBytes      = 1_000_000
	MinDurationSeconds = 60
)

// PaidPreviewFilter filters out episodes that look like paid/preview content:
// very small audio file or very short duration. Episodes with unknown size or
// duration (0) are kept.
type PaidPreviewFilter struct{}

// NewPaidPreviewFilter creates a new paid/preview filter
func NewPaidPreviewFilter() *PaidPreviewFilter {
	return &PaidPreviewFilter{}
}

// ShouldKeep returns false if the episode looks like a paid preview
func (f *PaidPreviewFilter) ShouldKeep(ctx context.Context, ep domain.Episode) (bool, error) {
	if ep.AudioSize > 0 && ep.AudioSize < MinAudioBytes {
		return false, nil
	}
	if ep.Duration > 0 && ep.Duration < MinDurationSeconds {
		return false, nil
	}
	return true, nil
}

// TitleKeywordFilter filters out episodes whose title contains any of the
// configured keywords (e.g. interview/crossover markers).
type TitleKeywordFilter struct {
	keywords []string
}

// NewTitleKeywordFilter creates a new title keyword filter
func NewTitleKeywordFilter(keywords []string) *TitleKeywordFilter {
	return &TitleKeywordFilter{keywords: keywords}
}

// ShouldKeep returns false if the episode title contains a configured keyword
func (f *TitleKeywordFilter) ShouldKeep(ctx context.Context, ep domain.Episode) (bool, error) {
	for _, kw := range f.keywords {
		if kw != "" && strings.Contains(ep.Title, kw) {
			return false, nil
		}
	}
	return true, nil
}

// AlreadyTranscribedFilter filters out episodes whose IDs already exist in the
// provided set.
type AlreadyTranscribedFilter struct {
	existingIDs map[string]bool
}

// NewAlreadyTranscribedFilter creates a new already-transcribed filter
func NewAlreadyTranscribedFilter(existingIDs map[string]bool) *AlreadyTranscribedFilter {
	return &AlreadyTranscribedFilter{existingIDs: existingIDs}
}

// ShouldKeep returns false if the episode ID is already in the set
func (f *AlreadyTranscribedFilter) ShouldKeep(ctx context.Context, ep domain.Episode) (bool, error) {
	return !f.existingIDs[ep.EpisodeID], nil
}
