package transcriber

import (
	"context"
	"fmt"

	"podcast-pipeline/pkg/domain"
	"podcast-pipeline/pkg/ingest"
)

// Transcriber is the common interface for speech-to-text providers.
type Transcriber interface {
	// Transcribe submits one audio artifact and returns the transcript with
	// timestamped segments.
	Transcribe(ctx context.Context, artifact ingest.AudioArtifact) (*Transcript, error)

	// Model identifies the transcription model version used.
	Model() string
}

// Transcript is the raw transcription result from a provider, before
// post-processing.
type Transcript struct {
	Text     string
	Language string
	Duration float64 // audio duration in seconds, as reported by the service
	Model    string
	Segments []domain.Segment
}

// TranscriptionError indicates that the transcription service failed or timed
// out for an episode.
type TranscriptionError struct {
	EpisodeID string
	Err       error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.EpisodeID, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}
