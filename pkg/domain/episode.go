package domain

// Episode represents a single podcast episode discovered in an RSS feed,
// before transcription.
type Episode struct {
	// EpisodeID is a stable identifier derived from the feed entry guid.
	EpisodeID string `json:"episode_id"`

	// Title is the episode title from the feed.
	Title string `json:"title"`

	// Date is the publish date as an ISO 8601 date string (YYYY-MM-DD).
	Date string `json:"date"`

	// Duration is the episode length in seconds, 0 if the feed did not report one.
	Duration float64 `json:"duration"`

	// AudioURL is the enclosure URL of the audio file.
	AudioURL string `json:"audio_url"`

	// AudioSize is the enclosure size in bytes, 0 if unknown.
	AudioSize int64 `json:"audio_size"`

	// Description is the episode show notes, reduced to plain text.
	Description string `json:"description,omitempty"`
}

// DurationMinutes returns the episode duration in minutes.
func (e Episode) DurationMinutes() float64 {
	return e.Duration / 60
}
