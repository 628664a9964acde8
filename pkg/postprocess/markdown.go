package postprocess

import (
	"fmt"
	"strings"

	"podcast-pipeline/pkg/domain"
)

// RenderMarkdown renders a human-readable Markdown transcript for a record,
// written alongside the JSON representation in the data directory.
func RenderMarkdown(r domain.EpisodeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "- **Episode ID**: %s\n", r.EpisodeID)
	fmt.Fprintf(&b, "- **Date**: %s\n", r.Date)
	fmt.Fprintf(&b, "- **Duration**: %.0fs (%.1f min)\n", r.Duration, r.Duration/60)
	fmt.Fprintf(&b, "- **Word count**: %d\n", r.WordCount)
	fmt.Fprintf(&b, "- **Language**: %s\n", r.Language)
	fmt.Fprintf(&b, "- **Model**: %s\n", r.Model)
	b.WriteString("\n---\n\n")
	b.WriteString(r.Transcription)
	b.WriteString("\n")
	return b.String()
}
