package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"podcast-pipeline/pkg/domain"
)

// Parser fetches and parses podcast RSS/Atom feeds into Episodes.
type Parser struct {
	feedParser *gofeed.Parser
}

// NewParser creates a new feed parser.
func NewParser() *Parser {
	return &Parser{
		feedParser: gofeed.NewParser(),
	}
}

// guidIDPattern matches the trailing hex episode ID that hosted podcast
// platforms embed in their guid URLs.
var guidIDPattern = regexp.MustCompile(`[a-f0-9]{24}$`)

// Fetch fetches the feed at feedURL and returns its episodes sorted by date
// descending. Entries without an audio enclosure are skipped. max limits the
// number of episodes returned; max <= 0 means all.
func (p *Parser) Fetch(ctx context.Context, feedURL string, max int) ([]domain.Episode, error) {
	feed, err := p.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed contains no items")
	}

	episodes := make([]domain.Episode, 0, len(feed.Items))
	for _, item := range feed.Items {
		audioURL, audioSize := extractAudio(item)
		if audioURL == "" {
			continue
		}

		date := ""
		if item.PublishedParsed != nil {
			date = item.PublishedParsed.Format("2006-01-02")
		} else if item.UpdatedParsed != nil {
			date = item.UpdatedParsed.Format("2006-01-02")
		}

		episodes = append(episodes, domain.Episode{
			EpisodeID:   episodeID(item, feedURL),
			Title:       item.Title,
			Date:        date,
			Duration:    parseDuration(item),
			AudioURL:    audioURL,
			AudioSize:   audioSize,
			Description: item.Description,
		})
	}

	if len(episodes) == 0 {
		return nil, fmt.Errorf("no episodes with audio enclosures found in feed")
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].Date > episodes[j].Date
	})

	if max > 0 && len(episodes) > max {
		episodes = episodes[:max]
	}

	return episodes, nil
}

// extractAudio returns the audio enclosure URL and size for a feed item.
func extractAudio(item *gofeed.Item) (string, int64) {
	for _, enc := range item.Enclosures {
		if enc.URL == "" {
			continue
		}
		if enc.Type != "" && !strings.HasPrefix(enc.Type, "audio") {
			continue
		}
		length, _ := strconv.ParseInt(enc.Length, 10, 64)
		return enc.URL, length
	}
	return "", 0
}

// parseDuration extracts the itunes duration in seconds. Accepts HH:MM:SS,
// MM:SS, or a bare seconds value. Returns 0 when absent or malformed.
func parseDuration(item *gofeed.Item) float64 {
	if item.ITunesExt == nil {
		return 0
	}
	raw := strings.TrimSpace(item.ITunesExt.Duration)
	if raw == "" {
		return 0
	}
	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		switch len(parts) {
		case 3:
			h, err1 := strconv.Atoi(parts[0])
			m, err2 := strconv.Atoi(parts[1])
			s, err3 := strconv.ParseFloat(parts[2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return 0
			}
			return float64(h)*3600 + float64(m)*60 + s
		case 2:
			m, err1 := strconv.Atoi(parts[0])
			s, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				return 0
			}
			return float64(m)*60 + s
		default:
			return 0
		}
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return seconds
}

// episodeID derives a stable episode ID from a feed item. Prefers the guid:
// platform guids that end in a 24-char hex ID keep that ID, other guids are
// hashed. Entries without a guid hash feed URL + title + publish date.
func episodeID(item *gofeed.Item, feedURL string) string {
	if item.GUID != "" {
		if match := guidIDPattern.FindString(item.GUID); match != "" {
			return match
		}
		return shortHash(item.GUID)
	}
	return shortHash(feedURL + ":" + item.Title + ":" + item.Published)
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
