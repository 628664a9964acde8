package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"podcast-pipeline/pkg/domain"
	"podcast-pipeline/pkg/feed"
	"podcast-pipeline/pkg/httpclient"
)

// AudioArtifact is a resolved audio input ready for transcription. The byte
// source is lazy: nothing is downloaded or opened until Open is called.
type AudioArtifact struct {
	Episode  domain.Episode
	Filename string

	open func(ctx context.Context) (io.ReadCloser, error)
}

// Open returns a reader over the audio bytes. The caller must close it.
func (a *AudioArtifact) Open(ctx context.Context) (io.ReadCloser, error) {
	return a.open(ctx)
}

// Source resolves a list of audio source locations into audio artifacts.
type Source interface {
	Resolve(ctx context.Context) ([]AudioArtifact, error)
}

// audioExtensions lists recognized audio file extensions, in match priority
// order for URL extension sniffing (.mp3 last so it acts as the default).
var audioExtensions = []string{".m4a", ".wav", ".ogg", ".flac", ".mp3"}

// FeedSource resolves episodes from a podcast RSS feed. Audio bytes are
// downloaded from the episode enclosure URL when an artifact is opened.
type FeedSource struct {
	feedURL string
	max     int
	parser  *feed.Parser
	client  *httpclient.HTTPClient
	filters []EpisodeFilter
}

// NewFeedSource creates a source for the given feed URL. max limits the number
// of episodes resolved (<= 0 means all).
func NewFeedSource(feedURL string, max int, filters ...EpisodeFilter) *FeedSource {
	return &FeedSource{
		feedURL: feedURL,
		max:     max,
		parser:  feed.NewParser(),
		client:  httpclient.NewClient(httpclient.DownloadClient),
		filters: filters,
	}
}

// Resolve fetches the feed, applies episode filters, and returns one artifact
// per remaining episode.
func (s *FeedSource) Resolve(ctx context.Context) ([]AudioArtifact, error) {
	episodes, err := s.parser.Fetch(ctx, s.feedURL, 0)
	if err != nil {
		return nil, &FetchError{URL: s.feedURL, Err: err}
	}

	episodes, err = ApplyFilters(ctx, episodes, s.filters)
	if err != nil {
		return nil, err
	}

	if s.max > 0 && len(episodes) > s.max {
		episodes = episodes[:s.max]
	}

	artifacts := make([]AudioArtifact, 0, len(episodes))
	for _, ep := range episodes {
		ep := ep
		artifacts = append(artifacts, AudioArtifact{
			Episode:  ep,
			Filename: ep.EpisodeID + audioExtension(ep.AudioURL),
			open: func(ctx context.Context) (io.ReadCloser, error) {
				return s.openEnclosure(ctx, ep.AudioURL)
			},
		})
	}
	return artifacts, nil
}

// openEnclosure starts downloading the audio enclosure.
func (s *FeedSource) openEnclosure(ctx context.Context, audioURL string) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, audioURL)
	if err != nil {
		return nil, &FetchError{URL: audioURL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &FetchError{URL: audioURL, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}
	return resp.Body, nil
}

// audioExtension infers the audio file extension from a URL, defaulting to
// .mp3 when nothing matches.
func audioExtension(url string) string {
	lower := strings.ToLower(url)
	for _, ext := range audioExtensions {
		if strings.Contains(lower, ext) {
			return ext
		}
	}
	return ".mp3"
}

// LocalSource resolves a local audio file or a directory of audio files.
type LocalSource struct {
	path string
}

// NewLocalSource creates a source for the given file or directory path.
func NewLocalSource(path string) *LocalSource {
	return &LocalSource{path: path}
}

// Resolve returns one artifact per audio file under the path. The episode ID
// of each artifact is the file name without its extension.
func (s *LocalSource) Resolve(ctx context.Context) ([]AudioArtifact, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, &NotFoundError{Path: s.path, Err: err}
	}

	if !info.IsDir() {
		return []AudioArtifact{localArtifact(s.path)}, nil
	}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, &NotFoundError{Path: s.path, Err: err}
	}

	var artifacts []AudioArtifact
	for _, entry := range entries {
		if entry.IsDir() || !isAudioFile(entry.Name()) {
			continue
		}
		artifacts = append(artifacts, localArtifact(filepath.Join(s.path, entry.Name())))
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Filename < artifacts[j].Filename
	})
	return artifacts, nil
}

func localArtifact(path string) AudioArtifact {
	name := filepath.Base(path)
	id := strings.TrimSuffix(name, filepath.Ext(name))
	return AudioArtifact{
		Episode: domain.Episode{
			EpisodeID: id,
			Title:     id,
		},
		Filename: name,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, &NotFoundError{Path: path, Err: err}
			}
			return f, nil
		},
	}
}

func isAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range audioExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
