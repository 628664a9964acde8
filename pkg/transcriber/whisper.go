package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"podcast-pipeline/pkg/domain"
	"podcast-pipeline/pkg/httpclient"
	"podcast-pipeline/pkg/ingest"
)

const DefaultWhisperModel = "large-v3"

// WhisperClient transcribes audio through a Whisper ASR HTTP service. The
// service runs the GPU-backed model; this client only uploads audio and parses
// the JSON response. Long episodes are submitted whole; any chunking is the
// service's concern.
type WhisperClient struct {
	baseURL  string
	model    string
	language string
	client   *httpclient.HTTPClient
}

// whisperResponse is the JSON response shape of the Whisper ASR service.
type whisperResponse struct {
	Task     string  `json:"task"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// NewWhisperClient creates a client for the ASR service at baseURL. language
// may be empty to let the service detect it.
func NewWhisperClient(baseURL, model, language string) *WhisperClient {
	if model == "" {
		model = DefaultWhisperModel
	}
	return &WhisperClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		model:    model,
		language: language,
		client:   httpclient.NewClient(httpclient.APIClient),
	}
}

// Model returns the model identifier sent to the service.
func (c *WhisperClient) Model() string {
	return c.model
}

// Transcribe uploads the artifact's audio as a multipart request and parses
// the transcription response.
func (c *WhisperClient) Transcribe(ctx context.Context, artifact ingest.AudioArtifact) (*Transcript, error) {
	episodeID := artifact.Episode.EpisodeID

	audio, err := artifact.Open(ctx)
	if err != nil {
		return nil, &TranscriptionError{EpisodeID: episodeID, Err: err}
	}
	defer audio.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("audio_file", artifact.Filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, audio); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), pr)
	if err != nil {
		return nil, &TranscriptionError{EpisodeID: episodeID, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TranscriptionError{EpisodeID: episodeID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &TranscriptionError{
			EpisodeID: episodeID,
			Err:       fmt.Errorf("service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var parsed whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &TranscriptionError{EpisodeID: episodeID, Err: fmt.Errorf("decode response: %w", err)}
	}

	segments := make([]domain.Segment, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		segments = append(segments, domain.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	language := parsed.Language
	if language == "" {
		language = c.language
	}

	return &Transcript{
		Text:     parsed.Text,
		Language: language,
		Duration: parsed.Duration,
		Model:    c.model,
		Segments: segments,
	}, nil
}

// requestURL builds the transcription endpoint URL with model/language params.
func (c *WhisperClient) requestURL() string {
	params := url.Values{}
	params.Set("task", "transcribe")
	params.Set("model", c.model)
	params.Set("output", "json")
	if c.language != "" {
		params.Set("language", c.language)
	}
	return c.baseURL + "/asr?" + params.Encode()
}
