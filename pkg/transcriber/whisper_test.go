package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"podcast-pipeline/pkg/ingest"
)

func localTestArtifact(t *testing.T) ingest.AudioArtifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ep001.mp3")
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	source := ingest.NewLocalSource(path)
	artifacts, err := source.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return artifacts[0]
}

func TestWhisperClient_Transcribe(t *testing.T) {
	var gotModel, gotLanguage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asr" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotModel = r.URL.Query().Get("model")
		gotLanguage = r.URL.Query().Get("language")

		file, header, err := r.FormFile("audio_file")
		if err != nil {
			t.Errorf("Missing audio_file part: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		file.Close()
		if header.Filename != "ep001.mp3" {
			t.Errorf("Unexpected upload filename: %s", header.Filename)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"task":     "transcribe",
			"language": "zh",
			"duration": 600.0,
			"text":     "你好世界",
			"segments": []map[string]any{
				{"start": 0.0, "end": 3.5, "text": "你好"},
				{"start": 3.5, "end": 7.0, "text": "世界"},
			},
		})
	}))
	defer server.Close()

	client := NewWhisperClient(server.URL, "large-v3", "zh")
	transcript, err := client.Transcribe(context.Background(), localTestArtifact(t))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if gotModel != "large-v3" {
		t.Errorf("Expected model large-v3, got %q", gotModel)
	}
	if gotLanguage != "zh" {
		t.Errorf("Expected language zh, got %q", gotLanguage)
	}
	if transcript.Text != "你好世界" {
		t.Errorf("Unexpected text: %q", transcript.Text)
	}
	if transcript.Duration != 600.0 {
		t.Errorf("Expected duration 600.0, got %f", transcript.Duration)
	}
	if transcript.Language != "zh" {
		t.Errorf("Expected language zh, got %q", transcript.Language)
	}
	if transcript.Model != "large-v3" {
		t.Errorf("Expected model large-v3, got %q", transcript.Model)
	}
	if len(transcript.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(transcript.Segments))
	}
	if transcript.Segments[1].Start != 3.5 || transcript.Segments[1].End != 7.0 {
		t.Errorf("Unexpected second segment: %+v", transcript.Segments[1])
	}
}

func TestWhisperClient_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewWhisperClient(server.URL, "", "")
	_, err := client.Transcribe(context.Background(), localTestArtifact(t))

	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("Expected TranscriptionError, got %v", err)
	}
	if trErr.EpisodeID != "ep001" {
		t.Errorf("TranscriptionError carries wrong episode ID: %s", trErr.EpisodeID)
	}
}

func TestWhisperClient_Unreachable(t *testing.T) {
	client := NewWhisperClient("http://127.0.0.1:1", "", "")
	_, err := client.Transcribe(context.Background(), localTestArtifact(t))

	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("Expected TranscriptionError, got %v", err)
	}
}

func TestWhisperClient_DefaultModel(t *testing.T) {
	client := NewWhisperClient("http://localhost:9000", "", "")
	if client.Model() != DefaultWhisperModel {
		t.Errorf("Expected default model %s, got %s", DefaultWhisperModel, client.Model())
	}
}
