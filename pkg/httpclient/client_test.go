package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestGet_APIClientHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Expected Accept application/json, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(APIClient)
	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()
}

func TestHead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("Expected HEAD request, got %s", r.Method)
		}
		w.Header().Set("Content-Length", "12345")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(DownloadClient)
	resp, err := client.Head(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.ContentLength != 12345 {
		t.Errorf("Expected content length 12345, got %d", resp.ContentLength)
	}
}

func TestDownload(t *testing.T) {
	body := []byte("fake audio bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "curl/8.7.1" {
			t.Errorf("Expected curl User-Agent, got %q", got)
		}
		w.Write(body)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "episode.mp3")
	client := NewClient(DownloadClient)

	n, err := client.Download(context.Background(), server.URL, dest)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if n != int64(len(body)) {
		t.Errorf("Expected %d bytes written, got %d", len(body), n)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(body) {
		t.Errorf("Downloaded content mismatch: %q", data)
	}
}

func TestDownload_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(DownloadClient)
	dest := filepath.Join(t.TempDir(), "missing.mp3")

	if _, err := client.Download(context.Background(), server.URL, dest); err == nil {
		t.Fatal("Expected error for non-200 response")
	}
	if _, err := os.Stat(dest); err == nil {
		t.Error("No file should be created on a failed download")
	}
}
