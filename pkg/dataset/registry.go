package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"podcast-pipeline/pkg/httpclient"
)

// RegistryClient is the interface to an external dataset-hosting service.
type RegistryClient interface {
	// CreateRepo creates the dataset repository if it does not already exist.
	CreateRepo(ctx context.Context, repoID string) error

	// UploadFile uploads content to pathInRepo in the dataset repository.
	UploadFile(ctx context.Context, repoID, pathInRepo string, content []byte, commitMessage string) error
}

// HubClient talks to a HuggingFace-style dataset hub over HTTP.
type HubClient struct {
	baseURL string
	token   string
	client  *httpclient.HTTPClient
}

// NewHubClient creates a registry client for the hub at baseURL, authenticated
// with the given API token.
func NewHubClient(baseURL, token string) *HubClient {
	return &HubClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  httpclient.NewClient(httpclient.APIClient),
	}
}

// CreateRepo creates the dataset repo. An already-existing repo is not an
// error.
func (c *HubClient) CreateRepo(ctx context.Context, repoID string) error {
	payload, err := json.Marshal(map[string]string{
		"type": "dataset",
		"name": repoID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/repos/create", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("create repo %s: %w", repoID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusConflict:
		return nil
	default:
		return fmt.Errorf("create repo %s: %s", repoID, responseError(resp))
	}
}

// UploadFile uploads raw file content to the repo's trunk revision.
func (c *HubClient) UploadFile(ctx context.Context, repoID, pathInRepo string, content []byte, commitMessage string) error {
	endpoint := fmt.Sprintf("%s/api/datasets/%s/upload/main/%s?commit_message=%s",
		c.baseURL, repoID, pathInRepo, url.QueryEscape(commitMessage))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s to %s: %w", pathInRepo, repoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("upload %s to %s: %s", pathInRepo, repoID, responseError(resp))
	}
	return nil
}

func (c *HubClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func responseError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, msg)
}
