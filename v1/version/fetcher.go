package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// HTTPFetcher reads the server version from the REST meta endpoint.
type HTTPFetcher struct {
	// BaseURL is scheme://host:port, without trailing slash.
	BaseURL string
	// APIKey, when set, is sent as a bearer token.
	APIKey string
	// Client defaults to an http.Client with a 10s timeout.
	Client *http.Client
}

type metaResponse struct {
	Hostname string `json:"hostname"`
	Version  string `json:"version"`
}

// NewHTTPFetcher builds a fetcher for baseURL.
func NewHTTPFetcher(baseURL, apiKey string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

// FetchVersion GETs /v1/meta and returns its "version" field. A missing
// field is returned as the empty string, which Parse treats as 0.0.0.
func (f *HTTPFetcher) FetchVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/v1/meta", nil)
	if err != nil {
		return "", fmt.Errorf("build meta request: %w", err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("meta request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("meta request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var meta metaResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("decode meta response: %w", err)
	}
	return meta.Version, nil
}
