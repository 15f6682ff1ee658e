// Package clients holds HTTP clients for remote package indexes.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/descry-dev/descry/internal/cache"
	"github.com/descry-dev/descry/internal/pep508"
)

const defaultIndexURL = "https://pypi.org/pypi"

// PyPIClient fetches project metadata from the PyPI JSON API.
type PyPIClient struct {
	httpClient *http.Client
	cache      *cache.Cache
	baseURL    string
}

// NewPyPIClient creates a client. A nil cache disables caching.
func NewPyPIClient(c *cache.Cache, timeout time.Duration) *PyPIClient {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &PyPIClient{
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		baseURL:    defaultIndexURL,
	}
}

// WithBaseURL points the client at a different index, for tests.
func (c *PyPIClient) WithBaseURL(url string) *PyPIClient {
	c.baseURL = url
	return c
}

// projectResponse is the subset of the PyPI JSON API response the
// resolver needs.
type projectResponse struct {
	Info struct {
		Name         string   `json:"name"`
		Version      string   `json:"version"`
		RequiresDist []string `json:"requires_dist"`
	} `json:"info"`
}

// ProjectMetadata is the resolved view of one index entry.
type ProjectMetadata struct {
	Name         string
	Version      string
	RequiresDist []pep508.Requirement
}

// FetchProject fetches metadata for the named project, serving from
// cache when possible. Specifiers the index reports that do not parse
// are skipped rather than failing the whole fetch; indexes carry
// legacy metadata.
func (c *PyPIClient) FetchProject(ctx context.Context, name string) (*ProjectMetadata, error) {
	url := fmt.Sprintf("%s/%s/json", c.baseURL, pep508.CanonicalName(name))

	var data []byte
	if c.cache != nil {
		if cached, ok := c.cache.Get(url); ok {
			data = cached
		}
	}

	if data == nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s metadata: %w", name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("project %q not found on index", name)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, name)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if c.cache != nil {
			c.cache.Set(url, data)
		}
	}

	return parseProject(data)
}

func parseProject(data []byte) (*ProjectMetadata, error) {
	var resp projectResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse index metadata: %w", err)
	}

	meta := &ProjectMetadata{
		Name:    resp.Info.Name,
		Version: resp.Info.Version,
	}
	for _, spec := range resp.Info.RequiresDist {
		req, err := pep508.Parse(spec)
		if err != nil {
			continue
		}
		meta.RequiresDist = append(meta.RequiresDist, req)
	}
	return meta, nil
}
