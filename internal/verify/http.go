package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// client wraps http.Client with the server base URL.
type client struct {
	http *http.Client
	base string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http: &http.Client{Timeout: timeout},
		base: strings.TrimRight(baseURL, "/"),
	}
}

// get fetches path and returns the status code and body.
func (c *client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("GET %s: read body: %w", path, err)
	}
	return resp.StatusCode, body, nil
}

// getJSON fetches path and decodes a 200 response into v.
func (c *client) getJSON(ctx context.Context, path string, v any) error {
	status, body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, status)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

func tooltipPath(id string) string {
	return "/api/tooltip/" + url.PathEscape(id)
}
