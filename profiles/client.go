package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// userAgent identifies the service to the open-data upstreams.
const userAgent = "agoraflux-country-profiles/1.0"

// Responses larger than this are truncated; the scraped ranking page is
// the only multi-megabyte upstream and its payload sits well below it.
const maxResponseBytes = 16 << 20

func (b *Builder) do(ctx context.Context, method, url, contentType, accept string, body string) ([]byte, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return data, nil
}

// getJSON fetches url and decodes the JSON response into out.
func (b *Builder) getJSON(ctx context.Context, url string, out any) error {
	data, err := b.do(ctx, http.MethodGet, url, "", "application/json", "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// getText fetches url and returns the raw response body.
func (b *Builder) getText(ctx context.Context, url string) (string, error) {
	data, err := b.do(ctx, http.MethodGet, url, "", "", "")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
