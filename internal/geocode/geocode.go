// Package geocode resolves coordinates to a human-readable address via a
// public reverse-geocoding service. Resolution is best effort: a lookup
// failure never blocks saving a record.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// cacheTTL matches the position-cache window of the capture side.
const cacheTTL = 5 * time.Minute

// Client looks up addresses with a small in-memory result cache keyed by
// rounded coordinates.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	address string
	at      time.Time
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// Reverse resolves (lat, lon) to an address string.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("%.4f,%.4f", lat, lon)

	c.mu.Lock()
	if c.cache == nil {
		c.cache = make(map[string]cacheEntry)
	}
	if e, ok := c.cache[key]; ok && time.Since(e.at) < cacheTTL {
		c.mu.Unlock()
		return e.address, nil
	}
	c.mu.Unlock()

	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("accept-language", "ja")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "lifelog/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read reverse geocode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode status %d", resp.StatusCode)
	}

	var parsed reverseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{address: parsed.DisplayName, at: time.Now()}
	c.mu.Unlock()

	return parsed.DisplayName, nil
}
