// Package profixio downloads raw EMP game feeds and keeps the local raw
// directory in sync with the configured sources list.
package profixio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// empPattern extracts the integer match id from an EMP feed URL.
var empPattern = regexp.MustCompile(`/emp/(\d+)/`)

// Client fetches EMP feed documents over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a feed client with the given per-request timeout.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// ParseMatchID extracts the match id from an EMP feed URL.
func ParseMatchID(url string) (int, error) {
	m := empPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, fmt.Errorf("could not extract match id from URL: %s", url)
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("could not extract match id from URL: %s", url)
	}
	return id, nil
}

// FetchFeed downloads one raw feed document. A single attempt is made; a
// failed game is skipped by the caller and retried on a later run. Non-2xx
// responses and empty bodies are errors.
func (c *Client) FetchFeed(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response for %s: %w", url, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no data returned for %s", url)
	}
	return data, nil
}

// RawFeedPath returns the cache path of one game's raw feed document.
func RawFeedPath(rawDir string, matchID int) string {
	return filepath.Join(rawDir, fmt.Sprintf("game_%d.json", matchID))
}

// ReadSources reads the feed URL list: one URL per line, blank lines and
// '#' comments ignored. A missing sources file is a fatal condition for
// the fetch entry point, so it is returned as an error.
func ReadSources(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sources file not found: %s", path)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return urls, nil
}
