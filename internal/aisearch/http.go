package aisearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hupe1980/projgrid/internal/version"
)

// HTTPSearcher delegates searches to a JSON endpoint. It POSTs
// {"query": "..."} and expects {"description": "...", "itemName": "..."}.
// A 204 response or an empty body means nothing was found.
type HTTPSearcher struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSearcher creates a searcher for endpoint. A nil client means
// http.DefaultClient.
func NewHTTPSearcher(endpoint string, client *http.Client) (*HTTPSearcher, error) {
	if endpoint == "" {
		return nil, errors.New("ai search endpoint is required for the http provider")
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPSearcher{endpoint: endpoint, client: client}, nil
}

// Search implements Searcher.
func (s *HTTPSearcher) Search(ctx context.Context, query string) (*Result, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai search: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	return decodeResult(raw)
}

// decodeResult parses a {description, itemName} document. Blank input and
// blank results decode to nil.
func decodeResult(raw []byte) (*Result, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	if r.IsZero() {
		return nil, nil
	}

	return &r, nil
}
