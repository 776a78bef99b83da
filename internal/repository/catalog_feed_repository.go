package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/noah-isme/course-planner-api/internal/dto"
)

const maxFeedBytes = 64 << 20

// CatalogFeedRepository reads the published course data from a file path or an http(s) URL.
type CatalogFeedRepository struct {
	source string
	client *http.Client
}

// NewCatalogFeedRepository constructs the repository. A zero timeout leaves the client unbounded.
func NewCatalogFeedRepository(source string, timeout time.Duration) *CatalogFeedRepository {
	return &CatalogFeedRepository{source: source, client: &http.Client{Timeout: timeout}}
}

// Source returns the configured location.
func (r *CatalogFeedRepository) Source() string { return r.source }

// Fetch returns the raw feed document.
func (r *CatalogFeedRepository) Fetch(ctx context.Context) ([]byte, error) {
	if r.source == "" {
		return nil, fmt.Errorf("catalog source not configured")
	}
	if !isRemote(r.source) {
		data, err := os.ReadFile(r.source)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.source, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	return data, nil
}

// DecodeFeed parses a raw feed document. A document without a departments array is rejected.
func DecodeFeed(data []byte) (*dto.CatalogFeed, error) {
	var probe struct {
		Departments json.RawMessage `json:"departments"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode catalog feed: %w", err)
	}
	if len(probe.Departments) == 0 || probe.Departments[0] != '[' {
		return nil, fmt.Errorf("decode catalog feed: missing departments array")
	}
	var feed dto.CatalogFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("decode catalog feed: %w", err)
	}
	return &feed, nil
}

// FeedVersion fingerprints a raw document.
func FeedVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:6])
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
