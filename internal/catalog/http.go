// internal/catalog/http.go
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// Client queries a REST organism catalog for chromosome metadata.
// The endpoint is GET {base}/genomes/{species}/chromosomes returning a JSON
// array of {"name": ..., "length": ...} objects.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a Client for the given base URL.
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Chromosomes(ctx context.Context, species string) ([]Chromosome, error) {
	u := fmt.Sprintf("%s/genomes/%s/chromosomes", c.base, url.PathEscape(species))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request: %s returned %s", u, resp.Status)
	}
	var chroms []Chromosome
	if err := json.NewDecoder(resp.Body).Decode(&chroms); err != nil {
		return nil, fmt.Errorf("catalog response: %w", err)
	}
	return chroms, nil
}
