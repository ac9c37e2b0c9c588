// internal/annotate/http.go
package annotate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"vcfdump/internal/variant"
)

// Client queries a REST annotation service, one variant per call:
// GET {base}/annotation/{chrom}:{pos}:{ref}:{alt}.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Annotate(ctx context.Context, v variant.Variant) (Annotation, error) {
	key := fmt.Sprintf("%s:%d:%s:%s", v.Chromosome, v.Position, v.Reference, v.Alternate)
	u := fmt.Sprintf("%s/annotation/%s", c.base, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Annotation{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Annotation{}, fmt.Errorf("annotation request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// Unknown variant: no annotation, not a failure.
		return Annotation{}, nil
	default:
		return Annotation{}, fmt.Errorf("annotation request: %s returned %s", u, resp.Status)
	}
	var a Annotation
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return Annotation{}, fmt.Errorf("annotation response: %w", err)
	}
	return a, nil
}
