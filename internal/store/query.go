// internal/store/query.go
package store

import (
	"fmt"
	"strings"

	"vcfdump/internal/errs"
	"vcfdump/internal/region"
)

// ParamRegion is the filter name carrying region constraints.
const ParamRegion = "region"

// acceptedParams is the allow-list of externally supplied filter names.
// Anything else in the caller's parameter map is silently dropped.
var acceptedParams = map[string]struct{}{
	ParamRegion: {},
	"ids":       {},
	"gene":      {},
	"type":      {},
	"reference": {},
	"alternate": {},
	"maf":       {},
	"polyphen":  {},
	"sift":      {},
}

// Query scopes one store lookup: which studies and files to read, plus any
// accepted filters. Treat values as immutable; derive narrowed copies with
// WithRegion.
type Query struct {
	Studies []string
	Files   []string
	Filters map[string]string
}

// Build assembles a Query from the required study list, the optional file
// list and caller-supplied filter values. Multiple values for one filter are
// comma-joined. An empty study list is an invalid argument: files alone
// cannot scope a query.
func Build(studies, files []string, params map[string][]string) (Query, error) {
	if len(studies) == 0 {
		return Query{}, fmt.Errorf("%w: 'studies' is required", errs.ErrInvalidArgument)
	}
	q := Query{
		Studies: append([]string(nil), studies...),
		Files:   append([]string(nil), files...),
		Filters: make(map[string]string, len(params)),
	}
	for name, values := range params {
		if _, ok := acceptedParams[name]; !ok {
			continue
		}
		if len(values) == 0 {
			continue
		}
		joined := strings.Join(values, ",")
		if name == ParamRegion {
			// Region syntax is validated here so a bad value fails the
			// build, not a window deep inside the run.
			for _, tok := range strings.Split(joined, ",") {
				if tok = strings.TrimSpace(tok); tok == "" {
					continue
				}
				if _, err := region.Parse(tok); err != nil {
					return Query{}, err
				}
			}
		}
		q.Filters[name] = joined
	}
	return q, nil
}

// Regions returns the parsed region filter, empty when none was supplied.
func (q Query) Regions() []string {
	raw, ok := q.Filters[ParamRegion]
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WithRegion returns a copy of q scoped to exactly one region, replacing any
// wider region filter the base query carried.
func (q Query) WithRegion(r region.Region) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[ParamRegion] = r.String()
	return Query{Studies: q.Studies, Files: q.Files, Filters: filters}
}
