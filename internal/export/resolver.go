// internal/export/resolver.go
package export

import (
	"context"
	"fmt"

	"vcfdump/internal/catalog"
	"vcfdump/internal/errs"
	"vcfdump/internal/region"
	"vcfdump/internal/store"
)

// resolveChromosomes decides which chromosomes the run covers. A region
// filter on the query wins and the catalog is not consulted at all;
// otherwise the organism catalog is asked for every chromosome of the
// species. An empty result is fatal.
//
// The store is deliberately never queried for chromosome identities: header
// sequence dictionaries are not reliable enough to drive discovery.
func resolveChromosomes(ctx context.Context, q store.Query, cat catalog.Catalog, species string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if regions := q.Regions(); len(regions) > 0 {
		for _, r := range regions {
			if chrom := region.Chromosome(r); chrom != "" {
				out[chrom] = struct{}{}
			}
		}
	} else {
		chroms, err := cat.Chromosomes(ctx, species)
		if err != nil {
			return nil, fmt.Errorf("%w: chromosome catalog: %v", errs.ErrIO, err)
		}
		for _, name := range catalog.Names(chroms) {
			out[name] = struct{}{}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no chromosomes found for species %q", errs.ErrNotFound, species)
	}
	return out, nil
}
