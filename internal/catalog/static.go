// internal/catalog/static.go
package catalog

import "context"

// Static is a fixed in-memory catalog, typically loaded from the config
// file's assembly section. Species maps organism name to its chromosomes.
type Static struct {
	Species map[string][]Chromosome
}

func (s Static) Chromosomes(_ context.Context, species string) ([]Chromosome, error) {
	return s.Species[species], nil
}
