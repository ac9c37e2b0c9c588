// internal/catalog/catalog.go
package catalog

import "context"

// Chromosome is one reference sequence known to the organism catalog.
type Chromosome struct {
	Name   string `json:"name"`
	Length int64  `json:"length"`
}

// Catalog answers which chromosomes an organism has and how long they are.
// The export pipeline consumes it when no region filter narrows the run.
type Catalog interface {
	Chromosomes(ctx context.Context, species string) ([]Chromosome, error)
}

// Names flattens a chromosome list to its names.
func Names(chroms []Chromosome) []string {
	out := make([]string, 0, len(chroms))
	for _, c := range chroms {
		out = append(out, c.Name)
	}
	return out
}

// Lengths flattens a chromosome list to a name -> length map, skipping
// entries without a usable length.
func Lengths(chroms []Chromosome) map[string]int64 {
	out := make(map[string]int64, len(chroms))
	for _, c := range chroms {
		if c.Length > 0 {
			out[c.Name] = c.Length
		}
	}
	return out
}
