// internal/region/windows.go
package region

import (
	"fmt"

	"vcfdump/internal/errs"
)

// DefaultWindowSpan is the per-query window size in bases.
const DefaultWindowSpan = 20000

// Planner splits chromosomes into fixed-span query windows.
type Planner struct {
	Span    int64
	Lengths map[string]int64 // chromosome -> total length in bases
}

// NewPlanner returns a Planner with span defaulted when <= 0.
func NewPlanner(span int64, lengths map[string]int64) Planner {
	if span <= 0 {
		span = DefaultWindowSpan
	}
	return Planner{Span: span, Lengths: lengths}
}

// Windows covers [1, length(chrom)] with non-overlapping regions of Span
// bases, ascending by start; the last window is clipped to the true length.
// An unknown chromosome length is an error, not a silent skip.
func (p Planner) Windows(chrom string) ([]Region, error) {
	length, ok := p.Lengths[chrom]
	if !ok || length <= 0 {
		return nil, fmt.Errorf("%w: unknown length for chromosome %q", errs.ErrNotFound, chrom)
	}
	return p.WindowsIn(Region{Chromosome: chrom, Start: 1, End: length}), nil
}

// WindowsIn covers the bounded region r with non-overlapping windows of at
// most Span bases, ascending by start, the last clipped to r.End.
func (p Planner) WindowsIn(r Region) []Region {
	n := (r.End - r.Start + p.Span) / p.Span
	out := make([]Region, 0, n)
	for start := r.Start; start <= r.End; start += p.Span {
		end := start + p.Span - 1
		if end > r.End {
			end = r.End
		}
		out = append(out, Region{Chromosome: r.Chromosome, Start: start, End: end})
	}
	return out
}
