// internal/region/region.go
package region

import (
	"fmt"
	"strconv"
	"strings"

	"vcfdump/internal/errs"
)

// Region is a 1-based, inclusive genomic interval on one chromosome.
// A zero Start and End means the whole chromosome.
type Region struct {
	Chromosome string
	Start      int64
	End        int64
}

// String renders "chrom:start-end", or just "chrom" when unbounded.
func (r Region) String() string {
	if r.Start == 0 && r.End == 0 {
		return r.Chromosome
	}
	return fmt.Sprintf("%s:%d-%d", r.Chromosome, r.Start, r.End)
}

// Bounded reports whether the region carries explicit coordinates.
func (r Region) Bounded() bool { return r.Start != 0 || r.End != 0 }

// Parse accepts "chrom", "chrom:start-end" or "chrom:start".
func Parse(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Region{}, fmt.Errorf("%w: empty region", errs.ErrInvalidArgument)
	}
	chrom, rest, found := strings.Cut(s, ":")
	if chrom == "" {
		return Region{}, fmt.Errorf("%w: region %q has no chromosome", errs.ErrInvalidArgument, s)
	}
	r := Region{Chromosome: chrom}
	if !found {
		return r, nil
	}
	startStr, endStr, hasEnd := strings.Cut(rest, "-")
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("%w: region %q: bad start", errs.ErrInvalidArgument, s)
	}
	r.Start = start
	r.End = start
	if hasEnd {
		end, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return Region{}, fmt.Errorf("%w: region %q: bad end", errs.ErrInvalidArgument, s)
		}
		r.End = end
	}
	if r.Start < 1 || r.End < r.Start {
		return Region{}, fmt.Errorf("%w: region %q: start must be >= 1 and <= end", errs.ErrInvalidArgument, s)
	}
	return r, nil
}

// Chromosome returns the chromosome token of a region string without
// validating the coordinate part. "1:1000-2000" -> "1".
func Chromosome(s string) string {
	chrom, _, _ := strings.Cut(strings.TrimSpace(s), ":")
	return chrom
}
