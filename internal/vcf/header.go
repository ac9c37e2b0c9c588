// internal/vcf/header.go
package vcf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"vcfdump/internal/variant"
)

// DefaultFileFormat is used when no source declares a fileformat line.
const DefaultFileFormat = "VCFv4.2"

// Contig is one reference sequence declared in a VCF header.
type Contig struct {
	ID     string
	Length int64
}

// Header is the merged output header: one fileformat line, deduplicated meta
// lines, and the union of sample names across sources. Contig lines stay in
// Meta until Dictionary extracts them.
type Header struct {
	FileFormat string
	Meta       []string // "##key=..." lines, without the fileformat line
	Samples    []string
}

// SequenceDictionary is the ordered contig set extracted from a header.
type SequenceDictionary struct {
	Contigs []Contig
}

// Merge builds one Header from every source's raw meta lines. Meta lines are
// deduplicated preserving first-seen order, samples are unioned, and the
// fileformat of the first source that declares one wins. Merging zero sources
// is an error: the run has nothing to describe its output with.
func Merge(sources map[string]variant.Source) (*Header, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources to merge a header from")
	}

	// Stable iteration so the merged header is reproducible across runs.
	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := &Header{}
	seenMeta := make(map[string]struct{})
	seenSample := make(map[string]struct{})
	for _, id := range ids {
		src := sources[id]
		for _, line := range src.Header {
			line = strings.TrimSpace(line)
			switch {
			case line == "" || !strings.HasPrefix(line, "##"):
				continue
			case strings.HasPrefix(line, "##fileformat="):
				if h.FileFormat == "" {
					h.FileFormat = strings.TrimPrefix(line, "##fileformat=")
				}
			default:
				if _, dup := seenMeta[line]; dup {
					continue
				}
				seenMeta[line] = struct{}{}
				h.Meta = append(h.Meta, line)
			}
		}
		for _, s := range src.Samples {
			if _, dup := seenSample[s]; dup {
				continue
			}
			seenSample[s] = struct{}{}
			h.Samples = append(h.Samples, s)
		}
	}
	if h.FileFormat == "" {
		h.FileFormat = DefaultFileFormat
	}
	return h, nil
}

// Dictionary extracts the sequence dictionary from the header's ##contig
// lines. A malformed contig line yields ok=false so callers can degrade to a
// contig-less header instead of treating it as an error.
func (h *Header) Dictionary() (SequenceDictionary, bool) {
	var dict SequenceDictionary
	for _, line := range h.Meta {
		if !strings.HasPrefix(line, "##contig=<") {
			continue
		}
		c, err := parseContig(line)
		if err != nil {
			return SequenceDictionary{}, false
		}
		dict.Contigs = append(dict.Contigs, c)
	}
	return dict, true
}

func parseContig(line string) (Contig, error) {
	body := strings.TrimPrefix(line, "##contig=<")
	body = strings.TrimSuffix(body, ">")
	var c Contig
	for _, field := range strings.Split(body, ",") {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return Contig{}, fmt.Errorf("contig field %q has no value", field)
		}
		switch key {
		case "ID":
			c.ID = val
		case "length":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil || n <= 0 {
				return Contig{}, fmt.Errorf("contig length %q", val)
			}
			c.Length = n
		}
	}
	if c.ID == "" {
		return Contig{}, fmt.Errorf("contig line %q has no ID", line)
	}
	return c, nil
}
