// internal/vcf/record.go
package vcf

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Record is one output variant line. Pos is 1-based.
type Record struct {
	Chrom  string
	Pos    int64
	ID     string
	Ref    string
	Alt    string
	Qual   string
	Filter string
	Info   map[string]string
}

// Start returns the position used for in-window ordering.
func (r Record) Start() int64 { return r.Pos }

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

// EncodeInfo renders the INFO column with keys in lexical order, "." when
// empty. A key with an empty value is rendered as a flag.
func (r Record) EncodeInfo() string {
	if len(r.Info) == 0 {
		return "."
	}
	keys := make([]string, 0, len(r.Info))
	for k := range r.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := r.Info[k]; v == "" {
			parts = append(parts, k)
		} else {
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, ";")
}

// WriteTo encodes the record as one tab-separated VCF data line. sampleCount
// pads missing per-sample genotype columns so the line matches the header's
// column count.
func (r Record) WriteTo(w io.Writer, sampleCount int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s",
		r.Chrom, r.Pos, orDot(r.ID), r.Ref, r.Alt, orDot(r.Qual), orDot(r.Filter), r.EncodeInfo())
	if sampleCount > 0 {
		sb.WriteString("\tGT")
		for i := 0; i < sampleCount; i++ {
			sb.WriteString("\t./.")
		}
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteHeader renders the full header block: fileformat, meta lines, contig
// lines from dict (omitted when dict is nil), then the column line.
func WriteHeader(w io.Writer, h *Header, dict *SequenceDictionary) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "##fileformat=%s\n", h.FileFormat)
	for _, line := range h.Meta {
		if strings.HasPrefix(line, "##contig=<") {
			continue // contigs come from the dictionary, if any
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if dict != nil {
		for _, c := range dict.Contigs {
			if c.Length > 0 {
				fmt.Fprintf(&sb, "##contig=<ID=%s,length=%d>\n", c.ID, c.Length)
			} else {
				fmt.Fprintf(&sb, "##contig=<ID=%s>\n", c.ID)
			}
		}
	}
	sb.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO")
	if len(h.Samples) > 0 {
		sb.WriteString("\tFORMAT")
		for _, s := range h.Samples {
			sb.WriteByte('\t')
			sb.WriteString(s)
		}
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}
