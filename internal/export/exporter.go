// internal/export/exporter.go
package export

import (
	"context"
	"fmt"
	"log/slog"

	"vcfdump/internal/annotate"
	"vcfdump/internal/errs"
	"vcfdump/internal/region"
	"vcfdump/internal/store"
	"vcfdump/internal/variant"
	"vcfdump/internal/vcf"
)

// Exporter converts store variants into output records, enriching each one
// through the annotation collaborator.
type Exporter struct {
	annotator annotate.Annotator
	log       *slog.Logger
}

func NewExporter(a annotate.Annotator, log *slog.Logger) *Exporter {
	if a == nil {
		a = annotate.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{annotator: a, log: log}
}

// Export drains the iterator for one window and converts each variant. A
// record that fails conversion or enrichment is logged and counted, never
// aborting the window; the returned records keep iterator order. The failed
// count is this call's delta only; the controller accumulates it. An
// iterator error is a real error: the window cannot be trusted complete.
func (e *Exporter) Export(ctx context.Context, it store.Iterator, reg region.Region) ([]vcf.Record, int, error) {
	var (
		out    []vcf.Record
		failed int
	)
	for it.Next() {
		v := it.Variant()
		rec, err := e.convert(ctx, v)
		if err != nil {
			failed++
			e.log.Warn("skipping record",
				"region", reg.String(),
				"chromosome", v.Chromosome,
				"position", v.Position,
				"err", err)
			continue
		}
		out = append(out, rec)
	}
	if err := it.Err(); err != nil {
		return nil, failed, fmt.Errorf("iterate %s: %w", reg, err)
	}
	return out, failed, nil
}

func (e *Exporter) convert(ctx context.Context, v variant.Variant) (vcf.Record, error) {
	if v.Chromosome == "" || v.Position < 1 {
		return vcf.Record{}, fmt.Errorf("%w: bad coordinates %q:%d", errs.ErrConversion, v.Chromosome, v.Position)
	}
	if v.Reference == "" || v.Alternate == "" {
		return vcf.Record{}, fmt.Errorf("%w: empty alleles at %s:%d", errs.ErrConversion, v.Chromosome, v.Position)
	}
	ann, err := e.annotator.Annotate(ctx, v)
	if err != nil {
		return vcf.Record{}, fmt.Errorf("%w: annotate %s:%d: %v", errs.ErrConversion, v.Chromosome, v.Position, err)
	}
	rec := vcf.Record{
		Chrom: v.Chromosome,
		Pos:   v.Position,
		ID:    ann.ID,
		Ref:   v.Reference,
		Alt:   v.Alternate,
	}
	if len(v.Info) > 0 || ann.ConsequenceType != "" {
		rec.Info = make(map[string]string, len(v.Info)+1)
		for k, val := range v.Info {
			rec.Info[k] = val
		}
		if ann.ConsequenceType != "" {
			rec.Info["CT"] = ann.ConsequenceType
		}
	}
	return rec, nil
}

// Sources fetches per-study file metadata for every requested study.
func (e *Exporter) Sources(ctx context.Context, sa store.SourceAdaptor, studyIDs []string) (map[string]variant.Source, error) {
	sources, err := sa.Sources(ctx, studyIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: get sources: %v", errs.ErrIO, err)
	}
	for _, id := range studyIDs {
		if _, ok := sources[id]; !ok {
			e.log.Warn("study has no source metadata", "study", id)
		}
	}
	return sources, nil
}

// MergedHeader combines all sources' metadata into the single output header.
// Without it the run cannot write anything, so failure here is fatal.
func (e *Exporter) MergedHeader(sources map[string]variant.Source) (*vcf.Header, error) {
	h, err := vcf.Merge(sources)
	if err != nil {
		return nil, fmt.Errorf("%w: merge headers: %v", errs.ErrIO, err)
	}
	return h, nil
}
