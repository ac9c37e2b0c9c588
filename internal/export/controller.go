// internal/export/controller.go

// Package export drives one variant export run: it scopes a store query,
// resolves chromosomes, splits them into query windows, converts each
// window's records and writes a single ordered VCF output.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"vcfdump/internal/annotate"
	"vcfdump/internal/catalog"
	"vcfdump/internal/common"
	"vcfdump/internal/errs"
	"vcfdump/internal/region"
	"vcfdump/internal/sink"
	"vcfdump/internal/store"
	"vcfdump/internal/vcf"
)

// Params configures a Controller. Exactly one of OutputDir and Stream must
// be set. Adaptor may be pre-built (tests, embedded use); when nil, DBName
// is opened as a SQLite variant database.
type Params struct {
	Species string
	DBName  string
	Studies []string
	Files   []string

	OutputDir string
	Stream    io.Writer

	QueryParams map[string][]string

	WindowSpan int64 // 0 = region.DefaultWindowSpan
	Workers    int   // per-chromosome window workers; <=1 is sequential

	Adaptor   store.Adaptor
	Catalog   catalog.Catalog
	Annotator annotate.Annotator
	Logger    *slog.Logger
}

type runState int

const (
	stateInitialized runState = iota
	stateHeaderReady
	stateExporting
	stateClosed
)

// Controller owns one export run. It is single-use: construct, Run once,
// then read the post-run accessors.
type Controller struct {
	species string
	studies []string
	query   store.Query

	adaptor    store.Adaptor
	ownAdaptor bool
	cat        catalog.Catalog
	exporter   *Exporter
	out        *sink.Sink
	span       int64
	workers    int
	log        *slog.Logger

	state       runState
	lengths     map[string]int64 // lazy catalog lengths, fetched once
	failed      int
	chromosomes []string
}

// New validates the construction parameters, builds the base query and the
// sink, and opens the store. Validation happens before anything is opened.
func New(p Params) (*Controller, error) {
	if p.Species == "" {
		return nil, fmt.Errorf("%w: 'species' is required", errs.ErrInvalidArgument)
	}
	p.Studies = common.Unique(p.Studies)
	p.Files = common.Unique(p.Files)
	if len(p.Studies) == 0 {
		return nil, fmt.Errorf("%w: 'studies' is required", errs.ErrInvalidArgument)
	}
	if (p.OutputDir == "") == (p.Stream == nil) {
		return nil, fmt.Errorf("%w: exactly one of output directory and output stream is required", errs.ErrInvalidArgument)
	}
	if p.Adaptor == nil && p.DBName == "" {
		return nil, fmt.Errorf("%w: 'dbName' is required", errs.ErrInvalidArgument)
	}
	if p.Catalog == nil {
		return nil, fmt.Errorf("%w: a chromosome catalog is required", errs.ErrInvalidArgument)
	}
	query, err := store.Build(p.Studies, p.Files, p.QueryParams)
	if err != nil {
		return nil, err
	}

	var out *sink.Sink
	if p.OutputDir != "" {
		out, err = sink.NewFileSink(p.OutputDir, p.Species)
		if err != nil {
			return nil, err
		}
	} else {
		out = sink.NewStreamSink(p.Stream)
	}

	log := p.Logger
	if log == nil {
		log = slog.Default()
	}

	adaptor := p.Adaptor
	own := false
	if adaptor == nil {
		adaptor, err = store.OpenSQLite(p.DBName)
		if err != nil {
			return nil, err
		}
		own = true
	}

	return &Controller{
		species:    p.Species,
		studies:    p.Studies,
		query:      query,
		adaptor:    adaptor,
		ownAdaptor: own,
		cat:        p.Catalog,
		exporter:   NewExporter(p.Annotator, log),
		out:        out,
		span:       p.WindowSpan,
		workers:    p.Workers,
		log:        log,
	}, nil
}

// Run executes the export. On error the sink is discarded, so directory mode
// never leaves a final-named artifact behind. The controller is not reusable
// after Run returns.
func (c *Controller) Run(ctx context.Context) (err error) {
	if c.state != stateInitialized {
		return fmt.Errorf("%w: controller already ran", errs.ErrInvalidArgument)
	}
	defer func() {
		if c.ownAdaptor {
			_ = c.adaptor.Close()
		}
		if err != nil {
			c.out.Discard()
		}
		c.state = stateClosed
	}()

	c.log.Info("generating merged VCF header", "studies", c.studies)
	sources, err := c.exporter.Sources(ctx, c.adaptor.SourceAdaptor(), c.studies)
	if err != nil {
		return err
	}
	header, err := c.exporter.MergedHeader(sources)
	if err != nil {
		return err
	}
	c.state = stateHeaderReady

	chromSet, err := resolveChromosomes(ctx, c.query, c.cat, c.species)
	if err != nil {
		return err
	}
	chromosomes := sortChromosomes(chromSet)
	c.chromosomes = chromosomes
	c.log.Debug("resolved chromosomes", "chromosomes", chromosomes)
	c.state = stateExporting

	if dict, ok := header.Dictionary(); ok {
		c.out.SetDictionary(&dict)
	} else {
		c.log.Warn("incorrect sequence/contig metadata; output header will lack contig lines")
	}
	if err := c.out.WriteHeader(header); err != nil {
		return err
	}

	for _, chrom := range chromosomes {
		if err := c.exportChromosome(ctx, chrom); err != nil {
			return fmt.Errorf("chromosome %s: %w", chrom, err)
		}
	}

	if err := c.out.Close(); err != nil {
		return err
	}
	c.log.Info("export finished", "failedRecords", c.failed)
	return nil
}

// OutputPath returns the resolved output file path after a directory-mode
// run, empty for stream mode.
func (c *Controller) OutputPath() string { return c.out.Path() }

// FailedRecords returns the cumulative conversion-failure count for the run.
func (c *Controller) FailedRecords() int { return c.failed }

// Chromosomes returns the resolved chromosome set in processing order,
// nil before Run reaches resolution.
func (c *Controller) Chromosomes() []string { return c.chromosomes }

// windowsFor plans a chromosome's windows. Bounded region filters on the
// base query clamp the windows to the filtered interval; otherwise the whole
// chromosome is covered, which needs its catalog length.
func (c *Controller) windowsFor(ctx context.Context, chrom string) ([]region.Region, error) {
	planner := region.NewPlanner(c.span, nil)

	var bounded []region.Region
	for _, raw := range c.query.Regions() {
		r, err := region.Parse(raw)
		if err != nil {
			return nil, err
		}
		if r.Chromosome != chrom {
			continue
		}
		if !r.Bounded() {
			bounded = nil
			break // an unbounded filter widens to the whole chromosome
		}
		bounded = append(bounded, r)
	}
	if len(bounded) > 0 {
		// Overlapping or adjacent filters must collapse to one interval:
		// a record belongs to exactly one window, so the planned windows
		// may never cover the same position twice.
		sort.Slice(bounded, func(i, j int) bool { return bounded[i].Start < bounded[j].Start })
		merged := bounded[:1]
		for _, r := range bounded[1:] {
			last := &merged[len(merged)-1]
			if r.Start <= last.End+1 {
				if r.End > last.End {
					last.End = r.End
				}
				continue
			}
			merged = append(merged, r)
		}
		var out []region.Region
		for _, r := range merged {
			out = append(out, planner.WindowsIn(r)...)
		}
		return out, nil
	}

	if c.lengths == nil {
		chroms, err := c.cat.Chromosomes(ctx, c.species)
		if err != nil {
			return nil, fmt.Errorf("%w: chromosome catalog: %v", errs.ErrIO, err)
		}
		c.lengths = catalog.Lengths(chroms)
	}
	planner.Lengths = c.lengths
	return planner.Windows(chrom)
}

type windowResult struct {
	idx     int
	records []vcf.Record
	failed  int
	err     error
}

// exportChromosome fans window processing out over a bounded worker pool and
// fans results back in ordered by window index, so the sink only ever sees
// records in ascending window order. One worker degrades to the sequential
// reference behavior.
func (c *Controller) exportChromosome(ctx context.Context, chrom string) error {
	windows, err := c.windowsFor(ctx, chrom)
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		return nil
	}

	workers := c.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(windows) {
		workers = len(windows)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make(chan windowResult, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				records, failed, err := c.exportWindow(ctx, windows[idx])
				select {
				case results <- windowResult{idx: idx, records: records, failed: failed, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
	feed:
		for i := range windows {
			select {
			case jobs <- i:
			case <-ctx.Done():
				break feed
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// Single-writer fan-in: flush results strictly in window order.
	var (
		firstErr error
		pending  = make(map[int]windowResult, workers)
		next     = 0
	)
	for r := range results {
		if firstErr != nil {
			continue
		}
		if r.err != nil {
			firstErr = r.err
			cancel()
			continue
		}
		pending[r.idx] = r
		for {
			cur, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			c.failed += cur.failed
			for _, rec := range cur.records {
				if err := c.out.Add(rec); err != nil {
					firstErr = err
					cancel()
					break
				}
			}
			if firstErr != nil {
				break
			}
			next++
		}
	}
	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if next != len(windows) {
		return fmt.Errorf("%w: %d of %d windows unwritten", errs.ErrIO, len(windows)-next, len(windows))
	}
	return nil
}

// exportWindow owns the iterator it opens: drained by Export, closed here,
// never shared with another window. The batch is sorted by start position
// before it is handed back; the stable sort keeps equal-start records in
// iterator order.
func (c *Controller) exportWindow(ctx context.Context, w region.Region) ([]vcf.Record, int, error) {
	it, err := c.adaptor.Iterator(ctx, c.query.WithRegion(w))
	if err != nil {
		return nil, 0, fmt.Errorf("window %s: %w", w, err)
	}
	records, failed, err := c.exporter.Export(ctx, it, w)
	if cerr := it.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("window %s: close iterator: %w", w, cerr)
	}
	if err != nil {
		return nil, failed, err
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Start() < records[j].Start() })
	return records, failed, nil
}
