// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"vcfdump/internal/annotate"
	"vcfdump/internal/catalog"
	"vcfdump/internal/cli"
	"vcfdump/internal/config"
	"vcfdump/internal/errs"
	"vcfdump/internal/export"
	"vcfdump/internal/jsonutil"
	"vcfdump/internal/runutil"
	"vcfdump/internal/sink"
	"vcfdump/internal/version"
	"vcfdump/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("vcfdump")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(outw)
		fs.Usage()
		return flushCode(outw, stderr, 0)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return flushCode(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "vcfdump version %s\n", version.Version)
		return flushCode(outw, stderr, 0)
	}

	if opts.ConfigFile != "" {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		mergeConfig(&opts, cfg)
	}

	level := slog.LevelInfo
	if opts.Quiet {
		level = slog.LevelError
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cat, err := buildCatalog(opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	var annotator annotate.Annotator
	if opts.AnnotationURL != "" {
		annotator = annotate.NewClient(opts.AnnotationURL)
	}

	if opts.OutputDir == "" && !opts.Stdout {
		_, _ = fmt.Fprintln(stderr, "provide --out-dir or --stdout")
		return 2
	}

	params := export.Params{
		Species:     opts.Species,
		DBName:      opts.DBName,
		Studies:     opts.Studies,
		Files:       opts.Files,
		OutputDir:   opts.OutputDir,
		QueryParams: opts.Filters,
		WindowSpan:  opts.WindowSize,
		Workers:     runutil.EffectiveWorkers(opts.Workers),
		Catalog:     cat,
		Annotator:   annotator,
		Logger:      log,
	}
	if opts.Stdout {
		params.Stream = outw
	}

	start := time.Now()
	ctrl, err := export.New(params)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		if errors.Is(err, errs.ErrInvalidArgument) {
			return 2
		}
		return 3
	}
	if err := ctrl.Run(parent); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		if sink.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	if opts.Summary {
		report := api.ReportV1{
			Species:       opts.Species,
			Studies:       opts.Studies,
			Chromosomes:   ctrl.Chromosomes(),
			OutputPath:    ctrl.OutputPath(),
			FailedRecords: ctrl.FailedRecords(),
			DurationMS:    time.Since(start).Milliseconds(),
		}
		// In stream mode stdout carries the VCF; the summary goes to stderr.
		dst := io.Writer(outw)
		if opts.Stdout {
			dst = stderr
		}
		if err := jsonutil.EncodePretty(dst, report); err != nil && !sink.IsBrokenPipe(err) {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
	}

	return flushCode(outw, stderr, 0)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func flushCode(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); sink.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}

// mergeConfig fills in every option the flags left unset.
func mergeConfig(opts *cli.Options, cfg *config.Config) {
	if opts.Species == "" {
		opts.Species = cfg.Species
	}
	if opts.DBName == "" {
		opts.DBName = cfg.DB
	}
	if len(opts.Studies) == 0 {
		opts.Studies = cfg.Studies
	}
	if len(opts.Files) == 0 {
		opts.Files = cfg.Files
	}
	if opts.OutputDir == "" && !opts.Stdout {
		opts.OutputDir = cfg.OutputDir
	}
	if len(opts.Filters) == 0 {
		opts.Filters = cfg.Filters
	}
	if opts.CatalogURL == "" {
		opts.CatalogURL = cfg.CatalogURL
	}
	if opts.AnnotationURL == "" {
		opts.AnnotationURL = cfg.AnnotationURL
	}
	if opts.WindowSize == 0 {
		opts.WindowSize = cfg.WindowSize
	}
	if opts.Workers == 0 && cfg.Workers > 0 {
		opts.Workers = cfg.Workers
	}
	if len(cfg.Assembly) > 0 {
		opts.Assembly = cfg.Assembly
	}
}

func buildCatalog(opts cli.Options) (catalog.Catalog, error) {
	if opts.CatalogURL != "" {
		return catalog.NewClient(opts.CatalogURL), nil
	}
	if len(opts.Assembly) > 0 {
		return catalog.Static{Species: opts.Assembly}, nil
	}
	return nil, errors.New("provide --catalog-url or an assembly section in --config")
}
