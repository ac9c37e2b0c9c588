// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"vcfdump/internal/catalog"
	"vcfdump/internal/version"
)

// Options holds all CLI flags.
type Options struct {
	// Export target
	Species string
	DBName  string
	Studies []string
	Files   []string

	// Output (mutually exclusive)
	OutputDir string
	Stdout    bool

	// Query filters (allow-listed downstream)
	Filters map[string][]string

	// Collaborator endpoints
	CatalogURL    string
	AnnotationURL string

	// Tuning
	WindowSize int64
	Workers    int

	// Misc
	ConfigFile string
	Summary    bool
	Quiet      bool
	Version    bool

	// Assembly is filled from the config profile, never from a flag.
	Assembly map[string][]catalog.Chromosome
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: export variants from a variant store as a single sorted VCF

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.Species, "species", "", "organism the export covers, e.g. hsapiens [*]")
	fs.StringVar(&opt.DBName, "db", "", "variant database to export from [*]")
	var studies, files stringSlice
	fs.Var(&studies, "study", "study identifier (repeatable) [*]")
	fs.Var(&files, "file", "file identifier within the studies (repeatable; default: all)")

	fs.StringVar(&opt.OutputDir, "out-dir", "", "directory for the compressed VCF (conflicts with --stdout)")
	fs.BoolVar(&opt.Stdout, "stdout", false, "write uncompressed VCF to standard output [false]")

	var filters filterMap
	fs.Var(&filters, "filter", "query filter as name=value (repeatable)")

	fs.StringVar(&opt.CatalogURL, "catalog-url", "", "chromosome catalog service base URL")
	fs.StringVar(&opt.AnnotationURL, "annotation-url", "", "variant annotation service base URL")

	fs.Int64Var(&opt.WindowSize, "window-size", 0, "bases per query window (0 = default 20000) [0]")
	fs.IntVar(&opt.Workers, "workers", 0, "window workers per chromosome (0 = all CPUs) [0]")

	fs.StringVar(&opt.ConfigFile, "config", "", "YAML export profile; flags override its values")
	fs.BoolVar(&opt.Summary, "summary", false, "print a JSON run summary to stdout [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress non-error logging [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Studies = studies
	opt.Files = files
	opt.Filters = filters

	// Required values may still come from --config, so only cross-flag
	// consistency is validated here.
	if opt.OutputDir != "" && opt.Stdout {
		return opt, errors.New("--out-dir conflicts with --stdout")
	}
	if opt.WindowSize < 0 {
		return opt, errors.New("--window-size must be ≥ 0")
	}
	if opt.Workers < 0 {
		return opt, errors.New("--workers must be ≥ 0")
	}
	return opt, nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }

// filterMap collects repeated name=value pairs, accumulating values per name.
type filterMap map[string][]string

func (f *filterMap) String() string {
	var parts []string
	for name, values := range *f {
		for _, v := range values {
			parts = append(parts, name+"="+v)
		}
	}
	return strings.Join(parts, ",")
}

func (f *filterMap) Set(v string) error {
	name, value, ok := strings.Cut(v, "=")
	if !ok || name == "" || value == "" {
		return fmt.Errorf("filter %q must be name=value", v)
	}
	if *f == nil {
		*f = filterMap{}
	}
	(*f)[name] = append((*f)[name], value)
	return nil
}
