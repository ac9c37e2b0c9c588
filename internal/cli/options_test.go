package cli

import (
	"errors"
	"flag"
	"io"
	"testing"
)

func parse(t *testing.T, argv ...string) (Options, error) {
	t.Helper()
	fs := NewFlagSet("vcfdump")
	fs.SetOutput(io.Discard)
	return ParseArgs(fs, argv)
}

func TestParseArgsHappyPath(t *testing.T) {
	opt, err := parse(t,
		"--species", "hsapiens",
		"--db", "variants.db",
		"--study", "PRJ1", "--study", "PRJ2",
		"--file", "f1",
		"--out-dir", "/tmp/out",
		"--filter", "region=1:1-1000",
		"--filter", "region=2:5-50",
		"--filter", "gene=BRCA2",
		"--workers", "4",
	)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if opt.Species != "hsapiens" || opt.DBName != "variants.db" {
		t.Fatalf("opt = %+v", opt)
	}
	if len(opt.Studies) != 2 || opt.Studies[1] != "PRJ2" {
		t.Fatalf("studies = %v", opt.Studies)
	}
	if got := opt.Filters["region"]; len(got) != 2 || got[1] != "2:5-50" {
		t.Fatalf("filters = %v", opt.Filters)
	}
	if opt.Workers != 4 {
		t.Fatalf("workers = %d", opt.Workers)
	}
}

func TestParseArgsConflictsAndBounds(t *testing.T) {
	if _, err := parse(t, "--out-dir", "/x", "--stdout"); err == nil {
		t.Fatal("expected --out-dir/--stdout conflict")
	}
	if _, err := parse(t, "--window-size", "-5"); err == nil {
		t.Fatal("expected window-size bound error")
	}
	if _, err := parse(t, "--workers", "-1"); err == nil {
		t.Fatal("expected workers bound error")
	}
	if _, err := parse(t, "--filter", "noequals"); err == nil {
		t.Fatal("expected filter format error")
	}
}

func TestParseArgsHelp(t *testing.T) {
	if _, err := parse(t, "-h"); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}
