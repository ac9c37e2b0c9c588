// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vcfdump/internal/app"
	"vcfdump/internal/store"
	"vcfdump/internal/variant"
)

func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "variants.db")
	s, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	if err := s.AddSource(ctx, variant.Source{
		StudyID: "PRJ1", FileID: "f1", FileName: "prj1.vcf.gz",
		Header: []string{"##fileformat=VCFv4.2", "##contig=<ID=1,length=30000>"},
	}); err != nil {
		t.Fatalf("seed source: %v", err)
	}
	for _, v := range []variant.Variant{
		{Chromosome: "1", Position: 25000, Reference: "A", Alternate: "G", StudyID: "PRJ1", FileID: "f1"},
		{Chromosome: "1", Position: 12, Reference: "C", Alternate: "T", StudyID: "PRJ1", FileID: "f1"},
		{Chromosome: "1", Position: 700, Reference: "", Alternate: "T", StudyID: "PRJ1", FileID: "f1"},
	} {
		if err := s.AddVariant(ctx, v); err != nil {
			t.Fatalf("seed variant: %v", err)
		}
	}
	return path
}

func writeConfig(t *testing.T, db string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.yaml")
	body := `
species: hsapiens
db: ` + db + `
studies: [PRJ1]
assembly:
  hsapiens:
    - name: "1"
      length: 30000
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestEndToEndStdout(t *testing.T) {
	db := seedDB(t)
	cfgPath := writeConfig(t, db)

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--config", cfgPath, "--stdout", "--quiet"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}
	got := out.String()
	if !strings.HasPrefix(got, "##fileformat=VCFv4.2\n") {
		t.Fatalf("output = %q", got)
	}
	recs := 0
	var prevPos string
	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		if strings.HasPrefix(line, "#") {
			if recs > 0 {
				t.Fatalf("header after records: %q", line)
			}
			continue
		}
		recs++
		prevPos = line
	}
	if recs != 2 {
		t.Fatalf("got %d records:\n%s", recs, got)
	}
	if !strings.HasPrefix(prevPos, "1\t25000\t") {
		t.Fatalf("last record = %q", prevPos)
	}
}

func TestEndToEndDirectoryAndSummary(t *testing.T) {
	db := seedDB(t)
	cfgPath := writeConfig(t, db)
	outDir := t.TempDir()

	var out, errBuf bytes.Buffer
	code := app.Run([]string{
		"--config", cfgPath,
		"--out-dir", outDir,
		"--summary", "--quiet",
	}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one output file, got %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "hsapiens_exported_") || !strings.HasSuffix(name, ".vcf.gz") {
		t.Fatalf("file name = %q", name)
	}

	summary := out.String()
	if !strings.Contains(summary, `"failed_records": 1`) {
		t.Fatalf("summary = %q", summary)
	}
	if !strings.Contains(summary, name) {
		t.Fatalf("summary lacks output path: %q", summary)
	}
}

func TestEndToEndRegionFilter(t *testing.T) {
	db := seedDB(t)
	cfgPath := writeConfig(t, db)

	var out, errBuf bytes.Buffer
	code := app.Run([]string{
		"--config", cfgPath,
		"--stdout", "--quiet",
		"--filter", "region=1:1-100",
	}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}
	var recs []string
	for _, line := range strings.Split(out.String(), "\n") {
		if line != "" && !strings.HasPrefix(line, "#") {
			recs = append(recs, line)
		}
	}
	if len(recs) != 1 || !strings.HasPrefix(recs[0], "1\t12\t") {
		t.Fatalf("records = %v", recs)
	}
}

func TestMissingRequiredArguments(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--species", "hsapiens"}, &out, &errBuf)
	if code != 2 {
		t.Fatalf("exit = %d, want 2 (stderr=%s)", code, errBuf.String())
	}
}
