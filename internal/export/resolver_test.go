package export

import (
	"context"
	"errors"
	"testing"

	"vcfdump/internal/catalog"
	"vcfdump/internal/errs"
	"vcfdump/internal/store"
)

// failCatalog fails the test if the pipeline consults it.
type failCatalog struct{ t *testing.T }

func (f failCatalog) Chromosomes(context.Context, string) ([]catalog.Chromosome, error) {
	f.t.Error("catalog consulted despite region filter")
	return nil, nil
}

func TestResolveFromRegionFilterSkipsCatalog(t *testing.T) {
	q, err := store.Build([]string{"s1"}, nil, map[string][]string{"region": {"1:1000-2000"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, err := resolveChromosomes(context.Background(), q, failCatalog{t}, "hsapiens")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("chromosomes = %v", got)
	}
	if _, ok := got["1"]; !ok {
		t.Fatalf("chromosomes = %v, want {1}", got)
	}
}

func TestResolveDistinctTokens(t *testing.T) {
	q, err := store.Build([]string{"s1"}, nil, map[string][]string{
		"region": {"1:1-10", "1:500-900", "X"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, err := resolveChromosomes(context.Background(), q, failCatalog{t}, "hsapiens")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("chromosomes = %v, want {1, X}", got)
	}
}

func TestResolveFromCatalog(t *testing.T) {
	q, err := store.Build([]string{"s1"}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cat := catalog.Static{Species: map[string][]catalog.Chromosome{
		"hsapiens": {{Name: "1", Length: 100}, {Name: "2", Length: 50}},
	}}
	got, err := resolveChromosomes(context.Background(), q, cat, "hsapiens")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("chromosomes = %v", got)
	}
}

func TestResolveEmptyIsNotFound(t *testing.T) {
	q, err := store.Build([]string{"s1"}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err = resolveChromosomes(context.Background(), q, catalog.Static{}, "nosuch")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSortChromosomes(t *testing.T) {
	set := map[string]struct{}{
		"X": {}, "2": {}, "10": {}, "MT": {}, "1": {}, "Y": {}, "GL000192.1": {},
	}
	got := sortChromosomes(set)
	want := []string{"1", "2", "10", "X", "Y", "MT", "GL000192.1"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
