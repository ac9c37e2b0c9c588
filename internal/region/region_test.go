package region

import (
	"errors"
	"testing"

	"vcfdump/internal/errs"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want Region
	}{
		{"1", Region{Chromosome: "1"}},
		{"X", Region{Chromosome: "X"}},
		{"1:1000-2000", Region{Chromosome: "1", Start: 1000, End: 2000}},
		{"22:5", Region{Chromosome: "22", Start: 5, End: 5}},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", ":10-20", "1:abc", "1:10-xyz", "1:0-5", "1:100-50"} {
		if _, err := Parse(in); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("Parse(%q): expected ErrInvalidArgument, got %v", in, err)
		}
	}
}

func TestStringUnbounded(t *testing.T) {
	if s := (Region{Chromosome: "MT"}).String(); s != "MT" {
		t.Fatalf("got %q", s)
	}
	if s := (Region{Chromosome: "2", Start: 1, End: 9}).String(); s != "2:1-9" {
		t.Fatalf("got %q", s)
	}
}

func TestChromosomeToken(t *testing.T) {
	if c := Chromosome("1:1000-2000"); c != "1" {
		t.Fatalf("got %q", c)
	}
	if c := Chromosome("X"); c != "X" {
		t.Fatalf("got %q", c)
	}
}

func TestWindowsCoverChromosomeExactly(t *testing.T) {
	cases := []struct {
		length, span int64
		wantCount    int
	}{
		{100000, 20000, 5},
		{100001, 20000, 6},
		{19999, 20000, 1},
		{20000, 20000, 1},
		{1, 20000, 1},
	}
	for _, c := range cases {
		p := NewPlanner(c.span, map[string]int64{"1": c.length})
		ws, err := p.Windows("1")
		if err != nil {
			t.Fatalf("Windows: %v", err)
		}
		if len(ws) != c.wantCount {
			t.Fatalf("length %d span %d: got %d windows, want %d", c.length, c.span, len(ws), c.wantCount)
		}
		next := int64(1)
		for _, w := range ws {
			if w.Start != next {
				t.Fatalf("gap or overlap at %v (expected start %d)", w, next)
			}
			if w.End < w.Start {
				t.Fatalf("inverted window %v", w)
			}
			if span := w.End - w.Start + 1; span > c.span {
				t.Fatalf("window %v larger than span %d", w, c.span)
			}
			next = w.End + 1
		}
		if next != c.length+1 {
			t.Fatalf("windows end at %d, want %d", next-1, c.length)
		}
	}
}

func TestWindowsInBoundedRegion(t *testing.T) {
	p := NewPlanner(100, nil)
	ws := p.WindowsIn(Region{Chromosome: "3", Start: 250, End: 410})
	want := []Region{
		{Chromosome: "3", Start: 250, End: 349},
		{Chromosome: "3", Start: 350, End: 410},
	}
	if len(ws) != len(want) {
		t.Fatalf("got %v", ws)
	}
	for i := range want {
		if ws[i] != want[i] {
			t.Fatalf("got %v, want %v", ws, want)
		}
	}
}

func TestWindowsUnknownChromosome(t *testing.T) {
	p := NewPlanner(0, map[string]int64{"1": 100})
	if p.Span != DefaultWindowSpan {
		t.Fatalf("span default: got %d", p.Span)
	}
	if _, err := p.Windows("7"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
