package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vcfdump/internal/region"
	"vcfdump/internal/variant"
)

func openSeeded(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	vs := []variant.Variant{
		{Chromosome: "1", Position: 150, Reference: "A", Alternate: "T", StudyID: "s1", FileID: "f1"},
		{Chromosome: "1", Position: 50, Reference: "C", Alternate: "G", StudyID: "s1", FileID: "f1",
			Info: map[string]string{"gene": "BRCA2"}},
		{Chromosome: "1", Position: 25000, Reference: "G", Alternate: "A", StudyID: "s1", FileID: "f2"},
		{Chromosome: "2", Position: 10, Reference: "T", Alternate: "C", StudyID: "s2", FileID: "f3"},
	}
	for _, v := range vs {
		require.NoError(t, s.AddVariant(ctx, v))
	}
	require.NoError(t, s.AddSource(ctx, variant.Source{
		StudyID: "s1", FileID: "f1", FileName: "study1.vcf.gz",
		Header:  []string{"##fileformat=VCFv4.2", "##contig=<ID=1,length=100000>"},
		Samples: []string{"HG01"},
	}))
	return s
}

func drain(t *testing.T, it Iterator) []variant.Variant {
	t.Helper()
	var out []variant.Variant
	for it.Next() {
		out = append(out, it.Variant())
	}
	require.NoError(t, it.Err())
	require.NoError(t, it.Close())
	return out
}

func TestIteratorRegionScoping(t *testing.T) {
	s := openSeeded(t)
	q, err := Build([]string{"s1"}, nil, nil)
	require.NoError(t, err)

	it, err := s.Iterator(context.Background(), q.WithRegion(region.Region{Chromosome: "1", Start: 1, End: 20000}))
	require.NoError(t, err)
	got := drain(t, it)
	require.Len(t, got, 2)
	for _, v := range got {
		require.Equal(t, "1", v.Chromosome)
		require.LessOrEqual(t, v.Position, int64(20000))
	}
}

func TestIteratorStudyAndFileScoping(t *testing.T) {
	s := openSeeded(t)

	q, err := Build([]string{"s1"}, []string{"f2"}, nil)
	require.NoError(t, err)
	it, err := s.Iterator(context.Background(), q)
	require.NoError(t, err)
	got := drain(t, it)
	require.Len(t, got, 1)
	require.Equal(t, int64(25000), got[0].Position)

	// Empty file list means every file in the studies.
	q, err = Build([]string{"s1"}, nil, nil)
	require.NoError(t, err)
	it, err = s.Iterator(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, drain(t, it), 3)
}

func TestIteratorInfoFilter(t *testing.T) {
	s := openSeeded(t)
	q, err := Build([]string{"s1"}, nil, map[string][]string{"gene": {"BRCA2", "TP53"}})
	require.NoError(t, err)
	it, err := s.Iterator(context.Background(), q)
	require.NoError(t, err)
	got := drain(t, it)
	require.Len(t, got, 1)
	require.Equal(t, int64(50), got[0].Position)
}

func TestSources(t *testing.T) {
	s := openSeeded(t)
	srcs, err := s.SourceAdaptor().Sources(context.Background(), []string{"s1", "s2"})
	require.NoError(t, err)
	require.Len(t, srcs, 1)
	src := srcs["s1"]
	require.Equal(t, "study1.vcf.gz", src.FileName)
	require.Equal(t, []string{"##fileformat=VCFv4.2", "##contig=<ID=1,length=100000>"}, src.Header)
	require.Equal(t, []string{"HG01"}, src.Samples)
}
