// internal/store/store.go

// Package store defines the variant store contracts the export pipeline
// consumes, the query builder that scopes lookups, and a SQLite-backed
// adaptor implementation.
package store

import (
	"context"

	"vcfdump/internal/variant"
)

// Iterator streams the variants matching one query. The window that opened
// an iterator owns it: drain or Close before opening the next one.
type Iterator interface {
	Next() bool
	Variant() variant.Variant
	Err() error
	Close() error
}

// SourceAdaptor serves per-study file metadata for header merging.
type SourceAdaptor interface {
	Sources(ctx context.Context, studyIDs []string) (map[string]variant.Source, error)
}

// Adaptor is the variant store handle the controller drives.
type Adaptor interface {
	Iterator(ctx context.Context, q Query) (Iterator, error)
	SourceAdaptor() SourceAdaptor
	Close() error
}
