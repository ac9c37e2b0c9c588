// internal/annotate/annotate.go
package annotate

import (
	"context"

	"vcfdump/internal/variant"
)

// Annotation is the external metadata attached to one variant during export.
type Annotation struct {
	ID              string `json:"id"`              // e.g. an rs identifier
	ConsequenceType string `json:"consequenceType"` // most severe consequence, if known
}

// Annotator enriches a variant with external metadata. A failed lookup is a
// per-record conversion failure to the exporter, never a run failure.
type Annotator interface {
	Annotate(ctx context.Context, v variant.Variant) (Annotation, error)
}

// Noop returns empty annotations. Used when no annotation service is
// configured.
type Noop struct{}

func (Noop) Annotate(context.Context, variant.Variant) (Annotation, error) {
	return Annotation{}, nil
}
