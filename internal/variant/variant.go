// internal/variant/variant.go
package variant

// Variant is one store record as the adaptor yields it. The pipeline only
// relies on Chromosome/Position for ordering; the remaining fields feed the
// VCF conversion.
type Variant struct {
	Chromosome string
	Position   int64
	Reference  string
	Alternate  string
	StudyID    string
	FileID     string
	Info       map[string]string
}

// Source is the per-study file metadata used to build the merged header.
type Source struct {
	StudyID  string
	FileID   string
	FileName string
	// Header holds the raw meta lines ("##...") of the source VCF.
	Header  []string
	Samples []string
}
