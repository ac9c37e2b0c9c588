// pkg/api/report_v1.go
package api

// ReportV1 is the stable JSON schema for the --summary run report.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ReportV1 struct {
	Species       string   `json:"species"`
	Studies       []string `json:"studies"`
	Chromosomes   []string `json:"chromosomes,omitempty"`
	OutputPath    string   `json:"output_path,omitempty"`
	FailedRecords int      `json:"failed_records"`
	DurationMS    int64    `json:"duration_ms"`
}
