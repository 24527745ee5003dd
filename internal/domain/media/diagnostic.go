package media

import "fmt"

type DiagnosticKind string

const (
	// DiagnosticRead means the document could not be read after enumeration.
	DiagnosticRead DiagnosticKind = "read"
	// DiagnosticMalformed means the front matter block could not be parsed.
	DiagnosticMalformed DiagnosticKind = "malformed"
	// DiagnosticInvalid means required metadata was missing or out of range.
	DiagnosticInvalid DiagnosticKind = "invalid"
)

// Diagnostic records a document that was skipped during ingestion.
type Diagnostic struct {
	ID     string         `json:"id"`
	Kind   DiagnosticKind `json:"kind"`
	Reason string         `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s]: %s", d.ID, d.Kind, d.Reason)
}
