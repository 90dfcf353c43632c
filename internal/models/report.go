// internal/models/report.go
package models

import "fmt"

// SchemaError is one structural violation.
type SchemaError struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (e SchemaError) String() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// SemanticProblem is one preflight finding on an artifact line.
type SemanticProblem struct {
	Source     string `json:"source"`
	LineNumber int    `json:"line"`
	Message    string `json:"message"`
}

func (p SemanticProblem) String() string {
	return fmt.Sprintf("%s:%d: %s", p.Source, p.LineNumber, p.Message)
}

// AliasConflict records a term that was mapped to a different sku by a later entry.
type AliasConflict struct {
	Term        string `json:"term"`
	PreviousSKU string `json:"previous_sku"`
	NewSKU      string `json:"new_sku"`
}

// ValidationReport aggregates every phase's findings.
type ValidationReport struct {
	SchemaErrors     []SchemaError     `json:"schema_errors"`
	SemanticProblems []SemanticProblem `json:"semantic_problems"`
	AliasConflicts   []AliasConflict   `json:"alias_conflicts"`
}

// CanEmitManifest is true only when neither fatal phase found anything.
func (r *ValidationReport) CanEmitManifest() bool {
	return len(r.SchemaErrors) == 0 && len(r.SemanticProblems) == 0
}
