// internal/models/artifacts.go
package models

// Few-shot labels.
const (
	LabelOrderDraft = string(OutcomeOrderDraft)
	LabelAsk        = string(OutcomeAsk)
)

// FewShotRecord is one line of few_shots.jsonl.
type FewShotRecord struct {
	Input        string         `json:"input"`
	Label        string         `json:"label"`
	Target       *OrderEnvelope `json:"target,omitempty"`
	MissingSlots []string       `json:"missing_slots,omitempty"`
	Question     string         `json:"question,omitempty"`
}

// FewShotFromOutcome converts an extraction outcome into its few-shot record.
func FewShotFromOutcome(input string, outcome Outcome) FewShotRecord {
	if outcome.IsDraft() {
		return FewShotRecord{
			Input:  input,
			Label:  LabelOrderDraft,
			Target: &OrderEnvelope{Order: Order{Items: outcome.Items}},
		}
	}
	return FewShotRecord{
		Input:        input,
		Label:        LabelAsk,
		MissingSlots: outcome.MissingSlots,
		Question:     outcome.Question,
	}
}

// EvalRecord is one line of evalset.jsonl.
type EvalRecord struct {
	Input string        `json:"input"`
	Gold  OrderEnvelope `json:"gold"`
}

// AliasApply is the normalized apply object of one aliases.json entry:
// an optional "sku" plus option keys from the enumeration.
type AliasApply map[string]interface{}

// AliasesArtifact is aliases.json: term -> normalized apply object.
type AliasesArtifact map[string]AliasApply

// ManifestCounts records record counts per artifact.
type ManifestCounts struct {
	Aliases  int `json:"aliases"`
	FewShots int `json:"few_shots"`
	Evalset  int `json:"evalset"`
}

// Manifest is artifact_manifest.json.
type Manifest struct {
	Domain          string         `json:"domain"`
	Version         string         `json:"version"`
	GeneratedAt     string         `json:"generated_at"`
	Counts          ManifestCounts `json:"counts"`
	SourceHash      string         `json:"source_hash"`
	PatternsVersion string         `json:"patterns_version"`
}
