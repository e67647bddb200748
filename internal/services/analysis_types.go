package services

import "time"

// Result provenance, reported to callers as telemetry only.
const (
	SourceEngine = "engine"
	SourceLocal  = "local"
)

// DosageInput is one (supplement, dosage) pair under evaluation. Dosage is
// compared as a raw magnitude in Unit; see EvaluateRatios.
type DosageInput struct {
	SupplementID uint    `json:"supplement_id"`
	Dosage       float64 `json:"dosage"`
	Unit         string  `json:"unit"`
}

type InteractionWarning struct {
	RuleID             uint   `json:"rule_id"`
	SourceSupplementID uint   `json:"source_supplement_id"`
	TargetSupplementID uint   `json:"target_supplement_id"`
	Type               string `json:"type"`
	Severity           string `json:"severity"`
	Mechanism          string `json:"mechanism"`
	ResearchURL        string `json:"research_url,omitempty"`
	Suggestion         string `json:"suggestion,omitempty"`
}

type RatioWarning struct {
	RuleID             uint     `json:"rule_id"`
	SourceSupplementID uint     `json:"source_supplement_id"`
	TargetSupplementID uint     `json:"target_supplement_id"`
	Ratio              float64  `json:"ratio"`
	MinRatio           *float64 `json:"min_ratio,omitempty"`
	MaxRatio           *float64 `json:"max_ratio,omitempty"`
	OptimalRatio       *float64 `json:"optimal_ratio,omitempty"`
	Severity           string   `json:"severity"`
	Message            string   `json:"message"`
	ResearchURL        string   `json:"research_url,omitempty"`
}

// RatioGap reports a ratio rule whose source side is dosed while the target
// side is absent from the evaluated set entirely (the ratio is undefined,
// which for a bounded rule is worse than out of band).
type RatioGap struct {
	RuleID              uint   `json:"rule_id"`
	PresentSupplementID uint   `json:"present_supplement_id"`
	MissingSupplementID uint   `json:"missing_supplement_id"`
	Severity            string `json:"severity"`
	Message             string `json:"message"`
}

type TimingWarning struct {
	RuleID             uint    `json:"rule_id"`
	SourceSupplementID uint    `json:"source_supplement_id"`
	TargetSupplementID uint    `json:"target_supplement_id"`
	MinHoursApart      float64 `json:"min_hours_apart"`
	ActualHoursApart   float64 `json:"actual_hours_apart"`
	// ConflictLogID and ConflictLoggedAt are zero when the warning was
	// served by the remote engine, which does not echo the conflicting
	// entry back.
	ConflictLogID    uint      `json:"conflict_log_id,omitempty"`
	ConflictLoggedAt time.Time `json:"conflict_logged_at,omitempty"`
	Severity         string    `json:"severity"`
	Reason           string    `json:"reason"`
}

// AnalysisOutcome is the joined interaction + ratio result for one
// supplement set, identical in shape whichever strategy produced it.
type AnalysisOutcome struct {
	Interactions   []InteractionWarning `json:"interactions"`
	Synergies      []InteractionWarning `json:"synergies"`
	RatioWarnings  []RatioWarning       `json:"ratio_warnings"`
	RatioGaps      []RatioGap           `json:"ratio_gaps"`
	Source         string               `json:"source"`
	FallbackReason string               `json:"fallback_reason,omitempty"`
}

func emptyOutcome(source string, fallbackReason string) AnalysisOutcome {
	return AnalysisOutcome{
		Interactions:   []InteractionWarning{},
		Synergies:      []InteractionWarning{},
		RatioWarnings:  []RatioWarning{},
		RatioGaps:      []RatioGap{},
		Source:         source,
		FallbackReason: fallbackReason,
	}
}

// Identity is the authenticated caller on whose behalf evaluation runs.
// Passed explicitly so the engine has no dependency on ambient request
// state; a zero UserID is a valid, expected local-fallback trigger.
type Identity struct {
	UserID uint
}
