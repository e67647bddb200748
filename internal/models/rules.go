package models

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityCritical = "critical"
)

const (
	InteractionInhibition  = "inhibition"
	InteractionSynergy     = "synergy"
	InteractionCompetition = "competition"
)

// InteractionRule is a directionless pairwise relationship between two
// supplements. Evaluators must match it regardless of which side of the
// rule appears first in the caller's set.
type InteractionRule struct {
	ID                 uint   `gorm:"primaryKey"`
	SourceSupplementID uint   `gorm:"index;not null"`
	TargetSupplementID uint   `gorm:"index;not null"`
	Type               string `gorm:"not null"`
	Severity           string `gorm:"not null;default:low"`
	Mechanism          string
	ResearchURL        string
	Suggestion         string
}

// RatioRule bounds the acceptable dosage ratio source/target. Ratios are
// compared as raw magnitudes in the rule's declared units; no unit
// normalization is performed.
type RatioRule struct {
	ID                 uint `gorm:"primaryKey"`
	SourceSupplementID uint `gorm:"index;not null"`
	TargetSupplementID uint `gorm:"index;not null"`
	MinRatio           *float64
	MaxRatio           *float64
	OptimalRatio       *float64
	Severity           string `gorm:"not null;default:low"`
	WarningMessage     string
	ResearchURL        string
}

// TimingRule requires a minimum separation, in hours, between intakes of
// two supplements. Symmetric: either supplement may appear as the new log.
type TimingRule struct {
	ID                 uint    `gorm:"primaryKey"`
	SourceSupplementID uint    `gorm:"index;not null"`
	TargetSupplementID uint    `gorm:"index;not null"`
	MinHoursApart      float64 `gorm:"not null"`
	Severity           string  `gorm:"not null;default:low"`
	Reason             string
}
