package services

import (
	"fmt"
	"math"

	"github.com/witherow/biostack/internal/models"
)

// Boundary-adjacent ratios are practically acceptable, so declared bounds
// are widened by 15% before comparison.
const ratioToleranceFactor = 0.15

// EvaluateRatios checks every ratio rule whose endpoints both carry a known
// dosage in inputs. The ratio is sourceDosage / targetDosage compared as raw
// magnitudes in the rule's declared units; dosage units are NOT normalized.
// Fewer than two inputs is a no-op. Pure function over its arguments.
func EvaluateRatios(inputs []DosageInput, rules []models.RatioRule) ([]RatioWarning, []RatioGap) {
	warnings := make([]RatioWarning, 0)
	gaps := make([]RatioGap, 0)
	if len(inputs) < 2 {
		return warnings, gaps
	}

	dosageByID := make(map[uint]float64, len(inputs))
	for _, input := range inputs {
		dosageByID[input.SupplementID] += input.Dosage
	}

	for _, rule := range rules {
		sourceDosage, sourcePresent := dosageByID[rule.SourceSupplementID]
		targetDosage, targetPresent := dosageByID[rule.TargetSupplementID]

		if sourcePresent && sourceDosage > 0 && !targetPresent {
			gaps = append(gaps, RatioGap{
				RuleID:              rule.ID,
				PresentSupplementID: rule.SourceSupplementID,
				MissingSupplementID: rule.TargetSupplementID,
				Severity:            rule.Severity,
				Message:             ratioGapMessage(rule),
			})
			continue
		}

		if !sourcePresent || !targetPresent || sourceDosage <= 0 || targetDosage <= 0 {
			continue
		}

		ratio := sourceDosage / targetDosage
		if ratioWithinBounds(ratio, rule) {
			continue
		}

		warnings = append(warnings, RatioWarning{
			RuleID:             rule.ID,
			SourceSupplementID: rule.SourceSupplementID,
			TargetSupplementID: rule.TargetSupplementID,
			Ratio:              roundRatio(ratio),
			MinRatio:           rule.MinRatio,
			MaxRatio:           rule.MaxRatio,
			OptimalRatio:       rule.OptimalRatio,
			Severity:           rule.Severity,
			Message:            rule.WarningMessage,
			ResearchURL:        rule.ResearchURL,
		})
	}

	return warnings, gaps
}

func ratioWithinBounds(ratio float64, rule models.RatioRule) bool {
	if rule.MinRatio != nil {
		effectiveMin := *rule.MinRatio * (1 - ratioToleranceFactor)
		if ratio < effectiveMin {
			return false
		}
	}
	if rule.MaxRatio != nil {
		effectiveMax := *rule.MaxRatio * (1 + ratioToleranceFactor)
		if ratio > effectiveMax {
			return false
		}
	}
	return true
}

func ratioGapMessage(rule models.RatioRule) string {
	if rule.WarningMessage != "" {
		return rule.WarningMessage
	}
	return fmt.Sprintf("supplement %d is dosed without its ratio partner %d", rule.SourceSupplementID, rule.TargetSupplementID)
}

func roundRatio(ratio float64) float64 {
	return math.Round(ratio*10) / 10
}
