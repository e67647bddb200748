package services

import "github.com/witherow/biostack/internal/models"

// ComputeBioScore condenses the current simulation state into a 0-100
// dashboard score. Deterministic for identical inputs: a neutral baseline,
// penalized per open exclusion zone (heavier for critical rules), rewarded
// per active synergy.
func ComputeBioScore(zones []ExclusionZone, opportunities []OptimizationOpportunity) int {
	score := 70

	for _, zone := range zones {
		switch zone.Severity {
		case models.SeverityCritical:
			score -= 15
		case models.SeverityMedium:
			score -= 8
		default:
			score -= 4
		}
	}

	synergyBonus := 0
	for _, opportunity := range opportunities {
		if opportunity.Type == OptimizationSynergy {
			synergyBonus += 6
		}
	}
	if synergyBonus > 18 {
		synergyBonus = 18
	}
	score += synergyBonus

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
