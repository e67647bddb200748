package services

import "github.com/witherow/biostack/internal/models"

// MatchInteractions filters rules down to those whose endpoints are BOTH in
// the evaluated supplement set; a rule touching only one side of the set is
// irrelevant. Rules are directionless, so a match holds whichever side the
// caller's set hit first. Synergy rules are returned separately from the
// inhibition/competition warnings. Fewer than two supplements is a no-op.
func MatchInteractions(supplementIDs []uint, rules []models.InteractionRule) (warnings []InteractionWarning, synergies []InteractionWarning) {
	warnings = make([]InteractionWarning, 0)
	synergies = make([]InteractionWarning, 0)
	if len(supplementIDs) < 2 {
		return warnings, synergies
	}

	present := make(map[uint]bool, len(supplementIDs))
	for _, supplementID := range supplementIDs {
		present[supplementID] = true
	}

	for _, rule := range rules {
		if !present[rule.SourceSupplementID] || !present[rule.TargetSupplementID] {
			continue
		}

		warning := InteractionWarning{
			RuleID:             rule.ID,
			SourceSupplementID: rule.SourceSupplementID,
			TargetSupplementID: rule.TargetSupplementID,
			Type:               rule.Type,
			Severity:           rule.Severity,
			Mechanism:          rule.Mechanism,
			ResearchURL:        rule.ResearchURL,
			Suggestion:         rule.Suggestion,
		}
		if rule.Type == models.InteractionSynergy {
			synergies = append(synergies, warning)
		} else {
			warnings = append(warnings, warning)
		}
	}

	return warnings, synergies
}
