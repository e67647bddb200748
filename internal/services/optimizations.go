package services

import (
	"fmt"
	"sort"

	"github.com/witherow/biostack/internal/models"
)

const (
	OptimizationTiming  = "timing"
	OptimizationSynergy = "synergy"
	OptimizationBalance = "balance"
)

type OptimizationOpportunity struct {
	Type                string `json:"type"`
	Category            string `json:"category"`
	SupplementIDs       []uint `json:"supplement_ids"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	Priority            int    `json:"priority"`
	SuggestionKey       string `json:"suggestion_key"`
	SafetyWarning       string `json:"safety_warning,omitempty"`
	SuggestedSupplement string `json:"suggested_supplement,omitempty"`
}

type cofactorSuggestion struct {
	primarySlug   string
	partnerSlug   string
	partnerName   string
	description   string
	safetyWarning string
}

// Co-factor pairings worth surfacing when the primary is active and the
// partner has not been logged recently. Lookup data like the PK table.
var cofactorSuggestions = []cofactorSuggestion{
	{
		primarySlug: "vitamin-d3",
		partnerSlug: "vitamin-k2",
		partnerName: "Vitamin K2 (MK-7)",
		description: "Vitamin K2 directs the calcium mobilized by D3 into bone instead of soft tissue.",
	},
	{
		primarySlug: "vitamin-d3",
		partnerSlug: "magnesium",
		partnerName: "Magnesium Glycinate",
		description: "Magnesium is a cofactor for converting vitamin D to its active form.",
	},
	{
		primarySlug:   "zinc",
		partnerSlug:   "copper",
		partnerName:   "Copper Bisglycinate",
		description:   "Long-term zinc without copper depletes copper stores.",
		safetyWarning: "Keep the zinc:copper ratio near 10:1.",
	},
	{
		primarySlug: "iron",
		partnerSlug: "vitamin-c",
		partnerName: "Vitamin C",
		description: "Vitamin C taken alongside iron improves non-heme iron absorption.",
	},
	{
		primarySlug: "caffeine",
		partnerSlug: "l-theanine",
		partnerName: "L-Theanine",
		description: "L-theanine smooths caffeine's jitter and cortisol response.",
	},
}

// BuildOptimizations derives opportunities from the current simulation
// state: active synergy pairs, missing co-factors for active compounds, and
// move-apart suggestions for active competition pairs. recentSlugs holds
// the slugs of everything logged inside the lookback history, active or not.
func BuildOptimizations(compounds []ActiveCompound, interactionRules []models.InteractionRule, supplementsByID map[uint]models.Supplement, recentSlugs map[string]bool) []OptimizationOpportunity {
	opportunities := make([]OptimizationOpportunity, 0)

	activeByID := make(map[uint]bool, len(compounds))
	activeSlugs := make(map[string]bool, len(compounds))
	for _, compound := range compounds {
		activeByID[compound.SupplementID] = true
		activeSlugs[supplementsByID[compound.SupplementID].Slug] = true
	}

	for _, rule := range interactionRules {
		if !activeByID[rule.SourceSupplementID] || !activeByID[rule.TargetSupplementID] {
			continue
		}
		sourceName := supplementsByID[rule.SourceSupplementID].Name
		targetName := supplementsByID[rule.TargetSupplementID].Name

		switch rule.Type {
		case models.InteractionSynergy:
			opportunities = append(opportunities, OptimizationOpportunity{
				Type:          OptimizationSynergy,
				Category:      rule.Severity,
				SupplementIDs: []uint{rule.SourceSupplementID, rule.TargetSupplementID},
				Title:         fmt.Sprintf("Active synergy: %s + %s", sourceName, targetName),
				Description:   rule.Mechanism,
				Priority:      2,
				SuggestionKey: fmt.Sprintf("synergy_rule_%d", rule.ID),
			})
		case models.InteractionCompetition:
			opportunities = append(opportunities, OptimizationOpportunity{
				Type:          OptimizationTiming,
				Category:      rule.Severity,
				SupplementIDs: []uint{rule.SourceSupplementID, rule.TargetSupplementID},
				Title:         fmt.Sprintf("Separate %s and %s", sourceName, targetName),
				Description:   rule.Mechanism,
				Priority:      1,
				SuggestionKey: fmt.Sprintf("timing_rule_%d", rule.ID),
				SafetyWarning: rule.Suggestion,
			})
		}
	}

	for _, suggestion := range cofactorSuggestions {
		if !activeSlugs[suggestion.primarySlug] || recentSlugs[suggestion.partnerSlug] {
			continue
		}
		primaryID := supplementIDBySlug(supplementsByID, suggestion.primarySlug)
		opportunities = append(opportunities, OptimizationOpportunity{
			Type:                OptimizationBalance,
			Category:            "cofactor",
			SupplementIDs:       []uint{primaryID},
			Title:               fmt.Sprintf("Consider adding %s", suggestion.partnerName),
			Description:         suggestion.description,
			Priority:            3,
			SuggestionKey:       fmt.Sprintf("cofactor_%s_%s", suggestion.primarySlug, suggestion.partnerSlug),
			SafetyWarning:       suggestion.safetyWarning,
			SuggestedSupplement: suggestion.partnerName,
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Priority < opportunities[j].Priority
	})

	return opportunities
}

func supplementIDBySlug(supplementsByID map[uint]models.Supplement, slug string) uint {
	for id, supplement := range supplementsByID {
		if supplement.Slug == slug {
			return id
		}
	}
	return 0
}
