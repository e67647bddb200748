package services

import (
	"strings"
	"testing"

	"github.com/witherow/biostack/internal/models"
)

func TestBuildOptimizationsActiveSynergy(t *testing.T) {
	supplements := map[uint]models.Supplement{
		9:  {ID: 9, Slug: "caffeine", Name: "Caffeine"},
		10: {ID: 10, Slug: "l-theanine", Name: "L-Theanine"},
	}
	compounds := []ActiveCompound{
		{SupplementID: 9},
		{SupplementID: 10},
	}
	rules := []models.InteractionRule{
		{ID: 4, SourceSupplementID: 9, TargetSupplementID: 10, Type: models.InteractionSynergy, Severity: models.SeverityLow, Mechanism: "smoother stimulation"},
	}
	recent := map[string]bool{"caffeine": true, "l-theanine": true}

	opportunities := BuildOptimizations(compounds, rules, supplements, recent)
	if len(opportunities) != 1 {
		t.Fatalf("expected one opportunity, got %d", len(opportunities))
	}
	if opportunities[0].Type != OptimizationSynergy {
		t.Fatalf("expected synergy type, got %s", opportunities[0].Type)
	}
	if !strings.HasPrefix(opportunities[0].Title, "Active synergy:") {
		t.Fatalf("unexpected title %q", opportunities[0].Title)
	}
	if !strings.Contains(opportunities[0].Title, "Caffeine") || !strings.Contains(opportunities[0].Title, "L-Theanine") {
		t.Fatalf("title must name both supplements, got %q", opportunities[0].Title)
	}
}

func TestBuildOptimizationsSynergyRequiresBothActive(t *testing.T) {
	supplements := map[uint]models.Supplement{
		9:  {ID: 9, Slug: "caffeine", Name: "Caffeine"},
		10: {ID: 10, Slug: "l-theanine", Name: "L-Theanine"},
	}
	compounds := []ActiveCompound{{SupplementID: 9}}
	rules := []models.InteractionRule{
		{ID: 4, SourceSupplementID: 9, TargetSupplementID: 10, Type: models.InteractionSynergy},
	}
	recent := map[string]bool{"caffeine": true, "l-theanine": true}

	opportunities := BuildOptimizations(compounds, rules, supplements, recent)
	if len(opportunities) != 0 {
		t.Fatalf("expected no synergy with one side cleared, got %d", len(opportunities))
	}
}

func TestBuildOptimizationsCompetitionBecomesTimingSuggestion(t *testing.T) {
	supplements := map[uint]models.Supplement{
		1: {ID: 1, Slug: "zinc", Name: "Zinc Picolinate"},
		2: {ID: 2, Slug: "copper", Name: "Copper Bisglycinate"},
	}
	compounds := []ActiveCompound{{SupplementID: 1}, {SupplementID: 2}}
	rules := []models.InteractionRule{
		{ID: 1, SourceSupplementID: 1, TargetSupplementID: 2, Type: models.InteractionCompetition, Severity: models.SeverityCritical, Suggestion: "separate by 2 hours"},
	}
	recent := map[string]bool{"zinc": true, "copper": true}

	opportunities := BuildOptimizations(compounds, rules, supplements, recent)
	if len(opportunities) != 1 {
		t.Fatalf("expected one opportunity, got %d", len(opportunities))
	}
	if opportunities[0].Type != OptimizationTiming {
		t.Fatalf("expected timing type for competition, got %s", opportunities[0].Type)
	}
	if opportunities[0].SafetyWarning != "separate by 2 hours" {
		t.Fatalf("unexpected safety warning %q", opportunities[0].SafetyWarning)
	}
}

func TestBuildOptimizationsCofactorSuggestion(t *testing.T) {
	supplements := map[uint]models.Supplement{
		6: {ID: 6, Slug: "vitamin-d3", Name: "Vitamin D3"},
	}
	compounds := []ActiveCompound{{SupplementID: 6}}
	recent := map[string]bool{"vitamin-d3": true}

	opportunities := BuildOptimizations(compounds, nil, supplements, recent)
	if len(opportunities) != 2 {
		t.Fatalf("expected K2 and magnesium suggestions, got %d", len(opportunities))
	}
	for _, opportunity := range opportunities {
		if opportunity.Type != OptimizationBalance {
			t.Fatalf("expected balance type, got %s", opportunity.Type)
		}
		if opportunity.SuggestedSupplement == "" {
			t.Fatalf("cofactor suggestion must name the partner")
		}
	}

	// Logging K2 recently silences that suggestion even while cleared.
	recent["vitamin-k2"] = true
	opportunities = BuildOptimizations(compounds, nil, supplements, recent)
	if len(opportunities) != 1 {
		t.Fatalf("expected only the magnesium suggestion, got %d", len(opportunities))
	}
}

func TestBuildOptimizationsSortedByPriority(t *testing.T) {
	supplements := map[uint]models.Supplement{
		1: {ID: 1, Slug: "zinc", Name: "Zinc"},
		2: {ID: 2, Slug: "copper", Name: "Copper"},
		9: {ID: 9, Slug: "caffeine", Name: "Caffeine"},
	}
	compounds := []ActiveCompound{{SupplementID: 1}, {SupplementID: 2}, {SupplementID: 9}}
	rules := []models.InteractionRule{
		{ID: 1, SourceSupplementID: 1, TargetSupplementID: 2, Type: models.InteractionCompetition, Severity: models.SeverityCritical},
	}
	recent := map[string]bool{"zinc": true, "copper": true, "caffeine": true}

	opportunities := BuildOptimizations(compounds, rules, supplements, recent)
	if len(opportunities) < 2 {
		t.Fatalf("expected at least two opportunities, got %d", len(opportunities))
	}
	for i := 1; i < len(opportunities); i++ {
		if opportunities[i-1].Priority > opportunities[i].Priority {
			t.Fatalf("opportunities out of priority order at %d", i)
		}
	}
}

func TestComputeBioScore(t *testing.T) {
	if score := ComputeBioScore(nil, nil); score != 70 {
		t.Fatalf("expected neutral baseline 70, got %d", score)
	}

	zones := []ExclusionZone{
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityMedium},
		{Severity: models.SeverityLow},
	}
	if score := ComputeBioScore(zones, nil); score != 70-15-8-4 {
		t.Fatalf("expected 43, got %d", score)
	}

	synergies := []OptimizationOpportunity{
		{Type: OptimizationSynergy},
		{Type: OptimizationSynergy},
		{Type: OptimizationSynergy},
		{Type: OptimizationSynergy},
	}
	// Bonus caps at +18 regardless of synergy count.
	if score := ComputeBioScore(nil, synergies); score != 88 {
		t.Fatalf("expected capped 88, got %d", score)
	}

	manyCritical := make([]ExclusionZone, 10)
	for i := range manyCritical {
		manyCritical[i] = ExclusionZone{Severity: models.SeverityCritical}
	}
	if score := ComputeBioScore(manyCritical, nil); score != 0 {
		t.Fatalf("score must clamp at 0, got %d", score)
	}
}
