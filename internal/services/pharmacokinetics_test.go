package services

import (
	"testing"
	"time"

	"github.com/witherow/biostack/internal/models"
)

func caffeineParams() PKParams {
	return pkParamsBySlug["caffeine"]
}

func TestConcentrationCaffeineThreeHours(t *testing.T) {
	// 180 minutes after intake caffeine has cleared 0.6 half-lives:
	// 100 * 0.5^0.6 is roughly 66 percent.
	concentration := ConcentrationPercentAt(caffeineParams(), 3*time.Hour)
	if concentration < 65.7 || concentration > 66.2 {
		t.Fatalf("expected roughly 66%%, got %.2f", concentration)
	}
	if phase := ClassifyPhase(caffeineParams(), 3*time.Hour); phase != PhaseEliminating {
		t.Fatalf("expected eliminating phase, got %s", phase)
	}
}

func TestConcentrationRisesLinearlyToPeak(t *testing.T) {
	params := caffeineParams()

	atStart := ConcentrationPercentAt(params, 0)
	if atStart != 0 {
		t.Fatalf("expected 0 at intake time, got %.2f", atStart)
	}
	halfway := ConcentrationPercentAt(params, time.Duration(params.PeakMinutes*float64(time.Minute)/2))
	if halfway < 49 || halfway > 51 {
		t.Fatalf("expected about half the ceiling mid-absorption, got %.2f", halfway)
	}
	if phase := ClassifyPhase(params, 20*time.Minute); phase != PhaseAbsorbing {
		t.Fatalf("expected absorbing phase, got %s", phase)
	}
}

func TestConcentrationNeverNegativeAndDecreasesPastPeak(t *testing.T) {
	params := caffeineParams()

	previous := ConcentrationPercentAt(params, time.Duration(params.PeakMinutes)*time.Minute)
	for hours := 1; hours <= 48; hours++ {
		elapsed := time.Duration(params.PeakMinutes)*time.Minute + time.Duration(hours)*time.Hour
		current := ConcentrationPercentAt(params, elapsed)
		if current < 0 {
			t.Fatalf("concentration went negative at %v: %.4f", elapsed, current)
		}
		if current >= previous {
			t.Fatalf("concentration must strictly decrease past peak, got %.4f after %.4f", current, previous)
		}
		previous = current
	}
}

func TestClassifyPhaseCleared(t *testing.T) {
	if phase := ClassifyPhase(caffeineParams(), 48*time.Hour); phase != PhaseCleared {
		t.Fatalf("expected cleared after two days, got %s", phase)
	}
	// Future entries have not started absorbing.
	if phase := ClassifyPhase(caffeineParams(), -time.Hour); phase != PhaseCleared {
		t.Fatalf("expected cleared for negative elapsed, got %s", phase)
	}
}

func TestBuildActiveCompoundsFiltersClearedAndSortsNewestFirst(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")
	supplements := map[uint]models.Supplement{
		9:  {ID: 9, Slug: "caffeine", Name: "Caffeine", Category: models.CategoryStimulant},
		13: {ID: 13, Slug: "melatonin", Name: "Melatonin", Category: models.CategoryOther},
	}
	entries := []models.LogEntry{
		{ID: 1, SupplementID: 9, Dosage: 100, Unit: models.UnitMilligram, LoggedAt: now.Add(-8 * time.Hour)},
		{ID: 2, SupplementID: 9, Dosage: 100, Unit: models.UnitMilligram, LoggedAt: now.Add(-1 * time.Hour)},
		// Melatonin's 50 minute half-life clears it well before noon.
		{ID: 3, SupplementID: 13, Dosage: 3, Unit: models.UnitMilligram, LoggedAt: now.Add(-10 * time.Hour)},
	}

	compounds := BuildActiveCompounds(entries, supplements, now)
	if len(compounds) != 2 {
		t.Fatalf("expected 2 active compounds, got %d", len(compounds))
	}
	if compounds[0].LogID != 2 || compounds[1].LogID != 1 {
		t.Fatalf("expected newest first, got order %d, %d", compounds[0].LogID, compounds[1].LogID)
	}
	for _, compound := range compounds {
		if compound.Phase == PhaseCleared {
			t.Fatalf("cleared compound leaked into output: log %d", compound.LogID)
		}
	}
}

func TestBuildActiveCompoundsIdempotent(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")
	supplements := map[uint]models.Supplement{9: {ID: 9, Slug: "caffeine", Name: "Caffeine"}}
	entries := []models.LogEntry{
		{ID: 1, SupplementID: 9, Dosage: 100, LoggedAt: now.Add(-2 * time.Hour)},
	}

	first := BuildActiveCompounds(entries, supplements, now)
	second := BuildActiveCompounds(entries, supplements, now)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one compound from both runs, got %d and %d", len(first), len(second))
	}
	if first[0].ConcentrationPercent != second[0].ConcentrationPercent || first[0].Phase != second[0].Phase {
		t.Fatalf("identical inputs must give identical results: %+v vs %+v", first[0], second[0])
	}
}

func TestBuildTimelineSamplesEachEntry(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")
	supplements := map[uint]models.Supplement{9: {ID: 9, Slug: "caffeine", Name: "Caffeine"}}
	entries := []models.LogEntry{
		{ID: 1, SupplementID: 9, Dosage: 100, LoggedAt: now.Add(-3 * time.Hour)},
	}

	series := BuildTimeline(entries, supplements, now, 24*time.Hour, time.Hour)
	if len(series) != 1 {
		t.Fatalf("expected one series, got %d", len(series))
	}
	if len(series[0].Points) != 25 {
		t.Fatalf("expected 25 hourly points over 24h inclusive, got %d", len(series[0].Points))
	}
	for _, point := range series[0].Points {
		if point.At.Before(now.Add(-24*time.Hour)) || point.At.After(now) {
			t.Fatalf("point outside sampling window: %v", point.At)
		}
		if point.ConcentrationPercent < 0 {
			t.Fatalf("negative concentration at %v", point.At)
		}
	}
}

func TestPKParamsForFallsBackByCategory(t *testing.T) {
	params := PKParamsFor(models.Supplement{Slug: "unknown-herb", Category: models.CategoryHerb})
	if params != pkParamsByCategory[models.CategoryHerb] {
		t.Fatalf("expected herb category fallback, got %+v", params)
	}

	params = PKParamsFor(models.Supplement{Slug: "mystery", Category: "unmapped"})
	if params != pkParamsDefault {
		t.Fatalf("expected generic default, got %+v", params)
	}
}
