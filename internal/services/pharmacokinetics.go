package services

import (
	"math"
	"sort"
	"time"

	"github.com/witherow/biostack/internal/models"
)

const (
	PhaseAbsorbing   = "absorbing"
	PhasePeak        = "peak"
	PhaseEliminating = "eliminating"
	PhaseCleared     = "cleared"
)

const (
	// Below this concentration a compound counts as cleared.
	clearedThresholdPercent = 1.0
	// At or above this fraction of bioavailability (past peak time) the
	// compound is reported as at peak rather than eliminating.
	peakBandFraction = 0.85
)

// ActiveCompound is a derived, never-persisted view of one log entry's
// simulated concentration at a point in time. Recomputed on every request
// as a pure function of (entry, params, now).
type ActiveCompound struct {
	LogID                  uint      `json:"log_id"`
	SupplementID           uint      `json:"supplement_id"`
	SupplementName         string    `json:"supplement_name"`
	Dosage                 float64   `json:"dosage"`
	Unit                   string    `json:"unit"`
	LoggedAt               time.Time `json:"logged_at"`
	PeakMinutes            float64   `json:"peak_minutes"`
	HalfLifeMinutes        float64   `json:"half_life_minutes"`
	BioavailabilityPercent float64   `json:"bioavailability_percent"`
	Phase                  string    `json:"phase"`
	ConcentrationPercent   float64   `json:"concentration_percent"`
}

// ConcentrationPercentAt models a single oral dose: a monotonic linear rise
// from 0 to the bioavailability ceiling over the absorption window, then
// exponential half-life decay measured from intake time. Never negative,
// tends to 0 as elapsed grows.
func ConcentrationPercentAt(params PKParams, elapsed time.Duration) float64 {
	minutes := elapsed.Minutes()
	if minutes < 0 || params.HalfLifeMinutes <= 0 {
		return 0
	}

	ceiling := params.BioavailabilityPercent
	if ceiling <= 0 {
		return 0
	}

	if params.PeakMinutes > 0 && minutes < params.PeakMinutes {
		return ceiling * (minutes / params.PeakMinutes)
	}

	return ceiling * math.Pow(0.5, minutes/params.HalfLifeMinutes)
}

// ClassifyPhase labels a dose's position on its concentration curve.
func ClassifyPhase(params PKParams, elapsed time.Duration) string {
	concentration := ConcentrationPercentAt(params, elapsed)
	if concentration < clearedThresholdPercent {
		return PhaseCleared
	}
	if params.PeakMinutes > 0 && elapsed.Minutes() < params.PeakMinutes {
		return PhaseAbsorbing
	}
	if concentration >= params.BioavailabilityPercent*peakBandFraction {
		return PhasePeak
	}
	return PhaseEliminating
}

// BuildActiveCompounds simulates every log entry against now and returns
// the compounds still above the detection floor, newest first. Curves are
// independent per compound; cross-compound effects belong to the rule
// evaluators, not the simulator. Idempotent for identical (logs, now).
func BuildActiveCompounds(entries []models.LogEntry, supplementsByID map[uint]models.Supplement, now time.Time) []ActiveCompound {
	compounds := make([]ActiveCompound, 0, len(entries))
	for _, entry := range entries {
		supplement := supplementsByID[entry.SupplementID]
		params := PKParamsFor(supplement)

		elapsed := now.Sub(entry.LoggedAt)
		phase := ClassifyPhase(params, elapsed)
		if phase == PhaseCleared {
			continue
		}

		compounds = append(compounds, ActiveCompound{
			LogID:                  entry.ID,
			SupplementID:           entry.SupplementID,
			SupplementName:         supplement.Name,
			Dosage:                 entry.Dosage,
			Unit:                   entry.Unit,
			LoggedAt:               entry.LoggedAt,
			PeakMinutes:            params.PeakMinutes,
			HalfLifeMinutes:        params.HalfLifeMinutes,
			BioavailabilityPercent: params.BioavailabilityPercent,
			Phase:                  phase,
			ConcentrationPercent:   roundPercent(ConcentrationPercentAt(params, elapsed)),
		})
	}

	sort.Slice(compounds, func(i, j int) bool {
		if compounds[i].LoggedAt.Equal(compounds[j].LoggedAt) {
			return compounds[i].LogID > compounds[j].LogID
		}
		return compounds[i].LoggedAt.After(compounds[j].LoggedAt)
	})

	return compounds
}

type TimelinePoint struct {
	At                   time.Time `json:"at"`
	ConcentrationPercent float64   `json:"concentration_percent"`
}

type CompoundSeries struct {
	SupplementID   uint            `json:"supplement_id"`
	SupplementName string          `json:"supplement_name"`
	LogID          uint            `json:"log_id"`
	Points         []TimelinePoint `json:"points"`
}

// BuildTimeline samples each entry's concentration curve at a fixed cadence
// across [now - horizon, now]. One series per log entry.
func BuildTimeline(entries []models.LogEntry, supplementsByID map[uint]models.Supplement, now time.Time, horizon time.Duration, cadence time.Duration) []CompoundSeries {
	if cadence <= 0 {
		cadence = time.Hour
	}
	start := now.Add(-horizon)

	series := make([]CompoundSeries, 0, len(entries))
	for _, entry := range entries {
		supplement := supplementsByID[entry.SupplementID]
		params := PKParamsFor(supplement)

		points := make([]TimelinePoint, 0, int(horizon/cadence)+1)
		for at := start; !at.After(now); at = at.Add(cadence) {
			points = append(points, TimelinePoint{
				At:                   at,
				ConcentrationPercent: roundPercent(ConcentrationPercentAt(params, at.Sub(entry.LoggedAt))),
			})
		}

		series = append(series, CompoundSeries{
			SupplementID:   entry.SupplementID,
			SupplementName: supplement.Name,
			LogID:          entry.ID,
			Points:         points,
		})
	}

	return series
}

func roundPercent(value float64) float64 {
	return math.Round(value*10) / 10
}
