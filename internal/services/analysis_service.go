package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/witherow/biostack/internal/models"
)

type AnalysisLogReader interface {
	ListByUserRange(ctx context.Context, userID uint, from time.Time, to time.Time) ([]models.LogEntry, error)
}

// LogCheckResult is everything the caller learns about one newly logged
// entry: set-level interaction and ratio findings narrowed to rules that
// touch the new supplement, plus timing conflicts around its intake time.
type LogCheckResult struct {
	Interactions   []InteractionWarning `json:"interactions"`
	Synergies      []InteractionWarning `json:"synergies"`
	RatioWarnings  []RatioWarning       `json:"ratio_warnings"`
	RatioGaps      []RatioGap           `json:"ratio_gaps"`
	TimingWarnings []TimingWarning      `json:"timing_warnings"`
	Source         string               `json:"source"`
	FallbackReason string               `json:"fallback_reason,omitempty"`
}

// AnalysisService evaluates supplement sets. It owns the day-window
// assembly around a new log entry; the actual rule evaluation is delegated
// to whichever RuleAnalyzer strategy is wired in.
type AnalysisService struct {
	analyzer RuleAnalyzer
	logs     AnalysisLogReader
	location *time.Location
}

func NewAnalysisService(analyzer RuleAnalyzer, logs AnalysisLogReader, location *time.Location) *AnalysisService {
	if location == nil {
		location = time.UTC
	}
	return &AnalysisService{analyzer: analyzer, logs: logs, location: location}
}

// Preview evaluates an arbitrary supplement set without persisting
// anything. Used by the pre-log check endpoint.
func (service *AnalysisService) Preview(ctx context.Context, caller Identity, inputs []DosageInput) (AnalysisOutcome, error) {
	return service.analyzer.AnalyzeSet(ctx, caller, inputs)
}

// CheckNewLog evaluates a just-persisted entry against everything else the
// user logged the same calendar day. The set analysis and the timing check
// are independent and run concurrently. Interaction results are narrowed
// to rules referencing the new supplement; warnings about pairs the user
// already saw when logging the earlier entries would only repeat.
func (service *AnalysisService) CheckNewLog(ctx context.Context, caller Identity, entry models.LogEntry) (LogCheckResult, error) {
	dayStart, dayEnd := dayRange(entry.LoggedAt, service.location)
	dayLogs, err := service.logs.ListByUserRange(ctx, caller.UserID, dayStart, dayEnd)
	if err != nil {
		return LogCheckResult{}, fmt.Errorf("load same-day logs: %w", err)
	}

	inputs := aggregateDosages(dayLogs)
	if !containsSupplement(inputs, entry.SupplementID) {
		inputs = append(inputs, DosageInput{SupplementID: entry.SupplementID, Dosage: entry.Dosage, Unit: entry.Unit})
	}

	var outcome AnalysisOutcome
	var timingWarnings []TimingWarning
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result, err := service.analyzer.AnalyzeSet(groupCtx, caller, inputs)
		if err != nil {
			return err
		}
		outcome = result
		return nil
	})
	group.Go(func() error {
		warnings, err := service.analyzer.CheckTimingFor(groupCtx, caller, entry.SupplementID, entry.LoggedAt, entry.ID)
		if err != nil {
			return err
		}
		timingWarnings = warnings
		return nil
	})
	if err := group.Wait(); err != nil {
		return LogCheckResult{}, err
	}

	result := LogCheckResult{
		Interactions:   filterTouching(outcome.Interactions, entry.SupplementID),
		Synergies:      filterTouching(outcome.Synergies, entry.SupplementID),
		RatioWarnings:  []RatioWarning{},
		RatioGaps:      []RatioGap{},
		TimingWarnings: timingWarnings,
		Source:         outcome.Source,
		FallbackReason: outcome.FallbackReason,
	}
	for _, warning := range outcome.RatioWarnings {
		if warning.SourceSupplementID == entry.SupplementID || warning.TargetSupplementID == entry.SupplementID {
			result.RatioWarnings = append(result.RatioWarnings, warning)
		}
	}
	for _, gap := range outcome.RatioGaps {
		if gap.PresentSupplementID == entry.SupplementID || gap.MissingSupplementID == entry.SupplementID {
			result.RatioGaps = append(result.RatioGaps, gap)
		}
	}
	if result.TimingWarnings == nil {
		result.TimingWarnings = []TimingWarning{}
	}
	return result, nil
}

// aggregateDosages sums same-unit dosages per supplement. Mixed-unit
// intakes of one supplement keep the first unit seen and still sum raw
// magnitudes; ratio rules compare magnitudes, not normalized masses.
func aggregateDosages(entries []models.LogEntry) []DosageInput {
	inputs := make([]DosageInput, 0, len(entries))
	indexBySupplement := make(map[uint]int, len(entries))
	for _, entry := range entries {
		if index, seen := indexBySupplement[entry.SupplementID]; seen {
			inputs[index].Dosage += entry.Dosage
			continue
		}
		indexBySupplement[entry.SupplementID] = len(inputs)
		inputs = append(inputs, DosageInput{
			SupplementID: entry.SupplementID,
			Dosage:       entry.Dosage,
			Unit:         entry.Unit,
		})
	}
	return inputs
}

func containsSupplement(inputs []DosageInput, supplementID uint) bool {
	for _, input := range inputs {
		if input.SupplementID == supplementID {
			return true
		}
	}
	return false
}

func filterTouching(warnings []InteractionWarning, supplementID uint) []InteractionWarning {
	filtered := make([]InteractionWarning, 0, len(warnings))
	for _, warning := range warnings {
		if warning.SourceSupplementID == supplementID || warning.TargetSupplementID == supplementID {
			filtered = append(filtered, warning)
		}
	}
	return filtered
}

// dayRange returns the half-open [midnight, next midnight) interval of the
// calendar day containing t in the given location.
func dayRange(t time.Time, location *time.Location) (time.Time, time.Time) {
	local := t.In(location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
	return start, start.AddDate(0, 0, 1)
}
