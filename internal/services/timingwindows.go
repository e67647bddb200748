package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/witherow/biostack/internal/models"
)

type TimingRuleReader interface {
	FindTimingRules(ctx context.Context, supplementID uint) ([]models.TimingRule, error)
}

type ConflictLogReader interface {
	ListByUserAndSupplements(ctx context.Context, userID uint, supplementIDs []uint, from time.Time, to time.Time) ([]models.LogEntry, error)
}

// TimingService finds intakes that violate a rule-defined minimum
// separation window around a newly logged entry.
type TimingService struct {
	rules TimingRuleReader
	logs  ConflictLogReader
}

func NewTimingService(rules TimingRuleReader, logs ConflictLogReader) *TimingService {
	return &TimingService{rules: rules, logs: logs}
}

// CheckTiming evaluates every timing rule touching supplementID against the
// user's log history. All matched rules share one batched log query over the
// union window loggedAt ± max(MinHoursApart). Each conflicting entry yields
// its own warning; excludeLogID skips the entry being evaluated itself.
func (service *TimingService) CheckTiming(ctx context.Context, userID uint, supplementID uint, loggedAt time.Time, excludeLogID uint) ([]TimingWarning, error) {
	warnings := make([]TimingWarning, 0)

	rules, err := service.rules.FindTimingRules(ctx, supplementID)
	if err != nil {
		return nil, fmt.Errorf("load timing rules: %w", err)
	}
	if len(rules) == 0 {
		return warnings, nil
	}

	maxHoursApart := 0.0
	counterpartIDs := make([]uint, 0, len(rules))
	seenCounterparts := make(map[uint]bool, len(rules))
	for _, rule := range rules {
		if rule.MinHoursApart > maxHoursApart {
			maxHoursApart = rule.MinHoursApart
		}
		counterpartID := timingCounterpart(rule, supplementID)
		if counterpartID == 0 || seenCounterparts[counterpartID] {
			continue
		}
		seenCounterparts[counterpartID] = true
		counterpartIDs = append(counterpartIDs, counterpartID)
	}
	if len(counterpartIDs) == 0 {
		return warnings, nil
	}

	windowSpan := time.Duration(maxHoursApart * float64(time.Hour))
	windowStart := loggedAt.Add(-windowSpan)
	windowEnd := loggedAt.Add(windowSpan)

	candidates, err := service.logs.ListByUserAndSupplements(ctx, userID, counterpartIDs, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("load conflicting logs: %w", err)
	}

	for _, rule := range rules {
		counterpartID := timingCounterpart(rule, supplementID)
		if counterpartID == 0 {
			continue
		}
		for _, candidate := range candidates {
			if candidate.SupplementID != counterpartID {
				continue
			}
			if excludeLogID != 0 && candidate.ID == excludeLogID {
				continue
			}
			hoursApart := math.Abs(loggedAt.Sub(candidate.LoggedAt).Hours())
			if hoursApart >= rule.MinHoursApart {
				continue
			}
			warnings = append(warnings, TimingWarning{
				RuleID:             rule.ID,
				SourceSupplementID: rule.SourceSupplementID,
				TargetSupplementID: rule.TargetSupplementID,
				MinHoursApart:      rule.MinHoursApart,
				ActualHoursApart:   roundHours(hoursApart),
				ConflictLogID:      candidate.ID,
				ConflictLoggedAt:   candidate.LoggedAt,
				Severity:           rule.Severity,
				Reason:             rule.Reason,
			})
		}
	}

	return warnings, nil
}

// timingCounterpart returns the other side of a rule relative to the newly
// logged supplement, or 0 when the rule does not reference it. Source and
// target keep their rule-side attribution in warnings regardless of which
// side was logged first.
func timingCounterpart(rule models.TimingRule, supplementID uint) uint {
	switch supplementID {
	case rule.SourceSupplementID:
		return rule.TargetSupplementID
	case rule.TargetSupplementID:
		return rule.SourceSupplementID
	default:
		return 0
	}
}

func roundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}
