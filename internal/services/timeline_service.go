package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/witherow/biostack/internal/models"
)

const (
	// Everything a default half-life can keep above the detection floor
	// fits inside a day; older entries cannot contribute.
	timelineLookback = 24 * time.Hour
	timelineCadence  = time.Hour
)

type TimelineLogReader interface {
	ListByUserSince(ctx context.Context, userID uint, since time.Time) ([]models.LogEntry, error)
}

type SupplementCatalogReader interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.Supplement, error)
}

type TimingRuleBatchReader interface {
	FindTimingRulesForAny(ctx context.Context, supplementIDs []uint) ([]models.TimingRule, error)
}

// TimelineView is the full simulation snapshot for one user at one
// instant: what is still active, where intake is currently excluded, what
// could be improved, and the condensed score. Derived on every request,
// never persisted.
type TimelineView struct {
	GeneratedAt     time.Time                 `json:"generated_at"`
	ActiveCompounds []ActiveCompound          `json:"active_compounds"`
	ExclusionZones  []ExclusionZone           `json:"exclusion_zones"`
	Optimizations   []OptimizationOpportunity `json:"optimizations"`
	Series          []CompoundSeries          `json:"series"`
	BioScore        int                       `json:"bio_score"`
}

type TimelineService struct {
	logs         TimelineLogReader
	supplements  SupplementCatalogReader
	timingRules  TimingRuleBatchReader
	interactions InteractionRuleReader
}

func NewTimelineService(logs TimelineLogReader, supplements SupplementCatalogReader, timingRules TimingRuleBatchReader, interactions InteractionRuleReader) *TimelineService {
	return &TimelineService{
		logs:         logs,
		supplements:  supplements,
		timingRules:  timingRules,
		interactions: interactions,
	}
}

// BuildView assembles the simulation snapshot from the last day of log
// history. One log query, one supplement batch, then two rule fetches in
// parallel; everything downstream is pure derivation.
func (service *TimelineService) BuildView(ctx context.Context, caller Identity, now time.Time) (TimelineView, error) {
	entries, err := service.logs.ListByUserSince(ctx, caller.UserID, now.Add(-timelineLookback))
	if err != nil {
		return TimelineView{}, fmt.Errorf("load log history: %w", err)
	}

	supplementIDs := make([]uint, 0, len(entries))
	seen := make(map[uint]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.SupplementID] {
			continue
		}
		seen[entry.SupplementID] = true
		supplementIDs = append(supplementIDs, entry.SupplementID)
	}

	supplements, err := service.supplements.FindByIDs(ctx, supplementIDs)
	if err != nil {
		return TimelineView{}, fmt.Errorf("load supplements: %w", err)
	}
	supplementsByID := make(map[uint]models.Supplement, len(supplements))
	recentSlugs := make(map[string]bool, len(supplements))
	for _, supplement := range supplements {
		supplementsByID[supplement.ID] = supplement
		recentSlugs[supplement.Slug] = true
	}

	compounds := BuildActiveCompounds(entries, supplementsByID, now)

	activeIDs := make([]uint, 0, len(compounds))
	activeSeen := make(map[uint]bool, len(compounds))
	for _, compound := range compounds {
		if activeSeen[compound.SupplementID] {
			continue
		}
		activeSeen[compound.SupplementID] = true
		activeIDs = append(activeIDs, compound.SupplementID)
	}

	var timingRules []models.TimingRule
	var interactionRules []models.InteractionRule
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rules, err := service.timingRules.FindTimingRulesForAny(groupCtx, activeIDs)
		if err != nil {
			return fmt.Errorf("load timing rules: %w", err)
		}
		timingRules = rules
		return nil
	})
	group.Go(func() error {
		rules, err := service.interactions.FindInteractionRules(groupCtx, activeIDs)
		if err != nil {
			return fmt.Errorf("load interaction rules: %w", err)
		}
		interactionRules = rules
		return nil
	})
	if err := group.Wait(); err != nil {
		return TimelineView{}, err
	}

	zones := BuildExclusionZones(compounds, timingRules, supplementsByID, now)
	opportunities := BuildOptimizations(compounds, interactionRules, supplementsByID, recentSlugs)

	return TimelineView{
		GeneratedAt:     now,
		ActiveCompounds: compounds,
		ExclusionZones:  zones,
		Optimizations:   opportunities,
		Series:          BuildTimeline(entries, supplementsByID, now, timelineLookback, timelineCadence),
		BioScore:        ComputeBioScore(zones, opportunities),
	}, nil
}
