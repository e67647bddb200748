package services

import (
	"math"
	"sort"
	"time"

	"github.com/witherow/biostack/internal/models"
)

// ExclusionZone is a derived window during which the target supplement
// should not be taken because a timing-ruled counterpart is still active.
// Zones whose EndsAt has passed are expired and treated as cleared; they
// are never emitted, not deleted retroactively.
type ExclusionZone struct {
	RuleID               uint      `json:"rule_id"`
	SourceSupplementID   uint      `json:"source_supplement_id"`
	TargetSupplementID   uint      `json:"target_supplement_id"`
	TargetSupplementName string    `json:"target_supplement_name"`
	EndsAt               time.Time `json:"ends_at"`
	MinutesRemaining     int       `json:"minutes_remaining"`
	Reason               string    `json:"reason"`
	Severity             string    `json:"severity"`
}

// BuildExclusionZones opens a zone for every still-active compound matched
// by a timing rule, against the rule's counterpart supplement. Timing rules
// are symmetric, so the active compound may sit on either side. Sorted by
// MinutesRemaining ascending; the soonest-to-clear zone comes first.
func BuildExclusionZones(compounds []ActiveCompound, rules []models.TimingRule, supplementsByID map[uint]models.Supplement, now time.Time) []ExclusionZone {
	zones := make([]ExclusionZone, 0)

	for _, compound := range compounds {
		for _, rule := range rules {
			counterpartID := timingCounterpart(rule, compound.SupplementID)
			if counterpartID == 0 {
				continue
			}

			endsAt := compound.LoggedAt.Add(time.Duration(rule.MinHoursApart * float64(time.Hour)))
			if !endsAt.After(now) {
				continue
			}

			zones = append(zones, ExclusionZone{
				RuleID:               rule.ID,
				SourceSupplementID:   compound.SupplementID,
				TargetSupplementID:   counterpartID,
				TargetSupplementName: supplementsByID[counterpartID].Name,
				EndsAt:               endsAt,
				MinutesRemaining:     int(math.Ceil(endsAt.Sub(now).Minutes())),
				Reason:               rule.Reason,
				Severity:             rule.Severity,
			})
		}
	}

	sort.Slice(zones, func(i, j int) bool {
		if zones[i].MinutesRemaining == zones[j].MinutesRemaining {
			return zones[i].RuleID < zones[j].RuleID
		}
		return zones[i].MinutesRemaining < zones[j].MinutesRemaining
	})

	return zones
}
