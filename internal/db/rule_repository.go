package db

import (
	"context"

	"github.com/witherow/biostack/internal/models"
	"gorm.io/gorm"
)

// RuleRepository reads the immutable interaction/ratio/timing rule catalog.
// Queries match rules touching the given supplements on either side; the
// evaluators narrow to both-endpoints-present afterwards.
type RuleRepository struct {
	database *gorm.DB
}

func NewRuleRepository(database *gorm.DB) *RuleRepository {
	return &RuleRepository{database: database}
}

func (repo *RuleRepository) FindInteractionRules(ctx context.Context, supplementIDs []uint) ([]models.InteractionRule, error) {
	rules := make([]models.InteractionRule, 0)
	if len(supplementIDs) == 0 {
		return rules, nil
	}
	if err := repo.database.WithContext(ctx).
		Where("source_supplement_id IN ? OR target_supplement_id IN ?", supplementIDs, supplementIDs).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (repo *RuleRepository) FindRatioRules(ctx context.Context, supplementIDs []uint) ([]models.RatioRule, error) {
	rules := make([]models.RatioRule, 0)
	if len(supplementIDs) == 0 {
		return rules, nil
	}
	if err := repo.database.WithContext(ctx).
		Where("source_supplement_id IN ? OR target_supplement_id IN ?", supplementIDs, supplementIDs).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (repo *RuleRepository) FindTimingRules(ctx context.Context, supplementID uint) ([]models.TimingRule, error) {
	rules := make([]models.TimingRule, 0)
	if err := repo.database.WithContext(ctx).
		Where("source_supplement_id = ? OR target_supplement_id = ?", supplementID, supplementID).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (repo *RuleRepository) FindTimingRulesForAny(ctx context.Context, supplementIDs []uint) ([]models.TimingRule, error) {
	rules := make([]models.TimingRule, 0)
	if len(supplementIDs) == 0 {
		return rules, nil
	}
	if err := repo.database.WithContext(ctx).
		Where("source_supplement_id IN ? OR target_supplement_id IN ?", supplementIDs, supplementIDs).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
