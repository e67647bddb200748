package db

import (
	"context"

	"github.com/witherow/biostack/internal/models"
	"gorm.io/gorm"
)

type SupplementRepository struct {
	database *gorm.DB
}

func NewSupplementRepository(database *gorm.DB) *SupplementRepository {
	return &SupplementRepository{database: database}
}

func (repo *SupplementRepository) List(ctx context.Context) ([]models.Supplement, error) {
	supplements := make([]models.Supplement, 0)
	if err := repo.database.WithContext(ctx).Order("name ASC").Find(&supplements).Error; err != nil {
		return nil, err
	}
	return supplements, nil
}

func (repo *SupplementRepository) FindByID(ctx context.Context, supplementID uint) (models.Supplement, error) {
	var supplement models.Supplement
	if err := repo.database.WithContext(ctx).First(&supplement, supplementID).Error; err != nil {
		return models.Supplement{}, err
	}
	return supplement, nil
}

func (repo *SupplementRepository) FindByIDs(ctx context.Context, supplementIDs []uint) ([]models.Supplement, error) {
	supplements := make([]models.Supplement, 0, len(supplementIDs))
	if len(supplementIDs) == 0 {
		return supplements, nil
	}
	if err := repo.database.WithContext(ctx).Where("id IN ?", supplementIDs).Find(&supplements).Error; err != nil {
		return nil, err
	}
	return supplements, nil
}

func (repo *SupplementRepository) FindBySlug(ctx context.Context, slug string) (models.Supplement, error) {
	var supplement models.Supplement
	if err := repo.database.WithContext(ctx).Where("slug = ?", slug).First(&supplement).Error; err != nil {
		return models.Supplement{}, err
	}
	return supplement, nil
}
