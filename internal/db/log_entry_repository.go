package db

import (
	"context"
	"time"

	"github.com/witherow/biostack/internal/models"
	"gorm.io/gorm"
)

type LogEntryRepository struct {
	database *gorm.DB
}

func NewLogEntryRepository(database *gorm.DB) *LogEntryRepository {
	return &LogEntryRepository{database: database}
}

func (repo *LogEntryRepository) ListByUserRange(ctx context.Context, userID uint, from time.Time, to time.Time) ([]models.LogEntry, error) {
	entries := make([]models.LogEntry, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Order("logged_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *LogEntryRepository) ListByUserSince(ctx context.Context, userID uint, since time.Time) ([]models.LogEntry, error) {
	entries := make([]models.LogEntry, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ?", userID, since).
		Order("logged_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUserAndSupplements returns the user's entries for the given
// supplements inside [from, to). Used by the timing evaluator to run one
// batched window query instead of one query per rule.
func (repo *LogEntryRepository) ListByUserAndSupplements(ctx context.Context, userID uint, supplementIDs []uint, from time.Time, to time.Time) ([]models.LogEntry, error) {
	entries := make([]models.LogEntry, 0)
	if len(supplementIDs) == 0 {
		return entries, nil
	}
	if err := repo.database.WithContext(ctx).
		Where("user_id = ? AND supplement_id IN ? AND logged_at >= ? AND logged_at < ?", userID, supplementIDs, from, to).
		Order("logged_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *LogEntryRepository) FindByIDForUser(ctx context.Context, entryID uint, userID uint) (models.LogEntry, bool, error) {
	var entry models.LogEntry
	result := repo.database.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.LogEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.LogEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *LogEntryRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	return repo.database.WithContext(ctx).Create(entry).Error
}

func (repo *LogEntryRepository) DeleteByIDForUser(ctx context.Context, entryID uint, userID uint) error {
	return repo.database.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.LogEntry{}).Error
}
