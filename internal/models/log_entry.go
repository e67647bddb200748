package models

import "time"

const (
	UnitMilligram = "mg"
	UnitMicrogram = "mcg"
	UnitIU        = "iu"
	UnitGram      = "g"
)

// LogEntry records a single intake. Entries are immutable once created:
// corrections delete and re-create, they never mutate dosage or time in
// place, so derived warnings stay a pure function of the log history.
type LogEntry struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"index;not null"`
	SupplementID uint      `gorm:"index;not null"`
	Dosage       float64   `gorm:"not null"`
	Unit         string    `gorm:"not null;default:mg"`
	LoggedAt     time.Time `gorm:"index;not null"`
	CreatedAt    time.Time
}
