package models

const (
	CategoryMineral   = "mineral"
	CategoryVitamin   = "vitamin"
	CategoryAminoAcid = "amino_acid"
	CategoryHerb      = "herb"
	CategoryStimulant = "stimulant"
	CategoryOther     = "other"
)

// Supplement is immutable reference data seeded by migrations.
type Supplement struct {
	ID       uint   `gorm:"primaryKey"`
	Slug     string `gorm:"uniqueIndex;not null"`
	Name     string `gorm:"not null"`
	Form     string `gorm:"not null;default:capsule"`
	Category string `gorm:"not null;default:other"`
}
