package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Supplements *SupplementRepository
	LogEntries  *LogEntryRepository
	Rules       *RuleRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Supplements: NewSupplementRepository(database),
		LogEntries:  NewLogEntryRepository(database),
		Rules:       NewRuleRepository(database),
	}
}
