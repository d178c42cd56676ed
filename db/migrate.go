package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/models"
)

// Migrate creates or updates every table the service owns and seeds the AI account.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.GameParticipant{},
		&models.MatchOutcome{},
		&models.Tournament{},
		&models.TournamentParticipant{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	ai := models.User{Username: models.AIUsername}
	if err := gdb.Where(models.User{Username: models.AIUsername}).FirstOrCreate(&ai).Error; err != nil {
		return fmt.Errorf("failed to seed AI user: %w", err)
	}
	return nil
}
