package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

// TournamentRepository persists the durable shadow of each tournament.
type TournamentRepository interface {
	Create(ctx context.Context, exec *gorm.DB, t *models.Tournament) error
	GetByID(ctx context.Context, exec *gorm.DB, id int64) (*models.Tournament, error)
	MarkCompleted(ctx context.Context, exec *gorm.DB, id int64, winnerLabel string, completedAt time.Time) error
}

type gormTournamentRepository struct {
	db *gorm.DB
}

func NewTournamentRepository(db *gorm.DB) TournamentRepository {
	return &gormTournamentRepository{db: db}
}

func (r *gormTournamentRepository) Create(ctx context.Context, exec *gorm.DB, t *models.Tournament) error {
	if err := pick(ctx, r.db, exec).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *gormTournamentRepository) GetByID(ctx context.Context, exec *gorm.DB, id int64) (*models.Tournament, error) {
	var t models.Tournament
	if err := pick(ctx, r.db, exec).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return &t, nil
}

func (r *gormTournamentRepository) MarkCompleted(ctx context.Context, exec *gorm.DB, id int64, winnerLabel string, completedAt time.Time) error {
	result := pick(ctx, r.db, exec).
		Model(&models.Tournament{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.StatusCompleted,
			"winner_label": winnerLabel,
			"completed_at": completedAt,
		})
	if err := checkAffectedRows(result, ErrTournamentNotFound); err != nil {
		return fmt.Errorf("failed to complete tournament %d: %w", id, err)
	}
	return nil
}
