package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/models"
)

var (
	ErrOutcomeNotFound = errors.New("match outcome not found")
	ErrOutcomeExists   = errors.New("match outcome already recorded for this game")
)

// MatchRepository stores finished game outcomes. At most one row exists per game.
type MatchRepository interface {
	Create(ctx context.Context, exec *gorm.DB, outcome *models.MatchOutcome) error
	GetByID(ctx context.Context, exec *gorm.DB, id int64) (*models.MatchOutcome, error)
	GetByGameID(ctx context.Context, exec *gorm.DB, gameID int64) (*models.MatchOutcome, error)
	CountByGameID(ctx context.Context, exec *gorm.DB, gameID int64) (int64, error)
}

type gormMatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &gormMatchRepository{db: db}
}

func (r *gormMatchRepository) Create(ctx context.Context, exec *gorm.DB, outcome *models.MatchOutcome) error {
	if err := pick(ctx, r.db, exec).Create(outcome).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrOutcomeExists
		}
		return fmt.Errorf("failed to create outcome for game %d: %w", outcome.GameID, err)
	}
	return nil
}

func (r *gormMatchRepository) GetByID(ctx context.Context, exec *gorm.DB, id int64) (*models.MatchOutcome, error) {
	var outcome models.MatchOutcome
	if err := pick(ctx, r.db, exec).First(&outcome, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOutcomeNotFound
		}
		return nil, fmt.Errorf("failed to get outcome %d: %w", id, err)
	}
	return &outcome, nil
}

func (r *gormMatchRepository) GetByGameID(ctx context.Context, exec *gorm.DB, gameID int64) (*models.MatchOutcome, error) {
	var outcome models.MatchOutcome
	if err := pick(ctx, r.db, exec).Where("game_id = ?", gameID).First(&outcome).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOutcomeNotFound
		}
		return nil, fmt.Errorf("failed to get outcome for game %d: %w", gameID, err)
	}
	return &outcome, nil
}

func (r *gormMatchRepository) CountByGameID(ctx context.Context, exec *gorm.DB, gameID int64) (int64, error) {
	var count int64
	if err := pick(ctx, r.db, exec).Model(&models.MatchOutcome{}).Where("game_id = ?", gameID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count outcomes for game %d: %w", gameID, err)
	}
	return count, nil
}
