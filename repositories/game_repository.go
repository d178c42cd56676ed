package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Dosada05/pong-ledger/models"
)

var (
	ErrGameNotFound            = errors.New("game not found")
	ErrGameParticipantNotFound = errors.New("game participant not found")
)

type GameRepository interface {
	// Create inserts the game and then its participants one by one, keeping slice order
	// as insertion order.
	Create(ctx context.Context, exec *gorm.DB, game *models.Game) error
	GetByID(ctx context.Context, exec *gorm.DB, id int64) (*models.Game, error)
	// GetForUpdate locks the game row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, exec *gorm.DB, id int64) (*models.Game, error)
	ListParticipants(ctx context.Context, exec *gorm.DB, gameID int64) ([]models.GameParticipant, error)
	MarkFinished(ctx context.Context, exec *gorm.DB, gameID, winnerID int64, endedAt time.Time) error
	SetParticipantScore(ctx context.Context, exec *gorm.DB, participantID int64, score int) error
}

type gormGameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gormGameRepository{db: db}
}

func (r *gormGameRepository) Create(ctx context.Context, exec *gorm.DB, game *models.Game) error {
	conn := pick(ctx, r.db, exec)
	participants := game.Participants
	game.Participants = nil

	if err := conn.Omit(clause.Associations).Create(game).Error; err != nil {
		game.Participants = participants
		return fmt.Errorf("failed to create game: %w", err)
	}
	for i := range participants {
		participants[i].GameID = game.ID
		if err := conn.Create(&participants[i]).Error; err != nil {
			game.Participants = participants
			return fmt.Errorf("failed to create participant %d for game %d: %w", i+1, game.ID, err)
		}
	}
	game.Participants = participants
	return nil
}

func (r *gormGameRepository) GetByID(ctx context.Context, exec *gorm.DB, id int64) (*models.Game, error) {
	return r.get(pick(ctx, r.db, exec), id)
}

func (r *gormGameRepository) GetForUpdate(ctx context.Context, exec *gorm.DB, id int64) (*models.Game, error) {
	return r.get(pick(ctx, r.db, exec).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *gormGameRepository) get(conn *gorm.DB, id int64) (*models.Game, error) {
	var game models.Game
	if err := conn.First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return &game, nil
}

func (r *gormGameRepository) ListParticipants(ctx context.Context, exec *gorm.DB, gameID int64) ([]models.GameParticipant, error) {
	participants := make([]models.GameParticipant, 0, 2)
	err := pick(ctx, r.db, exec).
		Where("game_id = ?", gameID).
		Order("id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for game %d: %w", gameID, err)
	}
	return participants, nil
}

func (r *gormGameRepository) MarkFinished(ctx context.Context, exec *gorm.DB, gameID, winnerID int64, endedAt time.Time) error {
	result := pick(ctx, r.db, exec).
		Model(&models.Game{}).
		Where("id = ?", gameID).
		Updates(map[string]interface{}{
			"status":    models.GameStatusFinished,
			"winner_id": winnerID,
			"ended_at":  endedAt,
		})
	if err := checkAffectedRows(result, ErrGameNotFound); err != nil {
		return fmt.Errorf("failed to mark game %d finished: %w", gameID, err)
	}
	return nil
}

func (r *gormGameRepository) SetParticipantScore(ctx context.Context, exec *gorm.DB, participantID int64, score int) error {
	result := pick(ctx, r.db, exec).
		Model(&models.GameParticipant{}).
		Where("id = ?", participantID).
		Update("score", score)
	if err := checkAffectedRows(result, ErrGameParticipantNotFound); err != nil {
		return fmt.Errorf("failed to set score for participant %d: %w", participantID, err)
	}
	return nil
}
