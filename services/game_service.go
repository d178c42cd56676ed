package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/repositories"
)

// GameService is the game registry: it creates game slots bound to exactly two users.
type GameService interface {
	CreateGame(ctx context.Context, category models.GameCategory, player1ID, player2ID int64) (*models.Game, error)
	CreateAIGame(ctx context.Context, callerID int64) (*models.Game, error)
	CreatePvPGame(ctx context.Context, callerID, opponentID int64) (*models.Game, error)
}

type gameService struct {
	db       *gorm.DB
	gameRepo repositories.GameRepository
	users    UserService
	logger   *slog.Logger
}

func NewGameService(db *gorm.DB, gameRepo repositories.GameRepository, users UserService, logger *slog.Logger) GameService {
	return &gameService{
		db:       db,
		gameRepo: gameRepo,
		users:    users,
		logger:   logger,
	}
}

func (s *gameService) CreateGame(ctx context.Context, category models.GameCategory, player1ID, player2ID int64) (*models.Game, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if player1ID == player2ID {
		return nil, ErrSelfPlay
	}

	p1, err := s.users.GetByID(ctx, player1ID)
	if err != nil {
		return nil, err
	}
	p2, err := s.users.GetByID(ctx, player2ID)
	if err != nil {
		return nil, err
	}

	status := models.GameStatusInProgress
	if category == models.CategoryAI {
		status = models.GameStatusPlaying
	}

	// Порядок участников важен: первый вставленный - Player 1.
	game := &models.Game{
		Category:  category,
		Mode:      models.ModeForCategory(category),
		Status:    status,
		StartedAt: time.Now().UTC(),
		Participants: []models.GameParticipant{
			{UserID: &p1.ID, Alias: p1.Username},
			{UserID: &p2.ID, Alias: p2.Username},
		},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.gameRepo.Create(ctx, tx, game)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s game: %w", category, err)
	}

	s.logger.InfoContext(ctx, "Game created",
		slog.Int64("game_id", game.ID),
		slog.String("category", string(category)),
		slog.Int64("player1_id", p1.ID),
		slog.Int64("player2_id", p2.ID))
	return game, nil
}

func (s *gameService) CreateAIGame(ctx context.Context, callerID int64) (*models.Game, error) {
	ai, err := s.users.AIUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.CreateGame(ctx, models.CategoryAI, callerID, ai.ID)
}

func (s *gameService) CreatePvPGame(ctx context.Context, callerID, opponentID int64) (*models.Game, error) {
	if opponentID <= 0 {
		return nil, ErrInvalidOpponent
	}
	if opponentID == callerID {
		return nil, ErrSelfPlay
	}
	return s.CreateGame(ctx, models.CategoryPvP, callerID, opponentID)
}
