package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/repositories"
)

// MatchService records finished games exactly once and serves recorded outcomes.
type MatchService interface {
	RecordResult(ctx context.Context, callerID, gameID int64, player1Score, player2Score int) (*models.RecordResult, error)
	GetOutcome(ctx context.Context, callerID, outcomeID int64) (*models.MatchOutcomeView, error)
	GetOutcomeByGame(ctx context.Context, callerID, gameID int64) (*models.MatchOutcomeView, error)
}

type matchService struct {
	db        *gorm.DB
	gameRepo  repositories.GameRepository
	matchRepo repositories.MatchRepository
	users     UserService
	cache     StatsCache
	logger    *slog.Logger
}

// NewMatchService wires the recorder. cache may be nil.
func NewMatchService(
	db *gorm.DB,
	gameRepo repositories.GameRepository,
	matchRepo repositories.MatchRepository,
	users UserService,
	cache StatsCache,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:        db,
		gameRepo:  gameRepo,
		matchRepo: matchRepo,
		users:     users,
		cache:     cache,
		logger:    logger,
	}
}

func (s *matchService) RecordResult(ctx context.Context, callerID, gameID int64, player1Score, player2Score int) (*models.RecordResult, error) {
	var result *models.RecordResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := s.gameRepo.GetForUpdate(ctx, tx, gameID)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return fmt.Errorf("%w: game %d does not exist", ErrGameNotReady, gameID)
			}
			return err
		}

		participants, err := s.gameRepo.ListParticipants(ctx, tx, gameID)
		if err != nil {
			return err
		}
		candidate, err := buildOutcome(game, participants, callerID, player1Score, player2Score)
		if err != nil {
			return err
		}

		existing, err := s.matchRepo.GetByGameID(ctx, tx, gameID)
		switch {
		case err == nil:
			if !existing.SameResult(candidate) {
				return ErrOutcomeConflict
			}
			result = &models.RecordResult{Match: existing, Duplicated: true}
			return nil
		case !errors.Is(err, repositories.ErrOutcomeNotFound):
			return err
		}

		if err := s.gameRepo.MarkFinished(ctx, tx, gameID, candidate.WinnerID, candidate.RecordedAt); err != nil {
			return err
		}
		if err := s.gameRepo.SetParticipantScore(ctx, tx, participants[0].ID, player1Score); err != nil {
			return err
		}
		if err := s.gameRepo.SetParticipantScore(ctx, tx, participants[1].ID, player2Score); err != nil {
			return err
		}
		if err := s.matchRepo.Create(ctx, tx, candidate); err != nil {
			return err
		}
		result = &models.RecordResult{Match: candidate, Duplicated: false}
		return nil
	})

	if errors.Is(err, repositories.ErrOutcomeExists) {
		// Another writer committed first; the transaction above rolled back entirely.
		return s.resolveConcurrentWrite(ctx, callerID, gameID, player1Score, player2Score)
	}
	if err != nil {
		if errors.Is(err, ErrOutcomeConflict) {
			s.logger.WarnContext(ctx, "Divergent match result rejected",
				slog.Int64("game_id", gameID),
				slog.Int64("caller_id", callerID),
				slog.Int("player1_score", player1Score),
				slog.Int("player2_score", player2Score))
		}
		return nil, err
	}

	if !result.Duplicated {
		s.invalidateStats(ctx, result.Match.Player1ID, result.Match.Player2ID)
	}
	s.logger.InfoContext(ctx, "Match result recorded",
		slog.Int64("game_id", gameID),
		slog.Int64("outcome_id", result.Match.ID),
		slog.Int64("winner_id", result.Match.WinnerID),
		slog.Bool("duplicated", result.Duplicated))
	return result, nil
}

func (s *matchService) resolveConcurrentWrite(ctx context.Context, callerID, gameID int64, player1Score, player2Score int) (*models.RecordResult, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		return nil, err
	}
	participants, err := s.gameRepo.ListParticipants(ctx, nil, gameID)
	if err != nil {
		return nil, err
	}
	candidate, err := buildOutcome(game, participants, callerID, player1Score, player2Score)
	if err != nil {
		return nil, err
	}
	existing, err := s.matchRepo.GetByGameID(ctx, nil, gameID)
	if err != nil {
		return nil, err
	}
	if !existing.SameResult(candidate) {
		return nil, ErrOutcomeConflict
	}
	return &models.RecordResult{Match: existing, Duplicated: true}, nil
}

// buildOutcome validates the submission against the registered participants and derives
// the winner. Checks run in order: participants, caller membership, scores.
func buildOutcome(game *models.Game, participants []models.GameParticipant, callerID int64, player1Score, player2Score int) (*models.MatchOutcome, error) {
	if len(participants) != 2 || participants[0].UserID == nil || participants[1].UserID == nil {
		return nil, ErrGameNotReady
	}
	p1, p2 := *participants[0].UserID, *participants[1].UserID
	if callerID != p1 && callerID != p2 {
		return nil, ErrNotGameMember
	}
	if player1Score < 0 || player2Score < 0 {
		return nil, ErrNegativeScore
	}
	if player1Score == player2Score {
		return nil, ErrTieNotAllowed
	}

	winnerID := p2
	if player1Score > player2Score {
		winnerID = p1
	}
	mode := game.Mode
	if mode == "" {
		mode = models.ModeForCategory(game.Category)
	}

	return &models.MatchOutcome{
		GameID:       game.ID,
		Player1ID:    p1,
		Player2ID:    p2,
		Player1Score: player1Score,
		Player2Score: player2Score,
		WinnerID:     winnerID,
		Mode:         mode,
		RecordedAt:   time.Now().UTC(),
	}, nil
}

func (s *matchService) invalidateStats(ctx context.Context, userIDs ...int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate cached stats", slog.Any("user_ids", userIDs), slog.Any("error", err))
	}
}

func (s *matchService) GetOutcome(ctx context.Context, callerID, outcomeID int64) (*models.MatchOutcomeView, error) {
	outcome, err := s.matchRepo.GetByID(ctx, nil, outcomeID)
	if err != nil {
		if errors.Is(err, repositories.ErrOutcomeNotFound) {
			return nil, ErrOutcomeNotFound
		}
		return nil, err
	}
	return s.toView(ctx, callerID, outcome)
}

func (s *matchService) GetOutcomeByGame(ctx context.Context, callerID, gameID int64) (*models.MatchOutcomeView, error) {
	outcome, err := s.matchRepo.GetByGameID(ctx, nil, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrOutcomeNotFound) {
			return nil, ErrOutcomeNotFound
		}
		return nil, err
	}
	return s.toView(ctx, callerID, outcome)
}

func (s *matchService) toView(ctx context.Context, callerID int64, o *models.MatchOutcome) (*models.MatchOutcomeView, error) {
	if callerID != o.Player1ID && callerID != o.Player2ID {
		return nil, ErrNotOutcomeMember
	}

	identities, err := s.users.LookupDisplayIdentities(ctx, []int64{o.Player1ID, o.Player2ID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve players of outcome %d: %w", o.ID, err)
	}

	return &models.MatchOutcomeView{
		ID:         o.ID,
		GameID:     o.GameID,
		RecordedAt: o.RecordedAt,
		Mode:       o.Mode,
		Player1:    playerViewOrID(identities, o.Player1ID),
		Player2:    playerViewOrID(identities, o.Player2ID),
		Score:      [2]int{o.Player1Score, o.Player2Score},
		WinnerID:   o.WinnerID,
	}, nil
}

func playerViewOrID(identities map[int64]models.PlayerView, id int64) models.PlayerView {
	if view, ok := identities[id]; ok {
		return view
	}
	return models.PlayerView{ID: id}
}
