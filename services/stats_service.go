package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/repositories"
)

// StatsCache is a read-through cache of per-user aggregates.
type StatsCache interface {
	GetStats(ctx context.Context, userID int64) (*models.UserStats, bool, error)
	SetStats(ctx context.Context, stats *models.UserStats) error
	Invalidate(ctx context.Context, userIDs ...int64) error
}

// StatsService projects the match ledger into per-user aggregates and history.
type StatsService interface {
	GetStats(ctx context.Context, userID int64) (*models.UserStats, error)
	GetHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error)
	GetProfile(ctx context.Context, userID int64) (*models.ProfileSummary, error)
}

type statsService struct {
	statsRepo repositories.StatsRepository
	users     UserService
	cache     StatsCache
	logger    *slog.Logger
}

// NewStatsService wires the projector. cache may be nil.
func NewStatsService(statsRepo repositories.StatsRepository, users UserService, cache StatsCache, logger *slog.Logger) StatsService {
	return &statsService{
		statsRepo: statsRepo,
		users:     users,
		cache:     cache,
		logger:    logger,
	}
}

func (s *statsService) GetStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.loadStats(ctx, userID)
}

func (s *statsService) loadStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetStats(ctx, userID)
		if err != nil {
			s.logger.WarnContext(ctx, "Stats cache read failed, falling back to database", slog.Int64("user_id", userID), slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}

	played, wins, err := s.statsRepo.CountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := computeStats(userID, played, wins)

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, stats); err != nil {
			s.logger.WarnContext(ctx, "Stats cache write failed", slog.Int64("user_id", userID), slog.Any("error", err))
		}
	}
	return stats, nil
}

func computeStats(userID int64, played, wins int) *models.UserStats {
	stats := &models.UserStats{
		UserID:      userID,
		GamesPlayed: played,
		Wins:        wins,
		Losses:      played - wins,
		TotalGames:  played,
	}
	if played > 0 {
		stats.WinRate = float64(wins) / float64(played)
	}
	return stats
}

func (s *statsService) GetHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.statsRepo.HistoryForUser(ctx, userID, repositories.HistoryLimit)
}

func (s *statsService) GetProfile(ctx context.Context, userID int64) (*models.ProfileSummary, error) {
	user, err := s.users.GetDisplayIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.ProfileSummary{User: *user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.loadStats(gctx, userID)
		if err != nil {
			return err
		}
		summary.Stats = stats
		return nil
	})
	g.Go(func() error {
		history, err := s.statsRepo.HistoryForUser(gctx, userID, repositories.HistoryLimit)
		if err != nil {
			return err
		}
		summary.History = history
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
