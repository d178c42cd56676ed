package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/models"
)

// HistoryLimit caps the history view to the most recent outcomes.
const HistoryLimit = 50

// StatsRepository is the read-only projection over match_outcomes.
type StatsRepository interface {
	CountForUser(ctx context.Context, userID int64) (played int, wins int, err error)
	HistoryForUser(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error)
}

type gormStatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &gormStatsRepository{db: db}
}

const countForUserQuery = `
	SELECT
		COUNT(*) AS games_played,
		COALESCE(SUM(CASE WHEN winner_id = @uid THEN 1 ELSE 0 END), 0) AS wins
	FROM match_outcomes
	WHERE player1_id = @uid OR player2_id = @uid`

func (r *gormStatsRepository) CountForUser(ctx context.Context, userID int64) (int, int, error) {
	var row struct {
		GamesPlayed int
		Wins        int
	}
	err := r.db.WithContext(ctx).
		Raw(countForUserQuery, map[string]interface{}{"uid": userID}).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count outcomes for user %d: %w", userID, err)
	}
	return row.GamesPlayed, row.Wins, nil
}

const historyForUserQuery = `
	SELECT
		mo.id AS id,
		mo.game_id AS game_id,
		mo.recorded_at AS recorded_at,
		mo.mode AS mode,
		CASE WHEN mo.player1_id = @uid THEN mo.player2_id ELSE mo.player1_id END AS opponent_id,
		u.username AS opponent_username,
		u.avatar AS opponent_avatar,
		CASE WHEN mo.player1_id = @uid THEN mo.player1_score ELSE mo.player2_score END AS my_score,
		CASE WHEN mo.player1_id = @uid THEN mo.player2_score ELSE mo.player1_score END AS opponent_score,
		CASE WHEN mo.winner_id = @uid THEN 1 ELSE 0 END AS did_win
	FROM match_outcomes mo
	LEFT JOIN users u
		ON u.id = CASE WHEN mo.player1_id = @uid THEN mo.player2_id ELSE mo.player1_id END
	WHERE mo.player1_id = @uid OR mo.player2_id = @uid
	ORDER BY mo.recorded_at DESC, mo.id DESC
	LIMIT @limit`

type historyRow struct {
	ID               int64
	GameID           int64
	RecordedAt       time.Time
	Mode             string
	OpponentID       int64
	OpponentUsername *string
	OpponentAvatar   *string
	MyScore          int
	OpponentScore    int
	DidWin           int
}

func (r *gormStatsRepository) HistoryForUser(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}

	var rows []historyRow
	err := r.db.WithContext(ctx).
		Raw(historyForUserQuery, map[string]interface{}{"uid": userID, "limit": limit}).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history for user %d: %w", userID, err)
	}

	history := make([]models.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		opponent := models.PlayerView{ID: row.OpponentID, Avatar: row.OpponentAvatar}
		if row.OpponentUsername != nil {
			opponent.Username = *row.OpponentUsername
		}
		history = append(history, models.HistoryEntry{
			ID:            row.ID,
			GameID:        row.GameID,
			RecordedAt:    row.RecordedAt,
			Mode:          models.MatchMode(row.Mode),
			Opponent:      opponent,
			MyScore:       row.MyScore,
			OpponentScore: row.OpponentScore,
			DidWin:        row.DidWin == 1,
		})
	}
	return history, nil
}
