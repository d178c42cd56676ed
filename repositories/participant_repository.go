package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/models"
)

var (
	ErrAliasTaken        = errors.New("alias already taken in this tournament")
	ErrAlreadyRegistered = errors.New("user already registered in this tournament")
)

// ParticipantRepository holds the durable tournament roster.
type ParticipantRepository interface {
	Create(ctx context.Context, exec *gorm.DB, p *models.TournamentParticipant) error
	ExistsUser(ctx context.Context, exec *gorm.DB, tournamentID, userID int64) (bool, error)
	ExistsAlias(ctx context.Context, exec *gorm.DB, tournamentID int64, alias string) (bool, error)
	ListByTournament(ctx context.Context, exec *gorm.DB, tournamentID int64) ([]models.TournamentParticipant, error)
}

type gormParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &gormParticipantRepository{db: db}
}

func (r *gormParticipantRepository) Create(ctx context.Context, exec *gorm.DB, p *models.TournamentParticipant) error {
	if err := pick(ctx, r.db, exec).Create(p).Error; err != nil {
		return handleParticipantError(err, p)
	}
	return nil
}

func (r *gormParticipantRepository) ExistsUser(ctx context.Context, exec *gorm.DB, tournamentID, userID int64) (bool, error) {
	var count int64
	err := pick(ctx, r.db, exec).
		Model(&models.TournamentParticipant{}).
		Where("tournament_id = ? AND user_id = ?", tournamentID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user %d in tournament %d: %w", userID, tournamentID, err)
	}
	return count > 0, nil
}

func (r *gormParticipantRepository) ExistsAlias(ctx context.Context, exec *gorm.DB, tournamentID int64, alias string) (bool, error) {
	var count int64
	err := pick(ctx, r.db, exec).
		Model(&models.TournamentParticipant{}).
		Where("tournament_id = ? AND alias = ?", tournamentID, alias).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check alias %q in tournament %d: %w", alias, tournamentID, err)
	}
	return count > 0, nil
}

func (r *gormParticipantRepository) ListByTournament(ctx context.Context, exec *gorm.DB, tournamentID int64) ([]models.TournamentParticipant, error) {
	participants := make([]models.TournamentParticipant, 0)
	err := pick(ctx, r.db, exec).
		Where("tournament_id = ?", tournamentID).
		Order("id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of tournament %d: %w", tournamentID, err)
	}
	return participants, nil
}

func handleParticipantError(err error, p *models.TournamentParticipant) error {
	target, ok := uniqueViolation(err)
	if !ok {
		return fmt.Errorf("failed to add participant %q to tournament %d: %w", p.Alias, p.TournamentID, err)
	}
	switch {
	case strings.Contains(target, "idx_tournament_participants_user"),
		strings.Contains(target, "user_id"):
		return ErrAlreadyRegistered
	default:
		return ErrAliasTaken
	}
}
