package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/brackets"
	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/repositories"
)

const (
	MinTournamentPlayers = 2
	MaxTournamentPlayers = 8
	MaxAliasLength       = 32

	guestIDPrefix = "guest-"
)

// TournamentNotifier receives every new tournament state. Implementations must not block.
type TournamentNotifier interface {
	TournamentUpdated(ctx context.Context, snapshot *models.TournamentSnapshot)
	TournamentReset(ctx context.Context)
}

// TournamentArchiver stores the final state of a completed tournament and returns its location.
type TournamentArchiver interface {
	ArchiveTournament(ctx context.Context, snapshot *models.TournamentSnapshot) (string, error)
}

type ReportMatchInput struct {
	MatchID  string  `json:"match_id"`
	Winner   string  `json:"winner"`
	Score    []int   `json:"score"`
	Duration float64 `json:"duration"`
}

// TournamentService owns the single active tournament of the process.
type TournamentService interface {
	Create(ctx context.Context, playerCount int) (*models.TournamentSnapshot, error)
	// Register adds a participant. caller is nil for guests, who must supply an alias.
	Register(ctx context.Context, caller *models.Identity, alias string) (*models.TournamentSnapshot, error)
	Current(ctx context.Context) *models.TournamentSnapshot
	ReportMatchResult(ctx context.Context, input ReportMatchInput) (*models.TournamentSnapshot, error)
	Reset(ctx context.Context)
}

type activeTournament struct {
	id                int64
	playerCount       int
	phase             models.TournamentPhase
	players           []models.TournamentPlayer
	matches           []models.TournamentMatch
	currentMatchIndex int
	ranking           *models.Ranking
}

type tournamentService struct {
	// mu guards current and serializes every durable write that depends on it.
	mu      sync.Mutex
	current *activeTournament

	db              *gorm.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	generator       brackets.MatchGenerator
	notifier        TournamentNotifier
	archiver        TournamentArchiver
	logger          *slog.Logger
	now             func() time.Time
}

// NewTournamentService creates the engine with no active tournament. notifier and archiver may be nil.
func NewTournamentService(
	db *gorm.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	generator brackets.MatchGenerator,
	notifier TournamentNotifier,
	archiver TournamentArchiver,
	logger *slog.Logger,
) TournamentService {
	if generator == nil {
		generator = brackets.NewRoundRobinGenerator()
	}
	return &tournamentService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		generator:       generator,
		notifier:        notifier,
		archiver:        archiver,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *tournamentService) Create(ctx context.Context, playerCount int) (*models.TournamentSnapshot, error) {
	if playerCount < MinTournamentPlayers || playerCount > MaxTournamentPlayers {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidPlayerCount, playerCount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now()
	shadow := &models.Tournament{
		Name:       "Tournament " + createdAt.Format("2006-01-02 15:04:05"),
		Status:     models.StatusPending,
		MaxPlayers: playerCount,
		CreatedAt:  createdAt,
	}
	if err := s.tournamentRepo.Create(ctx, nil, shadow); err != nil {
		return nil, err
	}

	if s.current != nil {
		s.logger.InfoContext(ctx, "Discarding active tournament", slog.Int64("tournament_id", s.current.id))
	}
	s.current = &activeTournament{
		id:          shadow.ID,
		playerCount: playerCount,
		phase:       models.PhaseRegistering,
		players:     make([]models.TournamentPlayer, 0, playerCount),
		matches:     make([]models.TournamentMatch, 0),
	}

	snapshot := s.current.snapshot()
	s.logger.InfoContext(ctx, "Tournament created", slog.Int64("tournament_id", shadow.ID), slog.Int("player_count", playerCount))
	s.notifyUpdated(ctx, snapshot)
	return snapshot, nil
}

func (s *tournamentService) Register(ctx context.Context, caller *models.Identity, aliasCandidate string) (*models.TournamentSnapshot, error) {
	alias := strings.TrimSpace(aliasCandidate)
	if alias == "" && caller != nil {
		alias = strings.TrimSpace(caller.Username)
	}
	if alias == "" {
		return nil, ErrAliasRequired
	}
	if utf8.RuneCountInString(alias) > MaxAliasLength {
		return nil, ErrAliasTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.current
	if t == nil {
		return nil, ErrNoActiveTournament
	}
	if t.phase != models.PhaseRegistering || len(t.players) >= t.playerCount {
		return nil, ErrTournamentFull
	}
	if caller != nil && t.hasUser(caller.UserID) {
		return nil, ErrAlreadyRegistered
	}
	if t.hasAlias(alias) {
		return nil, ErrAliasTaken
	}

	row := &models.TournamentParticipant{TournamentID: t.id, Alias: alias, CreatedAt: s.now()}
	if caller != nil {
		userID := caller.UserID
		row.UserID = &userID
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if row.UserID != nil {
			exists, err := s.participantRepo.ExistsUser(ctx, tx, t.id, *row.UserID)
			if err != nil {
				return err
			}
			if exists {
				return ErrAlreadyRegistered
			}
		}
		taken, err := s.participantRepo.ExistsAlias(ctx, tx, t.id, alias)
		if err != nil {
			return err
		}
		if taken {
			return ErrAliasTaken
		}
		return s.participantRepo.Create(ctx, tx, row)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAlreadyRegistered):
			return nil, ErrAlreadyRegistered
		case errors.Is(err, repositories.ErrAliasTaken):
			return nil, ErrAliasTaken
		}
		return nil, err
	}

	player := models.TournamentPlayer{Alias: alias, UserID: row.UserID}
	if caller != nil {
		player.ID = strconv.FormatInt(caller.UserID, 10)
	} else {
		player.ID = guestIDPrefix + uuid.NewString()
	}
	t.players = append(t.players, player)

	s.logger.InfoContext(ctx, "Tournament participant registered",
		slog.Int64("tournament_id", t.id),
		slog.String("alias", alias),
		slog.Bool("guest", player.IsGuest()),
		slog.Int("registered", len(t.players)),
		slog.Int("player_count", t.playerCount))

	if len(t.players) == t.playerCount {
		t.matches = s.generator.Generate(t.players)
		t.currentMatchIndex = 0
		t.phase = models.PhaseInProgress
		s.logger.InfoContext(ctx, "Tournament roster full, matches generated",
			slog.Int64("tournament_id", t.id),
			slog.Int("matches", len(t.matches)))
	}

	snapshot := t.snapshot()
	s.notifyUpdated(ctx, snapshot)
	return snapshot, nil
}

func (s *tournamentService) Current(_ context.Context) *models.TournamentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return &models.TournamentSnapshot{Active: false}
	}
	return s.current.snapshot()
}

func (s *tournamentService) ReportMatchResult(ctx context.Context, input ReportMatchInput) (*models.TournamentSnapshot, error) {
	s.mu.Lock()

	t := s.current
	if t == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: no active tournament", ErrTournamentMatchNotFound)
	}
	idx := t.matchIndex(input.MatchID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, ErrTournamentMatchNotFound
	}
	match := &t.matches[idx]
	if match.Played() {
		s.mu.Unlock()
		return nil, ErrMatchAlreadyPlayed
	}
	if err := validateMatchReport(match, input); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	winner := input.Winner
	duration := input.Duration
	match.Winner = &winner
	match.Score = []int{input.Score[0], input.Score[1]}
	match.Duration = &duration
	t.currentMatchIndex++

	completed := t.currentMatchIndex >= len(t.matches)
	if completed {
		t.ranking = brackets.ComputeRanking(t.players, t.matches)
		t.phase = models.PhaseComplete
	}

	snapshot := t.snapshot()
	s.notifyUpdated(ctx, snapshot)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Tournament match reported",
		slog.Int64("tournament_id", snapshot.ID),
		slog.String("match_id", input.MatchID),
		slog.String("winner", winner),
		slog.Int("played", snapshot.CurrentMatchIndex),
		slog.Int("matches", len(snapshot.Matches)))

	if completed {
		s.finishTournament(ctx, snapshot)
	}
	return snapshot, nil
}

func validateMatchReport(match *models.TournamentMatch, input ReportMatchInput) error {
	if len(input.Score) != 2 || input.Score[0] < 0 || input.Score[1] < 0 {
		return ErrInvalidMatchScore
	}
	if input.Duration < 0 || math.IsNaN(input.Duration) || math.IsInf(input.Duration, 0) {
		return ErrInvalidDuration
	}
	if input.Winner != match.Player1.Alias && input.Winner != match.Player2.Alias {
		return fmt.Errorf("%w (got %q)", ErrWinnerNotInMatch, input.Winner)
	}
	return nil
}

// finishTournament records completion on the shadow row and archives the final state.
// Failures are logged; the in-memory result stands either way.
func (s *tournamentService) finishTournament(ctx context.Context, snapshot *models.TournamentSnapshot) {
	label := ""
	if snapshot.Ranking != nil {
		label = snapshot.Ranking.Label
	}
	s.logger.InfoContext(ctx, "Tournament completed", slog.Int64("tournament_id", snapshot.ID), slog.String("result", label))

	if err := s.tournamentRepo.MarkCompleted(ctx, nil, snapshot.ID, label, s.now()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark tournament completed", slog.Int64("tournament_id", snapshot.ID), slog.Any("error", err))
	}

	if s.archiver == nil {
		return
	}
	location, err := s.archiver.ArchiveTournament(ctx, snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to archive tournament", slog.Int64("tournament_id", snapshot.ID), slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "Tournament archived", slog.Int64("tournament_id", snapshot.ID), slog.String("location", location))
}

func (s *tournamentService) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.logger.InfoContext(ctx, "Tournament reset", slog.Int64("tournament_id", s.current.id))
	}
	s.current = nil
	if s.notifier != nil {
		s.notifier.TournamentReset(ctx)
	}
}

func (s *tournamentService) notifyUpdated(ctx context.Context, snapshot *models.TournamentSnapshot) {
	if s.notifier != nil {
		s.notifier.TournamentUpdated(ctx, snapshot)
	}
}

func (t *activeTournament) hasUser(userID int64) bool {
	for _, p := range t.players {
		if p.UserID != nil && *p.UserID == userID {
			return true
		}
	}
	return false
}

func (t *activeTournament) hasAlias(alias string) bool {
	for _, p := range t.players {
		if p.Alias == alias {
			return true
		}
	}
	return false
}

func (t *activeTournament) matchIndex(matchID string) int {
	for i := range t.matches {
		if t.matches[i].ID == matchID {
			return i
		}
	}
	return -1
}

// snapshot returns a deep copy that callers may keep after the lock is released.
func (t *activeTournament) snapshot() *models.TournamentSnapshot {
	players := make([]models.TournamentPlayer, len(t.players))
	for i, p := range t.players {
		players[i] = p
		if p.UserID != nil {
			id := *p.UserID
			players[i].UserID = &id
		}
	}

	matches := make([]models.TournamentMatch, len(t.matches))
	for i, m := range t.matches {
		matches[i] = m
		if m.Winner != nil {
			w := *m.Winner
			matches[i].Winner = &w
		}
		if m.Score != nil {
			matches[i].Score = append([]int(nil), m.Score...)
		}
		if m.Duration != nil {
			d := *m.Duration
			matches[i].Duration = &d
		}
	}

	snapshot := &models.TournamentSnapshot{
		ID:                t.id,
		Active:            true,
		Phase:             t.phase,
		PlayerCount:       t.playerCount,
		Players:           players,
		Matches:           matches,
		CurrentMatchIndex: t.currentMatchIndex,
	}
	if t.ranking != nil {
		ranking := *t.ranking
		ranking.Standings = append([]models.Standing(nil), t.ranking.Standings...)
		ranking.DrawBetween = append([]string(nil), t.ranking.DrawBetween...)
		snapshot.Ranking = &ranking
		label := ranking.Label
		snapshot.Winner = &label
	}
	return snapshot
}
