package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/db"
	"github.com/Dosada05/pong-ledger/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantOK     bool
		wantTarget string
	}{
		{"nil", nil, false, ""},
		{"plain", errors.New("boom"), false, ""},
		{"postgres unique", &pq.Error{Code: "23505", Constraint: "idx_match_outcomes_game_id"}, true, "idx_match_outcomes_game_id"},
		{"postgres fk", &pq.Error{Code: "23503", Constraint: "fk_games"}, false, ""},
		{"wrapped postgres", fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "c"}), true, "c"},
		{"gorm translated", gorm.ErrDuplicatedKey, true, ""},
		{"sqlite", errors.New("constraint failed: UNIQUE constraint failed: match_outcomes.game_id (2067)"), true, "match_outcomes.game_id (2067)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, ok := uniqueViolation(tt.err)
			if ok != tt.wantOK || target != tt.wantTarget {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tt.wantTarget, tt.wantOK, target, ok)
			}
		})
	}
}

func TestMatchRepositoryRejectsSecondOutcome(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	repo := NewMatchRepository(gdb)

	outcome := func() *models.MatchOutcome {
		return &models.MatchOutcome{
			GameID: 1, Player1ID: 10, Player2ID: 11,
			Player1Score: 5, Player2Score: 3, WinnerID: 10,
			Mode: models.ModeQuick, RecordedAt: time.Now().UTC(),
		}
	}
	if err := repo.Create(ctx, nil, outcome()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if err := repo.Create(ctx, nil, outcome()); !errors.Is(err, ErrOutcomeExists) {
		t.Fatalf("expected ErrOutcomeExists, got %v", err)
	}
	if n, err := repo.CountByGameID(ctx, nil, 1); err != nil || n != 1 {
		t.Fatalf("expected 1 row, got %d (%v)", n, err)
	}
	if _, err := repo.GetByGameID(ctx, nil, 2); !errors.Is(err, ErrOutcomeNotFound) {
		t.Fatalf("expected ErrOutcomeNotFound, got %v", err)
	}
}

func TestParticipantRepositoryUniqueness(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	repo := NewParticipantRepository(gdb)
	userID := int64(5)

	if err := repo.Create(ctx, nil, &models.TournamentParticipant{TournamentID: 1, Alias: "ace", UserID: &userID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := repo.Create(ctx, nil, &models.TournamentParticipant{TournamentID: 1, Alias: "ace"})
	if !errors.Is(err, ErrAliasTaken) {
		t.Fatalf("duplicate alias: expected ErrAliasTaken, got %v", err)
	}
	err = repo.Create(ctx, nil, &models.TournamentParticipant{TournamentID: 1, Alias: "other", UserID: &userID})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate user: expected ErrAlreadyRegistered, got %v", err)
	}

	// Guests have no user id and never collide on it.
	for _, alias := range []string{"g1", "g2"} {
		if err := repo.Create(ctx, nil, &models.TournamentParticipant{TournamentID: 1, Alias: alias}); err != nil {
			t.Fatalf("guest %s: %v", alias, err)
		}
	}
	// The same alias is free in another tournament.
	if err := repo.Create(ctx, nil, &models.TournamentParticipant{TournamentID: 2, Alias: "ace"}); err != nil {
		t.Fatalf("other tournament: %v", err)
	}

	list, err := repo.ListByTournament(ctx, nil, 1)
	if err != nil {
		t.Fatalf("ListByTournament: %v", err)
	}
	if len(list) != 3 || list[0].Alias != "ace" {
		t.Fatalf("unexpected roster: %+v", list)
	}
	if ok, _ := repo.ExistsAlias(ctx, nil, 1, "g2"); !ok {
		t.Fatal("expected alias g2 to exist")
	}
	if ok, _ := repo.ExistsUser(ctx, nil, 2, userID); ok {
		t.Fatal("user is not registered in tournament 2")
	}
}
