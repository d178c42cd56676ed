package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/repositories"
)

func TestRecordResultIsIdempotent(t *testing.T) {
	env := newRecorderEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env.db, "alice")
	bob := seedUser(t, env.db, "bob")

	game, err := env.games.CreatePvPGame(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreatePvPGame: %v", err)
	}

	first, err := env.matches.RecordResult(ctx, alice.ID, game.ID, 5, 2)
	if err != nil {
		t.Fatalf("first RecordResult: %v", err)
	}
	if first.Duplicated {
		t.Fatal("first write must not be reported as duplicated")
	}
	if first.Match.WinnerID != alice.ID {
		t.Fatalf("expected winner %d, got %d", alice.ID, first.Match.WinnerID)
	}

	// The opponent retrying the same submission gets the stored row back.
	second, err := env.matches.RecordResult(ctx, bob.ID, game.ID, 5, 2)
	if err != nil {
		t.Fatalf("second RecordResult: %v", err)
	}
	if !second.Duplicated {
		t.Fatal("expected duplicated=true on replay")
	}
	if second.Match.ID != first.Match.ID {
		t.Fatalf("expected the stored outcome %d, got %d", first.Match.ID, second.Match.ID)
	}
	if n := env.outcomeCount(t, game.ID); n != 1 {
		t.Fatalf("expected 1 outcome row, got %d", n)
	}

	reloaded, participants := env.reloadGame(t, game.ID)
	if reloaded.Status != models.GameStatusFinished {
		t.Fatalf("expected status finished, got %s", reloaded.Status)
	}
	if reloaded.WinnerID == nil || *reloaded.WinnerID != alice.ID {
		t.Fatalf("expected game winner %d, got %v", alice.ID, reloaded.WinnerID)
	}
	if reloaded.EndedAt == nil {
		t.Fatal("expected ended_at to be set")
	}
	if participants[0].Score == nil || *participants[0].Score != 5 || participants[1].Score == nil || *participants[1].Score != 2 {
		t.Fatalf("participant scores not written: %+v", participants)
	}
}

func TestRecordResultRejectsDivergentResubmission(t *testing.T) {
	env := newRecorderEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env.db, "alice")
	bob := seedUser(t, env.db, "bob")
	game, err := env.games.CreatePvPGame(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreatePvPGame: %v", err)
	}

	if _, err := env.matches.RecordResult(ctx, alice.ID, game.ID, 5, 2); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	_, err = env.matches.RecordResult(ctx, bob.ID, game.ID, 4, 2)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	stored, err := repositories.NewMatchRepository(env.db).GetByGameID(ctx, nil, game.ID)
	if err != nil {
		t.Fatalf("GetByGameID: %v", err)
	}
	if stored.Player1Score != 5 || stored.Player2Score != 2 {
		t.Fatalf("stored outcome changed: %+v", stored)
	}
}

func TestRecordResultDerivesWinner(t *testing.T) {
	tests := []struct {
		name      string
		s1, s2    int
		wantFirst bool
	}{
		{"player1 wins", 5, 2, true},
		{"player2 wins", 1, 3, false},
		{"shutout for player2", 0, 11, false},
		{"narrow player1", 11, 10, true},
	}

	env := newRecorderEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env.db, "alice")
	bob := seedUser(t, env.db, "bob")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := env.games.CreatePvPGame(ctx, alice.ID, bob.ID)
			if err != nil {
				t.Fatalf("CreatePvPGame: %v", err)
			}
			res, err := env.matches.RecordResult(ctx, bob.ID, game.ID, tt.s1, tt.s2)
			if err != nil {
				t.Fatalf("RecordResult: %v", err)
			}
			want := bob.ID
			if tt.wantFirst {
				want = alice.ID
			}
			if res.Match.WinnerID != want {
				t.Fatalf("expected winner %d, got %d", want, res.Match.WinnerID)
			}
			if res.Match.Player1ID != alice.ID || res.Match.Player2ID != bob.ID {
				t.Fatalf("player order not preserved: %+v", res.Match)
			}
			if res.Match.Mode != models.ModeQuick {
				t.Fatalf("expected mode quick, got %s", res.Match.Mode)
			}
		})
	}
}

func TestRecordResultRejectsInvalidScores(t *testing.T) {
	tests := []struct {
		name   string
		s1, s2 int
	}{
		{"zero tie", 0, 0},
		{"tie", 3, 3},
		{"deuce tie", 11, 11},
		{"negative", -1, 3},
	}

	env := newRecorderEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env.db, "alice")
	bob := seedUser(t, env.db, "bob")
	game, err := env.games.CreatePvPGame(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreatePvPGame: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.matches.RecordResult(ctx, alice.ID, game.ID, tt.s1, tt.s2)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if n := env.outcomeCount(t, game.ID); n != 0 {
		t.Fatalf("expected no outcome rows, got %d", n)
	}
	reloaded, _ := env.reloadGame(t, game.ID)
	if reloaded.Status != models.GameStatusInProgress {
		t.Fatalf("game status changed to %s", reloaded.Status)
	}
}

func TestRecordResultForbiddenForOutsider(t *testing.T) {
	env := newRecorderEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env.db, "alice")
	bob := seedUser(t, env.db, "bob")
	carol := seedUser(t, env.db, "carol")
	game, err := env.games.CreatePvPGame(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreatePvPGame: %v", err)
	}

	_, err = env.matches.RecordResult(ctx, carol.ID, game.ID, 5, 2)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if n := env.outcomeCount(t, game.ID); n != 0 {
		t.Fatalf("expected no outcome rows, got %d", n)
	}
	reloaded, participants := env.reloadGame(t, game.ID)
	if reloaded.Status != models.GameStatusInProgress || reloaded.WinnerID != nil {
		t.Fatalf("game mutated: %+v", reloaded)
	}
	for _, p := range participants {
		if p.Score != nil {
			t.Fatalf("participant score mutated: %+v", p)
		}
	}
	if len(env.cache.invalidations()) != 0 {
		t.Fatal("cache must not be touched on rejected writes")
	}
}

func TestRecordResultRequiresTwoParticipants(t *testing.T) {
	env := newRecorderEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env.db, "alice")

	_, err := env.matches.RecordResult(ctx, alice.ID, 9999, 5, 2)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("missing game: expected ErrInvalidState, got %v", err)
	}

	lonely := &models.Game{
		Category: models.CategoryPvP,
		Mode:     models.ModeQuick,
		Status:   models.GameStatusInProgress,
		Participants: []models.GameParticipant{
			{UserID: &alice.ID, Alias: alice.Username},
		},
	}
	if err := repositories.NewGameRepository(env.db).Create(ctx, nil, lonely); err != nil {
		t.Fatalf("create game: %v", err)
	}
	_, err = env.matches.RecordResult(ctx, alice.ID, lonely.ID, 5, 2)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("single participant: expected ErrInvalidState, got %v", err)
	}
	if n := env.outcomeCount(t, lonely.ID); n != 0 {
		t.Fatalf("expected no outcome rows, got %d", n)
	}
}

func TestRecordResultConcurrentIdenticalSubmissions(t *testing.T) {
	env := newRecorderEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env.db, "alice")
	bob := seedUser(t, env.db, "bob")
	game, err := env.games.CreatePvPGame(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreatePvPGame: %v", err)
	}

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		fresh   int
		errs    []error
		outcome = map[int64]bool{}
	)
	for i := 0; i < writers; i++ {
		caller := alice.ID
		if i%2 == 1 {
			caller = bob.ID
		}
		wg.Add(1)
		go func(caller int64) {
			defer wg.Done()
			res, err := env.matches.RecordResult(ctx, caller, game.ID, 7, 4)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if !res.Duplicated {
				fresh++
			}
			outcome[res.Match.ID] = true
		}(caller)
	}
	wg.Wait()

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if fresh != 1 {
		t.Fatalf("expected exactly one fresh write, got %d", fresh)
	}
	if len(outcome) != 1 {
		t.Fatalf("expected every writer to see the same outcome, got %d distinct", len(outcome))
	}
	if n := env.outcomeCount(t, game.ID); n != 1 {
		t.Fatalf("expected 1 outcome row, got %d", n)
	}
}

func TestRecordResultInvalidatesStatsOnce(t *testing.T) {
	env := newRecorderEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env.db, "alice")
	bob := seedUser(t, env.db, "bob")
	game, err := env.games.CreatePvPGame(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreatePvPGame: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := env.matches.RecordResult(ctx, alice.ID, game.ID, 3, 1); err != nil {
			t.Fatalf("RecordResult #%d: %v", i+1, err)
		}
	}

	got := env.cache.invalidations()
	if len(got) != 2 || got[0] != alice.ID || got[1] != bob.ID {
		t.Fatalf("expected a single invalidation of both players, got %v", got)
	}
}

func TestGetOutcomeIsParticipantOnly(t *testing.T) {
	env := newRecorderEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env.db, "alice")
	bob := seedUser(t, env.db, "bob")
	carol := seedUser(t, env.db, "carol")
	game, err := env.games.CreatePvPGame(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreatePvPGame: %v", err)
	}
	res, err := env.matches.RecordResult(ctx, alice.ID, game.ID, 2, 6)
	if err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	view, err := env.matches.GetOutcome(ctx, bob.ID, res.Match.ID)
	if err != nil {
		t.Fatalf("GetOutcome: %v", err)
	}
	if view.Player1.Username != "alice" || view.Player2.Username != "bob" {
		t.Fatalf("unexpected players: %+v / %+v", view.Player1, view.Player2)
	}
	if view.Score != [2]int{2, 6} || view.WinnerID != bob.ID {
		t.Fatalf("unexpected view: %+v", view)
	}

	byGame, err := env.matches.GetOutcomeByGame(ctx, alice.ID, game.ID)
	if err != nil {
		t.Fatalf("GetOutcomeByGame: %v", err)
	}
	if byGame.ID != res.Match.ID {
		t.Fatalf("expected outcome %d, got %d", res.Match.ID, byGame.ID)
	}

	if _, err := env.matches.GetOutcome(ctx, carol.ID, res.Match.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider: expected ErrForbidden, got %v", err)
	}
	if _, err := env.matches.GetOutcome(ctx, alice.ID, res.Match.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: expected ErrNotFound, got %v", err)
	}
}
