package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/Dosada05/pong-ledger/db"
	"github.com/Dosada05/pong-ledger/logger"
	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/repositories"
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

func seedUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

type recorderEnv struct {
	db      *gorm.DB
	games   GameService
	matches MatchService
	cache   *fakeStatsCache
}

func newRecorderEnv(t *testing.T) *recorderEnv {
	t.Helper()
	gdb := newTestDB(t)
	users := NewUserService(repositories.NewUserRepository(gdb))
	gameRepo := repositories.NewGameRepository(gdb)
	cache := newFakeStatsCache()
	return &recorderEnv{
		db:      gdb,
		games:   NewGameService(gdb, gameRepo, users, logger.Discard()),
		matches: NewMatchService(gdb, gameRepo, repositories.NewMatchRepository(gdb), users, cache, logger.Discard()),
		cache:   cache,
	}
}

func (e *recorderEnv) outcomeCount(t *testing.T, gameID int64) int64 {
	t.Helper()
	n, err := repositories.NewMatchRepository(e.db).CountByGameID(context.Background(), nil, gameID)
	if err != nil {
		t.Fatalf("count outcomes: %v", err)
	}
	return n
}

func (e *recorderEnv) reloadGame(t *testing.T, gameID int64) (*models.Game, []models.GameParticipant) {
	t.Helper()
	var g models.Game
	if err := e.db.First(&g, gameID).Error; err != nil {
		t.Fatalf("reload game: %v", err)
	}
	var ps []models.GameParticipant
	if err := e.db.Where("game_id = ?", gameID).Order("id ASC").Find(&ps).Error; err != nil {
		t.Fatalf("reload participants: %v", err)
	}
	return &g, ps
}

// fakeStatsCache is an in-memory StatsCache that records invalidations.
type fakeStatsCache struct {
	mu          sync.Mutex
	entries     map[int64]models.UserStats
	invalidated []int64
	failReads   bool
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: map[int64]models.UserStats{}}
}

func (c *fakeStatsCache) GetStats(_ context.Context, userID int64) (*models.UserStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failReads {
		return nil, false, errors.New("cache down")
	}
	s, ok := c.entries[userID]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (c *fakeStatsCache) SetStats(_ context.Context, stats *models.UserStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[stats.UserID] = *stats
	return nil
}

func (c *fakeStatsCache) Invalidate(_ context.Context, userIDs ...int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.entries, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

func (c *fakeStatsCache) invalidations() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.invalidated...)
}
