package models

import "time"

type GameCategory string

const (
	CategoryAI         GameCategory = "ai"
	CategoryPvP        GameCategory = "pvp"
	CategoryTournament GameCategory = "tournament"
)

func (c GameCategory) Valid() bool {
	switch c {
	case CategoryAI, CategoryPvP, CategoryTournament:
		return true
	}
	return false
}

type GameStatus string

const (
	GameStatusPlaying    GameStatus = "playing"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusFinished   GameStatus = "finished"
)

// MatchMode is the closed set of modes a recorded outcome can carry.
type MatchMode string

const (
	ModeAI         MatchMode = "ai"
	ModeQuick      MatchMode = "quick"
	ModeTournament MatchMode = "tournament"
)

// ModeForCategory fixes the outcome mode when the game is created.
func ModeForCategory(c GameCategory) MatchMode {
	switch c {
	case CategoryAI:
		return ModeAI
	case CategoryTournament:
		return ModeTournament
	default:
		return ModeQuick
	}
}

// Game is one 1v1 match slot in the registry.
type Game struct {
	ID        int64        `json:"id" gorm:"primaryKey"`
	Category  GameCategory `json:"category" gorm:"size:16;not null"`
	Mode      MatchMode    `json:"mode" gorm:"size:16;not null"`
	Status    GameStatus   `json:"status" gorm:"size:16;not null"`
	WinnerID  *int64       `json:"winner_id,omitempty"`
	StartedAt time.Time    `json:"started_at" gorm:"not null"`
	EndedAt   *time.Time   `json:"ended_at,omitempty"`

	Participants []GameParticipant `json:"participants,omitempty" gorm:"foreignKey:GameID"`
}

// GameParticipant binds a user to a game slot. The row inserted first is Player 1.
type GameParticipant struct {
	ID     int64  `json:"id" gorm:"primaryKey"`
	GameID int64  `json:"game_id" gorm:"index;not null"`
	UserID *int64 `json:"user_id"`
	Alias  string `json:"alias" gorm:"size:64;not null"`
	Score  *int   `json:"score"`
}
