package models

import "time"

// TournamentStatus of the durable shadow row.
type TournamentStatus string

const (
	StatusPending   TournamentStatus = "pending"
	StatusCompleted TournamentStatus = "completed"
)

// Tournament is the durable shadow of the in-memory tournament.
type Tournament struct {
	ID          int64            `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" gorm:"size:128;not null"`
	Status      TournamentStatus `json:"status" gorm:"size:16;not null"`
	MaxPlayers  int              `json:"max_players" gorm:"not null"`
	WinnerLabel *string          `json:"winner_label,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// TournamentParticipant is one durable roster row. Guests have no UserID.
type TournamentParticipant struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	TournamentID int64     `json:"tournament_id" gorm:"not null;uniqueIndex:idx_tournament_participants_alias,priority:1;uniqueIndex:idx_tournament_participants_user,priority:1"`
	UserID       *int64    `json:"user_id" gorm:"uniqueIndex:idx_tournament_participants_user,priority:2"`
	Alias        string    `json:"alias" gorm:"size:64;not null;uniqueIndex:idx_tournament_participants_alias,priority:2"`
	CreatedAt    time.Time `json:"created_at"`
}

// TournamentPhase of the in-memory tournament.
type TournamentPhase string

const (
	PhaseRegistering TournamentPhase = "registering"
	PhaseInProgress  TournamentPhase = "in_progress"
	PhaseComplete    TournamentPhase = "complete"
)

// TournamentSnapshot is a copy of the active tournament handed to callers.
type TournamentSnapshot struct {
	ID                int64              `json:"id"`
	Active            bool               `json:"active"`
	Phase             TournamentPhase    `json:"status"`
	PlayerCount       int                `json:"player_count"`
	Players           []TournamentPlayer `json:"players"`
	Matches           []TournamentMatch  `json:"matches"`
	CurrentMatchIndex int                `json:"current_match_index"`
	Winner            *string            `json:"winner"`
	Ranking           *Ranking           `json:"ranking,omitempty"`
}
