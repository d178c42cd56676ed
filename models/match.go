package models

import "time"

// MatchOutcome is the single immutable result of a finished game.
type MatchOutcome struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	GameID       int64     `json:"game_id" gorm:"uniqueIndex;not null"`
	Player1ID    int64     `json:"player1_id" gorm:"not null;index"`
	Player2ID    int64     `json:"player2_id" gorm:"not null;index"`
	Player1Score int       `json:"player1_score" gorm:"not null"`
	Player2Score int       `json:"player2_score" gorm:"not null"`
	WinnerID     int64     `json:"winner_id" gorm:"not null"`
	Mode         MatchMode `json:"mode" gorm:"size:16;not null;index:idx_match_outcomes_mode_recorded,priority:1"`
	RecordedAt   time.Time `json:"match_date" gorm:"not null;index:idx_match_outcomes_mode_recorded,priority:2"`
}

// SameResult reports whether two outcomes carry identical players, scores, winner and mode.
func (o *MatchOutcome) SameResult(other *MatchOutcome) bool {
	return o.Player1ID == other.Player1ID &&
		o.Player2ID == other.Player2ID &&
		o.Player1Score == other.Player1Score &&
		o.Player2Score == other.Player2Score &&
		o.WinnerID == other.WinnerID &&
		o.Mode == other.Mode
}

type RecordResult struct {
	Match      *MatchOutcome `json:"match"`
	Duplicated bool          `json:"duplicated"`
}

// MatchOutcomeView is an outcome joined with both players' display identities.
type MatchOutcomeView struct {
	ID         int64      `json:"id"`
	GameID     int64      `json:"game_id"`
	RecordedAt time.Time  `json:"match_date"`
	Mode       MatchMode  `json:"mode"`
	Player1    PlayerView `json:"player1"`
	Player2    PlayerView `json:"player2"`
	Score      [2]int     `json:"score"`
	WinnerID   int64      `json:"winner_id"`
}

// TournamentMatch is one scheduled round-robin pairing. It lives only in process memory.
type TournamentMatch struct {
	ID       string           `json:"id"`
	Player1  TournamentPlayer `json:"player1"`
	Player2  TournamentPlayer `json:"player2"`
	Winner   *string          `json:"winner"`
	Score    []int            `json:"score"`
	Duration *float64         `json:"duration"`
}

func (m *TournamentMatch) Played() bool {
	return m.Winner != nil
}
