package models

import "time"

type UserStats struct {
	UserID      int64   `json:"user_id"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	TotalGames  int     `json:"total_games"`
	WinRate     float64 `json:"win_rate"`
}

// HistoryEntry is one outcome seen from the requesting user's side.
type HistoryEntry struct {
	ID            int64      `json:"id"`
	GameID        int64      `json:"game_id"`
	RecordedAt    time.Time  `json:"match_date"`
	Mode          MatchMode  `json:"mode"`
	Opponent      PlayerView `json:"opponent"`
	MyScore       int        `json:"my_score"`
	OpponentScore int        `json:"opponent_score"`
	DidWin        bool       `json:"did_win"`
}

type ProfileSummary struct {
	User    PlayerView     `json:"user"`
	Stats   *UserStats     `json:"stats"`
	History []HistoryEntry `json:"history"`
}
