package models

import "time"

// AIUsername is the reserved account used as the opponent in single-player games.
const AIUsername = "AI"

// User mirrors the account table owned by the identity subsystem.
// The core only reads it to resolve display identities.
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:64;uniqueIndex;not null"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// PlayerView is the public face of a user embedded in match and history records.
type PlayerView struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}
