package models

// TournamentPlayer is a registered entrant: an authenticated user or a guest.
type TournamentPlayer struct {
	ID     string `json:"id"`
	Alias  string `json:"alias"`
	UserID *int64 `json:"user_id,omitempty"`
}

func (p TournamentPlayer) IsGuest() bool {
	return p.UserID == nil
}
