package models

// Standing is one row of the final tournament table.
type Standing struct {
	Rank          int     `json:"rank"`
	ParticipantID string  `json:"participant_id"`
	Alias         string  `json:"alias"`
	Wins          int     `json:"wins"`
	PointsFor     int     `json:"points_for"`
	PointsAgainst int     `json:"points_against"`
	PointDiff     int     `json:"point_diff"`
	TotalTime     float64 `json:"total_time"`
}

// Ranking is computed once, when every tournament match has been reported.
type Ranking struct {
	Standings   []Standing `json:"standings"`
	Winner      string     `json:"winner,omitempty"`
	Draw        bool       `json:"draw"`
	DrawBetween []string   `json:"draw_between,omitempty"`
	// Label is the display result: the winner alias, or "A & B (Draw)".
	Label string `json:"label"`
}
