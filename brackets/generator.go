package brackets

import "github.com/Dosada05/pong-ledger/models"

// MatchGenerator builds the full schedule of a tournament from its roster.
type MatchGenerator interface {
	Generate(players []models.TournamentPlayer) []models.TournamentMatch

	GetName() string
}
