package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/pong-ledger/models"
)

// ComputeRanking orders the roster by wins (desc), point differential (desc) and total
// match time (asc). Remaining ties keep roster order. When the top two are equal on all
// three criteria the tournament is a draw between them.
func ComputeRanking(players []models.TournamentPlayer, matches []models.TournamentMatch) *models.Ranking {
	standings := make([]models.Standing, len(players))
	byAlias := make(map[string]*models.Standing, len(players))
	for i, p := range players {
		standings[i] = models.Standing{ParticipantID: p.ID, Alias: p.Alias}
		byAlias[p.Alias] = &standings[i]
	}

	for _, m := range matches {
		if !m.Played() || len(m.Score) != 2 {
			continue
		}
		s1, ok1 := byAlias[m.Player1.Alias]
		s2, ok2 := byAlias[m.Player2.Alias]
		if !ok1 || !ok2 {
			continue
		}

		s1.PointsFor += m.Score[0]
		s1.PointsAgainst += m.Score[1]
		s2.PointsFor += m.Score[1]
		s2.PointsAgainst += m.Score[0]

		switch *m.Winner {
		case m.Player1.Alias:
			s1.Wins++
		case m.Player2.Alias:
			s2.Wins++
		}

		if m.Duration != nil {
			s1.TotalTime += *m.Duration
			s2.TotalTime += *m.Duration
		}
	}

	for i := range standings {
		standings[i].PointDiff = standings[i].PointsFor - standings[i].PointsAgainst
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointDiff != b.PointDiff {
			return a.PointDiff > b.PointDiff
		}
		return a.TotalTime < b.TotalTime
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}

	ranking := &models.Ranking{Standings: standings}
	if len(standings) == 0 {
		return ranking
	}
	if len(standings) >= 2 && sameStanding(standings[0], standings[1]) {
		ranking.Draw = true
		ranking.DrawBetween = []string{standings[0].Alias, standings[1].Alias}
		ranking.Label = fmt.Sprintf("%s & %s (Draw)", standings[0].Alias, standings[1].Alias)
		return ranking
	}
	ranking.Winner = standings[0].Alias
	ranking.Label = standings[0].Alias
	return ranking
}

func sameStanding(a, b models.Standing) bool {
	return a.Wins == b.Wins && a.PointDiff == b.PointDiff && a.TotalTime == b.TotalTime
}
