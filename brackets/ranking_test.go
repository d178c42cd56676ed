package brackets

import (
	"testing"

	"github.com/Dosada05/pong-ledger/models"
)

func player(alias string) models.TournamentPlayer {
	return models.TournamentPlayer{ID: "id-" + alias, Alias: alias}
}

func played(p1, p2 string, s1, s2 int, duration float64) models.TournamentMatch {
	winner := p1
	if s2 > s1 {
		winner = p2
	}
	return models.TournamentMatch{
		ID:       p1 + "-" + p2,
		Player1:  player(p1),
		Player2:  player(p2),
		Winner:   &winner,
		Score:    []int{s1, s2},
		Duration: &duration,
	}
}

func aliases(r *models.Ranking) []string {
	out := make([]string, len(r.Standings))
	for i, s := range r.Standings {
		out[i] = s.Alias
	}
	return out
}

func TestComputeRankingOrdersByWinsThenDiff(t *testing.T) {
	// Roster order is deliberately the reverse of the expected ranking.
	roster := []models.TournamentPlayer{player("D"), player("C"), player("B"), player("A")}
	matches := []models.TournamentMatch{
		played("A", "B", 5, 3, 60),
		played("A", "C", 5, 1, 60),
		played("A", "D", 5, 4, 60),
		played("B", "D", 5, 0, 60),
		played("B", "C", 5, 4, 60),
		played("C", "D", 5, 4, 60),
		played("C", "B", 5, 4, 60),
		played("D", "A", 5, 4, 60),
	}

	ranking := ComputeRanking(roster, matches)

	want := []string{"A", "B", "C", "D"}
	got := aliases(ranking)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
	if ranking.Draw || ranking.Winner != "A" || ranking.Label != "A" {
		t.Fatalf("expected A as sole winner, got %+v", ranking)
	}

	wantWins := map[string]int{"A": 3, "B": 2, "C": 2, "D": 1}
	wantDiff := map[string]int{"A": 6, "B": 3, "C": -3, "D": -6}
	for i, s := range ranking.Standings {
		if s.Rank != i+1 {
			t.Fatalf("%s: expected rank %d, got %d", s.Alias, i+1, s.Rank)
		}
		if s.Wins != wantWins[s.Alias] || s.PointDiff != wantDiff[s.Alias] {
			t.Fatalf("%s: expected %d wins / %+d diff, got %d / %+d", s.Alias, wantWins[s.Alias], wantDiff[s.Alias], s.Wins, s.PointDiff)
		}
		if s.ParticipantID != "id-"+s.Alias {
			t.Fatalf("%s: participant id lost: %q", s.Alias, s.ParticipantID)
		}
	}
}

func TestComputeRankingTotalTimeBreaksTies(t *testing.T) {
	roster := []models.TournamentPlayer{player("A"), player("B"), player("C")}
	// Everyone wins once by two points; C spends the least time on court.
	matches := []models.TournamentMatch{
		played("A", "B", 5, 3, 100),
		played("B", "C", 5, 3, 10),
		played("C", "A", 5, 3, 50),
	}

	ranking := ComputeRanking(roster, matches)
	got := aliases(ranking)
	if got[0] != "C" || got[1] != "B" || got[2] != "A" {
		t.Fatalf("expected [C B A], got %v", got)
	}
	if ranking.Standings[0].TotalTime != 60 {
		t.Fatalf("expected C total time 60, got %v", ranking.Standings[0].TotalTime)
	}
	if ranking.Draw {
		t.Fatal("time difference must break the tie")
	}
}

func TestComputeRankingDraw(t *testing.T) {
	roster := []models.TournamentPlayer{player("A"), player("B"), player("C")}
	matches := []models.TournamentMatch{
		played("A", "B", 5, 3, 60),
		played("B", "C", 5, 3, 60),
		played("C", "A", 5, 3, 60),
	}

	ranking := ComputeRanking(roster, matches)
	if !ranking.Draw {
		t.Fatalf("expected a draw, got %+v", ranking)
	}
	if ranking.Label != "A & B (Draw)" {
		t.Fatalf("unexpected label %q", ranking.Label)
	}
	if len(ranking.DrawBetween) != 2 || ranking.DrawBetween[0] != "A" || ranking.DrawBetween[1] != "B" {
		t.Fatalf("unexpected draw pair %v", ranking.DrawBetween)
	}
	if ranking.Winner != "" {
		t.Fatalf("draw must not name a single winner, got %q", ranking.Winner)
	}
}

func TestComputeRankingIgnoresUnplayedMatches(t *testing.T) {
	roster := []models.TournamentPlayer{player("A"), player("B")}
	matches := []models.TournamentMatch{
		{ID: "pending", Player1: player("A"), Player2: player("B")},
	}

	ranking := ComputeRanking(roster, matches)
	for _, s := range ranking.Standings {
		if s.Wins != 0 || s.PointsFor != 0 || s.TotalTime != 0 {
			t.Fatalf("unplayed match counted: %+v", s)
		}
	}
	if !ranking.Draw {
		t.Fatal("two untouched players are level")
	}
}
