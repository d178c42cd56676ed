package brackets

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/Dosada05/pong-ledger/models"
)

// Shuffler permutes n elements in place through swap, with the signature of rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

type RoundRobinGenerator struct {
	shuffle Shuffler
	newID   func() string
}

func NewRoundRobinGenerator() MatchGenerator {
	return NewRoundRobinGeneratorWithShuffler(rand.Shuffle)
}

// NewRoundRobinGeneratorWithShuffler is used where the roster permutation must be controlled.
func NewRoundRobinGeneratorWithShuffler(shuffle Shuffler) MatchGenerator {
	if shuffle == nil {
		shuffle = func(int, func(i, j int)) {}
	}
	return &RoundRobinGenerator{shuffle: shuffle, newID: uuid.NewString}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Generate shuffles a copy of the roster and pairs every participant with every other
// participant exactly once, n(n-1)/2 matches in total.
func (g *RoundRobinGenerator) Generate(players []models.TournamentPlayer) []models.TournamentMatch {
	shuffled := make([]models.TournamentPlayer, len(players))
	copy(shuffled, players)
	g.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := len(shuffled)
	matches := make([]models.TournamentMatch, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matches = append(matches, models.TournamentMatch{
				ID:      g.newID(),
				Player1: shuffled[i],
				Player2: shuffled[j],
			})
		}
	}
	return matches
}
