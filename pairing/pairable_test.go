package pairing

import (
	"testing"

	"github.com/matryer/is"
)

func freshSection(n, rnd int) []*Player {
	pl := make([]*Player, 0, n+1)
	for i := 0; i < n; i++ {
		pl = append(pl, &Player{
			PlayID:     i + 1,
			Rnd:        rnd,
			Rating:     1500 - 10*i,
			Rand:       float64(i+1) / 100,
			BoardNum:   -1,
			Multiround: 1,
			TrnType:    TypeSwiss,
			FirstColor: 'W',
		})
	}
	return Canonicalize(pl)
}

func TestPairableFreshRoster(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	// n players with no history can always fill an event of up to n-1
	// rounds: the current round 1 plus up to n-2 remaining
	for _, n := range []int{4, 6, 8} {
		pl := freshSection(n, 1)
		for rounds := 1; rounds < n; rounds++ {
			pl[0].Rnd = 1
			cv := s.pairableCost(0, pl, nil, rounds-1, false)
			is.Equal(cv, CostValue(0)) // n players, rounds-1 remaining
		}
	}
}

func TestPairableExhausted(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	// two players who already met cannot play another round
	pl := freshSection(2, 2)
	pl[0].Opponents = []OpponentKey{{PlayID: pl[1].PlayID}}
	pl[0].PlayedColors = "W"
	pl[0].ColorHistory = "W"
	pl[1].Opponents = []OpponentKey{{PlayID: pl[0].PlayID}}
	pl[1].PlayedColors = "B"
	pl[1].ColorHistory = "B"
	pl = Canonicalize(pl)
	is.Equal(s.pairableCost(0, pl, nil, 1, false), CostValue(1))
}

func TestPairableCountsProposedPairing(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	// four players, two rounds left; proposing 0-1 and 2-3 now still
	// leaves 0-2/1-3 and 0-3/1-2 for later
	pl := freshSection(4, 1)
	pair := []int{0, 1, 2, 3}
	is.Equal(s.pairableCost(0, pl, pair, 2, false), CostValue(0))
	// but there is no third fresh round after that
	is.Equal(s.pairableCost(0, pl, pair, 3, false), CostValue(1))
}

func TestPairableTeamMajority(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	pl := freshSection(4, 1)
	for _, p := range pl[:2] {
		p.TeamID = 7
	}
	// half the section on one team short-circuits to infeasible
	is.Equal(s.pairableCost(0, pl, nil, 1, true), CostValue(1))
	// without the team constraint the same section is fine
	is.Equal(s.pairableCost(0, pl, nil, 1, false), CostValue(0))
}

func TestPairableByeRounds(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	// three actives plus one future bye each round still pairs
	pl := freshSection(4, 1)
	pl[3].ByeRounds = []int{2}
	pl = Canonicalize(pl)
	is.Equal(s.pairableCost(0, pl, nil, 1, false), CostValue(0))
}
