package pairing

import (
	"testing"

	"github.com/matryer/is"
)

func TestMultiple(t *testing.T) {
	is := is.New(t)
	is.Equal(Multiple(0, 10), CostValue(0))
	is.Equal(Multiple(1, 10), CostValue(1))
	is.Equal(Multiple(2, 10), CostValue(11))
	is.Equal(Multiple(3, 10), CostValue(111))
	is.Equal(Multiple(1, 2), CostValue(1))
	is.Equal(Multiple(4, 2), CostValue(15))
	// overflow clamps instead of wrapping
	is.Equal(Multiple(100, 1000), CostValue(MaxCostValue))
}

func TestMultipleMonotone(t *testing.T) {
	is := is.New(t)
	for n := 2; n <= 16; n *= 2 {
		prev := Multiple(0, n)
		for k := CostValue(1); k < 20; k++ {
			cur := Multiple(k, n)
			is.True(prev < cur || cur == MaxCostValue) // strictly increasing until the clamp
			prev = cur
		}
	}
}

func TestCostLexOrder(t *testing.T) {
	is := is.New(t)
	var a, b Cost
	is.True(!a.Less(b))
	is.True(a.IsZero())

	// one unit of the top field beats any amount of everything below it
	a = Cost{}
	a.v[CostByeChoice] = 1
	b = Cost{}
	for f := CostByeChoice + 1; f < NumCostFields; f++ {
		b.v[f] = MaxCostValue
	}
	is.True(b.Less(a))
	is.True(!a.Less(b))

	// earlier field dominates at every adjacent boundary
	for f := 0; f+1 < NumCostFields; f++ {
		hi, lo := Cost{}, Cost{}
		hi.v[f] = 1
		lo.v[f+1] = 100
		is.True(lo.Less(hi))
	}
}

func TestCostString(t *testing.T) {
	is := is.New(t)
	var c Cost
	is.Equal(c.String(), "zero")
	c.v[CostTeamBlocks] = 2
	is.True(c.String() != "zero")
}

func TestUnequalScores(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	x := &Player{PlayID: 1, Score: 1.0, Rnd: 2, Rank: 0, Multiround: 1}
	y := &Player{PlayID: 2, Score: 0.5, Rnd: 2, Rank: 1, Multiround: 1}
	is.True(s.unequalScores(0, x, y) > 0)
	// only charged from the upper-ranked side
	is.Equal(s.unequalScores(0, y, x), CostValue(0))
	// equal scores are free
	y.Score = 1.0
	is.Equal(s.unequalScores(0, x, y), CostValue(0))
	// a bigger gap costs more
	y.Score = 0.5
	cSmall := s.unequalScores(0, x, y)
	y.Score = 0.0
	cBig := s.unequalScores(0, x, y)
	is.True(cSmall < cBig)
}

func TestWarnCodeCollection(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	x := &Player{PlayID: 1, Rnd: 1, Multiround: 1}
	y := &Player{PlayID: ByeID, Multiround: 1}
	// forced bye without a request gets the bye-choice letter
	cv := s.byeChoice('A', x, y)
	is.Equal(cv, CostValue(1))
	is.Equal(x.WarnCodes, "A")
	is.True(s.Describe('A') != "")
	// the letter is not duplicated
	s.byeChoice('A', x, y)
	is.Equal(x.WarnCodes, "A")
	// code zero collects nothing
	y2 := &Player{PlayID: 2, Multiround: 1}
	y2.ByeRequest = true
	cv = s.byeChoice(0, y2, x)
	is.Equal(cv, CostValue(1))
	is.Equal(y2.WarnCodes, "")
}

func TestTeamBlocks(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	x := &Player{PlayID: 1, Rank: 0, Teammates: []int{2}, Multiround: 1}
	y := &Player{PlayID: 2, Rank: 1, Teammates: []int{1}, Multiround: 1}
	is.True(s.teamBlocks(0, x, y, 4) > 0)
	// one rank direction only, to avoid double counting
	is.Equal(s.teamBlocks(0, y, x, 4), CostValue(0))
	z := &Player{PlayID: 3, Rank: 2, Multiround: 1}
	is.Equal(s.teamBlocks(0, x, z, 4), CostValue(0))
}

func TestPlayersMeetTwice(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	x := &Player{PlayID: 1, Opponents: []OpponentKey{{PlayID: 2}}, PlayedColors: "W", Multiround: 1}
	y := &Player{PlayID: 2, Opponents: []OpponentKey{{PlayID: 1}}, PlayedColors: "B", Multiround: 1}
	z := &Player{PlayID: 3, Multiround: 1}
	is.True(s.playersMeetTwice(0, x, y, 4) > 0)
	is.Equal(s.playersMeetTwice(0, x, z, 4), CostValue(0))
	// a reentry still counts as the same person
	y2 := &Player{PlayID: 2, Reentry: 1, Multiround: 1}
	is.True(s.playersMeetTwice(0, x, y2, 4) > 0)
	// but the identical-match cost keys on the exact entry and color
	is.Equal(s.identicalMatch(0, x, y2, 4, 'W'), CostValue(0))
	is.True(s.identicalMatch(0, x, y, 4, 'W') > 0)
}
