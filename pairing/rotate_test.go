package pairing

import (
	"testing"

	"github.com/matryer/is"
)

func seq(n int) []int {
	v := make([]int, n)
	for i := range v {
		v[i] = i
	}
	return v
}

func TestRotateDownUpInverse(t *testing.T) {
	is := is.New(t)
	noShift := make([]bool, 8)
	cases := []struct{ x, y int }{
		{0, 4}, {0, 6}, {2, 6}, {0, 5}, {1, 6}, {1, 5},
	}
	for _, c := range cases {
		pair := seq(8)
		rotatePairDown(pair, c.x, c.y, 0, 8, false, false, noShift)
		rotatePairUp(pair, c.x, c.y, 0, 8, false, false, noShift)
		is.Equal(pair, seq(8)) // span c.x..c.y
	}
}

func TestRotateDownPreservesParity(t *testing.T) {
	is := is.New(t)
	noShift := make([]bool, 8)
	pair := seq(8)
	rotatePairDown(pair, 0, 6, 0, 8, false, false, noShift)
	// odd seats untouched
	for z := 1; z < 8; z += 2 {
		is.Equal(pair[z], z)
	}
	// even seats are a cyclic shift
	is.Equal(pair[0], 2)
	is.Equal(pair[2], 4)
	is.Equal(pair[4], 6)
	is.Equal(pair[6], 0)
}

func TestRotateDownCrossHalf(t *testing.T) {
	is := is.New(t)
	noShift := make([]bool, 8)
	pair := seq(8)
	// odd y wraps through the first lower-half seat
	rotatePairDown(pair, 0, 3, 0, 8, false, false, noShift)
	changed := 0
	for z := range pair {
		if pair[z] != z {
			changed++
		}
	}
	is.True(changed >= 3) // the wrap moves at least three seats
	// still a permutation
	seen := make(map[int]bool)
	for _, v := range pair {
		is.True(!seen[v])
		seen[v] = true
	}
}

func TestSortBoardsOrdersByScore(t *testing.T) {
	is := is.New(t)
	pl := []*Player{
		{PlayID: 1, Score: 0, Rating: 1500, Rand: 0.1, Multiround: 1},
		{PlayID: 2, Score: 0, Rating: 1400, Rand: 0.2, Multiround: 1},
		{PlayID: 3, Score: 1, Rating: 1300, Rand: 0.3, Multiround: 1},
		{PlayID: 4, Score: 1, Rating: 1200, Rand: 0.4, Multiround: 1},
		{PlayID: 0, Multiround: 1},
	}
	for i, p := range pl {
		p.Rank = i
	}
	// low-score board listed first; SortBoards lifts the score-1 board
	pair := []int{0, 1, 2, 3}
	SortBoards(pl, pair)
	is.Equal(pair, []int{2, 3, 0, 1})

	// a board with the bye sinks below a full board
	pair = []int{0, 4, 2, 3}
	SortBoards(pl, pair)
	is.Equal(pair, []int{2, 3, 0, 4})
}
