package roundrobin

import (
	"fmt"
	"testing"

	"github.com/matryer/is"
)

func TestLookupSixPlayersRoundThree(t *testing.T) {
	is := is.New(t)
	// row "6 3": 6-5 1-3 4-2
	want := []struct {
		player, board int
		color         byte
	}{
		{6, 1, 'W'}, {5, 1, 'B'},
		{1, 2, 'W'}, {3, 2, 'B'},
		{4, 3, 'W'}, {2, 3, 'B'},
	}
	for _, w := range want {
		board, color, err := Lookup(6, 3, w.player, 0)
		is.NoErr(err)
		is.Equal(board, w.board) // player w.player board
		is.Equal(color, w.color) // player w.player color
	}
}

func TestLookupOddSectionAddsBye(t *testing.T) {
	is := is.New(t)
	// 5 players use the 6 schedule with a virtual slot 6
	board, color, err := Lookup(5, 1, 3, 0)
	is.NoErr(err)
	// row "6 1": 3-6 5-4 1-2; player 3 draws the virtual bye
	is.Equal(board, 1)
	is.Equal(color, byte('W'))
}

func TestLookupUnknownSize(t *testing.T) {
	is := is.New(t)
	_, _, err := Lookup(12, 1, 1, 0)
	is.True(err != nil)
}

func TestLookupWithdrawalReversal(t *testing.T) {
	is := is.New(t)
	// base row "4 3": 1-2 3-4; with slot 2 withdrawn, reversal "4-3"
	// flips that game's colors
	board, color, err := Lookup(4, 3, 4, 2)
	is.NoErr(err)
	is.Equal(board, 2)
	is.Equal(color, byte('W'))
	board, color, err = Lookup(4, 3, 3, 2)
	is.NoErr(err)
	is.Equal(board, 2)
	is.Equal(color, byte('B'))
	// the other board is untouched
	_, color, err = Lookup(4, 3, 1, 2)
	is.NoErr(err)
	is.Equal(color, byte('W'))
}

// Every pair of players must meet exactly once over a full even-N round
// robin, and every round must seat every player exactly once.
func TestLookupFullCoverage(t *testing.T) {
	is := is.New(t)
	for _, n := range []int{4, 6, 8, 10} {
		met := map[string]int{}
		for round := 1; round < n; round++ {
			byBoard := map[int][]int{}
			for player := 1; player <= n; player++ {
				board, color, err := Lookup(n, round, player, 0)
				is.NoErr(err)
				is.True(board >= 1 && board <= n/2)
				is.True(color == White || color == Black)
				byBoard[board] = append(byBoard[board], player)
			}
			is.Equal(len(byBoard), n/2) // n, round: all boards filled
			for _, ps := range byBoard {
				is.Equal(len(ps), 2)
				a, b := min(ps[0], ps[1]), max(ps[0], ps[1])
				met[fmt.Sprintf("%d-%d", a, b)]++
			}
		}
		is.Equal(len(met), n*(n-1)/2) // n: every pair met
		for _, cnt := range met {
			is.Equal(cnt, 1)
		}
	}
}
