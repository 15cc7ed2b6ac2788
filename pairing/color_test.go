package pairing

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestDueColor(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		history    string
		multiround int
		want       string
	}{
		{"", 1, "x"},
		{"h", 1, "x"},
		{"fzh", 1, "x"},
		{"W", 1, "B"},
		{"B", 1, "W"},
		{"WW", 1, "BB"},
		{"WBW", 1, "B"},
		{"WB", 1, "w"},
		{"BW", 1, "b"},
		{"WBh", 1, "w"},
		{"WBBW", 1, "b"},
		{"WWBB", 1, "w"},
		{"WWWB", 1, "BB"},
		// multiround 2: only the first game of each series counts
		{"WWBB", 2, "w"},
		{"WBWB", 2, "BB"},
		{"hh", 2, "x"},
	}
	for _, c := range cases {
		is.Equal(DueColor(c.history, c.multiround), c.want) // history c.history
	}
}

// Appending the returned color must move the counts one step toward
// equality.
func TestDueColorRebalances(t *testing.T) {
	is := is.New(t)
	histories := []string{"W", "WW", "WWB", "BBW", "BBB", "WBWW", "BWBB"}
	for _, h := range histories {
		due := DueColor(h, 1)
		if due == "x" || !isUpperLetter(due[0]) {
			continue
		}
		before := abs(strings.Count(h, "W") - strings.Count(h, "B"))
		h2 := h + string(due[0])
		after := abs(strings.Count(h2, "W") - strings.Count(h2, "B"))
		is.Equal(after, before-1) // history h
	}
}

func colorPlayer(id int, due, history string, rank int) *Player {
	return &Player{
		PlayID:       id,
		DueColor:     due,
		ColorHistory: history,
		FirstColor:   'W',
		Rank:         rank,
		Rand:         float64(id),
		Multiround:   1,
	}
}

func TestAllocateColorBye(t *testing.T) {
	is := is.New(t)
	x := colorPlayer(1, "x", "", 0)
	bye := &Player{PlayID: ByeID, DueColor: "x"}
	is.Equal(AllocateColor(x, bye, true), byte('W'))
	is.Equal(AllocateColor(bye, x, true), byte('B'))
}

func TestAllocateColorFirstRound(t *testing.T) {
	is := is.New(t)
	x := colorPlayer(1, "x", "", 0)
	y := colorPlayer(2, "x", "", 1)
	// upper player on an odd board gets the first color
	is.Equal(AllocateColor(x, y, true), byte('W'))
	// upper player on an even board gets the flip
	is.Equal(AllocateColor(x, y, false), byte('B'))
	// lower seat's view mirrors it
	is.Equal(AllocateColor(y, x, true), byte('B'))
}

func TestAllocateColorDue(t *testing.T) {
	is := is.New(t)
	// only one side due a color
	x := colorPlayer(1, "B", "W", 0)
	y := colorPlayer(2, "x", "h", 1)
	is.Equal(AllocateColor(x, y, true), byte('B'))
	is.Equal(AllocateColor(y, x, true), byte('W'))

	// both due opposite colors: everybody happy
	x = colorPlayer(1, "B", "W", 0)
	y = colorPlayer(2, "W", "B", 1)
	is.Equal(AllocateColor(x, y, true), byte('B'))

	// equalization beats alternation
	x = colorPlayer(1, "w", "BW", 0)
	y = colorPlayer(2, "W", "BB", 1)
	is.Equal(AllocateColor(x, y, true), byte('B')) // y gets the white they're owed

	// bigger imbalance wins
	x = colorPlayer(1, "BB", "WW", 0)
	y = colorPlayer(2, "B", "hW", 1)
	is.Equal(AllocateColor(x, y, true), byte('B'))
}

func TestAllocateColorHeadToHead(t *testing.T) {
	is := is.New(t)
	// x played y before as white; rule 30F equalizes the rematch
	x := colorPlayer(1, "b", "WB", 0)
	x.Opponents = []OpponentKey{{PlayID: 2}, {PlayID: 3}}
	x.PlayedColors = "WB"
	y := colorPlayer(2, "b", "BW", 1)
	y.Opponents = []OpponentKey{{PlayID: 1}, {PlayID: 4}}
	y.PlayedColors = "BW"
	is.Equal(AllocateColor(x, y, true), byte('B'))
}

func TestAllocateColorHistorySplit(t *testing.T) {
	is := is.New(t)
	// same due color and strength; most recent differing round decides
	x := colorPlayer(1, "b", "BWBW", 0)
	y := colorPlayer(2, "b", "BWWB", 1)
	// rounds 3 and 4 both differ; the most recent, round 4, decides: x had
	// W there, so x gets the opposite
	is.Equal(AllocateColor(x, y, true), byte('B'))
}

func TestAllocateColorRankFallback(t *testing.T) {
	is := is.New(t)
	x := colorPlayer(1, "b", "BW", 0)
	y := colorPlayer(2, "b", "BW", 1)
	is.Equal(AllocateColor(x, y, true), byte('B'))
	is.Equal(AllocateColor(y, x, true), byte('W'))
}
