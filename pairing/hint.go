package pairing

import "sort"

// SortBoards insertion-sorts the boards of a pairing vector into display
// order: unpaired actives first, then byes, then by score, rating, and the
// canonical order of the top players.
func SortBoards(pl []*Player, pair []int) {
	for x := 0; x < len(pair); x += 2 {
		for y := x; y > 0; y -= 2 {
			a2, a1 := pl[pair[y-2]], pl[pair[y-1]] // board above
			b2, b1 := pl[pair[y]], pl[pair[y+1]]   // board being placed
			if boardBefore(a2, a1, b2, b1) {
				break
			}
			pair[y], pair[y-2] = pair[y-2], pair[y]
			pair[y+1], pair[y-1] = pair[y-1], pair[y+1]
		}
	}
}

// boardBefore decides whether board (a2,a1) stays above board (b2,b1).
// Tops are compared first; bottoms break the remaining ties before the
// full canonical order does.
func boardBefore(a2, a1, b2, b1 *Player) bool {
	if a2.Paired != b2.Paired {
		return !a2.Paired
	}
	if a1.IsBye() != b1.IsBye() {
		return !a1.IsBye()
	}
	if a2.ByeRequest != b2.ByeRequest {
		return !a2.ByeRequest
	}
	if a2.Score != b2.Score {
		return a2.Score > b2.Score
	}
	if a1.Score != b1.Score {
		return a1.Score > b1.Score
	}
	if a2.Rating != b2.Rating {
		return a2.Rating > b2.Rating
	}
	if a1.Rating != b1.Rating {
		return a1.Rating > b1.Rating
	}
	return !b2.Less(a2)
}

// HintPairings builds the initial pairing vector from the input board
// hints. Two adjacent entries sharing a board number and paired flag form
// a board; orphans are collected, padded with the bye if odd, and appended
// ahead of the pre-paired boards. When collapseByes is set, hinted byes
// for active players are dissolved back into the orphan pool.
func HintPairings(pl []*Player, collapseByes bool) []int {
	byeIndex := len(pl) - 1
	type hinted struct {
		board int
		rank  int
	}
	var m []hinted
	var unhinted []int
	for x := 0; x < len(pl)-1; x++ {
		if pl[x].BoardNum != -1 {
			m = append(m, hinted{board: pl[x].BoardNum, rank: x})
		} else {
			unhinted = append(unhinted, x)
		}
	}
	sort.SliceStable(m, func(i, j int) bool { return m[i].board < m[j].board })

	var pair []int   // preserved pairings
	var single []int // orphans that need pairing
	var other []int  // pre-paired and bye-holding boards
	serviceOne := func(p1 *Player) {
		if p1.Paired || p1.ByeRequest || !collapseByes {
			other = append(other, p1.Rank, byeIndex)
		} else {
			single = append(single, p1.Rank)
		}
	}
	for i := 0; i < len(m); i++ {
		p1 := pl[m[i].rank]
		if i+1 >= len(m) {
			serviceOne(p1)
			continue
		}
		p2 := pl[m[i+1].rank]
		if p2.BoardNum != p1.BoardNum || p2.Paired != p1.Paired ||
			(!p1.Paired && (p1.ByeRequest || p2.ByeRequest)) {
			serviceOne(p1)
			continue
		}
		if p1.Paired {
			other = append(other, p1.Rank, p2.Rank)
		} else {
			pair = append(pair, p1.Rank, p2.Rank)
		}
		i++
	}
	// players without a board hint are orphans too
	for _, rank := range unhinted {
		serviceOne(pl[rank])
	}

	pair = append(pair, single...)
	if len(pair)%2 != 0 {
		pair = append(pair, byeIndex)
	}
	pair = append(pair, other...)

	// upper half first on every board
	for x := 0; x < len(pair); x += 2 {
		if pl[pair[x]].Rank > pl[pair[x+1]].Rank {
			pair[x], pair[x+1] = pair[x+1], pair[x]
		}
	}
	SortBoards(pl, pair)
	return pair
}

// colorLookahead would adjust first pairings so that due colors work out
// across the whole score group, not just per board.
// TODO: finish the group-level computation; today it only detects the
// all-colors-undetermined case and changes nothing.
func colorLookahead(pl []*Player, pair []int, players, totalRounds int, num []int, color [][]int) {
	isX := true
	for x := 0; x < len(color); x++ {
		if num[x] != color[x][2] {
			isX = false
		}
	}
	if isX {
		return // nothing to change
	}
}

// FirstPairings overwrites the active prefix of the pairing vector with
// the rule 27A2 heuristic: within each score group the upper half plays
// the lower half, odd groups drop their last player down (or out to the
// bye when no group follows). Prior opponents, teammates, and colors are
// ignored; for round one with no team blocks this is already correct.
func FirstPairings(pl []*Player, pair []int, players, totalRounds int) {
	// push byes to the end (also the naive 1 vs 2 pairings)
	sort.Ints(pair[:players])

	groups := 0
	if len(pl) > 0 {
		groups = int(2*pl[0].Score) + 1
	}
	num := make([]int, groups)
	color := make([][]int, groups)
	for i := range color {
		color[i] = make([]int, 3)
	}
	for x := 0; x < players; {
		scoreGroup := pl[x].Score
		for y := x + 1; ; y++ {
			g := int(2 * scoreGroup)
			num[g]++
			switch upper(pl[y-1].DueColor[0]) {
			case 'W':
				color[g][0]++
			case 'B':
				color[g][1]++
			default:
				color[g][2]++
			}
			if y < players && pl[y].Score == scoreGroup {
				continue
			}
			// end of score group: upper half against lower half
			for z := 0; z+1 < num[g]; z += 2 {
				pair[x+z] = x + z/2
				pair[x+z+1] = x + num[g]/2 + z/2
			}
			switch {
			case num[g]%2 == 0:
				x = y // no odd player
			case y < players:
				pair[y-1] = y - 1 // odd player drops down
				pair[y] = y       // against the top of the next group
				x = y + 1
			default:
				pair[y-1] = y - 1 // odd player byes out
				x = y
			}
			break
		}
	}
	colorLookahead(pl, pair, players, totalRounds, num, color)
}
