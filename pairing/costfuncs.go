package pairing

import (
	"math"
	"sort"
)

func b2i(b bool) CostValue {
	if b {
		return 1
	}
	return 0
}

// byeChoice penalizes a bye assignment that contradicts the player's
// request, or a forced forfeit that deprives an opponent of a game
// (rules 22C, 28M1, 29K).
func (s *Session) byeChoice(code byte, x, y *Player) CostValue {
	var cv CostValue
	if !x.IsBye() && !x.ByeHouse {
		if x.ByeRequest {
			cv = b2i(!y.IsBye())
		} else {
			cv = b2i(y.IsBye())
		}
	}
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Bye request mismatch (22C,28M1,29K)")
	}
	return cv
}

// byeAgain penalizes repeated full-point byes (rule 28L3).
func (s *Session) byeAgain(code byte, x, y *Player, players int) CostValue {
	var cv CostValue
	if !x.IsBye() && y.IsBye() {
		var cnt CostValue
		for z := 0; z < len(x.ColorHistory); z++ {
			if x.ColorHistory[z] == 'f' {
				cnt++
			}
		}
		cv = Multiple(cnt, players)
	}
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Bye ineligible (28L3)")
	}
	return cv
}

// identicalMatch penalizes a rematch that would repeat the same colors.
func (s *Session) identicalMatch(code byte, x, y *Player, players int, xColor byte) CostValue {
	yKey := OpponentKey{PlayID: y.PlayID, Reentry: y.Reentry}
	xKey := OpponentKey{PlayID: x.PlayID, Reentry: x.Reentry}
	var rematchX, rematchY CostValue
	for z, opp := range x.Opponents {
		if opp == yKey && x.PlayedColors[z] == xColor {
			rematchX++
		}
	}
	for z, opp := range y.Opponents {
		if opp == xKey && y.PlayedColors[z] == flipColor(xColor) {
			rematchY++
		}
	}
	cv := Multiple(max(rematchX, rematchY), players)
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "IdenticalMatch")
	}
	return cv
}

// playersMeetTwice penalizes any rematch regardless of reentry or color
// (rules 27A1, 28S1, 28S2, 29C2).
func (s *Session) playersMeetTwice(code byte, x, y *Player, players int) CostValue {
	var rematchX, rematchY CostValue
	for _, opp := range x.Opponents {
		if opp.PlayID == y.PlayID {
			rematchX++
		}
	}
	for _, opp := range y.Opponents {
		if opp.PlayID == x.PlayID {
			rematchY++
		}
	}
	cv := Multiple(max(rematchX, rematchY), players)
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Players meet twice (27A1,28S1,28S2,29C2)")
	}
	return cv
}

func plusScore(p *Player) float64 { return p.Score - float64(p.Rnd)/2.0 }

// teamBlocks2 is the pre-unequal-scores half of the team block cost,
// applied to players without a plus-two score (rule 28N1). Only used when
// the 28N3-at-zero variation is off.
func (s *Session) teamBlocks2(code byte, x, y *Player, players int) CostValue {
	var team CostValue
	if x.Rank < y.Rank && (plusScore(x) < 2 || plusScore(y) < 2) {
		for _, tm := range x.Teammates {
			if tm == y.PlayID {
				team++
			}
		}
	}
	cv := Multiple(team, players)
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Team block violated, not plus-two (28N,U)")
	}
	return cv
}

// unequalScores penalizes cross-score-group pairings, growing with both the
// score gap and how high the pairing sits (rules 27A2, 29A, 29B).
func (s *Session) unequalScores(code byte, x, y *Player) CostValue {
	var cv CostValue
	if x.Score != y.Score && x.Rank < y.Rank {
		m := Multiple(CostValue(math.Round(2*math.Abs(x.Score-y.Score))), x.Rnd)
		cv = CostValue(math.Round(float64(m)*float64(x.Rnd) + 2*math.Max(x.Score, y.Score)))
	}
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Unequal scores (27A2,29A,29B)")
	}
	return cv
}

// teamBlocks is the post-unequal-scores half of the team block cost,
// applied to everyone (rules 28N, 28N1, 28T). Counted in one rank
// direction only to avoid doubling.
func (s *Session) teamBlocks(code byte, x, y *Player, players int) CostValue {
	var team CostValue
	if x.Rank < y.Rank {
		for _, tm := range x.Teammates {
			if tm == y.PlayID {
				team++
			}
		}
	}
	cv := Multiple(team, players)
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Team block violated (28N,U)")
	}
	return cv
}

// byeAfterHalf penalizes a forced bye for a player who already has half
// byes or forfeit wins (rule 28L4).
func (s *Session) byeAfterHalf(code byte, x, y *Player, players int) CostValue {
	var cv CostValue
	if !x.IsBye() && y.IsBye() && !x.ByeRequest {
		cv = Multiple(CostValue(x.HalfByeCount), players)
	}
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Bye after half (28L4)")
	}
	return cv
}

// lowestScoreBye penalizes a forced bye outside the lowest score group
// (rule 28L2).
func (s *Session) lowestScoreBye(code byte, x, y *Player, players int, lowestScore float64) CostValue {
	var cv CostValue
	if !x.IsBye() && y.IsBye() && !x.ByeRequest && x.Score-lowestScore > 0.25 {
		cv = Multiple(CostValue(math.Round(2*(x.Score-lowestScore))), players)
	}
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Bye player is not from the lowest score group (28L2)")
	}
	return cv
}

// lowestRatedBye steers forced byes away from unrated players who still
// need games for a rating (rule 28L2; 28L5 not implemented).
func (s *Session) lowestRatedBye(code byte, x, y *Player, remainingRounds int) CostValue {
	var cv CostValue
	if !x.IsBye() && y.IsBye() && !x.ByeRequest && x.IsUnrated && x.UseRating != "none" {
		if x.Provisional+(x.Rnd+remainingRounds-x.UnplayedCount-1) < 4 {
			cv = 2
		} else {
			cv = 1
		}
	}
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Bye player unrated and (if cost=2) may have too few games (28L2)")
	}
	return cv
}

// oddPlayerUnrated penalizes choosing an unrated player as the odd player
// dropped across score groups (rule 29D1).
func (s *Session) oddPlayerUnrated(code byte, x, y *Player) CostValue {
	cv := b2i(!x.IsBye() && !y.IsBye() && x.Score != y.Score && x.IsUnrated && x.UseRating != "none")
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Odd player unrated (29D1)")
	}
	return cv
}

// oddPlayerMultipleGroups penalizes dropping the odd player more than one
// score group down (rule 29D2). Half-point drops are expected and free.
func (s *Session) oddPlayerMultipleGroups(code byte, x, y *Player, players int) CostValue {
	var cv CostValue
	if !x.IsBye() && !y.IsBye() && x.Score-y.Score > 0.75 {
		cv = Multiple(CostValue(math.Round(2*(x.Score-y.Score-0.5))), players)
	}
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Odd player across multiple groups (29D2)")
	}
	return cv
}

// interchange detects upper/lower-half interchanges whose rating swing
// exceeds the threshold (rules 27A3, 29C, 29D, 29E5). The returned value
// is players*MaxRating plus the rating delta so larger swings dominate.
//
// TODO: the 29E5g variation (treat a pull-up that is not the highest rated
// player as an interchange, with unrated players counted at MaxRating for
// nonzero thresholds) is disabled pending a rules clarification.
func (s *Session) interchange(code byte, x, y *Player, players, medianRating, unratedRating, threshold int) CostValue {
	dl := threshold
	r0 := x.Rating
	r1 := x.Rating
	if x.IsUnrated && x.UseRating != "none" {
		r1 = unratedRating
	}
	r2 := y.Rating
	rm := medianRating
	var cv CostValue
	switch {
	case x.IsBye():
	case y.IsBye():
		// the bye player shouldn't be above the median (rule 28L2)
		if rm+dl < r1 {
			cv = CostValue(players)*MaxRating + CostValue(r1-rm)
		}
	case x.Score == y.Score && x.Rank > y.Rank && rm+dl < min(r0, r2):
		// both players above the median
		cv = CostValue(players)*MaxRating + CostValue(min(r0, r2)-rm)
	case x.Score < y.Score && r0+dl < rm:
		// player pulled up is below the median
		cv = CostValue(players)*MaxRating + CostValue(rm-r0)
	case x.Score > y.Score && rm+dl < r0:
		// player dropped down is above the median
		cv = CostValue(players)*MaxRating + CostValue(r0-rm)
	}
	if cv != 0 {
		desc := "Interchange above 0 (27A5)"
		if threshold >= 200 {
			desc = "Interchange above 200 (27A3;29E5b,e,g)"
		} else if threshold >= 80 {
			desc = "Interchange above 80 (27A3;29E5b,e,g)"
		}
		s.costDescription(&x.WarnCodes, code, desc)
	}
	return cv
}

func standinRating(p *Player, unratedRating int) int {
	if p.IsUnrated && p.UseRating != "none" {
		return unratedRating
	}
	return p.Rating
}

// transpose checks every downstream board in the same score group for a
// rating-closer transposition within the threshold and accumulates the
// misses (rules 27A5, 29C, 29D, 29E). Only the lower-half seat of a board
// scans, and only downward; upstream boards scan down to it.
func (s *Session) transpose(code byte, pl []*Player, pair []int, x, y, unratedRating, threshold, pBegin, pEnd int) CostValue {
	players := len(pl)
	px := pl[pair[x]]
	py := pl[pair[y]]
	if px.IsBye() || py.IsBye() {
		return 0
	}
	if px.Rank < py.Rank {
		return 0
	}
	// px is the lower half or a pull-up
	sx, sy := px.Score, py.Score
	rx := standinRating(px, unratedRating)
	ry := standinRating(py, unratedRating)
	kx := px.Rank
	dl := threshold
	var cv CostValue
	for z := x + 1; z < pEnd; z += 2 {
		p1 := pl[pair[z]]
		p2 := pl[pair[z+1]]
		s1, s2 := p1.Score, p2.Score
		r1 := standinRating(p1, unratedRating)
		r2 := standinRating(p2, unratedRating)
		d2 := r2 - rx
		if sy == sx && s1 == s2 {
			d2 = min(r2-rx, ry-r1) // rule 29E5c
		}
		k2 := p2.Rank
		// same score group, rated, and a bigger transposition available
		if s1 == sx && dl < r1-rx &&
			(sx < sy || // px is a pull-up: check both halves
				s1 > s2 || // p1 is a drop-down: check the upper half
				p2.IsBye()) { // or the lower half is the bye (rule 28L2)
			cv += CostValue(players)*MaxRating + CostValue(r1-rx)
		}
		if s2 == sx && dl < d2 &&
			!p2.IsBye() &&
			(sx < sy || k2 < kx) {
			cv += CostValue(players)*MaxRating + CostValue(d2)
		}
	}
	if cv != 0 {
		desc := "Transpose above 0 (29C1)"
		if threshold >= 200 {
			desc = "Transpose above 200 (29C1,29E5b,g)"
		} else if threshold >= 80 {
			desc = "Transpose above 80 (29C1,29E5b,g)"
		}
		s.costDescription(&px.WarnCodes, code, desc)
	}
	return cv
}

// medianRating finds the score group's median rating (lower of the two
// middles when even). Falls back from same-score boards to all active
// players when the group has no complete boards.
func medianRating(pl []*Player, pair []int, score float64, pBegin, pEnd int) int {
	var sg1, sg2 []int
	for x := pBegin; x < pEnd; x += 2 {
		px := pl[pair[x]]
		py := pl[pair[x+1]]
		if px.Score == score && py.Score == score && !px.IsBye() && !py.IsBye() {
			sg1 = append(sg1, px.Rating, py.Rating)
		}
		if !px.IsBye() && !px.ByeRequest {
			sg2 = append(sg2, px.Rating)
		}
		if !py.IsBye() && !py.ByeRequest {
			sg2 = append(sg2, py.Rating)
		}
	}
	for _, sg := range [][]int{sg1, sg2} {
		if len(sg) == 0 {
			continue
		}
		sort.Ints(sg)
		if len(sg)%2 == 1 {
			return sg[len(sg)/2]
		}
		return min(sg[len(sg)/2], sg[len(sg)/2-1])
	}
	return 0
}

// unratedRatingFor is the stand-in rating for unrated players: the lowest
// rated player in the score group (rules 29E5g and the 29E5 TD tip).
func unratedRatingFor(pl []*Player, pair []int, score float64, pBegin, pEnd int) int {
	rating := MaxRating
	for x := pBegin; x < pEnd; x++ {
		px := pl[pair[x]]
		if !px.IsBye() && !px.ByeRequest && px.Score == score && px.Rating < rating &&
			(!px.IsUnrated || px.UseRating == "none") {
			rating = px.Rating
		}
	}
	if rating == MaxRating {
		return 0
	}
	return rating
}

// pairingCard counts pairing-card number violations: transpositions in
// either half, interchanges, and drop-down choices that skip a higher
// card (rules 28A, 28B, 29A). Violations are smoothed by the distance
// between the mis-ordered seats.
func (s *Session) pairingCard(code byte, pl []*Player, pair []int, costPlayers map[int]bool) CostValue {
	var num CostValue
	const desc = "Transposed/Interchanged pair number (28A,28B,29A)"
	sameCard := func(a, b *Player) bool {
		return a.Paired == b.Paired && a.Score == b.Score &&
			(a.Rating == b.Rating || a.Rating == 0) &&
			!a.IsBye() && !b.IsBye()
	}
	for x := 0; x < len(pair); x += 2 {
		for y := x + 2; y < len(pair); y += 2 {
			// transpose in the upper half
			if sameCard(pl[pair[x]], pl[pair[y]]) && pl[pair[x]].Rand > pl[pair[y]].Rand {
				num += CostValue(abs(pair[x] - pair[y]))
				s.costDescription(&pl[pair[x]].WarnCodes, code, desc)
				costPlayers[pair[x]] = true
				costPlayers[pair[y]] = true
			}
			// transpose in the lower half
			if sameCard(pl[pair[x+1]], pl[pair[y+1]]) && pl[pair[x+1]].Rand > pl[pair[y+1]].Rand {
				num += CostValue(abs(pair[x+1] - pair[y+1]))
				s.costDescription(&pl[pair[x+1]].WarnCodes, code, desc)
				costPlayers[pair[x+1]] = true
				costPlayers[pair[y+1]] = true
			}
		}
		isDropDown := pl[pair[x]].Score != pl[pair[x+1]].Score || pl[pair[x+1]].IsBye()
		// interchange
		if !isDropDown && sameCard(pl[pair[x]], pl[pair[1]]) &&
			pl[pair[x]].Rating == pl[pair[1]].Rating &&
			pl[pair[x]].Rand > pl[pair[1]].Rand {
			num += CostValue(abs(pair[x] - pair[1]))
			s.costDescription(&pl[pair[x]].WarnCodes, code, desc)
			costPlayers[pair[x]] = true
			costPlayers[pair[1]] = true
		}
		// drop-down choice
		if isDropDown && x > 0 && sameCard(pl[pair[x]], pl[pair[x-1]]) &&
			pl[pair[x]].Rating == pl[pair[x-1]].Rating &&
			pl[pair[x]].Rand < pl[pair[x-1]].Rand {
			num += CostValue(abs(pair[x] - pair[x-1]))
			s.costDescription(&pl[pair[x]].WarnCodes, code, desc)
			costPlayers[pair[x]] = true
			costPlayers[pair[x-1]] = true
		}
	}
	return num
}

// reversedColors flags a pairing whose final colors contradict the input
// color hints (rules 28J, 29E2, 29E4). A roster without color hints is
// never flagged.
func (s *Session) reversedColors(code byte, x, y *Player, xColor byte) CostValue {
	cv := b2i(x.BoardColor != 0 && x.BoardColor != xColor && xColor == 'W')
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Colors reversed for pair (28J;29E2,4)")
	}
	return cv
}

// boardOverlap flags two boards sharing an input board number (rule 28J).
func (s *Session) boardOverlap(code byte, pl []*Player, pair []int, x, y *Player) CostValue {
	var cv CostValue
	if x.Rank < y.Rank && x.BoardNum >= 0 {
		for z := 0; z < len(pair); z += 2 {
			if pl[pair[z+1]].IsBye() {
				continue
			}
			if samePerson(x, pl[pair[z]]) || samePerson(x, pl[pair[z+1]]) {
				continue
			}
			if x.BoardNum == pl[pair[z]].BoardNum {
				cv++
			}
		}
	}
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Board number overlap (28J)")
	}
	return cv
}

func samePerson(a, b *Player) bool {
	return a.PlayID == b.PlayID && a.Reentry == b.Reentry
}

// boardOrder flags input board numbers out of order (rule 28J).
func (s *Session) boardOrder(code byte, pl []*Player, pair []int, px, py *Player, x, y, pBegin, pEnd int) CostValue {
	var cv CostValue
	w := min(x, y)
	if px.Less(py) && !px.IsBye() && !py.IsBye() &&
		px.BoardNum >= 0 && py.BoardNum >= 0 && pBegin+2 <= w && w < pEnd {
		pz2 := pl[pair[w-2]]
		pz1 := pl[pair[w-1]]
		low := min(px.BoardNum, py.BoardNum)
		if pz2.BoardNum > low && pz1.BoardNum > low &&
			pz1.Paired == py.Paired && pz2.Paired == py.Paired &&
			!pz1.IsBye() && !pz2.IsBye() {
			cv++
		}
	}
	if cv != 0 {
		s.costDescription(&py.WarnCodes, code, "Board number order (28J)")
	}
	return cv
}

// colorImbalance flags a strong (equalization) due color not honored
// (rules 27A4, 29E4).
func (s *Session) colorImbalance(code byte, x, y *Player, xColor byte) CostValue {
	cv := b2i(x.DueColor[0] == upper(x.DueColor[0]) && xColor != x.DueColor[0] &&
		!x.IsBye() && !y.IsBye())
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Color not balanced (27A4)")
	}
	return cv
}

// colorRepeat3 flags a third consecutive game with the same color
// (rule 29E5f).
func (s *Session) colorRepeat3(code byte, x, y *Player, xColor byte) CostValue {
	if x.IsBye() || y.IsBye() {
		return 0
	}
	yColor := flipColor(xColor)
	count := 1
	for z := len(x.ColorHistory); z > 0; z-- {
		if x.ColorHistory[z-1] == xColor {
			count++
		} else if x.ColorHistory[z-1] == yColor {
			break
		}
	}
	cv := b2i(count >= 3)
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Color 3+ in a row (29E5f)")
	}
	return cv
}

// colorAlternate flags a weak (alternation) due color not honored
// (rule 27A5).
func (s *Session) colorAlternate(code byte, x, y *Player, xColor byte) CostValue {
	if x.IsBye() || y.IsBye() {
		return 0
	}
	var cv CostValue
	if xColor != upper(x.DueColor[0]) {
		for z := len(x.ColorHistory); z > 0; z-- {
			if 'a' <= x.ColorHistory[z-1] && x.ColorHistory[z-1] <= 'z' {
				continue
			}
			cv = b2i(x.ColorHistory[z-1] == xColor)
			break
		}
	}
	if cv != 0 {
		s.costDescription(&x.WarnCodes, code, "Color not alternating (27A5)")
	}
	return cv
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
