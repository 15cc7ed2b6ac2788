package pairing

import (
	"sort"
	"strings"
)

// byeChoiceCode is the warn letter of the first component in the walk.
const byeChoiceCode = byte('A')

// CostFunction evaluates one candidate pairing over the board range
// [pBegin, pEnd). When doCodes is set, warn codes and their descriptions
// are (re)generated; the search itself runs with doCodes off and turns it
// on for the final pass. costPlayers collects every player index touched
// by a nonzero component, which the optimizer uses to prune its tuple
// enumeration.
func (s *Session) CostFunction(pl []*Player, pair []int, remainingRounds, pBegin, pEnd int, doCodes, usePairable bool, costPlayers map[int]bool) Cost {
	// don't evaluate the granted bye requests at the tail
	for pBegin < pEnd && pl[pair[pEnd-1]].IsBye() &&
		(pl[pair[pEnd-2]].ByeRequest || pl[pair[pEnd-2]].ByeHouse) {
		pEnd -= 2
	}
	c := Cost{players: len(pl)}
	if doCodes {
		for x := pBegin; x < pEnd; x++ {
			pl[pair[x]].WarnCodes = ""
		}
	}

	lowestScore := 0.0
	if len(pl) > 0 && len(pair) > 0 {
		lowestScore = pl[pair[0]].Score
	}
	for x := pBegin; x < pEnd; x += 2 {
		lowestScore = min(lowestScore, pl[pair[x]].Score, pl[pair[x+1]].Score)
	}

	mask := func(code byte) byte {
		if doCodes {
			return code
		}
		return 0
	}

	lastScore := -1.0
	lastMedian, lastUnrated := 0, 0
	wCodePlayers, wCodeTeams, wCodePairCard := byte('A'), byte('B'), byte('C')
	isHousePlayer := false

	for x := pBegin; x < pEnd; x += 2 {
		lastC := c
		seq := newCodeSeq()
		px := pl[pair[x]]
		py := pl[pair[x+1]]
		if px.ByeHouse || py.ByeHouse {
			isHousePlayer = true
		}
		xColor := AllocateColor(px, py, x/2%2 == 0)

		mx := lastMedian
		if px.Score != lastScore {
			mx = medianRating(pl, pair, px.Score, pBegin, pEnd)
		}
		my := mx
		if py.Score != lastScore && py.Score != px.Score {
			my = medianRating(pl, pair, py.Score, pBegin, pEnd)
		} else if py.Score == lastScore {
			my = lastMedian
		}
		ux := lastUnrated
		if px.Score != lastScore {
			ux = unratedRatingFor(pl, pair, px.Score, pBegin, pEnd)
		}
		uy := ux
		if py.Score != lastScore && py.Score != px.Score {
			uy = unratedRatingFor(pl, pair, py.Score, pBegin, pEnd)
		} else if py.Score == lastScore {
			uy = lastUnrated
		}
		if lastScore != px.Score {
			lastScore = px.Score
			lastMedian = mx
			lastUnrated = ux
		}

		cw := mask(seq.next())
		c.add(CostByeChoice, s.byeChoice(cw, px, py)+s.byeChoice(cw, py, px))
		cw = mask(seq.next())
		c.add(CostByeAgain, s.byeAgain(cw, px, py, len(pl))+s.byeAgain(cw, py, px, len(pl)))
		cw = mask(seq.next())
		c.add(CostPlayersMeetTwice, s.identicalMatch(cw, px, py, len(pl), xColor)+
			s.identicalMatch(cw, py, px, len(pl), flipColor(xColor)))
		cw = mask(seq.next())
		c.add(CostPlayersMeetTwice, s.playersMeetTwice(cw, px, py, len(pl))+
			s.playersMeetTwice(cw, py, px, len(pl)))
		wCodePlayers = seq.next()
		if !s.Use28N3Zero {
			cw = mask(seq.next())
			c.add(CostTeamBlocks2, s.teamBlocks2(cw, px, py, len(pl))+s.teamBlocks2(cw, py, px, len(pl)))
		}
		cw = mask(seq.next())
		c.add(CostUnequalScores, s.unequalScores(cw, px, py)+s.unequalScores(cw, py, px))
		cw = mask(seq.next())
		c.add(CostTeamBlocks, s.teamBlocks(cw, px, py, len(pl))+s.teamBlocks(cw, py, px, len(pl)))
		if !s.Use28N3Zero {
			wCodeTeams = seq.next()
		}
		cw = mask(seq.next())
		c.add(CostByeAfterHalf, s.byeAfterHalf(cw, px, py, len(pl))+s.byeAfterHalf(cw, py, px, len(pl)))
		cw = mask(seq.next())
		c.add(CostLowestScoreBye, s.lowestScoreBye(cw, px, py, len(pl), lowestScore)+
			s.lowestScoreBye(cw, py, px, len(pl), lowestScore))
		cw = mask(seq.next())
		c.add(CostLowestRatedBye, s.lowestRatedBye(cw, px, py, remainingRounds)+
			s.lowestRatedBye(cw, py, px, remainingRounds))
		cw = mask(seq.next())
		c.add(CostOddPlayerUnrated, s.oddPlayerUnrated(cw, px, py)+s.oddPlayerUnrated(cw, py, px))
		cw = mask(seq.next())
		c.add(CostOddPlayerMultipleGroups, s.oddPlayerMultipleGroups(cw, px, py, len(pl))+
			s.oddPlayerMultipleGroups(cw, py, px, len(pl)))

		cw = mask(seq.next())
		c.add(CostInterchange200, s.interchange(cw, px, py, len(pl), mx, ux, 200)+
			s.interchange(cw, py, px, len(pl), my, uy, 200))
		cw = mask(seq.next())
		c.add(CostTranspose200, s.transpose(cw, pl, pair, x, x+1, ux, 200, pBegin, pEnd)+
			s.transpose(cw, pl, pair, x+1, x, uy, 200, pBegin, pEnd))
		if px.Multiround%2 == 1 {
			cw = mask(seq.next())
			c.add(CostColorImbalance, s.colorImbalance(cw, px, py, xColor)+
				s.colorImbalance(cw, py, px, flipColor(xColor)))
			cw = mask(seq.next())
			c.add(CostColorRepeat3, s.colorRepeat3(cw, px, py, xColor)+
				s.colorRepeat3(cw, py, px, flipColor(xColor)))
		}
		cw = mask(seq.next())
		c.add(CostInterchange80, s.interchange(cw, px, py, len(pl), mx, ux, 80)+
			s.interchange(cw, py, px, len(pl), my, uy, 80))
		cw = mask(seq.next())
		c.add(CostTranspose80, s.transpose(cw, pl, pair, x, x+1, ux, 80, pBegin, pEnd)+
			s.transpose(cw, pl, pair, x+1, x, uy, 80, pBegin, pEnd))
		if px.Multiround%2 == 1 {
			cw = mask(seq.next())
			c.add(CostColorAlternate, s.colorAlternate(cw, px, py, xColor)+
				s.colorAlternate(cw, py, px, flipColor(xColor)))
		}
		cw = mask(seq.next())
		c.add(CostInterchange0, s.interchange(cw, px, py, len(pl), mx, ux, 0)+
			s.interchange(cw, py, px, len(pl), my, uy, 0))
		cw = mask(seq.next())
		c.add(CostTranspose0, s.transpose(cw, pl, pair, x, x+1, ux, 0, pBegin, pEnd)+
			s.transpose(cw, pl, pair, x+1, x, uy, 0, pBegin, pEnd))
		wCodePairCard = seq.next()
		if doCodes {
			cw = mask(seq.next())
			c.add(CostReversedColors, s.reversedColors(cw, px, py, xColor)+
				s.reversedColors(cw, py, px, flipColor(xColor)))
			cw = mask(seq.next())
			c.add(CostBoardOverlap, s.boardOverlap(cw, pl, pair, px, py)+
				s.boardOverlap(cw, pl, pair, py, px))
			cw = mask(seq.next())
			c.add(CostBoardOrder, s.boardOrder(cw, pl, pair, px, py, x, x+1, pBegin, pEnd)+
				s.boardOrder(cw, pl, pair, py, px, x+1, x, pBegin, pEnd))
		}
		if !c.Equal(lastC) {
			costPlayers[pair[x]] = true
			if x+1 < pEnd {
				costPlayers[pair[x+1]] = true
			}
		}
	}

	// With an odd section and no house player one forced bye is expected;
	// crediting it lets a perfect pairing reach the zero vector. The
	// credited player keeps no bye-mismatch code either.
	if !isHousePlayer && pEnd > 0 && pl[pair[pEnd-1]].IsBye() && !pl[pair[pEnd-2]].ByeRequest {
		c.v[CostByeChoice]--
		if doCodes {
			p := pl[pair[pEnd-2]]
			p.WarnCodes = strings.ReplaceAll(p.WarnCodes, string(byeChoiceCode), "")
		}
	}

	if usePairable {
		c.v[CostCantPairPlayers] = s.pairableCost(mask(wCodePlayers), pl, pair, remainingRounds, false)
		if !s.Use28N3Zero && c.v[CostCantPairPlayers] == 0 {
			c.v[CostCantPairTeams] = s.pairableCost(mask(wCodeTeams), pl, pair, remainingRounds, true)
		}
	}
	c.v[CostPairingCard] = s.pairingCard(mask(wCodePairCard), pl, pair, costPlayers)

	if doCodes {
		for _, p := range pl {
			codes := []byte(p.WarnCodes)
			sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
			p.WarnCodes = string(codes)
		}
	}
	return c
}
