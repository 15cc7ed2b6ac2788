package pairing

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/castling-club/pairgen/roundrobin"
)

// FindPairings pairs one section for one round. It canonicalizes the
// roster (appending the bye sentinel if needed), builds the starting
// pairing from the board hints, optionally overwrites it with the
// first-pairings heuristic, and runs the optimizer. On return every
// player carries a board number, a color, and any warn codes; the slice
// is reordered and possibly one element longer. Round-robin sections skip
// the search and use the Crenshaw-Berger tables.
//
// firstBoardNum zero means "keep the lowest hinted board number". The
// returned cost is the final evaluation; a nonzero cost means the pairing
// still violates the named rules and the caller may re-run with a
// different hint.
func (s *Session) FindPairings(pl []*Player, totalRounds, firstBoardNum, depth int, useFirstPairings, skipOptimize bool, secName string) ([]*Player, Cost, error) {
	if err := validate(pl); err != nil {
		return pl, Cost{}, err
	}
	if len(pl) <= 1 {
		log.Warn().Str("section", secName).Msg("nobody active to pair")
	} else if pl[0].Multiround != 1 {
		checkMultiroundOpponents(pl, secName)
	}

	// an odd number of actives turns into a bye request for the house player
	housePlayer := -1
	players := 0
	for x, p := range pl {
		if !p.ByeRequest && !p.Paired && !p.IsBye() {
			players++
			if p.ByeHouse {
				housePlayer = x
			}
		}
	}
	if players%2 == 0 {
		housePlayer = -1
	}
	if housePlayer >= 0 {
		log.Info().Str("player", pl[housePlayer].Name).Str("section", secName).
			Msg("requesting bye for house player")
		pl[housePlayer].ByeRequest = true
		players--
	}

	pl = Canonicalize(pl)

	// short-cut for round robin pairings
	if len(pl) > 0 && (pl[0].TrnType == TypeRoundRobin || pl[0].TrnType == TypeDoubleRoundRobin) {
		cost, err := s.roundRobinPairings(pl, totalRounds, firstBoardNum)
		return pl, cost, err
	}

	if firstBoardNum == 0 {
		lowBoard := int(^uint(0) >> 1)
		for _, p := range pl {
			if !p.IsBye() && p.BoardNum < lowBoard {
				lowBoard = p.BoardNum
			}
		}
		firstBoardNum = lowBoard
	}

	pair := HintPairings(pl, true)
	if useFirstPairings {
		FirstPairings(pl, pair, players, totalRounds)
	}

	var cost Cost
	if skipOptimize {
		cost = s.CostFunction(pl, pair, totalRounds-pl[0].Rnd, 0, (players+1)/2*2, true, true, make(map[int]bool))
	} else {
		cost = s.MinimizePairingCost(pl, pair, totalRounds-pl[0].Rnd, depth, 0, players, false)
	}

	assignBoardsAndColors(pl, pair, firstBoardNum)
	return pl, cost, nil
}

// checkMultiroundOpponents verifies that a player's recorded opponents
// are identical within each multiround block. The pairing proceeds on a
// mismatch; this is a data problem for the operator.
func checkMultiroundOpponents(pl []*Player, secName string) {
	mr := pl[0].Multiround
	for _, px := range pl {
		for y := 0; y < len(px.Opponents); y += mr {
			opponent := px.Opponents[y]
			for z := y; z < y+mr && z < len(px.Opponents); z++ {
				if px.Opponents[z] != opponent {
					log.Error().Str("section", secName).Int("playID", px.PlayID).
						Msg("not same opponents across multiround")
					break
				}
			}
		}
	}
}

// roundRobinPairings assigns boards and colors from the Crenshaw-Berger
// tables. Slot order comes from the rand lots, stable across rounds.
func (s *Session) roundRobinPairings(pl []*Player, totalRounds, firstBoardNum int) (Cost, error) {
	sort.SliceStable(pl, func(i, j int) bool { return lessRobin(pl[i], pl[j]) })
	totalRounds /= pl[0].Multiround
	if len(pl)-1 != totalRounds {
		return Cost{}, fmt.Errorf("round robin of %d slots needs %d rounds, got %d",
			len(pl), len(pl)-1, totalRounds)
	}
	withdrawnPlayer := 0
	for x, px := range pl {
		if len(px.ByeRounds) > 0 && px.ByeRounds[0] <= (totalRounds+1)/2 {
			if withdrawnPlayer != 0 {
				return Cost{}, fmt.Errorf("more than one first-half withdrawal in round robin")
			}
			withdrawnPlayer = x + 1
		}
	}
	for x, px := range pl {
		board, color, err := roundrobin.Lookup(len(pl), (px.Rnd-1)/px.Multiround+1, x+1, withdrawnPlayer)
		if err != nil {
			return Cost{}, err
		}
		px.BoardNum = board + firstBoardNum - 1
		px.BoardColor = color
	}
	// the player drawn against the virtual slot gets white over the bye
	bye := pl[len(pl)-1]
	if bye.IsBye() {
		for _, px := range pl[:len(pl)-1] {
			if px.BoardNum == bye.BoardNum {
				px.BoardColor = 'W'
				bye.BoardColor = 'B'
				break
			}
		}
	}
	return Cost{}, nil
}

// assignBoardsAndColors orders the finished boards (byes last), numbers
// them from firstBoardNum, and fixes final colors via AllocateColor.
func assignBoardsAndColors(pl []*Player, pair []int, firstBoardNum int) {
	// sort boards by the canonical order of their better player, byes last
	for x := 2; x < len(pair); x += 2 {
		for y := x; y > 0; y -= 2 {
			z1 := y - 1
			if pl[pair[y-2]].Less(pl[pair[y-1]]) {
				z1 = y - 2
			}
			z2 := y + 1
			if pl[pair[y]].Less(pl[pair[y+1]]) {
				z2 = y
			}
			b1 := pl[pair[y-2]].IsBye() || pl[pair[y-1]].IsBye()
			b2 := pl[pair[y]].IsBye() || pl[pair[y+1]].IsBye()
			if !b1 && b2 {
				break
			}
			if b1 == b2 && pl[pair[z1]].Less(pl[pair[z2]]) {
				break
			}
			pair[y], pair[y-2] = pair[y-2], pair[y]
			pair[y+1], pair[y-1] = pair[y-1], pair[y+1]
		}
	}
	for x := 0; x < len(pair); x += 2 {
		upperP := pl[pair[x]]
		lowerP := pl[pair[x+1]]
		upperP.BoardNum = firstBoardNum + x/2
		lowerP.BoardNum = upperP.BoardNum
		lowerP.BoardColor = AllocateColor(lowerP, upperP, x/2%2 == 0)
		upperP.BoardColor = flipColor(lowerP.BoardColor)
	}
	assertNoDuplicates(pl, pair)
	bye := pl[len(pl)-1]
	if bye.IsBye() {
		bye.BoardNum = -1
	}
}
