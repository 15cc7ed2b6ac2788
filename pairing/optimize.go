package pairing

import "github.com/rs/zerolog/log"

// moves in order of increasing complexity; tuples whose positions are at
// most two seats apart only use the plain swap.
const (
	moveSwap = iota
	moveRotateDown
	moveRotateUp
	moveGroupRotateDown
	moveGroupRotateUp
	moveColorRotate
	moveShiftRotateDown
	moveShiftRotateUp
	numMoves
)

// MinimizePairingCost runs greedy descent over the move neighborhoods.
// Depth is the number of simultaneous position swaps considered per step;
// depth 1 is fast, depth 2 takes noticeably longer on small sections, and
// anything beyond that is for desperate sections only. The pair vector is
// rewritten with the best pairing found; monotone improvement is
// guaranteed, a global optimum is not.
func (s *Session) MinimizePairingCost(pl []*Player, pair []int, remainingRounds, depth, pBegin, pEndConst int, usePairable bool) Cost {
	pEnd := pEndConst
	hasBye := pEnd%2 != 0
	if hasBye && pEnd < len(pair) && pl[pair[pEnd]].IsBye() {
		pEnd++
	}

	bestPair := append([]int(nil), pair...)
	bestCostPlayers := make(map[int]bool)
	bestCost := s.CostFunction(pl, bestPair, remainingRounds, pBegin, pEnd, false, usePairable, bestCostPlayers)
	noShift := make([]bool, pEnd)
	// search only around players that contribute nonzero cost
	const isCostSearch = true

	for d := 1; pBegin < pEnd && d <= depth; d++ {
		idx := make([]int, 2*d)
		for j := range idx {
			idx[j] = pBegin
		}
		isFoundBetter := false

	enumerate:
		for !bestCost.IsZero() {
			// advance the position odometer, skipping bye seats
			carried := 0
			for j := 0; j < len(idx); j++ {
				idx[j]++
				if idx[j] < pEnd && !pl[bestPair[idx[j]]].IsBye() {
					break
				}
				idx[j] = pBegin
				carried++
				if carried == len(idx) {
					break enumerate // wrapped around, done at this depth
				}
			}
			wrapped := true
			for j := range idx {
				if idx[j] != pBegin {
					wrapped = false
					break
				}
			}
			if wrapped {
				break
			}
			for j := 0; j < len(idx); j += 2 {
				if j > 0 {
					if d <= 1 && idx[j] <= idx[j-2] {
						continue enumerate
					}
					if d > 1 && idx[j] < idx[j-2] {
						continue enumerate
					}
				}
				if d <= 1 && idx[j+1] <= idx[j] {
					continue enumerate
				}
				if d > 1 && idx[j+1] < idx[j] {
					continue enumerate
				}
				if isCostSearch && !bestCostPlayers[bestPair[idx[j]]] && !bestCostPlayers[bestPair[idx[j+1]]] {
					continue enumerate
				}
			}

			maxChange := 0
			for j := 0; j < len(idx); j += 2 {
				if maxChange < idx[j+1]-idx[j] {
					maxChange = idx[j+1] - idx[j]
				}
			}
			moveCount := numMoves
			if maxChange <= 2 {
				moveCount = 1
			}

		moves:
			for mv := 0; mv < moveCount; mv++ {
				testPair := append([]int(nil), bestPair...)
				for j := 0; j < len(idx); j += 2 {
					if idx[j] >= idx[j+1] {
						continue // duplicate digit at depth >= 2
					}
					hasBye2 := hasBye && (idx[j] >= pEnd-2 || idx[j+1] >= pEnd-2)
					pEnd2 := pEnd
					if hasBye && !hasBye2 {
						pEnd2 = pEnd - 2
					}
					switch mv {
					case moveSwap:
						testPair[idx[j]], testPair[idx[j+1]] = testPair[idx[j+1]], testPair[idx[j]]
					case moveRotateDown:
						rotatePairDown(testPair, idx[j], idx[j+1], pBegin, pEnd2, hasBye2, false, noShift)
					case moveRotateUp:
						rotatePairUp(testPair, idx[j], idx[j+1], pBegin, pEnd2, hasBye2, false, noShift)
					case moveGroupRotateDown, moveGroupRotateUp, moveColorRotate:
						// rotate within the score group only (plus the odd
						// pull-up or drop-down straggler at either edge)
						score := pl[testPair[idx[j]]].Score
						if pl[testPair[idx[j+1]]].Score != score {
							continue moves
						}
						sBegin := idx[j] / 2 * 2
						for sBegin > pBegin && pl[testPair[sBegin-2]].Score == score && pl[testPair[sBegin-1]].Score == score {
							sBegin -= 2
						}
						oddPullUp := idx[j] == sBegin+1 && pl[testPair[sBegin]].Score > score
						sEnd := idx[j+1]/2*2 + 2
						for sEnd < pEnd2 && pl[testPair[sEnd]].Score == score && pl[testPair[sEnd+1]].Score == score {
							sEnd += 2
						}
						oddDropDown := idx[j+1] == sEnd-2 &&
							(pl[testPair[sEnd-1]].Score < score || pl[testPair[sEnd-1]].IsBye())
						switch mv {
						case moveGroupRotateDown:
							rotatePairDown(testPair, idx[j], idx[j+1], sBegin, sEnd, oddDropDown, oddPullUp, noShift)
						case moveGroupRotateUp:
							rotatePairUp(testPair, idx[j], idx[j+1], sBegin, sEnd, oddDropDown, oddPullUp, noShift)
						default:
							if !rotateColor(pl, testPair, idx[j], idx[j+1], sBegin, sEnd, oddDropDown, oddPullUp) {
								continue moves
							}
						}
					case moveShiftRotateDown, moveShiftRotateUp:
						// tag boards whose current color disagrees with the
						// round's opening color so the rotation flips them
						shift := make([]bool, pEnd2)
						first := pBegin + 1
						if pBegin%2 != 0 {
							first = pBegin - 1
						}
						startColor := AllocateColor(pl[testPair[pBegin]], pl[testPair[first]], pBegin/2%2 == 0)
						for cpos := pBegin/2*2 + 2; cpos < pEnd2; cpos += 2 {
							shift[cpos] = startColor != AllocateColor(pl[testPair[cpos]], pl[testPair[cpos+1]], cpos/2%2 == 0)
						}
						if mv == moveShiftRotateDown {
							rotatePairDown(testPair, idx[j], idx[j+1], pBegin, pEnd2, hasBye2, false, shift)
						} else {
							rotatePairUp(testPair, idx[j], idx[j+1], pBegin, pEnd2, hasBye2, false, shift)
						}
					}
				}
				// repair seat order: the upper half always comes first
				for y := 0; y+1 < len(testPair); y += 2 {
					if testPair[y] >= testPair[y+1] {
						testPair[y], testPair[y+1] = testPair[y+1], testPair[y]
					}
				}
				SortBoards(pl, testPair)
				testCostPlayers := make(map[int]bool)
				testCost := s.CostFunction(pl, testPair, remainingRounds, pBegin, pEnd, false, usePairable, testCostPlayers)
				if testCost.Less(bestCost) {
					// greedy: accept immediately and keep enumerating
					// around the new basin
					bestPair = testPair
					bestCost = testCost
					bestCostPlayers = testCostPlayers
					isFoundBetter = true
				}
			}
		}
		if isFoundBetter {
			d-- // repeat this depth from the new basin
		}
	}
	copy(pair, bestPair)

	if !usePairable {
		c := s.CostFunction(pl, pair, remainingRounds, pBegin, pEnd, false, true, make(map[int]bool))
		if !c.Equal(bestCost) {
			// the search bypassed a future-round infeasibility; redo with
			// the feasibility cost enabled
			log.Debug().Str("cost", c.String()).Msg("redoing search with pairable cost")
			return s.MinimizePairingCost(pl, pair, remainingRounds, depth, pBegin, pEnd, true)
		}
	}
	// same pairing, but with warn codes and descriptions filled in
	return s.CostFunction(pl, pair, remainingRounds, pBegin, pEnd, true, true, make(map[int]bool))
}
