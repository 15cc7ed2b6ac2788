package pairing

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// pairGrid is a square players x players matrix. The lower triangle holds
// past meetings (negative) and the rounds the search has already filled
// (their round number), the upper triangle the tentative assignments of
// the round being filled (the round number). The diagonal is poisoned.
type pairGrid [][]int

func newPairGrid(n int) pairGrid {
	g := make(pairGrid, n)
	for y := range g {
		g[y] = make([]int, n)
		g[y][y] = -11
	}
	return g
}

func (g pairGrid) clone() pairGrid {
	n := make(pairGrid, len(g))
	for y := range g {
		n[y] = append([]int(nil), g[y]...)
	}
	return n
}

// byeGrid marks bye rounds: bye[x][r] is nonzero when player x sits
// out future round r, counted from the end.
type byeGrid [][]int

// pairable reports whether the remaining rounds can all be completed
// without rematches, given the meetings recorded in grid and the upcoming
// byes. It is a bounded backtracking search: fill the current round board
// by board, then recurse into the next round with the assignments moved
// into the lower triangle.
func pairable(grid pairGrid, rounds int, bye byeGrid) bool {
	if rounds <= 0 {
		return true
	}
	players := len(grid)
	byes := 0
	for x := 0; x < players; x++ {
		if bye[x][rounds-1] != 0 {
			byes++
		}
	}
	return pairableRange(grid, rounds, bye, 0, players-(players-byes)/2+1)
}

// pairableRange tries rows [begin, end): begin tracks pairings already
// made this round, end the pairings still needed.
func pairableRange(grid pairGrid, rounds int, bye byeGrid, begin, end int) bool {
	players := len(grid)
	if players <= 1 {
		return true
	}
	for row := begin; row < end && row < players; row++ {
		if bye[row][rounds-1] != 0 {
			continue
		}
	colScan:
		for col := row + 1; col < players; col++ {
			if bye[col][rounds-1] != 0 {
				continue
			}
			if grid[row][col] != 0 || grid[col][row] != 0 {
				continue
			}
			for z := 0; z < row; z++ {
				if grid[z][col] != 0 || grid[z][row] != 0 {
					continue colScan
				}
			}
			grid[row][col] = rounds // try this pairing
			if end >= players {
				// round complete; check the next one
				if rounds <= 1 {
					return true
				}
				newGrid := grid.clone()
				for x := 0; x < players-1; x++ {
					for y := x + 1; y < players; y++ {
						if grid[x][y] != 0 {
							newGrid[y][x] = rounds
						}
						newGrid[x][y] = 0
					}
				}
				if pairable(newGrid, rounds-1, bye) {
					copy(grid, newGrid)
					return true
				}
			} else if pairableRange(grid, rounds, bye, row+1, end+1) {
				return true
			}
			grid[row][col] = 0 // this pairing didn't work
		}
	}
	return false
}

// oneTeamMajority reports whether a single team holds at least half the
// section. Exactly half is included because it is already a performance
// problem for the feasibility search.
func oneTeamMajority(pl []*Player) bool {
	if len(pl) == 0 {
		return false
	}
	team := make([]int, 0, len(pl)-1)
	for _, p := range pl[:len(pl)-1] {
		team = append(team, p.TeamID)
	}
	sort.Ints(team)
	mode, next := 0, 0
	modeCnt, nextCnt := 0, 0
	for _, t := range team {
		if t == 0 {
			continue // not on a team
		}
		if t == next {
			nextCnt++
		} else {
			next = t
			nextCnt = 1
		}
		if nextCnt > modeCnt {
			mode = next
			modeCnt = nextCnt
		}
	}
	return mode != 0 && 2*modeCnt >= len(team)
}

// pairableCost returns 1 when the remaining rounds cannot be completed
// without rematches (rules 27A1, 29C2, 29K, 29L; with isTeam also 28N,
// 28N1, 28T). Rather than forcing published round-robin tables, the
// search blends round-robin and Swiss: it invents round-robin-like
// completions as players withdraw, register late, or request byes.
func (s *Session) pairableCost(code byte, pl []*Player, pair []int, remainingRounds int, isTeam bool) CostValue {
	if remainingRounds <= 0 {
		return 0
	}
	if isTeam && oneTeamMajority(pl) {
		// a majority team forces rematches eventually; calling that
		// infeasible up front skips an exponential search
		return 1
	}
	rounds := pl[0].Rnd + remainingRounds
	num := len(pl) - 1 // non-bye players
	bye := make(byeGrid, num)
	for y := 0; y < num; y++ {
		bye[y] = make([]int, remainingRounds)
	}
	pg := newPairGrid(num)
	for y := 0; y < num; y++ {
		r1 := pl[y].Rank
		if r1 >= num {
			log.Error().Int("rank", r1).Int("players", num).Msg("pairable inputs problem")
			continue
		}
		for _, rnd := range pl[y].ByeRounds {
			if rnd > rounds {
				log.Error().Int("byeRound", rnd).Int("rank", r1).Msg("invalid bye round")
			} else if rounds-rnd < remainingRounds {
				bye[r1][rounds-rnd] = 1
			}
		}
		for _, r2 := range pl[y].OpponentRanks {
			if r2 >= num {
				continue
			}
			if r1 < r2 {
				pg[r2][r1] = -1
			} else {
				pg[r1][r2] = -1
			}
		}
		if isTeam {
			for _, r2 := range pl[y].TeammateRanks {
				if r2 >= num {
					continue
				}
				if r1 < r2 {
					pg[r2][r1] = -1
				} else {
					pg[r1][r2] = -1
				}
			}
		}
	}
	// also record the proposed current pairings, not just history
	for y := 0; y+1 < len(pair); y += 2 {
		r1, r2 := pair[y], pair[y+1]
		if !pl[r1].IsBye() && !pl[r2].IsBye() {
			if r1 < r2 {
				pg[r2][r1] = -1
			} else {
				pg[r1][r2] = -1
			}
		}
	}
	if pairable(pg, remainingRounds, bye) {
		return 0
	}
	desc := "Can't pair future rounds (27A1)"
	if isTeam {
		desc = "Can't pair future rounds with team block (28N,U)"
	}
	s.costDescription(&pl[0].WarnCodes, code, desc)
	return 1
}
