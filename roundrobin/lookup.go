// Package roundrobin looks up Crenshaw-Berger fixed-schedule pairings for
// small round-robin sections, including the published color reversals that
// apply when a player withdraws in the first half of the event.
package roundrobin

import (
	"fmt"
	"strconv"
	"strings"
)

// Colors as they appear on the wall chart.
const (
	White = 'W'
	Black = 'B'
)

type tableRow struct {
	size  int
	round int
	slot  int // reversals only: the withdrawn slot
	games []game
}

type game struct {
	white, black int
}

func parseGames(field string) ([]game, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}
	parts := strings.Fields(field)
	games := make([]game, 0, len(parts))
	for _, part := range parts {
		w, b, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("malformed game %q", part)
		}
		wn, err := strconv.Atoi(w)
		if err != nil {
			return nil, err
		}
		bn, err := strconv.Atoi(b)
		if err != nil {
			return nil, err
		}
		games = append(games, game{white: wn, black: bn})
	}
	return games, nil
}

func parseRow(row string, withSlot bool) (tableRow, error) {
	fields := strings.SplitN(row, "\t", 4)
	want := 3
	if withSlot {
		want = 4
	}
	if len(fields) < want {
		return tableRow{}, fmt.Errorf("malformed table row %q", row)
	}
	var tr tableRow
	var err error
	if tr.size, err = strconv.Atoi(fields[0]); err != nil {
		return tableRow{}, err
	}
	if tr.round, err = strconv.Atoi(fields[1]); err != nil {
		return tableRow{}, err
	}
	gameField := fields[2]
	if withSlot {
		if tr.slot, err = strconv.Atoi(fields[2]); err != nil {
			return tableRow{}, err
		}
		gameField = fields[3]
	}
	if tr.games, err = parseGames(gameField); err != nil {
		return tableRow{}, err
	}
	return tr, nil
}

// Lookup returns the board (1..N/2) and color for one player of an
// N-player round robin. player is the player's slot, 1..N, in rand order.
// withdrawnPlayer is the slot of a player who withdrew in the first half,
// or zero for none. An odd competitor count gets a virtual bye at slot N+1
// and the N+1 schedule; withdrawals are rejected in that case.
func Lookup(competitors, round, player, withdrawnPlayer int) (board int, color byte, err error) {
	isBye := false
	if competitors%2 == 1 {
		if withdrawnPlayer != 0 {
			return 0, 0, fmt.Errorf("withdrawals are not supported with a bye slot")
		}
		isBye = true
		competitors++
	}
	if withdrawnPlayer == 0 {
		withdrawnPlayer = competitors
	}

	opponent := 0
	for _, row := range pairings {
		tr, perr := parseRow(row, false)
		if perr != nil {
			return 0, 0, perr
		}
		if tr.size != competitors || tr.round != round {
			continue
		}
		for b, g := range tr.games {
			if g.white == player {
				opponent = g.black
				board = b + 1
				color = White
			}
			if g.black == player {
				opponent = g.white
				board = b + 1
				color = Black
			}
		}
	}
	if opponent == 0 || opponent == player || opponent > competitors {
		return 0, 0, fmt.Errorf("no Crenshaw-Berger pairing for %d players, round %d, player %d",
			competitors, round, player)
	}

	for _, row := range reversals {
		tr, perr := parseRow(row, true)
		if perr != nil {
			return 0, 0, perr
		}
		if tr.size != competitors || tr.slot != withdrawnPlayer {
			continue
		}
		for _, g := range tr.games {
			if g.white == player && g.black == opponent {
				if isBye || round < tr.round {
					return 0, 0, fmt.Errorf("reversal table mismatch for %d players, round %d", competitors, round)
				}
				color = White
			}
			if g.black == player && g.white == opponent {
				if isBye || round < tr.round {
					return 0, 0, fmt.Errorf("reversal table mismatch for %d players, round %d", competitors, round)
				}
				color = Black
			}
		}
	}
	return board, color, nil
}
