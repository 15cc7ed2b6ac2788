package pairing

import "strings"

func sameColor(c byte) byte {
	switch upper(c) {
	case 'W':
		return 'W'
	case 'B':
		return 'B'
	}
	return 'x'
}

func flipColor(c byte) byte {
	switch upper(c) {
	case 'W':
		return 'B'
	case 'B':
		return 'W'
	}
	return 'x'
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

func isUpperLetter(c byte) bool { return 'A' <= c && c <= 'Z' }

// DueColor derives the rule 29E color preference from a color history.
// Upper case means equalization (strong), lower case alternation (weak),
// "x" neither. The length of an equalization string is the imbalance.
// For multi-game rounds only the first game of each series counts.
func DueColor(history string, multiround int) string {
	if multiround > 1 && len(history) > 0 && len(history)%multiround == 0 {
		var b strings.Builder
		for x := 0; x < len(history); x += multiround {
			b.WriteByte(history[x])
		}
		history = b.String()
	}
	unplayed := 0
	for x := 0; x < len(history); x++ {
		if 'a' <= history[x] && history[x] <= 'z' {
			unplayed++
		}
	}
	if unplayed == len(history) {
		return "x"
	}
	whites := strings.Count(history, "W")
	blacks := strings.Count(history, "B")
	if whites > blacks {
		return strings.Repeat("B", whites-blacks)
	}
	if blacks > whites {
		return strings.Repeat("W", blacks-whites)
	}
	for x := len(history); x > 0; x-- {
		if history[x-1] == 'W' || history[x-1] == 'B' {
			return string(lower(flipColor(history[x-1])))
		}
	}
	return "x"
}

// AllocateColor assigns x's color on a board per rules 29E, 28J, and 30F.
// x and y are the ordered pair on the board; isOddBoard is true for board
// indexes 0, 2, 4, ... (the "odd" boards of rule 29E2 counting from one).
// The first matching clause wins.
func AllocateColor(x, y *Player, isOddBoard bool) byte {
	// A player facing the bye gets white.
	if y.IsBye() {
		return 'W'
	}
	if x.IsBye() {
		return 'B'
	}

	// Neither side due a color; rules 28J & 29E2 alternate the round-one
	// top-board color down the boards.
	isUpper := x.Less(y)
	if x.DueColor == "x" && y.DueColor == "x" {
		if isUpper == isOddBoard {
			return sameColor(x.FirstColor)
		}
		return flipColor(x.FirstColor)
	}

	// Prior meetings against this opponent: equalize head-to-head (30F).
	matchWhite, matchBlack := 0, 0
	yKey := OpponentKey{PlayID: y.PlayID, Reentry: y.Reentry}
	for z, opp := range x.Opponents {
		if opp == yKey {
			switch upper(x.PlayedColors[z]) {
			case 'W':
				matchWhite++
			case 'B':
				matchBlack++
			}
		}
	}
	if matchWhite < matchBlack {
		return 'W'
	}
	if matchBlack < matchWhite {
		return 'B'
	}

	// One side not due any color, or the due colors differ so each side
	// gets its own.
	if y.DueColor == "x" {
		return sameColor(x.DueColor[0])
	}
	if x.DueColor == "x" {
		return flipColor(y.DueColor[0])
	}
	if sameColor(y.DueColor[0]) != sameColor(x.DueColor[0]) {
		return sameColor(x.DueColor[0])
	}

	// Both want the same color: equalization outranks alternation, and a
	// bigger imbalance outranks a smaller one.
	if isUpperLetter(x.DueColor[0]) && (!isUpperLetter(y.DueColor[0]) || len(x.DueColor) > len(y.DueColor)) {
		return sameColor(x.DueColor[0])
	}
	if isUpperLetter(y.DueColor[0]) && (!isUpperLetter(x.DueColor[0]) || len(y.DueColor) > len(x.DueColor)) {
		return flipColor(y.DueColor[0])
	}

	// Most recent round where the histories differ breaks the tie (29E4.4).
	for z := min(len(x.ColorHistory), len(y.ColorHistory)); z > 0; z-- {
		if sameColor(x.ColorHistory[z-1]) != sameColor(y.ColorHistory[z-1]) {
			if sameColor(x.ColorHistory[z-1]) == 'x' {
				return sameColor(y.ColorHistory[z-1])
			}
			return flipColor(x.ColorHistory[z-1])
		}
	}

	// Rank order breaks the final tie (29E4.5).
	if x.Rank < y.Rank {
		return sameColor(x.DueColor[0])
	}
	return flipColor(y.DueColor[0])
}
