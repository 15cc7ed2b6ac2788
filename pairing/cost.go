package pairing

import (
	"fmt"
	"math"
	"strings"
)

// CostValue is one component of the pairing cost. Lower is better.
type CostValue = int64

// MaxCostValue clamps overflowing penalties.
const MaxCostValue = math.MaxInt64

// MaxRating is one more than the highest possible rating; interchange and
// transpose penalties are scaled by it so the rating delta rides along in
// the low digits.
const MaxRating = 30000 + 1

// Cost fields in priority order, most significant first. The comments give
// the relevant USCF rules.
const (
	CostByeChoice               = iota // 22C, 28M1, 29K
	CostByeAgain                       // 28L3
	CostPlayersMeetTwice               // 27A1, 28S1, 28S2, 29C2
	CostCantPairPlayers                // 27A1, 29C2, 29K, 29L
	CostTeamBlocks2                    // 28N, 28N1, 28T (only without the 28N3-at-zero variation)
	CostUnequalScores                  // 27A2, 29A, 29B
	CostTeamBlocks                     // 28N, 28N1, 28T, 29C2
	CostCantPairTeams                  // 28N, 28N1, 28T, 29K, 29L
	CostByeAfterHalf                   // 28L4
	CostLowestScoreBye                 // 28L2, 28L5
	CostLowestRatedBye                 // 28L2, 28L5
	CostOddPlayerUnrated               // 29D1
	CostOddPlayerMultipleGroups        // 29D2
	CostInterchange200                 // 27A3, 29C, 29D, 29E5
	CostTranspose200                   // 27A5, 29C, 29D, 29E
	CostColorImbalance                 // 27A4, 29E4
	CostColorRepeat3                   // 29E5f
	CostInterchange80                  // 27A3, 29D, 29E5
	CostTranspose80                    // 27A5, 29C, 29D, 29E
	CostColorAlternate                 // 27A5
	CostInterchange0                   // 27A3, 29D, 29E5
	CostTranspose0                     // 27A5, 29C, 29D, 29E
	CostPairingCard                    // 28A, 28B, 29A
	CostReversedColors                 // 28J, 29E
	CostBoardOverlap                   // 28J
	CostBoardOrder                     // 28J
	NumCostFields
)

var costFieldNames = [NumCostFields]string{
	"byeChoice", "byeAgain", "playersMeetTwice", "cantPairPlayers",
	"teamBlocks2", "unequalScores", "teamBlocks", "cantPairTeams",
	"byeAfterHalf", "lowestScoreBye", "lowestRatedBye", "oddPlayerUnrated",
	"oddPlayerMultipleGroups", "interchange200", "transpose200",
	"colorImbalance", "colorRepeat3", "interchange80", "transpose80",
	"colorAlternate", "interchange0", "transpose0", "pairingCard",
	"reversedColors", "boardOverlap", "boardOrder",
}

// ratioFields print as quotient,remainder of players*MaxRating, exposing
// the violation count and the rating delta separately.
var ratioFields = map[int]bool{
	CostInterchange200: true, CostTranspose200: true,
	CostInterchange80: true, CostTranspose80: true,
	CostInterchange0: true, CostTranspose0: true,
}

// Cost is the lexicographically ordered tuple the optimizer minimizes.
// The zero value is the perfect pairing.
type Cost struct {
	v       [NumCostFields]CostValue
	players int // for printing ratio fields
}

// Less compares lexicographically; the earlier field dominates.
func (c Cost) Less(o Cost) bool {
	for x := 0; x < NumCostFields; x++ {
		if c.v[x] != o.v[x] {
			return c.v[x] < o.v[x]
		}
	}
	return false
}

// Equal ignores the players annotation.
func (c Cost) Equal(o Cost) bool { return c.v == o.v }

// IsZero reports a perfect pairing.
func (c Cost) IsZero() bool { return c.v == [NumCostFields]CostValue{} }

// Value returns one named field.
func (c Cost) Value(field int) CostValue { return c.v[field] }

func (c *Cost) add(field int, cv CostValue) { c.v[field] += cv }

func (c Cost) String() string {
	var b strings.Builder
	for x := 0; x < NumCostFields; x++ {
		if c.v[x] == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		if ratioFields[x] && c.players > 0 {
			scale := CostValue(MaxRating) * CostValue(c.players)
			fmt.Fprintf(&b, "%d)%s=%d,%d", x+1, costFieldNames[x], c.v[x]/scale, c.v[x]%scale)
		} else {
			fmt.Fprintf(&b, "%d)%s=%d", x+1, costFieldNames[x], c.v[x])
		}
	}
	if b.Len() == 0 {
		return "zero"
	}
	return b.String()
}

// Multiple grows a violation count super-linearly: n^0 + n^1 + ... +
// n^(cv-1), clamped at MaxCostValue. One violation always outweighs any
// pile of lower-priority ones this way.
func Multiple(cv CostValue, n int) CostValue {
	var result CostValue
	pow := CostValue(1)
	for x := CostValue(0); x < cv; x++ {
		prev := result
		result += pow
		if result < prev {
			return MaxCostValue
		}
		if x+1 < cv {
			next := pow * CostValue(n)
			if n != 0 && next/CostValue(n) != pow {
				return MaxCostValue
			}
			pow = next
		}
	}
	return result
}

// Session owns the per-run pairing state: the warn-code descriptions and
// the rule variations in effect. Keeping it per run avoids any
// order-of-initialization hazard with process-wide tables.
type Session struct {
	// Use28N3Zero applies variation 28N3 with the lowest possible
	// threshold so team blocks in small sections do not impact top
	// players; it disables the teamBlocks2 and cantPairTeams fields.
	Use28N3Zero bool

	desc map[byte]string
}

// NewSession returns a Session with the default rule variations.
func NewSession() *Session {
	return &Session{Use28N3Zero: true, desc: make(map[byte]string)}
}

// Describe returns the human-readable rule text for a warn-code letter.
func (s *Session) Describe(code byte) string { return s.desc[code] }

// costDescription records the description for a letter (first write wins)
// and appends the letter to the player's warn codes. A zero code means the
// pass is not collecting codes.
func (s *Session) costDescription(warnCodes *string, code byte, desc string) {
	if code == 0 {
		return
	}
	if s.desc == nil {
		s.desc = make(map[byte]string)
	}
	if _, ok := s.desc[code]; !ok {
		s.desc[code] = desc
	}
	if !strings.ContainsRune(*warnCodes, rune(code)) {
		*warnCodes += string(code)
	}
}

// codeSeq hands out warn-code letters in component execution order:
// A-Z then a-z.
type codeSeq struct{ c byte }

func newCodeSeq() codeSeq { return codeSeq{c: 'A' - 1} }

func (w *codeSeq) next() byte {
	if w.c == 'Z' {
		w.c = 'a'
	} else {
		w.c++
	}
	return w.c
}
