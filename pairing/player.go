// Package pairing computes round pairings for one section of a Swiss-system
// tournament under the USCF rules. The pairing is found by greedy local
// search: starting from a hint (or the first-pairings heuristic), the
// optimizer applies swap and rotate moves to the board vector and keeps any
// move that lowers a lexicographically ordered cost vector encoding the
// prioritized rules (27A, 28, 29, 30F). Small round-robin sections bypass
// the search and use the Crenshaw-Berger tables instead.
package pairing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ByeID is the play ID reserved for the synthetic bye opponent. It must
// never appear as a real player's ID.
const ByeID = 0

// Tournament types.
const (
	TypeSwiss            = 'S'
	TypeMatch            = 'M'
	TypeRoundRobin       = 'R'
	TypeDoubleRoundRobin = 'D'
	TypeDoubleSwiss      = '2'
)

// OpponentKey identifies a prior opponent: the play ID plus the reentry
// sequence number for people who re-registered during the tournament.
type OpponentKey struct {
	PlayID  int
	Reentry int
}

func (k OpponentKey) String() string {
	return strconv.Itoa(k.PlayID) + "_" + strconv.Itoa(k.Reentry)
}

// ParseOpponentKey converts the external "<play_id>_<reentry>" form.
func ParseOpponentKey(s string) (OpponentKey, error) {
	id, re, ok := strings.Cut(s, "_")
	if !ok {
		return OpponentKey{}, fmt.Errorf("malformed opponent key %q", s)
	}
	playID, err := strconv.Atoi(id)
	if err != nil {
		return OpponentKey{}, err
	}
	reentry, err := strconv.Atoi(re)
	if err != nil {
		return OpponentKey{}, err
	}
	return OpponentKey{PlayID: playID, Reentry: reentry}, nil
}

// Player is one competitor's state at the moment of pairing. The pairing
// core mutates only Rank, BoardNum, BoardColor, DueColor, WarnCodes, the
// derived OpponentRanks/TeammateRanks, and (for an odd house player)
// ByeRequest; everything else is input.
type Player struct {
	TrnType byte // 'S' swiss, 'M' match, 'R' round robin, 'D' double RR, '2' double swiss
	Rnd     int  // current round, 1-based
	Name    string

	BoardNum   int  // input board hint; output final board
	BoardColor byte // input color hint; output final color, 'W' or 'B'

	PlayID  int // unique, nonzero; zero is the bye sentinel
	Reentry int
	TeamID  int
	// Teammates lists play IDs this player must not be paired against
	// (rule 28T non-pairing requests are expressed the same way).
	Teammates []int
	// Opponents already played, in round order; byes and unplayed games
	// are not included.
	Opponents []OpponentKey

	Score       float64 // total points from prior rounds
	Rating      int     // 0..30000; zero permitted
	IsUnrated   bool
	UseRating   string // "none" in an unrated section
	Provisional int    // rated games played before this tournament
	// Rand breaks ties for players with equal score and rating, and draws
	// lots for round-robin slots. Must be unique and stable across rounds.
	Rand float64

	ByeHouse      bool // designated house player
	ByeRequest    bool // requested bye for this round
	UnplayedCount int
	HalfByeCount  int
	ByeRounds     []int // rounds with requested byes: past, current, future

	// DueColor output: 'W'/'B' to equalize, 'w'/'b' to alternate, "x" neither.
	DueColor string
	// ColorHistory has one letter per prior round: W, B, f (full-point
	// bye), h (half-point bye), z (zero-point bye).
	ColorHistory string
	// PlayedColors matches Opponents entry for entry, W and B only.
	PlayedColors string
	FirstColor   byte // color of the top player on top board in round 1
	Multiround   int  // games per round, usually 1

	Paired    bool   // manually pre-paired; board may still be renumbered
	WarnCodes string // output rule-violation letters

	Rank          int // 0-based canonical position
	TeammateRanks []int
	OpponentRanks []int
}

// IsBye reports whether p is the synthetic bye sentinel.
func (p *Player) IsBye() bool { return p.PlayID == ByeID }

// Less is the canonical total order: bye sentinels last, then bye requests,
// then pre-paired players, then descending score, descending rating, and
// the rand/playID/reentry tiebreakers. Rand uniqueness makes it total.
func (p *Player) Less(q *Player) bool {
	if p.IsBye() != q.IsBye() {
		return q.IsBye()
	}
	if p.ByeRequest != q.ByeRequest {
		return q.ByeRequest
	}
	if p.Paired != q.Paired {
		return q.Paired
	}
	if p.Score != q.Score {
		return p.Score > q.Score
	}
	if p.Rating != q.Rating {
		return p.Rating > q.Rating
	}
	if p.Rand != q.Rand {
		return p.Rand < q.Rand
	}
	if p.PlayID != q.PlayID {
		return p.PlayID < q.PlayID
	}
	return p.Reentry < q.Reentry
}

// lessRobin orders players for round-robin table lookup: byes last, then
// by the rand lots drawn at registration.
func lessRobin(p, q *Player) bool {
	if p.IsBye() != q.IsBye() {
		return q.IsBye()
	}
	return p.Rand < q.Rand
}

// Canonicalize appends the bye sentinel if missing, sorts the section into
// canonical order, and derives ranks, due colors, and the numeric rank
// mirrors of Opponents and Teammates. Returns the (possibly grown) slice.
func Canonicalize(pl []*Player) []*Player {
	if len(pl) == 0 || !pl[len(pl)-1].IsBye() {
		bye := &Player{PlayID: ByeID, BoardNum: -1, Multiround: 1}
		if len(pl) > 0 {
			bye.Rnd = pl[0].Rnd
			bye.Multiround = pl[0].Multiround
		}
		pl = append(pl, bye)
	}
	sort.SliceStable(pl, func(i, j int) bool { return pl[i].Less(pl[j]) })
	setRanks(pl)
	return pl
}

// setRanks assigns ranks by position and rebuilds the rank mirrors.
// Opponents or teammates no longer in the section are dropped.
func setRanks(pl []*Player) {
	rankOf := make(map[int]int, len(pl))
	for x, p := range pl {
		p.Rank = x
		rankOf[p.PlayID] = x
		p.DueColor = DueColor(p.ColorHistory, p.Multiround)
	}
	for _, p := range pl {
		p.OpponentRanks = p.OpponentRanks[:0]
		for _, opp := range p.Opponents {
			if r, ok := rankOf[opp.PlayID]; ok {
				p.OpponentRanks = append(p.OpponentRanks, r)
			}
		}
		p.TeammateRanks = p.TeammateRanks[:0]
		for _, tm := range p.Teammates {
			if r, ok := rankOf[tm]; ok {
				p.TeammateRanks = append(p.TeammateRanks, r)
			}
		}
	}
}

// validate catches caller bugs that would otherwise corrupt the search.
func validate(pl []*Player) error {
	seen := make(map[OpponentKey]bool, len(pl))
	for _, p := range pl {
		if p.IsBye() {
			continue
		}
		key := OpponentKey{PlayID: p.PlayID, Reentry: p.Reentry}
		if seen[key] {
			return fmt.Errorf("duplicate player %v", key)
		}
		seen[key] = true
		if len(p.Opponents) != len(p.PlayedColors) {
			return fmt.Errorf("player %v: %d opponents but %d played colors",
				key, len(p.Opponents), len(p.PlayedColors))
		}
	}
	return nil
}

// assertNoDuplicates is a debugging aid for the search internals; it logs
// rather than aborts so a production pairing always completes.
func assertNoDuplicates(pl []*Player, pair []int) {
	for x := 0; x < len(pair); x++ {
		for y := x + 1; y < len(pair); y++ {
			if pl[pair[x]].PlayID == pl[pair[y]].PlayID && !pl[pair[x]].IsBye() {
				log.Error().Int("playID", pl[pair[x]].PlayID).
					Int("x", x).Int("y", y).
					Msg("player appears on two boards")
			}
		}
	}
}
