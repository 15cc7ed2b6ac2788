// Package tiebreak computes post-tournament tiebreaks from per-round
// results: Modified Median, Solkoff, cumulative, Harkness median,
// head-to-head, total blacks, Kashdan, round-robin Sonneborn-Berger,
// opposition cumulative, opposition performance, average opposition
// rating, wins, first-loss round, and a coin flip. The USCF rule numbers
// (34E1-34E13) are noted inline.
package tiebreak

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// Result letters. The multi-game letters cover multiround events where a
// "round" is a small match: $ win, # split in winner's favor, % even split.
const (
	ResultMultiWin   = '$'
	ResultMultiSplit = '#'
	ResultMultiLoss  = '%'
	ResultWin        = 'W'
	ResultWinAdj     = 'N'
	ResultLoss       = 'L'
	ResultLossAdj    = 'S'
	ResultDraw       = 'D'
	ResultDrawAdj    = 'R'
	ResultFullBye    = 'B'
	ResultForfeitWin = 'X'
	ResultHalfBye    = 'H'
	ResultHalfByeAdj = 'Z'
	ResultUnplayed   = 'U'
	ResultForfeit    = 'F'
	ResultNone       = '*'
)

// Codes in output order.
const tiebreakOrder = "MSCBHTKROPAWLZ"

// PlayerResult is one player's tournament card. Opponent, Color, and
// Result all have one entry per round; withdrawn players carry 'U' for
// the rounds they missed so lengths match across the section.
type PlayerResult struct {
	Player string // key, "<play_id>_<reentry>" at the boundary
	Rating int

	Opponent []string
	Color    []byte
	Result   []byte

	// aggregates, computed
	rawScore, adjScore, cumScore, byeScore, head2head float64
	byeCnt, blackCnt, kashdan, winCnt                 int
	firstLossRound                                    int
	performanceRating                                 float64
	coinFlip                                          float64

	// outputs
	TiebreakCode  []byte
	TiebreakValue []float64
}

// ResultMap indexes the section's cards by player key. The bye sentinel
// must be present under its own key.
type ResultMap map[string]*PlayerResult

// Session owns the coin-flip PRNG. NewSession seeds it explicitly, which
// restores determinism; NewRandomSession draws from the system entropy
// source.
type Session struct {
	rng *frand.RNG
}

// NewSession seeds the coin-flip source explicitly.
func NewSession(seed uint64) *Session {
	var b [32]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(seed >> (8 * i))
	}
	return &Session{rng: frand.NewCustom(b[:], 1024, 12)}
}

// NewRandomSession uses system entropy, matching historical behavior of
// one process-wide seed.
func NewRandomSession() *Session {
	return &Session{rng: frand.New()}
}

// Calculate fills every card's TiebreakCode and TiebreakValue. The bye
// sentinel's values are all zero except the coin flip, which stays -1.
func (s *Session) Calculate(prm ResultMap, byeKey string) error {
	if _, ok := prm[byeKey]; !ok {
		return fmt.Errorf("bye key %q not in result map", byeKey)
	}
	// deterministic order for the coin-flip rejection pass
	keys := lo.Keys(prm)
	sort.Strings(keys)
	for _, k := range keys {
		p := prm[k]
		if err := scorePlayer(p, byeKey); err != nil {
			return err
		}
		s.coinFlipFor(prm, p, byeKey)
	}
	for _, k := range keys {
		if err := performance(prm, prm[k], byeKey); err != nil {
			return err
		}
	}
	for _, k := range keys {
		if err := opposition(prm, prm[k], byeKey); err != nil {
			return err
		}
	}
	return nil
}

// scorePlayer folds the result letters into the per-player aggregates.
func scorePlayer(p *PlayerResult, byeKey string) error {
	rounds := len(p.Color)
	if len(p.Opponent) != rounds || len(p.Result) != rounds {
		return fmt.Errorf("player %s: opponent/color/result lengths differ", p.Player)
	}
	p.rawScore = 0
	p.adjScore = 0
	p.cumScore = 0
	p.byeScore = 0
	p.kashdan = 0
	p.byeCnt = 0
	p.blackCnt = 0
	p.winCnt = 0
	p.firstLossRound = 0
	p.coinFlip = -1
	if p.Player == byeKey {
		if p.Rating != 0 {
			return fmt.Errorf("bye row %s has a rating", p.Player)
		}
		return nil
	}
	for x := 0; x < rounds; x++ {
		if p.firstLossRound == x {
			p.firstLossRound++
		}
		black := 0
		if p.Color[x] == 'B' {
			black = 1
		}
		switch p.Result[x] {
		case ResultMultiWin:
			p.rawScore += 2.0
			p.adjScore += 2.0
			p.kashdan += 4 + 4
			p.blackCnt++
			p.winCnt += 2
		case ResultMultiSplit:
			p.rawScore += 1.5
			p.adjScore += 1.5
			p.kashdan += 4 + 2
			p.blackCnt++
			p.winCnt++
		case ResultMultiLoss:
			p.rawScore += 1.0
			p.adjScore += 1.0
			p.kashdan += 2 + 2
			p.blackCnt++
		case ResultWin, ResultWinAdj:
			p.rawScore += 1.0
			p.adjScore += 1.0
			p.kashdan += 4
			p.blackCnt += black
			p.winCnt++
		case ResultFullBye, ResultForfeitWin:
			p.rawScore += 1.0
			p.adjScore += 0.5
			p.byeScore += 1.0
			p.byeCnt++
		case ResultDraw, ResultDrawAdj:
			p.rawScore += 0.5
			p.adjScore += 0.5
			p.kashdan += 2
			p.blackCnt += black
		case ResultHalfBye, ResultHalfByeAdj:
			p.rawScore += 0.5
			p.adjScore += 0.5
			p.byeScore += 0.5
			p.byeCnt++
		case ResultLoss, ResultLossAdj:
			p.kashdan++
			p.blackCnt += black
			if p.firstLossRound == x+1 {
				p.firstLossRound--
			}
		case ResultUnplayed, ResultForfeit, ResultNone:
			p.adjScore += 0.5
			p.byeCnt++
		default:
			return fmt.Errorf("player %s: unknown result letter %q", p.Player, p.Result[x])
		}
		p.cumScore += p.rawScore
	}
	p.cumScore -= p.byeScore
	p.firstLossRound++ // 1..N+1 instead of 0..N
	return nil
}

// coinFlipFor draws a value unique across the section (rule 34E13).
func (s *Session) coinFlipFor(prm ResultMap, p *PlayerResult, byeKey string) {
	if p.Player == byeKey {
		return
	}
	for {
		p.coinFlip = float64(s.rng.Uint64n(1 << 31))
		taken := false
		for _, o := range prm {
			if o.Player != p.Player && o.coinFlip == p.coinFlip {
				taken = true
				break
			}
		}
		if !taken {
			return
		}
	}
}

// played reports whether a result letter represents a played game.
func played(result byte) bool {
	switch result {
	case ResultFullBye, ResultForfeitWin, ResultHalfBye, ResultHalfByeAdj,
		ResultUnplayed, ResultForfeit, ResultNone:
		return false
	}
	return true
}

// performance computes the head-to-head score against tied opponents
// (rule 34E5) and the player's own performance rating: the average of the
// opponents' ratings adjusted +400 for a win, +200 for a multi-game split,
// -400 for a loss, over games against opponents with a different score.
// opposition averages these ratings over a player's opponents (rule 34E10).
func performance(prm ResultMap, p *PlayerResult, byeKey string) error {
	rounds := len(p.Color)
	playerCnt := 0
	ratingSum := 0.0
	p.head2head = 0
	for x := 0; p.Player != byeKey && x < rounds; x++ {
		opponent, ok := prm[p.Opponent[x]]
		if !ok {
			return fmt.Errorf("player %s: opponent %s not in result map", p.Player, p.Opponent[x])
		}
		if opponent.rawScore == p.rawScore {
			switch p.Result[x] {
			case ResultMultiWin:
				p.head2head += 2.0
			case ResultMultiSplit:
				p.head2head += 1.5 - 0.5
			case ResultMultiLoss:
				p.head2head += 0
			case ResultWin, ResultWinAdj:
				p.head2head += 1.0
			case ResultDraw, ResultDrawAdj:
				p.head2head += 0
			case ResultLoss, ResultLossAdj:
				p.head2head -= 1.0
			}
			continue
		}
		switch p.Result[x] {
		case ResultMultiWin, ResultWin, ResultWinAdj:
			ratingSum += 400
		case ResultMultiSplit:
			ratingSum += 200
		case ResultMultiLoss, ResultDraw, ResultDrawAdj:
			ratingSum += 0
		case ResultLoss, ResultLossAdj:
			ratingSum += -400
		default:
			continue
		}
		ratingSum += float64(opponent.Rating)
		playerCnt++
	}
	if playerCnt <= 0 {
		p.performanceRating = float64(p.Rating)
	} else {
		p.performanceRating = ratingSum / float64(playerCnt)
	}
	return nil
}

// opposition folds the opponents' aggregates into the player's and emits
// the final code/value tuples.
func opposition(prm ResultMap, p *PlayerResult, byeKey string) error {
	rounds := len(p.Color)
	adj := make([]float64, 0, rounds)
	adjSum, cumSum := 0.0, 0.0
	ratSum, perfSum := 0.0, 0.0
	partialScore := 0.0
	playCnt := 0
	for x := 0; p.Player != byeKey && x < rounds; x++ {
		opponent, ok := prm[p.Opponent[x]]
		if !ok {
			return fmt.Errorf("player %s: opponent %s not in result map", p.Player, p.Opponent[x])
		}
		isPlayed := played(p.Result[x])
		oppAdj := 0.0
		if isPlayed {
			oppAdj = opponent.adjScore
		}
		adjSum += oppAdj
		cumSum += opponent.cumScore
		adj = append(adj, oppAdj)
		if isPlayed {
			playCnt++
			ratSum += float64(opponent.Rating)
			perfSum += opponent.performanceRating
		}
		// Sonneborn-Berger partial credit; the multi-game letters
		// accumulate the single-game lines below them as well.
		switch p.Result[x] {
		case ResultMultiWin:
			partialScore += opponent.rawScore + opponent.rawScore
			fallthrough
		case ResultMultiSplit:
			partialScore += opponent.rawScore + opponent.rawScore/2
			fallthrough
		case ResultMultiLoss:
			partialScore += opponent.rawScore/2 + opponent.rawScore/2
			fallthrough
		case ResultWin, ResultWinAdj:
			partialScore += opponent.rawScore
		case ResultDraw, ResultDrawAdj:
			partialScore += opponent.rawScore / 2
		}
	}
	sort.Float64s(adj)
	ratAvg := float64(p.Rating)
	perfAvg := p.performanceRating
	if playCnt > 0 {
		ratAvg = ratSum / float64(playCnt)
		perfAvg = perfSum / float64(playCnt)
	}

	doubled := int(p.rawScore*2 + 0.5)
	plusScore := doubled >= rounds // at least an even score
	minusScore := doubled <= rounds

	modifiedMedian := 0.0
	basicMedian := 0.0
	if rounds >= 2 {
		cut := 1
		if rounds >= 9 {
			cut = 2
		}
		modifiedMedian = adjSum
		if plusScore {
			modifiedMedian -= sum(adj[:cut])
		}
		if minusScore {
			modifiedMedian -= sum(adj[len(adj)-cut:])
		}
		if rounds > 2 {
			basicMedian = adjSum - sum(adj[:cut]) - sum(adj[len(adj)-cut:])
		}
	}

	p.TiebreakCode = p.TiebreakCode[:0]
	p.TiebreakValue = p.TiebreakValue[:0]
	push := func(code byte, value float64) {
		p.TiebreakCode = append(p.TiebreakCode, code)
		p.TiebreakValue = append(p.TiebreakValue, value)
	}
	push('M', modifiedMedian)            // Modified median Harkness, rule 34E1
	push('S', adjSum)                    // Solkoff, rule 34E2
	push('C', p.cumScore)                // Cumulative score, rule 34E3
	push('B', basicMedian)               // Median system not modified, rule 34E4
	push('H', p.head2head)               // Head-to-head among tied players, rule 34E5
	push('T', float64(p.blackCnt))       // Total blacks, rule 34E6
	push('K', float64(p.kashdan))        // Kashdan aggressive, rule 34E7
	push('R', partialScore)              // Round robin Sonneborn-Berger, rule 34E8
	push('O', cumSum)                    // Opposition cumulative score, rule 34E9
	push('P', perfAvg)                   // Performance of opposition, rule 34E10
	push('A', ratAvg)                    // Average rating of opposition, rule 34E11
	push('W', float64(p.winCnt))         // Win count
	push('L', float64(p.firstLossRound)) // First loss round
	// no calculation for the speed play-off game, rule 34E12
	push('Z', p.coinFlip) // Coin flip, rule 34E13
	return nil
}

func sum(v []float64) float64 {
	return lo.Sum(v)
}
