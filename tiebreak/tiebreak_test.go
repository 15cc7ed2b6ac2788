package tiebreak

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const byeKey = "0_0"

func twoPlayerSection() ResultMap {
	return ResultMap{
		byeKey: {Player: byeKey},
		"1_0": {
			Player:   "1_0",
			Rating:   1800,
			Opponent: []string{"2_0", "2_0"},
			Color:    []byte("WB"),
			Result:   []byte("WW"),
		},
		"2_0": {
			Player:   "2_0",
			Rating:   1500,
			Opponent: []string{"1_0", "1_0"},
			Color:    []byte("BW"),
			Result:   []byte("LL"),
		},
	}
}

func TestCodesInOrder(t *testing.T) {
	is := is.New(t)
	prm := twoPlayerSection()
	s := NewSession(42)
	is.NoErr(s.Calculate(prm, byeKey))
	for _, p := range prm {
		is.Equal(string(p.TiebreakCode), tiebreakOrder)
		is.Equal(len(p.TiebreakValue), len(p.TiebreakCode))
	}
}

func TestByeRowIsZero(t *testing.T) {
	is := is.New(t)
	prm := twoPlayerSection()
	s := NewSession(42)
	is.NoErr(s.Calculate(prm, byeKey))
	bye := prm[byeKey]
	for i, v := range bye.TiebreakValue {
		if bye.TiebreakCode[i] == 'Z' {
			is.Equal(v, float64(-1)) // coin flip stays -1
		} else {
			is.Equal(v, float64(0)) // code bye.TiebreakCode[i]
		}
	}
}

func TestAggregates(t *testing.T) {
	prm := twoPlayerSection()
	s := NewSession(42)
	require.NoError(t, s.Calculate(prm, byeKey))
	winner := prm["1_0"]
	loser := prm["2_0"]

	value := func(p *PlayerResult, code byte) float64 {
		for i, c := range p.TiebreakCode {
			if c == code {
				return p.TiebreakValue[i]
			}
		}
		t.Fatalf("code %c missing", code)
		return 0
	}

	assert.EqualValues(t, 3, value(winner, 'C'), "cumulative 1+2")
	assert.EqualValues(t, 1, value(winner, 'T'), "one black win")
	assert.EqualValues(t, 8, value(winner, 'K'), "kashdan for two wins")
	assert.EqualValues(t, 2, value(winner, 'W'))
	assert.EqualValues(t, 3, value(winner, 'L'), "never lost")
	assert.EqualValues(t, 1, value(loser, 'L'), "lost in round one")
	assert.EqualValues(t, 0, value(winner, 'H'), "no tied opponents")
	// solkoff: sum of the opponent's adjusted score
	assert.EqualValues(t, 0, value(winner, 'S'))
	assert.EqualValues(t, 4, value(loser, 'S'))
	// performance of opposition: the average of the opponents' own
	// performance ratings (their opponents' rating +400 per win, -400 per loss)
	assert.EqualValues(t, 1400, value(winner, 'P'))
	assert.EqualValues(t, 1900, value(loser, 'P'))
	assert.EqualValues(t, 1500, value(winner, 'A'))
	assert.EqualValues(t, 1800, value(loser, 'A'))
}

func TestByes(t *testing.T) {
	is := is.New(t)
	prm := ResultMap{
		byeKey: {Player: byeKey},
		"1_0": {
			Player:   "1_0",
			Rating:   1200,
			Opponent: []string{byeKey, "2_0"},
			Color:    []byte(" W"),
			Result:   []byte("BW"),
		},
		"2_0": {
			Player:   "2_0",
			Rating:   1300,
			Opponent: []string{byeKey, "1_0"},
			Color:    []byte(" B"),
			Result:   []byte("HL"),
		},
	}
	s := NewSession(7)
	is.NoErr(s.Calculate(prm, byeKey))
	p1 := prm["1_0"]
	// full-point bye scores 1.0 raw but only 0.5 adjusted, and the
	// cumulative total excludes bye points
	is.Equal(p1.rawScore, 2.0)
	is.Equal(p1.adjScore, 1.5)
	is.Equal(p1.cumScore, 2.0) // (1 + 2) - 1 bye point
}

func TestCoinFlipDeterministicAndUnique(t *testing.T) {
	is := is.New(t)
	run := func() []float64 {
		prm := twoPlayerSection()
		s := NewSession(99)
		is.NoErr(s.Calculate(prm, byeKey))
		return []float64{prm["1_0"].coinFlip, prm["2_0"].coinFlip}
	}
	first := run()
	second := run()
	is.Equal(first, second)       // same seed, same flips
	is.True(first[0] != first[1]) // unique within the section
	is.True(first[0] >= 0)
}

func TestMissingByeRow(t *testing.T) {
	is := is.New(t)
	prm := twoPlayerSection()
	delete(prm, byeKey)
	s := NewSession(1)
	is.True(s.Calculate(prm, byeKey) != nil)
}

func TestSonnebornBerger(t *testing.T) {
	// three players, one round: A beats B, C byes
	prm := ResultMap{
		byeKey: {Player: byeKey},
		"1_0": {
			Player: "1_0", Rating: 1600,
			Opponent: []string{"2_0"}, Color: []byte("W"), Result: []byte("W"),
		},
		"2_0": {
			Player: "2_0", Rating: 1500,
			Opponent: []string{"1_0"}, Color: []byte("B"), Result: []byte("L"),
		},
		"3_0": {
			Player: "3_0", Rating: 1400,
			Opponent: []string{byeKey}, Color: []byte(" "), Result: []byte("B"),
		},
	}
	s := NewSession(3)
	require.NoError(t, s.Calculate(prm, byeKey))
	value := func(key string, code byte) float64 {
		p := prm[key]
		for i, c := range p.TiebreakCode {
			if c == code {
				return p.TiebreakValue[i]
			}
		}
		return -999
	}
	// winner gets the loser's full score, loser gets nothing
	assert.EqualValues(t, 0, value("1_0", 'R'))
	assert.EqualValues(t, 0, value("2_0", 'R'))
	// the bye earns no Sonneborn-Berger credit either
	assert.EqualValues(t, 0, value("3_0", 'R'))
}
