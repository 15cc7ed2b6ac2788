package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/castling-club/pairgen/config"
	"github.com/castling-club/pairgen/pairing"
	"github.com/castling-club/pairgen/tiebreak"
)

// rosterFile is the demo YAML roster format. Real tournament software
// keeps the roster elsewhere; this driver only exists to run the engine
// end to end from a file.
type rosterFile struct {
	Section     string         `yaml:"section"`
	Type        string         `yaml:"type"` // S, M, R, D, 2
	Round       int            `yaml:"round"`
	TotalRounds int            `yaml:"total_rounds"`
	FirstColor  string         `yaml:"first_color"`
	Players     []rosterPlayer `yaml:"players"`
}

type rosterPlayer struct {
	PlayID       int      `yaml:"play_id"`
	Reentry      int      `yaml:"reentry"`
	Name         string   `yaml:"name"`
	Rating       int      `yaml:"rating"`
	IsUnrated    bool     `yaml:"is_unrated"`
	UseRating    string   `yaml:"use_rating"`
	Provisional  int      `yaml:"provisional"`
	Score        float64  `yaml:"score"`
	Rand         float64  `yaml:"rand"`
	BoardNum     int      `yaml:"board_num"`
	TeamID       int      `yaml:"team_id"`
	Teammates    []int    `yaml:"teammates"`
	Opponents    []string `yaml:"opponents"`
	PlayedColors string   `yaml:"played_colors"`
	ColorHistory string   `yaml:"color_history"`
	ByeRequest   bool     `yaml:"bye_request"`
	ByeHouse     bool     `yaml:"bye_house"`
	ByeRounds    []int    `yaml:"bye_rounds"`
	Results      string   `yaml:"results"` // one letter per round, for -tiebreaks
	HalfByeCount int      `yaml:"half_bye_count"`
	Unplayed     int      `yaml:"unplayed_count"`
	Paired       bool     `yaml:"paired"`
	Multiround   int      `yaml:"multiround"`
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad flags")
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	args := cfg.Args
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: pairgen [flags] roster.yaml")
		os.Exit(2)
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("reading roster")
	}
	var roster rosterFile
	if err := yaml.Unmarshal(raw, &roster); err != nil {
		log.Fatal().Err(err).Msg("parsing roster")
	}

	if cfg.Tiebreaks {
		if err := printTiebreaks(&roster, cfg); err != nil {
			log.Fatal().Err(err).Msg("tiebreaks failed")
		}
		return
	}

	pl, err := toPlayers(&roster)
	if err != nil {
		log.Fatal().Err(err).Msg("bad roster")
	}
	totalRounds := cfg.TotalRounds
	if totalRounds == 0 {
		totalRounds = roster.TotalRounds
	}

	session := pairing.NewSession()
	pl, cost, err := session.FindPairings(pl, totalRounds, cfg.FirstBoard, cfg.Depth,
		cfg.UseFirstPairings, cfg.SkipOptimize, roster.Section)
	if err != nil {
		log.Fatal().Err(err).Msg("pairing failed")
	}
	log.Info().Str("section", roster.Section).Str("cost", cost.String()).Msg("pairings done")

	printBoards(pl, session)
}

func toPlayers(roster *rosterFile) ([]*pairing.Player, error) {
	trnType := byte(pairing.TypeSwiss)
	if roster.Type != "" {
		trnType = roster.Type[0]
	}
	firstColor := byte('W')
	if roster.FirstColor != "" {
		firstColor = roster.FirstColor[0]
	}
	pl := make([]*pairing.Player, 0, len(roster.Players))
	for _, rp := range roster.Players {
		p := &pairing.Player{
			TrnType:       trnType,
			Rnd:           roster.Round,
			Name:          rp.Name,
			BoardNum:      rp.BoardNum,
			PlayID:        rp.PlayID,
			Reentry:       rp.Reentry,
			TeamID:        rp.TeamID,
			Teammates:     rp.Teammates,
			Score:         rp.Score,
			Rating:        rp.Rating,
			IsUnrated:     rp.IsUnrated,
			UseRating:     rp.UseRating,
			Provisional:   rp.Provisional,
			Rand:          rp.Rand,
			ByeHouse:      rp.ByeHouse,
			ByeRequest:    rp.ByeRequest,
			UnplayedCount: rp.Unplayed,
			HalfByeCount:  rp.HalfByeCount,
			ByeRounds:     rp.ByeRounds,
			ColorHistory:  rp.ColorHistory,
			PlayedColors:  rp.PlayedColors,
			FirstColor:    firstColor,
			Multiround:    max(rp.Multiround, 1),
			Paired:        rp.Paired,
		}
		if p.BoardNum == 0 {
			p.BoardNum = -1
		}
		for _, o := range rp.Opponents {
			key, err := pairing.ParseOpponentKey(o)
			if err != nil {
				return nil, err
			}
			p.Opponents = append(p.Opponents, key)
		}
		pl = append(pl, p)
	}
	return pl, nil
}

// printTiebreaks builds a result map from the roster's result letters and
// prints the standings with the full tiebreak tuple per player.
func printTiebreaks(roster *rosterFile, cfg *config.Config) error {
	byeKey := pairing.OpponentKey{PlayID: pairing.ByeID}.String()
	prm := tiebreak.ResultMap{
		byeKey: &tiebreak.PlayerResult{Player: byeKey},
	}
	for _, rp := range roster.Players {
		key := pairing.OpponentKey{PlayID: rp.PlayID, Reentry: rp.Reentry}.String()
		pr := &tiebreak.PlayerResult{
			Player: key,
			Rating: rp.Rating,
			Color:  []byte(rp.PlayedColors),
			Result: []byte(rp.Results),
		}
		pr.Opponent = append(pr.Opponent, rp.Opponents...)
		for len(pr.Opponent) < len(pr.Result) {
			pr.Opponent = append(pr.Opponent, byeKey) // unplayed rounds
		}
		for len(pr.Color) < len(pr.Result) {
			pr.Color = append(pr.Color, ' ')
		}
		prm[key] = pr
	}
	ts := tiebreak.NewRandomSession()
	if cfg.TiebreakSeed != 0 {
		ts = tiebreak.NewSession(cfg.TiebreakSeed)
	}
	if err := ts.Calculate(prm, byeKey); err != nil {
		return err
	}
	keys := make([]string, 0, len(prm))
	for k := range prm {
		if k != byeKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		pr := prm[k]
		fmt.Printf("%-12s", k)
		for i, code := range pr.TiebreakCode {
			fmt.Printf("  %c=%.1f", code, pr.TiebreakValue[i])
		}
		fmt.Println()
	}
	return nil
}

func printBoards(pl []*pairing.Player, session *pairing.Session) {
	byBoard := append([]*pairing.Player(nil), pl...)
	sort.SliceStable(byBoard, func(i, j int) bool {
		if byBoard[i].BoardNum != byBoard[j].BoardNum {
			return byBoard[i].BoardNum < byBoard[j].BoardNum
		}
		return byBoard[i].BoardColor == 'W'
	})
	warned := map[byte]bool{}
	for _, p := range byBoard {
		if p.IsBye() || p.BoardNum < 0 {
			continue
		}
		fmt.Printf("board %2d  %c  %-24s (%d, %.1f)", p.BoardNum, p.BoardColor, p.Name, p.Rating, p.Score)
		if p.WarnCodes != "" {
			fmt.Printf("  [%s]", p.WarnCodes)
			for i := 0; i < len(p.WarnCodes); i++ {
				warned[p.WarnCodes[i]] = true
			}
		}
		fmt.Println()
	}
	if len(warned) > 0 {
		var codes []byte
		for c := range warned {
			codes = append(codes, c)
		}
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
		var b strings.Builder
		for _, c := range codes {
			fmt.Fprintf(&b, "  %c: %s\n", c, session.Describe(c))
		}
		fmt.Printf("warnings:\n%s", b.String())
	}
}
