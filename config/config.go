package config

import "github.com/namsral/flag"

type Config struct {
	Depth            int
	TotalRounds      int
	FirstBoard       int
	UseFirstPairings bool
	SkipOptimize     bool
	Tiebreaks        bool
	TiebreakSeed     uint64
	LogLevel         string

	// Args holds the positional arguments left after flag parsing.
	Args []string
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("pairgen", flag.ContinueOnError)
	fs.IntVar(&c.Depth, "depth", 1, "max simultaneous swaps per optimizer step; 2+ is much slower")
	fs.IntVar(&c.TotalRounds, "total-rounds", 0, "total rounds in the event (0 = use the roster's total_rounds)")
	fs.IntVar(&c.FirstBoard, "first-board", 1, "number of the section's top board (0 = keep lowest hinted board)")
	fs.BoolVar(&c.UseFirstPairings, "use-first-pairings", false, "overwrite the hint with the upper-vs-lower-half heuristic")
	fs.BoolVar(&c.SkipOptimize, "skip-optimize", false, "evaluate the hint pairing without searching")
	fs.BoolVar(&c.Tiebreaks, "tiebreaks", false, "compute standings tiebreaks instead of pairings (roster needs results)")
	fs.Uint64Var(&c.TiebreakSeed, "tiebreak-seed", 0, "seed for the coin-flip tiebreak (0 = system entropy)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "zerolog level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.Args = fs.Args()
	return nil
}
