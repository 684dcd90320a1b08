package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gems/internal/config"
	"github.com/vovakirdan/tui-gems/internal/sim"
)

var (
	flagSimTurns   int
	flagSimJournal bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Play random swaps headlessly and report statistics",
	Long: `Run a board without a screen. Each turn swaps a uniformly random pair
of neighbouring pieces and resolves it completely, then the run reports
the acceptance rate, the cascade depth histogram, truncated cascades and
how often the refill could not avoid a match.

Examples:
  gems sim
  gems sim --turns 10000 --seed 7
  gems sim --difficulty hard --journal`,
	Run: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTurns, "turns", 1000, "Number of swaps to play")
	simCmd.Flags().BoolVar(&flagSimJournal, "journal", false, "Record the turns in the journal")
}

func runSim(_ *cobra.Command, _ []string) {
	logger, err := newLogger("gems-sim")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	boardCfg, preset, err := loadBoard()
	if err != nil {
		logger.Fatal("cannot load board config", "error", err)
	}
	config.ApplyMatch3Preset(&boardCfg, preset)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := sim.Options{
		Board:  boardCfg.BoardConfig(),
		Seed:   seed,
		Turns:  flagSimTurns,
		Logger: logger,
	}
	if flagSimJournal {
		if store := openJournal(); store != nil {
			opts.Journal = store
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	rep, err := sim.Run(ctx, opts)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulation failed", "error", err)
		return
	}
	printReport(rep, time.Since(start))
}

func printReport(rep sim.Report, elapsed time.Duration) {
	fmt.Printf("Seed:            %d\n", rep.Seed)
	fmt.Printf("Turns:           %d (%s)\n", rep.Turns, elapsed.Round(time.Millisecond))
	fmt.Printf("Accepted:        %d (%.1f%%)\n", rep.Accepted, rep.AcceptRate()*100)
	fmt.Printf("Reverted:        %d\n", rep.Reverted)
	fmt.Printf("Cleared:         %d\n", rep.Cleared)
	fmt.Printf("Longest cascade: %d\n", rep.LongestCascade)
	fmt.Printf("Truncated:       %d\n", rep.Truncated)
	fmt.Printf("Fill exhausted:  %d cells\n", rep.FillExhausted)
	if rep.SessionID != "" {
		fmt.Printf("Session:         %s\n", rep.SessionID)
	}

	if rep.Accepted == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Cascade depth:")
	for _, d := range rep.Depths() {
		n := rep.Passes[d]
		bar := strings.Repeat("█", max(1, n*40/rep.Accepted))
		fmt.Printf("  %3d  %6d  %s\n", d, n, bar)
	}
}
