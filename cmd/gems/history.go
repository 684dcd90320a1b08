package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-gems/internal/platform/tui"
	"github.com/vovakirdan/tui-gems/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [session]",
	Short: "Browse the turn journal",
	Long: `Show journaled sessions and their turns.

On a terminal this opens an interactive table; pass a session id to start
on that session. When stdout is not a terminal, plain text is printed.

Examples:
  gems history
  gems history 3f0c9a51-...
  gems history --limit 5 | less
  gems history --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of recent sessions to list")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every journaled session")
}

func runHistory(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearHistory(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing journal: %v\n", err)
			return
		}
		fmt.Println("Journal cleared.")
		return
	}

	focus := ""
	if len(args) == 1 {
		focus = args[0]
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := terminalSize()
		if _, err := tui.RunHistory(store, width, height, focus); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	if focus != "" {
		err = printTurns(store, focus)
	} else {
		err = printSessions(store, flagHistoryLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printSessions(store *storage.Store, limit int) error {
	sessions, err := store.RecentSessions(limit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions journaled yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSOURCE\tBOARD\tSEED\tTURNS\tACCEPTED\tLONGEST\tSTARTED")
	for _, s := range sessions {
		stats, err := store.SessionStats(s.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%dx%d/%d\t%d\t%d\t%d\t%d\t%s\n",
			s.ID, s.Source, s.Width, s.Height, s.Alphabet, s.Seed,
			stats.Turns, stats.Accepted, stats.LongestCascade,
			s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func printTurns(store *storage.Store, sessionID string) error {
	info, err := store.Session(sessionID)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return fmt.Errorf("no session %q", sessionID)
	}
	if err != nil {
		return err
	}
	turns, err := store.Turns(sessionID)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s (%s, %dx%d, %d kinds, seed %d)\n\n",
		info.ID, info.Source, info.Width, info.Height, info.Alphabet, info.Seed)
	if len(turns) == 0 {
		fmt.Println("No turns recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSWAP\tRESULT\tPASSES\tCLEARED\tSPAWNED")
	for _, row := range tui.TurnRows(turns) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3], row[4], row[5])
	}
	return w.Flush()
}
