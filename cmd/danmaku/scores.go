package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-danmaku/internal/game"
	"github.com/vovakirdan/tui-danmaku/internal/platform/tui"
	"github.com/vovakirdan/tui-danmaku/internal/registry"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

var flagInteractive bool

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top 10 high scores for a mode at --difficulty, or a
summary of every mode. -i opens the interactive scoreboard, where Enter
watches the replay behind a score.

Examples:
  danmaku scores
  danmaku scores story --difficulty hard
  danmaku scores -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the interactive scoreboard")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagInteractive && term.IsTerminal(int(os.Stdout.Fd())) {
		return scoreboard(store)
	}

	if len(args) == 0 {
		return modeSummary(store)
	}

	modeID := args[0]
	mode, err := registry.Lookup(modeID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Run 'danmaku list' to see available modes.")
		return err
	}

	scores, err := store.TopScores(modeID, flagDifficulty, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s (%s)\n", mode.Title, flagDifficulty)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'danmaku play --mode %s' to set the first high score!\n", modeID)
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-16s  %s\n", "Rank", "Score", "Date", "Replay")
	fmt.Printf("  %-4s  %-12s  %-16s  %s\n", "----", "-----", "----", "------")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-12d  %-16s  %s\n", i+1, entry.Score, entry.CreatedAt.Local().Format("2006-01-02 15:04"), entry.ReplayID)
	}
	return nil
}

func modeSummary(store *storage.Store) error {
	stats, err := store.AllModeStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}
	fmt.Printf("  %-10s  %6s  %12s  %12s  %s\n", "Mode", "Games", "Best", "Average", "Last played")
	for _, m := range registry.List() {
		st, ok := stats[m.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-10s  %6d  %12d  %12.0f  %s\n",
			m.ID, st.GamesCount, st.HighScore, st.AvgScore, st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// scoreboard runs the interactive scoreboard until the user leaves it,
// playing back any replay picked from it.
func scoreboard(store *storage.Store) error {
	logger, closer, err := fileLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	f, err := newFactory(store, logger)
	if err != nil {
		return err
	}
	for {
		width, height := termSize()
		res, err := tui.RunScoreboard(store, width, height)
		if err != nil || res.Replay == "" {
			return err
		}
		id := res.Replay
		if err := tui.Run(tui.Options{
			NewSession: func() (*game.Session, error) { return f.replay(id) },
			Logger:     logger,
			Width:      width,
			Height:     height,
		}); err != nil {
			return err
		}
	}
}
