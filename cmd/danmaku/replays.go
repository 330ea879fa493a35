package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/registry"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

var (
	flagLimit  int
	flagDelete string
)

var replaysCmd = &cobra.Command{
	Use:   "replays [mode]",
	Short: "List stored replays",
	Long: `List the most recent stored replays, newest first, optionally for one
mode. --delete removes a replay by ID.

Examples:
  danmaku replays
  danmaku replays story --limit 5
  danmaku replays --delete 3f2a9c1e-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplays,
}

func init() {
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum replays to list")
	replaysCmd.Flags().StringVar(&flagDelete, "delete", "", "Delete the replay with this ID")
}

func runReplays(_ *cobra.Command, args []string) error {
	mode := ""
	if len(args) == 1 {
		mode = args[0]
		if !registry.Exists(mode) {
			fmt.Fprintln(os.Stderr, "Run 'danmaku list' to see available modes.")
			return fmt.Errorf("%w %q", registry.ErrUnknownMode, mode)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagDelete != "" {
		if err := store.DeleteReplay(flagDelete); err != nil {
			return err
		}
		fmt.Printf("Deleted replay %s\n", flagDelete)
		return nil
	}

	list, err := store.ListReplays(mode, flagLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No replays recorded yet.")
		return nil
	}

	fmt.Printf("  %-36s  %-16s  %-9s  %-8s  %-7s  %8s  %12s  %s\n",
		"ID", "Name", "Mode", "Diff", "Shot", "Frames", "Score", "Date")
	for _, r := range list {
		name := r.Name
		if len(name) > 16 {
			name = name[:15] + "."
		}
		fmt.Printf("  %-36s  %-16s  %-9s  %-8s  %-7s  %8d  %12d  %s\n",
			r.ID, name, r.Mode, r.Difficulty, r.Shot, r.Frames, r.Score, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println("Run 'danmaku replay <id>' to watch one.")
	return nil
}
