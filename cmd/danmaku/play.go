package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-danmaku/internal/game"
	"github.com/vovakirdan/tui-danmaku/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play interactively",
	Long: `Start an interactive session. Without --mode a setup menu picks the
mode, difficulty, shot type and stage.

Controls:
  Arrows/WASD  - Move (shift+arrow moves focused)
  Z/Space      - Shoot
  X            - Bomb
  C            - Toggle focus
  Enter        - Advance dialog
  Tab          - Fast-forward while held
  P/Esc        - Pause
  R            - Restart (after the session ends)
  Q/Ctrl+C     - Quit

Examples:
  danmaku play
  danmaku play --mode story --difficulty lunatic
  danmaku play --mode practice --stage storm --shot amulet
  danmaku play --config ./my-danmaku.yaml --seed 7`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// termSize returns the terminal size, or 80x24 when stdout is not a terminal.
func termSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

func runPlay(cmd *cobra.Command, _ []string) error {
	logger, closer, err := fileLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	f, err := newFactory(store, logger)
	if err != nil {
		return err
	}

	width, height := termSize()
	if cmd.Flags().Changed("mode") || !term.IsTerminal(int(os.Stdin.Fd())) {
		sel := defaultSelection()
		return tui.Run(tui.Options{
			NewSession: func() (*game.Session, error) { return f.session(sel) },
			Store:      store,
			Logger:     logger,
			Width:      width,
			Height:     height,
		})
	}

	// Menu loop: menu -> play or scores -> menu.
	for {
		res, err := tui.RunMenu(width, height)
		if err != nil {
			return err
		}
		switch {
		case res.Quit:
			return nil
		case res.WantsScoreboard:
			sb, err := tui.RunScoreboard(store, width, height)
			if err != nil {
				return err
			}
			if sb.Replay != "" {
				id := sb.Replay
				if err := tui.Run(tui.Options{
					NewSession: func() (*game.Session, error) { return f.replay(id) },
					Logger:     logger,
					Width:      width,
					Height:     height,
				}); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
			} else if !sb.Back {
				return nil
			}
		default:
			sel := res.Selection
			if err := tui.Run(tui.Options{
				NewSession: func() (*game.Session, error) { return f.session(sel) },
				Store:      store,
				Logger:     logger,
				Width:      width,
				Height:     height,
			}); err != nil {
				return err
			}
		}
		width, height = termSize()
	}
}
