// danmaku is a deterministic bullet-hell shooter for the terminal.
//
// Usage:
//
//	danmaku list              - List game modes
//	danmaku play              - Play (setup menu unless --mode is given)
//	danmaku run               - Run a session headless with scripted input
//	danmaku replay <id>       - Watch or verify a stored replay
//	danmaku replays           - List stored replays
//	danmaku scores [mode]     - Show high scores
//	danmaku bullets           - List the bullet definitions
//	danmaku serve             - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>        - RNG seed (0 = time based)
//	--db <path>           - Database path (default: ~/.danmaku/danmaku.db)
//	--config <path>       - Config YAML
//	--difficulty <name>   - easy, normal, hard, lunatic
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed       uint64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagMode       string
	flagStage      string
	flagShot       string
	flagBullets    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "danmaku",
	Short: "Danmaku - a deterministic bullet-hell shooter in your terminal",
	Long: `Danmaku runs a fixed-rate bullet-hell simulation in the terminal.
Every session is recorded; replays reproduce it frame for frame.

Available commands:
  list     - Show game modes, difficulties, stages and shots
  play     - Play interactively
  run      - Run a session headless
  replay   - Watch or verify a stored replay
  replays  - List stored replays
  scores   - View high scores
  bullets  - List bullet definitions
  serve    - Start SSH server for remote play

Examples:
  danmaku play
  danmaku play --mode practice --stage storm --difficulty hard
  danmaku run --frames 3600 --seed 42
  danmaku replay 3f2a... --verify
  danmaku serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.danmaku/danmaku.db", "Path to the scores and replays database")
	pf.StringVar(&flagConfig, "config", "", "Path to a custom config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "normal", "Difficulty preset: easy, normal, hard, lunatic")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagMode, "mode", "", "Game mode (see 'danmaku list')")
	pf.StringVar(&flagStage, "stage", "", "Stage name (default: the mode's stages)")
	pf.StringVar(&flagShot, "shot", "", "Player shot type (default: the mode's first)")
	pf.StringVar(&flagBullets, "bullets", "", "Path to a bullet description JSON (default: built-in)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(bulletsCmd)
	rootCmd.AddCommand(serveCmd)
}
