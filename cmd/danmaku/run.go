package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/game"
)

var (
	flagFrames    int
	flagInput     string
	flagInputSeed uint64
	flagSave      bool
	flagName      string
	flagVerify    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a session headless with scripted input",
	Long: `Run a session without a terminal UI, driving the player with a
scripted input source, and print a summary.

Input sources:
  idle    - No input at all
  shoot   - Hold shoot, never move
  random  - Hold shoot and wander; seeded by --input-seed

Examples:
  danmaku run --frames 3600 --seed 42
  danmaku run --input random --input-seed 9 --save --name bot
  danmaku run --mode practice --stage storm --verify`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagFrames, "frames", 3600, "Maximum logical ticks to run")
	runCmd.Flags().StringVar(&flagInput, "input", "random", "Input source: idle, shoot, random")
	runCmd.Flags().Uint64Var(&flagInputSeed, "input-seed", 1, "Seed of the random input source")
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Store the replay and score")
	runCmd.Flags().StringVar(&flagName, "name", "headless", "Replay name")
	runCmd.Flags().BoolVar(&flagVerify, "verify", false, "Replay the recording and check it reproduces the score")
}

// inputSource returns the scripted input for each logical tick.
func inputSource(name string, seed uint64) (func() core.InputMask, error) {
	switch name {
	case "idle":
		return func() core.InputMask { return 0 }, nil
	case "shoot":
		return func() core.InputMask { return core.SignalShoot.Bit() }, nil
	case "random":
		r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		dirs := []core.Signal{core.SignalUp, core.SignalDown, core.SignalLeft, core.SignalRight}
		var held core.InputMask
		return func() core.InputMask {
			// Change direction about every quarter second.
			if r.IntN(15) == 0 {
				held = 0
				if r.IntN(3) > 0 {
					held = held.With(dirs[r.IntN(len(dirs))])
				}
				if r.IntN(4) == 0 {
					held = held.With(core.SignalFocus)
				}
			}
			m := held.With(core.SignalShoot)
			if r.IntN(600) == 0 {
				m = m.With(core.SignalBomb)
			}
			return m
		}, nil
	default:
		return nil, fmt.Errorf("unknown input source %q", name)
	}
}

// drive ticks s until it ends or limit ticks have run. limit <= 0 means
// no limit.
func drive(s *game.Session, limit int, input func() core.InputMask) error {
	for n := 0; limit <= 0 || n < limit; n++ {
		st := s.State()
		if st.GameOver || st.Cleared || s.PlaybackDone() {
			return nil
		}
		if err := s.Tick(input()); err != nil {
			return err
		}
	}
	return nil
}

// summary prints the end state of a session.
func summary(s *game.Session) {
	st := s.State()
	c := s.Counters()
	state := "running"
	switch {
	case st.Cleared:
		state = "cleared"
	case st.GameOver:
		state = "game over"
	}
	fmt.Printf("  %-10s %s\n", "Mode", s.Mode()+"/"+s.Difficulty())
	fmt.Printf("  %-10s %s\n", "Stage", s.Stage().Name)
	fmt.Printf("  %-10s %d\n", "Seed", s.Seed())
	fmt.Printf("  %-10s %d\n", "Frames", st.Frame)
	fmt.Printf("  %-10s %d\n", "Score", st.Score)
	fmt.Printf("  %-10s %d\n", "Graze", c.Graze)
	fmt.Printf("  %-10s %d (+%d/%d)\n", "Lives", c.Life.Completed, c.Life.Fragment, c.Life.Factor)
	fmt.Printf("  %-10s %d (+%d/%d)\n", "Bombs", c.Bomb.Completed, c.Bomb.Fragment, c.Bomb.Factor)
	fmt.Printf("  %-10s %d\n", "Continues", c.Continues)
	fmt.Printf("  %-10s %s\n", "State", state)
}

func runRun(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr, "danmaku")
	if err != nil {
		return err
	}
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	f, err := newFactory(store, logger)
	if err != nil {
		return err
	}
	input, err := inputSource(flagInput, flagInputSeed)
	if err != nil {
		return err
	}

	s, err := f.session(defaultSelection())
	if err != nil {
		return err
	}
	defer s.Close()
	if err := drive(s, flagFrames, input); err != nil {
		return err
	}
	fmt.Println("Session")
	summary(s)

	if !flagSave && !flagVerify {
		return nil
	}
	rec, err := s.Finish(flagName)
	if err != nil {
		return err
	}

	if flagVerify {
		p, err := f.playback(rec)
		if err != nil {
			return err
		}
		defer p.Close()
		if err := drive(p, 0, func() core.InputMask { return 0 }); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if p.State().Score != rec.Score || p.Frame() != rec.FrameCount {
			return fmt.Errorf("verify: replay diverged: score %d at frame %d, recorded %d at frame %d",
				p.State().Score, p.Frame(), rec.Score, rec.FrameCount)
		}
		fmt.Println()
		fmt.Println("Replay verified.")
	}

	if flagSave {
		if store == nil {
			return fmt.Errorf("cannot save: no database")
		}
		if err := store.SaveReplay(rec); err != nil {
			return err
		}
		if _, err := store.SaveScore(rec.Mode, rec.Difficulty, rec.Score, rec.ID); err != nil {
			return err
		}
		logger.Info("replay saved", "id", rec.ID, "frames", rec.FrameCount, "score", rec.Score)
		fmt.Printf("\nSaved replay %s\n", rec.ID)
	}
	return nil
}
