package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/content"
	"github.com/vovakirdan/tui-danmaku/internal/game"
	"github.com/vovakirdan/tui-danmaku/internal/platform/tui"
	"github.com/vovakirdan/tui-danmaku/internal/registry"
	"github.com/vovakirdan/tui-danmaku/internal/replay"
	"github.com/vovakirdan/tui-danmaku/internal/stage"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

// newLogger returns a logger at --log-level writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// fileLogger opens ~/.danmaku/danmaku.log so logging does not corrupt the
// alternate screen. The caller closes the returned file.
func fileLogger() (*log.Logger, io.Closer, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, err
	}
	dir := filepath.Join(home, ".danmaku")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "danmaku.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(f, "danmaku")
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

// seed returns --seed, or a time based seed when it is 0.
func seed() uint64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return uint64(time.Now().UnixNano())
}

// factory builds sessions from the global flags and a selection. The
// config, bullets and high scores are loaded once.
type factory struct {
	cfg     config.Config
	bullets *content.Set
	store   *storage.Store
	logger  *log.Logger
}

func newFactory(store *storage.Store, logger *log.Logger) (*factory, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	bullets, err := content.Default()
	if flagBullets != "" {
		bullets, err = content.Load(flagBullets)
	}
	if err != nil {
		return nil, err
	}
	return &factory{cfg: cfg, bullets: bullets, store: store, logger: logger}, nil
}

// defaultSelection turns the mode flags into a selection.
func defaultSelection() tui.Selection {
	mode := flagMode
	if mode == "" {
		mode = "story"
	}
	return tui.Selection{Mode: mode, Difficulty: flagDifficulty, Shot: flagShot, Stage: flagStage}
}

// options resolves a selection into session options.
func (f *factory) options(sel tui.Selection, seed uint64) (game.Options, error) {
	mode, err := registry.Lookup(sel.Mode)
	if err != nil {
		return game.Options{}, err
	}
	if sel.Shot == "" {
		sel.Shot = mode.DefaultShot()
	}
	if err := registry.Validate(sel.Mode, sel.Difficulty, sel.Stage); err != nil {
		return game.Options{}, err
	}
	if err := registry.ValidateShot(sel.Mode, sel.Shot); err != nil {
		return game.Options{}, err
	}
	preset, err := config.ParsePreset(sel.Difficulty)
	if err != nil {
		return game.Options{}, err
	}
	cfg := f.cfg
	config.ApplyPreset(&cfg, preset)

	stages, err := game.Stages(mode, sel.Stage, cfg.Stage.Path)
	if err != nil {
		return game.Options{}, err
	}

	var high int64
	if f.store != nil {
		if high, err = f.store.HighScore(sel.Mode, sel.Difficulty); err != nil {
			f.logger.Warn("could not read high score", "error", err)
		}
	}

	return game.Options{
		Config:     cfg,
		Mode:       sel.Mode,
		Difficulty: sel.Difficulty,
		Shot:       sel.Shot,
		Stages:     stages,
		Bullets:    f.bullets,
		Seed:       seed,
		HighScore:  high,
		Logger:     f.logger,
	}, nil
}

// session builds a recording session with a fresh seed.
func (f *factory) session(sel tui.Selection) (*game.Session, error) {
	opts, err := f.options(sel, seed())
	if err != nil {
		return nil, err
	}
	return game.New(opts)
}

// playback builds a session that replays rec.
func (f *factory) playback(rec *replay.Record) (*game.Session, error) {
	opts, err := f.options(tui.Selection{Mode: rec.Mode, Difficulty: rec.Difficulty, Shot: rec.Shot}, rec.Seed)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", rec.ID, err)
	}
	if len(rec.Stages) > 0 {
		opts.Stages = make([]*stage.Stage, 0, len(rec.Stages))
		for _, name := range rec.Stages {
			st, err := stage.Builtin(name)
			if err != nil {
				return nil, fmt.Errorf("replay %s: %w", rec.ID, err)
			}
			opts.Stages = append(opts.Stages, st)
		}
	}
	if opts.Playback, err = replay.NewPlayback(rec); err != nil {
		return nil, err
	}
	return game.New(opts)
}

// replay loads a stored replay and builds its playback session.
func (f *factory) replay(id string) (*game.Session, error) {
	if f.store == nil {
		return nil, fmt.Errorf("no database")
	}
	rec, err := f.store.LoadReplay(id)
	if err != nil {
		return nil, err
	}
	f.logger.Info("replay loaded", "id", rec.ID, "frames", rec.FrameCount)
	return f.playback(rec)
}

// openStore opens --db, logging and continuing without storage on failure.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
