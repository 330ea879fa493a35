package game

import (
	"fmt"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/registry"
	"github.com/vovakirdan/tui-danmaku/internal/stage"
)

func init() {
	difficulties := make([]string, 0, len(config.Presets))
	for _, p := range config.Presets {
		difficulties = append(difficulties, string(p))
	}
	shots := []string{"needle", "amulet"}

	registry.Register(registry.Mode{
		ID:           "story",
		Title:        "Story",
		Difficulties: difficulties,
		Stages:       []string{"opening", "storm"},
		Shots:        shots,
	})
	registry.Register(registry.Mode{
		ID:           "practice",
		Title:        "Stage Practice",
		Difficulties: difficulties,
		Stages:       stage.Names(),
		Shots:        shots,
	})
}

// Stages resolves the stages a session of mode plays. A stage file path
// takes precedence over a stage name; with neither, story mode plays every
// stage in order and other modes play their first stage.
func Stages(mode registry.Mode, name, path string) ([]*stage.Stage, error) {
	if path != "" {
		st, err := stage.Load(path)
		if err != nil {
			return nil, err
		}
		return []*stage.Stage{st}, nil
	}

	names := []string{name}
	switch {
	case name != "":
	case mode.ID == "story":
		names = mode.Stages
	default:
		names = []string{mode.DefaultStage()}
	}

	out := make([]*stage.Stage, 0, len(names))
	for _, n := range names {
		st, err := stage.Builtin(n)
		if err != nil {
			return nil, fmt.Errorf("game: mode %s: %w", mode.ID, err)
		}
		out = append(out, st)
	}
	return out, nil
}
