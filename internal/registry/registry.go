// Package registry provides a global registry of game modes.
// Modes register themselves in init() functions, allowing the platform and
// the CLI to discover them and validate a requested difficulty and stage
// without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
)

var (
	ErrUnknownMode       = errors.New("registry: unknown game mode")
	ErrUnknownDifficulty = errors.New("registry: unknown difficulty")
	ErrUnknownStage      = errors.New("registry: unknown stage")
	ErrUnknownShot       = errors.New("registry: unknown shot type")
)

// Mode describes one playable game mode.
type Mode struct {
	// ID is a unique identifier (e.g., "story", "practice").
	// Used for CLI commands, score storage and replay tags.
	ID string

	// Title is a human-readable name for display.
	Title string

	// Difficulties lists the difficulty tags this mode accepts, easiest first.
	Difficulties []string

	// Stages lists the stage names in play order. The first is the default.
	Stages []string

	// Shots lists the player shot types. The first is the default.
	Shots []string
}

// DefaultStage returns the first stage of the mode.
func (m Mode) DefaultStage() string {
	if len(m.Stages) == 0 {
		return ""
	}
	return m.Stages[0]
}

// DefaultShot returns the first shot type of the mode.
func (m Mode) DefaultShot() string {
	if len(m.Shots) == 0 {
		return ""
	}
	return m.Shots[0]
}

var (
	modes = make(map[string]Mode)
	mu    sync.RWMutex
)

// Register adds a mode to the registry.
// Typically called from an init() function.
// Panics if a mode with the same ID is already registered.
func Register(m Mode) {
	mu.Lock()
	defer mu.Unlock()

	if m.ID == "" {
		panic("registry: mode without an ID")
	}
	if _, exists := modes[m.ID]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", m.ID))
	}

	m.Difficulties = slices.Clone(m.Difficulties)
	m.Stages = slices.Clone(m.Stages)
	m.Shots = slices.Clone(m.Shots)
	modes[m.ID] = m
}

// List returns all registered modes, sorted by ID.
func List() []Mode {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Mode, 0, len(modes))
	for _, m := range modes {
		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the mode registered under id.
func Lookup(id string) (Mode, error) {
	mu.RLock()
	defer mu.RUnlock()

	m, ok := modes[id]
	if !ok {
		return Mode{}, fmt.Errorf("%w %q", ErrUnknownMode, id)
	}
	return m, nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := modes[id]
	return ok
}

// Validate checks that difficulty and stage exist for the mode.
// An empty stage is accepted and means the mode's default stage.
func Validate(mode, difficulty, stage string) error {
	m, err := Lookup(mode)
	if err != nil {
		return err
	}
	if !slices.Contains(m.Difficulties, difficulty) {
		return fmt.Errorf("%w %q for mode %q (have %v)", ErrUnknownDifficulty, difficulty, mode, m.Difficulties)
	}
	if stage != "" && !slices.Contains(m.Stages, stage) {
		return fmt.Errorf("%w %q for mode %q (have %v)", ErrUnknownStage, stage, mode, m.Stages)
	}
	return nil
}

// ValidateShot checks that shot exists for the mode.
func ValidateShot(mode, shot string) error {
	m, err := Lookup(mode)
	if err != nil {
		return err
	}
	if !slices.Contains(m.Shots, shot) {
		return fmt.Errorf("%w %q for mode %q (have %v)", ErrUnknownShot, shot, mode, m.Shots)
	}
	return nil
}

