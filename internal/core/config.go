package core

// RuntimeConfig contains configuration passed to a session at initialization.
// The platform uses it to size the playfield view and seed the simulation.
type RuntimeConfig struct {
	ScreenW          int   // Screen width in characters
	ScreenH          int   // Screen height in characters
	TickRate         int   // Logical ticks per second at speed 1 (default 60)
	RenderMultiplier int   // Render callbacks per logical tick at speed 1
	Seed             int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:          80,
		ScreenH:          24,
		TickRate:         60,
		RenderMultiplier: 1,
		Seed:             0, // 0 means use current time in platform layer
	}
}

// RenderRate returns the render callbacks per second.
func (c RuntimeConfig) RenderRate() int {
	m := c.RenderMultiplier
	if m < 1 {
		m = 1
	}
	return c.TickRate * m
}

// GameState summarizes a session for the platform layer.
type GameState struct {
	Frame    int   // Logical ticks sampled so far
	Score    int64 // Current score
	GameOver bool  // Whether the session has ended
	Paused   bool  // Whether the simulation is paused
	Cleared  bool  // Whether the stage script ran to completion
}
