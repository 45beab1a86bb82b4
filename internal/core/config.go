package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	Best     int  // Best score known to the game for this session
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
	Started  bool // False while the game waits for the first move
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// Events lists the named game events raised during this tick
	// ("move", "hit", "win"). Hosts map them to sound or haptics.
	Events []string
}

// RunReport summarizes a finished run for persistence and achievements.
type RunReport struct {
	GameID       string         `json:"game_id"`
	Score        int            `json:"score"`
	SurvivalTime float64        `json:"survival_time"` // simulated seconds
	Dodges       int            `json:"dodges"`
	Jumps        int            `json:"jumps"`
	DodgedByKind map[string]int `json:"dodged_by_kind,omitempty"`
	CloseCall    bool           `json:"close_call"`
}
