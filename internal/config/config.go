// Package config provides YAML-based game configuration loading and
// difficulty presets for the crossy game variants.
package config

// CrossyConfig contains all tunables for the lane-crossing game.
type CrossyConfig struct {
	Board      CrossyBoard      `yaml:"board"`
	Player     CrossyPlayer     `yaml:"player"`
	Collision  CrossyCollision  `yaml:"collision"`
	Motion     CrossyMotion     `yaml:"motion"`
	Generation CrossyGeneration `yaml:"generation"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// CrossyBoard defines the board geometry and world window.
type CrossyBoard struct {
	Cols          int `yaml:"cols"`
	VisibleRows   int `yaml:"visible_rows"`
	Lookahead     int `yaml:"lookahead"`      // rows materialized ahead of the player
	EvictDistance int `yaml:"evict_distance"` // rows kept behind the player
	SafeStartRows int `yaml:"safe_start_rows"`
}

// CrossyPlayer defines player parameters.
type CrossyPlayer struct {
	StartColumn int     `yaml:"start_column"`
	HopCooldown float64 `yaml:"hop_cooldown"` // seconds
}

// CrossyCollision defines hit detection parameters.
type CrossyCollision struct {
	Radius          float64 `yaml:"radius"`
	CloseCallMargin float64 `yaml:"close_call_margin"`
}

// CrossyMotion defines vehicle motion parameters.
type CrossyMotion struct {
	MaxDT float64 `yaml:"max_dt"` // seconds, per tick
}

// CrossyGeneration defines lane generation parameters.
type CrossyGeneration struct {
	Placement           string  `yaml:"placement"` // "attempts" or "fill"
	AttemptFactor       int     `yaml:"attempt_factor"`
	ObstacleProbability float64 `yaml:"obstacle_probability"`
	MaxObstaclesPerLane int     `yaml:"max_obstacles_per_lane"`
	BuildingSpacing     float64 `yaml:"building_spacing"`
	BuildingLookahead   float64 `yaml:"building_lookahead"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Curve        CurveConfig       `yaml:"curve"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "row", "score", or "none"
	MaxAt int    `yaml:"max_at"` // row/score at which max difficulty is reached
}

// CurveConfig holds the lane parameters at the easiest and hardest level.
type CurveConfig struct {
	Start CurvePoint `yaml:"start"`
	End   CurvePoint `yaml:"end"`
}

// CurvePoint is one end of the difficulty curve.
type CurvePoint struct {
	RoadProbability float64 `yaml:"road_probability"`
	SpeedMin        float64 `yaml:"speed_min"`
	SpeedMax        float64 `yaml:"speed_max"`
	MinGap          float64 `yaml:"min_gap"`
	Vehicles        int     `yaml:"vehicles"`
	TruckEvery      int     `yaml:"truck_every"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset validates a preset name. The empty string means "use the
// config file as is".
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// ApplyCrossyPreset modifies the config based on a difficulty preset.
// Fixed keeps the configured initial level and turns progression off.
func ApplyCrossyPreset(cfg *CrossyConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
