package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Placement policies for road lanes.
const (
	PlacementAttempts = "attempts"
	PlacementFill     = "fill"
)

// LoadCrossy loads the crossy configuration.
// Search order: customPath -> ~/.crossy/configs/crossy.yaml -> ./configs/crossy.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides
// the keys it names.
func LoadCrossy(customPath string) (CrossyConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return CrossyConfig{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := ParseCrossy(data)
		if err != nil {
			return CrossyConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("crossy.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseCrossy(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "crossy.yaml")); err == nil {
		if cfg, err := ParseCrossy(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := ParseCrossy(defaultCrossyYAML)
	if err != nil {
		return DefaultCrossyConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseCrossy decodes YAML over DefaultCrossyConfig and validates the result.
func ParseCrossy(data []byte) (CrossyConfig, error) {
	cfg := DefaultCrossyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CrossyConfig{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return CrossyConfig{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range value in the config.
func (c CrossyConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	b := c.Board
	check(b.Cols >= 3, "board.cols must be at least 3, got %d", b.Cols)
	check(b.VisibleRows > 0, "board.visible_rows must be positive, got %d", b.VisibleRows)
	check(b.Lookahead >= 1, "board.lookahead must be at least 1, got %d", b.Lookahead)
	check(b.EvictDistance >= 0, "board.evict_distance must not be negative, got %d", b.EvictDistance)
	check(b.SafeStartRows >= 1, "board.safe_start_rows must be at least 1, got %d", b.SafeStartRows)

	check(c.Player.StartColumn >= 0 && c.Player.StartColumn < b.Cols,
		"player.start_column %d outside [0, %d)", c.Player.StartColumn, b.Cols)
	check(c.Player.HopCooldown >= 0, "player.hop_cooldown must not be negative")

	check(c.Collision.Radius > 0, "collision.radius must be positive")
	check(c.Collision.CloseCallMargin >= 0, "collision.close_call_margin must not be negative")
	check(c.Motion.MaxDT > 0, "motion.max_dt must be positive")

	g := c.Generation
	check(g.Placement == PlacementAttempts || g.Placement == PlacementFill,
		"generation.placement must be %q or %q, got %q", PlacementAttempts, PlacementFill, g.Placement)
	check(g.AttemptFactor >= 1, "generation.attempt_factor must be at least 1")
	check(g.ObstacleProbability >= 0 && g.ObstacleProbability < 1,
		"generation.obstacle_probability must be in [0, 1)")
	check(g.MaxObstaclesPerLane >= 0 && g.MaxObstaclesPerLane < b.Cols,
		"generation.max_obstacles_per_lane must leave a free column")
	check(g.BuildingSpacing > 0, "generation.building_spacing must be positive")

	d := c.Difficulty
	check(d.InitialLevel >= 0 && d.InitialLevel <= 1, "difficulty.initial_level must be in [0, 1]")
	switch d.Progression.Type {
	case "row", "score", "none":
	default:
		errs = append(errs, fmt.Errorf("difficulty.progression.type must be row, score or none, got %q", d.Progression.Type))
	}
	s, e := d.Curve.Start, d.Curve.End
	check(s.RoadProbability >= 0 && e.RoadProbability <= 1 && s.RoadProbability <= e.RoadProbability,
		"difficulty.curve road_probability must be non-decreasing within [0, 1]")
	check(s.SpeedMin >= 0 && s.SpeedMin <= e.SpeedMin, "difficulty.curve speed_min must be non-decreasing")
	check(s.SpeedMax <= e.SpeedMax, "difficulty.curve speed_max must be non-decreasing")
	check(s.SpeedMin <= s.SpeedMax && e.SpeedMin <= e.SpeedMax, "difficulty.curve speed_min must not exceed speed_max")
	check(e.MinGap > 0 && e.MinGap <= s.MinGap, "difficulty.curve min_gap must be positive and non-increasing")
	check(s.Vehicles >= 0 && s.Vehicles <= e.Vehicles, "difficulty.curve vehicles must be non-decreasing")
	check(e.TruckEvery >= 1 && e.TruckEvery <= s.TruckEvery, "difficulty.curve truck_every must be positive and non-increasing")

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid crossy config: %w", errors.Join(errs...))
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".crossy", "configs", filename)
}
