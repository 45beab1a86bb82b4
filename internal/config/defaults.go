package config

import (
	_ "embed"
)

//go:embed defaults/crossy.yaml
var defaultCrossyYAML []byte

// DefaultCrossyConfig returns the built-in configuration. It mirrors
// defaults/crossy.yaml and is used when the embedded file cannot be parsed.
func DefaultCrossyConfig() CrossyConfig {
	return CrossyConfig{
		Board: CrossyBoard{
			Cols:          9,
			VisibleRows:   14,
			Lookahead:     14,
			EvictDistance: 10,
			SafeStartRows: 2,
		},
		Player: CrossyPlayer{
			StartColumn: 4,
			HopCooldown: 0.15,
		},
		Collision: CrossyCollision{
			Radius:          0.6,
			CloseCallMargin: 0.3,
		},
		Motion: CrossyMotion{
			MaxDT: 0.05,
		},
		Generation: CrossyGeneration{
			Placement:           PlacementAttempts,
			AttemptFactor:       3,
			ObstacleProbability: 0.12,
			MaxObstaclesPerLane: 3,
			BuildingSpacing:     2.5,
			BuildingLookahead:   40,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "row",
				MaxAt: 150,
			},
			Curve: CurveConfig{
				Start: CurvePoint{
					RoadProbability: 0.45,
					SpeedMin:        2,
					SpeedMax:        3,
					MinGap:          2.8,
					Vehicles:        1,
					TruckEvery:      10,
				},
				End: CurvePoint{
					RoadProbability: 0.85,
					SpeedMin:        5,
					SpeedMax:        7,
					MinGap:          1.2,
					Vehicles:        4,
					TruckEvery:      4,
				},
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "crossy", "crossy_classic":
		return defaultCrossyYAML
	default:
		return nil
	}
}
