package crossy

import (
	"github.com/vovakirdan/tui-crossy/internal/config"
	"github.com/vovakirdan/tui-crossy/internal/games/crossy/core"
)

// SettingsFromConfig converts the YAML config into engine settings.
// placement overrides generation.placement when non-empty.
func SettingsFromConfig(cfg config.CrossyConfig, placement string) core.Settings {
	if placement == "" {
		placement = cfg.Generation.Placement
	}
	curve := func(p config.CurvePoint) core.Params {
		return core.Params{
			RoadProbability: p.RoadProbability,
			SpeedMin:        p.SpeedMin,
			SpeedMax:        p.SpeedMax,
			MinGap:          p.MinGap,
			Vehicles:        p.Vehicles,
			TruckEvery:      p.TruckEvery,
		}
	}

	return core.Settings{
		Gen: core.GenParams{
			Cols:                cfg.Board.Cols,
			SafeStartRows:       cfg.Board.SafeStartRows,
			Placement:           core.ParsePlacement(placement),
			AttemptFactor:       cfg.Generation.AttemptFactor,
			ObstacleProbability: cfg.Generation.ObstacleProbability,
			MaxObstacles:        cfg.Generation.MaxObstaclesPerLane,
		},
		Window: core.WindowParams{
			Lookahead:         cfg.Board.Lookahead,
			EvictDistance:     cfg.Board.EvictDistance,
			BuildingSpacing:   cfg.Generation.BuildingSpacing,
			BuildingLookahead: cfg.Generation.BuildingLookahead,
		},
		Difficulty: core.Model{
			Curve: core.Curve{
				Start: curve(cfg.Difficulty.Curve.Start),
				End:   curve(cfg.Difficulty.Curve.End),
			},
			Enabled:      cfg.Difficulty.Enabled,
			InitialLevel: cfg.Difficulty.InitialLevel,
			Progression:  core.ParseProgression(cfg.Difficulty.Progression.Type),
			RampDistance: cfg.Difficulty.Progression.MaxAt,
		},
		StartColumn:     cfg.Player.StartColumn,
		HopCooldown:     cfg.Player.HopCooldown,
		CollisionRadius: cfg.Collision.Radius,
		CloseCallMargin: cfg.Collision.CloseCallMargin,
		MaxDT:           cfg.Motion.MaxDT,
	}
}
