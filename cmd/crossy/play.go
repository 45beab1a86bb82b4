package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crossy/internal/games/crossy"
	"github.com/vovakirdan/tui-crossy/internal/platform/tui"
	"github.com/vovakirdan/tui-crossy/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start playing. Without an argument the default variant is used.

Controls:
  W/Up/Space  - Hop forward
  S/Down      - Hop back
  A/D, Left/Right - Hop sideways
  P/Esc       - Pause
  R           - Restart (after game over)
  S           - Submit score (after game over)
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Start at the lowest level, progress to max
  normal - Start at 30%, progress to max
  hard   - Start at 70%, progress to max
  fixed  - No progression, stay at the config's initial level

Examples:
  crossy play
  crossy play crossy_classic
  crossy play --difficulty hard --seed 42
  crossy play --config ./my-crossy.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := crossy.IDCrossy
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 'crossy list' to see available variants", gameID)
	}

	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, cleanup, err := newLogger(true)
	if err != nil {
		return err
	}
	defer cleanup()

	game, err := tui.NewGame(gameID, gameCfg)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	logger.Info("starting game", "game", gameID, "seed", flagSeed, "difficulty", flagDifficulty)
	if err := tui.Run(game, buildServices(store, logger), runtimeConfig()); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
