package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crossy/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a variant from an interactive menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play. After a game ends,
Esc returns to the menu. Tab opens the scoreboard.

Examples:
  crossy menu
  crossy menu --fps 30 --difficulty easy`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, cleanup, err := newLogger(true)
	if err != nil {
		return err
	}
	defer cleanup()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	services := buildServices(store, logger)
	cfg := runtimeConfig()

	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = result.Config

		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, services.Board, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := tui.NewGame(result.GameID, gameCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if err := tui.Run(game, services, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		// A name typed at the submit prompt is stored for the next game.
		if store != nil && services.Username == "" {
			if name, err := store.Username(); err == nil {
				services.Username = name
			}
		}
	}
}
