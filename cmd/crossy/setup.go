package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-crossy/internal/achievements"
	"github.com/vovakirdan/tui-crossy/internal/config"
	"github.com/vovakirdan/tui-crossy/internal/core"
	"github.com/vovakirdan/tui-crossy/internal/leaderboard"
	"github.com/vovakirdan/tui-crossy/internal/platform/tui"
	"github.com/vovakirdan/tui-crossy/internal/storage"
)

// newLogger builds the process logger. Interactive commands own the
// terminal, so they log to a file instead of stderr.
func newLogger(interactive bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	var out io.Writer = os.Stderr
	cleanup := func() {}
	if interactive {
		path := flagLogFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, fmt.Errorf("cannot get home directory: %w", err)
			}
			path = filepath.Join(home, ".crossy", "crossy.log")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
		cleanup = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "crossy",
		Level:           level,
	})
	return logger, cleanup, nil
}

// loadGameConfig reads --config and applies --difficulty.
func loadGameConfig() (config.CrossyConfig, error) {
	cfg, err := config.LoadCrossy(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		preset, ok := config.ParsePreset(flagDifficulty)
		if !ok {
			return cfg, fmt.Errorf("unknown difficulty %q (easy, normal, hard, fixed)", flagDifficulty)
		}
		config.ApplyCrossyPreset(&cfg, preset)
	}
	return cfg, nil
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the score database. Gameplay works without one.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

func newBoardClient(logger *log.Logger) *leaderboard.Client {
	return leaderboard.NewClient(flagBoardURL, logger.WithPrefix("board"))
}

// buildServices wires persistence and the leaderboard into the TUI.
func buildServices(store *storage.Store, logger *log.Logger) tui.Services {
	s := tui.Services{
		Store:     store,
		Board:     newBoardClient(logger),
		ReplayDir: flagReplayDir,
		Username:  flagName,
		Bell:      flagBell,
		Logger:    logger,
	}
	if store == nil {
		return s
	}

	s.Tracker = achievements.NewTracker(store)
	if s.Username != "" {
		if err := store.SetUsername(s.Username); err != nil {
			logger.Warn("could not save username", "error", err)
		}
	} else if name, err := store.Username(); err == nil {
		s.Username = name
	}
	return s
}
