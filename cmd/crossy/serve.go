package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crossy/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the crossy SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the variant menu. Local
scores are stored per server, so all users share the same scoreboard.
With --board-url, players can also submit to the global leaderboard
under their SSH user name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.crossy/host_key

Examples:
  crossy serve
  crossy serve --ssh :2222
  crossy serve --host-key ./my_host_key --db ./scores.db

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}
	logger, cleanup, err := newLogger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		BoardURL:    flagBoardURL,
		Game:        gameCfg,
		TickRate:    flagFPS,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Logger:      logger.WithPrefix("ssh"),
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	fmt.Printf("Starting crossy SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx)
}
