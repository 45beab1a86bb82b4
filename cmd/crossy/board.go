package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crossy/internal/leaderboard"
	"github.com/vovakirdan/tui-crossy/internal/storage"
)

var (
	flagBoardAddr  string
	flagBoardLimit int
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Run or query the global leaderboard",
}

var boardServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the leaderboard HTTP server",
	Long: `Serve the global leaderboard.

Endpoints:
  POST /api/scores              - Submit {"username": "...", "score": N}
  GET  /api/scores?limit=N      - Top scores, best first
  GET  /api/scores/best?username=NAME - A player's best score
  GET  /ws                      - Live feed of accepted scores

Examples:
  crossy board serve --addr :8080 --db ./board.db`,
	Args: cobra.NoArgs,
	RunE: runBoardServe,
}

var boardTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Print the global top scores",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return printGlobalScores(flagBoardLimit)
	},
}

var boardWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream accepted scores as they arrive",
	Args:  cobra.NoArgs,
	RunE:  runBoardWatch,
}

func init() {
	boardServeCmd.Flags().StringVar(&flagBoardAddr, "addr", ":8080", "HTTP listen address")
	boardTopCmd.Flags().IntVar(&flagBoardLimit, "limit", storage.DefaultRemoteLimit, "Number of scores to show")

	boardCmd.AddCommand(boardServeCmd)
	boardCmd.AddCommand(boardTopCmd)
	boardCmd.AddCommand(boardWatchCmd)
}

func runBoardServe(_ *cobra.Command, _ []string) error {
	logger, cleanup, err := newLogger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening leaderboard database: %w", err)
	}
	defer store.Close()

	srv, err := leaderboard.NewServer(store, logger.WithPrefix("board"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, flagBoardAddr)
}

func runBoardWatch(_ *cobra.Command, _ []string) error {
	logger, cleanup, err := newLogger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	board := newBoardClient(logger)
	if !board.Enabled() {
		return fmt.Errorf("no leaderboard configured, pass --board-url or set CROSSY_BOARD_URL")
	}

	colorMuted.Println("Watching leaderboard, Ctrl+C to stop")
	return board.Watch(ctx, func(msg leaderboard.Message) {
		switch msg.Type {
		case "top":
			colorTitle.Printf("Top %d\n", len(msg.Entries))
			for i, e := range msg.Entries {
				fmt.Printf("  %-4d %-18s %s\n", i+1, e.Username, colorScore.Sprint(e.Score))
			}
		case "score":
			if msg.Entry != nil {
				fmt.Printf("%s %-18s %s\n", colorGood.Sprint("+"), msg.Entry.Username, colorScore.Sprint(msg.Entry.Score))
			}
		}
	})
}
