package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crossy/internal/games/crossy"
	"github.com/vovakirdan/tui-crossy/internal/registry"
	"github.com/vovakirdan/tui-crossy/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresGlobal bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores",
	Long: `Display the top local scores for a variant, or the global
leaderboard with --global.

Examples:
  crossy scores
  crossy scores crossy_classic --limit 20
  crossy scores --global --board-url http://localhost:8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresGlobal, "global", false, "Show the global leaderboard")
}

func runScores(_ *cobra.Command, args []string) error {
	if flagScoresGlobal {
		return printGlobalScores(flagScoresLimit)
	}

	gameID := crossy.IDCrossy
	if len(args) == 1 {
		gameID = args[0]
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("%w, run 'crossy list' to see available variants", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	colorTitle.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'crossy play %s' to set the first high score!\n", gameID)
		return nil
	}

	colorHeader.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %s  %s\n", i+1,
			colorScore.Sprintf("%-10d", entry.Score),
			entry.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %s  Games: %d  Average: %.1f\n",
			colorScore.Sprint(stats.HighScore), stats.GamesCount, stats.AvgScore)
	}
	return nil
}

func printGlobalScores(limit int) error {
	logger, cleanup, err := newLogger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	board := newBoardClient(logger)
	if !board.Enabled() {
		return fmt.Errorf("no leaderboard configured, pass --board-url or set CROSSY_BOARD_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	entries := board.FetchTopScores(ctx, limit)

	colorTitle.Println("Global Leaderboard")
	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("No scores yet, or the leaderboard is unreachable.")
		return nil
	}

	colorHeader.Printf("  %-4s  %-18s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-18s  %s  %s\n", i+1, e.Username,
			colorScore.Sprintf("%-8d", e.Score),
			e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
