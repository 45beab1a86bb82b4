// crossy is an endless lane-crossing game for the terminal.
//
// Usage:
//
//	crossy play [variant]      - Play (default: crossy)
//	crossy menu                - Pick a variant interactively
//	crossy list                - List available variants
//	crossy scores [variant]    - Show local or global high scores
//	crossy achievements        - Show achievement progress
//	crossy replay [file]       - List or verify recorded runs
//	crossy serve               - Serve the game over SSH
//	crossy board serve|top|watch - Run or query the leaderboard
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.crossy/scores.db)
//	--config <path>       - Custom game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--board-url <url>     - Leaderboard server to submit to
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register the game variants.
	_ "github.com/vovakirdan/tui-crossy/internal/games/crossy"
	"github.com/vovakirdan/tui-crossy/internal/replay"
	"github.com/vovakirdan/tui-crossy/internal/storage"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagName       string
	flagBoardURL   string
	flagReplayDir  string
	flagLogLevel   string
	flagLogFile    string
	flagBell       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crossy",
	Short: "Crossy - hop across endless roads in your terminal",
	Long: `Crossy is an endless lane-crossing game. Hop forward across grass
and traffic, dodge cars, buses and police, and push your best score.

Available commands:
  play          - Play a variant directly
  menu          - Interactive variant picker
  list          - Show all variants
  scores        - View high scores
  achievements  - View achievement progress
  replay        - List or verify recorded runs
  serve         - Start SSH server for remote play
  board         - Run or query the global leaderboard

Examples:
  crossy play
  crossy play crossy_classic --difficulty hard
  crossy board serve --addr :8080
  crossy play --board-url http://localhost:8080 --name frog`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagName, "name", "", "Leaderboard name (remembered once set)")
	pf.StringVar(&flagBoardURL, "board-url", os.Getenv("CROSSY_BOARD_URL"), "Leaderboard server URL")
	pf.StringVar(&flagReplayDir, "replays", replay.DefaultDir, "Replay directory (empty disables recording)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Log file for interactive commands (default: ~/.crossy/crossy.log)")
	pf.BoolVar(&flagBell, "bell", false, "Ring the terminal bell on a collision")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(boardCmd)
}
