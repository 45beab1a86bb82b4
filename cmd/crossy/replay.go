package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crossy/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay [file|latest]",
	Short: "List or verify recorded runs",
	Long: `Without an argument, list recorded runs, newest first.

With a file (or "latest"), re-simulate the run from its seed, config and
inputs and check that it reproduces the recorded score.

Examples:
  crossy replay
  crossy replay latest
  crossy replay ~/.crossy/replays/crossy-20250101-120000-1a2b3c4d.jsonl.zst`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func runReplay(_ *cobra.Command, args []string) error {
	paths, err := replay.List(flagReplayDir)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if len(paths) == 0 {
			fmt.Println("No replays recorded yet.")
			return nil
		}
		colorTitle.Printf("Replays in %s\n", flagReplayDir)
		fmt.Println()
		for _, p := range paths {
			fmt.Printf("  %s\n", filepath.Base(p))
		}
		return nil
	}

	path := args[0]
	if path == "latest" {
		if len(paths) == 0 {
			return fmt.Errorf("no replays in %s", flagReplayDir)
		}
		path = paths[0]
	}

	r, err := replay.Load(path)
	if err != nil {
		return err
	}

	h := r.Header
	colorTitle.Println(filepath.Base(path))
	fmt.Printf("  Game:      %s\n", h.GameID)
	fmt.Printf("  Recorded:  %s\n", h.RecordedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Seed:      %d\n", h.Seed)
	fmt.Printf("  Config:    %s\n", h.ConfigDigest)
	fmt.Printf("  Inputs:    %d over %d frames\n", len(r.Inputs), r.Result.Frames)
	fmt.Printf("  Recorded:  score %s, %d jumps, %d dodges, %.1fs\n",
		colorScore.Sprint(r.Result.Score), r.Result.Jumps, r.Result.Dodges, r.Result.SurvivalTime)

	out, err := replay.Verify(r)
	switch {
	case errors.Is(err, replay.ErrMismatch):
		colorBad.Printf("  Verify:    MISMATCH (%v)\n", err)
		return errors.New("replay did not reproduce")
	case err != nil:
		return err
	}
	colorGood.Printf("  Verify:    OK, score %d in %d frames\n", out.Score, out.Frames)
	return nil
}
