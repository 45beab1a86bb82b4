package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crossy/internal/achievements"
	"github.com/vovakirdan/tui-crossy/internal/storage"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show achievement progress and lifetime stats",
	Args:  cobra.NoArgs,
	RunE:  runAchievements,
}

func runAchievements(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	tracker := achievements.NewTracker(store)
	statuses, err := tracker.Statuses()
	if err != nil {
		return err
	}
	life, err := tracker.Lifetime()
	if err != nil {
		return err
	}

	unlocked := 0
	for _, s := range statuses {
		if s.Unlocked() {
			unlocked++
		}
	}
	colorTitle.Printf("Achievements %d/%d\n", unlocked, len(statuses))
	fmt.Println()

	for _, s := range statuses {
		if s.Unlocked() {
			fmt.Printf("  %s %-22s %s %s\n", colorGood.Sprint("[x]"), s.Title, s.Description,
				colorMuted.Sprint(s.UnlockedAt.Local().Format("2006-01-02")))
		} else {
			colorMuted.Printf("  [ ] %-22s %s\n", s.Title, s.Description)
		}
	}

	fmt.Println()
	colorTitle.Println("Lifetime")
	fmt.Printf("  Games played:  %d\n", life.GamesPlayed)
	fmt.Printf("  Best score:    %s\n", colorScore.Sprint(life.MaxScore))
	fmt.Printf("  Longest run:   %.1fs\n", life.MaxSurvivalTime)
	fmt.Printf("  Total jumps:   %d\n", life.TotalJumps)
	fmt.Printf("  Total dodges:  %d\n", life.TotalDodges)

	kinds := make([]string, 0, len(life.DodgedByKind))
	for k := range life.DodgedByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("    %-10s %d\n", k, life.DodgedByKind[k])
	}
	return nil
}
