package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crossy/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available variants",
	Long:  `Shows every registered game variant.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No variants available.")
		return
	}

	fmt.Println("Available variants:")
	fmt.Println()

	maxIDLen := 2
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'crossy play <id>' to play a variant.")
}
