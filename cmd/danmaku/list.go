package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game modes",
	Long:  `Shows every registered game mode with its difficulties, stages and shot types.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	modes := registry.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	for _, m := range modes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, m.ID, m.Title)
		fmt.Printf("  %-*s    difficulties: %s\n", maxIDLen, "", strings.Join(m.Difficulties, ", "))
		fmt.Printf("  %-*s    stages:       %s\n", maxIDLen, "", strings.Join(m.Stages, ", "))
		fmt.Printf("  %-*s    shots:        %s\n", maxIDLen, "", strings.Join(m.Shots, ", "))
	}

	fmt.Println()
	fmt.Println("Run 'danmaku play --mode <id>' to play a mode.")
}
