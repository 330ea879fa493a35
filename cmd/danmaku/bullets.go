package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/content"
)

var bulletsCmd = &cobra.Command{
	Use:   "bullets",
	Short: "List the bullet definitions",
	Long: `Show every bullet in the built-in description file, or in --bullets
when given, with its glyph, tint, blend mode and collision shape.`,
	Args: cobra.NoArgs,
	RunE: runBullets,
}

func runBullets(_ *cobra.Command, _ []string) error {
	set, err := content.Default()
	if flagBullets != "" {
		set, err = content.Load(flagBullets)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Atlas: %s (%d bullets)\n\n", set.Atlas, set.Len())
	fmt.Printf("  %4s  %-12s  %-5s  %-14s  %-8s  %-9s  %s\n", "ID", "Name", "Glyph", "Tint", "Blend", "Frames", "Shape")
	for _, b := range set.All() {
		frames := fmt.Sprintf("%d", b.Frames)
		if b.Frames > 1 {
			frames = fmt.Sprintf("%dx%d", b.Frames, b.FrameTime)
		}
		fmt.Printf("  %4d  %-12s  %-5c  %-14s  %-8s  %-9s  %s\n",
			b.ID, b.Name, b.Glyph, b.Color, b.Blend, frames, b.Shape)
	}
	return nil
}
