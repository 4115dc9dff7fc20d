package main

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/setanarut/themeatlas/utils"
)

var (
	paletteK      int
	paletteMethod string
	paletteImage  string
	paletteSwatch string
)

func init() {
	rootCmd.AddCommand(newPaletteCmd())
}

func newPaletteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Show the dominant colours of a theme atlas or one of its images",
		Long: `The palette command extracts the dominant colours of the theme atlas,
or of a single image with --image, darkest first. The most saturated colour
is marked as the accent candidate.

Example:
  themectl palette -t dark -k 8
  themectl palette --image play --method kmeans --swatch play-palette.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPalette()
		},
	}
	cmd.Flags().IntVarP(&paletteK, "k", "k", 6, "Number of colours")
	cmd.Flags().StringVar(&paletteMethod, "method", "dominantcolor", "Extraction method: dominantcolor or kmeans")
	cmd.Flags().StringVar(&paletteImage, "image", "", "Analyse this image instead of the whole atlas")
	cmd.Flags().StringVar(&paletteSwatch, "swatch", "", "Write the palette as a PNG strip")
	return cmd
}

func runPalette() error {
	method, err := utils.ParsePaletteMethod(paletteMethod)
	if err != nil {
		return err
	}
	th, _, err := openTheme()
	if err != nil {
		return err
	}
	id := currentThemeID()

	var src image.Image
	if paletteImage != "" {
		if _, err := th.LoadTheme(id); err != nil {
			printInfo("Warning: %v\n", err)
		}
		i, ok := th.LookupImage(paletteImage)
		if !ok {
			return fmt.Errorf("no image named %q", paletteImage)
		}
		src = th.Image(i)
	} else {
		src, err = th.AtlasImage(id)
		if err != nil {
			printVerbose("No cache for %q, packing defaults\n", id)
			src = th.BuildAtlas().Image
		}
	}

	palette, err := utils.ExtractPalette(src, paletteK, method)
	if err != nil {
		return err
	}
	utils.SortPaletteByBrightness(palette)
	accent, _ := utils.AccentColour(palette)

	if jsonOut {
		hexes := make([]string, len(palette))
		for i, c := range palette {
			hexes[i] = c.Hex()
		}
		return printJSON(map[string]any{"palette": hexes, "accent": accent.Hex(), "method": method.String()})
	}
	for _, c := range palette {
		mark := ""
		if c == accent {
			mark = "  accent"
		}
		printInfo("%s%s\n", c.Hex(), mark)
	}
	if paletteSwatch != "" {
		if err := utils.SavePalette(palette, 32, paletteSwatch); err != nil {
			return err
		}
		printInfo("Wrote %s\n", paletteSwatch)
	}
	return nil
}
