package main

import (
	"fmt"
	"image/color"

	"github.com/spf13/cobra"

	"github.com/setanarut/themeatlas"
	"github.com/setanarut/themeatlas/internal/manifest"
	"github.com/setanarut/themeatlas/utils"
)

var (
	recolourFrom        []string
	recolourTo          string
	recolourAccentImage string
	recolourThreshold   int
	recolourMode        string
	recolourOutput      string
)

func init() {
	rootCmd.AddCommand(newRecolourCmd())
}

func newRecolourCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recolour",
		Aliases: []string{"recolor"},
		Short:   "Retint a theme toward an accent colour and save it",
		Long: `The recolour command loads a theme, retints every image not flagged
skip so that pixels near each --from colour take on the --to colour, and
writes the result as a new theme cache. Instead of --to, --accent-image picks
the most saturated dominant colour of a picture. Without --from the
manifest recolour pairs are used.

Example:
  themectl recolour -t light --from '#808080' --to '#3366cc' --output custom
  themectl recolour --accent-image wallpaper.jpg --mode yiq --output custom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecolour(cmd)
		},
	}
	cmd.Flags().StringSliceVar(&recolourFrom, "from", nil, "Source colours to match")
	cmd.Flags().StringVar(&recolourTo, "to", "", "Target colour")
	cmd.Flags().StringVar(&recolourAccentImage, "accent-image", "", "Take the target colour from this image")
	cmd.Flags().IntVar(&recolourThreshold, "threshold", themeatlas.DefaultRecolourThreshold, "Maximum squared RGB distance of matching pixels")
	cmd.Flags().StringVar(&recolourMode, "mode", "hsl", "Blend mode: hsl, yiq or ramp")
	cmd.Flags().StringVarP(&recolourOutput, "output", "o", string(themeatlas.ThemeCustom), "Theme id to write")
	return cmd
}

func recolourPairs(defaults []themeatlas.RecolourPair) ([]themeatlas.RecolourPair, error) {
	if len(recolourFrom) == 0 {
		if recolourTo != "" || recolourAccentImage != "" {
			return nil, fmt.Errorf("--to and --accent-image need --from")
		}
		return defaults, nil
	}
	from := make([]color.NRGBA, 0, len(recolourFrom))
	for _, s := range recolourFrom {
		c, err := manifest.ParseColour(s)
		if err != nil {
			return nil, err
		}
		from = append(from, c)
	}

	switch {
	case recolourAccentImage != "":
		img, err := utils.ReadImage(recolourAccentImage)
		if err != nil {
			return nil, err
		}
		return utils.AccentPairs(img, utils.PaletteMethodKMeans, from...)
	case recolourTo != "":
		to, err := manifest.ParseColour(recolourTo)
		if err != nil {
			return nil, err
		}
		pairs := make([]themeatlas.RecolourPair, 0, len(from))
		for _, f := range from {
			pairs = append(pairs, themeatlas.RecolourPair{From: f, To: to})
		}
		return pairs, nil
	}
	return nil, fmt.Errorf("--from needs --to or --accent-image")
}

func runRecolour(cmd *cobra.Command) error {
	mode, err := themeatlas.ParseBlendMode(recolourMode)
	if err != nil {
		return err
	}
	th, _, err := openTheme()
	if err != nil {
		return err
	}
	pairs, err := recolourPairs(th.Options().RecolourPairs)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no recolour pairs: pass --from or add [[recolour]] to the manifest")
	}

	id := currentThemeID()
	if _, err := th.ReadImageCache(id, true); err != nil {
		printInfo("Warning: %v\n", err)
	}
	opts := th.Options()
	if cmd.Flags().Changed("threshold") || opts.RecolourThreshold == 0 {
		opts.RecolourThreshold = recolourThreshold
	}
	if cmd.Flags().Changed("mode") {
		opts.BlendMode = mode
	}
	rc := themeatlas.Recolourer{Threshold: opts.RecolourThreshold, Mode: opts.BlendMode}
	th.SetRecolourPairs(pairs...)
	th.SetRecolourer(rc)
	n := th.RecolourTheme()
	printVerbose("Recoloured %d pixels with %d pairs\n", n, len(pairs))

	out := themeatlas.ThemeID(recolourOutput)
	if err := th.CreateImageCache(out, true); err != nil {
		return fmt.Errorf("failed to write theme cache: %w", err)
	}
	if jsonOut {
		return printJSON(map[string]any{"theme": out, "pixels": n, "pairs": len(pairs)})
	}
	printInfo("Wrote theme %q (%d pixels recoloured)\n", out, n)
	return nil
}
