package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	buildCode           bool
	buildFromComponents bool
)

func init() {
	rootCmd.AddCommand(newBuildCmd())
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Pack the manifest resources into a theme cache",
		Long: `The build command packs every image of the manifest into an atlas and
writes the atlas and its rectangle table to the store under the theme id.

Example:
  themectl build -m theme.toml -s themes -t dark
  themectl build --from-components -t custom
  themectl build --code -t light`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild()
		},
	}
	cmd.Flags().BoolVar(&buildCode, "code", false, "Write the theme as Go source instead of binary files")
	cmd.Flags().BoolVar(&buildFromComponents, "from-components", false, "Start from the per-image files in <theme>/Components")
	return cmd
}

func runBuild() error {
	th, _, err := openTheme()
	if err != nil {
		return err
	}
	id := currentThemeID()
	if buildFromComponents {
		n, err := th.LoadComponents(id, false)
		if err != nil {
			return fmt.Errorf("failed to load components: %w", err)
		}
		printVerbose("Loaded %d components\n", n)
	}
	if err := th.CreateImageCache(id, !buildCode); err != nil {
		return fmt.Errorf("failed to write theme cache: %w", err)
	}

	a := th.BuildAtlas()
	if jsonOut {
		return printJSON(map[string]any{
			"theme":   id,
			"width":   a.Bounds().Dx(),
			"height":  a.Bounds().Dy(),
			"images":  len(a.Images),
			"colours": len(a.Colours),
			"code":    buildCode,
		})
	}
	printInfo("Built theme %q: %dx%d atlas, %d images, %d colours\n",
		id, a.Bounds().Dx(), a.Bounds().Dy(), len(a.Images), len(a.Colours))
	return nil
}
