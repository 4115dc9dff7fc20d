package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportDefs       string
	exportMap        string
	exportPkg        string
	exportComponents bool
)

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export resource definitions, an HTML image map or component files",
		Long: `The export command writes build-time artifacts for the manifest:
Go source with resource indices and atlas rectangles, an HTML image map of
the atlas, and/or one PNG per image under <theme>/Components for editing.

Example:
  themectl export --defs themedefs.go --pkg themes
  themectl export --map atlas.html
  themectl export --components -t custom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport()
		},
	}
	cmd.Flags().StringVar(&exportDefs, "defs", "", "Write Go resource definitions to this file")
	cmd.Flags().StringVar(&exportMap, "map", "", "Write an HTML image map to this file")
	cmd.Flags().StringVar(&exportPkg, "pkg", "themes", "Package name of the generated Go source")
	cmd.Flags().BoolVar(&exportComponents, "components", false, "Write each image to <theme>/Components")
	return cmd
}

func runExport() error {
	if exportDefs == "" && exportMap == "" && !exportComponents {
		return fmt.Errorf("nothing to export: pass --defs, --map or --components")
	}
	th, _, err := openTheme()
	if err != nil {
		return err
	}
	id := currentThemeID()
	if _, err := th.ReadImageCache(id, true); err != nil {
		printInfo("Warning: %v; exporting defaults\n", err)
	}

	if exportDefs != "" {
		var buf bytes.Buffer
		if err := th.WriteImageDefs(&buf, exportPkg); err != nil {
			return err
		}
		if err := os.WriteFile(exportDefs, buf.Bytes(), 0o644); err != nil {
			return err
		}
		printInfo("Wrote %s\n", exportDefs)
	}
	if exportMap != "" {
		var buf bytes.Buffer
		if err := th.WriteImageMap(&buf, string(id)+"/ImageCache.png"); err != nil {
			return err
		}
		if err := os.WriteFile(exportMap, buf.Bytes(), 0o644); err != nil {
			return err
		}
		printInfo("Wrote %s\n", exportMap)
	}
	if exportComponents {
		if err := th.SaveComponents(id); err != nil {
			return fmt.Errorf("failed to save components: %w", err)
		}
		printInfo("Wrote components of %q\n", id)
	}
	return nil
}
