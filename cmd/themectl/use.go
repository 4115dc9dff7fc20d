package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/setanarut/themeatlas"
)

var useBlend string

func init() {
	rootCmd.AddCommand(newUseCmd())
}

func newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [theme]",
		Short: "Select the preferred theme",
		Long: `The use command stores the preferred theme in <store>/prefs.toml, where
applications read it at startup. Without an argument it prints the theme
that would be loaded. Only themes declared in the manifest and "custom" can
be selected.

Example:
  themectl use dark
  themectl use --blend=false custom`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUse(args)
		},
	}
	cmd.Flags().StringVar(&useBlend, "blend", "", "Also set whether loaded themes are recoloured (true or false)")
	return cmd
}

func runUse(args []string) error {
	th, _, err := openTheme()
	if err != nil {
		return err
	}
	prefs := th.Options().Preferences
	switch useBlend {
	case "":
	case "true", "false":
		if err := themeatlas.SetBlendThemes(prefs, useBlend == "true"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("--blend must be true or false, got %q", useBlend)
	}

	if len(args) == 1 {
		if err := th.SelectTheme(themeatlas.ThemeID(args[0])); err != nil {
			return err
		}
	}
	ok, err := th.LoadPreferredTheme()
	if err != nil {
		printInfo("Warning: %v\n", err)
	}
	if jsonOut {
		return printJSON(map[string]any{
			"theme":  th.Current(),
			"cached": ok,
			"blend":  themeatlas.BlendThemes(prefs),
		})
	}
	printInfo("Theme %q (cache found: %v, blend: %v)\n", th.Current(), ok, themeatlas.BlendThemes(prefs))
	return nil
}
