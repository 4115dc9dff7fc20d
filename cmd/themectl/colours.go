package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/setanarut/themeatlas"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	nameStyle   = lipgloss.NewStyle().Width(24)
)

func init() {
	rootCmd.AddCommand(newColoursCmd())
}

func newColoursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "colours",
		Aliases: []string{"colors"},
		Short:   "List the colours of a theme",
		Long: `The colours command loads a theme cache and lists every registered
colour with its value and a swatch. Colours the cache does not provide show
their manifest default.

Example:
  themectl colours -t dark
  themectl colours --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColours()
		},
	}
	return cmd
}

type colourRow struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func hexNRGBA(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func runColours() error {
	th, _, err := openTheme()
	if err != nil {
		return err
	}
	id := currentThemeID()
	ok, err := th.LoadTheme(id)
	if err != nil {
		printInfo("Warning: %v\n", err)
	}
	printVerbose("Theme %q cache loaded: %v\n", id, ok)

	rows := make([]colourRow, 0, th.NumColours())
	for i := range th.NumColours() {
		rows = append(rows, colourRow{
			Index: i,
			Name:  th.ColourName(themeatlas.ColourIndex(i)),
			Value: hexNRGBA(th.Colour(themeatlas.ColourIndex(i))),
		})
	}
	if jsonOut {
		return printJSON(rows)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Colours of %q", id)))
	b.WriteString("\n")
	for _, r := range rows {
		line := fmt.Sprintf("%3d  %s %s", r.Index, nameStyle.Render(r.Name), r.Value)
		if !noColor {
			swatch := lipgloss.NewStyle().Background(lipgloss.Color(r.Value[:7])).Render("    ")
			line = swatch + " " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	printInfo("%s", b.String())
	return nil
}
