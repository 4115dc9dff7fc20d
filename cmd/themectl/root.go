package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/setanarut/themeatlas"
	"github.com/setanarut/themeatlas/internal/manifest"
)

var (
	// Global flags
	storeDir     string
	manifestPath string
	themeName    string
	verbose      bool
	quiet        bool
	jsonOut      bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "themectl",
	Short: "Build, inspect and recolour theme atlases",
	Long: `themectl packs the images and colours listed in a resource manifest
into a theme atlas, writes the theme caches read by applications, and
inspects or recolours existing caches.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		current = nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&storeDir, "store", "s", "themes", "Directory holding the theme caches")
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "theme.toml", "Resource manifest")
	rootCmd.PersistentFlags().StringVarP(&themeName, "theme", "t", string(themeatlas.ThemeLight), "Theme id")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// current is the process-lifetime theme, opened by the first command that
// needs it.
var current *themeatlas.Theme

func newLogger() *slog.Logger {
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openTheme loads the manifest and returns a theme backed by the store
// directory, with preferences kept in <store>/prefs.toml.
func openTheme() (*themeatlas.Theme, *manifest.Manifest, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, nil, err
	}
	if current != nil {
		return current, m, nil
	}
	prefs, err := themeatlas.OpenTOMLPreferences(filepath.Join(storeDir, "prefs.toml"))
	if err != nil {
		return nil, nil, err
	}
	opts := m.Apply(themeatlas.DefaultOptions())
	opts.Store = themeatlas.DirStore{Root: storeDir}
	opts.Preferences = prefs
	opts.Logger = newLogger()

	th := themeatlas.New(opts, m.Register)
	for _, rt := range m.Themes() {
		th.RegisterTheme(rt)
	}
	th.EnsureInitialised()
	printVerbose("Registered %d images and %d colours from %s\n", th.NumImages(), th.NumColours(), manifestPath)
	current = th
	return th, m, nil
}

func currentThemeID() themeatlas.ThemeID {
	return themeatlas.ThemeID(themeName)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
