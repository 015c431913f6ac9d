// Package cmd provides CLI commands for collabmap.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/collabmap/config"
	"github.com/lehigh-university-libraries/collabmap/store"
)

var (
	configDir string
	dbPath    string

	cfg *config.Config
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "collabmap",
	Short: "Map research collaborations between authors and institutions",
	Long: `Collabmap looks up who wrote a paper and where they work, geocodes the
institutions involved, and draws the resulting collaboration network.

Each step reads and writes plain CSV tables so the pipeline can be run
piece by piece:

  paper        research_paper_collab.csv   (Title, Authors, Collaborating Universities)
  locate       university_locations.csv    (University, Latitude, Longitude)
  map          university_collab_map.html
  network      collaborations.csv -> PNG

Examples:
  collabmap paper "Attention Is All You Need"
  collabmap affiliation "Jane Doe"
  collabmap locate
  collabmap map
  collabmap network -i collaborations.csv -o network.png
  collabmap edgelist generate && collabmap edgelist plot graph*_edgelist.csv`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configDir != "" {
			config.SetConfigDir(configDir)
		}
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = c
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openArchive opens the --db archive, or returns nil when none was requested.
func openArchive() (*store.Store, error) {
	if dbPath == "" {
		return nil, nil
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("opened archive", "path", dbPath)
	return s, nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func init() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	setupLogger()

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default: $COLLABMAP_CONFIG_DIR or ~/.collabmap)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Also archive results in this SQLite database")

	rootCmd.AddCommand(paperCmd)
	rootCmd.AddCommand(affiliationCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(edgelistCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(overridesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runsCmd)
}
