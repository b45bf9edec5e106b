package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/parlo-app/parlo/go/cmd/parlo/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Global configuration (loaded at init time)
	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "parlo",
	Short: "Analyze speech clips for echo practice",
	Long: `parlo - analysis toolbox for echo practice.

The analyzer decodes a clip, reduces it to a loudness envelope and an
optional pitch track, and can lay a learner recording alongside the
reference. Saved echo regions and cached analyses live in a local
badger database.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/parlo/config.yaml
  Linux:   ~/.config/parlo/config.yaml
  Windows: %AppData%/parlo/config.yaml

Examples:
  # Analyze a clip and print the series as JSON
  parlo analyze clip.mp3 --points 400 --pitch

  # Narrow the analysis to an echo region
  parlo analyze clip.mp3 --start 12.5 --end 14.2

  # Compare a learner recording against the reference
  parlo analyze clip.mp3 --compare attempt.wav --query '.user.envelope | length'

  # Draw the envelope in the terminal
  parlo render clip.mp3 --width 100

  # Run the analysis service
  parlo serve --listen :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: OS config dir)")
}

// configLoadErr stores the error from config loading for deferred
// reporting, so commands that never touch the config still run.
var configLoadErr error

func initConfig() {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// GetConfig returns the global configuration.
// Returns an error if the config could not be loaded (e.g., HOME not set).
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// newLogger builds the logger commands share. Logging goes to stderr so
// JSON output on stdout stays pipeable; verbose lifts the level to debug.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
