package cmd

import (
	"fmt"
	"os"

	"clip-trimmer/infrastructure/config"
	"clip-trimmer/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile  string
	verbose  bool
	settings *config.Settings
	logger   = zap.NewNop()

	settingsErr error
)

var rootCmd = &cobra.Command{
	Use:   "clip-trimmer",
	Short: "Trim gameplay recordings into small shareable clips",
	Long: `clip-trimmer cuts a range out of a recording and re-encodes it so the
clip fits a target file size. Multi-track audio (game + microphone) is mixed
down to a single stereo track.

  - Pick the range interactively with a live preview (edit)
  - Trim from the command line by timestamps (trim)
  - Inspect audio tracks and metadata (probe)
  - Share finished clips through Google Drive (share)

Example:
  clip-trimmer edit
  clip-trimmer trim --source "input/match.mkv" --start 00:01:10 --end 00:01:42`,
	SilenceUsage: true,
}

func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default is ./"+config.DefaultSettingsPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultSettingsPath
	}

	bootLogger, err := logging.New(logging.Options{Verbose: verbose})
	if err != nil {
		bootLogger = zap.NewNop()
	}

	settings, settingsErr = config.Bootstrap(cfgFile, bootLogger)
	if settingsErr != nil {
		logger = bootLogger
		return
	}

	if l, err := logging.New(logging.Options{Level: settings.LogLevel, Verbose: verbose}); err == nil {
		logger = l
	} else {
		logger = bootLogger
	}
}

// GetSettings returns the loaded settings or the reason they are missing
func GetSettings() (*config.Settings, error) {
	if settings == nil {
		if settingsErr != nil {
			return nil, fmt.Errorf("failed to load settings from %s: %w", cfgFile, settingsErr)
		}
		return nil, fmt.Errorf("settings not loaded; run 'clip-trimmer setup' first")
	}
	return settings, nil
}
