package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"clip-trimmer/infrastructure/config"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the settings file interactively",
	Long: `Prompts for settings values and writes the settings file.

This command guides you through choosing the input, output and temp
directories, the target clip size, the encoder and the optional Google Drive
folder used by --share. Press enter to keep the value shown in brackets.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultSettingsPath
	}
	current, _ := GetSettings()
	return RunSetupWithPrompter(DefaultPrompter, path, current, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing).
// current seeds the prompt defaults and may be nil.
func RunSetupWithPrompter(prompter Prompter, settingsPath string, current *config.Settings, output io.Writer) error {
	if _, err := os.Stat(settingsPath); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", settingsPath), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to clip-trimmer setup!")
	fmt.Fprintln(output)

	s := config.Defaults()
	if current != nil {
		s = *current
	}

	if err := promptPaths(prompter, &s); err != nil {
		return err
	}
	if err := promptEncoding(prompter, &s); err != nil {
		return err
	}
	if err := promptSharing(prompter, &s); err != nil {
		return err
	}

	if err := s.Validate(); err != nil {
		return err
	}
	if err := config.Save(&s, settingsPath); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := config.EnsureDirectories(&s); err != nil {
		return err
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Settings saved to %s\n", settingsPath)
	return nil
}

func promptRequired(prompter Prompter, message, current, name string) (string, error) {
	value, err := prompter.Input(message, current)
	if err != nil {
		return "", fmt.Errorf("prompt cancelled")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		value = current
	}
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}

func promptPaths(prompter Prompter, s *config.Settings) error {
	var err error
	if s.InputDir, err = promptRequired(prompter, "Where are recordings saved?", s.InputDir, "input directory"); err != nil {
		return err
	}
	if s.OutputDir, err = promptRequired(prompter, "Where should trimmed clips go?", s.OutputDir, "output directory"); err != nil {
		return err
	}
	if s.TempDir, err = promptRequired(prompter, "Where should preview files be cached?", s.TempDir, "temp directory"); err != nil {
		return err
	}
	return nil
}

func promptEncoding(prompter Prompter, s *config.Settings) error {
	size, err := promptRequired(prompter, "Target clip size in MB?", strconv.FormatFloat(s.TargetSizeMB, 'f', -1, 64), "target size")
	if err != nil {
		return err
	}
	mb, err := strconv.ParseFloat(size, 64)
	if err != nil || mb <= 0 {
		return fmt.Errorf("target size must be a positive number, got %q", size)
	}
	s.TargetSizeMB = mb

	if s.VideoEncoder, err = promptRequired(prompter, "Video encoder?", s.VideoEncoder, "video encoder"); err != nil {
		return err
	}

	mode, err := prompter.Select("How should audio tracks be counted?", []string{config.ProbeModeFFprobe, config.ProbeModeText}, s.ProbeMode)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	s.ProbeMode = mode
	return nil
}

func promptSharing(prompter Prompter, s *config.Settings) error {
	enable, err := prompter.Confirm("Share clips through Google Drive?", s.DriveFolderID != "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !enable {
		s.DriveFolderID = ""
		return nil
	}

	if s.DriveFolderID, err = promptRequired(prompter, "Google Drive folder ID for clips?", s.DriveFolderID, "folder ID"); err != nil {
		return err
	}
	if s.GoogleCredentialsFile, err = promptRequired(prompter, "Path to Google credentials file?", s.GoogleCredentialsFile, "credentials file"); err != nil {
		return err
	}
	return nil
}
