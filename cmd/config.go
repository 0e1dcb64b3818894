package cmd

import (
	"fmt"
	"io"
	"os"

	"clip-trimmer/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput io.Writer = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change settings",
	Long: `Read and change single keys of the settings file.

Examples:
  clip-trimmer config list
  clip-trimmer config get target_size_mb
  clip-trimmer config set target_size_mb 25
  clip-trimmer config set probe_mode text`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSettings()
		if err != nil {
			return err
		}
		return RunConfigGetWithDependencies(s, cfgFile, args[0], DefaultOutput)
	},
}

// RunConfigGetWithDependencies runs the get command with injected dependencies
func RunConfigGetWithDependencies(s *config.Settings, settingsPath, key string, out io.Writer) error {
	value, err := config.NewManager(s, settingsPath).Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, value)
	return nil
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting and save the file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSettings()
		if err != nil {
			return err
		}
		return RunConfigSetWithDependencies(s, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(s *config.Settings, settingsPath, key, value string, out io.Writer) error {
	mgr := config.NewManager(s, settingsPath)
	if err := mgr.Set(key, value); err != nil {
		return err
	}
	current, _ := mgr.Get(key)
	fmt.Fprintf(out, "Set %s = %q\n", key, current)
	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSettings()
		if err != nil {
			return err
		}
		return RunConfigListWithDependencies(s, cfgFile, DefaultOutput)
	},
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(s *config.Settings, settingsPath string, out io.Writer) error {
	entries := config.NewManager(s, settingsPath).List()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Key, e.Value})
	}
	fmt.Fprintln(out, renderTable([]string{"Key", "Value"}, rows))
	return nil
}
