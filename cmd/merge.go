package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"clip-trimmer/domain/video"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <file>",
	Short: "Build the merged-audio preview copy of a recording",
	Long: `Mix every audio track of a recording into one stereo track and cache the
result in temp_dir. The editor does this on demand; running it ahead of time
makes opening long recordings instant. Single-track recordings are left alone.

Example:
  clip-trimmer merge "input/match.mkv"`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	s, err := GetSettings()
	if err != nil {
		return err
	}
	return RunMergeWithDependencies(cmd.Context(), newAudioProber(s), newMergeService(s, logger), args[0], os.Stdout)
}

// RunMergeWithDependencies runs the merge command with injected dependencies (for testing)
func RunMergeWithDependencies(ctx context.Context, prober video.AudioProber, merges PreviewPreparer, sourcePath string, output io.Writer) error {
	count, err := prober.ProbeAudioTrackCount(ctx, sourcePath)
	if err != nil {
		return fmt.Errorf("failed to probe audio tracks: %w", err)
	}
	tracks := video.NewAudioTrackSet(count)

	if !tracks.NeedsMix() {
		fmt.Fprintf(output, "%s has %d audio track(s); nothing to merge.\n", sourcePath, count)
		return nil
	}

	fmt.Fprintf(output, "Merging %d audio tracks...\n", count)
	result, err := merges.Prepare(ctx, sourcePath, tracks)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if result.Cached {
		fmt.Fprintf(output, "Merged copy is up to date: %s\n", result.PreviewPath)
		return nil
	}
	fmt.Fprintf(output, "Created: %s\n", result.PreviewPath)
	return nil
}
