package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	appprocess "clip-trimmer/application/process"
	"clip-trimmer/infrastructure/filesystem"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share [clip]",
	Short: "Upload a clip to Google Drive with public sharing",
	Long: `Upload a clip to the configured Google Drive folder and make it readable by
anyone with the link. A file with the same name in the folder is replaced.

Without an argument the newest clip in the output directory is shared.

Example:
  clip-trimmer share
  clip-trimmer share "output/match - Trim.mkv"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, args []string) error {
	s, err := GetSettings()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	clipPath := ""
	if len(args) == 1 {
		clipPath = args[0]
	} else {
		clipPath, err = newestClip(s.OutputDir)
		if err != nil {
			return err
		}
	}

	uploads, err := newUploadService(ctx, s, os.Stdout)
	if err != nil {
		return err
	}
	return RunShareWithDependencies(ctx, uploads, clipPath, os.Stdout)
}

func newestClip(dir string) (string, error) {
	path, err := filesystem.NewFinder().FindNewestVideo(dir)
	if err != nil {
		return "", fmt.Errorf("no clip specified and could not find latest: %w", err)
	}
	return path, nil
}

// RunShareWithDependencies runs the share command with injected dependencies (for testing)
func RunShareWithDependencies(ctx context.Context, sharer appprocess.Sharer, clipPath string, output io.Writer) error {
	fmt.Fprintf(output, "Uploading %s...\n", filepath.Base(clipPath))
	result, err := sharer.Share(ctx, clipPath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintln(output, "Upload complete!")
	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  Size: %s\n", humanize.Bytes(uint64(result.Size)))
	fmt.Fprintf(output, "  Shareable URL: %s\n", result.ShareableURL)
	return nil
}
