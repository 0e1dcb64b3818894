package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	appvideo "clip-trimmer/application/video"
	"clip-trimmer/domain/video"
	"clip-trimmer/infrastructure/filesystem"
	"clip-trimmer/infrastructure/logging"
	"clip-trimmer/infrastructure/media"
	"clip-trimmer/infrastructure/player"
	"clip-trimmer/ui/trimview"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// logFileName is the TUI log sink inside temp_dir
const logFileName = "clip-trimmer.log"

var (
	editSizeMB   float64
	editHeadless bool
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Choose a trim range interactively with a live preview",
	Long: `Open a recording in the interactive editor. Without a file argument the
videos in the configured input directory are offered, newest first.

Recordings with several audio tracks are previewed through a merged copy
cached in temp_dir; trims always read the original file.

Keys:
  ←/→ scrub 1s, shift+←/→ scrub 10s
  [ ] move start, { } move end, s/e set start/end at the playhead
  space play/pause, t trim, c cancel trim, q quit

Example:
  clip-trimmer edit
  clip-trimmer edit "input/match.mkv" --size 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().Float64Var(&editSizeMB, "size", 0, "Target size in MB (default from target_size_mb)")
	editCmd.Flags().BoolVar(&editHeadless, "no-preview", false, "Do not launch ffplay; track the playhead only")
}

func runEdit(cmd *cobra.Command, args []string) error {
	s, err := GetSettings()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	sourcePath := ""
	if len(args) == 1 {
		sourcePath = args[0]
	} else {
		sourcePath, err = pickVideo(DefaultPrompter, filesystem.NewFinder(), s.InputDir)
		if err != nil {
			return err
		}
	}

	// The screen belongs to the editor, so logs go to a file.
	fileLogger, err := logging.New(logging.Options{
		Level:   s.LogLevel,
		Verbose: verbose,
		File:    filepath.Join(s.TempDir, logFileName),
	})
	if err != nil {
		return err
	}
	defer func() { _ = fileLogger.Sync() }()

	var p video.Player = player.NewNullPlayer(nil)
	if !editHeadless {
		p = player.NewFFplay(player.WithFFplayPath(s.FFplayPath), player.WithLogger(fileLogger))
	}
	defer p.Close()

	prober := newMediaProber(s)
	jobs := appvideo.NewJobRunner(newTranscoder(s, fileLogger), fileLogger)
	defer jobs.Shutdown()

	targetSize := editSizeMB
	if targetSize <= 0 {
		targetSize = s.TargetSizeMB
	}

	opts, err := BuildEditorOptions(ctx, EditDependencies{
		Prober:    prober,
		Durations: media.NewDurationReader(prober),
		Merges:    newMergeService(s, fileLogger),
		Player:    p,
		Planner:   newTrimService(s, newAudioProber(s)),
		Jobs:      jobs,
		Logger:    fileLogger,
	}, sourcePath, targetSize, os.Stdout)
	if err != nil {
		return err
	}

	model, err := trimview.New(opts)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	return nil
}

// VideoLister lists candidate recordings, newest first
type VideoLister interface {
	ListVideos(dir string) ([]string, error)
}

// pickVideo asks the user to choose one of the videos in dir
func pickVideo(prompter Prompter, lister VideoLister, dir string) (string, error) {
	files, err := lister.ListVideos(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no video files found in %s", dir)
	}

	names := make([]string, len(files))
	byName := make(map[string]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
		byName[names[i]] = f
	}

	choice, err := prompter.Select("Which recording?", names, names[0])
	if err != nil {
		return "", fmt.Errorf("prompt cancelled")
	}
	path, ok := byName[choice]
	if !ok {
		return "", fmt.Errorf("unknown selection %q", choice)
	}
	return path, nil
}

// PreviewPreparer produces the file the player loads
type PreviewPreparer interface {
	Prepare(ctx context.Context, sourcePath string, tracks video.AudioTrackSet) (*appvideo.MergeResult, error)
}

// EditDependencies are the collaborators of the editor
type EditDependencies struct {
	Prober    video.MediaProber
	Durations video.DurationReader
	Merges    PreviewPreparer
	Player    video.Player
	Planner   trimview.Planner
	Jobs      trimview.JobStarter
	Logger    *zap.Logger
}

// BuildEditorOptions probes the source, prepares the preview and returns the
// editor configuration
func BuildEditorOptions(ctx context.Context, deps EditDependencies, sourcePath string, targetSizeMB float64, output io.Writer) (trimview.Options, error) {
	fmt.Fprintf(output, "[1/2] Probing %s...\n", filepath.Base(sourcePath))
	info, err := deps.Prober.Probe(ctx, sourcePath)
	if err != nil {
		return trimview.Options{}, fmt.Errorf("failed to probe %s: %w", sourcePath, err)
	}

	total, err := deps.Durations.DurationSeconds(ctx, sourcePath)
	if err != nil {
		return trimview.Options{}, err
	}
	if total < video.MinLength {
		return trimview.Options{}, fmt.Errorf("%w: %s is %ds long", video.ErrDegenerateMedia, filepath.Base(sourcePath), total)
	}
	tracks := info.TrackSet()
	fmt.Fprintf(output, "      Duration: %s, audio tracks: %d\n", video.TimestampFromSeconds(total), tracks.Len())

	fmt.Fprintln(output, "[2/2] Preparing preview...")
	preview, err := deps.Merges.Prepare(ctx, sourcePath, tracks)
	if err != nil {
		return trimview.Options{}, fmt.Errorf("failed to prepare preview: %w", err)
	}
	switch {
	case preview.Cached:
		fmt.Fprintf(output, "      Using cached merged audio: %s\n", preview.PreviewPath)
	case preview.Merged:
		fmt.Fprintf(output, "      Merged %d audio tracks: %s\n", tracks.Len(), preview.PreviewPath)
	default:
		fmt.Fprintln(output, "      Previewing the original file")
	}

	return trimview.Options{
		SourcePath:   sourcePath,
		PreviewPath:  preview.PreviewPath,
		Tracks:       tracks,
		TotalSeconds: total,
		TargetSizeMB: targetSizeMB,
		Player:       deps.Player,
		Planner:      deps.Planner,
		Jobs:         deps.Jobs,
		Logger:       deps.Logger,
		Context:      ctx,
	}, nil
}
