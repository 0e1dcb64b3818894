package distribution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"clip-trimmer/domain/distribution"
)

// ErrNoFolder is returned when sharing is requested without a Drive folder
var ErrNoFolder = errors.New("drive_folder_id is not configured")

// ErrInsufficientStorage is returned when the clip does not fit in the Drive quota
var ErrInsufficientStorage = errors.New("not enough Google Drive storage")

// UploadService uploads finished clips to Google Drive and shares them
type UploadService struct {
	driveClient distribution.DriveClient
	folderID    string
	output      io.Writer
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, folderID string, output io.Writer) *UploadService {
	if output == nil {
		output = io.Discard
	}
	return &UploadService{
		driveClient: client,
		folderID:    folderID,
		output:      output,
	}
}

// Share uploads a clip, replacing a same-name file in the folder, and
// returns its public link
func (s *UploadService) Share(ctx context.Context, clipPath string) (*distribution.UploadResult, error) {
	if s.folderID == "" {
		return nil, ErrNoFolder
	}

	info, err := os.Stat(clipPath)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %s", clipPath)
	}

	fileName := filepath.Base(clipPath)

	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}

	needed := info.Size()
	if existing != nil {
		needed -= existing.Size
	}
	if err := s.ensureSpace(ctx, needed); err != nil {
		return nil, err
	}

	if existing != nil {
		fmt.Fprintf(s.output, "      Replacing existing %s (%s)\n", existing.Name, humanize.Bytes(uint64(existing.Size)))
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	req := distribution.UploadRequest{
		LocalPath: clipPath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  distribution.MimeTypeFor(clipPath),
	}

	result, err := s.driveClient.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", fileName, err)
	}

	return result, nil
}

func (s *UploadService) ensureSpace(ctx context.Context, needed int64) error {
	if needed <= 0 {
		return nil
	}
	storage, err := s.driveClient.GetStorageQuota(ctx)
	if err != nil {
		return fmt.Errorf("failed to check storage: %w", err)
	}
	if !storage.HasSpaceFor(needed) {
		return fmt.Errorf("%w: need %s, %s available", ErrInsufficientStorage,
			humanize.Bytes(uint64(needed)), humanize.Bytes(uint64(storage.AvailableBytes)))
	}
	return nil
}
