package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/companyintel/research-api/internal/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveStorage implements Storage interface for Google Drive using a service
// account. Uploaded reports land in the configured default folder unless a
// request supplies its own folder ID.
type DriveStorage struct {
	service         *drive.Service
	defaultFolderID string
	logger          *zap.Logger
}

// NewDriveStorage creates a new Google Drive storage instance authenticated
// with a service account key file.
func NewDriveStorage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*DriveStorage, error) {
	keyData, err := os.ReadFile(cfg.DriveCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials file: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(keyData, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
	}

	service, err := drive.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	logger.Info("Google Drive storage initialized",
		zap.String("default_folder_id", cfg.DriveFolderID),
	)

	return &DriveStorage{
		service:         service,
		defaultFolderID: cfg.DriveFolderID,
		logger:          logger,
	}, nil
}

// Upload uploads a file to Google Drive. When folderID is empty, the
// configured default folder is used; when both are empty the file lands in
// the service account's root.
func (s *DriveStorage) Upload(ctx context.Context, filename string, contentType string, description string, data io.Reader, folderID string) (*UploadResult, error) {
	if folderID == "" {
		folderID = s.defaultFolderID
	}

	meta := &drive.File{
		Name:        filename,
		MimeType:    contentType,
		Description: description,
	}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	file, err := s.service.Files.Create(meta).
		Media(data, googleapi.ContentType(contentType)).
		Fields("id, name, size, webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload to drive: %w", err)
	}

	s.logger.Info("File uploaded to Google Drive",
		zap.String("file_id", file.Id),
		zap.String("name", file.Name),
		zap.String("folder_id", folderID),
		zap.Int64("size", file.Size),
	)

	return &UploadResult{
		Path:     file.Id,
		Size:     file.Size,
		ViewLink: file.WebViewLink,
	}, nil
}

// Download downloads a file from Google Drive by file ID.
func (s *DriveStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	resp, err := s.service.Files.Get(storagePath).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download drive file: %w", err)
	}

	return resp.Body, nil
}

// Delete deletes a file from Google Drive by file ID.
func (s *DriveStorage) Delete(ctx context.Context, storagePath string) error {
	err := s.service.Files.Delete(storagePath).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 404 {
			s.logger.Debug("Drive file already deleted or not found",
				zap.String("file_id", storagePath),
			)
			return nil
		}
		return fmt.Errorf("failed to delete drive file: %w", err)
	}

	return nil
}

// List enumerates non-folder files in a Drive folder, most recently modified
// first. When folderID is empty, the configured default folder is used.
func (s *DriveStorage) List(ctx context.Context, folderID string) ([]FileInfo, error) {
	if folderID == "" {
		folderID = s.defaultFolderID
	}

	call := s.service.Files.List().
		PageSize(100).
		OrderBy("modifiedTime desc").
		Fields("nextPageToken, files(id, name, mimeType, size, modifiedTime, webViewLink)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx)

	if folderID != "" {
		call = call.Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID))
	}

	var files []FileInfo
	pageToken := ""
	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list drive files: %w", err)
		}
		for _, f := range list.Files {
			if f.MimeType == folderMimeType {
				continue
			}
			files = append(files, FileInfo{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				Size:         f.Size,
				ModifiedTime: f.ModifiedTime,
				ViewLink:     f.WebViewLink,
			})
		}
		pageToken = list.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return files, nil
}
