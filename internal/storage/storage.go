// Package storage persists generated report files. Three backends are
// supported: local filesystem, Azure Blob Storage and Google Drive.
package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/companyintel/research-api/internal/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadResult describes a stored file.
type UploadResult struct {
	// Path identifies the file within the backend (relative path, blob name
	// or Drive file ID)
	Path string
	Size int64
	// ViewLink is a browser-viewable link for cloud backends
	ViewLink string
}

// FileInfo describes a file listed from a backend.
type FileInfo struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	ModifiedTime string
	ViewLink     string
}

// Storage defines the interface for report file storage operations.
// folderID selects a destination folder for backends that support it (Drive);
// other backends ignore it. description annotates the stored file on backends
// that carry file metadata.
type Storage interface {
	Upload(ctx context.Context, filename string, contentType string, description string, data io.Reader, folderID string) (*UploadResult, error)
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, storagePath string) error
	List(ctx context.Context, folderID string) ([]FileInfo, error)
}

// NewStorage creates a new storage instance based on configuration.
// For local mode, files are stored on the local filesystem.
// For cloud/azure mode, files are stored in Azure Blob Storage.
// For drive mode, files are stored in Google Drive via a service account.
func NewStorage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalStorage(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	case "drive":
		if cfg.DriveCredentialsFile == "" {
			return nil, fmt.Errorf("credentials file required for drive storage")
		}
		return NewDriveStorage(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// LocalStorage implements Storage interface for local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base path if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Upload uploads a file to local storage. description and folderID are ignored.
func (s *LocalStorage) Upload(ctx context.Context, filename string, contentType string, description string, data io.Reader, folderID string) (*UploadResult, error) {
	// Shard by UUID prefix to keep directories small
	fileID := uuid.New().String()
	storagePath := filepath.Join(fileID[:2], fileID[2:4], filename)
	fullPath := filepath.Join(s.basePath, storagePath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath) // Cleanup on error
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{Path: storagePath, Size: size}, nil
}

// Download downloads a file from local storage
func (s *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, storagePath)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete deletes a file from local storage
func (s *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	fullPath := filepath.Join(s.basePath, storagePath)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// List walks the storage directory and returns all stored files.
// folderID is ignored for local storage.
func (s *LocalStorage) List(ctx context.Context, folderID string) ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		files = append(files, FileInfo{
			ID:           rel,
			Name:         d.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().UTC().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}

	return files, nil
}
