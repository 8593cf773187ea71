package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/google/uuid"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // The URL prefix the root directory is served under
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// ValidateUpload checks the extension and size of an upload
func ValidateUpload(fileHeader *multipart.FileHeader, allowedExt []string, maxSize int64) error {
	if fileHeader == nil {
		return fmt.Errorf("%w: no file", ErrFileTypeNotAllowed)
	}
	if maxSize > 0 && fileHeader.Size > maxSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, fileHeader.Size, maxSize)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range allowedExt {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrFileTypeNotAllowed, ext)
}

// SaveFileWithPath saves a file to a specified subdirectory
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	subPath = strings.Trim(filepath.ToSlash(subPath), "/")
	if strings.Contains(subPath, "..") {
		return "", ErrInvalidPath
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	// Unique name prevents collisions and hides the client file name
	uniqueFilename := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	relative := uniqueFilename
	if subPath != "" {
		relative = subPath + "/" + uniqueFilename
	}

	accessiblePath := "uploads/" + relative
	if ls.baseURL != "" {
		accessiblePath = ls.baseURL + "/" + relative
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("accessible_path", accessiblePath).Msg("File saved successfully")
	return accessiblePath, nil
}

// GetFullPath returns the full filesystem path for a given file URL.
func (ls *LocalStorage) GetFullPath(fileURL string) (string, error) {
	relative := fileURL
	switch {
	case ls.baseURL != "" && strings.HasPrefix(fileURL, ls.baseURL+"/"):
		relative = strings.TrimPrefix(fileURL, ls.baseURL+"/")
	case strings.HasPrefix(fileURL, "uploads/"):
		relative = strings.TrimPrefix(fileURL, "uploads/")
	}

	relative = strings.Trim(relative, "/")
	if relative == "" || strings.Contains(relative, "..") || strings.Contains(relative, "://") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, fileURL)
	}

	return filepath.Join(ls.basePath, filepath.FromSlash(relative)), nil
}

// DeleteFile removes a file from the storage filesystem.
// Missing files are not an error.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	physicalPath, err := ls.GetFullPath(fileURL)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}
