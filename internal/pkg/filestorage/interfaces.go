package filestorage

import (
	"errors"
	"mime/multipart"
)

// Upload validation errors
var (
	ErrFileTooLarge       = errors.New("file is too large")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
	ErrInvalidPath        = errors.New("invalid file path")
)

// Common upload rules
var (
	DocumentExtensions    = []string{".pdf", ".jpg", ".jpeg", ".png"}
	ImageExtensions       = []string{".jpg", ".jpeg", ".png", ".webp"}
	SpreadsheetExtensions = []string{".xlsx", ".xls"}
)

const (
	MaxDocumentSize = 10 << 20
	MaxImageSize    = 5 << 20
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores the upload under a subdirectory and returns its public URL
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// DeleteFile removes a previously returned URL or path from storage
	DeleteFile(fileURL string) error

	// GetFullPath returns the filesystem path for a given file URL
	GetFullPath(fileURL string) (string, error)
}
