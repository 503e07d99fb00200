package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxAttachmentSize is 25MB in bytes; intraoral scans run large.
	MaxAttachmentSize = 25 * 1024 * 1024
)

// AllowedAttachmentFormats are the file types the lab works with:
// photos, documents and printable/millable model files.
var AllowedAttachmentFormats = []string{".png", ".jpg", ".jpeg", ".pdf", ".stl", ".ply", ".zip"}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateAttachmentFile validates the uploaded file format and size
func ValidateAttachmentFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxAttachmentSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxAttachmentSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range AllowedAttachmentFormats {
		if ext == allowed {
			return nil
		}
	}

	return &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: fmt.Sprintf("File format %q is not allowed (allowed: %s)", ext, strings.Join(AllowedAttachmentFormats, ", ")),
	}
}
