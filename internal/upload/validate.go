package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest accepted document, inclusive
const MaxFileSize int64 = 10 * 1024 * 1024

// Accepted document types
const (
	TypePDF  = "application/pdf"
	TypeDoc  = "application/msword"
	TypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Validation messages shown to the user
const (
	MsgFileTooLarge    = "File size must be less than 10MB"
	MsgUnsupportedType = "Please upload a PDF or Word document"
)

var allowedTypes = map[string]bool{
	TypePDF:  true,
	TypeDoc:  true,
	TypeDocx: true,
}

var extensionTypes = map[string]string{
	".pdf":  TypePDF,
	".doc":  TypeDoc,
	".docx": TypeDocx,
}

// Document is a file selected for upload
type Document struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// ValidationError rejects a document before any request is made
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the user-facing message
func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ContentTypeFor resolves a document type from the file extension, or ""
func ContentTypeFor(name string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(name))]
}

// FromFile describes the local file at path. contentType overrides the
// extension lookup when set.
func FromFile(path, contentType string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("%s is a directory", path)
	}

	if contentType == "" {
		contentType = ContentTypeFor(path)
	}

	return Document{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			// #nosec G304 - path was chosen by the user
			return os.Open(path)
		},
	}, nil
}

// Validate checks size, then type
func Validate(doc Document) error {
	if doc.Size > MaxFileSize {
		return &ValidationError{Field: "size", Message: MsgFileTooLarge}
	}
	if !allowedTypes[doc.ContentType] {
		return &ValidationError{Field: "content_type", Message: MsgUnsupportedType}
	}
	return nil
}

// FormatFileSize renders a byte count the way the upload preview does
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	s := fmt.Sprintf("%.2f", size)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " " + units[i]
}
