package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Upload folders on the media host.
const (
	FolderProfilePics = "profilePics"
	FolderBlogImages  = "blogImages"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = int64(1 * 1024 * 1024)

var (
	AllowedImageTypes = []string{".jpg", ".jpeg", ".png", ".webp"}
	allowedMIMETypes  = []string{"image/jpeg", "image/png", "image/webp"}

	ErrNotConfigured = errors.New("image uploads are not configured")
)

// Uploader stores an image and returns a durable public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename, folder string) (string, error)
}

// File is an image already read from a request
type File struct {
	Reader   io.Reader
	Filename string
}

// Disabled rejects every upload. Used when no media backend is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, string, string) (string, error) {
	return "", ErrNotConfigured
}

// ValidateImage checks size and type of an uploaded image
func ValidateImage(header *multipart.FileHeader) error {
	if header == nil {
		return errors.New("image file is required")
	}

	if header.Size > MaxImageSize {
		return fmt.Errorf("image file size exceeds maximum allowed size of %d MB", MaxImageSize/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !contains(AllowedImageTypes, ext) {
		return fmt.Errorf("invalid image file type: %s. Allowed types: %s", ext, strings.Join(AllowedImageTypes, ", "))
	}

	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		if !contains(allowedMIMETypes, strings.ToLower(ct)) {
			return fmt.Errorf("invalid image content type: %s", ct)
		}
	}

	return nil
}

// ContentType guesses the MIME type from the file extension.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
