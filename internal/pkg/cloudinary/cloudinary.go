package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Service handles Cloudinary upload operations
type Service struct {
	cld        *cloudinary.Cloudinary
	rootFolder string
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	FileSize int64
	Format   string
}

// NewService creates a new Cloudinary service instance. rootFolder may be empty.
func NewService(cloudName, apiKey, apiSecret, rootFolder string) (*Service, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	return &Service{
		cld:        cld,
		rootFolder: strings.Trim(rootFolder, "/"),
	}, nil
}

func (s *Service) folder(name string) string {
	if s.rootFolder == "" {
		return name
	}
	return s.rootFolder + "/" + name
}

// UploadImage uploads an image into folder and returns the full upload result
func (s *Service) UploadImage(ctx context.Context, file io.Reader, filename, folder string) (*UploadResult, error) {
	uploadParams := uploader.UploadParams{
		Folder:       s.folder(folder),
		ResourceType: "image",
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	if result.SecureURL == "" {
		return nil, errors.New("failed to upload image: empty url returned")
	}

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Width:    result.Width,
		Height:   result.Height,
		FileSize: int64(result.Bytes),
		Format:   result.Format,
	}, nil
}

// Upload satisfies media.Uploader.
func (s *Service) Upload(ctx context.Context, file io.Reader, filename, folder string) (string, error) {
	res, err := s.UploadImage(ctx, file, filename, folder)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// Delete removes an image from Cloudinary
func (s *Service) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return errors.New("publicID is required")
	}

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return nil
}
