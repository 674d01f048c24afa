package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"wsid/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StorageService defines the interface for media storage operations.
// Uploads return a permanent public URL; deletes accept that same URL.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

// CloudinaryStorageService implements StorageService using Cloudinary.
type CloudinaryStorageService struct {
	cld *cloudinary.Cloudinary
}

// NewStorageService initializes a Cloudinary-backed StorageService from the
// application configuration.
func NewStorageService() (StorageService, error) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorageService{cld: cld}, nil
}

// UploadFile uploads a local file into the given Cloudinary folder and
// returns its secure delivery URL.
func (s *CloudinaryStorageService) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploader.UploadParams{
		Folder: destFolder,
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload file: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("storage: no URL returned for upload")
	}
	return result.SecureURL, nil
}

// DeleteFile removes the asset behind the given delivery URL. Unknown URLs
// are ignored so cleanup sweeps never fail on already-removed media.
func (s *CloudinaryStorageService) DeleteFile(ctx context.Context, fileURL string) error {
	publicID := publicIDFromURL(fileURL)
	if publicID == "" {
		return nil
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("storage: failed to delete file: %w", err)
	}
	return nil
}

// publicIDFromURL extracts the Cloudinary public ID (folder/name without
// extension) from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v123/posts/abc.jpg.
func publicIDFromURL(fileURL string) string {
	idx := strings.Index(fileURL, "/upload/")
	if idx < 0 {
		return ""
	}
	rest := fileURL[idx+len("/upload/"):]
	// Drop the version segment if present.
	if parts := strings.SplitN(rest, "/", 2); len(parts) == 2 && strings.HasPrefix(parts[0], "v") {
		allDigits := len(parts[0]) > 1
		for _, ch := range parts[0][1:] {
			if ch < '0' || ch > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			rest = parts[1]
		}
	}
	ext := path.Ext(rest)
	return strings.TrimSuffix(rest, ext)
}
