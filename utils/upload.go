package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"wsid/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ValidateImageFile enforces the per-file upload limits: size cap and
// JPEG/PNG content types only.
func ValidateImageFile(fh *multipart.FileHeader) error {
	maxMB := config.AppConfig.MaxUploadSizeMB
	if maxMB <= 0 {
		maxMB = 6
	}
	if fh.Size > maxMB<<20 {
		return NewServiceError(400, fmt.Sprintf("File %s exceeds the %dMB size limit", fh.Filename, maxMB))
	}
	contentType := fh.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return NewServiceError(400, "Invalid file type. Only JPEG and PNG are allowed")
	}
	return nil
}

// SaveUploadedImage validates an uploaded image and writes it to a temp file,
// returning the local path for the storage service to pick up. The caller is
// responsible for removing the file once uploaded.
func SaveUploadedImage(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if err := ValidateImageFile(fh); err != nil {
		return "", err
	}
	dst := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}
	return dst, nil
}
