package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/jleignadier/nueva-generacion-sub000/internal/constants"
	"github.com/jleignadier/nueva-generacion-sub000/internal/utils"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the size limit")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrStorageUnavailable = errors.New("blob storage is unavailable")
)

// Receipts and profile pictures must be images the reviewer can open in the
// browser.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadResult identifies a stored blob.
type UploadResult struct {
	URL  string
	Path string
}

// Uploader stores and deletes blobs.
type Uploader interface {
	UploadReceipt(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*UploadResult, error)
	Delete(ctx context.Context, path string) error
}

// CloudinaryUploader is the Cloudinary-backed Uploader.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader builds an uploader from a CLOUDINARY_URL value.
func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// ValidateImage rejects uploads before anything is stored or any row is
// created.
func ValidateImage(header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return ErrFileTooLarge
	}
	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		return ErrUnsupportedType
	}
	return nil
}

// UploadReceipt validates and stores a donation receipt under the receipts
// folder.
func (u *CloudinaryUploader) UploadReceipt(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if err := ValidateImage(header, constants.MaxUploadSize); err != nil {
		return nil, err
	}

	publicID, err := utils.GenerateReceiptID()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   "receipts",
		PublicID: publicID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &UploadResult{
		URL:  resp.SecureURL,
		Path: resp.PublicID,
	}, nil
}

// Delete removes a stored blob by its public ID.
func (u *CloudinaryUploader) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: path}); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
