// Package media stores uploaded images with Cloudinary and hands back the
// URLs that store, product and inventory forms save.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Asset is an uploaded image.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Store persists images.
type Store interface {
	Upload(ctx context.Context, file io.Reader, filename string) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// CloudinaryStore uploads into one Cloudinary folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore configures the client from a cloudinary:// URL.
func NewCloudinaryStore(cloudURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, filename string) (Asset, error) {
	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:           s.folder,
		FilenameOverride: filename,
		ResourceType:     "image",
	})
	if err != nil {
		return Asset{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return Asset{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return Asset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	return nil
}
