// Package media is the image-transform collaborator. Raw upload bytes go
// in, a resized JPEG hosted under a deterministic public ID comes out.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Resizer produces a resized, reformatted image from raw bytes.
type Resizer interface {
	ResizeJPEG(ctx context.Context, file io.Reader, name string, width, height int) (string, error)
}

// Service handles image uploads through Cloudinary with an incoming
// fill-resize transformation.
type Service struct {
	cld          *cloudinary.Cloudinary
	uploadFolder string
}

func NewService(cloudName, apiKey, apiSecret, uploadFolder string) (*Service, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	if uploadFolder == "" {
		uploadFolder = "gotours"
	}

	return &Service{
		cld:          cld,
		uploadFolder: uploadFolder,
	}, nil
}

// ResizeJPEG uploads the image, center-cropped to width x height and
// re-encoded as JPEG, and returns the hosted URL. The name becomes the
// public ID, so re-uploading under the same name replaces the asset.
func (s *Service) ResizeJPEG(ctx context.Context, file io.Reader, name string, width, height int) (string, error) {
	overwrite := true
	params := uploader.UploadParams{
		PublicID:       name,
		Folder:         s.uploadFolder,
		Format:         "jpg",
		Overwrite:      &overwrite,
		Transformation: fmt.Sprintf("c_fill,w_%d,h_%d,q_90", width, height),
	}

	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return result.SecureURL, nil
}

// IsImage reports whether the uploaded content type is an image.
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image")
}
