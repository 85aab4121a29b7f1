// ABOUTME: Image upload proxy to Cloudinary
// ABOUTME: Wraps the Cloudinary SDK behind an interface so handlers are testable

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadFolder groups all blog images on the Cloudinary side.
const uploadFolder = "blog-images"

// Result is the subset of the upload response handlers care about.
type Result struct {
	URL      string
	PublicID string
}

// Uploader sends an image to the external image host and returns where it
// landed. Implementations must not retry; the caller surfaces failures.
type Uploader interface {
	Upload(ctx context.Context, filename string, contents io.Reader) (*Result, error)
}

// Cloudinary implements Uploader against the Cloudinary upload API.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	logger *slog.Logger
}

// NewCloudinary creates an uploader with the given account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("initializing cloudinary: %w", err)
	}
	return &Cloudinary{
		cld:    cld,
		logger: slog.Default().With("component", "upload"),
	}, nil
}

// Upload streams the file to Cloudinary and returns its hosted location.
func (c *Cloudinary) Upload(ctx context.Context, filename string, contents io.Reader) (*Result, error) {
	resp, err := c.cld.Upload.Upload(ctx, contents, uploader.UploadParams{
		Folder:       uploadFolder,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %q: %w", filename, err)
	}
	// The SDK reports some API-level failures in the body, not as err.
	if resp.Error.Message != "" {
		return nil, errors.New(resp.Error.Message)
	}

	c.logger.Info("image uploaded", "file", filename, "public_id", resp.PublicID)
	return &Result{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
	}, nil
}
