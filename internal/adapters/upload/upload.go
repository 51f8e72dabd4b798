// Package upload implements the image store collaborator used by hotel
// create and update.
package upload

import (
	"context"
	"fmt"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
)

// Observed counts outcomes per driver.
type Observed struct {
	driver string
	next   domain.ImageUploader
}

func (o Observed) Upload(ctx context.Context, img domain.ImageFile) (string, error) {
	ref, err := o.next.Upload(ctx, img)
	observability.ObserveUpload(o.driver, err)
	return ref, err
}

// FromConfig builds the configured driver.
func FromConfig(ctx context.Context, c shared.Config) (domain.ImageUploader, error) {
	switch c.UploadDriver {
	case "imagehost", "":
		u, err := NewImageHost(ImageHostConfig{
			Base:      c.ImageHostBase,
			CloudName: c.ImageHostCloud,
			APIKey:    c.ImageHostKey,
			APISecret: c.ImageHostSecret,
			Folder:    "hotels",
			RPS:       c.UploadRPS,
		})
		if err != nil {
			return nil, err
		}
		return Observed{driver: "imagehost", next: u}, nil
	case "s3":
		u, err := NewS3(ctx, S3Config{
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Key:      c.S3Key,
			Secret:   c.S3Secret,
			Endpoint: c.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return Observed{driver: "s3", next: u}, nil
	default:
		return nil, fmt.Errorf("unknown UPLOAD_DRIVER %q", c.UploadDriver)
	}
}
