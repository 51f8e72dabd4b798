package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

type S3Config struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string // empty for AWS; set for MinIO and friends
	Prefix   string
}

// S3 stores images as objects and returns the object key as the reference.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3(ctx context.Context, c S3Config) (*S3, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("upload/s3: bucket is not configured")
	}
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(c.Region)}
	if c.Key != "" && c.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.Key, c.Secret, ""),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("upload/s3: load config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if c.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		})
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = "hotels"
	}
	return &S3{client: s3.NewFromConfig(cfg, clientOpts...), bucket: c.Bucket, prefix: prefix}, nil
}

func (d *S3) Upload(ctx context.Context, img domain.ImageFile) (string, error) {
	// The SDK needs a seekable body to checksum over plain HTTP endpoints.
	data, err := io.ReadAll(img.Body)
	if err != nil {
		return "", fmt.Errorf("upload/s3: read: %w", err)
	}
	key := path.Join(d.prefix, uuid.NewString()+strings.ToLower(path.Ext(img.Name)))
	in := &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if img.ContentType != "" {
		in.ContentType = aws.String(img.ContentType)
	}

	start := time.Now()
	_, err = d.client.PutObject(ctx, in)
	status := 200
	if err != nil {
		status = 0
	}
	observability.ObserveExternal("s3", "put_object", status, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("upload/s3: put %s: %w", key, err)
	}
	return key, nil
}
