package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 30 * time.Second

// S3Config holds the settings of an S3-compatible bucket
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
}

// Enabled reports whether enough settings are present to upload
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Uploader puts rendered images into a bucket
type Uploader struct {
	client s3iface.S3API
	bucket string
	logger core.Logger
}

// NewS3Uploader creates an uploader for a path-style S3-compatible endpoint
func NewS3Uploader(cfg S3Config, logger core.Logger) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, errors.New("s3 upload needs a bucket, access key and secret key")
	}

	awsConfig := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return NewUploader(s3.New(sess), cfg.Bucket, logger), nil
}

// NewUploader wraps an existing S3 client
func NewUploader(client s3iface.S3API, bucket string, logger core.Logger) *Uploader {
	return &Uploader{client: client, bucket: bucket, logger: logger}
}

// UploadPNG stores data under key with an image/png content type
func (u *Uploader) UploadPNG(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if u.logger != nil {
		u.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, u.bucket, size)
	}
	return nil
}
