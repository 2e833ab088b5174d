package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/putoptions"
	"github.com/aws/smithy-go"
)

type S3StorageConfig struct {
	Bucket        string
	PublicBaseURL string
	Region        string
	S3Client      s3.S3Client
}

type S3Storage struct {
	bucket        string
	publicBaseURL string
	region        string
	s3Client      s3.S3Client
}

func NewS3Storage(config S3StorageConfig) S3Storage {
	return S3Storage{
		bucket:        config.Bucket,
		publicBaseURL: config.PublicBaseURL,
		region:        config.Region,
		s3Client:      config.S3Client,
	}
}

/*
EnsureBucketExists creates the upload bucket if it is missing.
*/
func (s S3Storage) EnsureBucketExists() error {
	var (
		err    error
		exists bool
	)

	if exists, err = s.s3Client.BucketExists(s.bucket); err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucket", s.bucket)

	if err = s.s3Client.CreateBucket(s.bucket, createbucketoptions.WithRegion(s.region)); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", s.bucket, err)
	}

	return nil
}

func (s S3Storage) Put(ctx context.Context, path string, body io.Reader, contentType string) error {
	var (
		err  error
		stat *s3.ObjectMetadata
	)

	if err = ctx.Err(); err != nil {
		return err
	}

	// A failed stat means there is nothing at path yet.
	if stat, err = s.s3Client.StatObject(s.bucket, path); err == nil && stat != nil {
		return fmt.Errorf("%w: %s", ErrObjectExists, path)
	}

	if _, err = s.s3Client.Put(s.bucket, path, body, putoptions.WithContentType(contentType)); err != nil {
		if IsSizeLimitError(err) {
			return fmt.Errorf("%w: %s", ErrStorageLimit, err.Error())
		}

		return fmt.Errorf("error uploading object '%s': %w", path, err)
	}

	return nil
}

func (s S3Storage) PublicURL(path string) string {
	return joinURL(s.publicBaseURL, path)
}

/*
IsSizeLimitError reports whether an S3 API error is the service rejecting
an object for being too large.
*/
func IsSizeLimitError(err error) bool {
	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "EntityTooLarge", "MaxMessageLengthExceeded", "RequestEntityTooLarge":
			return true
		}
	}

	return false
}
