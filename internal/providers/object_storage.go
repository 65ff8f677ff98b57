package providers

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStorage stores session recordings. Paths are "{projectId}/{sessionId}".
type ObjectStorage interface {
	Upload(ctx context.Context, path, contentType string, body io.ReadSeeker, size int64) error
	Delete(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// S3Options configures S3Storage; an empty BaseEndpoint uses AWS itself
type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// S3Storage implements ObjectStorage on any S3 compatible service
type S3Storage struct {
	bucket  string
	client  *s3.Client
	presign *s3.PresignClient
}

var _ ObjectStorage = (*S3Storage)(nil)

func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &ProviderError{Code: ErrCodeStorage, Message: "Failed to load S3 config", Err: err}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		bucket:  opts.Bucket,
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

// Upload writes the recording in a single PUT
func (s *S3Storage) Upload(ctx context.Context, path, contentType string, body io.ReadSeeker, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return &ProviderError{Code: ErrCodeStorage, Message: "Failed to upload " + path, Err: err}
	}
	return nil
}

// Delete removes an object; deleting a missing key succeeds
func (s *S3Storage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return &ProviderError{Code: ErrCodeStorage, Message: "Failed to delete " + path, Err: err}
	}
	return nil
}

// SignedURL returns a presigned GET valid for ttl
func (s *S3Storage) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", &ProviderError{Code: ErrCodeStorage, Message: "Failed to presign " + path, Err: err}
	}
	return req.URL, nil
}
