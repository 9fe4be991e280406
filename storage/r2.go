package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled reports whether any R2 setting was supplied.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" || c.AccessKeyID != "" || c.SecretAccessKey != "" || c.BucketName != "" || c.PublicBaseURL != ""
}

func (c R2Config) validate() error {
	if c.AccountID == "" || c.AccessKeyID == "" || c.SecretAccessKey == "" || c.BucketName == "" || c.PublicBaseURL == "" {
		return errors.New("invalid Cloudflare R2 configuration: all fields are required")
	}
	if _, err := url.Parse(c.PublicBaseURL); err != nil {
		return fmt.Errorf("invalid R2 public base URL: %w", err)
	}
	return nil
}

type r2Uploader struct {
	client        *s3.Client
	bucketName    string
	publicBaseURL string
}

// NewR2Uploader returns a FileUploader backed by a Cloudflare R2 bucket
// through its S3-compatible API.
func NewR2Uploader(ctx context.Context, cfg R2Config) (FileUploader, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &r2Uploader{
		client:        client,
		bucketName:    cfg.BucketName,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

func (u *r2Uploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	result, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucketName),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object to R2 (key: %s): %w", key, err)
	}

	etag := ""
	if result.ETag != nil {
		etag = strings.Trim(*result.ETag, "\"")
	}
	return &UploadResult{Key: key, Location: u.GetPublicURL(key), ETag: etag}, nil
}

func (u *r2Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from R2 (key: %s): %w", key, err)
	}
	return nil
}

func (u *r2Uploader) GetPublicURL(key string) string {
	return PublicURL(u.publicBaseURL, key)
}

// PublicURL joins an object key onto a public base URL. It returns "" when
// either part is empty or the base does not parse.
func PublicURL(baseURL, key string) string {
	if baseURL == "" || key == "" {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(strings.TrimPrefix(key, "/"))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
