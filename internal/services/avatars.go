package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	appconfig "github.com/silent2803/NurtiDuo/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AvatarService stores avatar images in an S3 bucket. Uploads use overwrite
// semantics: re-uploading to the same key replaces the previous object.
type AvatarService struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewAvatarService creates a new avatar service
func NewAvatarService(ctx context.Context, cfg appconfig.AWSConfig) (*AvatarService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &AvatarService{
		client:   client,
		bucket:   cfg.AvatarBucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}, nil
}

// Upload puts an avatar object at the given key, replacing any prior object
func (s *AvatarService) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload avatar: %w", err)
	}
	return nil
}

// PublicURL returns the public reference URL for an uploaded avatar key
func (s *AvatarService) PublicURL(key string) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("avatar bucket is not configured")
	}
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
