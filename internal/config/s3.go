// internal/config/s3.go
package config

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 configuration for campaign exports
type S3Config struct {
	Client *s3.Client
	Bucket string
}

// Enabled reports whether exports have somewhere to go.
func (c *S3Config) Enabled() bool {
	return c != nil && c.Client != nil && c.Bucket != ""
}

// NewS3Config creates a new S3 configuration
func NewS3Config(ctx context.Context) (*S3Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(os.Getenv("AWS_REGION")),
	}
	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			key,
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		Client: s3.NewFromConfig(cfg),
		Bucket: os.Getenv("S3_BUCKET_NAME"),
	}, nil
}
