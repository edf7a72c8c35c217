package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/infra/config"
)

const displayNameMetadataKey = "display-name"

// Client is an S3-compatible blob store behind the file proxy. Object keys
// are opaque references; clients never talk to the store directly.
type Client struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewClient builds an S3 client from storage settings. Static credentials
// are used when provided, otherwise the default chain applies (MinIO needs
// the static pair).
func NewClient(ctx context.Context, cfg config.StorageSettings, logger *zap.Logger) (*Client, error) {
	var (
		awsConfig aws.Config
		err       error
	)

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsConfig, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		)
	} else {
		awsConfig, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	logger.Info("blob store client initialized",
		zap.String("bucket", cfg.Bucket),
		zap.String("region", cfg.Region),
		zap.Bool("path_style", cfg.UsePathStyle),
	)

	return &Client{
		client: s3Client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Fetch streams the object behind the reference. A missing key maps to
// port.ErrObjectNotFound so the proxy can report it as a 404.
func (c *Client) Fetch(ctx context.Context, ref string) (*port.StorageObject, error) {
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, port.ErrObjectNotFound
		}
		return nil, fmt.Errorf("get object: %w", err)
	}

	object := &port.StorageObject{
		Body: result.Body,
		Name: result.Metadata[displayNameMetadataKey],
	}
	if result.ContentType != nil {
		object.ContentType = *result.ContentType
	}
	if result.ContentLength != nil {
		object.Size = *result.ContentLength
	}

	return object, nil
}

// Upload stores the payload under a fresh key inside the folder prefix and
// returns the key as the opaque reference. The original display name rides
// along as object metadata.
func (c *Client) Upload(ctx context.Context, input port.UploadInput) (*port.StoredFile, error) {
	key := path.Join(input.Folder, uuid.NewString()+filepath.Ext(input.Name))

	putInput := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(input.Data),
		Metadata: map[string]string{
			displayNameMetadataKey: input.Name,
		},
	}
	if input.ContentType != "" {
		putInput.ContentType = aws.String(input.ContentType)
	}

	if _, err := c.client.PutObject(ctx, putInput); err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	c.logger.Debug("object stored",
		zap.String("key", key),
		zap.Int("size", len(input.Data)),
	)

	return &port.StoredFile{
		Ref:  key,
		Name: input.Name,
		Size: int64(len(input.Data)),
	}, nil
}

// HealthCheck verifies bucket reachability.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	}); err != nil {
		return fmt.Errorf("s3 health check failed: %w", err)
	}
	return nil
}

var _ port.FileStore = (*Client)(nil)
