// Package publish uploads finished renders to object storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// DefaultUploadTimeout bounds a single upload when S3Config.Timeout is zero
const DefaultUploadTimeout = 30 * time.Second

// ErrNotConfigured is returned when required S3 settings are missing
var ErrNotConfigured = errors.New("s3 publishing not configured")

// Publisher stores encoded images under a key
type Publisher interface {
	Publish(ctx context.Context, key string, data []byte, contentType string) error
}

// S3Config holds the S3-compatible storage settings
type S3Config struct {
	AccessKey string        `json:"accessKey"`
	SecretKey string        `json:"secretKey"`
	Endpoint  string        `json:"endpoint"` // Empty for AWS itself
	Region    string        `json:"region"`
	Bucket    string        `json:"bucket"`
	Prefix    string        `json:"prefix"` // Prepended to every key
	ACL       string        `json:"acl"`    // e.g. "public-read"; empty leaves the bucket default
	CDNURL    string        `json:"cdnUrl"` // Base URL for PublicURL
	Timeout   time.Duration `json:"-"`      // Per upload
}

// Enabled reports whether a bucket is configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Validate checks that an enabled configuration is complete
func (c S3Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Region == "" {
		return fmt.Errorf("%w: region is required", ErrNotConfigured)
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("%w: access key and secret key must be set together", ErrNotConfigured)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %v", ErrNotConfigured, c.Timeout)
	}
	return nil
}

// S3Publisher uploads to an S3-compatible bucket
type S3Publisher struct {
	client s3iface.S3API
	config S3Config
}

// NewFromConfig creates an S3 publisher, or returns nil, nil when no bucket
// is configured
func NewFromConfig(cfg S3Config) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}
	// Without static keys the SDK's default credential chain applies
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewS3Publisher(s3.New(sess), cfg), nil
}

// NewS3Publisher wraps an existing S3 client
func NewS3Publisher(client s3iface.S3API, cfg S3Config) *S3Publisher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultUploadTimeout
	}
	return &S3Publisher{client: client, config: cfg}
}

// Key joins the configured prefix and name into an object key
func (p *S3Publisher) Key(name string) string {
	if p.config.Prefix == "" {
		return name
	}
	return path.Join(p.config.Prefix, name)
}

// PublicURL returns where key is served from, if a CDN URL is configured
func (p *S3Publisher) PublicURL(key string) string {
	if p.config.CDNURL == "" {
		return ""
	}
	return strings.TrimSuffix(p.config.CDNURL, "/") + "/" + p.Key(key)
}

// Publish uploads data under key
func (p *S3Publisher) Publish(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	objectKey := p.Key(key)
	size := int64(len(data))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if p.config.ACL != "" {
		input.ACL = aws.String(p.config.ACL)
	}

	if _, err := p.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	log.Printf("Uploaded %s to s3://%s (%d bytes)", objectKey, p.config.Bucket, size)
	return nil
}

// Verify interface compliance
var _ Publisher = (*S3Publisher)(nil)
