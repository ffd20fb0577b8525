// Package s3store uploads generated artifacts (research reports) to an
// S3-compatible bucket.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appcfg "github.com/trendscope/core/internal/config"
)

// Store wraps an S3 client bound to a single bucket.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
	public string
}

// New builds a Store from the archive config. Returns nil when archival is
// disabled so callers can treat the store as optional.
func New(cfg appcfg.ReportArchiveS3) (*Store, error) {
	if !cfg.Enable {
		return nil, nil
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	region := strings.TrimSpace(cfg.Region)
	if bucket == "" || region == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
	}

	client := s3.New(s3.Options{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		BaseEndpoint: func() *string {
			ep := strings.TrimSpace(cfg.Endpoint)
			if ep == "" {
				return nil
			}
			if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
				ep = "https://" + ep
			}
			return aws.String(strings.TrimSuffix(ep, "/"))
		}(),
		// Custom endpoints (MinIO, R2) generally only support path-style.
		UsePathStyle: strings.TrimSpace(cfg.Endpoint) != "",
	})

	public := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
		if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
			ep = "https://" + ep
		}
		public = strings.TrimSuffix(ep, "/") + "/" + bucket
	}

	return &Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		public: public,
	}, nil
}

// Put uploads payload under key and returns the object's public URL.
func (s *Store) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	key = s.objectKey(key)
	if key == "" {
		return "", fmt.Errorf("invalid s3 object key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return s.public + "/" + key, nil
}

func (s *Store) objectKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.Trim(key, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	if key == "" {
		return ""
	}
	if s.prefix != "" {
		return s.prefix + "/" + key
	}
	return key
}
