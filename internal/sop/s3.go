package sop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"golang.org/x/sync/errgroup"

	"github.com/lumian-ai/sellerchat/internal/log"
)

// presignConcurrency bounds parallel presign calls per document.
const presignConcurrency = 4

// ClientConfig configures the S3-backed SOP client.
type ClientConfig struct {
	SOPBucket       string
	ImagesBucket    string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignExpiry   time.Duration
}

// Client fetches SOP documents from the SOP bucket and pre-signs their
// image URLs. Documents are stored as "<id>.json" objects.
type Client struct {
	client       *s3.Client
	presigner    *s3.PresignClient
	sopBucket    string
	imagesBucket string
	expiry       time.Duration
	logger       log.Logger
}

// NewClient creates an S3-backed SOP client.
func NewClient(ctx context.Context, cfg ClientConfig, logger log.Logger) (*Client, error) {
	bucket := strings.TrimSpace(cfg.SOPBucket)
	if bucket == "" {
		return nil, fmt.Errorf("sop bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &Client{
		client:       client,
		presigner:    s3.NewPresignClient(client),
		sopBucket:    bucket,
		imagesBucket: strings.TrimSpace(cfg.ImagesBucket),
		expiry:       expiry,
		logger:       logger,
	}, nil
}

// Document fetches an SOP document by ID and pre-signs its image URLs.
// A missing object maps to ErrNotFound.
func (c *Client) Document(ctx context.Context, sopID string) (*Document, error) {
	key := sopID + ".json"
	c.logger.Debug("fetching SOP", "bucket", c.sopBucket, "key", key)

	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.sopBucket,
		Key:    &key,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("sop %s: %w", sopID, ErrNotFound)
		}
		return nil, fmt.Errorf("s3 get object %s: %w", key, err)
	}
	defer func() {
		if err := out.Body.Close(); err != nil {
			c.logger.Debug("closing S3 object body", "error", err)
		}
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read sop %s: %w", sopID, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse sop %s: %w", sopID, err)
	}
	if doc.Category == "" {
		doc.Category = "General"
	}

	// Presign images concurrently; presignURL never fails the document,
	// it falls back to the original reference.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(presignConcurrency)
	for i, img := range doc.Images {
		g.Go(func() error {
			doc.Images[i] = c.presignURL(gctx, img)
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Debug("fetched SOP", "sop_id", doc.ID, "title", doc.Title, "images", len(doc.Images))
	return &doc, nil
}

// presignURL generates a pre-signed URL for an image reference.
// The reference is either "s3://bucket/key" or a bare key resolved against
// the images bucket. On presign failure the original reference is returned
// unchanged.
func (c *Client) presignURL(ctx context.Context, ref string) string {
	bucket, key := resolveImageRef(ref, c.imagesBucket)
	if key == "" {
		return ref
	}

	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(c.expiry))
	if err != nil {
		c.logger.Warn("presign failed, returning original reference", "ref", ref, "error", err)
		return ref
	}
	return req.URL
}

// resolveImageRef splits an image reference into bucket and key.
// "s3://bucket/key" references name their own bucket; bare keys resolve
// against the images bucket.
func resolveImageRef(ref, imagesBucket string) (bucket, key string) {
	if rest, ok := strings.CutPrefix(ref, "s3://"); ok {
		bucket, key, _ = strings.Cut(rest, "/")
		return bucket, key
	}
	return imagesBucket, ref
}

// isNotFound reports whether an S3 error means the object does not exist.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && strings.EqualFold(apiErr.ErrorCode(), "NotFound")
}
