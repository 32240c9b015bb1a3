package s3

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"vidtube/internal/config"
	"vidtube/internal/model"
)

type objectAPI interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
}

// AssetHost stores user images in an S3-compatible bucket. The asset id is
// the object key.
type AssetHost struct {
	client        objectAPI
	bucket        string
	keyPrefix     string
	publicBaseURL string
	now           func() time.Time
}

func New(ctx context.Context, cfg config.StorageConfig) (*AssetHost, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config failed: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newAssetHost(client, cfg), nil
}

func newAssetHost(client objectAPI, cfg config.StorageConfig) *AssetHost {
	return &AssetHost{
		client:        client,
		bucket:        cfg.Bucket,
		keyPrefix:     strings.Trim(cfg.KeyPrefix, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		now:           time.Now,
	}
}

// Upload puts the local file into the bucket and removes it from disk,
// whether or not the upload succeeded.
func (h *AssetHost) Upload(ctx context.Context, localPath string) (*model.Asset, error) {
	defer os.Remove(localPath)

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open upload file failed: %w", err)
	}
	defer file.Close()

	contentType := "application/octet-stream"
	if detected, err := mimetype.DetectFile(localPath); err == nil {
		contentType = detected.String()
	}

	key := h.objectKey(filepath.Ext(localPath))
	if _, err := h.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	}); err != nil {
		return nil, fmt.Errorf("put object failed: %w", err)
	}

	return &model.Asset{URL: h.publicBaseURL + "/" + key, ID: key}, nil
}

func (h *AssetHost) Delete(ctx context.Context, assetID string) error {
	if _, err := h.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(assetID),
	}); err != nil {
		return fmt.Errorf("delete object failed: %w", err)
	}
	return nil
}

func (h *AssetHost) Ping(ctx context.Context) error {
	if _, err := h.client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(h.bucket)}); err != nil {
		return fmt.Errorf("head bucket failed: %w", err)
	}
	return nil
}

func (h *AssetHost) objectKey(ext string) string {
	now := h.now().UTC()
	name := uuid.NewString() + strings.ToLower(ext)
	return path.Join(h.keyPrefix, now.Format("2006"), now.Format("01"), name)
}
