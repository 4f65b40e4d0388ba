package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"score-for-cancer-total/internal/models"
)

// SnapshotStore keeps page text that could not be parsed, for later diagnosis
type SnapshotStore interface {
	Archive(ctx context.Context, snapshot models.Snapshot) (*ArchiveResult, error)
}

// objectPutter is the slice of the S3 API the archiver needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SnapshotArchiver writes snapshots to an S3 bucket
type SnapshotArchiver struct {
	client     objectPutter
	bucketName string
	region     string
	prefix     string
}

// ArchiveConfig holds configuration for the snapshot archiver
type ArchiveConfig struct {
	BucketName string
	Region     string
	Prefix     string
}

// ArchiveResult represents the result of a snapshot upload
type ArchiveResult struct {
	Key         string    `json:"key"`
	Location    string    `json:"location"`
	ETag        string    `json:"etag"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ContentType string    `json:"content_type"`
}

// NewSnapshotArchiver creates an archiver using the default AWS credential chain
func NewSnapshotArchiver(ctx context.Context, archiveConfig ArchiveConfig) (*SnapshotArchiver, error) {
	if archiveConfig.BucketName == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Override region if specified
	if archiveConfig.Region != "" {
		cfg.Region = archiveConfig.Region
	}

	return NewSnapshotArchiverWithClient(s3.NewFromConfig(cfg), archiveConfig.BucketName, cfg.Region, archiveConfig.Prefix), nil
}

// NewSnapshotArchiverWithClient creates an archiver on an existing client
func NewSnapshotArchiverWithClient(client objectPutter, bucketName, region, prefix string) *SnapshotArchiver {
	return &SnapshotArchiver{
		client:     client,
		bucketName: bucketName,
		region:     region,
		prefix:     prefix,
	}
}

// Archive uploads the snapshot content under a timestamped key
func (a *SnapshotArchiver) Archive(ctx context.Context, snapshot models.Snapshot) (*ArchiveResult, error) {
	key := models.GenerateSnapshotKey(a.prefix, snapshot)

	contentType := "text/html; charset=utf-8"
	if snapshot.Mode == models.ModeRendered {
		contentType = "text/plain; charset=utf-8"
	}

	result, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(a.bucketName),
		Key:          aws.String(key),
		Body:         strings.NewReader(snapshot.Content),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("no-store"),
		Metadata: map[string]string{
			"uploaded-by": "score-for-cancer-total",
			"request-id":  snapshot.RequestID,
			"mode":        snapshot.Mode,
			"source-url":  snapshot.SourceURL,
			"fetched-at":  snapshot.FetchedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot to S3: %w", err)
	}

	etag := ""
	if result.ETag != nil {
		etag = strings.Trim(*result.ETag, `"`)
	}

	return &ArchiveResult{
		Key:         key,
		Location:    a.GetObjectURL(key),
		ETag:        etag,
		Size:        int64(len(snapshot.Content)),
		UploadedAt:  time.Now(),
		ContentType: contentType,
	}, nil
}

// GetBucketName returns the configured bucket name
func (a *SnapshotArchiver) GetBucketName() string {
	return a.bucketName
}

// GetObjectURL generates the URL of a stored snapshot
func (a *SnapshotArchiver) GetObjectURL(key string) string {
	key = strings.TrimPrefix(key, "/")
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucketName, a.region, key)
}
