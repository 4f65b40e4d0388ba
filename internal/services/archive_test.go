package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"score-for-cancer-total/internal/models"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(params.Body)
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func testSnapshot(mode string) models.Snapshot {
	return models.Snapshot{
		RequestID: "req_0123456789ab",
		Mode:      mode,
		SourceURL: models.DefaultTargetURL,
		Content:   "<html>no totals here</html>",
		FetchedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSnapshotArchiver_Archive(t *testing.T) {
	putter := &fakePutter{}
	archiver := NewSnapshotArchiverWithClient(putter, "test-bucket", "ca-central-1", "snapshots")

	result, err := archiver.Archive(context.Background(), testSnapshot(models.ModeScored))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedKey := "snapshots/2026-02-01T12-00-00Z-req_0123456789ab.html"
	if result.Key != expectedKey {
		t.Errorf("Expected key %s, got %s", expectedKey, result.Key)
	}
	if result.ETag != "abc123" {
		t.Errorf("Expected unquoted ETag, got %s", result.ETag)
	}
	if result.Location != "https://test-bucket.s3.ca-central-1.amazonaws.com/"+expectedKey {
		t.Errorf("Unexpected location %s", result.Location)
	}
	if result.Size != int64(len("<html>no totals here</html>")) {
		t.Errorf("Unexpected size %d", result.Size)
	}

	if len(putter.inputs) != 1 {
		t.Fatalf("Expected one upload, got %d", len(putter.inputs))
	}
	input := putter.inputs[0]
	if aws.ToString(input.Bucket) != "test-bucket" {
		t.Errorf("Unexpected bucket %s", aws.ToString(input.Bucket))
	}
	if aws.ToString(input.ContentType) != "text/html; charset=utf-8" {
		t.Errorf("Unexpected content type %s", aws.ToString(input.ContentType))
	}
	if aws.ToString(input.CacheControl) != "no-store" {
		t.Errorf("Unexpected cache control %s", aws.ToString(input.CacheControl))
	}
	if input.Metadata["request-id"] != "req_0123456789ab" || input.Metadata["mode"] != models.ModeScored {
		t.Errorf("Unexpected metadata %v", input.Metadata)
	}
	if putter.bodies[0] != "<html>no totals here</html>" {
		t.Errorf("Unexpected body %q", putter.bodies[0])
	}
}

func TestSnapshotArchiver_RenderedIsPlainText(t *testing.T) {
	putter := &fakePutter{}
	archiver := NewSnapshotArchiverWithClient(putter, "test-bucket", "ca-central-1", "snapshots")

	result, err := archiver.Archive(context.Background(), testSnapshot(models.ModeRendered))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.ContentType != "text/plain; charset=utf-8" {
		t.Errorf("Expected plain text, got %s", result.ContentType)
	}
}

func TestSnapshotArchiver_UploadError(t *testing.T) {
	putter := &fakePutter{err: errors.New("AccessDenied")}
	archiver := NewSnapshotArchiverWithClient(putter, "test-bucket", "ca-central-1", "")

	if _, err := archiver.Archive(context.Background(), testSnapshot(models.ModeScored)); err == nil {
		t.Error("Expected upload error")
	}
}

func TestSnapshotArchiver_ObjectURL(t *testing.T) {
	archiver := NewSnapshotArchiverWithClient(&fakePutter{}, "test-bucket", "us-west-2", "")

	tests := []struct {
		key      string
		expected string
	}{
		{"snapshots/a.html", "https://test-bucket.s3.us-west-2.amazonaws.com/snapshots/a.html"},
		{"/snapshots/a.html", "https://test-bucket.s3.us-west-2.amazonaws.com/snapshots/a.html"},
	}

	for _, test := range tests {
		if url := archiver.GetObjectURL(test.key); url != test.expected {
			t.Errorf("For key %s, expected URL %s, got %s", test.key, test.expected, url)
		}
	}
}

func TestNewSnapshotArchiver_RequiresBucket(t *testing.T) {
	if _, err := NewSnapshotArchiver(context.Background(), ArchiveConfig{}); err == nil {
		t.Error("Expected error for empty bucket")
	}
}

func TestNewSnapshotArchiver_DefaultCredentials(t *testing.T) {
	archiver, err := NewSnapshotArchiver(context.Background(), ArchiveConfig{BucketName: "test-bucket", Region: "ca-central-1"})
	if err != nil {
		t.Skipf("Skipping S3 test - no AWS config available: %v", err)
	}
	if archiver.GetBucketName() != "test-bucket" {
		t.Errorf("Expected bucket name 'test-bucket', got %s", archiver.GetBucketName())
	}
}
