// Package storage persists voice recordings in an S3-compatible bucket.
//
// Recordings live under the "recordings/" prefix with a generated key so
// uploads never collide. The store hands back a plain HTTPS URL that the
// transcription proxy can fetch directly.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yapjournal/yap/internal/shared"
)

// recordingPrefix namespaces journal audio inside the bucket.
const recordingPrefix = "recordings/"

// objectAPI is the slice of the minio client the store needs. Kept narrow so
// tests can run without a live object store.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type minioWrapper struct{ c *minio.Client }

func (w minioWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}

func (w minioWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}

func (w minioWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (w minioWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (w minioWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

// RecordingStore uploads and retrieves journal recordings.
type RecordingStore struct {
	api      objectAPI
	endpoint string
	bucket   string
	useSSL   bool
}

// NewRecordingStore connects to the configured object store and makes sure
// the bucket exists. Returns nil when no endpoint is configured so callers
// can treat blob storage as optional.
func NewRecordingStore(ctx context.Context, cfg shared.StorageConfig) (*RecordingStore, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return newRecordingStore(ctx, minioWrapper{c: client}, cfg)
}

func newRecordingStore(ctx context.Context, api objectAPI, cfg shared.StorageConfig) (*RecordingStore, error) {
	store := &RecordingStore{
		api:      api,
		endpoint: cfg.Endpoint,
		bucket:   cfg.Bucket,
		useSSL:   cfg.UseSSL,
	}

	exists, err := api.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return store, nil
}

// Upload streams a local audio file into the bucket and returns the object
// key and the URL where the recording can be fetched.
func (s *RecordingStore) Upload(ctx context.Context, path string) (key, url string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", shared.ErrRecordingUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", shared.ErrRecordingUnreadable, err)
	}

	key = recordingKey(path)
	opts := minio.PutObjectOptions{ContentType: contentTypeFor(path)}
	if _, err := s.api.PutObject(ctx, s.bucket, key, f, info.Size(), opts); err != nil {
		return "", "", fmt.Errorf("failed to upload recording: %w", err)
	}

	return key, s.ObjectURL(key), nil
}

// Download fetches a stored recording. The caller owns the returned reader.
func (s *RecordingStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recording: %w", err)
	}
	return obj, nil
}

// Remove deletes a stored recording.
func (s *RecordingStore) Remove(ctx context.Context, key string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove recording: %w", err)
	}
	return nil
}

// ObjectURL builds the public URL for an object key.
func (s *RecordingStore) ObjectURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}

// recordingKey builds a collision-free object key keeping the original
// extension so content-type sniffing downstream still works.
func recordingKey(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return recordingPrefix + shared.GenerateID() + ext
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".mpga":
		return "audio/mpeg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".wav":
		return "audio/wav"
	case ".webm":
		return "audio/webm"
	case ".mpeg":
		return "video/mpeg"
	default:
		return "application/octet-stream"
	}
}
