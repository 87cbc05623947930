package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

const scheme = "s3"

var (
	ErrObjectNotFound = errors.NotFound("object not found")
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid storage request")
)

// Object is an uploaded artifact.
type Object struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	URL         string
	UploadedAt  time.Time
}

// URI renders the s3://bucket/key reference of o.
func (o Object) URI() string {
	return (&url.URL{Scheme: scheme, Host: o.Bucket, Path: "/" + o.Key}).String()
}

// ArtifactStore keeps the exports of analysis runs and serves dataset
// sources.
type ArtifactStore interface {
	PutArtifact(ctx context.Context, runID, name string, data []byte, contentType string) (*Object, error)
	Get(ctx context.Context, uri string) ([]byte, error)
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

type artifactStore struct {
	client *MinIOClient
	logger logging.Logger
}

func NewArtifactStore(client *MinIOClient, log logging.Logger) ArtifactStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &artifactStore{client: client, logger: log.Named("artifacts")}
}

// ArtifactKey returns the object key of an export: <run-id>/<name>.
func ArtifactKey(runID, name string) string {
	return path.Join(runID, path.Base(name))
}

func (s *artifactStore) PutArtifact(ctx context.Context, runID, name string, data []byte, contentType string) (*Object, error) {
	if s.client.closed.Load() {
		return nil, ErrMinIOClientClosed
	}
	if runID == "" || name == "" {
		return nil, ErrInvalidRequest
	}
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(512, len(data))])
	}

	cfg := s.client.config
	bucket := cfg.Buckets.Exports
	key := ArtifactKey(runID, name)
	info, err := s.client.api.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"run-id": runID},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageFailed, "upload failed").
			WithDetail(fmt.Sprintf("bucket=%s key=%s", bucket, key))
	}

	obj := &Object{
		Bucket:      bucket,
		Key:         key,
		Size:        info.Size,
		ETag:        info.ETag,
		ContentType: contentType,
		UploadedAt:  time.Now().UTC(),
	}
	if u, err := s.client.api.PresignedGetObject(ctx, bucket, key, cfg.PresignExpiry, nil); err != nil {
		s.logger.Warn("presign failed", logging.String("key", key), logging.Err(err))
	} else {
		obj.URL = u.String()
	}
	s.logger.Info("artifact uploaded", logging.String("bucket", bucket), logging.String("key", key), logging.Int64("size", obj.Size))
	return obj, nil
}

// Get reads the object named by an s3://bucket/key URI.  A URI without a
// bucket ("s3:///key" or "s3://key" with no slash) uses the datasets bucket.
func (s *artifactStore) Get(ctx context.Context, uri string) ([]byte, error) {
	if s.client.closed.Load() {
		return nil, ErrMinIOClientClosed
	}
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = s.client.config.Buckets.Datasets
	}

	api := s.client.api
	stat, err := api.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound.WithDetail(fmt.Sprintf("uri=%s", uri))
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageFailed, "stat failed").WithDetail(fmt.Sprintf("uri=%s", uri))
	}
	if stat.Size > s.client.config.MaxObjectSize {
		return nil, errors.New(errors.ErrCodeStorageFailed, "object too large").
			WithDetail(fmt.Sprintf("uri=%s size=%d", uri, stat.Size))
	}

	obj, err := api.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageFailed, "download failed").WithDetail(fmt.Sprintf("uri=%s", uri))
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, s.client.config.MaxObjectSize))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageFailed, "download failed").WithDetail(fmt.Sprintf("uri=%s", uri))
	}
	return data, nil
}

func (s *artifactStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.api.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeStorageFailed, "stat failed")
	}
	return true, nil
}

// IsS3URI reports whether s uses the s3 scheme.
func IsS3URI(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), scheme+"://")
}

// ParseS3URI splits s3://bucket/key.  The bucket may be empty.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", ErrInvalidRequest.WithDetail(fmt.Sprintf("not an s3 URI: %q", uri))
	}
	rest := uri[len(scheme)+3:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		bucket, key = rest[:i], rest[i+1:]
	} else {
		key = rest
	}
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", "", ErrInvalidRequest.WithDetail(fmt.Sprintf("missing object key: %q", uri))
	}
	return bucket, key, nil
}

//Personal.AI order the ending
