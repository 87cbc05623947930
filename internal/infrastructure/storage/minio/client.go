// Package minio stores run artifacts in an S3-compatible object store and
// reads s3:// dataset sources from it.
package minio

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

const connectTimeout = 10 * time.Second

// MinIOAPI is the part of *minio.Client this package calls.  GetObject
// returns a plain reader so tests can stub it.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

type sdkClient struct{ *minio.Client }

func (s sdkClient) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return s.Client.GetObject(ctx, bucket, key, opts)
}

type BucketConfig struct {
	Exports  string `mapstructure:"exports"`
	Datasets string `mapstructure:"datasets"`
}

type MinIOConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Region          string        `mapstructure:"region"`
	Buckets         BucketConfig  `mapstructure:"buckets"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
	ExportRetention int           `mapstructure:"export_retention_days"`
	MaxObjectSize   int64         `mapstructure:"max_object_size"`
}

func (cfg *MinIOConfig) setDefaults() {
	setIfZero(&cfg.Region, "us-east-1")
	setIfZero(&cfg.PresignExpiry, time.Hour)
	setIfZero(&cfg.ExportRetention, 30)
	setIfZero(&cfg.MaxObjectSize, 64<<20)
	setIfZero(&cfg.Buckets.Exports, "similactrail-exports")
	setIfZero(&cfg.Buckets.Datasets, "similactrail-datasets")
}

func setIfZero[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// MinIOClient owns the connection and the two buckets: exports (expiring
// run artifacts) and datasets (s3:// inputs).
type MinIOClient struct {
	api    MinIOAPI
	config *MinIOConfig
	logger logging.Logger
	closed atomic.Bool
}

var ErrMinIOClientClosed = errors.New(errors.ErrCodeStorageFailed, "minio client is closed")

// NewMinIOClient dials cfg.Endpoint and fails unless the server answers
// ListBuckets within connectTimeout.
func NewMinIOClient(cfg *MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	cfg.setDefaults()
	sdk, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageFailed, "invalid minio endpoint").WithDetail(cfg.Endpoint)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if _, err := sdk.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio unreachable").WithDetail(cfg.Endpoint)
	}

	c, err := NewMinIOClientWithAPI(ctx, sdkClient{sdk}, cfg, log)
	if err != nil {
		return nil, err
	}
	c.logger.Info("connected", logging.String("endpoint", cfg.Endpoint), logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewMinIOClientWithAPI prepares the buckets through api.
func NewMinIOClientWithAPI(ctx context.Context, api MinIOAPI, cfg *MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	cfg.setDefaults()
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &MinIOClient{api: api, config: cfg, logger: log.Named("minio")}
	if err := c.ensureBuckets(ctx); err != nil {
		return nil, err
	}
	c.expireExports(ctx)
	return c, nil
}

func (c *MinIOClient) buckets() []string {
	return []string{c.config.Buckets.Exports, c.config.Buckets.Datasets}
}

func (c *MinIOClient) ensureBuckets(ctx context.Context) error {
	for _, bucket := range c.buckets() {
		exists, err := c.api.BucketExists(ctx, bucket)
		if err == nil && !exists {
			err = c.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.config.Region})
			if err == nil {
				c.logger.Info("bucket created", logging.String("bucket", bucket))
			}
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeStorageFailed, "prepare bucket").WithDetail("bucket=" + bucket)
		}
	}
	return nil
}

// expireExports installs the retention rule on the exports bucket.  Stores
// without lifecycle support only get a warning.
func (c *MinIOClient) expireExports(ctx context.Context) {
	rules := lifecycle.NewConfiguration()
	rules.Rules = append(rules.Rules, lifecycle.Rule{
		ID:         "exports-retention",
		Status:     "Enabled",
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(c.config.ExportRetention)},
	})
	if err := c.api.SetBucketLifecycle(ctx, c.config.Buckets.Exports, rules); err != nil {
		c.logger.Warn("export retention not applied",
			logging.String("bucket", c.config.Buckets.Exports), logging.Err(err))
	}
}

// Ping fails with STO_001 when the server is unreachable or a bucket is gone.
func (c *MinIOClient) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrMinIOClientClosed
	}
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageFailed, "minio unreachable")
	}
	var missing []string
	for _, b := range c.buckets() {
		if ok, err := c.api.BucketExists(ctx, b); err != nil || !ok {
			missing = append(missing, b)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeStorageFailed, "bucket missing").WithDetail(strings.Join(missing, ","))
	}
	return nil
}

// Close marks the client unusable.  minio-go holds no connection to release.
func (c *MinIOClient) Close() error {
	c.closed.Store(true)
	return nil
}

//Personal.AI order the ending
