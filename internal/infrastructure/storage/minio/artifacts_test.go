package minio

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/SimilACTrail/pkg/errors"
)

type ArtifactStoreTestSuite struct {
	suite.Suite
	api    *MockMinIOAPI
	client *MinIOClient
	store  ArtifactStore
}

func (s *ArtifactStoreTestSuite) SetupTest() {
	s.api = new(MockMinIOAPI)
	s.api.On("BucketExists", mock.Anything, mock.Anything).Return(true, nil)
	s.api.On("SetBucketLifecycle", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	c, err := NewMinIOClientWithAPI(context.Background(), s.api, &MinIOConfig{MaxObjectSize: 1024}, logging.NewNopLogger())
	require.NoError(s.T(), err)
	s.client = c
	s.store = NewArtifactStore(c, nil)
}

func (s *ArtifactStoreTestSuite) TestPutArtifact() {
	data := []byte("Molecule ID 1,Molecule ID 2\n")
	s.api.On("PutObject", mock.Anything, "similactrail-exports", "run-1/activity_cliffs.csv", mock.Anything, int64(len(data)), mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "text/csv" && o.UserMetadata["run-id"] == "run-1"
	})).Return(minio.UploadInfo{Bucket: "similactrail-exports", Key: "run-1/activity_cliffs.csv", Size: int64(len(data)), ETag: "abc"}, nil)
	presigned, _ := url.Parse("http://localhost:9000/similactrail-exports/run-1/activity_cliffs.csv?X-Amz-Signature=x")
	s.api.On("PresignedGetObject", mock.Anything, "similactrail-exports", "run-1/activity_cliffs.csv", mock.Anything, mock.Anything).Return(presigned, nil)

	obj, err := s.store.PutArtifact(context.Background(), "run-1", "activity_cliffs.csv", data, "text/csv")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "run-1/activity_cliffs.csv", obj.Key)
	assert.Equal(s.T(), int64(len(data)), obj.Size)
	assert.Equal(s.T(), presigned.String(), obj.URL)
	assert.Equal(s.T(), "s3://similactrail-exports/run-1/activity_cliffs.csv", obj.URI())
}

func (s *ArtifactStoreTestSuite) TestPutArtifact_DetectsContentType() {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	s.api.On("PutObject", mock.Anything, mock.Anything, "run-2/SimilACTrail_Map.png", mock.Anything, mock.Anything, mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "image/png"
	})).Return(minio.UploadInfo{Size: int64(len(png))}, nil)
	s.api.On("PresignedGetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

	obj, err := s.store.PutArtifact(context.Background(), "run-2", "SimilACTrail_Map.png", png, "")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), obj.URL)
}

func (s *ArtifactStoreTestSuite) TestPutArtifact_Failure() {
	s.api.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	_, err := s.store.PutArtifact(context.Background(), "run-3", "x.csv", []byte("x"), "text/csv")
	assert.True(s.T(), apperrors.IsCode(err, apperrors.ErrCodeStorageFailed))
}

func (s *ArtifactStoreTestSuite) TestPutArtifact_InvalidRequest() {
	_, err := s.store.PutArtifact(context.Background(), "", "x.csv", nil, "")
	assert.True(s.T(), apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func (s *ArtifactStoreTestSuite) TestGet() {
	s.api.On("StatObject", mock.Anything, "data", "sets/compounds.csv", mock.Anything).Return(minio.ObjectInfo{Size: 12}, nil)
	s.api.On("GetObject", mock.Anything, "data", "sets/compounds.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader("ID,SMILES,pX")), nil)

	data, err := s.store.Get(context.Background(), "s3://data/sets/compounds.csv")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "ID,SMILES,pX", string(data))
}

func (s *ArtifactStoreTestSuite) TestGet_DefaultBucket() {
	s.api.On("StatObject", mock.Anything, "similactrail-datasets", "compounds.csv", mock.Anything).Return(minio.ObjectInfo{Size: 1}, nil)
	s.api.On("GetObject", mock.Anything, "similactrail-datasets", "compounds.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader("x")), nil)

	_, err := s.store.Get(context.Background(), "s3:///compounds.csv")
	assert.NoError(s.T(), err)
}

func (s *ArtifactStoreTestSuite) TestGet_NotFound() {
	s.api.On("StatObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	_, err := s.store.Get(context.Background(), "s3://data/missing.csv")
	assert.True(s.T(), apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func (s *ArtifactStoreTestSuite) TestGet_TooLarge() {
	s.api.On("StatObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(minio.ObjectInfo{Size: 4096}, nil)

	_, err := s.store.Get(context.Background(), "s3://data/big.csv")
	assert.True(s.T(), apperrors.IsCode(err, apperrors.ErrCodeStorageFailed))
	s.api.AssertNotCalled(s.T(), "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ArtifactStoreTestSuite) TestExists() {
	s.api.On("StatObject", mock.Anything, "b", "yes", mock.Anything).Return(minio.ObjectInfo{Key: "yes"}, nil)
	s.api.On("StatObject", mock.Anything, "b", "no", mock.Anything).Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	ok, err := s.store.Exists(context.Background(), "b", "yes")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
	ok, err = s.store.Exists(context.Background(), "b", "no")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *ArtifactStoreTestSuite) TestClosed() {
	require.NoError(s.T(), s.client.Close())
	_, err := s.store.Get(context.Background(), "s3://b/k")
	assert.Equal(s.T(), ErrMinIOClientClosed, err)
}

func TestArtifactStoreSuite(t *testing.T) {
	suite.Run(t, new(ArtifactStoreTestSuite))
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri    string
		bucket string
		key    string
		ok     bool
	}{
		{"s3://bucket/key.csv", "bucket", "key.csv", true},
		{"S3://bucket/a/b/c.csv", "bucket", "a/b/c.csv", true},
		{"s3:///key.csv", "", "key.csv", true},
		{"s3://key.csv", "", "key.csv", true},
		{"s3://bucket/", "", "", false},
		{"https://bucket/key", "", "", false},
		{"bucket/key", "", "", false},
	}
	for _, tt := range tests {
		bucket, key, err := ParseS3URI(tt.uri)
		if !tt.ok {
			assert.Error(t, err, tt.uri)
			continue
		}
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.bucket, bucket, tt.uri)
		assert.Equal(t, tt.key, key, tt.uri)
	}
}

func TestArtifactKey(t *testing.T) {
	assert.Equal(t, "run/activity_cliffs.csv", ArtifactKey("run", "activity_cliffs.csv"))
	assert.Equal(t, "run/map.png", ArtifactKey("run", "../../map.png"))
}

//Personal.AI order the ending
