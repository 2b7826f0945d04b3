package file_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesmanager/pkg/file"
)

// MockS3Client is a mock implementation of the S3Client interface
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func newS3Storage(t *testing.T, client file.S3Client) *file.S3Storage {
	t.Helper()
	s, err := file.NewS3Storage(context.Background(), file.S3Config{
		Bucket: "bucket",
		Region: "us-east-1",
		Prefix: "files",
	}, file.WithS3Client(client))
	require.NoError(t, err)
	return s
}

func TestNewS3Storage(t *testing.T) {
	t.Parallel()

	_, err := file.NewS3Storage(context.Background(), file.S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	_, err = file.NewS3Storage(context.Background(), file.S3Config{Bucket: "b"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)
}

func TestS3Storage_Write(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("puts object under prefix", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		var body []byte
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Bucket == "bucket" &&
				*in.Key == "files/a/b" &&
				*in.ContentLength == 5
		}), mock.Anything).Run(func(args mock.Arguments) {
			body, _ = io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		}).Return(&s3.PutObjectOutput{}, nil)

		require.NoError(t, newS3Storage(t, client).Write(ctx, "/a/b", []byte("hello")))
		assert.Equal(t, "hello", string(body))
		client.AssertExpectations(t)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		err := newS3Storage(t, client).Write(ctx, "../etc", []byte("x"))
		assert.ErrorIs(t, err, file.ErrInvalidPath)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("classifies api errors", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "SlowDown", Message: "slow down"})

		err := newS3Storage(t, client).Write(ctx, "a", []byte("x"))
		assert.ErrorIs(t, err, file.ErrServiceUnavailable)
	})
}

func TestS3Storage_Read(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns body", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Key == "files/a"
		}), mock.Anything).Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("data")))}, nil)

		data, err := newS3Storage(t, client).Read(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("data"), data)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

		_, err := newS3Storage(t, client).Read(ctx, "a")
		assert.ErrorIs(t, err, file.ErrFileNotFound)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, context.Canceled)

		_, err := newS3Storage(t, client).Read(ctx, "a")
		assert.ErrorIs(t, err, file.ErrOperationCanceled)
	})
}

func TestS3Storage_DeleteAndExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("existing object", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{}, nil)
		client.On("DeleteObject", mock.Anything, mock.Anything, mock.Anything).Return(&s3.DeleteObjectOutput{}, nil)

		s := newS3Storage(t, client)
		assert.True(t, s.Exists(ctx, "a"))
		require.NoError(t, s.Delete(ctx, "a"))
		client.AssertExpectations(t)
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, &types.NotFound{})

		s := newS3Storage(t, client)
		assert.False(t, s.Exists(ctx, "a"))
		assert.ErrorIs(t, s.Delete(ctx, "a"), file.ErrFileNotFound)
		client.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unclassified error keeps cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("dial tcp: refused")
		client := new(MockS3Client)
		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, cause)

		assert.ErrorIs(t, newS3Storage(t, client).Delete(ctx, "a"), cause)
	})
}
