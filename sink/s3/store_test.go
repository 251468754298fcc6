package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/centipede/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	args := m.Called(aws.ToString(in.Bucket), aws.ToString(in.Key), body, in.ChecksumAlgorithm)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3Client) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func (m *MockS3Client) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func (m *MockS3Client) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func (m *MockS3Client) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func TestStore_CreateUploadsOnClose(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	data := []byte("derivative records")
	mockClient.On("PutObject", "test-bucket", "prefix/run.bin", data, types.ChecksumAlgorithmCrc32c).
		Return(&s3.PutObjectOutput{}, nil).Once()

	s, err := store.Create(context.Background(), "run.bin")
	require.NoError(t, err)

	n, err := s.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	require.NoError(t, s.Sync())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close returns the first result")

	_, err = s.Write([]byte("late"))
	require.ErrorIs(t, err, io.ErrClosedPipe)

	mockClient.AssertExpectations(t)
}

func TestStore_UploadFailure(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "", func(c *UploadConfig) {
		c.EnableChecksum = false
	})

	uploadErr := errors.New("access denied")
	mockClient.On("PutObject", "test-bucket", "run.bin", []byte("x"), mock.Anything).
		Return(nil, uploadErr).Once()

	s, err := store.Create(context.Background(), "run.bin")
	require.NoError(t, err)
	_, err = s.Write([]byte("x"))
	require.NoError(t, err)

	err = s.Close()
	require.Error(t, err)
	assert.ErrorContains(t, err, "access denied")

	mockClient.AssertExpectations(t)
}

func TestStore_EmptyName(t *testing.T) {
	store := NewStore(new(MockS3Client), "b", "")

	_, err := store.Create(context.Background(), "")
	require.ErrorIs(t, err, sink.ErrEmptyName)
}

func TestDefaultUploadConfig(t *testing.T) {
	cfg := DefaultUploadConfig()

	assert.Equal(t, int64(8*1024*1024), cfg.PartSize)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.True(t, cfg.EnableChecksum)
	assert.False(t, cfg.LeavePartsOnError)
}
