// Package s3 implements sink.Store for Amazon S3.
package s3

import (
	"context"
	"io"
	"path"
	"sync"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/centipede/sink"
)

// Client is the subset of the S3 API the upload manager needs.
type Client = manager.UploadAPIClient

// UploadConfig configures the S3 uploader.
type UploadConfig struct {
	// PartSize is the minimum part size for multipart uploads.
	// Default: 8MB (larger than SDK default of 5MB for better throughput)
	PartSize int64

	// Concurrency is the number of concurrent part uploads.
	// Default: 5 (matches SDK default)
	Concurrency int

	// EnableChecksum enables CRC32C integrity validation.
	// Default: true
	EnableChecksum bool

	// LeavePartsOnError controls whether failed multipart uploads
	// are automatically aborted.
	// Default: false (abort on error)
	LeavePartsOnError bool
}

// DefaultUploadConfig returns production-optimized upload settings.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:          8 * 1024 * 1024,
		Concurrency:       5,
		EnableChecksum:    true,
		LeavePartsOnError: false,
	}
}

// Store implements sink.Store for S3.
type Store struct {
	bucket   string
	prefix   string
	cfg      UploadConfig
	uploader *manager.Uploader
}

// NewStore creates a new S3 sink store.
// rootPrefix is prepended to all keys (e.g. "runs/2026/").
func NewStore(client Client, bucket, rootPrefix string, optFns ...func(c *UploadConfig)) *Store {
	cfg := DefaultUploadConfig()
	for _, fn := range optFns {
		fn(&cfg)
	}
	return &Store{
		bucket:   bucket,
		prefix:   rootPrefix,
		cfg:      cfg,
		uploader: newUploader(client, cfg),
	}
}

// newUploader creates a configured S3 uploader.
func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		if cfg.PartSize > 0 {
			u.PartSize = cfg.PartSize
		}
		if cfg.Concurrency > 0 {
			u.Concurrency = cfg.Concurrency
		}
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Create starts a streaming upload to name. The object becomes visible when
// the returned sink is closed; Close reports the upload result.
func (s *Store) Create(ctx context.Context, name string) (sink.Sink, error) {
	if name == "" {
		return nil, sink.ErrEmptyName
	}
	return newStreamingSink(ctx, s.uploader, s.bucket, s.key(name), s.cfg.EnableChecksum), nil
}

// streamingSink feeds an io.Pipe into the upload manager.
type streamingSink struct {
	pw *io.PipeWriter

	done     chan error
	closed   atomic.Bool
	closeErr error
	closeMu  sync.Mutex
}

func newStreamingSink(ctx context.Context, uploader *manager.Uploader, bucket, key string, enableChecksum bool) *streamingSink {
	pr, pw := io.Pipe()

	s := &streamingSink{
		pw:   pw,
		done: make(chan error, 1),
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        pr,
		ContentType: aws.String("application/octet-stream"),
	}
	if enableChecksum {
		input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
	}

	// Start upload in background
	go func() {
		_, err := uploader.Upload(ctx, input)
		// Unblock writers if the upload failed early
		_ = pr.CloseWithError(err)
		s.done <- err
	}()

	return s
}

func (s *streamingSink) Write(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	return s.pw.Write(p)
}

// Close signals EOF to the uploader and waits for the upload to finish.
// Later calls return the first result.
func (s *streamingSink) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if !s.closed.CompareAndSwap(false, true) {
		return s.closeErr
	}

	if err := s.pw.Close(); err != nil {
		s.closeErr = err
		return err
	}

	s.closeErr = <-s.done
	return s.closeErr
}

// Sync is a no-op for S3 uploads - data is only committed on Close().
func (s *streamingSink) Sync() error {
	return nil
}
