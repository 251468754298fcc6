// Package minio implements sink.Store for MinIO and S3-compatible storage.
package minio

import (
	"context"
	"io"
	"path"
	"sync"

	"github.com/hupe1980/centipede/sink"
	"github.com/minio/minio-go/v7"
)

// DefaultPartSize bounds the memory an upload of unknown length buffers.
const DefaultPartSize = 16 * 1024 * 1024

// Store implements sink.Store for MinIO.
type Store struct {
	client   *minio.Client
	bucket   string
	prefix   string
	partSize uint64
}

// NewStore creates a new MinIO sink store.
// bucket is the MinIO bucket name.
// rootPrefix is prepended to all keys (e.g. "alignment/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client:   client,
		bucket:   bucket,
		prefix:   rootPrefix,
		partSize: DefaultPartSize,
	}
}

// WithPartSize sets the multipart upload part size in bytes.
func (s *Store) WithPartSize(n uint64) *Store {
	if n > 0 {
		s.partSize = n
	}
	return s
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
	key := s.key(name)
	pr, pw := io.Pipe()

	w := &uploadSink{
		pw:   pw,
		done: make(chan error, 1),
	}

	// Start upload in background
	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, key, pr, -1, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
			PartSize:    s.partSize,
		})
		_ = pr.CloseWithError(err)
		w.done <- err
	}()

	return w, nil
}

// uploadSink implements sink.Sink for MinIO.
type uploadSink struct {
	pw       *io.PipeWriter
	done     chan error
	closeErr error
	closeMu  sync.Mutex
	closed   bool
}

func (w *uploadSink) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

// Close finishes the upload and returns its result. Later calls return the
// first result.
func (w *uploadSink) Close() error {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()

	if w.closed {
		return w.closeErr
	}
	w.closed = true

	if err := w.pw.Close(); err != nil {
		w.closeErr = err
		return err
	}
	w.closeErr = <-w.done
	return w.closeErr
}

func (w *uploadSink) Sync() error {
	return nil // Streaming upload, committed on Close
}
