// Package sink provides the writable byte sinks that record writers stream
// their entries into.
//
// A Store creates named sinks:
//
//	type Store interface {
//	    Create(ctx, name) (Sink, error)  // Open for writing, truncating
//	}
//
// # Built-in Implementations
//
//   - LocalStore: local file system, files are truncated on Create
//   - MemoryStore: in-memory sinks for tests and dry runs
//   - FaultyStore: wraps another Store and injects write, sync and close errors
//   - minio.Store: MinIO and S3-compatible object storage
//   - s3.Store: Amazon S3 through the multipart upload manager
//
// # Decorators
//
// Sinks can be stacked:
//
//   - Compress: zstd or lz4 stream compression
//   - Throttle: caps write throughput with a token bucket
//   - ChecksumWriter: running CRC32 of everything written
//
// Object store sinks upload in the background; their Close reports the
// upload result and must always be called.
package sink
