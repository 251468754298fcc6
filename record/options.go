package record

import "github.com/hupe1980/centipede/sink"

// Options contains configuration for a Writer.
type Options struct {
	// OutFilename is the name of the output created in Store.
	OutFilename string

	// MaxBufferPoints is the capacity ceiling for the buffer points of one
	// entry, the sentinel included. An entrypoint is accepted only while the
	// buffer stays strictly below it.
	MaxBufferPoints uint32

	// Store creates the output sink. Nil selects a LocalStore resolving
	// OutFilename against the working directory.
	Store sink.Store

	// Compression wraps the output in a zstd or lz4 stream.
	// The default writes records uncompressed.
	Compression sink.Compression

	// CompressionLevel is passed to sink.Compress; 0 selects the default.
	CompressionLevel int

	// IOLimitBytesPerSec caps the write throughput to the sink.
	// If 0, unlimited.
	IOLimitBytesPerSec int64

	// Checksum maintains a CRC32 of the uncompressed bytes written,
	// reported by Stats.
	Checksum bool

	// SyncOnFlush syncs the sink after every written entry.
	// Slowest but strongest durability guarantee.
	SyncOnFlush bool

	// Logger receives writer events. Nil discards them.
	Logger *Logger

	// MetricsCollector receives per-operation metrics. Nil disables them.
	MetricsCollector MetricsCollector
}

// DefaultOptions returns default writer options.
var DefaultOptions = Options{
	OutFilename:     "output.bin",
	MaxBufferPoints: 10000,
	Compression:     sink.CompressionNone,
}
