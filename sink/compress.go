package sink

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the stream compression applied to a sink.
type Compression uint8

const (
	// CompressionNone writes records as-is.
	CompressionNone Compression = iota
	// CompressionZSTD wraps the sink in a zstd stream (better ratio).
	CompressionZSTD
	// CompressionLZ4 wraps the sink in an lz4 frame (faster).
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "zstd" or "lz4". The empty string is none.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZSTD, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, fmt.Errorf("sink: unknown compression %q", s)
	}
}

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

type flushWriteCloser interface {
	io.WriteCloser
	Flush() error
}

// compressedSink compresses everything written before handing it to inner.
type compressedSink struct {
	inner Sink
	w     flushWriteCloser
}

// Compress wraps s so that all writes are compressed with c.
//
// level is the zstd level (1-22) or the lz4 level (1-9); 0 selects the
// library default. CompressionNone returns s unchanged.
// Closing the returned sink finishes the stream and closes s.
func Compress(s Sink, c Compression, level int) (Sink, error) {
	switch c {
	case CompressionNone:
		return s, nil
	case CompressionZSTD:
		encLevel := zstd.SpeedDefault
		if level > 0 {
			encLevel = zstd.EncoderLevelFromZstd(level)
		}
		enc, err := zstd.NewWriter(s, zstd.WithEncoderLevel(encLevel))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		return &compressedSink{inner: s, w: enc}, nil
	case CompressionLZ4:
		if level < 0 || level >= len(lz4Levels) {
			return nil, fmt.Errorf("sink: lz4 level %d out of range [0, %d]", level, len(lz4Levels)-1)
		}
		zw := lz4.NewWriter(s)
		if err := zw.Apply(lz4.CompressionLevelOption(lz4Levels[level])); err != nil {
			return nil, fmt.Errorf("failed to configure lz4 writer: %w", err)
		}
		return &compressedSink{inner: s, w: zw}, nil
	default:
		return nil, fmt.Errorf("sink: unknown compression %s", c)
	}
}

func (s *compressedSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Sync flushes pending compressed blocks and syncs the inner sink.
func (s *compressedSink) Sync() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.inner.Sync()
}

// Close ends the compressed stream and closes the inner sink.
func (s *compressedSink) Close() error {
	return errors.Join(s.w.Close(), s.inner.Close())
}
