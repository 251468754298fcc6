package sink

import (
	"hash"
	"hash/crc32"
	"io"
)

// Uses CRC32 (IEEE polynomial), the same checksum consumers get from
// `crc32.ChecksumIEEE` over the written file. It detects accidental
// corruption only.

// ChecksumWriter wraps an io.Writer and computes a running CRC32 checksum
// of the bytes the underlying writer accepted.
type ChecksumWriter struct {
	w    io.Writer
	hash hash.Hash32
}

// NewChecksumWriter creates a new checksumming writer.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{
		w:    w,
		hash: crc32.NewIEEE(),
	}
}

// Write implements io.Writer.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	// hash.Hash never returns an error
	_, _ = cw.hash.Write(p[:n])
	return n, err
}

// Sum returns the current checksum value.
func (cw *ChecksumWriter) Sum() uint32 {
	return cw.hash.Sum32()
}

// Reset resets the checksum to initial state.
func (cw *ChecksumWriter) Reset() {
	cw.hash.Reset()
}
