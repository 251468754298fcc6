package record

import (
	"encoding/binary"
	"io"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Record layout, native byte order, no padding:
//
//	------------------------------------------------------
//	| count uint32 | values float32[k] | indices uint32[k] |
//	------------------------------------------------------
//
// count is len(values)+len(indices), i.e. 2*k for k buffer points. Consumers
// of the format rely on this convention.

const (
	headerSize = 4
	pointSize  = 8 // one float32 value + one uint32 index
)

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var nativeOrder = func() byteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}()

// ByteOrder returns the byte order records are written in on this machine.
func ByteOrder() binary.ByteOrder { return nativeOrder }

// RecordSize returns the encoded size in bytes of a record with k points.
func RecordSize(k int) int {
	return headerSize + k*pointSize
}

// AppendRecord appends the encoding of the buffer points (indices[i],
// values[i]) to dst. It panics if the slices differ in length.
func AppendRecord(dst []byte, indices []uint32, values []float32) []byte {
	if len(indices) != len(values) {
		panic("record: index and value slices differ in length")
	}
	dst = nativeOrder.AppendUint32(dst, uint32(len(indices)+len(values)))
	dst = append(dst, float32Bytes(values)...)
	dst = append(dst, uint32Bytes(indices)...)
	return dst
}

// Encode writes one record to w and returns the number of bytes written.
func Encode(w io.Writer, indices []uint32, values []float32) (int, error) {
	buf := AppendRecord(make([]byte, 0, RecordSize(len(indices))), indices, values)
	return w.Write(buf)
}

// float32Bytes views vec as raw bytes in native order (no allocation).
func float32Bytes(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vec[0])), len(vec)*4)
}

// uint32Bytes views slice as raw bytes in native order (no allocation).
func uint32Bytes(slice []uint32) []byte {
	if len(slice) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&slice[0])), len(slice)*4)
}
