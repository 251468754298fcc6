package record

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/centipede/entry"
	"github.com/hupe1980/centipede/sink"
)

// Writer buffers entrypoints into entries and writes each entry as one
// binary record.
//
// A Writer is not safe for concurrent use. The sink is held exclusively from
// Init until Close.
type Writer struct {
	opts    Options
	logger  *Logger
	metrics MetricsCollector

	buf      pointBuffer
	hasEntry bool

	sink     sink.Sink
	checksum *sink.ChecksumWriter
	scratch  []byte
	broken   error // set once a record reached the sink only partially

	stats   Stats
	pending *roaring.Bitmap // global labels of the current entry
	labels  *roaring.Bitmap // global labels of all written entries
}

// Stats summarizes what a Writer has done since Init.
type Stats struct {
	// Records is the number of entries written.
	Records int64
	// Bytes is the number of record bytes written, before compression.
	Bytes int64
	// Accepted and Rejected count AddEntrypoint calls that contributed
	// points and that failed with EntrypointRejected.
	Accepted int64
	Rejected int64
	// Checksum is the CRC32 (IEEE) of the bytes written. Zero unless
	// Options.Checksum is set.
	Checksum uint32
}

// New creates a Writer. No output is created until Init.
func New(optFns ...func(o *Options)) *Writer {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = NoopLogger()
	}
	metrics := opts.MetricsCollector
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &Writer{
		opts:    opts,
		logger:  logger.WithOutput(opts.OutFilename),
		metrics: metrics,
		pending: roaring.New(),
		labels:  roaring.New(),
	}
}

// Options returns the options the writer was created with.
func (w *Writer) Options() Options { return w.opts }

// Init prepares the buffer and opens the output in truncating mode.
//
// ctx bounds the lifetime of the output for sinks that stream in the
// background (object stores, throttling). Calling Init on an initialized
// writer closes the previous output first; its pending entry is discarded.
func (w *Writer) Init(ctx context.Context) error {
	if w.sink != nil {
		_ = w.closeSink()
	}

	w.buf.reserve(int(w.opts.MaxBufferPoints))
	w.reset()
	w.broken = nil
	w.stats = Stats{}
	w.labels.Clear()

	if err := w.openSink(ctx); err != nil {
		// Without an output the writer stays uninitialized.
		w.buf.truncate(0)
		err = &Error{Code: FileOpenFailed, Op: "init", Err: err}
		w.logger.LogInit(ctx, w.opts.MaxBufferPoints, err)
		return err
	}

	w.logger.LogInit(ctx, w.opts.MaxBufferPoints, nil)
	return nil
}

// openSink stacks the configured decorators on a freshly created sink:
// throttling next to the raw sink, compression above it, and the checksum
// on the uncompressed stream.
func (w *Writer) openSink(ctx context.Context) error {
	store := w.opts.Store
	if store == nil {
		store = sink.NewLocalStore("")
	}

	raw, err := store.Create(ctx, w.opts.OutFilename)
	if err != nil {
		return err
	}

	s, err := sink.Compress(sink.Throttle(ctx, raw, w.opts.IOLimitBytesPerSec), w.opts.Compression, w.opts.CompressionLevel)
	if err != nil {
		_ = raw.Close()
		return err
	}

	w.sink = s
	w.checksum = nil
	if w.opts.Checksum {
		w.checksum = sink.NewChecksumWriter(s)
	}
	return nil
}

// AddEntrypoint validates p and appends its buffer points to the current
// entry: (0, measurement), (i+1, v) for every non-zero local at position i,
// (0, sigma), and (label+1, v) for every non-zero global.
//
// The call either appends all of these points or none of them.
func (w *Writer) AddEntrypoint(p entry.Point) error {
	before := w.buf.len()
	err := w.addEntrypoint(p)
	after := w.buf.len()

	w.metrics.RecordAdd(after-before, err)
	w.logger.LogAdd(after, err)
	return err
}

func (w *Writer) addEntrypoint(p entry.Point) error {
	sigma := p.Sigma()
	if !(sigma > 0) {
		return &Error{Code: NonPositiveSigma, Op: "add entrypoint", Err: fmt.Errorf("sigma %g", sigma)}
	}
	if w.buf.len() == 0 {
		return &Error{Code: Uninitialized, Op: "add entrypoint"}
	}
	if w.broken != nil {
		return &Error{Code: WriteFailed, Op: "add entrypoint", Err: w.broken}
	}

	locals, globals := p.Locals(), p.Globals()
	need := len(locals) + len(globals) + 2
	if w.buf.len()+need >= int(w.opts.MaxBufferPoints) {
		return &Error{Code: BufferOverflow, Op: "add entrypoint",
			Err: fmt.Errorf("%d buffered + %d new points reaches limit %d", w.buf.len(), need, w.opts.MaxBufferPoints)}
	}

	mark := w.buf.len()
	contributed := false

	w.buf.push(0, p.Measurement())
	for i, v := range locals {
		if w.buf.pushNonZero(uint32(i+1), v) {
			contributed = true
		}
	}

	w.buf.push(0, sigma)
	for _, g := range globals {
		if w.buf.pushNonZero(g.Index+1, g.Value) {
			w.pending.Add(g.Index + 1)
			contributed = true
		}
	}

	if !contributed {
		w.buf.truncate(mark)
		w.stats.Rejected++
		return &Error{Code: EntrypointRejected, Op: "add entrypoint"}
	}

	w.hasEntry = true
	w.stats.Accepted++
	return nil
}

// Flush writes the current entry as one record and resets the buffer to the
// sentinel point. It returns the number of record bytes written.
//
// If no entrypoint contributed since the last flush, Flush returns 0 and
// leaves both buffer and output untouched. If the output fails, the error has
// Code WriteFailed and the entry stays buffered. A failed write that left
// nothing in the output may be retried. Once part of a record reached the
// output, the stream cannot be repaired: every later Flush and AddEntrypoint
// fails with WriteFailed until Init opens a new output.
func (w *Writer) Flush() (int, error) {
	if w.buf.len() == 0 {
		return 0, &Error{Code: Uninitialized, Op: "flush"}
	}
	if w.broken != nil {
		return 0, &Error{Code: WriteFailed, Op: "flush", Err: w.broken}
	}
	if !w.hasEntry {
		return 0, nil
	}

	start := time.Now()
	points := w.buf.len()
	n, err := w.writeEntry()

	w.metrics.RecordFlush(n, time.Since(start), err)
	w.logger.LogFlush(points, n, err)
	if err != nil {
		return 0, err
	}

	w.labels.Or(w.pending)
	w.pending.Clear()
	w.reset()
	return n, nil
}

func (w *Writer) writeEntry() (int, error) {
	w.scratch = AppendRecord(w.scratch[:0], w.buf.indices, w.buf.values)

	var n int
	var err error
	if w.checksum != nil {
		n, err = w.checksum.Write(w.scratch)
	} else {
		n, err = w.sink.Write(w.scratch)
	}
	if err != nil && n > 0 {
		w.broken = fmt.Errorf("partial record of %d/%d bytes written: %w", n, len(w.scratch), err)
		return 0, &Error{Code: WriteFailed, Op: "flush", Err: w.broken}
	}
	if err == nil && w.opts.SyncOnFlush {
		err = w.sink.Sync()
	}
	if err != nil {
		return 0, &Error{Code: WriteFailed, Op: "flush", Err: err}
	}

	w.stats.Records++
	w.stats.Bytes += int64(n)
	return n, nil
}

// Close closes the output. The pending entry, if any, is not written.
//
// Close is idempotent: only the first call after Init closes the output and
// can report an error, which for object stores carries the upload result.
// The writer is uninitialized afterwards.
func (w *Writer) Close() error {
	if w.sink == nil {
		return nil
	}
	err := w.closeSink()
	w.logger.LogClose(w.Stats(), err)
	if err != nil {
		return fmt.Errorf("record: close: %w", err)
	}
	return nil
}

func (w *Writer) closeSink() error {
	err := w.sink.Close()
	if w.checksum != nil {
		w.stats.Checksum = w.checksum.Sum()
	}
	w.sink = nil
	w.checksum = nil
	w.broken = nil
	w.buf.truncate(0)
	w.hasEntry = false
	w.pending.Clear()
	return err
}

func (w *Writer) reset() {
	w.buf.reset()
	w.hasEntry = false
}

// Buffer returns the buffered indices and values of the current entry.
// The slices are only valid until the next call on w and must not be modified.
func (w *Writer) Buffer() (indices []uint32, values []float32) {
	return w.buf.indices, w.buf.values
}

// Len returns the number of buffered points, the sentinel included.
func (w *Writer) Len() int { return w.buf.len() }

// HasEntry reports whether an entrypoint contributed since the last flush.
func (w *Writer) HasEntry() bool { return w.hasEntry }

// Stats returns counters for the output opened by the last Init.
func (w *Writer) Stats() Stats {
	stats := w.stats
	if w.checksum != nil {
		stats.Checksum = w.checksum.Sum()
	}
	return stats
}

// Labels returns the encoded global labels (0-based label + 1) present in
// the records written since Init. The bitmap is a copy.
func (w *Writer) Labels() *roaring.Bitmap {
	return w.labels.Clone()
}
