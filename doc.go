// Package centipede writes local and global derivatives of track fits as
// compact binary records for alignment solvers.
//
// The module is split into three layers:
//
//   - entry: the entrypoint data model, with fixed-size and growable variants
//   - record: the Writer that filters entrypoints into entries and encodes
//     each entry as one record
//   - sink: the outputs records are written to (local files, memory, S3,
//     MinIO), with optional compression, throttling and checksums
//
// # Quick Start
//
//	w := record.New(func(o *record.Options) {
//	    o.OutFilename = "alignment.bin"
//	})
//	if err := w.Init(ctx); err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	p := entry.NewFixed(3, 2).
//	    SetLocals(1, 2, 3).
//	    SetGlobals(entry.Global{Index: 10, Value: 2}, entry.Global{Index: 11, Value: 3}).
//	    SetMeasurement(1).
//	    SetSigma(1)
//
//	if err := w.AddEntrypoint(p); err != nil {
//	    return err
//	}
//	n, err := w.Flush() // one record, 4 + 8*8 bytes
//
// # Record Format
//
// A file is a concatenation of records in native byte order:
//
//	uint32      count = 2*k
//	float32[k]  values
//	uint32[k]   indices
//
// Every record starts with the sentinel point (0, 0). Each entrypoint adds
// (0, measurement), its non-zero locals as (position+1, value), (0, sigma)
// and its non-zero globals as (label+1, value).
//
// # Command
//
// cmd/centipede generates random records to local files or object stores;
// see "centipede generate --help".
package centipede
