// Package entry holds the derivative rows that are fed to a record writer.
//
// An entrypoint is one row of sensitivity data: an ordered list of local
// derivatives, an ordered list of (global label, derivative) pairs, a
// measurement and its uncertainty (sigma).
//
// Two variants share the read-only Point interface:
//
//   - Fixed: the number of locals and globals is chosen once by NewFixed and
//     never changes afterwards. Setters replace the values in place.
//   - Dynamic: the zero value is ready to use and grows with AddLocal and
//     AddGlobal.
//
// All mutators return the receiver so a row can be built in one expression:
//
//	p := entry.NewFixed(3, 2).
//	    SetLocals(1, 2, 3).
//	    SetGlobals(entry.Global{Index: 10, Value: 2}, entry.Global{Index: 11, Value: 3}).
//	    SetMeasurement(1).
//	    SetSigma(1)
//
// Global labels use 0-based indexing. The writer shifts them by one when it
// encodes a record, since label 0 is reserved for the measurement and sigma.
package entry
