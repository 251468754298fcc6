package record

import (
	"errors"
	"fmt"
)

// Code classifies writer failures.
type Code uint8

const (
	// Invalid is the zero value and never produced by the writer.
	Invalid Code = iota
	// NonPositiveSigma means the entrypoint's sigma is zero, negative or NaN.
	NonPositiveSigma
	// BufferOverflow means the entrypoint would meet or exceed MaxBufferPoints.
	BufferOverflow
	// EntrypointRejected means every derivative of the entrypoint was zero.
	EntrypointRejected
	// FileOpenFailed means the sink could not be opened by Init.
	FileOpenFailed
	// Uninitialized means the writer has not been successfully initialized.
	Uninitialized
	// WriteFailed means the sink rejected an entry during Flush.
	WriteFailed
)

var codeNames = [...]string{
	Invalid:            "Invalid",
	NonPositiveSigma:   "NonPositiveSigma",
	BufferOverflow:     "BufferOverflow",
	EntrypointRejected: "EntrypointRejected",
	FileOpenFailed:     "FileOpenFailed",
	Uninitialized:      "Uninitialized",
	WriteFailed:        "WriteFailed",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", uint8(c))
}

func (c Code) message() string {
	switch c {
	case NonPositiveSigma:
		return "sigma value of the entry point is zero or negative"
	case BufferOverflow:
		return "cannot add the entry point, buffer size would be exceeded"
	case EntrypointRejected:
		return "entry point rejected, all derivative values are zero"
	case FileOpenFailed:
		return "failed to open the output"
	case Uninitialized:
		return "writer must be initialized beforehand"
	case WriteFailed:
		return "failed to write the entry"
	default:
		return "invalid error code"
	}
}

// Error is the error type returned by Writer.
//
// Use errors.Is with the Err* sentinels to test for a Code; the underlying
// cause (if any) can be accessed via errors.Unwrap.
type Error struct {
	Code Code
	// Op is the writer operation that failed, e.g. "flush".
	Op  string
	Err error
}

func (e *Error) Error() string {
	msg := "record: "
	if e.Op != "" {
		msg += e.Op + ": "
	}
	msg += e.Code.message()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	// ErrNonPositiveSigma matches errors with Code NonPositiveSigma.
	ErrNonPositiveSigma = &Error{Code: NonPositiveSigma}
	// ErrBufferOverflow matches errors with Code BufferOverflow.
	ErrBufferOverflow = &Error{Code: BufferOverflow}
	// ErrEntrypointRejected matches errors with Code EntrypointRejected.
	ErrEntrypointRejected = &Error{Code: EntrypointRejected}
	// ErrFileOpenFailed matches errors with Code FileOpenFailed.
	ErrFileOpenFailed = &Error{Code: FileOpenFailed}
	// ErrUninitialized matches errors with Code Uninitialized.
	ErrUninitialized = &Error{Code: Uninitialized}
	// ErrWriteFailed matches errors with Code WriteFailed.
	ErrWriteFailed = &Error{Code: WriteFailed}
)

// CodeOf returns the Code carried by err, or Invalid if err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Invalid
}
