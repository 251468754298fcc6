package record

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Code: WriteFailed, Op: "flush", Err: cause}

	assert.Equal(t, "record: flush: failed to write the entry: boom", err.Error())
	assert.ErrorIs(t, err, ErrWriteFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrFileOpenFailed)

	wrapped := fmt.Errorf("generate: %w", err)
	assert.ErrorIs(t, wrapped, ErrWriteFailed)
	assert.Equal(t, WriteFailed, CodeOf(wrapped))
}

func TestError_NoCause(t *testing.T) {
	err := &Error{Code: Uninitialized}
	assert.Equal(t, "record: writer must be initialized beforehand", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}

func TestCode_String(t *testing.T) {
	assert.Equal(t, "BufferOverflow", BufferOverflow.String())
	assert.Equal(t, "EntrypointRejected", EntrypointRejected.String())
	assert.Equal(t, "Code(42)", Code(42).String())
	assert.Equal(t, Invalid, CodeOf(errors.New("other")))
	assert.Equal(t, Invalid, CodeOf(nil))
}
