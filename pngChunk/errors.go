package pngChunk

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedChunk means the stream ended inside a chunk.
	ErrTruncatedChunk = errors.New("truncated chunk")
	// ErrInvalidChunkPayload means a variant rejected the chunk data.
	ErrInvalidChunkPayload = errors.New("invalid chunk payload")
	// ErrCrcMismatch is only returned by readers in strict mode.
	ErrCrcMismatch = errors.New("crc mismatch")
	// ErrLengthOverflow means the length field exceeds the reader's limit.
	ErrLengthOverflow = errors.New("chunk length overflow")
)

// TruncatedError reports how far a chunk got before the stream ran out.
// It unwraps to io.EOF when not a single byte of the chunk was available
// and to io.ErrUnexpectedEOF otherwise.
type TruncatedError struct {
	Field  string
	Offset int64
	Want   int64
	Got    int64
	Err    error
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%v: chunk at offset %d: %s needs %d bytes, got %d",
		ErrTruncatedChunk, e.Offset, e.Field, e.Want, e.Got)
}

func (e *TruncatedError) Is(target error) bool { return target == ErrTruncatedChunk }

func (e *TruncatedError) Unwrap() error { return e.Err }

// PayloadError is returned when a chunk fails its variant's validity check.
// Chunk holds the same bytes as an Unknown chunk so the caller can skip it
// or keep it verbatim.
type PayloadError struct {
	Type   string
	Reason string
	Chunk  Chunk
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidChunkPayload, e.Type, e.Reason)
}

func (e *PayloadError) Is(target error) bool { return target == ErrInvalidChunkPayload }

func invalid(typ, format string, args ...any) *PayloadError {
	return &PayloadError{Type: typ, Reason: fmt.Sprintf(format, args...)}
}

// CrcError is returned by strict readers. Chunk is the fully built chunk.
type CrcError struct {
	Type     string
	Expected uint32
	Actual   uint32
	Chunk    Chunk
}

func (e *CrcError) Error() string {
	return fmt.Sprintf("%v: %s: expected %08x, actual %08x", ErrCrcMismatch, e.Type, e.Expected, e.Actual)
}

func (e *CrcError) Is(target error) bool { return target == ErrCrcMismatch }
