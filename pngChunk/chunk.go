// Package pngChunk reads, classifies, validates and writes PNG chunks.
//
// Each chunk starts with a uint32 length (big endian), then a 4 byte type,
// then the data and finally the CRC32 of type and data.
//
// A chunk is a snapshot of the bytes it was built from: the CRC verdict is
// taken once at construction and never recomputed. Editing means building a
// new chunk with New.
package pngChunk

import (
	"fmt"

	"github.com/poolqa/PngChunkKit/pngCrc"
)

// Chunk is one record of a PNG chunk stream. Implementations embed Base and
// are created through a Registry.
type Chunk interface {
	Kind() Kind
	Type() string
	Length() uint32
	// Data returns a copy of the chunk data.
	Data() []byte
	// Crc is the checksum as read or given at construction.
	Crc() uint32
	// ExpectedCrc is the CRC-32 of type and data.
	ExpectedCrc() uint32
	CrcValid() bool
	FormatData() string
	RemoveWhenAnonymizing() bool
	Validate() error

	base() *Base
}

// Base carries the fields shared by every variant and the default behaviour.
type Base struct {
	length      uint32
	typ         string
	data        []byte
	crc         uint32
	expectedCrc uint32
	crcValid    bool
}

// newBase takes ownership of data.
func newBase(typ string, data []byte, crc uint32) Base {
	expected := chunkCrc(typ, data)
	return Base{
		length:      uint32(len(data)),
		typ:         typ,
		data:        data,
		crc:         crc,
		expectedCrc: expected,
		crcValid:    expected == crc,
	}
}

func chunkCrc(typ string, data []byte) uint32 {
	return pngCrc.ChunkChecksum([]byte(typ), data)
}

func (b *Base) base() *Base { return b }

func (b *Base) Kind() Kind { return KindOf(b.typ) }

func (b *Base) Type() string { return b.typ }

func (b *Base) Length() uint32 { return b.length }

func (b *Base) Data() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

func (b *Base) Crc() uint32 { return b.crc }

func (b *Base) ExpectedCrc() uint32 { return b.expectedCrc }

func (b *Base) CrcValid() bool { return b.crcValid }

func (b *Base) FormatData() string {
	return fmt.Sprintf("Type: %s, Length: %d, CRC: %t", b.typ, b.length, b.crcValid)
}

// RemoveWhenAnonymizing is true unless a variant opts out.
func (b *Base) RemoveWhenAnonymizing() bool { return true }

func (b *Base) Validate() error { return nil }

// Unknown holds chunks whose type is not registered, and chunks that failed
// their variant's validity check.
type Unknown struct {
	Base
}

func (c *Unknown) Kind() Kind { return KindUnknown }

// New builds a chunk of type typ from data with a freshly computed CRC,
// using the default registry. data is copied.
func New(typ string, data []byte) (Chunk, error) {
	return DefaultRegistry.New(typ, data)
}

// NewWithCrc is New with a caller supplied CRC, which may be wrong.
func NewWithCrc(typ string, data []byte, crc uint32) (Chunk, error) {
	return DefaultRegistry.NewWithCrc(typ, data, crc)
}

// Equal reports whether a and b have the same type, data, CRC and verdict.
func Equal(a, b Chunk) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, bb := a.base(), b.base()
	return ab.typ == bb.typ &&
		ab.length == bb.length &&
		ab.crc == bb.crc &&
		ab.crcValid == bb.crcValid &&
		string(ab.data) == string(bb.data)
}
