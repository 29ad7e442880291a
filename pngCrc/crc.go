// Package pngCrc computes the CRC-32 used by PNG chunks.
//
// The polynomial, initial value and final xor are the ones shared by PNG and
// zlib (IEEE 802.3), see https://www.w3.org/TR/PNG/#5CRC-algorithm.
package pngCrc

import (
	"hash"
	"hash/crc32"
)

// Checksum returns the CRC-32 of b.
func Checksum(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// ChunkChecksum returns the CRC-32 of typ followed by data, which is what a
// chunk stores in its trailing four bytes.
func ChunkChecksum(typ, data []byte) uint32 {
	sum := crc32.Update(0, crc32.IEEETable, typ)
	return crc32.Update(sum, crc32.IEEETable, data)
}

// New returns a streaming hasher with the same parameters as Checksum.
func New() hash.Hash32 {
	return crc32.NewIEEE()
}
