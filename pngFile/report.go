package pngFile

import (
	"fmt"
	"strings"

	"github.com/poolqa/PngChunkKit/pngChunk"
)

// Entry describes one chunk found in the stream.
type Entry struct {
	Index    int
	Offset   int64
	Type     string
	Length   uint32
	CrcValid bool
	// Known is false when no variant is registered for Type.
	Known   bool
	Summary string
	// Err is the validity error of a chunk kept as Unknown.
	Err error
}

// Report lists every chunk found, with validity flags, instead of failing
// the whole file on the first bad chunk.
type Report struct {
	SignatureValid bool
	Entries        []Entry
}

func newEntry(idx int, offset int64, c pngChunk.Chunk, reg *pngChunk.Registry, err error) Entry {
	if reg == nil {
		reg = pngChunk.DefaultRegistry
	}
	_, known := reg.Lookup(c.Type())
	return Entry{
		Index:    idx,
		Offset:   offset,
		Type:     c.Type(),
		Length:   c.Length(),
		CrcValid: c.CrcValid(),
		Known:    known,
		Summary:  c.FormatData(),
		Err:      err,
	}
}

// Valid reports whether the signature and every chunk passed their checks.
func (r *Report) Valid() bool {
	if !r.SignatureValid {
		return false
	}
	for _, e := range r.Entries {
		if !e.CrcValid || e.Err != nil {
			return false
		}
	}
	return true
}

// String returns one block per chunk with its number, offset and summary.
func (r *Report) String() string {
	var output strings.Builder
	if !r.SignatureValid {
		output.WriteString("Signature: invalid\n")
	}
	for _, e := range r.Entries {
		output.WriteString("-----------\n")
		fmt.Fprintf(&output, "Chunk # %d at offset %d\n", e.Index, e.Offset)
		output.WriteString(e.Summary)
		output.WriteString("\n")
		if !e.Known {
			output.WriteString("Unknown chunk type\n")
		}
		if e.Err != nil {
			fmt.Fprintf(&output, "Error: %v\n", e.Err)
		}
	}
	return output.String()
}
