package pngChunk

import (
	"fmt"
	"sync"
)

// Constructor wraps a Base into a concrete variant.
type Constructor func(Base) Chunk

// catalog lists the chunk types understood out of the box.
var catalog = map[string]Constructor{
	"IHDR": func(b Base) Chunk { return &Header{Base: b} },
	"PLTE": func(b Base) Chunk { return &Palette{Base: b} },
	"IDAT": func(b Base) Chunk { return &ImageData{Base: b} },
	"IEND": func(b Base) Chunk { return &End{Base: b} },
	"tRNS": func(b Base) Chunk { return &Transparency{Base: b} },
	"cHRM": func(b Base) Chunk { return &Chromaticities{Base: b} },
	"sRGB": func(b Base) Chunk { return &StandardRGB{Base: b} },
	"gAMA": func(b Base) Chunk { return &Gamma{Base: b} },
	"tEXt": func(b Base) Chunk { return &Text{Base: b} },
	"zTXt": func(b Base) Chunk { return &CompressedText{Base: b} },
	"iTXt": func(b Base) Chunk { return &InternationalText{Base: b} },
	"bKGD": func(b Base) Chunk { return &Background{Base: b} },
	"hIST": func(b Base) Chunk { return &Histogram{Base: b} },
	"pHYs": func(b Base) Chunk { return &PhysicalDimensions{Base: b} },
	"sBIT": func(b Base) Chunk { return &SignificantBits{Base: b} },
	"sPLT": func(b Base) Chunk { return &SuggestedPalette{Base: b} },
	"tIME": func(b Base) Chunk { return &ModificationTime{Base: b} },
	"oFFs": func(b Base) Chunk { return &ImageOffset{Base: b} },
	"sTER": func(b Base) Chunk { return &Stereo{Base: b} },
	"eXIf": func(b Base) Chunk { return &Exif{Base: b} },
}

// Registry maps type tags to constructors. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// DefaultRegistry is used by New, NewWithCrc and readers without a registry.
var DefaultRegistry = NewRegistry()

// NewRegistry returns a registry holding the built-in catalog.
func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[string]Constructor, len(catalog))}
	for tag, ctor := range catalog {
		r.ctors[tag] = ctor
	}
	return r
}

// Register adds or replaces the constructor for tag.
func (r *Registry) Register(tag string, ctor Constructor) error {
	if len(tag) != 4 {
		return fmt.Errorf("chunk type %q must be 4 bytes", tag)
	}
	if ctor == nil {
		return fmt.Errorf("nil constructor for chunk type %q", tag)
	}
	r.mu.Lock()
	r.ctors[tag] = ctor
	r.mu.Unlock()
	return nil
}

// Lookup reports the constructor registered for tag.
func (r *Registry) Lookup(tag string) (Constructor, bool) {
	r.mu.RLock()
	ctor, ok := r.ctors[tag]
	r.mu.RUnlock()
	return ctor, ok
}

// Tags returns the registered type tags in no particular order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.ctors))
	for tag := range r.ctors {
		tags = append(tags, tag)
	}
	return tags
}

// New builds and validates a chunk with a freshly computed CRC. data is copied.
func (r *Registry) New(typ string, data []byte) (Chunk, error) {
	if len(typ) != 4 {
		return nil, invalid(typ, "type must be 4 bytes")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	c, _, err := r.build(newBase(typ, buf, chunkCrc(typ, buf)))
	return c, err
}

// NewWithCrc builds and validates a chunk with the given CRC. data is copied.
func (r *Registry) NewWithCrc(typ string, data []byte, crc uint32) (Chunk, error) {
	if len(typ) != 4 {
		return nil, invalid(typ, "type must be 4 bytes")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	c, _, err := r.build(newBase(typ, buf, crc))
	return c, err
}

// build dispatches on the type tag, falling back to Unknown, and runs the
// variant's validity check. On failure the error is a *PayloadError holding
// an Unknown chunk over the same bytes.
func (r *Registry) build(b Base) (c Chunk, known bool, err error) {
	ctor, known := r.Lookup(b.typ)
	if !known {
		return &Unknown{Base: b}, false, nil
	}
	c = ctor(b)
	if c == nil {
		return nil, true, &PayloadError{Type: b.typ, Reason: "constructor returned no chunk", Chunk: &Unknown{Base: b}}
	}
	if err := c.Validate(); err != nil {
		// Validate may hand out a shared error value.
		var pe PayloadError
		if src, ok := err.(*PayloadError); ok && src != nil {
			pe = *src
		} else {
			pe = PayloadError{Type: b.typ, Reason: err.Error()}
		}
		pe.Chunk = &Unknown{Base: b}
		return nil, true, &pe
	}
	return c, true, nil
}
