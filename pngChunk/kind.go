package pngChunk

// Kind identifies which variant of the chunk catalog a chunk belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindIHDR         // Image header
	KindPLTE         // Palette
	KindIDAT         // Image data
	KindIEND         // Image end
	KindTRNS         // Transparency
	KindCHRM         // Chromaticity
	KindSRGB         // Standard RGB color space
	KindGAMA         // Gamma
	KindTEXT         // Textual data
	KindZTXT         // Compressed textual data
	KindITXT         // International textual data
	KindBKGD         // Background color
	KindHIST         // Image histogram
	KindPHYS         // Physical pixel dimensions
	KindSBIT         // Significant bits
	KindSPLT         // Suggested palette
	KindTIME         // Image last-modification time
	KindOFFS         // Image offset
	KindSTER         // Stereo image indicator
	KindEXIF         // eXIf metadata
)

var kindTags = [...]string{
	KindUnknown: "",
	KindIHDR:    "IHDR",
	KindPLTE:    "PLTE",
	KindIDAT:    "IDAT",
	KindIEND:    "IEND",
	KindTRNS:    "tRNS",
	KindCHRM:    "cHRM",
	KindSRGB:    "sRGB",
	KindGAMA:    "gAMA",
	KindTEXT:    "tEXt",
	KindZTXT:    "zTXt",
	KindITXT:    "iTXt",
	KindBKGD:    "bKGD",
	KindHIST:    "hIST",
	KindPHYS:    "pHYs",
	KindSBIT:    "sBIT",
	KindSPLT:    "sPLT",
	KindTIME:    "tIME",
	KindOFFS:    "oFFs",
	KindSTER:    "sTER",
	KindEXIF:    "eXIf",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTags))
	for k, tag := range kindTags {
		if tag != "" {
			m[tag] = Kind(k)
		}
	}
	return m
}()

// KindOf returns the catalog kind for a type tag. The match is case sensitive.
func KindOf(tag string) Kind {
	return tagKinds[tag]
}

// Tag returns the four character type of k, or "" for KindUnknown.
func (k Kind) Tag() string {
	if k < 0 || int(k) >= len(kindTags) {
		return ""
	}
	return kindTags[k]
}

func (k Kind) String() string {
	if tag := k.Tag(); tag != "" {
		return tag
	}
	return "unknown"
}

// Critical reports whether the fifth bit of the first type byte is clear,
// the PNG convention for chunks a decoder must understand.
func Critical(tag string) bool {
	return len(tag) == 4 && tag[0]&0x20 == 0
}
