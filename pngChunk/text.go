package pngChunk

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/poolqa/PngChunkKit/pngDeflate"
	"github.com/poolqa/PngChunkKit/pngText"
)

// Text is the tEXt chunk: a Latin-1 keyword, a NUL and Latin-1 text.
type Text struct {
	Base
}

func (c *Text) Keyword() string {
	kw, _, _ := splitKeyword(c.data)
	return latin1(kw)
}

func (c *Text) Text() string {
	_, rest, _ := splitKeyword(c.data)
	return latin1(rest)
}

func (c *Text) FormatData() string {
	return fmt.Sprintf("%s, Keyword: %s, Text: %s", c.Base.FormatData(), c.Keyword(), c.Text())
}

func (c *Text) Validate() error {
	if _, _, err := splitKeyword(c.data); err != nil {
		return invalid(c.typ, "%v", err)
	}
	return nil
}

// NewText builds a tEXt chunk with a valid CRC.
func NewText(keyword, text string) (*Text, error) {
	data, err := keywordPrefix("tEXt", keyword)
	if err != nil {
		return nil, err
	}
	body, err := pngText.Encode(text, pngText.Latin1)
	if err != nil {
		return nil, invalid("tEXt", "%v", err)
	}
	c := &Text{Base: newBase("tEXt", append(data, body...), 0)}
	if err := seal(c); err != nil {
		return nil, err
	}
	return c, nil
}

// CompressedText is the zTXt chunk: keyword, NUL, compression method and a
// zlib-wrapped Latin-1 text.
type CompressedText struct {
	Base
}

func (c *CompressedText) Keyword() string {
	kw, _, _ := splitKeyword(c.data)
	return latin1(kw)
}

func (c *CompressedText) CompressionMethod() uint8 {
	_, rest, _ := splitKeyword(c.data)
	return rest[0]
}

// Compressed returns a copy of the compressed text.
func (c *CompressedText) Compressed() []byte {
	_, rest, _ := splitKeyword(c.data)
	return append([]byte(nil), rest[1:]...)
}

// Text inflates and decodes the text with the default codec.
func (c *CompressedText) Text() (string, error) {
	return c.TextContext(context.Background(), pngDeflate.Default)
}

func (c *CompressedText) TextContext(ctx context.Context, codec pngDeflate.Codec) (string, error) {
	_, rest, _ := splitKeyword(c.data)
	return pngText.DecompressTextContext(ctx, codec, rest[1:], pngText.Latin1)
}

func (c *CompressedText) FormatData() string {
	text, err := c.Text()
	if err != nil {
		text = fmt.Sprintf("<%v>", err)
	}
	return fmt.Sprintf("%s, Keyword: %s, Text: %s", c.Base.FormatData(), c.Keyword(), text)
}

func (c *CompressedText) Validate() error {
	_, rest, err := splitKeyword(c.data)
	if err != nil {
		return invalid(c.typ, "%v", err)
	}
	if len(rest) < 1 {
		return invalid(c.typ, "missing compression method")
	}
	if rest[0] != 0 {
		return invalid(c.typ, "invalid compression method - expected 0 - got %x", rest[0])
	}
	return nil
}

// NewCompressedText builds a zTXt chunk, compressing text with codec.
func NewCompressedText(ctx context.Context, codec pngDeflate.Codec, keyword, text string) (*CompressedText, error) {
	data, err := keywordPrefix("zTXt", keyword)
	if err != nil {
		return nil, err
	}
	packed, err := pngText.CompressTextContext(ctx, codec, text, pngText.Latin1)
	if err != nil {
		return nil, err
	}
	data = append(data, 0)
	c := &CompressedText{Base: newBase("zTXt", append(data, packed...), 0)}
	if err := seal(c); err != nil {
		return nil, err
	}
	return c, nil
}

// InternationalText is the iTXt chunk:
//
//	Keyword:            1-79 bytes (Latin-1)
//	Null separator:     1 byte
//	Compression flag:   1 byte
//	Compression method: 1 byte
//	Language tag:       0 or more bytes, null terminated
//	Translated keyword: 0 or more bytes (UTF-8), null terminated
//	Text:               0 or more bytes (UTF-8, maybe compressed)
type InternationalText struct {
	Base
}

type iTextFields struct {
	keyword, language, translated, text []byte
	compressed                          bool
	method                              byte
}

func (c *InternationalText) fields() (iTextFields, error) {
	var f iTextFields
	kw, rest, err := splitKeyword(c.data)
	if err != nil {
		return f, err
	}
	if len(rest) < 2 {
		return f, fmt.Errorf("missing compression flag and method")
	}
	f.keyword = kw
	f.compressed = rest[0] == 1
	f.method = rest[1]
	if rest[0] > 1 {
		return f, fmt.Errorf("invalid compression flag %d", rest[0])
	}
	rest = rest[2:]

	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		return f, fmt.Errorf("language tag is not null terminated")
	}
	f.language, rest = rest[:i], rest[i+1:]

	i = bytes.IndexByte(rest, 0)
	if i < 0 {
		return f, fmt.Errorf("translated keyword is not null terminated")
	}
	f.translated, f.text = rest[:i], rest[i+1:]
	return f, nil
}

func (c *InternationalText) Keyword() string {
	f, _ := c.fields()
	return latin1(f.keyword)
}

func (c *InternationalText) IsCompressed() bool {
	f, _ := c.fields()
	return f.compressed
}

func (c *InternationalText) LanguageTag() string {
	f, _ := c.fields()
	return string(f.language)
}

func (c *InternationalText) TranslatedKeyword() string {
	f, _ := c.fields()
	s, _ := pngText.Decode(f.translated, pngText.UTF8)
	return s
}

// Text returns the UTF-8 text, inflating it first when the chunk is compressed.
func (c *InternationalText) Text() (string, error) {
	return c.TextContext(context.Background(), pngDeflate.Default)
}

func (c *InternationalText) TextContext(ctx context.Context, codec pngDeflate.Codec) (string, error) {
	f, err := c.fields()
	if err != nil {
		return "", err
	}
	if f.compressed {
		return pngText.DecompressTextContext(ctx, codec, f.text, pngText.UTF8)
	}
	return pngText.Decode(f.text, pngText.UTF8)
}

func (c *InternationalText) FormatData() string {
	text, err := c.Text()
	if err != nil {
		text = fmt.Sprintf("<%v>", err)
	}
	return fmt.Sprintf("%s, Keyword: %s, Language: %s, Translated keyword: %s, Compressed: %t, Text: %s",
		c.Base.FormatData(), c.Keyword(), c.LanguageTag(), c.TranslatedKeyword(), c.IsCompressed(), text)
}

func (c *InternationalText) Validate() error {
	f, err := c.fields()
	if err != nil {
		return invalid(c.typ, "%v", err)
	}
	if f.method != 0 {
		return invalid(c.typ, "invalid compression method - expected 0 - got %x", f.method)
	}
	return nil
}

// InternationalTextFields describes an iTXt chunk to build.
type InternationalTextFields struct {
	Keyword           string
	Language          string
	TranslatedKeyword string
	Text              string
	Compressed        bool
}

// NewInternationalText builds an iTXt chunk, compressing the text with codec
// when f.Compressed is set.
func NewInternationalText(ctx context.Context, codec pngDeflate.Codec, f InternationalTextFields) (*InternationalText, error) {
	data, err := keywordPrefix("iTXt", f.Keyword)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(f.Language); i++ {
		if b := f.Language[i]; b < 0x20 || b > 0x7e {
			return nil, invalid("iTXt", "language tag byte %#02x at %d - expected printable ASCII", b, i)
		}
	}
	if strings.IndexByte(f.TranslatedKeyword, 0) >= 0 {
		return nil, invalid("iTXt", "translated keyword contains a null byte")
	}
	if !utf8.ValidString(f.TranslatedKeyword) || !utf8.ValidString(f.Text) {
		return nil, invalid("iTXt", "translated keyword and text must be UTF-8")
	}
	body := []byte(f.Text)
	flag := byte(0)
	if f.Compressed {
		flag = 1
		if body, err = codec.CompressContext(ctx, body); err != nil {
			return nil, err
		}
	}
	data = append(data, flag, 0)
	data = append(data, f.Language...)
	data = append(data, 0)
	data = append(data, f.TranslatedKeyword...)
	data = append(data, 0)
	data = append(data, body...)

	c := &InternationalText{Base: newBase("iTXt", data, 0)}
	if err := seal(c); err != nil {
		return nil, err
	}
	return c, nil
}

// keywordPrefix encodes keyword as Latin-1 followed by its NUL separator.
func keywordPrefix(typ, keyword string) ([]byte, error) {
	kw, err := pngText.Encode(keyword, pngText.Latin1)
	if err != nil {
		return nil, invalid(typ, "%v", err)
	}
	if bytes.IndexByte(kw, 0) >= 0 {
		return nil, invalid(typ, "keyword contains a null byte")
	}
	if len(kw) == 0 || len(kw) > 79 {
		return nil, invalid(typ, "keyword length %d - expected 1 to 79", len(kw))
	}
	return append(kw, 0), nil
}

// seal sets a freshly built chunk's CRC and validates it.
func seal(c Chunk) error {
	b := c.base()
	b.crc = b.expectedCrc
	b.crcValid = true
	return c.Validate()
}

// latin1 decodes b as ISO 8859-1, which maps every byte to a rune.
func latin1(b []byte) string {
	s, _ := pngText.Decode(b, pngText.Latin1)
	return s
}
