// Package pngText turns compressed chunk payloads into text and back.
//
// The character set is chosen by the caller: tEXt and zTXt hold Latin-1,
// iTXt holds UTF-8.
package pngText

import (
	"context"
	"fmt"

	"github.com/poolqa/PngChunkKit/pngDeflate"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	Latin1 encoding.Encoding = charmap.ISO8859_1
	UTF8   encoding.Encoding = unicode.UTF8
)

// Decode interprets b under enc.
func Decode(b []byte, enc encoding.Encoding) (string, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("error decoding text: %w", err)
	}
	return string(out), nil
}

// Encode converts s to enc. Characters enc cannot represent are an error.
func Encode(s string, enc encoding.Encoding) ([]byte, error) {
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("error encoding text: %w", err)
	}
	return out, nil
}

// DecompressText inflates b with the default codec and decodes it under enc.
func DecompressText(b []byte, enc encoding.Encoding) (string, error) {
	return DecompressTextContext(context.Background(), pngDeflate.Default, b, enc)
}

// CompressText encodes s under enc and deflates it with the default codec.
func CompressText(s string, enc encoding.Encoding) ([]byte, error) {
	return CompressTextContext(context.Background(), pngDeflate.Default, s, enc)
}

func DecompressTextContext(ctx context.Context, codec pngDeflate.Codec, b []byte, enc encoding.Encoding) (string, error) {
	raw, err := codec.DecompressContext(ctx, b)
	if err != nil {
		return "", err
	}
	return Decode(raw, enc)
}

func CompressTextContext(ctx context.Context, codec pngDeflate.Codec, s string, enc encoding.Encoding) ([]byte, error) {
	raw, err := Encode(s, enc)
	if err != nil {
		return nil, err
	}
	return codec.CompressContext(ctx, raw)
}
