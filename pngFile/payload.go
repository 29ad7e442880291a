package pngFile

import (
	"context"

	"github.com/poolqa/PngChunkKit/pngChunk"
	"github.com/poolqa/PngChunkKit/pngDeflate"
	"golang.org/x/sync/errgroup"
)

// TextEntry is the decoded content of a tEXt, zTXt or iTXt chunk.
type TextEntry struct {
	Index             int
	Type              string
	Keyword           string
	Language          string
	TranslatedKeyword string
	Text              string
	// Err is set when the payload could not be inflated or decoded.
	Err error
}

// Texts decodes every text chunk, inflating compressed payloads on up to
// workers goroutines. Entries keep chunk order. A bad payload only sets the
// entry's Err; the returned error is non-nil only when ctx is done.
func (img *Image) Texts(ctx context.Context, codec pngDeflate.Codec, workers int) ([]TextEntry, error) {
	var entries []TextEntry
	var chunks []pngChunk.Chunk
	for i, c := range img.Chunks {
		switch c.(type) {
		case *pngChunk.Text, *pngChunk.CompressedText, *pngChunk.InternationalText:
			entries = append(entries, TextEntry{Index: i, Type: c.Type()})
			chunks = append(chunks, c)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range chunks {
		e, c := &entries[i], chunks[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch c := c.(type) {
			case *pngChunk.Text:
				e.Keyword, e.Text = c.Keyword(), c.Text()
			case *pngChunk.CompressedText:
				e.Keyword = c.Keyword()
				e.Text, e.Err = c.TextContext(ctx, codec)
			case *pngChunk.InternationalText:
				e.Keyword, e.Language, e.TranslatedKeyword = c.Keyword(), c.LanguageTag(), c.TranslatedKeyword()
				e.Text, e.Err = c.TextContext(ctx, codec)
			}
			if e.Err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ImageData concatenates the IDAT payloads and inflates them. The result is
// the filtered scanline data; pixels are not reconstructed.
func (img *Image) ImageData(ctx context.Context, codec pngDeflate.Codec) ([]byte, error) {
	var idat []byte
	for _, c := range img.Chunks {
		if c.Type() == "IDAT" {
			idat = append(idat, c.Data()...)
		}
	}
	if img.IsCgBI() {
		return codec.DecompressRawContext(ctx, idat)
	}
	return codec.DecompressContext(ctx, idat)
}
