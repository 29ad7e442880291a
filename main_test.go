package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poolqa/PngChunkKit/config"
	"github.com/poolqa/PngChunkKit/pngChunk"
	"github.com/poolqa/PngChunkKit/pngFile"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestRun_Anonymize(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")

	ihdr, err := pngChunk.New("IHDR", []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 0, 0, 0, 0})
	require.NoError(t, err)
	text, err := pngChunk.NewText("Author", "Jane")
	require.NoError(t, err)
	end, err := pngChunk.New("IEND", nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(input, pngFile.New(ihdr, text, end).Bytes(), 0o644))

	log, _ := test.NewNullLogger()
	err = run(context.Background(), config.Default(), log, CommandOptions{
		Input:     input,
		Output:    output,
		Anonymize: true,
		Texts:     true,
	})
	require.NoError(t, err)

	out, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, pngFile.New(ihdr, end).Bytes(), out)
}

func TestRun_MissingInput(t *testing.T) {
	log, _ := test.NewNullLogger()
	err := run(context.Background(), config.Default(), log, CommandOptions{
		Input: filepath.Join(t.TempDir(), "missing.png"),
	})
	require.Error(t, err)
}
