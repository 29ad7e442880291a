package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/poolqa/PngChunkKit/pngChunk"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, "info", c.LogLevel)
	require.GreaterOrEqual(t, c.Workers, 1)
	require.Equal(t, uint32(pngChunk.MaxLength), c.Parse.MaxChunkLength)
	require.NotNil(t, c.Deflate.Level)
	require.Equal(t, flate.BestCompression, *c.Deflate.Level)
	require.False(t, c.Deflate.AppendAdler32)
	require.False(t, c.Parse.StrictCrc)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
logLevel: debug
workers: 3
parse:
  strictCrc: true
deflate:
  appendAdler32: true
  level: 6
`), 0o644)
	require.NoError(t, err)

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, c.Workers)
	require.True(t, c.Parse.StrictCrc)
	require.Equal(t, uint32(pngChunk.MaxLength), c.Parse.MaxChunkLength)
	require.Equal(t, 6, *c.Codec().Options.Level)
	require.True(t, c.Codec().Options.AppendAdler32)
	require.Equal(t, logrus.DebugLevel, c.Logger().GetLevel())

	opts := c.ReaderOptions(pngChunk.Discard)
	require.True(t, opts.Strict)
	require.NotNil(t, opts.Observer)
}

func TestParse_NoCompressionLevel(t *testing.T) {
	c, err := Parse([]byte("deflate:\n  level: 0\n"))
	require.NoError(t, err)
	require.Equal(t, flate.NoCompression, *c.Deflate.Level)

	data := make([]byte, 4096)
	out, err := c.Codec().Compress(data)
	require.NoError(t, err)
	require.Greater(t, len(out), len(data))
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown key": "colour: red\n",
		"bad level":   "logLevel: loud\n",
		"bad deflate": "deflate:\n  level: 12\n",
		"low deflate": "deflate:\n  level: -3\n",
		"too long":    "parse:\n  maxChunkLength: 4294967295\n",
		"not yaml":    "workers: [\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			require.Error(t, err)
		})
	}
}
