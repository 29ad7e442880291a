package pngChunk

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestLogObserver(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var stream []byte
	stream = append(stream, encode("IEND", nil, 1)...)
	stream = append(stream, encodeValid("zzzz", nil)...)

	col := &Collector{}
	r := NewReader(bytes.NewReader(stream), Options{Observer: Multi(LogObserver(logger), col, nil)})
	for i := 0; i < 2; i++ {
		_, err := r.Next()
		require.NoError(t, err)
	}

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	require.Equal(t, logrus.WarnLevel, entries[0].Level)
	require.Equal(t, "IEND", entries[0].Data["type"])
	require.Equal(t, "00000001", entries[0].Data["actual"])
	require.Equal(t, logrus.InfoLevel, entries[1].Level)
	require.Equal(t, "zzzz", entries[1].Data["type"])

	require.Len(t, col.Diagnostics(), 2)
	require.Contains(t, col.Diagnostics()[0].String(), "expected ae426082, actual 00000001")
}
