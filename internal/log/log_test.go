package log_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/chaintuts/sslshow/internal/log"
	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, false)

	ctx := log.WithTag(t.Context())
	ctx = log.ContextAttrs(ctx, slog.String("host", "chaintuts.com"))

	logger.InfoContext(ctx, "certificate extracted")
	logger.DebugContext(ctx, "hidden")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "certificate extracted", record["msg"])
	require.Equal(t, log.Tag, record["tag"])
	require.Equal(t, "chaintuts.com", record["host"])
	require.NotContains(t, buf.String(), "hidden")
}

func TestContextAttrs_Siblings(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, true)

	parent := log.ContextAttrs(t.Context(), slog.String("a", "1"))
	left := log.ContextAttrs(parent, slog.String("side", "left"))
	_ = log.ContextAttrs(parent, slog.String("side", "right"))

	logger.DebugContext(left, "left")
	require.Contains(t, buf.String(), `"side":"left"`)
	require.NotContains(t, buf.String(), `"side":"right"`)
}

func TestOpen(t *testing.T) {
	var testCases = []struct {
		dest string
		then io.Writer
	}{
		{"", os.Stderr},
		{"stderr", os.Stderr},
		{"stdout", os.Stdout},
		{"discard", io.Discard},
	}
	for _, tt := range testCases {
		t.Run(tt.dest, func(t *testing.T) {
			w, closeFn, err := log.Open(tt.dest)
			require.NoError(t, err)
			require.Equal(t, tt.then, w)
			require.NoError(t, closeFn())
		})
	}

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sslshow.log")
		w, closeFn, err := log.Open(path)
		require.NoError(t, err)
		log.New(w, false).Info("written")
		require.NoError(t, closeFn())

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(b), "written")
	})

	t.Run("bad path", func(t *testing.T) {
		_, closeFn, err := log.Open(filepath.Join(t.TempDir(), "missing", "sslshow.log"))
		require.Error(t, err)
		require.NotNil(t, closeFn)
	})
}
