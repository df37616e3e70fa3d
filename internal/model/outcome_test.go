package model_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/chaintuts/sslshow/internal/model"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	t.Parallel()

	found := model.Found(model.Certificate{Subject: "CN=chaintuts.com"})
	require.True(t, found.Found())
	require.Equal(t, model.CauseNone, found.Cause())
	require.NoError(t, found.Err())
	cert, ok := found.Certificate()
	require.True(t, ok)
	require.Equal(t, "CN=chaintuts.com", cert.Subject)

	// copies handed out must not alter the outcome
	cert.Subject = "CN=changed"
	again, _ := found.Certificate()
	require.Equal(t, "CN=chaintuts.com", again.Subject)

	boom := errors.New("boom")
	absent := model.Absent(model.ConnectionError, boom)
	require.False(t, absent.Found())
	require.Equal(t, model.ConnectionError, absent.Cause())
	require.ErrorIs(t, absent.Err(), boom)
	_, ok = absent.Certificate()
	require.False(t, ok)

	var zero model.Outcome
	require.False(t, zero.Found())
}

func TestCause_String(t *testing.T) {
	t.Parallel()
	require.Equal(t, "connection_error", model.ConnectionError.String())
	require.Equal(t, "algorithm_error", model.AlgorithmError.String())
	require.Equal(t, "configuration_error", model.ConfigurationError.String())
	require.Equal(t, "interrupted_error", model.InterruptedError.String())
	require.Equal(t, "load_error", model.LoadError.String())
	require.Equal(t, "cause(42)", model.Cause(42).String())
}

func TestOutcome_Attr(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("found", model.Found(model.Certificate{Subject: "CN=chaintuts.com", SerialNumber: "-6"}).Attr("outcome"))
	logger.Info("absent", model.Absent(model.LoadError, errors.New("boom")).Attr("outcome"))

	dec := json.NewDecoder(&buf)
	var found, absent struct {
		Outcome map[string]any `json:"outcome"`
	}
	require.NoError(t, dec.Decode(&found))
	require.NoError(t, dec.Decode(&absent))

	require.Equal(t, map[string]any{"found": true, "subject": "CN=chaintuts.com", "serial": "-6"}, found.Outcome)
	require.Equal(t, map[string]any{"found": false, "cause": "load_error", "error": "boom"}, absent.Outcome)
}
