package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/chaintuts/sslshow/internal/model"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	yml := `
version: 0
fetch:
  protocol: TLSv1.3
  dial_timeout: 2s
  handshake_timeout: 1m30s
  time_layout: "2006-01-02T15:04:05Z07:00"
service:
  verbose: true
  log: discard
  output: cyclonedx
`
	cfg, err := model.LoadConfig(strings.NewReader(yml))
	require.NoError(t, err)
	require.NotNil(t, cfg.Fetch)
	require.Equal(t, "TLSv1.3", cfg.Fetch.GetProtocol())

	dial, err := cfg.Fetch.GetDialTimeout()
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, dial)

	handshake, err := cfg.Fetch.GetHandshakeTimeout()
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, handshake)

	require.Equal(t, time.RFC3339, cfg.Fetch.GetTimeLayout())
	require.True(t, cfg.Service.GetVerbose())
	require.Equal(t, model.LogDiscard, cfg.Service.GetLog())
	require.Equal(t, model.OutputCycloneDX, cfg.Service.GetOutput())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := model.LoadConfig(strings.NewReader("version: 0\n"))
	require.NoError(t, err)
	require.Nil(t, cfg.Fetch)
	require.Nil(t, cfg.Service)

	require.Equal(t, model.ProtocolTLS, cfg.Fetch.GetProtocol())
	dial, err := cfg.Fetch.GetDialTimeout()
	require.NoError(t, err)
	require.Equal(t, model.DefaultDialTimeout, dial)
	require.Equal(t, model.DefaultTimeLayout, cfg.Fetch.GetTimeLayout())
	cert, key := cfg.Fetch.GetClientKeyPair()
	require.Empty(t, cert)
	require.Empty(t, key)

	require.False(t, cfg.Service.GetVerbose())
	require.Equal(t, model.LogStderr, cfg.Service.GetLog())
	require.Equal(t, model.OutputText, cfg.Service.GetOutput())
}

func TestLoadConfig_Fail(t *testing.T) {
	var testCases = []struct {
		scenario string
		yml      string
		contains string
		code     string
	}{
		{
			scenario: "unknown field",
			yml: `
version: 0
fetch:
  port: 8443
`,
			contains: "port",
			code:     "unknown_field",
		},
		{
			scenario: "bad output",
			yml: `
version: 0
service:
  output: xml
`,
			contains: "output",
		},
		{
			scenario: "bad duration",
			yml: `
version: 0
fetch:
  dial_timeout: soon
`,
			contains: "dial_timeout",
		},
		{
			scenario: "unsupported version",
			yml: `
version: 1
`,
			contains: "version",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			_, err := model.LoadConfig(strings.NewReader(tt.yml))
			require.Error(t, err)
			require.ErrorContains(t, err, tt.contains)

			details := model.CueErrDetails(err)
			require.NotEmpty(t, details)
			if tt.code != "" {
				codes := make([]string, 0, len(details))
				for _, d := range details {
					codes = append(codes, d.Code)
				}
				require.Contains(t, codes, tt.code)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	require.Equal(t, 0, cfg.Version)
	require.Equal(t, model.ProtocolTLS, cfg.Fetch.GetProtocol())

	dial, err := cfg.Fetch.GetDialTimeout()
	require.NoError(t, err)
	require.Equal(t, model.DefaultDialTimeout, dial)

	handshake, err := cfg.Fetch.GetHandshakeTimeout()
	require.NoError(t, err)
	require.Equal(t, model.DefaultHandshakeTimeout, handshake)

	require.Equal(t, model.OutputText, cfg.Service.GetOutput())
}
