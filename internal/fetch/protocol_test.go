package fetch

import (
	"crypto/tls"
	"testing"

	"github.com/chaintuts/sslshow/internal/model"
	"github.com/stretchr/testify/require"
)

func TestProtocolVersions(t *testing.T) {
	t.Parallel()
	var testCases = []struct {
		given string
		then  uint16
	}{
		{"TLS", 0},
		{"", 0},
		{"tls", 0},
		{"TLSv1", tls.VersionTLS10},
		{"TLSv1.0", tls.VersionTLS10},
		{"TLSv1.1", tls.VersionTLS11},
		{"TLSv1.2", tls.VersionTLS12},
		{"tlsv1.3", tls.VersionTLS13},
	}
	for _, tt := range testCases {
		minVersion, maxVersion, err := protocolVersions(tt.given)
		require.NoError(t, err, tt.given)
		require.Equal(t, tt.then, minVersion, tt.given)
		require.Equal(t, tt.then, maxVersion, tt.given)
	}

	for _, given := range []string{"SSL", "SSLv3", "DTLS", "TLSv2"} {
		_, _, err := protocolVersions(given)
		require.ErrorIs(t, err, model.ErrUnsupportedProtocol, given)
	}
}
