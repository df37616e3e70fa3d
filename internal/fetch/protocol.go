package fetch

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/chaintuts/sslshow/internal/model"
)

// protocolVersions maps a protocol selector onto tls.Config version bounds.
// "TLS" leaves both bounds at zero so the runtime negotiates the best version
// it supports; a versioned selector pins exactly that version.
func protocolVersions(protocol string) (minVersion, maxVersion uint16, err error) {
	switch strings.ToUpper(protocol) {
	case "TLS", "":
		return 0, 0, nil
	case "TLSV1", "TLSV1.0":
		return tls.VersionTLS10, tls.VersionTLS10, nil
	case "TLSV1.1":
		return tls.VersionTLS11, tls.VersionTLS11, nil
	case "TLSV1.2":
		return tls.VersionTLS12, tls.VersionTLS12, nil
	case "TLSV1.3":
		return tls.VersionTLS13, tls.VersionTLS13, nil
	default:
		// SSL, SSLv2, SSLv3 and anything else the runtime does not implement
		return 0, 0, fmt.Errorf("protocol %q: %w", protocol, model.ErrUnsupportedProtocol)
	}
}
