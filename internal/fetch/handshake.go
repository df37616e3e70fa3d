package fetch

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/chaintuts/sslshow/internal/model"

	ztls "github.com/zmap/zcrypto/tls"
	zx509 "github.com/zmap/zcrypto/x509"
)

// peer is what a completed handshake tells about the server.
type peer struct {
	chain       []*zx509.Certificate
	version     uint16
	cipherSuite uint16
}

// handshaker upgrades an established TCP connection to TLS.
type handshaker interface {
	handshake(conn net.Conn) (peer, error)
}

// lenient runs the handshake on zcrypto, whose parser keeps certificates
// crypto/x509 rejects (negative serials, malformed extensions, odd name
// encodings). It negotiates at most TLS 1.2.
type lenient struct {
	config *ztls.Config
}

func (l lenient) handshake(conn net.Conn) (peer, error) {
	tlsConn := ztls.Client(conn, l.config)
	if err := tlsConn.Handshake(); err != nil {
		return peer{}, err
	}
	state := tlsConn.ConnectionState()
	return peer{
		chain:       state.PeerCertificates,
		version:     state.Version,
		cipherSuite: state.CipherSuite,
	}, nil
}

// strict runs the handshake on crypto/tls, the only stack here speaking
// TLS 1.3. A certificate crypto/x509 cannot parse fails the handshake.
type strict struct {
	config *tls.Config
}

func (s strict) handshake(conn net.Conn) (peer, error) {
	tlsConn := tls.Client(conn, s.config)
	if err := tlsConn.Handshake(); err != nil {
		return peer{}, err
	}
	state := tlsConn.ConnectionState()
	chain := make([]*zx509.Certificate, 0, len(state.PeerCertificates))
	for _, c := range state.PeerCertificates {
		zc, err := zx509.ParseCertificate(c.Raw)
		if err != nil {
			return peer{}, fmt.Errorf("parsing peer certificate: %w", err)
		}
		chain = append(chain, zc)
	}
	return peer{
		chain:       chain,
		version:     state.Version,
		cipherSuite: state.CipherSuite,
	}, nil
}

// newHandshaker picks the stack for the version bounds. Chain and hostname
// checks are off on both stacks; the Evaluator sees the chain afterwards.
func (f Fetcher) newHandshaker(hostname string, minVersion, maxVersion uint16) (handshaker, error) {
	serverName := hostname
	if net.ParseIP(hostname) != nil {
		// SNI carries names only
		serverName = ""
	}
	certFile, keyFile, err := f.clientKeyPair()
	if err != nil {
		return nil, err
	}

	if minVersion == tls.VersionTLS13 {
		config := &tls.Config{
			ServerName:         serverName,
			InsecureSkipVerify: true, //nolint:gosec // certificates are inspected, never trusted
			MinVersion:         minVersion,
			MaxVersion:         maxVersion,
		}
		if certFile != "" {
			pair, err := tls.LoadX509KeyPair(certFile, keyFile)
			if err != nil {
				return nil, fmt.Errorf("loading client key pair: %w", err)
			}
			config.Certificates = []tls.Certificate{pair}
		}
		return strict{config: config}, nil
	}

	config := &ztls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: true,
		MinVersion:         minVersion,
		MaxVersion:         maxVersion,
	}
	if certFile != "" {
		pair, err := ztls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("loading client key pair: %w", err)
		}
		config.Certificates = []ztls.Certificate{pair}
	}
	return lenient{config: config}, nil
}

func (f Fetcher) clientKeyPair() (certFile, keyFile string, err error) {
	certFile, keyFile = f.cfg.ClientCertificate, f.cfg.ClientKey
	if (certFile == "") != (keyFile == "") {
		return "", "", model.ErrIncompleteKeyPair
	}
	return certFile, keyFile, nil
}
