package x509_test

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	zx509 "github.com/zmap/zcrypto/x509"
)

const (
	fixturePEM = "testdata/chaintuts.pem"
	fixtureDER = "testdata/chaintuts.der"
)

// genSelfSignedCert generates a self-signed certificate for testing
func genSelfSignedCert(t *testing.T, templ *x509.Certificate, key crypto.Signer) (der []byte, cert *zx509.Certificate) {
	t.Helper()
	if key == nil {
		var err error
		key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
	}
	if templ == nil {
		templ = &x509.Certificate{
			SerialNumber:          big.NewInt(time.Now().UnixNano()),
			Subject:               pkix.Name{CommonName: "Test Cert"},
			NotBefore:             time.Now().Add(-time.Minute),
			NotAfter:              time.Now().Add(2 * time.Hour),
			KeyUsage:              x509.KeyUsageDigitalSignature,
			ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
			BasicConstraintsValid: true,
		}
	}
	der, err := x509.CreateCertificate(rand.Reader, templ, templ, key.Public(), key)
	require.NoError(t, err)

	cert, err = zx509.ParseCertificate(der)
	require.NoError(t, err)
	return der, cert
}

// genNegativeSerialCert returns a certificate whose serial number encodes as -6.
// crypto/x509 refuses to create or parse such certificates, so the serial
// is patched in after signing; the signature no longer verifies.
func genNegativeSerialCert(t *testing.T) []byte {
	t.Helper()
	templ := &x509.Certificate{
		SerialNumber: big.NewInt(0x7a),
		Subject:      pkix.Name{CommonName: "negative.example.com"},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, _ := genSelfSignedCert(t, templ, nil)

	// INTEGER, length 1, 0x7a; the version field before it encodes as 02 01 02
	i := bytes.Index(der, []byte{0x02, 0x01, 0x7a})
	require.Positive(t, i)
	der[i+2] = 0xfa
	return der
}

func genEd25519Key(t *testing.T) crypto.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}
