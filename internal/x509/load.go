package x509

import (
	"encoding/pem"
	"fmt"
	"os"

	"github.com/chaintuts/sslshow/internal/model"

	"github.com/smallstep/pkcs7"
	zx509 "github.com/zmap/zcrypto/x509"
)

// Load parses the leaf certificate out of b. PEM blocks are looked up anywhere
// in the blob, so leading text is fine; otherwise b is taken as a single or
// concatenated DER, or a degenerate PKCS#7 bundle. The first certificate
// found is the leaf.
//
// Parsing is lenient: negative serials, malformed extensions and odd name
// encodings are accepted, the certificate is shown as it is.
func Load(b []byte) (*zx509.Certificate, error) {
	sawPEM := false
	rest := b
	for {
		p, r := pem.Decode(rest)
		if p == nil {
			break
		}
		sawPEM = true
		rest = r
		switch p.Type {
		case "PKCS7", "CMS":
			if cert := parsePKCS7(p.Bytes); cert != nil {
				return cert, nil
			}
			continue
		case "CERTIFICATE":
		default:
			// ignore keys, CSRs, CRLs, etc.
			continue
		}
		cert, err := zx509.ParseCertificate(p.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PEM cert: %w", err)
		}
		return cert, nil
	}
	if sawPEM {
		return nil, fmt.Errorf("PEM data has no CERTIFICATE block: %w", model.ErrNoMatch)
	}

	certs, err := zx509.ParseCertificates(b)
	if err == nil && len(certs) > 0 {
		return certs[0], nil
	}
	if cert := parsePKCS7(b); cert != nil {
		return cert, nil
	}
	return nil, fmt.Errorf("not an X.509 certificate: %w", model.ErrNoMatch)
}

// parsePKCS7 returns the first certificate carried by a signedData bundle, or nil.
func parsePKCS7(b []byte) (cert *zx509.Certificate) {
	defer func() {
		// malformed input may panic inside the parser
		if recover() != nil {
			cert = nil
		}
	}()
	p7, err := pkcs7.Parse(b)
	if err != nil || len(p7.Certificates) == 0 {
		return nil
	}
	cert, err = zx509.ParseCertificate(p7.Certificates[0].Raw)
	if err != nil {
		return nil
	}
	return cert
}

func LoadFile(path string) (*zx509.Certificate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading certificate: %w", err)
	}
	cert, err := Load(b)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cert, nil
}
