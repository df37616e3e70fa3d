package model

import zx509 "github.com/zmap/zcrypto/x509"

// Certificate holds the identifying fields of a leaf certificate, rendered
// as text exactly once at extraction time.
type Certificate struct {
	Subject            string
	Issuer             string
	SignatureAlgorithm string
	SerialNumber       string
	IssuedOn           string
	ExpiresOn          string

	SignatureAlgorithmOID string             // dotted form, empty when unreadable
	Raw                   *zx509.Certificate // parsed certificate the fields came from
}
