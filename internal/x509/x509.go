package x509

import (
	"crypto/x509/pkix"
	"encoding/asn1"

	"github.com/chaintuts/sslshow/internal/model"

	zx509 "github.com/zmap/zcrypto/x509"
)

// Extract renders the identifying fields of cert. Timestamps are converted to UTC
// and formatted with layout; an empty layout means model.DefaultTimeLayout.
func Extract(cert *zx509.Certificate, layout string) model.Certificate {
	if layout == "" {
		layout = model.DefaultTimeLayout
	}
	return model.Certificate{
		Subject:               distinguishedName(cert.RawSubject, cert.Subject.String),
		Issuer:                distinguishedName(cert.RawIssuer, cert.Issuer.String),
		SignatureAlgorithm:    SignatureAlgorithmName(cert),
		SerialNumber:          serial(cert),
		IssuedOn:              cert.NotBefore.UTC().Format(layout),
		ExpiresOn:             cert.NotAfter.UTC().Format(layout),
		SignatureAlgorithmOID: SignatureAlgorithmOID(cert),
		Raw:                   cert,
	}
}

// distinguishedName renders the DER encoded name as RFC 2253 text, in the
// order the issuer wrote it. Names that do not decode strictly fall back to
// what the lenient parser made of them.
func distinguishedName(raw []byte, fallback func() string) string {
	var rdn pkix.RDNSequence
	if rest, err := asn1.Unmarshal(raw, &rdn); err == nil && len(rest) == 0 {
		return rdn.String()
	}
	return fallback()
}

var signatureAlgorithmNames = map[string]string{
	"1.2.840.113549.1.1.2":   "MD2-RSA",
	"1.2.840.113549.1.1.4":   "MD5-RSA",
	"1.2.840.113549.1.1.5":   "SHA1-RSA",
	"1.3.14.3.2.29":          "SHA1-RSA",
	"1.2.840.113549.1.1.11":  "SHA256-RSA",
	"1.2.840.113549.1.1.12":  "SHA384-RSA",
	"1.2.840.113549.1.1.13":  "SHA512-RSA",
	"1.2.840.113549.1.1.10":  "RSASSA-PSS",
	"1.2.840.10040.4.3":      "DSA-SHA1",
	"2.16.840.1.101.3.4.3.2": "DSA-SHA256",
	"1.2.840.10045.4.1":      "ECDSA-SHA1",
	"1.2.840.10045.4.3.2":    "ECDSA-SHA256",
	"1.2.840.10045.4.3.3":    "ECDSA-SHA384",
	"1.2.840.10045.4.3.4":    "ECDSA-SHA512",
	"1.3.101.112":            "Ed25519",
}

// SignatureAlgorithmName returns the conventional name of the algorithm the
// issuer signed cert with, its dotted OID when the name is not known, or
// "unknown" when the certificate does not even carry a readable OID.
func SignatureAlgorithmName(cert *zx509.Certificate) string {
	oid := SignatureAlgorithmOID(cert)
	if name, ok := signatureAlgorithmNames[oid]; ok {
		return name
	}
	if oid != "" {
		return oid
	}
	return "unknown"
}

func serial(cert *zx509.Certificate) string {
	if cert.SerialNumber == nil {
		return ""
	}
	return cert.SerialNumber.String()
}

type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.RawValue `asn1:"optional"`
}

type certOuter struct {
	TBSCert   asn1.RawValue
	SigAlg    algorithmIdentifier
	Signature asn1.BitString
}

// SignatureAlgorithmOID reads the outer signatureAlgorithm of cert.Raw.
func SignatureAlgorithmOID(cert *zx509.Certificate) string {
	var outer certOuter
	if _, err := asn1.Unmarshal(cert.Raw, &outer); err != nil {
		return ""
	}
	return outer.SigAlg.Algorithm.String()
}
