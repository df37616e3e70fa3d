package bom

import (
	"crypto/dsa" //nolint:staticcheck // old servers still present DSA certificates
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/chaintuts/sslshow/internal/model"

	cdx "github.com/CycloneDX/cyclonedx-go"
)

const (
	PropertySerialNumber  = "sslshow:certificate:serial_number"
	PropertyBase64Content = "sslshow:certificate:base64_content"

	refUnknownKey       cdx.BOMReference = "crypto/key/unknown@unknown"
	refUnknownAlgorithm cdx.BOMReference = "crypto/algorithm/unknown@unknown"
)

// Component maps an extracted certificate onto a cryptographic-asset component.
// location is where the certificate was seen: host:port or a file path.
// The certificate properties reuse the rendered fields, so the BOM reads the
// same as the text output.
func Component(cert model.Certificate, location string) (cdx.Component, error) {
	if cert.Raw == nil {
		return cdx.Component{}, fmt.Errorf("certificate %q has no parsed form", cert.Subject)
	}

	c := cdx.Component{
		BOMRef:  "crypto/certificate/" + cert.SerialNumber,
		Type:    cdx.ComponentTypeCryptographicAsset,
		Name:    name(cert),
		Version: cert.SerialNumber,
		CryptoProperties: &cdx.CryptoProperties{
			AssetType: cdx.CryptoAssetTypeCertificate,
			CertificateProperties: &cdx.CertificateProperties{
				SubjectName:           cert.Subject,
				IssuerName:            cert.Issuer,
				NotValidBefore:        cert.IssuedOn,
				NotValidAfter:         cert.ExpiresOn,
				SignatureAlgorithmRef: signatureAlgorithmRef(cert.SignatureAlgorithmOID),
				SubjectPublicKeyRef:   subjectPublicKeyRef(cert.Raw.RawSubjectPublicKeyInfo),
				CertificateFormat:     "X.509",
			},
		},
		Properties: &[]cdx.Property{
			{Name: PropertySerialNumber, Value: cert.SerialNumber},
			{Name: PropertyBase64Content, Value: base64.StdEncoding.EncodeToString(cert.Raw.Raw)},
		},
	}
	if location != "" {
		c.Evidence = &cdx.Evidence{
			Occurrences: &[]cdx.EvidenceOccurrence{{Location: location}},
		}
	}
	return c, nil
}

func name(cert model.Certificate) string {
	if cn := cert.Raw.Subject.CommonName; cn != "" {
		return cn
	}
	return cert.Subject
}

var sigAlgRef = map[string]cdx.BOMReference{
	"1.2.840.113549.1.1.4":   "crypto/algorithm/md5-rsa@1.2.840.113549.1.1.4",
	"1.2.840.113549.1.1.5":   "crypto/algorithm/sha-1-rsa@1.2.840.113549.1.1.5",
	"1.2.840.113549.1.1.11":  "crypto/algorithm/sha-256-rsa@1.2.840.113549.1.1.11",
	"1.2.840.113549.1.1.12":  "crypto/algorithm/sha-384-rsa@1.2.840.113549.1.1.12",
	"1.2.840.113549.1.1.13":  "crypto/algorithm/sha-512-rsa@1.2.840.113549.1.1.13",
	"1.2.840.113549.1.1.10":  "crypto/algorithm/rsassa-pss@1.2.840.113549.1.1.10",
	"1.2.840.10040.4.3":      "crypto/algorithm/sha-1-dsa@1.2.840.10040.4.3",
	"2.16.840.1.101.3.4.3.2": "crypto/algorithm/sha-256-dsa@2.16.840.1.101.3.4.3.2",
	"1.2.840.10045.4.1":      "crypto/algorithm/sha-1-ecdsa@1.2.840.10045.4.1",
	"1.2.840.10045.4.3.2":    "crypto/algorithm/sha-256-ecdsa@1.2.840.10045.4.3.2",
	"1.2.840.10045.4.3.3":    "crypto/algorithm/sha-384-ecdsa@1.2.840.10045.4.3.3",
	"1.2.840.10045.4.3.4":    "crypto/algorithm/sha-512-ecdsa@1.2.840.10045.4.3.4",
	"1.3.101.112":            "crypto/algorithm/ed25519@1.3.101.112",
}

func signatureAlgorithmRef(oid string) cdx.BOMReference {
	if ref, ok := sigAlgRef[oid]; ok {
		return ref
	}
	return refUnknownAlgorithm
}

// subjectPublicKeyRef decodes the key from the raw SubjectPublicKeyInfo, the
// lenient certificate parser may leave it empty for keys it does not know.
func subjectPublicKeyRef(spki []byte) cdx.BOMReference {
	key, err := x509.ParsePKIXPublicKey(spki)
	if err != nil {
		return refUnknownKey
	}
	switch pub := key.(type) {
	case *rsa.PublicKey:
		return cdx.BOMReference(fmt.Sprintf("crypto/key/rsa-%d@1.2.840.113549.1.1.1", pub.N.BitLen()))
	case *ecdsa.PublicKey:
		// Curve OIDs
		switch pub.Params().BitSize {
		case 256:
			return "crypto/key/ecdsa-p256@1.2.840.10045.3.1.7"
		case 384:
			return "crypto/key/ecdsa-p384@1.3.132.0.34"
		case 521:
			return "crypto/key/ecdsa-p521@1.3.132.0.35"
		default:
			return refUnknownKey
		}
	case ed25519.PublicKey:
		return "crypto/key/ed25519-256@1.3.101.112"
	case *dsa.PublicKey:
		return cdx.BOMReference(fmt.Sprintf("crypto/key/dsa-%d@1.2.840.10040.4.1", pub.P.BitLen()))
	default:
		return refUnknownKey
	}
}
