package format

import (
	"context"
	"log/slog"
	"strings"

	"github.com/chaintuts/sslshow/internal/log"
	"github.com/chaintuts/sslshow/internal/model"
)

// Labels are written in front of each value. Every label starts with a newline.
type Labels struct {
	Subject            string
	Issuer             string
	SignatureAlgorithm string
	SerialNumber       string
	IssuedOn           string
	ExpiresOn          string
	NoInformation      string
}

func DefaultLabels() Labels {
	return Labels{
		Subject:            "\nSubject name: ",
		Issuer:             "\nIssuer name: ",
		SignatureAlgorithm: "\nSignature algorithm: ",
		SerialNumber:       "\nSerial number: ",
		IssuedOn:           "\nIssued On: ",
		ExpiresOn:          "\nExpires on: ",
		NoInformation:      "\nNo information available",
	}
}

type Formatter struct {
	labels Labels
}

func New(labels Labels) Formatter {
	return Formatter{labels: labels}
}

// Format renders the outcome. An absent certificate always yields the
// NoInformation label, whatever the cause was. Values are not escaped.
func (f Formatter) Format(ctx context.Context, outcome model.Outcome) string {
	cert, ok := outcome.Certificate()
	if !ok {
		return f.labels.NoInformation
	}

	var sb strings.Builder
	sb.WriteString(f.labels.Subject)
	sb.WriteString(cert.Subject)
	sb.WriteString(f.labels.Issuer)
	sb.WriteString(cert.Issuer)
	sb.WriteString(f.labels.SignatureAlgorithm)
	sb.WriteString(cert.SignatureAlgorithm)
	sb.WriteString(f.labels.SerialNumber)
	sb.WriteString(cert.SerialNumber)
	sb.WriteString(f.labels.IssuedOn)
	sb.WriteString(cert.IssuedOn)
	sb.WriteString(f.labels.ExpiresOn)
	sb.WriteString(cert.ExpiresOn)
	info := sb.String()

	slog.DebugContext(log.WithTag(ctx), "certificate info", "info", info)
	return info
}
