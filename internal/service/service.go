package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/chaintuts/sslshow/internal/bom"
	"github.com/chaintuts/sslshow/internal/fetch"
	"github.com/chaintuts/sslshow/internal/format"
	"github.com/chaintuts/sslshow/internal/log"
	"github.com/chaintuts/sslshow/internal/model"
	sx509 "github.com/chaintuts/sslshow/internal/x509"

	cdx "github.com/CycloneDX/cyclonedx-go"
)

type Service struct {
	fetcher    fetch.Fetcher
	formatter  format.Formatter
	port       int
	timeLayout string
	output     string
}

func New(fetchCfg fetch.Config, labels format.Labels, output string) (Service, error) {
	switch output {
	case model.OutputText, model.OutputCycloneDX:
	default:
		return Service{}, fmt.Errorf("unsupported output format %q", output)
	}
	return Service{
		fetcher:    fetch.New(fetchCfg),
		formatter:  format.New(labels),
		port:       fetchCfg.Port,
		timeLayout: fetchCfg.TimeLayout,
		output:     output,
	}, nil
}

// FromConfig builds a Service from a loaded configuration file.
func FromConfig(cfg model.Config) (Service, error) {
	if cfg.Version != 0 {
		return Service{}, fmt.Errorf("config version %d is not supported, expected 0", cfg.Version)
	}
	fetchCfg, err := fetch.ConfigFromModel(cfg.Fetch)
	if err != nil {
		return Service{}, err
	}
	return New(fetchCfg, format.DefaultLabels(), cfg.Service.GetOutput())
}

// Show fetches the certificate of hostname and renders it.
func (s Service) Show(ctx context.Context, hostname string) string {
	outcome := s.fetcher.Fetch(ctx, hostname)
	return s.Render(ctx, outcome, net.JoinHostPort(hostname, strconv.Itoa(s.port)))
}

// Inspect renders the leaf certificate stored in a PEM, DER or PKCS#7 file.
func (s Service) Inspect(ctx context.Context, path string) string {
	ctx = log.ContextAttrs(log.WithTag(ctx), slog.String("path", path))

	var outcome model.Outcome
	if cert, err := sx509.LoadFile(path); err != nil {
		outcome = model.Absent(model.LoadError, err)
		slog.ErrorContext(ctx, "unable to load certificate", outcome.Attr("outcome"))
	} else {
		outcome = model.Found(sx509.Extract(cert, s.timeLayout))
		slog.InfoContext(ctx, "certificate extracted", outcome.Attr("outcome"))
	}
	return s.Render(ctx, outcome, path)
}

// Render formats outcome in the configured output. location ends up in the
// CycloneDX evidence and BOM properties, the text output ignores it.
func (s Service) Render(ctx context.Context, outcome model.Outcome, location string) string {
	cert, ok := outcome.Certificate()
	if !ok || s.output != model.OutputCycloneDX {
		return s.formatter.Format(ctx, outcome)
	}

	compo, err := bom.Component(cert, location)
	if err == nil {
		var buf bytes.Buffer
		err = bom.NewBuilder().
			AppendComponents(compo).
			AppendProperties(cdx.Property{Name: bom.PropertyLocation, Value: location}).
			AsJSON(&buf)
		if err == nil {
			return buf.String()
		}
	}
	slog.WarnContext(log.WithTag(ctx), "rendering CycloneDX failed, using text", "error", err)
	return s.formatter.Format(ctx, outcome)
}
