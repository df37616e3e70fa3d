package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/chaintuts/sslshow/internal/log"
	"github.com/chaintuts/sslshow/internal/model"
	sx509 "github.com/chaintuts/sslshow/internal/x509"

	"golang.org/x/sync/errgroup"
)

const DefaultPort = 443

// Config is fixed for the lifetime of a Fetcher.
type Config struct {
	Port              int
	Protocol          string        // see protocolVersions
	DialTimeout       time.Duration // TCP connect only, zero means no limit
	HandshakeTimeout  time.Duration // connect and handshake together, zero means no limit
	TimeLayout        string
	ClientCertificate string // PEM file, optional
	ClientKey         string // PEM file, required with ClientCertificate
}

func DefaultConfig() Config {
	return Config{
		Port:             DefaultPort,
		Protocol:         model.ProtocolTLS,
		DialTimeout:      model.DefaultDialTimeout,
		HandshakeTimeout: model.DefaultHandshakeTimeout,
		TimeLayout:       model.DefaultTimeLayout,
	}
}

// ConfigFromModel converts the fetch section of a config file. The port is
// not part of the file and stays at DefaultPort.
func ConfigFromModel(m *model.Fetch) (Config, error) {
	dial, err := m.GetDialTimeout()
	if err != nil {
		return Config{}, fmt.Errorf("fetch.dial_timeout: %w", err)
	}
	handshake, err := m.GetHandshakeTimeout()
	if err != nil {
		return Config{}, fmt.Errorf("fetch.handshake_timeout: %w", err)
	}
	certFile, keyFile := m.GetClientKeyPair()
	return Config{
		Port:              DefaultPort,
		Protocol:          m.GetProtocol(),
		DialTimeout:       dial,
		HandshakeTimeout:  handshake,
		TimeLayout:        m.GetTimeLayout(),
		ClientCertificate: certFile,
		ClientKey:         keyFile,
	}, nil
}

// Fetcher retrieves the leaf certificate a host presents during the TLS
// handshake. It accepts any certificate chain; there is no way to turn
// validation back on.
type Fetcher struct {
	cfg Config
}

func New(cfg Config) Fetcher {
	return Fetcher{cfg: cfg}
}

// failure is what the worker reports when no certificate was obtained.
type failure struct {
	cause model.Cause
	err   error
}

func (e *failure) Error() string { return e.cause.String() + ": " + e.err.Error() }
func (e *failure) Unwrap() error { return e.err }

func fail(cause model.Cause, err error) error {
	return &failure{cause: cause, err: err}
}

// Fetch blocks until the certificate fields are extracted or the attempt
// failed. Failures are logged and returned as an absent outcome, never as an
// error.
func (f Fetcher) Fetch(ctx context.Context, hostname string) model.Outcome {
	ctx = log.ContextAttrs(log.WithTag(ctx), slog.String("host", hostname))

	var cert model.Certificate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cert, err = f.fetch(gctx, hostname)
		return err
	})
	outcome := classify(ctx, cert, g.Wait())

	if outcome.Found() {
		slog.InfoContext(ctx, "certificate extracted", outcome.Attr("outcome"))
	} else {
		slog.ErrorContext(ctx, "unable to fetch certificate", outcome.Attr("outcome"))
	}
	return outcome
}

// classify turns the worker result into an outcome. A connection that broke
// because the caller gave up counts as interrupted.
func classify(ctx context.Context, cert model.Certificate, err error) model.Outcome {
	if err == nil {
		return model.Found(cert)
	}
	var f *failure
	if !errors.As(err, &f) {
		f = &failure{cause: model.ConnectionError, err: err}
	}
	if f.cause == model.ConnectionError && ctx.Err() != nil {
		return model.Absent(model.InterruptedError, f.err)
	}
	return model.Absent(f.cause, f.err)
}

func (f Fetcher) fetch(ctx context.Context, hostname string) (model.Certificate, error) {
	if hostname == "" {
		return model.Certificate{}, fail(model.ConnectionError, model.ErrEmptyHost)
	}

	minVersion, maxVersion, err := protocolVersions(f.cfg.Protocol)
	if err != nil {
		return model.Certificate{}, fail(model.AlgorithmError, err)
	}

	hs, err := f.newHandshaker(hostname, minVersion, maxVersion)
	if err != nil {
		return model.Certificate{}, fail(model.ConfigurationError, err)
	}

	dialCtx := ctx
	if f.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, f.cfg.HandshakeTimeout)
		defer cancel()
	}

	addr := net.JoinHostPort(hostname, strconv.Itoa(f.cfg.Port))
	dialer := &net.Dialer{Timeout: f.cfg.DialTimeout}
	conn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return model.Certificate{}, fail(model.ConnectionError, withCause(dialCtx, fmt.Errorf("dial %s: %w", addr, err)))
	}
	defer func() {
		_ = conn.Close()
	}()
	// the zcrypto handshake takes no context, an expired one unblocks it through the deadline
	stop := context.AfterFunc(dialCtx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	p, err := hs.handshake(conn)
	if err != nil {
		return model.Certificate{}, fail(model.ConnectionError, withCause(dialCtx, fmt.Errorf("handshake with %s: %w", addr, err)))
	}
	if len(p.chain) == 0 {
		return model.Certificate{}, fail(model.ConnectionError, model.ErrNoCertificate)
	}

	evaluator := &AcceptAll{}
	if err := evaluator.Evaluate(p.chain); err != nil {
		return model.Certificate{}, fail(model.ConnectionError, err)
	}
	slog.DebugContext(ctx, "handshake done",
		"version", tls.VersionName(p.version),
		"cipher_suite", tls.CipherSuiteName(p.cipherSuite),
		"chain_length", len(evaluator.Accepted()),
	)

	return sx509.Extract(p.chain[0], f.cfg.TimeLayout), nil
}

// withCause records why ctx ended next to err.
func withCause(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		return err
	}
	return fmt.Errorf("%w: %w", err, context.Cause(ctx))
}
