package model

import (
	"fmt"
	"log/slog"
)

// Cause classifies why no certificate was obtained.
type Cause int

const (
	CauseNone Cause = iota
	ConnectionError
	AlgorithmError
	ConfigurationError
	InterruptedError
	LoadError
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case ConnectionError:
		return "connection_error"
	case AlgorithmError:
		return "algorithm_error"
	case ConfigurationError:
		return "configuration_error"
	case InterruptedError:
		return "interrupted_error"
	case LoadError:
		return "load_error"
	default:
		return fmt.Sprintf("cause(%d)", int(c))
	}
}

// Outcome is the result of a fetch: either a found certificate, or an absence
// with the cause kept for diagnostics. The zero value is an absence.
type Outcome struct {
	cert  *Certificate
	cause Cause
	err   error
}

func Found(cert Certificate) Outcome {
	return Outcome{cert: &cert}
}

func Absent(cause Cause, err error) Outcome {
	return Outcome{cause: cause, err: err}
}

// Certificate returns a copy of the found certificate.
func (o Outcome) Certificate() (Certificate, bool) {
	if o.cert == nil {
		return Certificate{}, false
	}
	return *o.cert, true
}

func (o Outcome) Found() bool {
	return o.cert != nil
}

func (o Outcome) Cause() Cause {
	return o.cause
}

func (o Outcome) Err() error {
	return o.err
}

func (o Outcome) Attr(name string) slog.Attr {
	if c, ok := o.Certificate(); ok {
		return slog.Group(name,
			slog.Bool("found", true),
			slog.String("subject", c.Subject),
			slog.String("serial", c.SerialNumber),
		)
	}
	attrs := []any{
		slog.Bool("found", false),
		slog.String("cause", o.cause.String()),
	}
	if o.err != nil {
		attrs = append(attrs, slog.String("error", o.err.Error()))
	}
	return slog.Group(name, attrs...)
}
