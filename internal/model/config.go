package model

import (
	"fmt"
	"io"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"

	_ "embed"
)

const (
	ProtocolTLS = "TLS"

	OutputText      = "text"
	OutputCycloneDX = "cyclonedx"

	LogStderr  = "stderr"
	LogStdout  = "stdout"
	LogDiscard = "discard"

	DefaultDialTimeout      = 5 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	// like time.UnixDate with a zero padded day: Thu Jan 02 15:04:05 UTC 2020
	DefaultTimeLayout = "Mon Jan 02 15:04:05 MST 2006"
)

//go:embed config.cue
var cueSource []byte

var (
	cueCtx *cue.Context
	schema cue.Value
)

func init() {
	if len(cueSource) == 0 {
		panic("variable cueSource is empty")
	}
	cueCtx = cuecontext.New()
	compiled := cueCtx.CompileBytes(cueSource)
	if compiled.Err() != nil {
		panic(compiled.Err())
	}

	if err := compiled.Validate(); err != nil {
		panic(err)
	}

	schema = compiled.LookupPath(cue.ParsePath("#Config"))
	if schema.Err() != nil {
		panic(schema.Err())
	}
	if err := schema.Validate(); err != nil {
		panic(err)
	}
}

type Config struct {
	Version int      `json:"version" yaml:"version"` // fixed 0 for now
	Fetch   *Fetch   `json:"fetch,omitempty" yaml:"fetch,omitempty"`
	Service *Service `json:"service,omitempty" yaml:"service,omitempty"`
}

// Fetch tunes the TLS connection used to retrieve a certificate.
// Certificate validation is not configurable.
type Fetch struct {
	Protocol          *string `json:"protocol,omitempty" yaml:"protocol,omitempty"`                     // "TLS", "TLSv1.2", "TLSv1.3", ...
	DialTimeout       *string `json:"dial_timeout,omitempty" yaml:"dial_timeout,omitempty"`             // e.g. 5s
	HandshakeTimeout  *string `json:"handshake_timeout,omitempty" yaml:"handshake_timeout,omitempty"`   // covers dial and handshake
	TimeLayout        *string `json:"time_layout,omitempty" yaml:"time_layout,omitempty"`               // Go time layout, UTC
	ClientCertificate *string `json:"client_certificate,omitempty" yaml:"client_certificate,omitempty"` // PEM file
	ClientKey         *string `json:"client_key,omitempty" yaml:"client_key,omitempty"`                 // PEM file
}

type Service struct {
	Verbose *bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Log     *string `json:"log,omitempty" yaml:"log,omitempty"`       // "stderr"|"stdout"|"discard"|path
	Output  *string `json:"output,omitempty" yaml:"output,omitempty"` // "text"|"cyclonedx"
}

// DefaultConfig returns a configuration with every field set to its default.
func DefaultConfig() Config {
	return Config{
		Version: 0,
		Fetch: &Fetch{
			Protocol:         ptr(ProtocolTLS),
			DialTimeout:      ptr(DefaultDialTimeout.String()),
			HandshakeTimeout: ptr(DefaultHandshakeTimeout.String()),
			TimeLayout:       ptr(DefaultTimeLayout),
		},
		Service: &Service{
			Verbose: ptr(false),
			Log:     ptr(LogStderr),
			Output:  ptr(OutputText),
		},
	}
}

// LoadConfig validates YAML from r against CUE schema and decodes to Config.
func LoadConfig(r io.Reader) (Config, error) {
	yamlFile, err := yaml.Extract("config.yaml", r)
	if err != nil {
		return Config{}, err
	}
	yamlValue := cueCtx.BuildFile(yamlFile)

	unified := schema.Unify(yamlValue)
	if err := unified.Validate(
		cue.All(),          // all constraints
		cue.Concrete(true), // no incomplete values
	); err != nil {
		return Config{}, err
	}

	var out Config
	if err := unified.Decode(&out); err != nil {
		return Config{}, err
	}

	return out, nil
}

func (f *Fetch) GetProtocol() string {
	if f == nil {
		return ProtocolTLS
	}
	return get(f.Protocol, ProtocolTLS)
}

func (f *Fetch) GetDialTimeout() (time.Duration, error) {
	if f == nil {
		return DefaultDialTimeout, nil
	}
	return duration(f.DialTimeout, DefaultDialTimeout)
}

func (f *Fetch) GetHandshakeTimeout() (time.Duration, error) {
	if f == nil {
		return DefaultHandshakeTimeout, nil
	}
	return duration(f.HandshakeTimeout, DefaultHandshakeTimeout)
}

func (f *Fetch) GetTimeLayout() string {
	if f == nil {
		return DefaultTimeLayout
	}
	return get(f.TimeLayout, DefaultTimeLayout)
}

// GetClientKeyPair returns the client certificate and key paths, both empty when unset.
func (f *Fetch) GetClientKeyPair() (certFile, keyFile string) {
	if f == nil {
		return "", ""
	}
	return get(f.ClientCertificate, ""), get(f.ClientKey, "")
}

func (s *Service) GetVerbose() bool {
	if s == nil {
		return false
	}
	return get(s.Verbose, false)
}

func (s *Service) GetLog() string {
	if s == nil {
		return LogStderr
	}
	return get(s.Log, LogStderr)
}

func (s *Service) GetOutput() string {
	if s == nil {
		return OutputText
	}
	return get(s.Output, OutputText)
}

func duration(p *string, dflt time.Duration) (time.Duration, error) {
	if p == nil {
		return dflt, nil
	}
	d, err := time.ParseDuration(*p)
	if err != nil {
		return 0, fmt.Errorf("parsing duration %q: %w", *p, err)
	}
	return d, nil
}

func get[T any](p *T, dflt T) T {
	if p == nil {
		return dflt
	}
	return *p
}

func ptr[T any](v T) *T {
	return &v
}
