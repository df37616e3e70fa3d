package model

import (
	"errors"
)

var (
	ErrNoMatch             = errors.New("no match")
	ErrEmptyHost           = errors.New("empty hostname")
	ErrNoCertificate       = errors.New("peer presented no certificate")
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
	ErrIncompleteKeyPair   = errors.New("client certificate and key must be set together")
)
