package fetch

import (
	"sync"

	zx509 "github.com/zmap/zcrypto/x509"
)

// Evaluator decides whether a presented certificate chain is acceptable.
// A non-nil error discards the certificate.
type Evaluator interface {
	Evaluate(chain []*zx509.Certificate) error
}

// AcceptAll accepts every chain, including self-signed, expired and revoked
// ones. It remembers the last chain it was shown; nothing reads that record
// to make a decision.
//
// AcceptAll must only ever be used to inspect certificates. Never send
// data over a connection it approved.
type AcceptAll struct {
	mu       sync.Mutex
	accepted []*zx509.Certificate
}

func (a *AcceptAll) Evaluate(chain []*zx509.Certificate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accepted = chain
	return nil
}

// Accepted returns the chain passed to the last Evaluate call.
func (a *AcceptAll) Accepted() []*zx509.Certificate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accepted
}
