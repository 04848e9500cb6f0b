// Package ledger records the access tokens handed out by the FES mock.
//
// A Ledger is append-only: tokens are recorded when the mock issues them and
// are never removed. A recorded token is visible to Contains as soon as Record
// returns. One Ledger is owned per server instance, so independent test
// harnesses never observe each other's tokens.
package ledger

import "sync"

// Ledger is a concurrency-safe set of issued access tokens.
type Ledger struct {
	mu     sync.RWMutex
	tokens map[string]string // token -> identity it was issued to
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{tokens: make(map[string]string)}
}

// Record adds token to the ledger along with the identity it was issued to.
// Recording a token that is already present keeps the original identity.
func (l *Ledger) Record(token, issuedTo string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.tokens[token]; ok {
		return
	}
	l.tokens[token] = issuedTo
}

// Contains reports whether token was previously recorded.
func (l *Ledger) Contains(token string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.tokens[token]
	return ok
}

// IssuedTo returns the identity a recorded token was issued to.
func (l *Ledger) IssuedTo(token string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	email, ok := l.tokens[token]
	return email, ok
}

// Len returns the number of distinct recorded tokens.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tokens)
}
