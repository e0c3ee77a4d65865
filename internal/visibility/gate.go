// Package visibility implements super-user mode: a non-authoritative
// toggle controlling whether creator and updater identity is rendered.
// It gates display only; it never changes what is fetched or who may
// mutate.
package visibility

import (
	"crypto/subtle"
	"errors"
	"sync"
)

// ErrBadPassphrase indicates a wrong passphrase; the gate stays off.
var ErrBadPassphrase = errors.New("invalid super user passphrase")

// Gate is a passphrase-protected visibility toggle, off by default.
type Gate struct {
	passphrase string

	mu      sync.Mutex
	enabled bool
}

// NewGate creates a gate guarded by the shared passphrase.
func NewGate(passphrase string) *Gate {
	return &Gate{passphrase: passphrase}
}

// Enable turns the gate on when the passphrase matches. A wrong
// passphrase returns ErrBadPassphrase and leaves the gate unchanged.
func (g *Gate) Enable(passphrase string) error {
	if subtle.ConstantTimeCompare([]byte(passphrase), []byte(g.passphrase)) != 1 {
		return ErrBadPassphrase
	}
	g.mu.Lock()
	g.enabled = true
	g.mu.Unlock()
	return nil
}

// Disable turns the gate off. No confirmation is required.
func (g *Gate) Disable() {
	g.mu.Lock()
	g.enabled = false
	g.mu.Unlock()
}

// Enabled reports whether identity fields should be rendered.
func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Registry holds one gate per client session, standing in for the
// original's client-local state. Gates are created off on first use.
type Registry struct {
	passphrase string

	mu    sync.Mutex
	gates map[string]*Gate
}

// NewRegistry creates a registry issuing gates with the shared passphrase.
func NewRegistry(passphrase string) *Registry {
	return &Registry{
		passphrase: passphrase,
		gates:      make(map[string]*Gate),
	}
}

// Gate returns the gate for a session key, creating it when absent.
func (r *Registry) Gate(key string) *Gate {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gates[key]
	if !ok {
		g = NewGate(r.passphrase)
		r.gates[key] = g
	}
	return g
}

// Drop forgets a session's gate, e.g. after sign-out.
func (r *Registry) Drop(key string) {
	r.mu.Lock()
	delete(r.gates, key)
	r.mu.Unlock()
}
