package testutil

import (
	"context"
	"sync"

	"github.com/roach88/tutorbook/internal/backend"
)

// Authorizer is an in-memory backend.Authorizer whose grants can be revoked
// between calls, the way a user can revoke a file grant out of band.
type Authorizer struct {
	mu       sync.Mutex
	read     backend.PermissionState
	write    backend.PermissionState
	queries  int
	requests int
}

// NewAuthorizer returns an authorizer granting read and write.
func NewAuthorizer() *Authorizer {
	return &Authorizer{read: backend.PermissionGranted, write: backend.PermissionGranted}
}

// Set changes the state returned for each mode.
func (a *Authorizer) Set(read, write backend.PermissionState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.read, a.write = read, write
}

// RevokeAll denies every mode.
func (a *Authorizer) RevokeAll() {
	a.Set(backend.PermissionDenied, backend.PermissionDenied)
}

// Checks returns how many queries and requests were answered.
func (a *Authorizer) Checks() (queries, requests int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queries, a.requests
}

func (a *Authorizer) Query(_ context.Context, _ string, mode backend.PermissionMode) (backend.PermissionState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queries++
	return a.state(mode), nil
}

func (a *Authorizer) Request(_ context.Context, _ string, mode backend.PermissionMode) (backend.PermissionState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests++
	return a.state(mode), nil
}

func (a *Authorizer) state(mode backend.PermissionMode) backend.PermissionState {
	if mode == backend.ModeReadWrite {
		return a.write
	}
	return a.read
}
