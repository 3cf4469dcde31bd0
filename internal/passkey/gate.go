// Package passkey implements the device-local pass-key gate.
//
// The gate is a weak deterrent, not a security boundary: the stored value is
// an unsalted SHA-256 digest kept in plain retrievable form on-device. It
// blocks casual access to the catalog on a shared machine and nothing more.
// Do not extend its trust scope; exported data stays plaintext JSON.
package passkey

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/ehclinic/medcat/internal/checksum"
	"github.com/ehclinic/medcat/internal/storage"
)

// Storage keys, scoped to the device installation. The credential never
// travels with document export/import.
const (
	CredentialKey = "credential"
	DeviceIDKey   = "device-id"
)

// MinSecretLen is the minimum accepted pass-key length in bytes.
const MinSecretLen = 4

// ErrSecretTooShort is returned by CreateCredential for secrets shorter than
// MinSecretLen. The prior credential, if any, is left untouched.
var ErrSecretTooShort = fmt.Errorf("passkey: secret must be at least %d characters", MinSecretLen)

// State is the gate's position in its unlock lifecycle.
type State string

const (
	StateNoCredential State = "no_credential"
	StateLocked       State = "locked"
	StateUnlocked     State = "unlocked"
)

// Gate guards app usage behind a locally stored credential hash.
//
// Unlock state is process-local: a successful create or unlock keeps the
// gate open until the process ends. There is no lock-again action, no
// lockout, and no attempt counting.
type Gate struct {
	store storage.Provider

	mu        sync.Mutex
	unlocked  bool
	resetting bool
}

// New creates a gate backed by the given storage provider.
func New(store storage.Provider) *Gate {
	return &Gate{store: store}
}

// HasCredential reports whether a credential hash is stored on this device.
func (g *Gate) HasCredential() bool {
	_, err := g.store.Read(CredentialKey)
	return err == nil
}

// CreateCredential hashes and stores a new secret, replacing any prior hash.
// Subsequent unlock attempts must use the new secret. On success the gate is
// unlocked for the rest of the process lifetime.
func (g *Gate) CreateCredential(secret string) error {
	if len(secret) < MinSecretLen {
		return ErrSecretTooShort
	}
	hash := checksum.Sum([]byte(secret))
	if err := g.store.Write(CredentialKey, []byte(hash)); err != nil {
		return fmt.Errorf("passkey: store credential: %w", err)
	}
	g.mu.Lock()
	g.unlocked = true
	g.resetting = false
	g.mu.Unlock()
	return nil
}

// AttemptUnlock hashes the secret and compares it to the stored hash.
// A mismatch returns (false, nil); the caller surfaces the failure and the
// gate stays locked. The comparison is not constant-time on purpose: this is
// a low-stakes local gate.
func (g *Gate) AttemptUnlock(secret string) (bool, error) {
	stored, err := g.store.Read(CredentialKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("passkey: read credential: %w", err)
	}
	if checksum.Sum([]byte(secret)) != string(stored) {
		return false, nil
	}
	g.mu.Lock()
	g.unlocked = true
	g.mu.Unlock()
	return true, nil
}

// ResetCredential flips the gate back to creation mode. The old hash is kept
// until CreateCredential succeeds, so an abandoned reset leaves prior access
// intact.
func (g *Gate) ResetCredential() {
	g.mu.Lock()
	g.resetting = true
	g.unlocked = false
	g.mu.Unlock()
}

// State returns the gate's current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resetting || !g.HasCredential() {
		return StateNoCredential
	}
	if g.unlocked {
		return StateUnlocked
	}
	return StateLocked
}

// DeviceID returns the opaque device identifier, generating and persisting
// it on first call.
func (g *Gate) DeviceID() (string, error) {
	data, err := g.store.Read(DeviceIDKey)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("passkey: read device id: %w", err)
	}
	id := uuid.NewString()
	if err := g.store.Write(DeviceIDKey, []byte(id)); err != nil {
		return "", fmt.Errorf("passkey: store device id: %w", err)
	}
	return id, nil
}
