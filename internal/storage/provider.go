// Package storage defines the device-local persistence port.
//
// The application persists a handful of named byte blobs: the serialized
// document, the credential hash, and the device identifier. Consumers depend
// on Provider so tests can swap in an in-memory double.
package storage

// Provider is the interface for device-local blob persistence.
type Provider interface {
	// Read returns the raw bytes stored under key. A missing key yields an
	// error satisfying errors.Is(err, os.ErrNotExist).
	Read(key string) ([]byte, error)
	// Write atomically persists content under key, replacing any prior value.
	Write(key string, content []byte) error
	// Delete removes the value stored under key.
	Delete(key string) error
}
