package ports

// Store is durable client-local key/value storage, the stand-in for the
// browser's localStorage in the original site. Reads and writes are
// synchronous; concurrent writers follow last-writer-wins semantics with no
// locking across processes.
type Store interface {
	// Get returns the stored value, or (nil, nil) when the key is absent.
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
