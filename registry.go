package framed

import "sync"

var (
	mu       sync.RWMutex
	registry = map[string]Format{
		"application/json": JSON(),
	}
)

// Register adds a format to the global registry.
// Formats are looked up by their ContentType(), e.g. when negotiating a
// wire format with a peer.
func Register(f Format) {
	mu.Lock()
	defer mu.Unlock()
	registry[f.ContentType()] = f
}

// Get retrieves a format by content type from the global registry.
// Returns the format and true if found, or nil and false if not found.
func Get(contentType string) (Format, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[contentType]
	return f, ok
}

// MustGet retrieves a format by content type, returning the default JSON
// format if the requested content type is not registered.
func MustGet(contentType string) Format {
	if f, ok := Get(contentType); ok {
		return f
	}
	return JSON()
}
