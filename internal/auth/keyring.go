package auth

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Keyring holds the API key currently in use. A key set explicitly (from a
// connect action) takes precedence over the lookup sources.
type Keyring struct {
	mu      sync.RWMutex
	key     string
	sources []Source
}

// NewKeyring creates a keyring backed by the given lookup sources.
func NewKeyring(sources ...Source) *Keyring {
	return &Keyring{sources: sources}
}

// Key returns the explicit key if set, otherwise the first key the sources yield.
func (k *Keyring) Key() (string, error) {
	k.mu.RLock()
	key := k.key
	k.mu.RUnlock()
	if key != "" {
		return key, nil
	}
	return GetAPIKey(k.sources...)
}

// Set stores an explicit key. An empty key clears it.
func (k *Keyring) Set(key string) {
	k.mu.Lock()
	k.key = key
	k.mu.Unlock()
	log.Debug().Bool("set", key != "").Msg("Keyring updated")
}
