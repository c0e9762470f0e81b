package gateway

import (
	"sort"
	"sync"

	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/pkg/errors"
)

// DefaultBackend is used by profiles that name no backend.
const DefaultBackend = "portainer"

// Factory builds a Gateway for a configured profile.
type Factory func(profile *model.ProfileConfig) (Gateway, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// RegisterBackend registers a factory for a backend name used in profiles,
// e.g. RegisterBackend("portainer", newPortainerFromProfile)
func RegisterBackend(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("RegisterBackend called twice for " + name)
	}
	registry[name] = factory
}

// New creates the gateway for a profile. An empty backend means portainer.
func New(profile *model.ProfileConfig) (Gateway, error) {
	name := profile.Backend
	if name == "" {
		name = DefaultBackend
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("gateway backend '%s' not found in registry", name)
	}
	return factory(profile)
}

func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
