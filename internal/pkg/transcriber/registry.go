package transcriber

import (
	"sync"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

// ConfigLoader loads provider config by name
type ConfigLoader interface {
	Get(name string) (*Config, error)
}

// Registry creates and caches provider clients by name
type Registry struct {
	loader ConfigLoader

	lock *sync.Mutex
	prs  map[string]Provider
}

// NewRegistry creates Registry instance
func NewRegistry(loader ConfigLoader) (*Registry, error) {
	if loader == nil {
		return nil, errors.New("No provider config loader")
	}
	return &Registry{loader: loader, lock: &sync.Mutex{}, prs: make(map[string]Provider)}, nil
}

// Get returns a cached provider or builds one from config
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		return nil, errors.New("No provider name")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if p, f := r.prs[name]; f {
		return p, nil
	}
	cfg, err := r.loader.Get(name)
	if err != nil {
		return nil, errors.Wrap(err, "Can't load provider config for "+name)
	}
	p, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("Initialized provider %s (%s)", name, cfg.Type)
	r.prs[name] = p
	return p, nil
}

func newProvider(cfg *Config) (Provider, error) {
	switch cfg.Type {
	case TypeSpeaker:
		return NewClient(cfg)
	case TypeWhisper:
		return NewWhisperClient(cfg)
	}
	return nil, errors.Errorf("Unknown provider type '%s'", cfg.Type)
}
