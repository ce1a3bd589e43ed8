package transcription

import (
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcriber"
	"github.com/pkg/errors"
)

// LangMapper resolves a provider name for a language
type LangMapper interface {
	Get(lang string) (string, error)
}

// ProviderGetter returns a provider by name
type ProviderGetter interface {
	Get(name string) (transcriber.Provider, error)
}

// providerSelector maps a language to a ready provider instance
type providerSelector struct {
	mapper   LangMapper
	registry ProviderGetter
}

func newProviderSelector(mapper LangMapper, registry ProviderGetter) (*providerSelector, error) {
	if mapper == nil {
		return nil, errors.New("No language mapper")
	}
	if registry == nil {
		return nil, errors.New("No provider registry")
	}
	return &providerSelector{mapper: mapper, registry: registry}, nil
}

func (ps *providerSelector) Get(lang string) (transcriber.Provider, error) {
	name, err := ps.mapper.Get(lang)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't select provider for language '%s'", lang)
	}
	return ps.registry.Get(name)
}
