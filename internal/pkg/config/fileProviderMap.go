package config

import (
	"path/filepath"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ErrProviderNotFound is returned when no provider is mapped for a language
var ErrProviderNotFound = errors.New("Provider not found")

// FileProviderMap maps a language to a provider name.
// The file is watched, changes apply without restart.
type FileProviderMap struct {
	Path string
	v    *viper.Viper
}

// NewFileProviderMap creates FileProviderMap instance from providers.map.yml in path
func NewFileProviderMap(path string) (*FileProviderMap, error) {
	cmdapp.Log.Infof("Init Provider Map from: %s", path)
	if path == "" {
		return nil, errors.New("No path provided")
	}
	file := filepath.Join(path, "providers.map.yml")
	return newFileProviderMap(file)
}

func newFileProviderMap(file string) (*FileProviderMap, error) {
	if file == "" {
		return nil, errors.New("No provider map file provided")
	}
	f := FileProviderMap{}
	f.v = viper.New()
	f.v.SetConfigFile(file)
	f.v.SetConfigType("yml")
	err := f.v.ReadInConfig()
	if err != nil {
		return nil, errors.Wrap(err, "Can't read providers map file: "+file)
	}

	f.v.WatchConfig()
	f.v.OnConfigChange(func(e fsnotify.Event) {
		cmdapp.Log.Infof("Config reloaded from: %s", file)
	})
	return &f, nil
}

// Get returns provider name for language, the 'default' key backs empty
// or unmapped languages
func (fs *FileProviderMap) Get(lang string) (string, error) {
	var name string
	if lang == "" {
		name = fs.v.GetString("default")
	} else {
		name = fs.v.GetString(lang)
		if name == "" {
			name = fs.v.GetString("default")
		}
	}
	if name == "" {
		return "", ErrProviderNotFound
	}
	return name, nil
}
