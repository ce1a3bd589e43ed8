package config

import (
	"io/ioutil"
	"path/filepath"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcriber"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// FileProviderLoader loads provider config from yaml files in a directory
type FileProviderLoader struct {
	Path string
}

// NewFileProviderLoader creates FileProviderLoader instance
func NewFileProviderLoader(path string) (*FileProviderLoader, error) {
	cmdapp.Log.Infof("Init Provider Loader from: %s", path)
	if path == "" {
		return nil, errors.New("No path provided")
	}
	f := FileProviderLoader{Path: path}
	return &f, nil
}

// Get returns provider config by name from file name + '.yml'
func (fs *FileProviderLoader) Get(name string) (*transcriber.Config, error) {
	if name == "" {
		return nil, errors.New("No provider name provided")
	}
	file := filepath.Join(fs.Path, name+".yml")
	return loadFile(file)
}

func loadFile(file string) (*transcriber.Config, error) {
	fData, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "Can't load: "+file)
	}
	cfg, err := loadYaml(fData)
	if err != nil {
		return nil, errors.Wrap(err, "Can't load: "+file)
	}
	return cfg, nil
}

func loadYaml(data []byte) (*transcriber.Config, error) {
	cfg := transcriber.Config{}
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal")
	}
	if cfg.Name == "" {
		return nil, errors.New("No provider name in yaml")
	}
	return &cfg, nil
}
