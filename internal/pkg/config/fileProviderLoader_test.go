package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoaderChecksPath(t *testing.T) {
	_, err := NewFileProviderLoader("")
	assert.NotNil(t, err)
}

func TestLoaderChecksName(t *testing.T) {
	l, err := NewFileProviderLoader("/olia")
	assert.Nil(t, err)
	_, err = l.Get("")
	assert.NotNil(t, err)
}

func TestLoadYaml(t *testing.T) {
	cfg, err := loadYaml([]byte("name: rec\ntype: speaker\nuploadUrl: http://olia\n" +
		"statusUrl: http://olia/st\npollIntervalSec: 3\nmaxPolls: 100\n"))
	assert.Nil(t, err)
	assert.Equal(t, "rec", cfg.Name)
	assert.Equal(t, "speaker", cfg.Type)
	assert.Equal(t, "http://olia", cfg.UploadURL)
	assert.Equal(t, 3, cfg.PollIntervalSec)
	assert.Equal(t, 100, cfg.MaxPolls)
}

func TestLoadYaml_FailOnNoName(t *testing.T) {
	_, err := loadYaml([]byte("type: speaker\n"))
	assert.NotNil(t, err)
}

func TestLoadYaml_FailOnWrongYaml(t *testing.T) {
	_, err := loadYaml([]byte("type: - olia\n :"))
	assert.NotNil(t, err)
}

func TestLoadFile_Fails(t *testing.T) {
	l, _ := NewFileProviderLoader("/olia")
	_, err := l.Get("no-file")
	assert.NotNil(t, err)
}
