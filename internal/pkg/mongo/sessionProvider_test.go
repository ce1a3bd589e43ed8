package mongo

import (
	"testing"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"github.com/stretchr/testify/assert"
)

func TestNewSessionProvider_NoURL_Fails(t *testing.T) {
	cmdapp.Config.Set("mongo.url", "")
	_, err := NewSessionProvider()
	assert.NotNil(t, err)
}

func TestNewSessionProvider(t *testing.T) {
	cmdapp.Config.Set("mongo.url", "mongodb://mongo:27017")
	pr, err := NewSessionProvider()
	assert.Nil(t, err)
	assert.NotNil(t, pr)
	assert.Equal(t, "mongodb://mongo:27017", pr.URL)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "id", sanitize("id"))
	assert.Equal(t, "where", sanitize("$where"))
	assert.Equal(t, "", sanitize(""))
}

func TestNewTranscriptStore_NoProvider_Fails(t *testing.T) {
	_, err := NewTranscriptStore(nil)
	assert.NotNil(t, err)
}

func TestNewTranscriptStore(t *testing.T) {
	st, err := NewTranscriptStore(&SessionProvider{URL: "mongodb://mongo:27017"})
	assert.Nil(t, err)
	assert.NotNil(t, st)
}
