package rabbit

import (
	"testing"

	"bitbucket.org/airenas/vidscribe/internal/pkg/messages"
	"github.com/stretchr/testify/assert"
)

func TestEmptyQueueName(t *testing.T) {
	var prv ChannelProvider
	assert.Equal(t, "", prv.QueueName(""))
}

func TestNoPrefix(t *testing.T) {
	var prv ChannelProvider
	assert.Equal(t, "olia", prv.QueueName("olia"))
}

func TestPrefix(t *testing.T) {
	var prv ChannelProvider
	prv.qPrefix = "prefix"
	assert.Equal(t, "prefix_olia", prv.QueueName("olia"))
}

func TestGetBytes_Message(t *testing.T) {
	m := messages.NewTranscriptionMessage("id", "http://file.mp4", "en")
	b, err := getBytes(m)
	assert.Nil(t, err)
	assert.Equal(t, "{\"videoId\":\"id\",\"sourceUrl\":\"http://file.mp4\",\"language\":\"en\"}", string(b))
}

func TestGetBytes_Bytes(t *testing.T) {
	b, err := getBytes([]byte("olia"))
	assert.Nil(t, err)
	assert.Equal(t, "olia", string(b))
}

func TestGetBytes_String(t *testing.T) {
	b, err := getBytes("olia")
	assert.Nil(t, err)
	assert.Equal(t, "\"olia\"", string(b))
}
