package rabbit

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestProvider() *ChannelProvider {
	return &ChannelProvider{url: "amqp://localhost:1"}
}

func TestSend_NoInitFunc(t *testing.T) {
	sender := NewSender(newTestProvider(), nil)

	err := sender.Send("olia", "q")

	assert.NotNil(t, err)
}

func TestSend_InitFuncCalled(t *testing.T) {
	called := 0
	sender := NewSender(newTestProvider(), func(pr *ChannelProvider) error {
		called++
		return nil
	})

	sender.Send("olia", "q")
	sender.Send("olia", "q")

	assert.Equal(t, 1, called)
}

func TestSend_InitFuncFails(t *testing.T) {
	sender := NewSender(newTestProvider(), func(pr *ChannelProvider) error {
		return errors.New("olia")
	})

	err := sender.Send("olia", "q")

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "Can't initialize sender")
}
