package rabbit

import (
	"encoding/json"
	"sync"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// Sender performs messages sending using rabbit mq broker
type Sender struct {
	ChannelProvider *ChannelProvider
	initialized     bool
	initFunc        initFunc
	m               sync.Mutex
}

type initFunc func(*ChannelProvider) error

// NewSender initializes rabbit sender
func NewSender(provider *ChannelProvider, f initFunc) *Sender {
	return &Sender{ChannelProvider: provider, initialized: false, initFunc: f}
}

// Send sends the message to a queue
func (sender *Sender) Send(message interface{}, queue string) error {
	err := initialize(sender)
	if err != nil {
		defer sender.ChannelProvider.Close() // lets init sender again
		return errors.Wrap(err, "Can't initialize sender")
	}
	cmdapp.Log.Infof("Sending message to %s", queue)

	msgBytes, err := getBytes(message)
	if err != nil {
		return errors.Wrap(err, "Can't marshal message")
	}

	ch, err := sender.ChannelProvider.Channel()
	if err != nil {
		return errors.Wrap(err, "Can't init channel")
	}
	err = ch.Publish(
		"", // exchange
		sender.ChannelProvider.QueueName(queue),
		false, // mandatory
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         msgBytes,
		})

	if err != nil {
		defer sender.ChannelProvider.Close() // lets init sender again
		return errors.Wrap(err, "Can't send message")
	}
	return nil
}

func getBytes(message interface{}) ([]byte, error) {
	switch m := message.(type) {
	case []byte:
		return m, nil
	default:
		return json.Marshal(message)
	}
}

func initialize(sender *Sender) error {
	sender.m.Lock()
	defer sender.m.Unlock()

	if !sender.initialized && sender.initFunc != nil {
		err := sender.initFunc(sender.ChannelProvider)
		if err != nil {
			return err
		}
		sender.initialized = true
	}
	return nil
}
