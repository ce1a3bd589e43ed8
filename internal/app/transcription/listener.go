package transcription

import (
	"encoding/json"
	"time"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/generator"
	"bitbucket.org/airenas/vidscribe/internal/pkg/messages"
	"bitbucket.org/airenas/vidscribe/internal/pkg/utils"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

type triggerChannelFunc func() (<-chan amqp.Delivery, error)

// StartQueueListener listens for transcription trigger events, reconnects on channel loss.
// The listener stops when fc closes.
func StartQueueListener(chFunc triggerChannelFunc, queue Queue, fc *utils.MultiCloseChannel) {
	go registerQueue(chFunc, queue, fc)
}

func registerQueue(chFunc triggerChannelFunc, queue Queue, fc *utils.MultiCloseChannel) {
	restart := make(chan bool)
	wait := time.Duration(1)
	for {
		cmdapp.Log.Infof("Trying listening queue")
		msgs, err := chFunc()
		if err != nil {
			cmdapp.Log.Error(err)
			wait = wait * 2
			if wait > 60 {
				wait = 60
			}
			cmdapp.Log.Infof("Wait before reconnect %d s", wait)
			select {
			case <-fc.C:
				cmdapp.Log.Infof("Stopped queue listener")
				return
			case <-time.After(wait * time.Second):
			}
			continue
		}
		wait = 1
		go listenQueue(msgs, queue, restart)
		select {
		case <-fc.C:
			cmdapp.Log.Infof("Stopped queue listener")
			return
		case <-restart:
		}
	}
}

func listenQueue(q <-chan amqp.Delivery, queue Queue, restart chan<- bool) {
	for d := range q {
		err := processTrigger(&d, queue)
		if err != nil {
			cmdapp.Log.Errorf("Can't process message %s\n%s", d.MessageId, string(d.Body))
			cmdapp.Log.Error(err)
			d.Nack(false, !d.Redelivered) // redeliver for first time
		} else {
			d.Ack(false)
		}
	}
	cmdapp.Log.Infof("Stopped listening queue")
	restart <- true
}

func processTrigger(d *amqp.Delivery, queue Queue) error {
	var message messages.TranscriptionMessage
	if err := json.Unmarshal(d.Body, &message); err != nil {
		return errors.Wrap(err, "Can't unmarshal message "+string(d.Body))
	}
	cmdapp.Log.Infof("Got trigger msg :%s", message.VideoID)
	if message.VideoID == "" {
		return errors.New("Empty video ID")
	}
	_, err := queue.Enqueue(message.VideoID, message.SourceURL, message.Language, generator.PriorityLow)
	return err
}
