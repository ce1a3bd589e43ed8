package transcription

import (
	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/generator"
	"bitbucket.org/airenas/vidscribe/internal/pkg/messages"
	"bitbucket.org/airenas/vidscribe/internal/pkg/segments"
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcript"
	"github.com/pkg/errors"
)

type eventSender interface {
	Send(message interface{}, queue string) error
}

// notifyingDB wraps a transcript DB and publishes finish events after final writes.
// Send failures are logged, the write itself stays successful.
type notifyingDB struct {
	db     generator.DB
	sender eventSender
}

func newNotifyingDB(db generator.DB, sender eventSender) (*notifyingDB, error) {
	if db == nil {
		return nil, errors.New("No DB provided")
	}
	if sender == nil {
		return nil, errors.New("No sender provided")
	}
	return &notifyingDB{db: db, sender: sender}, nil
}

func (n *notifyingDB) Find(videoID string) (*transcript.Record, error) {
	return n.db.Find(videoID)
}

func (n *notifyingDB) FindFailed() ([]*transcript.Record, error) {
	return n.db.FindFailed()
}

func (n *notifyingDB) SaveProcessing(videoID string, sourceURL string, lang string) error {
	return n.db.SaveProcessing(videoID, sourceURL, lang)
}

func (n *notifyingDB) SaveFailed(videoID string, errMsg string) error {
	err := n.db.SaveFailed(videoID, errMsg)
	if err == nil {
		n.notify(&messages.TranscriptionMessage{VideoID: videoID,
			Status: transcript.Name(transcript.Failed), Error: errMsg})
	}
	return err
}

func (n *notifyingDB) SaveCompleted(videoID string, fields *transcript.Fields) error {
	err := n.db.SaveCompleted(videoID, fields)
	if err == nil {
		n.notify(&messages.TranscriptionMessage{VideoID: videoID,
			Status: transcript.Name(transcript.Completed)})
	}
	return err
}

func (n *notifyingDB) ReplaceSegments(videoID string, segs []segments.Segment) error {
	return n.db.ReplaceSegments(videoID, segs)
}

func (n *notifyingDB) DeleteFailed() (int, error) {
	return n.db.DeleteFailed()
}

func (n *notifyingDB) DeleteNotCompleted() (int, error) {
	return n.db.DeleteNotCompleted()
}

func (n *notifyingDB) notify(msg *messages.TranscriptionMessage) {
	err := n.sender.Send(msg, messages.TranscriptionFinished)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't send finish event for "+msg.VideoID))
	}
}
