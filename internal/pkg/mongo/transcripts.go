package mongo

import (
	"time"

	"bitbucket.org/airenas/vidscribe/internal/pkg/segments"
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcript"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TranscriptStore persists transcript records in mongo
type TranscriptStore struct {
	SessionProvider *SessionProvider
}

// NewTranscriptStore creates TranscriptStore instance
func NewTranscriptStore(sessionProvider *SessionProvider) (*TranscriptStore, error) {
	if sessionProvider == nil {
		return nil, errors.New("No session provider")
	}
	return &TranscriptStore{SessionProvider: sessionProvider}, nil
}

// Find returns transcript record by video ID, nil when there is none
func (ts *TranscriptStore) Find(videoID string) (*transcript.Record, error) {
	c, ctx, cancel, err := newColl(ts.SessionProvider, transcriptTable)
	if err != nil {
		return nil, err
	}
	defer cancel()
	var res transcript.Record
	err = c.FindOne(ctx, bson.M{"ID": sanitize(videoID)}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't get transcript record")
	}
	return &res, nil
}

// FindFailed returns records with the failed status
func (ts *TranscriptStore) FindFailed() ([]*transcript.Record, error) {
	c, ctx, cancel, err := newColl(ts.SessionProvider, transcriptTable)
	if err != nil {
		return nil, err
	}
	defer cancel()
	cursor, err := c.Find(ctx, bson.M{"status": transcript.Name(transcript.Failed)})
	if err != nil {
		return nil, errors.Wrap(err, "Can't get failed records")
	}
	defer cursor.Close(ctx)
	var res []*transcript.Record
	for cursor.Next(ctx) {
		var r transcript.Record
		if err = cursor.Decode(&r); err != nil {
			return nil, errors.Wrap(err, "Can't decode transcript record")
		}
		res = append(res, &r)
	}
	return res, cursor.Err()
}

// SaveProcessing marks a video as taken for transcription and drops an old error
func (ts *TranscriptStore) SaveProcessing(videoID string, sourceURL string, lang string) error {
	set := bson.M{"status": transcript.Name(transcript.Processing), "sourceUrl": sourceURL}
	if lang != "" {
		set["language"] = lang
	}
	return ts.update(videoID, set, bson.M{"error": 1})
}

// SaveFailed marks a video as failed with a reason
func (ts *TranscriptStore) SaveFailed(videoID string, errMsg string) error {
	return ts.update(videoID, bson.M{"status": transcript.Name(transcript.Failed), "error": errMsg}, nil)
}

// SaveCompleted marks a video as done and sets the final transcript fields.
// Expected to be called after ReplaceSegments, so a completed record always
// carries its segments.
func (ts *TranscriptStore) SaveCompleted(videoID string, fields *transcript.Fields) error {
	set := bson.M{"status": transcript.Name(transcript.Completed)}
	if fields != nil {
		if fields.Language != "" {
			set["language"] = fields.Language
		}
		if fields.Content != "" {
			set["content"] = fields.Content
		}
		if fields.Confidence != nil {
			set["confidence"] = *fields.Confidence
		}
		if fields.Provider != "" {
			set["provider"] = fields.Provider
		}
	}
	now := time.Now()
	set["generatedAt"] = now
	return ts.update(videoID, set, bson.M{"error": 1})
}

// ReplaceSegments swaps the whole segment list of a video in one update
func (ts *TranscriptStore) ReplaceSegments(videoID string, segs []segments.Segment) error {
	return ts.update(videoID, bson.M{"segments": segs}, nil)
}

// DeleteFailed drops all failed records, returns the count of removed ones
func (ts *TranscriptStore) DeleteFailed() (int, error) {
	return ts.delete(bson.M{"status": transcript.Name(transcript.Failed)})
}

// DeleteNotCompleted drops all records except finished transcripts
func (ts *TranscriptStore) DeleteNotCompleted() (int, error) {
	return ts.delete(bson.M{"status": bson.M{"$ne": transcript.Name(transcript.Completed)}})
}

func (ts *TranscriptStore) update(videoID string, set bson.M, unset bson.M) error {
	c, ctx, cancel, err := newColl(ts.SessionProvider, transcriptTable)
	if err != nil {
		return err
	}
	defer cancel()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err = c.UpdateOne(ctx, bson.M{"ID": sanitize(videoID)}, update, options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrap(err, "Can't update transcript record")
	}
	return nil
}

func (ts *TranscriptStore) delete(filter bson.M) (int, error) {
	c, ctx, cancel, err := newColl(ts.SessionProvider, transcriptTable)
	if err != nil {
		return 0, err
	}
	defer cancel()
	res, err := c.DeleteMany(ctx, filter)
	if err != nil {
		return 0, errors.Wrap(err, "Can't delete transcript records")
	}
	return int(res.DeletedCount), nil
}
