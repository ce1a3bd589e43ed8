package generator

import (
	"time"

	"bitbucket.org/airenas/vidscribe/internal/pkg/segments"
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcriber"
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcript"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
)

// DB saves and loads transcript records
type DB interface {
	Find(videoID string) (*transcript.Record, error)
	FindFailed() ([]*transcript.Record, error)
	SaveProcessing(videoID string, sourceURL string, lang string) error
	SaveFailed(videoID string, errMsg string) error
	SaveCompleted(videoID string, fields *transcript.Fields) error
	ReplaceSegments(videoID string, segs []segments.Segment) error
	DeleteFailed() (int, error)
	DeleteNotCompleted() (int, error)
}

// ProviderSelector returns a transcription provider for a language
type ProviderSelector interface {
	Get(lang string) (transcriber.Provider, error)
}

type backoffProvider interface {
	Get() backoff.BackOff
}

// Priority orders pending jobs, higher goes first
type Priority int

const (
	// PriorityLow is used for regular enqueue requests
	PriorityLow Priority = iota
	// PriorityMedium is used for failure retries
	PriorityMedium
	// PriorityHigh is used for explicit regeneration
	PriorityHigh
)

var priorityName = map[Priority]string{PriorityLow: "low", PriorityMedium: "medium", PriorityHigh: "high"}
var namePriority = map[string]Priority{"low": PriorityLow, "medium": PriorityMedium, "high": PriorityHigh}

func (p Priority) String() string {
	return priorityName[p]
}

// ParsePriority parses priority from string, empty maps to low
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityLow, nil
	}
	p, f := namePriority[s]
	if !f {
		return PriorityLow, errors.Errorf("Unknown priority '%s'", s)
	}
	return p, nil
}

// JobInfo describes one queued or running job
type JobInfo struct {
	VideoID  string    `json:"videoId"`
	Language string    `json:"language,omitempty"`
	Priority string    `json:"priority"`
	AddedAt  time.Time `json:"addedAt"`
}

// QueueInfo is a snapshot of the generation queue.
// Completed and Failed count finished jobs since the service start.
type QueueInfo struct {
	Pending   []JobInfo `json:"pending"`
	Running   []JobInfo `json:"running"`
	Completed int64     `json:"completed"`
	Failed    int64     `json:"failed"`
}
