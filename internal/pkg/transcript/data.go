package transcript

import (
	"time"

	"bitbucket.org/airenas/vidscribe/internal/pkg/segments"
)

type (
	// Record is the persisted transcript of one video
	Record struct {
		VideoID     string              `bson:"ID" json:"videoId"`
		Status      string              `bson:"status" json:"status"`
		SourceURL   string              `bson:"sourceUrl,omitempty" json:"-"`
		Language    string              `bson:"language,omitempty" json:"language,omitempty"`
		Content     string              `bson:"content,omitempty" json:"content,omitempty"`
		Segments    []segments.Segment  `bson:"segments,omitempty" json:"segments,omitempty"`
		Confidence  *float64            `bson:"confidence,omitempty" json:"confidence,omitempty"`
		Provider    string              `bson:"provider,omitempty" json:"provider,omitempty"`
		Error       string              `bson:"error,omitempty" json:"error,omitempty"`
		GeneratedAt *time.Time          `bson:"generatedAt,omitempty" json:"generatedAt,omitempty"`
	}

	// Fields carries optional values for a status update
	Fields struct {
		Language    string
		Content     string
		Confidence  *float64
		Provider    string
		Error       string
		GeneratedAt *time.Time
	}
)
