package transcriber

import (
	"context"

	"bitbucket.org/airenas/vidscribe/internal/pkg/segments"
)

// Result is a finished transcription
type Result struct {
	Segments []segments.Segment
	Language string
	Text     string
}

// Provider communicates with one external speech to text service
type Provider interface {
	Transcribe(ctx context.Context, sourceURL string, lang string) (*Result, error)
	Name() string
}

// Config describes one external provider instance
type Config struct {
	Name            string `yaml:"name"`
	Type            string `yaml:"type"`
	UploadURL       string `yaml:"uploadUrl"`
	StatusURL       string `yaml:"statusUrl"`
	Key             string `yaml:"key"`
	PollIntervalSec int    `yaml:"pollIntervalSec"`
	MaxPolls        int    `yaml:"maxPolls"`
	ChunkSize       int    `yaml:"chunkSize"`
}

const (
	// TypeSpeaker selects the speaker aware provider client
	TypeSpeaker = "speaker"
	// TypeWhisper selects the whisper style provider client
	TypeWhisper = "whisper"
)
