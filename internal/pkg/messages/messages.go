package messages

// Queue names used by the transcription pipeline
const (
	// TranscriptionNeeded asks the service to generate a transcript
	TranscriptionNeeded = "TranscriptionNeeded"
	// TranscriptionFinished informs about a completed or failed generation
	TranscriptionFinished = "TranscriptionFinished"
)

// TranscriptionMessage is the wire form of a trigger or a result event
type TranscriptionMessage struct {
	VideoID   string `json:"videoId"`
	SourceURL string `json:"sourceUrl,omitempty"`
	Language  string `json:"language,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewTranscriptionMessage creates a trigger message
func NewTranscriptionMessage(videoID string, sourceURL string, lang string) *TranscriptionMessage {
	return &TranscriptionMessage{VideoID: videoID, SourceURL: sourceURL, Language: lang}
}
