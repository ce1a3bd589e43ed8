package segments

import (
	"sort"
	"strings"
)

// fallback segment span for inputs with no timing information
const unknownDuration = float64(3600)

// Segment is the canonical time-bounded span of transcript text.
// All supported input formats converge to this shape.
type Segment struct {
	Start      float64  `bson:"start" json:"startTime"`
	End        float64  `bson:"end" json:"endTime"`
	Text       string   `bson:"text" json:"text"`
	Speaker    string   `bson:"speaker,omitempty" json:"speakerName,omitempty"`
	Confidence *float64 `bson:"confidence,omitempty" json:"confidence,omitempty"`
}

// FromPlainText wraps the whole text into a single segment.
// The segment spans [0, duration] or a fixed fallback when duration is unknown.
func FromPlainText(text string, duration float64) []Segment {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if duration <= 0 {
		duration = unknownDuration
	}
	return []Segment{{Start: 0, End: duration, Text: text}}
}

// Flatten joins segment texts into the full transcript text
func Flatten(segs []Segment) string {
	texts := make([]string, 0, len(segs))
	for _, s := range segs {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, " ")
}

// MeanConfidence returns the mean of segment confidences, nil if no segment carries one
func MeanConfidence(segs []Segment) *float64 {
	sum, n := 0.0, 0
	for _, s := range segs {
		if s.Confidence != nil {
			sum += *s.Confidence
			n++
		}
	}
	if n == 0 {
		return nil
	}
	res := sum / float64(n)
	return &res
}

// finish drops empty segments and restores the start time ordering invariant
func finish(segs []Segment) []Segment {
	res := make([]Segment, 0, len(segs))
	for _, s := range segs {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		if s.End < s.Start {
			s.End = s.Start
		}
		res = append(res, s)
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Start < res[j].Start })
	if len(res) == 0 {
		return nil
	}
	return res
}
