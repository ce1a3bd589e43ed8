package segments

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type jsonSegment struct {
	Start    float64  `json:"start"`
	End      *float64 `json:"end"`
	Duration *float64 `json:"duration"`
	Text     string   `json:"text"`
	Speaker  string   `json:"speaker"`
}

// FromJSONArray parses a transcript exported as a JSON segment array.
// Elements carry 'start', 'text' and either 'end' or 'duration'
// (the youtube transcript export shape uses start + duration).
func FromJSONArray(data []byte) ([]Segment, error) {
	var jss []jsonSegment
	if err := json.Unmarshal(data, &jss); err != nil {
		return nil, errors.Wrap(err, "Can't parse segment array")
	}
	res := make([]Segment, 0, len(jss))
	for _, js := range jss {
		s := Segment{Start: js.Start, Text: js.Text, Speaker: js.Speaker}
		switch {
		case js.End != nil:
			s.End = *js.End
		case js.Duration != nil:
			s.End = js.Start + *js.Duration
		default:
			s.End = js.Start
		}
		res = append(res, s)
	}
	return finish(res), nil
}
