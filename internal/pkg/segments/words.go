package segments

import "strings"

// default word count of one synthetic segment made from a word list
const defaultChunkSize = 15

type (
	// Word is a word level timing entry from a provider result
	Word struct {
		Text       string
		Start      float64
		End        float64
		Confidence *float64
	}

	// Utterance is a speaker segmented entry from a provider result
	Utterance struct {
		Text       string
		Start      float64
		End        float64
		Speaker    string
		Confidence *float64
	}
)

// FromUtterances maps provider utterances directly to segments
func FromUtterances(utts []Utterance) []Segment {
	res := make([]Segment, 0, len(utts))
	for _, u := range utts {
		res = append(res, Segment{Start: u.Start, End: u.End, Text: u.Text,
			Speaker: u.Speaker, Confidence: u.Confidence})
	}
	return finish(res)
}

// FromWords groups word level timings into fixed size synthetic segments,
// so a whole transcript does not end up as one segment.
// chunkSize <= 0 selects the default of 15 words.
func FromWords(words []Word, chunkSize int) []Segment {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	res := make([]Segment, 0, len(words)/chunkSize+1)
	for from := 0; from < len(words); from += chunkSize {
		to := from + chunkSize
		if to > len(words) {
			to = len(words)
		}
		res = append(res, makeChunk(words[from:to]))
	}
	return finish(res)
}

func makeChunk(words []Word) Segment {
	texts := make([]string, 0, len(words))
	sum, n := 0.0, 0
	for _, w := range words {
		texts = append(texts, strings.TrimSpace(w.Text))
		if w.Confidence != nil {
			sum += *w.Confidence
			n++
		}
	}
	res := Segment{Start: words[0].Start, End: words[len(words)-1].End,
		Text: strings.Join(texts, " ")}
	if n > 0 {
		c := sum / float64(n)
		res.Confidence = &c
	}
	return res
}
