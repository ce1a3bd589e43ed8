package segments

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromUtterances(t *testing.T) {
	c := 0.9
	segs := FromUtterances([]Utterance{
		{Start: 0, End: 2, Text: "Hello", Speaker: "A", Confidence: &c},
		{Start: 2, End: 4, Text: "Hi", Speaker: "B"},
	})
	assert.Equal(t, 2, len(segs))
	assert.Equal(t, "A", segs[0].Speaker)
	assert.Equal(t, "B", segs[1].Speaker)
	assert.Equal(t, &c, segs[0].Confidence)
}

func TestFromUtterances_SortsAndDrops(t *testing.T) {
	segs := FromUtterances([]Utterance{
		{Start: 5, End: 6, Text: "second"},
		{Start: 2, End: 3, Text: " "},
		{Start: 1, End: 2, Text: "first"},
	})
	assert.Equal(t, 2, len(segs))
	assert.Equal(t, "first", segs[0].Text)
	assert.Equal(t, "second", segs[1].Text)
}

func TestFromWords_Chunks(t *testing.T) {
	words := makeWords(35)
	segs := FromWords(words, 15)
	assert.Equal(t, 3, len(segs))
	assert.Equal(t, 0.0, segs[0].Start)
	assert.Equal(t, 15.0, segs[1].Start)
	assert.Equal(t, 30.0, segs[2].Start)
	assert.Equal(t, 35.0, segs[2].End)
}

func TestFromWords_DefaultChunkSize(t *testing.T) {
	segs := FromWords(makeWords(16), 0)
	assert.Equal(t, 2, len(segs))
}

func TestFromWords_JoinsText(t *testing.T) {
	segs := FromWords(makeWords(2), 15)
	assert.Equal(t, 1, len(segs))
	assert.Equal(t, "w0 w1", segs[0].Text)
}

func TestFromWords_Confidence(t *testing.T) {
	c1, c2 := 1.0, 0.5
	words := []Word{{Text: "a", Start: 0, End: 1, Confidence: &c1},
		{Text: "b", Start: 1, End: 2, Confidence: &c2}}
	segs := FromWords(words, 15)
	assert.NotNil(t, segs[0].Confidence)
	assert.InDelta(t, 0.75, *segs[0].Confidence, 0.0001)
}

func TestFromWords_Empty(t *testing.T) {
	assert.Nil(t, FromWords(nil, 15))
}

func makeWords(n int) []Word {
	res := make([]Word, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, Word{Text: fmt.Sprintf("w%d", i), Start: float64(i), End: float64(i + 1)})
	}
	return res
}
