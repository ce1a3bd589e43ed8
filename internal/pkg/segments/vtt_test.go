package segments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromWebVTT(t *testing.T) {
	segs := FromWebVTT("00:00:01.000 --> 00:00:03.500\nHello world\n\n")
	assert.Equal(t, []Segment{{Start: 1, End: 3.5, Text: "Hello world"}}, segs)
}

func TestFromWebVTT_Header(t *testing.T) {
	data := "WEBVTT\n\nNOTE some comment\n\n00:00:01.000 --> 00:00:03.500\nHello\n\n" +
		"00:00:04.000 --> 00:00:06.000\nWorld\n"
	segs := FromWebVTT(data)
	assert.Equal(t, 2, len(segs))
	assert.Equal(t, "Hello", segs[0].Text)
	assert.Equal(t, "World", segs[1].Text)
}

func TestFromWebVTT_MultiLineText(t *testing.T) {
	segs := FromWebVTT("00:00:01.000 --> 00:00:03.500\nHello\nworld\n\n")
	assert.Equal(t, 1, len(segs))
	assert.Equal(t, "Hello world", segs[0].Text)
}

func TestFromWebVTT_NoHours(t *testing.T) {
	segs := FromWebVTT("01:01.000 --> 01:03.500\nolia\n")
	assert.Equal(t, 1, len(segs))
	assert.InDelta(t, 61.0, segs[0].Start, 0.0001)
	assert.InDelta(t, 63.5, segs[0].End, 0.0001)
}

func TestFromWebVTT_DropsEmptyCue(t *testing.T) {
	data := "00:00:01.000 --> 00:00:03.500\n\n00:00:04.000 --> 00:00:06.000\nolia\n"
	segs := FromWebVTT(data)
	assert.Equal(t, 1, len(segs))
	assert.Equal(t, "olia", segs[0].Text)
}

func TestFromWebVTT_DropsMalformedTimestamp(t *testing.T) {
	data := "xxx --> 00:00:03.500\ndropped\n\n00:00:04.000 --> 00:00:06.000\nkept\n"
	segs := FromWebVTT(data)
	assert.Equal(t, 1, len(segs))
	assert.Equal(t, "kept", segs[0].Text)
}

func TestFromWebVTT_SortsByStart(t *testing.T) {
	data := "00:00:10.000 --> 00:00:12.000\nsecond\n\n00:00:01.000 --> 00:00:03.000\nfirst\n"
	segs := FromWebVTT(data)
	assert.Equal(t, 2, len(segs))
	assert.Equal(t, "first", segs[0].Text)
	assert.Equal(t, "second", segs[1].Text)
}

func TestFromWebVTT_Empty(t *testing.T) {
	assert.Nil(t, FromWebVTT(""))
	assert.Nil(t, FromWebVTT("WEBVTT\n\n"))
}
