package segments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		v string
		e float64
	}{
		{v: "00:00:01.000", e: 1},
		{v: "00:01:01.500", e: 61.5},
		{v: "01:00:00.000", e: 3600},
		{v: "01:01.200", e: 61.2},
		{v: "00:00:02,000", e: 2},
		{v: " 00:00:03.500 ", e: 3.5},
	}
	for _, tc := range tests {
		res, err := parseTime(tc.v)
		assert.Nil(t, err, tc.v)
		assert.InDelta(t, tc.e, res, 0.0001, tc.v)
	}
}

func TestParseTime_Fails(t *testing.T) {
	for _, v := range []string{"", "olia", "1", "a:b:c", "00:00:01.000.000:10", "-1:10"} {
		_, err := parseTime(v)
		assert.NotNil(t, err, v)
	}
}

func TestParseTimeLine(t *testing.T) {
	from, to, err := parseTimeLine("00:00:01.000 --> 00:00:03.500")
	assert.Nil(t, err)
	assert.InDelta(t, 1.0, from, 0.0001)
	assert.InDelta(t, 3.5, to, 0.0001)
}

func TestParseTimeLine_CueSettings(t *testing.T) {
	from, to, err := parseTimeLine("00:00:01.000 --> 00:00:03.500 position:50% line:0")
	assert.Nil(t, err)
	assert.InDelta(t, 1.0, from, 0.0001)
	assert.InDelta(t, 3.5, to, 0.0001)
}

func TestParseTimeLine_Fails(t *testing.T) {
	for _, v := range []string{"", "00:00:01.000", "00:00:01.000 --> olia", "olia --> 00:00:01.000"} {
		_, _, err := parseTimeLine(v)
		assert.NotNil(t, err, v)
	}
}
