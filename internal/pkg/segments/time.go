package segments

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseTime parses 'HH:MM:SS.mmm' or 'MM:SS.mmm' into seconds.
// SubRip style 'HH:MM:SS,mmm' is accepted as well.
func parseTime(s string) (float64, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, errors.Errorf("wrong time '%s'", s)
	}
	res := 0.0
	for i, p := range parts[:len(parts)-1] {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, errors.Errorf("wrong time part '%s' in '%s'", parts[i], s)
		}
		res = res*60 + float64(v)
	}
	sec, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || sec < 0 {
		return 0, errors.Errorf("wrong seconds '%s' in '%s'", parts[len(parts)-1], s)
	}
	return res*60 + sec, nil
}

// parseTimeLine parses 'start --> end' into two timestamps
func parseTimeLine(line string) (float64, float64, error) {
	i := strings.Index(line, "-->")
	if i < 0 {
		return 0, 0, errors.Errorf("no '-->' in '%s'", line)
	}
	from, err := parseTime(line[:i])
	if err != nil {
		return 0, 0, err
	}
	toStr := strings.TrimSpace(line[i+3:])
	// WebVTT allows cue settings after the end time
	if si := strings.IndexAny(toStr, " \t"); si > 0 {
		toStr = toStr[:si]
	}
	to, err := parseTime(toStr)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}
