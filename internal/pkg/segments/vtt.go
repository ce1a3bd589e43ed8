package segments

import (
	"bufio"
	"strings"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
)

// FromWebVTT parses WebVTT data into segments.
// A line containing '-->' opens a new cue, following non blank lines
// accumulate into its text, a blank line closes it. Cues with
// malformed timestamps are dropped, the rest of the file survives.
func FromWebVTT(data string) []Segment {
	res := make([]Segment, 0)
	var cur *Segment
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.Contains(line, "-->") {
			from, to, err := parseTimeLine(line)
			if err != nil {
				cmdapp.Log.Warnf("Dropping webvtt cue: %v", err)
				cur = nil
				continue
			}
			res = append(res, Segment{Start: from, End: to})
			cur = &res[len(res)-1]
			continue
		}
		if line == "" {
			cur = nil
			continue
		}
		if cur == nil || skipWebVTTLine(line) {
			continue
		}
		if cur.Text != "" {
			cur.Text += " "
		}
		cur.Text += line
	}
	return finish(res)
}

func skipWebVTTLine(line string) bool {
	return strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE")
}
