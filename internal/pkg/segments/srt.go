package segments

import (
	"strings"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
)

// FromSRT parses SubRip data into segments.
// Blocks are separated by a blank line: index line, 'start --> end'
// line with comma before milliseconds, then text lines joined with spaces.
// Blocks with malformed timestamps are dropped.
func FromSRT(data string) []Segment {
	res := make([]Segment, 0)
	for _, block := range strings.Split(normalizeNewlines(data), "\n\n") {
		lines := strings.Split(block, "\n")
		tlInd := timeLineIndex(lines)
		if tlInd < 0 {
			continue
		}
		from, to, err := parseTimeLine(lines[tlInd])
		if err != nil {
			cmdapp.Log.Warnf("Dropping srt block: %v", err)
			continue
		}
		text := make([]string, 0, len(lines)-tlInd-1)
		for _, l := range lines[tlInd+1:] {
			l = strings.TrimSpace(l)
			if l != "" {
				text = append(text, l)
			}
		}
		res = append(res, Segment{Start: from, End: to, Text: strings.Join(text, " ")})
	}
	return finish(res)
}

func timeLineIndex(lines []string) int {
	for i, l := range lines {
		if strings.Contains(l, "-->") {
			return i
		}
	}
	return -1
}

func normalizeNewlines(data string) string {
	return strings.ReplaceAll(data, "\r\n", "\n")
}
