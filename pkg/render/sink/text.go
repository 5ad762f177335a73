package sink

import (
	"bytes"
	"encoding/xml"
	"strings"
)

const (
	charWidthRatio = 0.55
	lineHeight     = 1.2
	textPadding    = 0.9
	titleRatio     = 0.045
)

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// wrapLines breaks s into lines that fit width at fontSize, using an
// average glyph width. Words longer than a line are kept whole.
func wrapLines(s string, width, fontSize float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	maxChars := max(1, int(width*textPadding/(fontSize*charWidthRatio)))

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > maxChars {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
