package display

import (
	"strings"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// faces are tried largest first. FreeMono 9pt holds 11 glyphs on the default
// layout; Proggy (6 px pitch) takes two-digit and negative readings.
var faces = []*tinyfont.Font{
	&freemono.Regular9pt7b,
	&proggy.TinySZ8pt7b,
}

// layout picks the face s is drawn in within width pixels. A line too wide
// for every face drops its trailing '%' first and is cut with ".." only
// when that is still not enough.
func layout(s string, width int16) (*tinyfont.Font, string) {
	for _, f := range faces {
		if fits(f, s, width) {
			return f, s
		}
	}
	small := faces[len(faces)-1]
	if t := strings.TrimSuffix(s, "%"); fits(small, t, width) {
		return small, t
	}
	adv := int16(small.GetGlyph('0').Info().XAdvance)
	n := 0
	if width > 0 {
		n = int(width / adv)
	}
	return small, truncate(s, n)
}

func fits(f *tinyfont.Font, s string, width int16) bool {
	if width < 0 {
		return false
	}
	_, outbox := tinyfont.LineWidth(f, s)
	return outbox <= uint32(width)
}

// capHeight is the distance from the baseline to the top of a digit.
func capHeight(f *tinyfont.Font) int16 {
	return -int16(f.GetGlyph('0').Info().YOffset)
}

// truncate limits a string to maxLen characters, adding ".." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 2 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
