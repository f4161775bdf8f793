package cart

import (
	"strings"
	"unicode"
)

// cleanTitle processes a raw header title: null bytes become spaces,
// non-printable bytes become '?', and the result is trimmed.
func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))

	for _, b := range raw {
		r := rune(b)
		if r == 0 {
			r = ' '
		} else if !unicode.IsPrint(r) {
			r = '?'
		}
		runes = append(runes, r)
	}

	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(Untitled)"
	}

	return title
}
