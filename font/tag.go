package font

import "strings"

// subsetPrefix is the fixed four-letter marker prepended to every
// subset BaseFont name, ahead of the two letters that encode the
// font's registration id.
const subsetPrefix = "PAPF"

// MaxFonts is the highest number of fonts a Registry holds, the
// pre-registered Helvetica included: ids run 0..624, reserving headroom below
// the 676-slot (26²) capacity of the two-letter id encoding.
const MaxFonts = 625

// SubsetTag returns the six-letter BaseFont prefix for font id,
// "PAPF" followed by the id written in base 26 using 'A'..'Z'.
func SubsetTag(id int) string {
	var b [2]byte
	b[0] = byte('A' + (id/26)%26)
	b[1] = byte('A' + id%26)
	return subsetPrefix + string(b[:])
}

// IsValidTag reports whether s is a well-formed six-letter subset
// tag: exactly 6 uppercase ASCII letters.
func IsValidTag(s string) bool {
	if len(s) != 6 {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return r < 'A' || r > 'Z'
	}) == -1
}
