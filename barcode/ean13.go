// Package barcode computes the EAN-13 bar geometry and digit-string
// layout that an external drawing collaborator turns into PDF line
// and text operators; this package draws nothing itself.
package barcode

import (
	"fmt"
)

// Bar is one vertical stroke of the symbol, in millimetres relative
// to the barcode's origin.
type Bar struct {
	X      float64
	Y      float64
	Height float64
}

// DigitLabel is one human-readable digit placed below the bars.
type DigitLabel struct {
	Digit byte
	X     float64
	Y     float64
}

// Symbol is the full geometry of one EAN-13 barcode.
type Symbol struct {
	Bars   []Bar
	Labels []DigitLabel
}

// lPatterns selects, per first digit, which of the left six digits
// are drawn with the L-parity table (false) vs the mirrored G-parity
// table (true). lValues holds the 7-bit L-parity bit pattern for each
// digit 0-9; the G pattern is its 7-bit complement, reversed.
var lPatterns = [10]string{
	"LLLLLL", "LLGLGG", "LLGGLG", "LLGGGL", "LGLLGG",
	"LGGLLG", "LGGGLL", "LGLGLG", "LGLGGL", "LGGLGL",
}

var lValues = [10]uint8{
	0x0D, 0x19, 0x13, 0x3D, 0x23, 0x31, 0x2F, 0x3B, 0x37, 0x0B,
}

const (
	longBarHeight          = 22.85
	barWidth               = 0.33
	smallBarsBottomVSpace  = 1.5
	textBottomVSpace       = 2.33
	leftMargin             = 1.6
)

// Checksum computes the EAN-13 check digit for the first 12 digits of
// code (digits are their ASCII '0'..'9' values), using alternating
// weights 1,3 (spec boundary scenario 2, addEAN13 in the original
// producer).
func Checksum(digits12 string) (byte, error) {
	if len(digits12) != 12 {
		return 0, fmt.Errorf("barcode: EAN-13 checksum needs 12 digits, got %d", len(digits12))
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := digits12[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("barcode: non-digit byte %q at position %d", d, i)
		}
		weight := 1
		if i%2 == 1 {
			weight = 3
		}
		sum += int(d-'0') * weight
	}
	return byte((10-(sum%10))%10) + '0', nil
}

// EncodeEAN13 lays out the 95-bar EAN-13 symbol for a 13-digit code at
// origin (x0, y0). If the 13th digit does not match the computed
// checksum, the computed checksum is substituted (mirroring the
// original producer's recovery policy) unless validateChecksum is
// true, in which case a mismatch is an error.
func EncodeEAN13(x0, y0 float64, digits string, validateChecksum bool) (*Symbol, error) {
	if len(digits) != 13 {
		return nil, fmt.Errorf("barcode: EAN-13 needs 13 digits, got %d", len(digits))
	}
	for i := 0; i < 13; i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return nil, fmt.Errorf("barcode: non-digit byte %q at position %d", digits[i], i)
		}
	}

	want, err := Checksum(digits[:12])
	if err != nil {
		return nil, err
	}
	if validateChecksum && digits[12] != want {
		return nil, fmt.Errorf("barcode: checksum mismatch: got %c, want %c", digits[12], want)
	}
	digits = digits[:12] + string(want)

	s := &Symbol{}
	x := x0 + leftMargin + barWidth/2

	// start marker: 101
	yLong := y0 + textBottomVSpace
	for i := 0; i < 3; i++ {
		if i%2 == 0 {
			s.Bars = append(s.Bars, Bar{X: x, Y: yLong, Height: longBarHeight})
		}
		x += barWidth
	}

	// left half, digits 1..6 (0-indexed 1..6), parity per digits[0]
	hShort := longBarHeight - smallBarsBottomVSpace
	yShort := y0 + textBottomVSpace + smallBarsBottomVSpace
	pattern := lPatterns[digits[0]-'0']
	for i := 0; i < 6; i++ {
		d := digits[1+i] - '0'
		bits := lValues[d]
		order := [7]int{0, 1, 2, 3, 4, 5, 6}
		if pattern[i] == 'G' {
			bits ^= 0x7F
			order = [7]int{6, 5, 4, 3, 2, 1, 0}
		}
		for _, j := range order {
			if (bits>>(6-uint(j)))&1 == 1 {
				s.Bars = append(s.Bars, Bar{X: x, Y: yShort, Height: hShort})
			}
			x += barWidth
		}
	}

	// middle marker: 01010
	for i := 0; i < 5; i++ {
		if i%2 == 1 {
			s.Bars = append(s.Bars, Bar{X: x, Y: yLong, Height: longBarHeight})
		}
		x += barWidth
	}

	// right half, digits 7..12, always R parity (complement of L)
	for i := 0; i < 6; i++ {
		d := digits[7+i] - '0'
		value := lValues[d] ^ 0x7F
		for j := 0; j < 7; j++ {
			if (value>>(6-uint(j)))&1 == 1 {
				s.Bars = append(s.Bars, Bar{X: x, Y: yShort, Height: hShort})
			}
			x += barWidth
		}
	}

	// end marker: 101
	for i := 0; i < 3; i++ {
		if i%2 == 0 {
			s.Bars = append(s.Bars, Bar{X: x, Y: yLong, Height: longBarHeight})
		}
		x += barWidth
	}

	s.Labels = append(s.Labels, DigitLabel{Digit: digits[0], X: x0, Y: y0})
	lx := x0 + leftMargin + 1 + 3*barWidth
	for i := 1; i < 13; i++ {
		s.Labels = append(s.Labels, DigitLabel{Digit: digits[i], X: lx, Y: y0})
		lx += 7 * barWidth
		if i == 6 {
			lx += 2 * barWidth
		}
	}

	return s, nil
}
