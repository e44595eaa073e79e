package document

import "testing"

func TestFnumRoundsThroughSubPixelPrecision(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{72, "72.00"},
		{700, "700.00"},
		{12.3333333, "12.33"},
		{0.015625, "0.02"}, // 1/64, the smallest representable 26.6 step
	}
	for _, c := range cases {
		if got := fnum(c.in); got != c.want {
			t.Errorf("fnum(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEncodeLiteralEscapesSpecialChars(t *testing.T) {
	got := encodeLiteral(`a(b)c\d`)
	want := `(a\(b\)c\\d)`
	if got != want {
		t.Errorf("encodeLiteral = %q, want %q", got, want)
	}
}

func TestEncodeIdentityHex(t *testing.T) {
	got := encodeIdentityHex([]rune{'A', 0x00C4})
	want := "<004100C4>"
	if got != want {
		t.Errorf("encodeIdentityHex = %q, want %q", got, want)
	}
}

func TestWidthOfUnknownFontErrors(t *testing.T) {
	doc := New("Untitled")
	page := doc.AddPage(nil)
	if _, err := page.WidthOf("NoSuchFont", 12, "x"); err == nil {
		t.Fatal("expected an error for an unregistered font")
	}
}

func TestShowTextUnknownFontErrors(t *testing.T) {
	doc := New("Untitled")
	page := doc.AddPage(nil)
	if err := page.ShowText("NoSuchFont", 12, 0, 0, "x"); err == nil {
		t.Fatal("expected an error for an unregistered font")
	}
}
