package sfnt

// os2Table holds the fields of 'OS/2' this package needs. The table
// is optional in the source font; when absent, Parse fills in the
// spec-mandated defaults (sCapHeight := ascent, usWeightClass := 500).
type os2Table struct {
	UsWeightClass uint16
	SCapHeight    int16
	HasCapHeight  bool
}

func parseOS2(data []byte) (*os2Table, error) {
	r := newByteReader(data)

	version, err := r.u16()
	if err != nil {
		return nil, err
	}
	if _, err := r.bytes(2); err != nil { // xAvgCharWidth
		return nil, err
	}
	weightClass, err := r.u16()
	if err != nil {
		return nil, err
	}

	t := &os2Table{UsWeightClass: weightClass}
	if version < 2 {
		return t, nil
	}

	// Skip from after usWeightClass to sCapHeight. Per the OS/2 table
	// layout this spans: widthClass(2) fsType(2) ySubscriptXSize(2)
	// ySubscriptYSize(2) ySubscriptXOffset(2) ySubscriptYOffset(2)
	// ySuperscriptXSize(2) ySuperscriptYSize(2) ySuperscriptXOffset(2)
	// ySuperscriptYOffset(2) yStrikeoutSize(2) yStrikeoutPosition(2)
	// sFamilyClass(2) panose(10) ulUnicodeRange1-4(16) achVendID(4)
	// fsSelection(2) usFirstCharIndex(2) usLastCharIndex(2)
	// sTypoAscender(2) sTypoDescender(2) sTypoLineGap(2)
	// usWinAscent(2) usWinDescent(2) ulCodePageRange1-2(8)
	// sxHeight(2) -- then sCapHeight.
	skip := 2 + 2 + 2 + 2 + 2 + 2 + 2 + 2 + 2 + 2 + 2 + 2 + 2 + 10 + 16 + 4 +
		2 + 2 + 2 + 2 + 2 + 2 + 2 + 2 + 8 + 2
	if _, err := r.bytes(skip); err != nil {
		return t, nil // truncated optional table: fall back to defaults
	}
	capHeight, err := r.i16()
	if err != nil {
		return t, nil
	}
	t.SCapHeight = capHeight
	t.HasCapHeight = true
	return t, nil
}
