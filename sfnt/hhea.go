package sfnt

// hheaTable holds the fields of 'hhea' this package needs.
type hheaTable struct {
	Ascent           int16
	Descent          int16
	NumberOfHMetrics uint16
}

func parseHhea(data []byte) (*hheaTable, error) {
	r := newByteReader(data)

	if _, err := r.bytes(4); err != nil { // version
		return nil, err
	}
	ascent, err := r.i16()
	if err != nil {
		return nil, err
	}
	descent, err := r.i16()
	if err != nil {
		return nil, err
	}
	// lineGap, advanceWidthMax, minLeftSideBearing, minRightSideBearing,
	// xMaxExtent, caretSlopeRise, caretSlopeRun, caretOffset,
	// 4 reserved int16, metricDataFormat: 13 fields of 2 bytes.
	if _, err := r.bytes(2 * 13); err != nil {
		return nil, err
	}
	numberOfHMetrics, err := r.u16()
	if err != nil {
		return nil, err
	}

	return &hheaTable{Ascent: ascent, Descent: descent, NumberOfHMetrics: numberOfHMetrics}, nil
}
