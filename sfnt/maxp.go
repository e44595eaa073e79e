package sfnt

// maxpTable holds the fields of 'maxp' this package needs.
type maxpTable struct {
	NumGlyphs uint16
}

func parseMaxp(data []byte) (*maxpTable, error) {
	r := newByteReader(data)
	if _, err := r.bytes(4); err != nil { // version
		return nil, err
	}
	numGlyphs, err := r.u16()
	if err != nil {
		return nil, err
	}
	return &maxpTable{NumGlyphs: numGlyphs}, nil
}
