package sfnt

// postTable holds the fields of 'post' this package needs.
type postTable struct {
	ItalicAngle  int32 // 16.16 fixed
	IsFixedPitch bool
}

func parsePost(data []byte) (*postTable, error) {
	r := newByteReader(data)
	if _, err := r.bytes(4); err != nil { // version
		return nil, err
	}
	italicAngle, err := r.i32()
	if err != nil {
		return nil, err
	}
	if _, err := r.bytes(4); err != nil { // underlinePosition, underlineThickness
		return nil, err
	}
	isFixedPitch, err := r.u32()
	if err != nil {
		return nil, err
	}
	return &postTable{ItalicAngle: italicAngle, IsFixedPitch: isFixedPitch != 0}, nil
}

// minimalPost is the replacement format-3 'post' table written for
// every subset: version 3.0, no names array, all remaining fields
// zeroed.
func minimalPost() []byte {
	buf := make([]byte, 32)
	buf[0], buf[1], buf[2], buf[3] = 0x00, 0x03, 0x00, 0x00
	return buf
}
