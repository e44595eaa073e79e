package sfnt

import "fmt"

const (
	headMagic   = 0x5F0F3CF5
	versionHead = fixed(0x00010000)
)

// headTable holds the fields of 'head' this package needs, already
// read from the raw table bytes.
type headTable struct {
	UnitsPerEm       uint16
	XMin, YMin       int16
	XMax, YMax       int16
	IndexToLocFormat int16 // 0: short (u16, x2); 1: long (u32)
}

func parseHead(data []byte) (*headTable, error) {
	r := newByteReader(data)

	version, err := r.fixed()
	if err != nil {
		return nil, err
	}
	if version != versionHead {
		return nil, badTable("head", fmt.Errorf("unsupported version %#x", uint32(version)))
	}

	if _, err := r.bytes(4); err != nil { // fontRevision
		return nil, err
	}
	checkSumAdjOffset := r.tell()
	_ = checkSumAdjOffset
	if _, err := r.bytes(4); err != nil { // checkSumAdjustment
		return nil, err
	}
	magic, err := r.u32()
	if err != nil {
		return nil, err
	}
	if magic != headMagic {
		return nil, badTable("head", fmt.Errorf("bad magic number %#x", magic))
	}
	if _, err := r.bytes(2); err != nil { // flags
		return nil, err
	}
	unitsPerEm, err := r.u16()
	if err != nil {
		return nil, err
	}
	if _, err := r.bytes(16); err != nil { // created, modified
		return nil, err
	}
	xMin, err := r.i16()
	if err != nil {
		return nil, err
	}
	yMin, err := r.i16()
	if err != nil {
		return nil, err
	}
	xMax, err := r.i16()
	if err != nil {
		return nil, err
	}
	yMax, err := r.i16()
	if err != nil {
		return nil, err
	}
	if _, err := r.bytes(2+2+2); err != nil { // macStyle, lowestRecPPEM, fontDirectionHint
		return nil, err
	}
	indexToLocFormat, err := r.i16()
	if err != nil {
		return nil, err
	}

	return &headTable{
		UnitsPerEm:       unitsPerEm,
		XMin:             xMin,
		YMin:             yMin,
		XMax:             xMax,
		YMax:             yMax,
		IndexToLocFormat: indexToLocFormat,
	}, nil
}

// emScale converts a value in this font's design units to the PDF
// 1000-unit em, rounding to the nearest integer.
func (h *headTable) emScale(v int) int {
	return roundDiv(v*1000, int(h.UnitsPerEm))
}

func roundDiv(num, den int) int {
	if den == 0 {
		return 0
	}
	if (num < 0) != (den < 0) {
		return -roundDiv(-num, den)
	}
	return (num + den/2) / den
}
