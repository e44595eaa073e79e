package sfnt

import "fmt"

// encodingRecord is one entry of the 'cmap' header's encoding-record
// array.
type encodingRecord struct {
	PlatformID     uint16
	EncodingID     uint16
	SubtableOffset uint32
}

// selectCmapSubtable finds the encoding record to use for Unicode
// lookups, in preference order:
//  1. platform 3, encoding 10, format 12 (UCS-4)
//  2. platform 3, encoding 1, format 4 (BMP)
//  3. platform 0, any encoding, format 4
//
// Formats other than 4 and 12 are ignored even if the platform/encoding
// would otherwise match.
func selectCmapSubtable(data []byte) (offset uint32, format uint16, err error) {
	r := newByteReader(data)
	if _, err := r.u16(); err != nil { // table version
		return 0, 0, err
	}
	numTables, err := r.u16()
	if err != nil {
		return 0, 0, err
	}
	if numTables > 100 {
		return 0, 0, badTable("cmap", fmt.Errorf("too many encoding records: %d", numTables))
	}

	records := make([]encodingRecord, numTables)
	for i := range records {
		plat, err := r.u16()
		if err != nil {
			return 0, 0, err
		}
		enc, err := r.u16()
		if err != nil {
			return 0, 0, err
		}
		off, err := r.u32()
		if err != nil {
			return 0, 0, err
		}
		records[i] = encodingRecord{plat, enc, off}
	}

	formatAt := func(off uint32) (uint16, error) {
		if int(off)+2 > len(data) {
			return 0, corruptOffset(fmt.Errorf("cmap subtable offset %d out of range", off))
		}
		fr := newByteReader(data)
		if err := fr.seek(int(off)); err != nil {
			return 0, err
		}
		return fr.u16()
	}

	var best12, best4BMP, best4Mac *encodingRecord
	for i := range records {
		rec := &records[i]
		f, err := formatAt(rec.SubtableOffset)
		if err != nil {
			return 0, 0, err
		}
		switch {
		case rec.PlatformID == 3 && rec.EncodingID == 10 && f == 12:
			best12 = rec
		case rec.PlatformID == 3 && rec.EncodingID == 1 && f == 4:
			best4BMP = rec
		case rec.PlatformID == 0 && f == 4:
			best4Mac = rec
		}
	}

	switch {
	case best12 != nil:
		return best12.SubtableOffset, 12, nil
	case best4BMP != nil:
		return best4BMP.SubtableOffset, 4, nil
	case best4Mac != nil:
		return best4Mac.SubtableOffset, 4, nil
	default:
		return 0, 0, unsupportedFont(fmt.Errorf("no usable cmap subtable"))
	}
}

// parseCmap decodes the selected subtable into a rune -> GID map.
func parseCmap(data []byte) (map[rune]uint16, error) {
	offset, format, err := selectCmapSubtable(data)
	if err != nil {
		return nil, err
	}
	switch format {
	case 4:
		return parseCmapFormat4(data, offset)
	case 12:
		return parseCmapFormat12(data, offset)
	default:
		// selectCmapSubtable never returns any other format.
		return nil, badTable("cmap", fmt.Errorf("unsupported format %d", format))
	}
}

func parseCmapFormat4(data []byte, offset uint32) (map[rune]uint16, error) {
	r := newByteReader(data)
	if err := r.seek(int(offset)); err != nil {
		return nil, err
	}
	if _, err := r.u16(); err != nil { // format
		return nil, err
	}
	if _, err := r.u16(); err != nil { // length
		return nil, err
	}
	if _, err := r.u16(); err != nil { // language
		return nil, err
	}
	segCountX2, err := r.u16()
	if err != nil {
		return nil, err
	}
	if segCountX2%2 != 0 {
		return nil, badTable("cmap", fmt.Errorf("odd segCountX2"))
	}
	segCount := int(segCountX2 / 2)
	if segCount > 100_000 {
		return nil, badTable("cmap", fmt.Errorf("too many segments: %d", segCount))
	}
	if _, err := r.bytes(6); err != nil { // searchRange, entrySelector, rangeShift
		return nil, err
	}

	endCode := make([]uint16, segCount)
	for i := range endCode {
		if endCode[i], err = r.u16(); err != nil {
			return nil, err
		}
	}
	reservedPad, err := r.u16()
	if err != nil {
		return nil, err
	}
	if reservedPad != 0 {
		return nil, badTable("cmap", fmt.Errorf("reservedPad != 0"))
	}
	startCode := make([]uint16, segCount)
	for i := range startCode {
		if startCode[i], err = r.u16(); err != nil {
			return nil, err
		}
	}
	idDelta := make([]uint16, segCount)
	for i := range idDelta {
		if idDelta[i], err = r.u16(); err != nil {
			return nil, err
		}
	}
	idRangeOffsetPos := r.tell()
	idRangeOffset := make([]uint16, segCount)
	for i := range idRangeOffset {
		if idRangeOffset[i], err = r.u16(); err != nil {
			return nil, err
		}
	}

	result := make(map[rune]uint16)
	total := 0
	for k := 0; k < segCount; k++ {
		a := int(startCode[k])
		b := int(endCode[k])
		if b < a {
			return nil, badTable("cmap", fmt.Errorf("segment %d corrupted", k))
		}
		total += b - a + 1
		if total > 70_000 {
			return nil, badTable("cmap", fmt.Errorf("too many mappings"))
		}

		if idRangeOffset[k] == 0 {
			delta := idDelta[k]
			for c := a; c <= b; c++ {
				gid := uint16(uint16(c) + delta)
				if gid == 0 {
					continue
				}
				result[rune(c)] = gid
			}
			continue
		}

		glyphArrayPos := idRangeOffsetPos + 2*k + int(idRangeOffset[k])
		for c := a; c <= b; c++ {
			glyphPos := glyphArrayPos + 2*(c-a)
			if glyphPos+2 > len(data) {
				return nil, corruptOffset(fmt.Errorf("cmap glyphIdArray read out of range"))
			}
			gr := newByteReader(data)
			if err := gr.seek(glyphPos); err != nil {
				return nil, err
			}
			raw, err := gr.u16()
			if err != nil {
				return nil, err
			}
			if raw == 0 {
				continue
			}
			gid := uint16(int(raw) + int(idDelta[k]))
			if gid == 0 {
				continue
			}
			result[rune(c)] = gid
		}
	}
	return result, nil
}

func parseCmapFormat12(data []byte, offset uint32) (map[rune]uint16, error) {
	r := newByteReader(data)
	if err := r.seek(int(offset)); err != nil {
		return nil, err
	}
	if _, err := r.u16(); err != nil { // format
		return nil, err
	}
	if _, err := r.u16(); err != nil { // reserved
		return nil, err
	}
	if _, err := r.u32(); err != nil { // length
		return nil, err
	}
	if _, err := r.u32(); err != nil { // language
		return nil, err
	}
	numGroups, err := r.u32()
	if err != nil {
		return nil, err
	}
	if numGroups > 200_000 {
		return nil, badTable("cmap", fmt.Errorf("too many groups: %d", numGroups))
	}

	result := make(map[rune]uint16)
	total := 0
	for i := uint32(0); i < numGroups; i++ {
		start, err := r.u32()
		if err != nil {
			return nil, err
		}
		end, err := r.u32()
		if err != nil {
			return nil, err
		}
		startGID, err := r.u32()
		if err != nil {
			return nil, err
		}
		if end < start || end > 0x10FFFF {
			return nil, badTable("cmap", fmt.Errorf("invalid character code range"))
		}
		total += int(end-start) + 1
		if total > 500_000 {
			return nil, badTable("cmap", fmt.Errorf("too many mappings"))
		}
		gid := startGID
		for c := start; c <= end; c++ {
			result[rune(c)] = uint16(gid)
			gid++
		}
	}
	return result, nil
}
