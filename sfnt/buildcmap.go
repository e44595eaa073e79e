package sfnt

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"golang.org/x/exp/slices"
)

// buildCmap synthesizes a single format-4 cmap subtable covering the
// subset's BMP code points (those above U+FFFF are left out, since a
// format-4 subtable cannot address them), grouping contiguous runes
// whose new GIDs are also contiguous into one run/idDelta segment.
func buildCmap(runeToNewGID map[rune]uint16) []byte {
	runes := make([]int, 0, len(runeToNewGID))
	for r := range runeToNewGID {
		if r > 0xFFFF {
			continue
		}
		runes = append(runes, int(r))
	}
	slices.Sort(runes)

	type run struct {
		start, end int
		firstGID   uint16
	}
	var runs []run
	for _, c := range runes {
		gid := runeToNewGID[rune(c)]
		if len(runs) > 0 {
			last := &runs[len(runs)-1]
			if last.end == c-1 && int(gid) == int(last.firstGID)+(c-last.start) {
				last.end = c
				continue
			}
		}
		runs = append(runs, run{start: c, end: c, firstGID: gid})
	}

	segCount := len(runs) + 1
	floorLog2 := bits.Len(uint(segCount)) - 1
	searchRange := uint16(2) << uint(floorLog2)
	entrySelector := uint16(floorLog2)
	rangeShift := uint16(segCount*2) - searchRange

	endCode := make([]uint16, segCount)
	startCode := make([]uint16, segCount)
	idDelta := make([]uint16, segCount)
	idRangeOffset := make([]uint16, segCount)
	for i, rn := range runs {
		endCode[i] = uint16(rn.end)
		startCode[i] = uint16(rn.start)
		idDelta[i] = uint16(int(rn.firstGID) - rn.start)
	}
	endCode[segCount-1] = 0xFFFF
	startCode[segCount-1] = 0xFFFF
	idDelta[segCount-1] = 1

	var body bytes.Buffer
	write16 := func(v uint16) { binary.Write(&body, binary.BigEndian, v) }

	write16(4) // format
	lengthPos := body.Len()
	write16(0) // length placeholder
	write16(0) // language
	write16(uint16(segCount * 2))
	write16(searchRange)
	write16(entrySelector)
	write16(rangeShift)
	for _, v := range endCode {
		write16(v)
	}
	write16(0) // reservedPad
	for _, v := range startCode {
		write16(v)
	}
	for _, v := range idDelta {
		write16(v)
	}
	for _, v := range idRangeOffset {
		write16(v)
	}

	out := body.Bytes()
	binary.BigEndian.PutUint16(out[lengthPos:lengthPos+2], uint16(len(out)))

	// Wrap in the cmap table header: one encoding record (3,1) pointing
	// at the subtable that immediately follows it.
	var table bytes.Buffer
	binary.Write(&table, binary.BigEndian, uint16(0)) // version
	binary.Write(&table, binary.BigEndian, uint16(1)) // numTables
	binary.Write(&table, binary.BigEndian, uint16(3)) // platformID
	binary.Write(&table, binary.BigEndian, uint16(1)) // encodingID
	binary.Write(&table, binary.BigEndian, uint32(12))
	table.Write(out)
	return table.Bytes()
}
