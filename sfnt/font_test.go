package sfnt

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildTestFont assembles a minimal, self-consistent TrueType font
// with four glyphs: .notdef (empty), 'A' (simple), an accented glyph
// Ä (compound, references 'A'), and 'B' (simple) - deliberately out of
// rune order so glyph-closure and renumbering tests exercise
// something nontrivial.
func buildTestFont(t *testing.T) []byte {
	t.Helper()

	const unitsPerEm = 1000

	glyph0 := []byte{} // .notdef, zero contours
	glyphA := simpleGlyphBytes(0, 0, 500, 700)
	glyphAccent := compoundGlyphBytes(0, 0, 500, 900, 1 /* references gid1 = 'A' */)
	glyphB := simpleGlyphBytes(0, 0, 450, 700)

	// gid0=.notdef gid1='A' gid2=accent(->gid1) gid3='B'
	glyfTable := concatBytes(glyph0, glyphA, glyphAccent, glyphB)
	lens := []int{len(glyph0), len(glyphA), len(glyphAccent), len(glyphB)}
	locaTable := buildShortLoca(lens)

	hmtxTable := buildTestHmtx([]uint16{0, 500, 600, 450})

	cmapTable := buildFormat4CmapForTest(map[rune]uint16{
		'A':    1,
		0x00C4: 2, // Ä, compound glyph
		'B':    3,
	})

	headTable := buildTestHead(unitsPerEm, 0 /* short loca */)
	hheaTable := buildTestHhea(4)
	maxpTable := buildTestMaxp(4)

	tables := map[string][]byte{
		"head": headTable,
		"hhea": hheaTable,
		"maxp": maxpTable,
		"cmap": cmapTable,
		"glyf": glyfTable,
		"loca": locaTable,
		"hmtx": hmtxTable,
	}
	return buildTestSfnt(t, tables)
}

func simpleGlyphBytes(xMin, yMin, xMax, yMax int16) []byte {
	b := make([]byte, 14)
	binary.BigEndian.PutUint16(b[0:2], 1) // numberOfContours
	binary.BigEndian.PutUint16(b[2:4], uint16(xMin))
	binary.BigEndian.PutUint16(b[4:6], uint16(yMin))
	binary.BigEndian.PutUint16(b[6:8], uint16(xMax))
	binary.BigEndian.PutUint16(b[8:10], uint16(yMax))
	// 4 bytes of placeholder contour/instruction data; this package
	// never interprets a simple glyph's body.
	return b
}

func compoundGlyphBytes(xMin, yMin, xMax, yMax int16, componentGID uint16) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint16(b[0:2], 0xFFFF) // numberOfContours == -1
	binary.BigEndian.PutUint16(b[2:4], uint16(xMin))
	binary.BigEndian.PutUint16(b[4:6], uint16(yMin))
	binary.BigEndian.PutUint16(b[6:8], uint16(xMax))
	binary.BigEndian.PutUint16(b[8:10], uint16(yMax))
	binary.BigEndian.PutUint16(b[10:12], 0) // flags: no MORE_COMPONENTS, args are bytes
	binary.BigEndian.PutUint16(b[12:14], componentGID)
	// 2 bytes of packed xy-offset args (unused by this package).
	return b
}

func concatBytes(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func buildShortLoca(glyphLens []int) []byte {
	out := make([]byte, 2*(len(glyphLens)+1))
	var cur uint32
	for i, l := range glyphLens {
		binary.BigEndian.PutUint16(out[2*i:2*i+2], uint16(cur/2))
		cur += uint32(l)
	}
	binary.BigEndian.PutUint16(out[2*len(glyphLens):], uint16(cur/2))
	return out
}

func buildTestHmtx(advances []uint16) []byte {
	out := make([]byte, 4*len(advances))
	for i, a := range advances {
		binary.BigEndian.PutUint16(out[4*i:4*i+2], a)
		binary.BigEndian.PutUint16(out[4*i+2:4*i+4], 0)
	}
	return out
}

func buildTestHead(unitsPerEm uint16, indexToLocFormat int16) []byte {
	b := make([]byte, 54)
	binary.BigEndian.PutUint32(b[0:4], uint32(versionHead))
	binary.BigEndian.PutUint32(b[12:16], headMagic)
	binary.BigEndian.PutUint16(b[18:20], unitsPerEm)
	binary.BigEndian.PutUint16(b[36:38], uint16(0))            // xMin
	binary.BigEndian.PutUint16(b[38:40], uint16(int16(-200)))  // yMin
	binary.BigEndian.PutUint16(b[40:42], uint16(700))          // xMax
	binary.BigEndian.PutUint16(b[42:44], uint16(900))          // yMax
	binary.BigEndian.PutUint16(b[50:52], uint16(indexToLocFormat))
	return b
}

func buildTestHhea(numberOfHMetrics uint16) []byte {
	b := make([]byte, 36)
	binary.BigEndian.PutUint16(b[4:6], uint16(800))  // ascent
	binary.BigEndian.PutUint16(b[6:8], uint16(int16(-200))) // descent
	binary.BigEndian.PutUint16(b[34:36], numberOfHMetrics)
	return b
}

func buildTestMaxp(numGlyphs uint16) []byte {
	b := make([]byte, 6)
	binary.BigEndian.PutUint32(b[0:4], 0x00005000) // version 0.5
	binary.BigEndian.PutUint16(b[4:6], numGlyphs)
	return b
}

// buildFormat4CmapForTest builds a format-4 cmap subtable with one
// segment per rune (no contiguous-run merging), so it can represent
// an arbitrary rune->GID mapping with one segment per rune, whereas
// buildCmap merges adjacent runes into one segment only when their
// target GIDs are also consecutive.
func buildFormat4CmapForTest(mapping map[rune]uint16) []byte {
	type entry struct {
		rune rune
		gid  uint16
	}
	var entries []entry
	for r, gid := range mapping {
		entries = append(entries, entry{r, gid})
	}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].rune < entries[i].rune {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}

	segCount := len(entries) + 1 // plus sentinel
	endCode := make([]uint16, segCount)
	startCode := make([]uint16, segCount)
	idDelta := make([]uint16, segCount)
	idRangeOffset := make([]uint16, segCount)
	for i, e := range entries {
		endCode[i] = uint16(e.rune)
		startCode[i] = uint16(e.rune)
		idDelta[i] = uint16(int(e.gid) - int(e.rune))
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
	write16(0) // searchRange (unused by parseCmapFormat4)
	write16(0) // entrySelector
	write16(0) // rangeShift
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

	var table bytes.Buffer
	binary.Write(&table, binary.BigEndian, uint16(0)) // version
	binary.Write(&table, binary.BigEndian, uint16(1)) // numTables
	binary.Write(&table, binary.BigEndian, uint16(3)) // platformID
	binary.Write(&table, binary.BigEndian, uint16(1)) // encodingID
	binary.Write(&table, binary.BigEndian, uint32(12))
	table.Write(out)
	return table.Bytes()
}

// buildTestSfnt lays out an sfnt table directory and payload in
// ASCII-tag order, mirroring assemble's own layout rules so the
// fixture is a faithful stand-in for a real font file.
func buildTestSfnt(t *testing.T, tables map[string][]byte) []byte {
	t.Helper()
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	// deterministic order for the fixture; production code sorts via
	// golang.org/x/exp/slices in assemble/sortedTags.
	for i := 0; i < len(tags); i++ {
		for j := i + 1; j < len(tags); j++ {
			if tags[j] < tags[i] {
				tags[i], tags[j] = tags[j], tags[i]
			}
		}
	}

	headerLen := 12 + 16*len(tags)
	var body bytes.Buffer
	type rec struct {
		tag    string
		offset uint32
		length uint32
	}
	var recs []rec
	offset := uint32(headerLen)
	for _, tag := range tags {
		data := tables[tag]
		recs = append(recs, rec{tag: tag, offset: offset, length: uint32(len(data))})
		body.Write(data)
		for body.Len()%4 != 0 {
			body.WriteByte(0)
		}
		offset = uint32(headerLen + body.Len())
	}

	header := make([]byte, headerLen)
	binary.BigEndian.PutUint32(header[0:4], versionTrueType)
	binary.BigEndian.PutUint16(header[4:6], uint16(len(tags)))
	pos := 12
	for _, r := range recs {
		copy(header[pos:pos+4], r.tag)
		binary.BigEndian.PutUint32(header[pos+8:pos+12], r.offset)
		binary.BigEndian.PutUint32(header[pos+12:pos+16], r.length)
		pos += 16
	}

	return append(header, body.Bytes()...)
}

func TestParseRoundTrip(t *testing.T) {
	data := buildTestFont(t)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.NumGlyphs() != 4 {
		t.Fatalf("NumGlyphs = %d, want 4", f.NumGlyphs())
	}
	want := map[rune]uint16{'A': 1, 0x00C4: 2, 'B': 3}
	for r, gid := range want {
		if got := f.CharToGID[r]; got != gid {
			t.Errorf("CharToGID[%U] = %d, want %d", r, got, gid)
		}
	}
	if f.Ascent != 800 {
		t.Errorf("Ascent = %d, want 800", f.Ascent)
	}
}

func TestResolveClosureAndSubset(t *testing.T) {
	data := buildTestFont(t)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	plan, err := ResolveClosure(f, map[rune]bool{'B': true, 0x00C4: true})
	if err != nil {
		t.Fatalf("ResolveClosure: %v", err)
	}

	// .notdef first, then 'B' (gid3, lower rune value), then the
	// accent glyph (gid2), then its component dependency 'A' (gid1)
	// discovered during the compound-glyph walk.
	wantOldGIDs := []uint16{0, 3, 2, 1}
	if diff := cmp.Diff(wantOldGIDs, plan.OldGIDs); diff != "" {
		t.Fatalf("OldGIDs mismatch (-want +got):\n%s", diff)
	}
	if plan.RuneToNewGID['B'] != 1 {
		t.Errorf("RuneToNewGID['B'] = %d, want 1", plan.RuneToNewGID['B'])
	}
	if plan.RuneToNewGID[0x00C4] != 2 {
		t.Errorf("RuneToNewGID[Ä] = %d, want 2", plan.RuneToNewGID[0x00C4])
	}

	subsetData, err := Subset(f, plan)
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}

	f2, err := Parse(subsetData)
	if err != nil {
		t.Fatalf("Parse(subset): %v", err)
	}
	if f2.NumGlyphs() != 4 {
		t.Fatalf("subset NumGlyphs = %d, want 4", f2.NumGlyphs())
	}
	if f2.CharToGID['B'] != 1 || f2.CharToGID[0x00C4] != 2 {
		t.Fatalf("subset cmap wrong: %v", f2.CharToGID)
	}

	// The accent glyph's component must now point at 'A'/s new GID (3,
	// it was oldGID 1, renumbered last in the closure walk).
	accentData, err := f2.GlyphData(2)
	if err != nil {
		t.Fatalf("GlyphData(2): %v", err)
	}
	components, err := parseComponents(accentData)
	if err != nil {
		t.Fatalf("parseComponents: %v", err)
	}
	if len(components) != 1 || components[0].GID != 3 {
		t.Fatalf("accent glyph component = %+v, want GID 3", components)
	}
}

func TestChecksumAdjustment(t *testing.T) {
	data := buildTestFont(t)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, err := ResolveClosure(f, map[rune]bool{'A': true})
	if err != nil {
		t.Fatalf("ResolveClosure: %v", err)
	}
	subsetData, err := Subset(f, plan)
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	// Once checkSumAdjustment has been folded in, the checksum of the
	// whole assembled file is always exactly this constant.
	if got := checksum(subsetData); got != 0xB1B0AFBA {
		t.Fatalf("assembled file checksum = %#x, want %#x (0xB1B0AFBA - total + total)", got, uint32(0xB1B0AFBA))
	}
}
