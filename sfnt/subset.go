package sfnt

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/slices"
)

// locaThreshold is the largest total glyf length a short (format 0)
// loca table can index: offsets are stored /2 in a u16, so the
// largest representable byte offset is 0xFFFF*2.
const locaThreshold = 0xFFFF * 2

// Subset rewrites f into a minimal sfnt covering exactly the glyphs
// named in plan: cmap (format 4), glyf, loca, hmtx, head, hhea, maxp,
// post are rebuilt; name/cvt/fpgm/prep/gasp pass through unchanged
// when present.
func Subset(f *Font, plan *SubsetPlan) ([]byte, error) {
	glyfOut, glyphLen, err := buildGlyf(f, plan)
	if err != nil {
		return nil, err
	}

	longLoca := len(glyfOut) > locaThreshold
	locaOut := buildLoca(glyphLen, longLoca)
	hmtxOut := buildHmtx(f, plan)
	cmapOut := buildCmap(plan.RuneToNewGID)
	postOut := minimalPost()
	headOut := patchHead(f.headRaw, longLoca)
	hheaOut := patchHhea(f.hheaRaw, plan.Len())
	maxpOut := patchMaxp(f.maxpRaw, plan.Len())

	tables := map[string][]byte{
		"cmap": cmapOut,
		"glyf": glyfOut,
		"head": headOut,
		"hhea": hheaOut,
		"hmtx": hmtxOut,
		"loca": locaOut,
		"maxp": maxpOut,
		"post": postOut,
	}
	for _, tag := range []string{"name", "cvt ", "fpgm", "prep", "gasp"} {
		if data, ok := f.PassThroughTable(tag); ok {
			tables[tag] = data
		}
	}

	return assemble(tables)
}

// buildGlyf copies each plan glyph's bytes in emission order,
// rewriting compound-glyph component GIDs, and zero-pads every glyph
// to a 4-byte boundary. It returns the concatenated glyf payload and
// the per-glyph byte length after padding (glyphLen[i] is gid i's
// contribution, used to build loca).
func buildGlyf(f *Font, plan *SubsetPlan) ([]byte, []uint32, error) {
	var out []byte
	lens := make([]uint32, plan.Len())
	for newGID, oldGID := range plan.OldGIDs {
		data, err := f.GlyphData(int(oldGID))
		if err != nil {
			return nil, nil, err
		}
		if data == nil {
			lens[newGID] = 0
			continue
		}

		glyph := append([]byte(nil), data...)
		nc, err := numberOfContours(glyph)
		if err != nil {
			return nil, nil, err
		}
		if nc < 0 {
			components, err := parseComponents(glyph)
			if err != nil {
				return nil, nil, err
			}
			rewriteComponents(glyph, components, plan.NewGID)
		}

		for len(glyph)%4 != 0 {
			glyph = append(glyph, 0)
		}
		lens[newGID] = uint32(len(glyph))
		out = append(out, glyph...)
	}
	return out, lens, nil
}

func buildLoca(glyphLen []uint32, longFormat bool) []byte {
	n := len(glyphLen)
	offsets := make([]uint32, n+1)
	var cur uint32
	for i, l := range glyphLen {
		offsets[i] = cur
		cur += l
	}
	offsets[n] = cur

	if longFormat {
		out := make([]byte, 4*(n+1))
		for i, off := range offsets {
			binary.BigEndian.PutUint32(out[4*i:4*i+4], off)
		}
		return out
	}
	out := make([]byte, 2*(n+1))
	for i, off := range offsets {
		binary.BigEndian.PutUint16(out[2*i:2*i+2], uint16(off/2))
	}
	return out
}

func buildHmtx(f *Font, plan *SubsetPlan) []byte {
	out := make([]byte, 4*plan.Len())
	for newGID, oldGID := range plan.OldGIDs {
		adv := f.AdvanceWidth(int(oldGID))
		binary.BigEndian.PutUint16(out[4*newGID:4*newGID+2], adv)
		binary.BigEndian.PutUint16(out[4*newGID+2:4*newGID+4], 0)
	}
	return out
}

func patchHead(headRaw []byte, longLoca bool) []byte {
	out := append([]byte(nil), headRaw...)
	binary.BigEndian.PutUint32(out[8:12], 0) // checkSumAdjustment, finalized later
	var format int16
	if longLoca {
		format = 1
	}
	binary.BigEndian.PutUint16(out[50:52], uint16(format))
	return out
}

func patchHhea(hheaRaw []byte, numGlyphs int) []byte {
	out := append([]byte(nil), hheaRaw...)
	binary.BigEndian.PutUint16(out[34:36], uint16(numGlyphs))
	return out
}

func patchMaxp(maxpRaw []byte, numGlyphs int) []byte {
	out := append([]byte(nil), maxpRaw...)
	binary.BigEndian.PutUint16(out[4:6], uint16(numGlyphs))
	return out
}

// assemble writes the table directory followed by each table's
// checksummed, padded payload, in ASCII-ascending tag order, then
// finalizes head.checkSumAdjustment over the complete file.
func assemble(tables map[string][]byte) ([]byte, error) {
	tags := make([]string, 0, len(tables))
	for t := range tables {
		tags = append(tags, t)
	}
	slices.Sort(tags)

	numTables := len(tags)
	headerLen := 12 + 16*numTables
	offset := uint32(headerLen)

	type placed struct {
		tag      string
		offset   uint32
		length   uint32
		checksum uint32
		padded   []byte
	}
	var placedTables []placed
	for _, tag := range tags {
		data := tables[tag]
		padded := append([]byte(nil), data...)
		for len(padded)%4 != 0 {
			padded = append(padded, 0)
		}
		placedTables = append(placedTables, placed{
			tag:      tag,
			offset:   offset,
			length:   uint32(len(data)),
			checksum: checksum(padded),
			padded:   padded,
		})
		offset += uint32(len(padded))
	}

	out := make([]byte, headerLen)
	binary.BigEndian.PutUint32(out[0:4], versionTrueType)
	binary.BigEndian.PutUint16(out[4:6], uint16(numTables))
	floorLog2 := 0
	for (1 << uint(floorLog2+1)) <= numTables {
		floorLog2++
	}
	searchRange := uint16(16 * (1 << uint(floorLog2)))
	binary.BigEndian.PutUint16(out[6:8], searchRange)
	binary.BigEndian.PutUint16(out[8:10], uint16(floorLog2))
	binary.BigEndian.PutUint16(out[10:12], uint16(16*numTables)-searchRange)

	pos := 12
	var headOffset int = -1
	for _, p := range placedTables {
		copy(out[pos:pos+4], p.tag)
		binary.BigEndian.PutUint32(out[pos+4:pos+8], p.checksum)
		binary.BigEndian.PutUint32(out[pos+8:pos+12], p.offset)
		binary.BigEndian.PutUint32(out[pos+12:pos+16], p.length)
		if p.tag == "head" {
			headOffset = int(p.offset)
		}
		pos += 16
	}
	for _, p := range placedTables {
		out = append(out, p.padded...)
	}

	if headOffset < 0 {
		return nil, badTable("head", fmt.Errorf("missing from assembled subset"))
	}
	total := checksum(out)
	adjustment := uint32(0xB1B0AFBA) - total
	binary.BigEndian.PutUint32(out[headOffset+8:headOffset+12], adjustment)

	return out, nil
}
