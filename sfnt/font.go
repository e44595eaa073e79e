package sfnt

import (
	"fmt"
	"math"
)

// Font is a parsed TrueType font: the raw table bytes needed to
// rebuild a subset, plus the derived values PDF font-descriptor
// construction needs.
type Font struct {
	dir *directory

	head *headTable
	hhea *hheaTable
	maxp *maxpTable

	headRaw, hheaRaw, maxpRaw []byte

	glyf []byte
	loca []uint32 // numGlyphs+1 offsets into glyf
	hmtx []longHorMetric

	CharToGID map[rune]uint16

	// Descriptor fields, already scaled to the PDF 1000-unit em.
	Ascent       int
	Descent      int
	CapHeight    int
	FontBBox     [4]int
	ItalicAngle  float64
	StemV        int
	MissingWidth int
	Flags        uint32
	IsFixedPitch bool
}

// Parse reads a TrueType font from data and derives the fields needed
// to compute glyph closures, build subsets, and populate a PDF
// FontDescriptor.
func Parse(data []byte) (*Font, error) {
	dir, err := readDirectory(data)
	if err != nil {
		return nil, err
	}

	headData, err := dir.mustTable("head")
	if err != nil {
		return nil, err
	}
	head, err := parseHead(headData)
	if err != nil {
		return nil, err
	}

	hheaData, err := dir.mustTable("hhea")
	if err != nil {
		return nil, err
	}
	hhea, err := parseHhea(hheaData)
	if err != nil {
		return nil, err
	}

	maxpData, err := dir.mustTable("maxp")
	if err != nil {
		return nil, err
	}
	maxp, err := parseMaxp(maxpData)
	if err != nil {
		return nil, err
	}

	numGlyphs := int(maxp.NumGlyphs)

	locaData, err := dir.mustTable("loca")
	if err != nil {
		return nil, err
	}
	loca, err := parseLoca(locaData, numGlyphs, head.IndexToLocFormat != 0)
	if err != nil {
		return nil, err
	}

	glyfData, err := dir.mustTable("glyf")
	if err != nil {
		return nil, err
	}

	hmtxData, err := dir.mustTable("hmtx")
	if err != nil {
		return nil, err
	}
	hmtx, err := parseHmtx(hmtxData, int(hhea.NumberOfHMetrics), numGlyphs)
	if err != nil {
		return nil, err
	}

	cmapData, err := dir.mustTable("cmap")
	if err != nil {
		return nil, err
	}
	charToGID, err := parseCmap(cmapData)
	if err != nil {
		return nil, err
	}

	var os2 *os2Table
	if data, ok := dir.table("OS/2"); ok {
		os2, err = parseOS2(data)
		if err != nil {
			return nil, err
		}
	}
	weightClass := uint16(500)
	capHeight := int(head.emScale(int(head.YMax)))
	if os2 != nil {
		weightClass = os2.UsWeightClass
		if os2.HasCapHeight {
			capHeight = head.emScale(int(os2.SCapHeight))
		} else {
			capHeight = head.emScale(int(hhea.Ascent))
		}
	} else {
		capHeight = head.emScale(int(hhea.Ascent))
	}

	var postTbl *postTable
	if data, ok := dir.table("post"); ok {
		postTbl, err = parsePost(data)
		if err != nil {
			return nil, err
		}
	} else {
		postTbl = &postTable{}
	}

	italicAngle := float64(postTbl.ItalicAngle) / 65536

	var flags uint32
	flags |= 1 << 2 // symbolic
	if italicAngle != 0 {
		flags |= 1 << 6
	}
	if weightClass >= 600 {
		flags |= 1 << 18
	}
	if postTbl.IsFixedPitch {
		flags |= 1 << 0
	}

	missingWidth := 0
	if len(hmtx) > 0 {
		missingWidth = int(hmtx[len(hmtx)-1].AdvanceWidth)
		missingWidth = head.emScale(missingWidth)
	}

	f := &Font{
		dir:       dir,
		head:      head,
		hhea:      hhea,
		maxp:      maxp,
		headRaw:   append([]byte(nil), headData...),
		hheaRaw:   append([]byte(nil), hheaData...),
		maxpRaw:   append([]byte(nil), maxpData...),
		glyf:      glyfData,
		loca:      loca,
		hmtx:      hmtx,
		CharToGID: charToGID,

		Ascent:  head.emScale(int(hhea.Ascent)),
		Descent: head.emScale(int(hhea.Descent)),
		CapHeight: capHeight,
		FontBBox: [4]int{
			head.emScale(int(head.XMin)),
			head.emScale(int(head.YMin)),
			head.emScale(int(head.XMax)),
			head.emScale(int(head.YMax)),
		},
		ItalicAngle:  italicAngle,
		StemV:        50 + int(math.Pow(float64(weightClass)/65, 2)),
		MissingWidth: missingWidth,
		Flags:        flags,
		IsFixedPitch: postTbl.IsFixedPitch,
	}
	return f, nil
}

// NumGlyphs reports the total glyph count of the source font.
func (f *Font) NumGlyphs() int {
	return int(f.maxp.NumGlyphs)
}

// GlyphData returns the raw glyf bytes for gid, or nil for an empty
// (zero-contour, e.g. space) glyph.
func (f *Font) GlyphData(gid int) ([]byte, error) {
	if gid < 0 || gid+1 >= len(f.loca) {
		return nil, corruptOffset(fmt.Errorf("glyph index %d out of range", gid))
	}
	start, end := f.loca[gid], f.loca[gid+1]
	if end < start || int(end) > len(f.glyf) {
		return nil, corruptOffset(fmt.Errorf("glyph %d offsets out of range", gid))
	}
	if start == end {
		return nil, nil
	}
	return f.glyf[start:end], nil
}

// AdvanceWidth returns gid's advance width in font design units.
func (f *Font) AdvanceWidth(gid int) uint16 {
	return advanceWidth(f.hmtx, gid)
}

// EmScale converts a value in font design units to the PDF 1000-unit em.
func (f *Font) EmScale(v int) int {
	return f.head.emScale(v)
}

// IndexToLocFormat returns the source font's head.indexToLocFormat:
// 0 for short (16-bit, halved) loca offsets, 1 for long (32-bit) ones.
func (f *Font) IndexToLocFormat() int16 {
	return f.head.IndexToLocFormat
}

// PassThroughTable returns the raw bytes of tag if present and tag is
// one of the tables a subset carries through unchanged.
func (f *Font) PassThroughTable(tag string) ([]byte, bool) {
	switch tag {
	case "name", "cvt ", "fpgm", "prep", "gasp":
		return f.dir.table(tag)
	default:
		return nil, false
	}
}
