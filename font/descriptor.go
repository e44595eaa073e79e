// Package font manages font registration, subsetting, and embedding
// of TrueType fonts into a PDF document, plus the four stock
// Helvetica variants that never need embedding.
package font

import (
	"math"

	pdf "go-papdf.dev/papdf"
)

// Flags bits, PDF 32000-1:2008 section 9.8.2.
const (
	flagFixedPitch = 1 << 0
	flagSymbolic   = 1 << 2
	flagItalic     = 1 << 6
	flagForceBold  = 1 << 18
)

// Descriptor holds the values written into a PDF /FontDescriptor,
// derived from a parsed sfnt font.
type Descriptor struct {
	FontName     string
	Flags        uint32
	FontBBox     [4]int
	ItalicAngle  float64
	Ascent       int
	Descent      int
	CapHeight    int
	StemV        int
	MissingWidth int
}

// AsDict renders d as the PDF /FontDescriptor dictionary. fontFile is
// the indirect reference to the embedded FontFile2 stream, or the
// zero Reference for the stock Helvetica variants (no embedding).
func (d *Descriptor) AsDict(fontFile pdf.Reference) pdf.Dict {
	dict := pdf.Dict{
		"Type":        pdf.Name("FontDescriptor"),
		"FontName":    pdf.Name(d.FontName),
		"Flags":       pdf.Integer(d.Flags),
		"FontBBox":    pdf.Array{pdf.Integer(d.FontBBox[0]), pdf.Integer(d.FontBBox[1]), pdf.Integer(d.FontBBox[2]), pdf.Integer(d.FontBBox[3])},
		"ItalicAngle": pdf.Real(round4(d.ItalicAngle)),
		"Ascent":      pdf.Integer(d.Ascent),
		"Descent":     pdf.Integer(d.Descent),
		"CapHeight":   pdf.Integer(d.CapHeight),
		"StemV":       pdf.Integer(d.StemV),
	}
	if d.MissingWidth != 0 {
		dict["MissingWidth"] = pdf.Integer(d.MissingWidth)
	}
	if fontFile != 0 {
		dict["FontFile2"] = fontFile
	}
	return dict
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
