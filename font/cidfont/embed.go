// Package cidfont assembles the PDF objects for an embedded
// composite (Type0/CIDFontType2) TrueType font: the orchestration
// named component F of the font embedder.
package cidfont

import (
	"fmt"

	pdf "go-papdf.dev/papdf"
	"go-papdf.dev/papdf/font"
	"go-papdf.dev/papdf/sfnt"
)

// maxWidth is the width value at or above which a computed glyph
// width collapses to 0, since a PDF /W array entry cannot represent it.
const maxWidth = 65535

const cidToGIDMapLength = 1 << 17 // 65536 code points * 2 bytes

// Embed subsets reg's font to exactly the code points recorded in
// reg.UsedChars, writes the composite font's PDF objects in order,
// and returns the Type0 font dictionary's reference (the value a page
// resources dict cites).
//
// reg must already be in font.StateUsed or later; Embed advances it
// to font.StateEmbedded and records the returned reference on it.
func Embed(w *pdf.Writer, reg *font.Registration) (pdf.Reference, error) {
	if reg.Stock {
		return embedHelvetica(w, reg)
	}

	f, err := reg.Parsed()
	if err != nil {
		return 0, err
	}

	plan, err := sfnt.ResolveClosure(f, reg.UsedChars)
	if err != nil {
		return 0, err
	}
	subsetData, err := sfnt.Subset(f, plan)
	if err != nil {
		return 0, err
	}

	type0Ref := w.Alloc()
	cidFontRef := w.Alloc()
	toUnicodeRef := w.Alloc()
	cidSystemInfoRef := w.Alloc()
	descriptorRef := w.Alloc()
	cidToGIDRef := w.Alloc()
	fontFileRef := w.Alloc()

	baseFont := subsetBaseFont(reg.ID, reg.Name)

	widths, maxChar := buildWidths(f, plan)
	defaultWidth := pdf.Integer(f.MissingWidth)

	type0 := pdf.Dict{
		"Type":            pdf.Name("Font"),
		"Subtype":         pdf.Name("Type0"),
		"BaseFont":        pdf.Name(baseFont),
		"Encoding":        pdf.Name("Identity-H"),
		"DescendantFonts": pdf.Array{cidFontRef},
		"ToUnicode":       toUnicodeRef,
	}
	if err := w.Put(type0Ref, type0); err != nil {
		return 0, err
	}

	cidFont := pdf.Dict{
		"Type":           pdf.Name("Font"),
		"Subtype":        pdf.Name("CIDFontType2"),
		"BaseFont":       pdf.Name(baseFont),
		"CIDSystemInfo":  cidSystemInfoRef,
		"FontDescriptor": descriptorRef,
		"DW":             defaultWidth,
		"CIDToGIDMap":    cidToGIDRef,
	}
	if maxChar > 0 {
		cidFont["W"] = pdf.Array{pdf.Integer(1), widths}
	}
	if err := w.Put(cidFontRef, cidFont); err != nil {
		return 0, err
	}

	if err := writeToUnicode(w, toUnicodeRef); err != nil {
		return 0, err
	}

	cidSystemInfo := pdf.Dict{
		"Registry":   pdf.String("Adobe"),
		"Ordering":   pdf.String("UCS"),
		"Supplement": pdf.Integer(0),
	}
	if err := w.Put(cidSystemInfoRef, cidSystemInfo); err != nil {
		return 0, err
	}

	desc := &font.Descriptor{
		FontName:     baseFont,
		Flags:        f.Flags,
		FontBBox:     f.FontBBox,
		ItalicAngle:  f.ItalicAngle,
		Ascent:       f.Ascent,
		Descent:      f.Descent,
		CapHeight:    f.CapHeight,
		StemV:        f.StemV,
		MissingWidth: f.MissingWidth,
	}
	if err := w.Put(descriptorRef, desc.AsDict(fontFileRef)); err != nil {
		return 0, err
	}

	if err := writeCIDToGIDMap(w, cidToGIDRef, plan); err != nil {
		return 0, err
	}

	fontFileDict := pdf.Dict{"Length1": pdf.Integer(len(subsetData))}
	stream, err := w.OpenStream(fontFileRef, fontFileDict, pdf.StreamFilter{})
	if err != nil {
		return 0, err
	}
	if _, err := stream.Write(subsetData); err != nil {
		return 0, err
	}
	if err := stream.Close(); err != nil {
		return 0, err
	}

	reg.Ref = type0Ref
	reg.State = font.StateEmbedded
	return type0Ref, nil
}

// embedHelvetica writes the single simple Type1 font object for a
// stock Helvetica variant: no outline data, no descriptor, no
// subsetting, no embedded font file.
func embedHelvetica(w *pdf.Writer, reg *font.Registration) (pdf.Reference, error) {
	ref := w.Alloc()
	dict := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name(reg.Name),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
	if err := w.Put(ref, dict); err != nil {
		return 0, err
	}
	reg.Ref = ref
	reg.State = font.StateEmbedded
	return ref, nil
}

func buildWidths(f *sfnt.Font, plan *sfnt.SubsetPlan) (pdf.Array, int) {
	maxChar := 0
	for c := range plan.RuneToNewGID {
		if int(c) > maxChar {
			maxChar = int(c)
		}
	}
	if maxChar == 0 {
		return nil, 0
	}

	widths := make(pdf.Array, maxChar)
	fallback := pdf.Integer(f.MissingWidth)
	for c := 1; c <= maxChar; c++ {
		newGID, ok := plan.RuneToNewGID[rune(c)]
		if !ok {
			widths[c-1] = fallback
			continue
		}
		oldGID := plan.OldGIDs[newGID]
		w := f.EmScale(int(f.AdvanceWidth(int(oldGID))))
		if w >= maxWidth {
			w = 0
		}
		widths[c-1] = pdf.Integer(w)
	}
	return widths, maxChar
}

func writeCIDToGIDMap(w *pdf.Writer, ref pdf.Reference, plan *sfnt.SubsetPlan) error {
	dict := pdf.Dict{}
	filter := pdf.StreamFilter{Predictor: 12, Columns: 2}
	stream, err := w.OpenStream(ref, dict, filter)
	if err != nil {
		return err
	}
	buf := make([]byte, cidToGIDMapLength)
	for c, newGID := range plan.RuneToNewGID {
		if int(c) >= cidToGIDMapLength/2 {
			continue
		}
		buf[2*int(c)] = byte(newGID >> 8)
		buf[2*int(c)+1] = byte(newGID)
	}
	if _, err := stream.Write(buf); err != nil {
		return err
	}
	return stream.Close()
}

func subsetBaseFont(id int, name string) string {
	return fmt.Sprintf("%s+%s", font.SubsetTag(id), name)
}

const toUnicodeCMap = "/CIDInit /ProcSet findresource begin\n" +
	"12 dict begin\n" +
	"begincmap\n" +
	"/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def\n" +
	"/CMapName /Adobe-Identity-UCS def\n" +
	"/CMapType 2 def\n" +
	"1 begincodespacerange\n" +
	"<0000> <FFFF>\n" +
	"endcodespacerange\n" +
	"1 beginbfrange\n" +
	"<0000> <FFFF> <0000>\n" +
	"endbfrange\n" +
	"endcmap\n" +
	"CMapName currentdict /CMap defineresource pop\n" +
	"end\n" +
	"end\n"

func writeToUnicode(w *pdf.Writer, ref pdf.Reference) error {
	stream, err := w.OpenStream(ref, pdf.Dict{}, pdf.StreamFilter{})
	if err != nil {
		return err
	}
	if _, err := stream.Write([]byte(toUnicodeCMap)); err != nil {
		return err
	}
	return stream.Close()
}
