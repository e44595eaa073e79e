package document

import (
	"bytes"
	"fmt"
	"math"

	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	pdf "go-papdf.dev/papdf"
)

// pageAccum is the in-memory state for one page between AddPage and
// Document.Close, when its content stream is finally written.
type pageAccum struct {
	ref     pdf.Reference
	format  *pdf.Rectangle
	content bytes.Buffer
}

// Page is the caller-facing handle returned by Document.AddPage. It
// records every code point drawn against the current font
// registration, and produces properly escaped PDF string literals
// for emission.
type Page struct {
	doc   *Document
	accum *pageAccum
}

// ShowText appends a "BT ... Tj ET" content-stream fragment placing s
// at (x, y) in font fontName at the given point size, and records
// every code point of s against that font's used-character set so it
// survives to Document.Close's deferred embedding.
func (p *Page) ShowText(fontName string, sizePt, x, y float64, s string) error {
	// Fold decomposed and precomposed forms (e.g. "e"+combining acute
	// vs. the single "é" code point) onto the same representation
	// before they reach the cmap lookup in sfnt.ResolveClosure.
	s = norm.NFC.String(s)
	runes := []rune(s)
	if err := p.doc.fonts.Use(fontName, runes); err != nil {
		return err
	}

	reg, ok := p.doc.fonts.Lookup(fontName)
	if !ok {
		return fmt.Errorf("papdf: font %q not registered", fontName)
	}

	fmt.Fprintf(&p.accum.content, "BT\n/F%d %s Tf\n%s %s Td\n", reg.ID, fnum(sizePt), fnum(x), fnum(y))
	if reg.Stock {
		p.accum.content.WriteString(encodeLiteral(s))
	} else {
		p.accum.content.WriteString(encodeIdentityHex(runes))
	}
	p.accum.content.WriteString(" Tj\nET\n")
	return nil
}

// WidthOf returns the width, in points (each advance as a fraction of
// the em, times sizePt), that s would occupy when shown in fontName at sizePt (spec
// §6: "width lookup (given a point size)").
func (p *Page) WidthOf(fontName string, sizePt float64, s string) (float64, error) {
	reg, ok := p.doc.fonts.Lookup(fontName)
	if !ok {
		return 0, fmt.Errorf("papdf: font %q not registered", fontName)
	}
	if reg.Stock {
		// No AFM metrics table is carried for the stock variants;
		// approximate using Helvetica's well-known average advance.
		return float64(len([]rune(s))) * 0.5 * sizePt, nil
	}

	f, err := reg.Parsed()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, r := range s {
		gid, ok := f.CharToGID[r]
		if !ok {
			continue
		}
		total += float64(f.EmScale(int(f.AdvanceWidth(int(gid))))) / 1000 * sizePt
	}
	return total, nil
}

// fnum formats v as a content-stream operand, rounding through a 26.6
// fixed-point representation (the precision common to sub-pixel text
// positioning) so repeated layout passes agree on placement.
func fnum(v float64) string {
	q := fixed.Int26_6(math.Round(v * 64))
	return fmt.Sprintf("%.2f", float64(q)/64)
}

// encodeLiteral renders s as a PDF literal string, escaping '(', ')'
// and '\\' (String.writeTo additionally escapes newline and carriage
// return; this function does not); used inline in content streams
// rather than via an indirect String object.
func encodeLiteral(s string) string {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, c := range []byte(s) {
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// encodeIdentityHex renders runes as the Identity-H two-byte CID hex
// string a composite font's content stream expects (code point ==
// CID at this layer; CIDToGIDMap performs the final CID -> GID step).
func encodeIdentityHex(runes []rune) string {
	var b bytes.Buffer
	b.WriteByte('<')
	for _, r := range runes {
		fmt.Fprintf(&b, "%04X", uint16(r))
	}
	b.WriteByte('>')
	return b.String()
}
