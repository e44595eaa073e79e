// Package document implements the page/font/image accumulator: the
// caller-facing object that defers font embedding and page assembly
// to a single terminal Close.
package document

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	pdf "go-papdf.dev/papdf"
	"go-papdf.dev/papdf/font"
	"go-papdf.dev/papdf/font/cidfont"
)

// Document accumulates pages, font registrations, and deferred work
// until Close writes the single resulting PDF file.
type Document struct {
	w     *pdf.Writer
	fonts *font.Registry

	pagesRef     pdf.Reference
	resourcesRef pdf.Reference

	pages []*pageAccum

	Title  string
	Format *pdf.Rectangle // default page format for AddPage(nil)

	closed bool
}

// New creates a Document seeded with a single blank A4 page. Format
// starts as A4 and selects the format of later AddPage(nil) calls.
func New(title string) *Document {
	w := pdf.NewWriter(true)
	d := &Document{
		w:      w,
		fonts:  font.NewRegistry(),
		Title:  title,
		Format: A4,
	}
	d.pagesRef = w.Alloc()     // object 1
	d.resourcesRef = w.Alloc() // object 2
	d.AddPage(nil)
	return d
}

// RegisterFont registers a TrueType font's raw bytes under name for
// later use with AddPage-returned pages. Registering the same name
// twice keeps the first registration and returns nil.
func (d *Document) RegisterFont(name string, source []byte) error {
	_, err := d.fonts.Register(name, source)
	return err
}

// AddPage appends a new page of the given format (nil selects
// d.Format) and returns it for content accumulation.
func (d *Document) AddPage(format *pdf.Rectangle) *Page {
	if format == nil {
		format = d.Format
	}
	p := &pageAccum{
		ref:    d.w.Alloc(),
		format: format,
	}
	d.pages = append(d.pages, p)
	return &Page{doc: d, accum: p}
}

// Close embeds every used font and every stock Helvetica
// registration (used or not), writes the page tree and resources,
// and emits the final PDF to out. No further calls to Document or any
// Page it returned are valid afterwards.
func (d *Document) Close(out io.Writer) error {
	if d.closed {
		return fmt.Errorf("papdf: document already closed")
	}
	d.closed = true

	fontRefs := make(map[int]pdf.Reference)
	for _, reg := range d.fonts.All() {
		if !reg.Stock && reg.State < font.StateUsed {
			continue
		}
		ref, err := cidfont.Embed(d.w, reg)
		if err != nil {
			return err
		}
		fontRefs[reg.ID] = ref
	}

	fontDict := pdf.Dict{}
	ids := maps.Keys(fontRefs)
	slices.Sort(ids)
	for _, id := range ids {
		fontDict[pdf.Name(fmt.Sprintf("F%d", id))] = fontRefs[id]
	}
	if err := d.w.Put(d.resourcesRef, pdf.Dict{"Font": fontDict}); err != nil {
		return err
	}

	kids := make(pdf.Array, len(d.pages))
	for i, p := range d.pages {
		contentRef := d.w.Alloc()
		stream, err := d.w.OpenStream(contentRef, pdf.Dict{}, pdf.StreamFilter{})
		if err != nil {
			return err
		}
		if _, err := stream.Write(p.content.Bytes()); err != nil {
			return err
		}
		if err := stream.Close(); err != nil {
			return err
		}

		pageDict := pdf.Dict{
			"Type":      pdf.Name("Page"),
			"Parent":    d.pagesRef,
			"MediaBox":  p.format,
			"Resources": d.resourcesRef,
			"Contents":  contentRef,
		}
		if err := d.w.Put(p.ref, pageDict); err != nil {
			return err
		}
		kids[i] = p.ref
	}

	if err := d.w.Put(d.pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  kids,
		"Count": pdf.Integer(len(d.pages)),
	}); err != nil {
		return err
	}

	if len(d.pages) > 0 {
		d.w.Catalog = pdf.Dict{
			"OpenAction": pdf.Array{d.pages[0].ref, pdf.Name("FitH"), nil},
		}
	}
	d.w.SetInfo(&pdf.Info{
		Producer:     "go-papdf",
		Title:        d.Title,
		CreationDate: time.Now(),
	})

	return d.w.Close(out)
}
