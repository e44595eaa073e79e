package pdf

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

// Info holds the values written into the PDF /Info dictionary.
type Info struct {
	Producer     string
	Title        string
	CreationDate time.Time
}

// Writer accumulates indirect PDF objects and, on Close, emits a
// complete PDF 1.4 file: object bodies in append order, followed by
// the cross-reference table and trailer.
//
// A Writer is single-threaded and non-reentrant: all calls must come
// from the same goroutine, and the order of calls is the order of
// effects.
type Writer struct {
	buf      bytes.Buffer
	offsets  map[Reference]int64
	next     Reference
	compress bool

	Catalog Dict
	info    *Info

	closed bool
}

// reserved object numbers, allocated immediately by Document.New.
const (
	RefPages     Reference = 1
	RefResources Reference = 2
)

// NewWriter creates a Writer. When compress is true (the default
// policy), every stream payload is deflate-compressed and declared
// with /Filter /FlateDecode; when it is false, streams are stored
// uncompressed and any StreamFilter predictor is ignored.
func NewWriter(compress bool) *Writer {
	w := &Writer{
		offsets:  make(map[Reference]int64),
		next:     1,
		compress: compress,
	}
	io.WriteString(&w.buf, "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	return w
}

// Alloc reserves the next object number in append order.
func (w *Writer) Alloc() Reference {
	r := w.next
	w.next++
	return r
}

// SetInfo records the document metadata written into the PDF /Info
// dictionary at Close time.
func (w *Writer) SetInfo(info *Info) {
	w.info = info
}

// Put writes obj as the body of the indirect object ref. ref must
// have been returned by Alloc and must not already have been written.
func (w *Writer) Put(ref Reference, obj Object) error {
	if w.closed {
		return fmt.Errorf("pdf: write to closed document")
	}
	if _, dup := w.offsets[ref]; dup {
		return fmt.Errorf("pdf: object %d already written", ref)
	}
	w.offsets[ref] = int64(w.buf.Len())
	fmt.Fprintf(&w.buf, "%d 0 obj\n", ref)
	if err := writeObject(&w.buf, obj); err != nil {
		return err
	}
	io.WriteString(&w.buf, "\nendobj\n")
	return nil
}

// PutAll writes several indirect objects in one call, in the order
// given. It exists so font and page assembly code can allocate a
// contiguous run of related objects (Type0 font, CIDFont,
// FontDescriptor, ...) and write them together. The objects here
// always remain free-standing indirect objects rather than members
// of a PDF 1.5+ object stream; object streams are out of scope.
func (w *Writer) PutAll(refs []Reference, objs ...Object) error {
	if len(refs) != len(objs) {
		return fmt.Errorf("pdf: PutAll: %d refs for %d objects", len(refs), len(objs))
	}
	for i, ref := range refs {
		if err := w.Put(ref, objs[i]); err != nil {
			return err
		}
	}
	return nil
}

// streamWriter buffers stream content so its /Length can be written
// before the data, then applies compression and closes out the
// object body.
type streamWriter struct {
	w       *Writer
	ref     Reference
	dict    Dict
	filter  StreamFilter
	useZlib bool
	raw     bytes.Buffer
}

// OpenStream begins writing a stream object. The caller must Close
// the returned writer before any other Writer method is called;
// streams may not be interleaved.
func (w *Writer) OpenStream(ref Reference, dict Dict, filter StreamFilter) (io.WriteCloser, error) {
	if w.closed {
		return nil, fmt.Errorf("pdf: write to closed document")
	}
	if dict == nil {
		dict = Dict{}
	}
	return &streamWriter{w: w, ref: ref, dict: dict, filter: filter, useZlib: w.compress}, nil
}

func (s *streamWriter) Write(p []byte) (int, error) {
	return s.raw.Write(p)
}

func (s *streamWriter) Close() error {
	w := s.w
	if _, dup := w.offsets[s.ref]; dup {
		return fmt.Errorf("pdf: object %d already written", s.ref)
	}

	data := s.raw.Bytes()
	dict := s.dict
	if s.useZlib {
		var out bytes.Buffer
		enc, err := s.filter.encode(&nopCloser{&out})
		if err != nil {
			return err
		}
		if _, err := enc.Write(data); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		data = out.Bytes()
		dict["Filter"] = Name("FlateDecode")
		if parms := s.filter.dict(); parms != nil {
			dict["DecodeParms"] = parms
		}
	}
	dict["Length"] = Integer(len(data))

	w.offsets[s.ref] = int64(w.buf.Len())
	fmt.Fprintf(&w.buf, "%d 0 obj\n", s.ref)
	if err := writeObject(&w.buf, dict); err != nil {
		return err
	}
	io.WriteString(&w.buf, "\nstream\n")
	w.buf.Write(data)
	io.WriteString(&w.buf, "\nendstream\nendobj\n")
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Close writes the xref table and trailer and copies the assembled
// file to out. It is the single terminal step of document assembly:
// no further writes are possible afterwards.
func (w *Writer) Close(out io.Writer) error {
	if w.closed {
		return fmt.Errorf("pdf: document already closed")
	}
	w.closed = true

	catalogRef := w.Alloc()
	catalog := Dict{
		"Type":       Name("Catalog"),
		"Pages":      RefPages,
		"PageLayout": Name("OneColumn"),
	}
	for k, v := range w.Catalog {
		catalog[k] = v
	}
	if err := w.Put(catalogRef, catalog); err != nil {
		return err
	}

	var infoRef Reference
	if w.info != nil {
		infoRef = w.Alloc()
		d := Dict{
			"Producer": String(w.info.Producer),
		}
		if w.info.Title != "" {
			d["Title"] = String(w.info.Title)
		}
		if !w.info.CreationDate.IsZero() {
			d["CreationDate"] = String(formatPDFDate(w.info.CreationDate))
		}
		if err := w.Put(infoRef, d); err != nil {
			return err
		}
	}

	xrefOffset := int64(w.buf.Len())

	size := int(w.next)
	io.WriteString(&w.buf, "xref\n")
	fmt.Fprintf(&w.buf, "0 %d\n", size)
	io.WriteString(&w.buf, "0000000000 65535 f \n")
	for n := Reference(1); n < w.next; n++ {
		off, ok := w.offsets[n]
		if !ok {
			// No free-list support: every allocated number below
			// w.next must have been written by Close time.
			return fmt.Errorf("pdf: object %d allocated but never written", n)
		}
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", off)
	}

	trailer := Dict{
		"Size": Integer(size),
		"Root": catalogRef,
	}
	if infoRef != 0 {
		trailer["Info"] = infoRef
	}
	io.WriteString(&w.buf, "trailer\n")
	if err := writeObject(&w.buf, trailer); err != nil {
		return err
	}
	fmt.Fprintf(&w.buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	_, err := out.Write(w.buf.Bytes())
	return err
}

func formatPDFDate(t time.Time) string {
	return "D:" + t.UTC().Format("20060102150405")
}
