package pdf

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// StreamFilter describes the predictor applied to a stream before
// deflate. The zero value applies no predictor; whether a stream is
// deflate-compressed at all is decided by the Writer's compress flag.
type StreamFilter struct {
	// Predictor selects the PNG-style predictor applied before
	// deflate. 1 means no predictor; 12 means the "up" predictor
	// (used for the CIDToGIDMap stream, two bytes per row).
	Predictor int
	Columns   int
}

// dict returns the /DecodeParms entries implied by f, or nil if none
// are needed (the default predictor-less case).
func (f StreamFilter) dict() Dict {
	if f.Predictor <= 1 {
		return nil
	}
	return Dict{
		"Predictor": Integer(f.Predictor),
		"Columns":   Integer(f.Columns),
	}
}

func (f StreamFilter) encode(w io.WriteCloser) (io.WriteCloser, error) {
	zw := zlib.NewWriter(w)
	closeBoth := func() error {
		if err := zw.Close(); err != nil {
			return err
		}
		return w.Close()
	}
	switch {
	case f.Predictor <= 1:
		return &withClose{zw, closeBoth}, nil
	case f.Predictor == 12:
		return &pngUpWriter{
			w:     zw,
			prev:  make([]byte, f.Columns),
			cur:   make([]byte, f.Columns+1),
			close: closeBoth,
		}, nil
	default:
		return nil, errors.New("pdf: unsupported predictor " + strconv.Itoa(f.Predictor))
	}
}

// decode reverses encode. Nothing in this module calls it, since this
// library never reads back a PDF file it wrote.
func (f StreamFilter) decode(r io.Reader) (io.Reader, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	switch {
	case f.Predictor <= 1:
		return zr, nil
	case f.Predictor == 12:
		return &pngUpReader{
			r:    zr,
			prev: make([]byte, 1+f.Columns),
			tmp:  make([]byte, 1+f.Columns),
		}, nil
	default:
		return nil, errors.New("pdf: unsupported predictor " + strconv.Itoa(f.Predictor))
	}
}

// pngUpReader and pngUpWriter implement the PNG "Up" predictor
// (predictor value 12) used by /DecodeParms for the CIDToGIDMap
// stream.
type pngUpReader struct {
	r    io.Reader
	prev []byte
	tmp  []byte
	pend []byte
}

func (r *pngUpReader) Read(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if len(r.pend) > 0 {
			m := copy(b, r.pend)
			n += m
			b = b[m:]
			r.pend = r.pend[m:]
			continue
		}
		_, err := io.ReadFull(r.r, r.tmp)
		if err != nil {
			return n, err
		}
		if r.tmp[0] != 2 {
			return n, fmt.Errorf("pdf: malformed PNG-Up row tag %d", r.tmp[0])
		}
		for i, b := range r.tmp {
			r.prev[i] += b
		}
		r.pend = append([]byte(nil), r.prev[1:]...)
	}
	return n, nil
}

type pngUpWriter struct {
	w     io.Writer
	prev  []byte // length columns
	cur   []byte // length columns+1, cur[0] is always the row tag (2)
	pos   int
	close func() error
}

func (w *pngUpWriter) Write(p []byte) (int, error) {
	tmp := w.cur[1:]
	n := 0
	for len(p) > 0 {
		l := copy(tmp[w.pos:], p)
		p = p[l:]
		w.pos += l
		n += l
		if w.pos >= len(tmp) {
			w.cur[0] = 2
			for i := 0; i < w.pos; i++ {
				tmp[i], w.prev[i] = tmp[i]-w.prev[i], tmp[i]
			}
			if _, err := w.w.Write(w.cur); err != nil {
				return n, err
			}
			w.pos = 0
		}
	}
	return n, nil
}

func (w *pngUpWriter) Close() error {
	if w.pos != 0 {
		return fmt.Errorf("pdf: partial row of %d bytes left in PNG-Up writer", w.pos)
	}
	if w.close != nil {
		return w.close()
	}
	return nil
}

type withClose struct {
	io.Writer
	close func() error
}

func (w *withClose) Close() error {
	return w.close()
}
