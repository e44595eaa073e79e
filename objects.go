package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Object is implemented by every native PDF value that can be written
// as (or nested inside) an indirect object.
type Object interface {
	writeTo(w io.Writer) error
}

// Reference identifies an indirect object. Generation is always 0:
// this writer never rewrites an object once appended.
type Reference uint32

func (r Reference) writeTo(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d 0 R", uint32(r))
	return err
}

func (r Reference) String() string {
	return strconv.FormatUint(uint64(r), 10) + " 0 R"
}

// Boolean is a PDF boolean object.
type Boolean bool

func (b Boolean) writeTo(w io.Writer) error {
	if b {
		_, err := io.WriteString(w, "true")
		return err
	}
	_, err := io.WriteString(w, "false")
	return err
}

// Integer is a PDF integer object.
type Integer int64

func (x Integer) writeTo(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatInt(int64(x), 10))
	return err
}

// Real is a PDF real-number object.
type Real float64

func (x Real) writeTo(w io.Writer) error {
	_, err := io.WriteString(w, formatReal(float64(x)))
	return err
}

// Number is an alias used where either an Integer or a Real is
// acceptable; values are always emitted as PDF reals.
type Number = Real

func formatReal(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	// PDF numbers never carry an exponent; FormatFloat with 'f' never
	// produces one, so this is mostly documentation of that fact.
	return s
}

// Name is a PDF name object. The value holds the name without its
// leading slash; writeTo adds the slash.
type Name string

func (n Name) writeTo(w io.Writer) error {
	var b strings.Builder
	b.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		switch {
		case c == '#' || c <= 0x20 || c >= 0x7f || strings.IndexByte("()<>[]{}/%", c) >= 0:
			fmt.Fprintf(&b, "#%02X", c)
		default:
			b.WriteByte(c)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String is a PDF string object. It is always written as a literal
// string with minimal escaping; callers that need hex strings (e.g.
// for binary CMap ranges) should use HexString.
type String []byte

func (s String) writeTo(w io.Writer) error {
	var b strings.Builder
	b.WriteByte('(')
	for _, c := range s {
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	_, err := io.WriteString(w, b.String())
	return err
}

// HexString is a PDF string object written in <...> hex notation,
// suited to binary data. The content-stream CID strings and the
// ToUnicode CMap of this module are formatted directly and do not
// use it.
type HexString []byte

func (s HexString) writeTo(w io.Writer) error {
	var b strings.Builder
	b.WriteByte('<')
	fmt.Fprintf(&b, "%X", []byte(s))
	b.WriteByte('>')
	_, err := io.WriteString(w, b.String())
	return err
}

// Array is a PDF array object.
type Array []Object

func (a Array) writeTo(w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, x := range a {
		if i > 0 {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		if err := writeObject(w, x); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

// Dict is a PDF dictionary object. Keys are written in sorted order
// so output is deterministic; map iteration order is otherwise not
// semantically meaningful.
type Dict map[Name]Object

func (d Dict) writeTo(w io.Writer) error {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, string(k))
	}
	slices.Sort(keys)

	if _, err := io.WriteString(w, "<<"); err != nil {
		return err
	}
	for _, k := range keys {
		v := d[Name(k)]
		if v == nil {
			continue
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		if err := (Name(k)).writeTo(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		if err := writeObject(w, v); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n>>")
	return err
}

// Rectangle is a PDF rectangle object, [llx lly urx ury].
type Rectangle struct {
	LLx, LLy, URx, URy float64
}

func (r *Rectangle) writeTo(w io.Writer) error {
	a := Array{Real(r.LLx), Real(r.LLy), Real(r.URx), Real(r.URy)}
	return a.writeTo(w)
}

func writeObject(w io.Writer, obj Object) error {
	if obj == nil {
		_, err := io.WriteString(w, "null")
		return err
	}
	return obj.writeTo(w)
}
