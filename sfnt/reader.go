// Package sfnt parses TrueType/sfnt font files and rewrites them into
// minimal, self-consistent subsets suitable for embedding in a PDF.
package sfnt

import (
	"encoding/binary"
	"fmt"

	pdf "go-papdf.dev/papdf"
)

func corruptOffset(err error) error {
	return &pdf.BuildError{Kind: pdf.ErrCorruptOffset, Err: err}
}

func badTable(tag string, err error) error {
	return &pdf.BuildError{Kind: pdf.ErrBadTable, Table: tag, Err: err}
}

func unsupportedFont(err error) error {
	return &pdf.BuildError{Kind: pdf.ErrUnsupportedFont, Err: err}
}

// byteReader provides bounds-checked, big-endian reads over an
// in-memory font blob. Every read advances an implicit position; seek
// allows random access for table parsing.
type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader {
	return &byteReader{data: data}
}

func (r *byteReader) seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return corruptOffset(fmt.Errorf("seek to %d out of range [0,%d]", pos, len(r.data)))
	}
	r.pos = pos
	return nil
}

func (r *byteReader) tell() int { return r.pos }

func (r *byteReader) need(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return corruptOffset(fmt.Errorf("read of %d bytes at offset %d exceeds length %d", n, r.pos, len(r.data)))
	}
	return nil
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) tag() (string, error) {
	b, err := r.bytes(4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *byteReader) u8() (uint8, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) u16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *byteReader) i16() (int16, error) {
	v, err := r.u16()
	return int16(v), err
}

func (r *byteReader) u32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *byteReader) i32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

func (r *byteReader) u64() (uint64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// fixed is a 16.16 fixed-point value as used for table version fields.
type fixed uint32

// major reports the integer (major-version) part of a fixed value;
// the fractional part is discarded.
func (f fixed) major() uint16 {
	return uint16(f >> 16)
}

func (r *byteReader) fixed() (fixed, error) {
	v, err := r.u32()
	return fixed(v), err
}

// epochOffsetDays is the offset between the TrueType long date-time
// epoch (1904-01-01 UTC) and the Unix epoch (1970-01-01 UTC).
const epochOffsetDays = 24107

const secondsPerDay = 24 * 60 * 60

// longDateTime reads a TrueType long date-time (seconds since
// 1904-01-01 UTC) and returns the corresponding Unix timestamp.
func (r *byteReader) longDateTime() (int64, error) {
	v, err := r.u64()
	if err != nil {
		return 0, err
	}
	return int64(v) - epochOffsetDays*secondsPerDay, nil
}

// checksum implements the sfnt checksum algorithm: the 32-bit modular
// sum of big-endian u32 words over data, zero-padding data to a
// multiple of 4 bytes first.
// https://docs.microsoft.com/en-us/typography/opentype/spec/otff#calculating-checksums
func checksum(data []byte) uint32 {
	var sum uint32
	n := len(data)
	full := n - n%4
	for i := 0; i < full; i += 4 {
		sum += binary.BigEndian.Uint32(data[i : i+4])
	}
	if rem := n - full; rem > 0 {
		var buf [4]byte
		copy(buf[:], data[full:])
		sum += binary.BigEndian.Uint32(buf[:])
	}
	return sum
}

var errBadMagic = unsupportedFont(fmt.Errorf("not a TrueType font (bad sfnt version)"))
