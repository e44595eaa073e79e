package pdf

import (
	"fmt"
)

// ErrorKind classifies the fatal errors the core can return while
// building a document. All of these are fatal at document level: no
// partial output is ever flushed to disk.
type ErrorKind int

const (
	// ErrUnsupportedFont indicates non-sfnt input, a missing usable
	// cmap, or a required mandatory table absent from the font.
	ErrUnsupportedFont ErrorKind = iota + 1

	// ErrBadTable indicates malformed contents of a named sfnt table:
	// a version or magic-number mismatch in head, reservedPad != 0 in
	// a format 4 cmap subtable, or other inconsistent or truncated
	// table data (cmap segments, loca offsets, hmtx metrics).
	ErrBadTable

	// ErrCorruptOffset indicates an offset or length falls outside
	// the input blob.
	ErrCorruptOffset

	// ErrImageDecode indicates the external image collaborator
	// signalled a format mismatch.
	ErrImageDecode

	// ErrTooManyFonts indicates registration beyond 625 fonts.
	ErrTooManyFonts

	// ErrIoError indicates a filesystem read or write failed.
	ErrIoError
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupportedFont:
		return "UnsupportedFont"
	case ErrBadTable:
		return "BadTable"
	case ErrCorruptOffset:
		return "CorruptOffset"
	case ErrImageDecode:
		return "ImageDecode"
	case ErrTooManyFonts:
		return "TooManyFonts"
	case ErrIoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// BuildError is the error type returned for all fatal document-build
// failures. Table carries the offending sfnt table tag when Kind is
// ErrBadTable; it is empty otherwise.
type BuildError struct {
	Kind  ErrorKind
	Table string
	Err   error
}

func (e *BuildError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s(%q): %v", e.Kind, e.Table, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func badTable(tag string, err error) error {
	return &BuildError{Kind: ErrBadTable, Table: tag, Err: err}
}

func unsupportedFont(err error) error {
	return &BuildError{Kind: ErrUnsupportedFont, Err: err}
}

func corruptOffset(err error) error {
	return &BuildError{Kind: ErrCorruptOffset, Err: err}
}

// Wrap attaches context to err using the same style the rest of the
// package uses for internal error propagation.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
