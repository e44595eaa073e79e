// Package pdf implements the object model and low-level writer for
// PDF 1.4 files.
//
// A [Writer] accumulates indirect objects in append order and produces
// a single PDF file on [Writer.Close]: the object bodies, the
// cross-reference table, and the trailer. The package does not read
// existing PDF files; it is a producer only.
//
// The following types implement the [Object] interface and can be
// stored as (or nested inside) indirect objects:
//
//	Array
//	Boolean
//	Dict
//	HexString
//	Integer
//	Name
//	Real
//	Rectangle
//	Reference
//	String
package pdf
