package document

import pdf "go-papdf.dev/papdf"

// Standard page formats, in PDF points (1/72 inch). A4 is the
// default format for a new Document.
var (
	A3     = &pdf.Rectangle{URx: 841.890, URy: 1190.551}
	A4     = &pdf.Rectangle{URx: 595.276, URy: 841.890}
	A5     = &pdf.Rectangle{URx: 420.945, URy: 595.276}
	Letter = &pdf.Rectangle{URx: 612, URy: 792}
	Legal  = &pdf.Rectangle{URx: 612, URy: 1008}
)
