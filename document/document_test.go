package document

import (
	"bytes"
	"strings"
	"testing"
)

func TestEmptyDocumentProducesMinimalPDF(t *testing.T) {
	doc := New("Untitled")
	var out bytes.Buffer
	if err := doc.Close(&out); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s := out.String()
	if !strings.HasPrefix(s, "%PDF-1.4\n") {
		t.Fatalf("output does not start with the PDF-1.4 header: %q", s[:min(20, len(s))])
	}
	if !strings.Contains(s, "/Type /Pages") {
		t.Error("missing /Pages object")
	}
	// New seeds a single blank page of the default format, so even a
	// document nothing was drawn on has exactly one page.
	if !strings.Contains(s, "/Count 1") {
		t.Error("expected /Count 1 for the seeded default blank page")
	}
	// Helvetica is always embedded as a non-embedded Type1 reference,
	// even when nothing was drawn.
	if !strings.Contains(s, "/BaseFont /Helvetica") {
		t.Error("expected a Helvetica font resource even in an empty document")
	}
	if !strings.Contains(s, "trailer") || !strings.Contains(s, "startxref") {
		t.Error("missing xref trailer")
	}
}

func TestClosingTwiceErrors(t *testing.T) {
	doc := New("Untitled")
	var out bytes.Buffer
	if err := doc.Close(&out); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := doc.Close(&out); err == nil {
		t.Fatal("second Close should error")
	}
}

func TestAddPageAndShowTextWithStockFont(t *testing.T) {
	doc := New("Report")
	// New already seeded one blank page; this adds a second.
	page := doc.AddPage(nil)
	if err := page.ShowText("Helvetica", 12, 72, 700, "Hello, world"); err != nil {
		t.Fatalf("ShowText: %v", err)
	}

	w, err := page.WidthOf("Helvetica", 12, "Hello, world")
	if err != nil {
		t.Fatalf("WidthOf: %v", err)
	}
	if w <= 0 {
		t.Errorf("WidthOf = %v, want > 0", w)
	}

	var out bytes.Buffer
	if err := doc.Close(&out); err != nil {
		t.Fatalf("Close: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "/Count 2") {
		t.Error("expected the seeded page plus the explicitly added one")
	}
	if !strings.Contains(s, "MediaBox") {
		t.Error("missing MediaBox on the page dict")
	}
}

func TestAddPageDefaultFormatIsA4(t *testing.T) {
	doc := New("Report")
	p := doc.AddPage(nil)
	if p.accum.format != A4 {
		t.Errorf("default page format = %v, want A4", p.accum.format)
	}
}
