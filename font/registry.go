package font

import (
	"fmt"

	pdf "go-papdf.dev/papdf"
	"go-papdf.dev/papdf/sfnt"
)

// maxUsableCodePoint is the highest Unicode code point the text layer
// will forward; anything above this is dropped silently.
const maxUsableCodePoint = 0x2FFFF

// State is a registered font's position in its embedding lifecycle.
type State int

const (
	StateRegistered State = iota
	StateUsed
	StateEmbedded
	StateReferenced
)

// stockNames lists the four Helvetica variants recognised by name;
// none of them are embedded.
var stockNames = map[string]bool{
	"Helvetica":              true,
	"Helvetica-Bold":         true,
	"Helvetica-Italic":       true,
	"Helvetica-BoldItalic":   true,
}

// Registration tracks one font the caller has registered with a
// Document, from first registration through embedding.
type Registration struct {
	Name   string
	ID     int
	Stock  bool
	source []byte

	UsedChars map[rune]bool
	State     State

	Ref pdf.Reference // valid once State >= StateEmbedded

	parsed *sfnt.Font // lazily populated by Parsed
}

// Parsed returns the cached parse of the font's source bytes,
// performing the parse on first call only.
func (r *Registration) Parsed() (*sfnt.Font, error) {
	if r.Stock {
		return nil, fmt.Errorf("papdf: stock font %q has no embedded outline", r.Name)
	}
	if r.parsed == nil {
		f, err := sfnt.Parse(r.source)
		if err != nil {
			return nil, err
		}
		r.parsed = f
	}
	return r.parsed, nil
}

// Registry assigns dense ids to registered fonts and tracks their
// embedding lifecycle.
type Registry struct {
	byName map[string]*Registration
	order  []*Registration
}

// NewRegistry creates a Registry with Helvetica pre-registered as
// font id 0; Helvetica needs no embedding.
func NewRegistry() *Registry {
	reg := &Registry{byName: make(map[string]*Registration)}
	helv := &Registration{Name: "Helvetica", ID: 0, Stock: true, State: StateRegistered}
	reg.byName["Helvetica"] = helv
	reg.order = append(reg.order, helv)
	return reg
}

// Register adds a font by name. Stock Helvetica variants need no
// source bytes; any other name is treated as an embeddable TrueType
// font and source must hold the raw font file bytes.
func (reg *Registry) Register(name string, source []byte) (*Registration, error) {
	if existing, ok := reg.byName[name]; ok {
		return existing, nil
	}
	if len(reg.order) >= MaxFonts {
		return nil, &pdf.BuildError{Kind: pdf.ErrTooManyFonts, Err: fmt.Errorf("cannot register %q: limit of %d fonts reached", name, MaxFonts)}
	}

	r := &Registration{
		Name:  name,
		ID:    len(reg.order),
		Stock: stockNames[name],
		State: StateRegistered,
	}
	if !r.Stock {
		r.source = source
		r.UsedChars = make(map[rune]bool)
	}
	reg.byName[name] = r
	reg.order = append(reg.order, r)
	return r, nil
}

// Use records that codePoints must render in the font named name,
// advancing it to StateUsed. Out-of-range code points are dropped
// silently.
func (reg *Registry) Use(name string, codePoints []rune) error {
	r, ok := reg.byName[name]
	if !ok {
		return fmt.Errorf("papdf: font %q not registered", name)
	}
	if r.Stock {
		return nil
	}
	for _, c := range codePoints {
		if c > maxUsableCodePoint {
			continue
		}
		r.UsedChars[c] = true
	}
	if len(r.UsedChars) > 0 && r.State == StateRegistered {
		r.State = StateUsed
	}
	return nil
}

// All returns every registration in registration order (Helvetica
// first).
func (reg *Registry) All() []*Registration {
	return reg.order
}

// Lookup returns the registration named name, if any.
func (reg *Registry) Lookup(name string) (*Registration, bool) {
	r, ok := reg.byName[name]
	return r, ok
}
