package sfnt

import (
	"encoding/binary"
	"fmt"
)

const glyphHeaderLen = 10

const (
	flagArgsAreWords    = 0x0001
	flagMoreComponents  = 0x0020
	flagWeHaveAScale    = 0x0008
	flagWeHaveXYScale   = 0x0040
	flagWeHaveTwoByTwo  = 0x0080
)

// numberOfContours reads the first field of a glyph description. A
// zero-length glyph (loca[gid] == loca[gid+1]) has no outline at all;
// callers must check for that before calling this.
func numberOfContours(glyphData []byte) (int16, error) {
	if len(glyphData) < 2 {
		return 0, corruptOffset(fmt.Errorf("glyph record too short"))
	}
	return int16(binary.BigEndian.Uint16(glyphData[0:2])), nil
}

// glyphComponent is one component reference inside a compound glyph.
// GIDOffset is the byte offset, within the glyph's data, of the
// 16-bit glyph-index field, letting the subset builder overwrite it
// in place once new GIDs are assigned.
type glyphComponent struct {
	GID       uint16
	GIDOffset int
}

// parseComponents walks the component list of a compound glyph
// (numberOfContours < 0) and returns each component's GID together
// with its rewrite offset.
func parseComponents(glyphData []byte) ([]glyphComponent, error) {
	var components []glyphComponent
	pos := glyphHeaderLen
	for {
		if pos+4 > len(glyphData) {
			return nil, corruptOffset(fmt.Errorf("compound glyph component header truncated"))
		}
		flags := binary.BigEndian.Uint16(glyphData[pos : pos+2])
		gid := binary.BigEndian.Uint16(glyphData[pos+2 : pos+4])
		components = append(components, glyphComponent{GID: gid, GIDOffset: pos + 2})

		argsLen := 2
		if flags&flagArgsAreWords != 0 {
			argsLen = 4
		}
		transformLen := 0
		switch {
		case flags&flagWeHaveTwoByTwo != 0:
			transformLen = 8
		case flags&flagWeHaveXYScale != 0:
			transformLen = 4
		case flags&flagWeHaveAScale != 0:
			transformLen = 2
		}
		pos += 4 + argsLen + transformLen

		if flags&flagMoreComponents == 0 {
			break
		}
	}
	return components, nil
}

// rewriteComponents patches every component's glyph-index field in
// place using remap, which must cover every GID referenced.
func rewriteComponents(glyphData []byte, components []glyphComponent, remap map[uint16]uint16) {
	for _, c := range components {
		newGID := remap[c.GID]
		binary.BigEndian.PutUint16(glyphData[c.GIDOffset:c.GIDOffset+2], newGID)
	}
}
