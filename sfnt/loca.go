package sfnt

import "fmt"

// parseLoca reads numGlyphs+1 offsets into the glyf table. Format 0
// offsets are stored /2 and must be doubled; format 1 offsets are
// stored directly.
func parseLoca(data []byte, numGlyphs int, longFormat bool) ([]uint32, error) {
	r := newByteReader(data)
	n := numGlyphs + 1
	offsets := make([]uint32, n)
	for i := 0; i < n; i++ {
		if longFormat {
			v, err := r.u32()
			if err != nil {
				return nil, badTable("loca", fmt.Errorf("offset %d: %w", i, err))
			}
			offsets[i] = v
		} else {
			v, err := r.u16()
			if err != nil {
				return nil, badTable("loca", fmt.Errorf("offset %d: %w", i, err))
			}
			offsets[i] = uint32(v) * 2
		}
	}
	return offsets, nil
}
