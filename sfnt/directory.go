package sfnt

import (
	"fmt"
	"sort"

	"golang.org/x/exp/slices"
)

const (
	versionTrueType = 0x00010000
	versionApple    = 0x74727565 // 'true'
)

// tableRecord is one entry of the sfnt table directory.
type tableRecord struct {
	Tag      string
	Checksum uint32
	Offset   uint32
	Length   uint32
}

// directory is the parsed table directory of an sfnt file.
type directory struct {
	data    []byte
	records map[string]tableRecord
}

func readDirectory(data []byte) (*directory, error) {
	r := newByteReader(data)

	version, err := r.u32()
	if err != nil {
		return nil, err
	}
	if version != versionTrueType && version != versionApple {
		return nil, errBadMagic
	}

	numTables, err := r.u16()
	if err != nil {
		return nil, err
	}
	// searchRange, entrySelector, rangeShift
	if _, err := r.bytes(6); err != nil {
		return nil, err
	}

	d := &directory{data: data, records: make(map[string]tableRecord, numTables)}
	type span struct{ start, end uint32 }
	var spans []span
	for i := 0; i < int(numTables); i++ {
		tag, err := r.tag()
		if err != nil {
			return nil, err
		}
		check, err := r.u32()
		if err != nil {
			return nil, err
		}
		offset, err := r.u32()
		if err != nil {
			return nil, err
		}
		length, err := r.u32()
		if err != nil {
			return nil, err
		}
		if int(offset)+int(length) > len(data) {
			return nil, corruptOffset(errTableOOB(tag))
		}
		d.records[tag] = tableRecord{Tag: tag, Checksum: check, Offset: offset, Length: length}
		spans = append(spans, span{offset, offset + length})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i-1].end > spans[i].start {
			return nil, corruptOffset(errOverlap)
		}
	}

	return d, nil
}

func (d *directory) has(tag string) bool {
	_, ok := d.records[tag]
	return ok
}

func (d *directory) table(tag string) ([]byte, bool) {
	rec, ok := d.records[tag]
	if !ok {
		return nil, false
	}
	return d.data[rec.Offset : rec.Offset+rec.Length], true
}

func (d *directory) mustTable(tag string) ([]byte, error) {
	b, ok := d.table(tag)
	if !ok {
		return nil, unsupportedFont(fmt.Errorf("table %q: %w", tag, errMissingTable))
	}
	return b, nil
}

// sortedTags returns the tags present in d, ASCII-ascending, as
// required when re-assembling a subset font (spec table-ordering
// rule).
func (d *directory) sortedTags() []string {
	tags := make([]string, 0, len(d.records))
	for t := range d.records {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}
