package sfnt

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SubsetPlan is the ordered oldGID -> newGID mapping produced by
// ResolveClosure. newGID 0 is always .notdef (oldGID 0); newGIDs are
// assigned in GID-emission order.
type SubsetPlan struct {
	OldGIDs      []uint16          // emission order, OldGIDs[newGID] == oldGID
	NewGID       map[uint16]uint16 // oldGID -> newGID
	RuneToNewGID map[rune]uint16   // requested code point -> newGID, for cmap/CIDToGIDMap synthesis
}

// Len reports the number of glyphs in the emitted subset.
func (p *SubsetPlan) Len() int { return len(p.OldGIDs) }

// ResolveClosure computes the glyph closure for runes: the primary
// GIDs reachable from runes via f.CharToGID, plus every GID
// transitively referenced by a compound glyph among them, with
// .notdef always first.
func ResolveClosure(f *Font, runes map[rune]bool) (*SubsetPlan, error) {
	type ordered struct {
		r   rune
		gid uint16
	}

	var primary []ordered
	seen := make(map[uint16]bool)
	seen[0] = true
	order := []uint16{0}

	// Callers are expected to have NFC-normalized their source text
	// before building runes (document.Page.ShowText does this), so a
	// precomposed code point and its decomposed form resolve to the
	// same cmap entry here rather than splitting the subset in two.
	sortedRunes := maps.Keys(runes)
	slices.Sort(sortedRunes)

	for _, r := range sortedRunes {
		gid, ok := f.CharToGID[r]
		if !ok {
			continue // missing code points are silently skipped
		}
		primary = append(primary, ordered{r: r, gid: gid})
		if !seen[gid] {
			seen[gid] = true
			order = append(order, gid)
		}
	}

	// Walk compound glyphs transitively, in queue order, appending any
	// newly discovered component GID.
	for i := 0; i < len(order); i++ {
		gid := order[i]
		data, err := f.GlyphData(int(gid))
		if err != nil {
			return nil, err
		}
		if data == nil {
			continue
		}
		nc, err := numberOfContours(data)
		if err != nil {
			return nil, err
		}
		if nc >= 0 {
			continue
		}
		components, err := parseComponents(data)
		if err != nil {
			return nil, err
		}
		for _, c := range components {
			if !seen[c.GID] {
				seen[c.GID] = true
				order = append(order, c.GID)
			}
		}
	}

	plan := &SubsetPlan{
		OldGIDs:      order,
		NewGID:       make(map[uint16]uint16, len(order)),
		RuneToNewGID: make(map[rune]uint16, len(primary)),
	}
	for newGID, oldGID := range order {
		plan.NewGID[oldGID] = uint16(newGID)
	}
	for _, p := range primary {
		plan.RuneToNewGID[p.r] = plan.NewGID[p.gid]
	}
	return plan, nil
}
