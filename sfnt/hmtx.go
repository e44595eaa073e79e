package sfnt

import "fmt"

// longHorMetric is one entry of the 'hmtx' long-metrics array.
type longHorMetric struct {
	AdvanceWidth uint16
	Lsb          int16
}

// parseHmtx reads numberOfHMetrics long metrics followed, if
// numGlyphs is larger, by (numGlyphs - numberOfHMetrics) trailing lsb
// values that share the last advance width.
func parseHmtx(data []byte, numberOfHMetrics, numGlyphs int) ([]longHorMetric, error) {
	r := newByteReader(data)
	metrics := make([]longHorMetric, numGlyphs)

	var lastAdvance uint16
	for i := 0; i < numberOfHMetrics && i < numGlyphs; i++ {
		adv, err := r.u16()
		if err != nil {
			return nil, badTable("hmtx", fmt.Errorf("metric %d: %w", i, err))
		}
		lsb, err := r.i16()
		if err != nil {
			return nil, badTable("hmtx", fmt.Errorf("metric %d: %w", i, err))
		}
		metrics[i] = longHorMetric{adv, lsb}
		lastAdvance = adv
	}
	for i := numberOfHMetrics; i < numGlyphs; i++ {
		lsb, err := r.i16()
		if err != nil {
			return nil, badTable("hmtx", fmt.Errorf("trailing lsb %d: %w", i, err))
		}
		metrics[i] = longHorMetric{lastAdvance, lsb}
	}
	return metrics, nil
}

// advanceWidth returns the advance width for gid, per the sharing
// rule above (indices at or beyond numberOfHMetrics share the last
// advance width).
func advanceWidth(metrics []longHorMetric, gid int) uint16 {
	if gid < 0 {
		return 0
	}
	if gid >= len(metrics) {
		gid = len(metrics) - 1
	}
	if gid < 0 {
		return 0
	}
	return metrics[gid].AdvanceWidth
}
