package text

// Face maps runes to glyph coverage.
//
// Implementations in this package are safe for concurrent use.
type Face interface {
	// Glyph returns the coverage for r. ok is false when the face has no
	// glyph for r; the returned glyph then still carries an advance.
	Glyph(r rune) (g Glyph, ok bool)

	// Advance returns the pen advance for r in pixels.
	Advance(r rune) float64

	// Kern returns the adjustment between prev and r in pixels.
	Kern(prev, r rune) float64

	// Metrics returns the vertical metrics of the face.
	Metrics() Metrics
}

// Positioner is implemented by faces that lay out a whole run at once,
// for example with a shaping engine.
type Positioner interface {
	// Positions returns the pen x offset of every rune relative to the
	// start of the run, followed by the total run width.
	Positions(runes []rune) []float64
}

// Metrics holds vertical font metrics in pixels. Descent is positive.
type Metrics struct {
	Ascent  float64
	Descent float64
	Height  float64
}

// Layout returns the pen offset of each rune in runes relative to the
// start of the run, plus the total width as the final element. Faces that
// implement Positioner lay out the run themselves; others sum advances
// and kerning.
func Layout(f Face, runes []rune) []float64 {
	if p, ok := f.(Positioner); ok {
		if pos := p.Positions(runes); len(pos) == len(runes)+1 {
			return pos
		}
	}
	pos := make([]float64, len(runes)+1)
	x := 0.0
	for i, r := range runes {
		if i > 0 {
			x += f.Kern(runes[i-1], r)
		}
		pos[i] = x
		x += f.Advance(r)
	}
	pos[len(runes)] = x
	return pos
}

// Width returns the width of s in pixels with no escapement applied.
func Width(f Face, s string) float64 {
	runes := []rune(s)
	return Layout(f, runes)[len(runes)]
}
