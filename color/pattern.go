package color

// Pattern is an 8x8 stipple. Row y is byte y counting from the most
// significant byte; within a row, bit (7 - x) selects the high color.
type Pattern uint64

// Named patterns.
const (
	PatternSolidHigh   Pattern = 0xFFFFFFFFFFFFFFFF
	PatternSolidLow    Pattern = 0
	PatternMixedColors Pattern = 0xAA55AA55AA55AA55
)

// NewPattern builds a pattern from eight rows, top row first.
func NewPattern(rows [8]uint8) Pattern {
	var p Pattern
	for _, r := range rows {
		p = p<<8 | Pattern(r)
	}
	return p
}

// Rows returns the eight rows of p, top row first.
func (p Pattern) Rows() [8]uint8 {
	var rows [8]uint8
	for y := range rows {
		rows[y] = p.Row(y)
	}
	return rows
}

// Row returns row y modulo 8.
func (p Pattern) Row(y int) uint8 {
	return uint8(p >> (56 - 8*uint(y&7)))
}

// IsHighColorAt reports whether the stipple selects the high color at
// (x, y). The pattern repeats every 8 pixels in both axes, including for
// negative coordinates.
func (p Pattern) IsHighColorAt(x, y int) bool {
	return p.Row(y)&(0x80>>uint(x&7)) != 0
}

// ColorAt returns high or low depending on the stipple bit at (x, y).
func (p Pattern) ColorAt(x, y int, high, low Color) Color {
	if p.IsHighColorAt(x, y) {
		return high
	}
	return low
}

// IsSolid reports whether p selects a single color everywhere.
func (p Pattern) IsSolid() bool {
	return p == PatternSolidHigh || p == PatternSolidLow
}
