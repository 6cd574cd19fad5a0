package text

import (
	"golang.org/x/text/unicode/bidi"
)

// VisualOrder returns the runes of s in display order. Right-to-left runs
// are reversed and the runs are placed in visual sequence. Strings the
// bidi algorithm cannot process are returned in logical order.
func VisualOrder(s string) []rune {
	if s == "" {
		return nil
	}
	if !hasRTL(s) {
		return []rune(s)
	}

	var p bidi.Paragraph
	if _, err := p.SetString(s); err != nil {
		return []rune(s)
	}
	ordering, err := p.Order()
	if err != nil {
		return []rune(s)
	}

	out := make([]rune, 0, len(s))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		str := run.String()
		if run.Direction() == bidi.RightToLeft {
			str = bidi.ReverseString(str)
		}
		out = append(out, []rune(str)...)
	}
	return out
}

// hasRTL reports whether s contains any strong right-to-left rune.
func hasRTL(s string) bool {
	for _, r := range s {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return true
		}
	}
	return false
}
