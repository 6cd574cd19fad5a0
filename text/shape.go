package text

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// runShaper lays out runes with go-text/typesetting's HarfBuzz port.
// Runs are shaped left to right; callers put text in visual order first.
type runShaper struct {
	mu     sync.Mutex // guards shaper and face, neither is safe for concurrent use
	shaper shaping.HarfbuzzShaper
	face   *font.Face
	size   float64
}

func newRunShaper(data []byte, pixels float64) (*runShaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font for shaping: %w", err)
	}
	return &runShaper{face: face, size: pixels}, nil
}

// positions returns the pen offset of each rune plus the run width. Runes
// merged into a preceding cluster, such as ligature tails, share the pen
// offset of the cluster start.
func (s *runShaper) positions(runes []rune) []float64 {
	pos := make([]float64, len(runes)+1)
	if len(runes) == 0 {
		return pos
	}

	s.mu.Lock()
	out := s.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      floatToFixed(s.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})
	s.mu.Unlock()

	seen := make([]bool, len(runes))
	x := 0.0
	for _, g := range out.Glyphs {
		i := g.TextIndex()
		if i >= 0 && i < len(runes) && !seen[i] {
			pos[i] = x + fixedToFloat(g.XOffset)
			seen[i] = true
		}
		x += fixedToFloat(g.Advance)
	}
	for i := 1; i < len(runes); i++ {
		if !seen[i] {
			pos[i] = pos[i-1]
		}
	}
	pos[len(runes)] = x
	return pos
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
