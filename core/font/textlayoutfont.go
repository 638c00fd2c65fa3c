package font

import (
	"fmt"
	"os"

	"github.com/benoitkugler/textlayout/fonts/truetype"

	"github.com/foliotype/retype/core/style"
)

// ScalableFont wraps a parsed OpenType/TrueType face, measuring through
// github.com/benoitkugler/textlayout rather than
// golang.org/x/image/font/sfnt so that CID/CJK fonts without a
// sfnt-parseable cmap still work.
type ScalableFont struct {
	id   style.FontID
	path string
	face *truetype.Font
	upem float64
}

// LoadScalableFont parses an OpenType/TrueType file and wraps it as a
// Font, keyed by id.
func LoadScalableFont(id style.FontID, path string) (*ScalableFont, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("font: open %s: %w", path, err)
	}
	defer f.Close()

	face, err := truetype.Parse(f, true)
	if err != nil {
		return nil, fmt.Errorf("font: parse %s: %w", path, err)
	}
	upem := float64(face.Upem())
	if upem == 0 {
		upem = 1000
	}
	return &ScalableFont{id: id, path: path, face: face, upem: upem}, nil
}

// ID implements Font.
func (sf *ScalableFont) ID() style.FontID { return sf.id }

// GlyphID implements Font, looking codepoint up in the face's cmap.
func (sf *ScalableFont) GlyphID(codepoint rune) int {
	gid, ok := sf.face.NominalGlyph(codepoint)
	if !ok {
		T().Debugf("font %s: no glyph for U+%04X", sf.id, codepoint)
		return 0
	}
	return int(gid)
}

// Advance implements Font: horizontal advance in font units, scaled to
// the requested point size via the face's units-per-em.
func (sf *ScalableFont) Advance(codepoint rune, size float64) float64 {
	gid, ok := sf.face.NominalGlyph(codepoint)
	if !ok {
		return 0
	}
	adv := float64(sf.face.HorizontalAdvance(gid))
	return adv / sf.upem * size
}

var _ Font = (*ScalableFont)(nil)
