package font

import (
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/foliotype/retype/core/style"
)

// FaceFont adapts a golang.org/x/image/font.Face to the Font interface,
// for glyph sources without OpenType metrics (bitmap faces, test
// fixtures). A Face carries metrics at one fixed size; Advance rescales
// them linearly to the requested point size.
type FaceFont struct {
	id       style.FontID
	face     xfont.Face
	faceSize float64 // point size the face's metrics are valid at
}

// NewFaceFont wraps face, whose metrics are valid at faceSize points.
func NewFaceFont(id style.FontID, face xfont.Face, faceSize float64) *FaceFont {
	return &FaceFont{id: id, face: face, faceSize: faceSize}
}

// ID implements Font.
func (ff *FaceFont) ID() style.FontID { return ff.id }

// Advance implements Font, rescaling the face's fixed-size advance to the
// requested size.
func (ff *FaceFont) Advance(codepoint rune, size float64) float64 {
	adv, ok := ff.face.GlyphAdvance(codepoint)
	if !ok {
		return 0
	}
	return fixedToFloat(adv) / ff.faceSize * size
}

// GlyphID implements Font. A Face exposes no glyph indices, only
// coverage, so the codepoint itself stands in as the id for covered
// runes and 0 marks .notdef. A *basicfont.Face reports an advance for
// every rune, so its coverage is read from its Ranges table instead.
func (ff *FaceFont) GlyphID(codepoint rune) int {
	if bf, ok := ff.face.(*basicfont.Face); ok {
		covered := false
		for _, rng := range bf.Ranges {
			if rng.Low <= codepoint && codepoint < rng.High {
				covered = true
				break
			}
		}
		if !covered {
			return 0
		}
	} else if _, ok := ff.face.GlyphAdvance(codepoint); !ok {
		return 0
	}
	return int(codepoint)
}

func fixedToFloat(i fixed.Int26_6) float64 { return float64(i) / 64 }

var _ Font = (*FaceFont)(nil)
