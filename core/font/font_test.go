package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font/basicfont"

	"github.com/foliotype/retype/core/style"
)

// stubFont is a minimal Font used to exercise FontMapper implementations
// without touching the filesystem or a real font parser.
type stubFont struct {
	id    style.FontID
	glyph map[rune]int
}

func (s stubFont) ID() style.FontID { return s.id }
func (s stubFont) Advance(r rune, size float64) float64 {
	if _, ok := s.glyph[r]; !ok {
		return 0
	}
	return size * 0.6
}
func (s stubFont) GlyphID(r rune) int { return s.glyph[r] }

// stubMapper mirrors DefaultFontMapper's decision order (keep the
// original font if it already covers the codepoint, else fall back) but
// over in-memory stub fonts, so the mapping policy can be tested in
// isolation from font loading.
type stubMapper struct {
	fallback Font
}

func (m stubMapper) BaseFont() Font { return m.fallback }

func (m stubMapper) Map(original Font, codepoint rune) (Font, bool) {
	if original != nil && original.GlyphID(codepoint) != 0 {
		return original, true
	}
	if m.fallback != nil && m.fallback.GlyphID(codepoint) != 0 {
		return m.fallback, true
	}
	return nil, false
}

var _ FontMapper = stubMapper{}

func TestFontMapperPrefersOriginal(t *testing.T) {
	original := stubFont{id: "Embedded", glyph: map[rune]int{'a': 3}}
	mapper := stubMapper{fallback: stubFont{id: "Fallback"}}
	mapped, ok := mapper.Map(original, 'a')
	assert.True(t, ok)
	assert.Equal(t, style.FontID("Embedded"), mapped.ID())
}

func TestFontMapperFallsBackWhenOriginalLacksGlyph(t *testing.T) {
	original := stubFont{id: "Embedded", glyph: map[rune]int{'a': 3}}
	fallback := stubFont{id: "Fallback", glyph: map[rune]int{'z': 9}}
	mapper := stubMapper{fallback: fallback}
	mapped, ok := mapper.Map(original, 'z')
	assert.True(t, ok)
	assert.Equal(t, style.FontID("Fallback"), mapped.ID())
}

func TestFontMapperMissing(t *testing.T) {
	original := stubFont{id: "Embedded", glyph: map[rune]int{'a': 3}}
	mapper := stubMapper{fallback: stubFont{id: "Fallback", glyph: map[rune]int{}}}
	_, ok := mapper.Map(original, 'ก')
	assert.False(t, ok)
}

func TestFaceFontMetrics(t *testing.T) {
	// Face7x13 advances every covered glyph by 7px at its native 13px.
	ff := NewFaceFont("basic", basicfont.Face7x13, 13)
	assert.InDelta(t, 7.0, ff.Advance('A', 13), 1e-9)
	assert.InDelta(t, 14.0, ff.Advance('A', 26), 1e-9)
	assert.NotZero(t, ff.GlyphID('A'))
	assert.Zero(t, ff.GlyphID('界')) // outside the face's ASCII coverage
}

func TestDefaultFontMapperAliasLookup(t *testing.T) {
	m := NewDefaultFontMapper(nil, map[string]string{"SimSun": "noto sans cjk sc"})
	canon, ok := m.lookupAlias("simsun")
	assert.True(t, ok)
	assert.Equal(t, "noto sans cjk sc", canon)

	_, ok = m.lookupAlias("unknown-family")
	assert.False(t, ok)
}
