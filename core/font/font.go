/*
Package font defines the FontMapper collaborator the typesetting core
consumes: a way to turn a translated codepoint plus the character's
original font into a font the glyph can actually be drawn with, and a
way to measure that glyph once mapped.

The core never parses font files itself — it only calls through this
interface — but a real deployment needs at least one concrete
implementation, so this package also provides one backed by
github.com/benoitkugler/textlayout, plus a golang.org/x/image/font
adapter and a github.com/flopp/go-findfont system-font search that
locates the families named in the default mapper's alias table.
*/
package font

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/foliotype/retype/core/style"
)

// T traces to the global core tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// Font is the minimal surface the typesetting core needs from a resolved
// font: an advance width for a codepoint at a given size, and a glyph id
// to stamp into the emitted PDF character's content stream.
type Font interface {
	ID() style.FontID
	// Advance returns the horizontal advance of codepoint at the given
	// point size, in PDF user-space units.
	Advance(codepoint rune, size float64) float64
	// GlyphID returns the glyph index codepoint maps to in this font's
	// cmap. Implementations return 0 (.notdef) if there is no mapping.
	GlyphID(codepoint rune) int
}

// FontMapper resolves the font a translated codepoint should be rendered
// with, given the font the original (untranslated) character used. The
// core calls it and makes no assumption about how it resolves fonts.
type FontMapper interface {
	// Map returns the font to use for codepoint, given the style's
	// original font. ok is false if no font supports codepoint at all,
	// which the core treats as errs.FontMappingMissing.
	Map(original Font, codepoint rune) (mapped Font, ok bool)
	// BaseFont returns the mapper's default/fallback font, used for
	// units that carry no more specific style (e.g. inserted glue).
	BaseFont() Font
}
