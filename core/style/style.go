// Package style holds the small, immutable style records carried by
// characters and formulas: which font they use, at what size, and under
// what graphic state (color, render mode, clipping — whatever the PDF
// serializer downstream needs verbatim).
package style

// FontID identifies a font resource within a page's font table.
type FontID string

// XObjID identifies a page's XObject resource (used for formula forms and
// for characters drawn from a Type 3 / CID font that routes through an
// XObject).
type XObjID string

// GraphicState is an opaque bag of PDF graphic-state parameters (fill
// color, stroke color, render mode, clip...) that retype never interprets
// and only ever copies forward onto newly emitted characters. It is kept
// as a generic map rather than a closed struct because the core must not
// need to know the full PDF graphic-state vocabulary to do its job.
type GraphicState map[string]any

// Clone returns a shallow copy of gs.
func (gs GraphicState) Clone() GraphicState {
	if gs == nil {
		return nil
	}
	out := make(GraphicState, len(gs))
	for k, v := range gs {
		out[k] = v
	}
	return out
}

// PdfStyle is the immutable style of a single character: which font, at
// what size, under what graphic state.
type PdfStyle struct {
	FontID       FontID
	FontSize     float64
	GraphicState GraphicState
}

// WithFontSize returns a copy of s with the font size scaled by factor.
func (s PdfStyle) WithFontSize(factor float64) PdfStyle {
	s.FontSize *= factor
	return s
}

// WithFont returns a copy of s bound to a different font resource.
func (s PdfStyle) WithFont(id FontID) PdfStyle {
	s.FontID = id
	return s
}
