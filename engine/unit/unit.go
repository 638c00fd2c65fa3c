/*
Package unit implements the typesetting unit: the atomic, transient
layout element the line breaker and scale search operate on. Every unit
is exactly one of three kinds — an existing character, an existing
formula, or a translated codepoint awaiting a glyph — each carrying its
own geometry and answering the layout predicates, which are computed by
engine/classify on every call rather than cached.

Unit is a closed, tagged interface, never an open hierarchy: the
operations over units (box, width, relocate, render, passthrough, the
classifier predicates) are exhaustively known in advance, and callers
switch on Kind.
*/
package unit

import (
	"fmt"

	"github.com/foliotype/retype/core/errs"
	"github.com/foliotype/retype/core/font"
	"github.com/foliotype/retype/core/geom"
	"github.com/foliotype/retype/core/style"
	"github.com/foliotype/retype/engine/classify"
	"github.com/foliotype/retype/engine/doc"
)

// Kind discriminates the three TypesettingUnit variants.
type Kind int8

const (
	KindChar Kind = iota
	KindFormula
	KindTranslated
)

// Unit is the closed set of operations every TypesettingUnit variant
// supports. Implementations are exhaustively pattern-matched by kind, not
// polymorphically dispatched beyond this interface.
type Unit interface {
	Kind() Kind
	Box() geom.Box
	Width() float64
	Height() float64
	CanPassthrough() bool
	CanBreakLine() bool
	IsCJK() bool
	IsSpace() bool
	IsHungPunctuation() bool
	IsLeadingPunctuation() bool
	IsMixedBlacklisted() bool
	// Unicode returns the unit's single codepoint for classifier
	// purposes. Formulas have no single codepoint and return 0, and are
	// always breakable.
	Unicode() rune

	// Relocate returns a copy of the unit positioned with bottom-left at
	// (x, y) and scaled by s.
	Relocate(x, y, s float64) Unit

	// Passthrough returns a unit's already-final geometry unchanged. It
	// is an error for a Translated unit, which must be Render()ed first.
	Passthrough() (chars []doc.PdfCharacter, curves []doc.PdfCurve, forms []doc.PdfForm, err error)

	// Render emits the unit's final PdfCharacters/curves/forms. For Char
	// and Formula units this delegates to Passthrough; for Translated
	// units it materializes a PdfCharacter from the mapped font.
	Render() (chars []doc.PdfCharacter, curves []doc.PdfCurve, forms []doc.PdfForm, err error)
}

// --- Char --------------------------------------------------------------

// Char wraps an existing, already-positioned PdfCharacter.
type Char struct {
	C doc.PdfCharacter
}

func NewChar(c doc.PdfCharacter) Char { return Char{C: c} }

func (u Char) Kind() Kind { return KindChar }

func (u Char) Box() geom.Box { return u.C.EffectiveBox() }

func (u Char) Width() float64 { return u.Box().Width() }

func (u Char) Height() float64 { return u.Box().Height() }

func (u Char) CanPassthrough() bool { return true }

func (u Char) Unicode() rune { return u.C.Unicode }

func (u Char) CanBreakLine() bool          { return classify.CanBreakLine(u.C.Unicode) }
func (u Char) IsCJK() bool                 { return classify.IsCJK(u.C.Unicode) }
func (u Char) IsSpace() bool               { return classify.IsSpace(u.C.Unicode) }
func (u Char) IsHungPunctuation() bool     { return classify.IsHungPunctuation(u.C.Unicode) }
func (u Char) IsLeadingPunctuation() bool  { return classify.IsLeadingPunctuation(u.C.Unicode) }
func (u Char) IsMixedBlacklisted() bool    { return classify.IsMixedBlacklisted(u.C.Unicode) }

// Relocate produces a new box (x, y, x+w*s, y+h*s) from the unit's
// current (pre-relocation) box — w, h are the unit's existing
// width/height, not renormalized against any scale the wrapped character
// already carries. ScaleSearch always relocates from the paragraph's
// original, unmodified units on every trial scale, so there is nothing
// to undo here.
func (u Char) Relocate(x, y, s float64) Unit {
	w, h := u.Width()*s, u.Height()*s
	nc := u.C
	nc.Box = geom.NewBox(x, y, x+w, y+h)
	nc.VisualBBox = nil
	nc.Style = nc.Style.WithFontSize(s)
	nc.Scale = s
	nc.Advance = nc.Advance * s
	return Char{C: nc}
}

func (u Char) Passthrough() ([]doc.PdfCharacter, []doc.PdfCurve, []doc.PdfForm, error) {
	return []doc.PdfCharacter{u.C}, nil, nil, nil
}

func (u Char) Render() ([]doc.PdfCharacter, []doc.PdfCurve, []doc.PdfForm, error) {
	return u.Passthrough()
}

var _ Unit = Char{}

// --- Formula -------------------------------------------------------------

// Formula wraps an existing PdfFormula.
type Formula struct {
	F doc.PdfFormula
}

func NewFormula(f doc.PdfFormula) Formula { return Formula{F: f} }

func (u Formula) Kind() Kind { return KindFormula }

func (u Formula) Box() geom.Box { return u.F.Box }

func (u Formula) Width() float64 { return u.F.Box.Width() }

func (u Formula) Height() float64 { return u.F.Box.Height() }

func (u Formula) CanPassthrough() bool { return true }

func (u Formula) Unicode() rune { return 0 }

// Formulas are breakable and carry none of the punctuation predicates:
// anything that is not a single character may start a new line.
func (u Formula) CanBreakLine() bool         { return true }
func (u Formula) IsCJK() bool                { return false }
func (u Formula) IsSpace() bool              { return false }
func (u Formula) IsHungPunctuation() bool    { return false }
func (u Formula) IsLeadingPunctuation() bool { return false }
func (u Formula) IsMixedBlacklisted() bool   { return false }

func (u Formula) Relocate(x, y, s float64) Unit {
	// Delegated to the FormulaRelocator by callers that
	// import engine/formula; Unit.Relocate here only repositions the
	// formula's outer box uniformly, for callers that don't need
	// baseline-preserving relocation (e.g. a structured/preserve-line-
	// structure paragraph that treats a formula as an opaque box).
	w, h := u.F.Box.Width()*s, u.F.Box.Height()*s
	nf := u.F
	nf.Box = geom.NewBox(x, y, x+w, y+h)
	return Formula{F: nf}
}

func (u Formula) Passthrough() ([]doc.PdfCharacter, []doc.PdfCurve, []doc.PdfForm, error) {
	return u.F.Characters, u.F.Curves, u.F.Forms, nil
}

func (u Formula) Render() ([]doc.PdfCharacter, []doc.PdfCurve, []doc.PdfForm, error) {
	return u.Passthrough()
}

var _ Unit = Formula{}

// --- Translated ------------------------------------------------------------

// Translated is a single translated codepoint awaiting glyph mapping. It
// carries no final geometry until Relocate has positioned it; Render then
// materializes exactly one PdfCharacter.
type Translated struct {
	Codepoint    rune
	MappedFont   font.Font
	OriginalFont font.Font
	FontSize     float64
	Style        style.PdfStyle
	XObjID       style.XObjID

	x, y, scale float64
	positioned  bool
}

// NewTranslated builds a translated unit. A nil mapped font is a
// programmer error, fatal for the paragraph, and returns an
// InputInvariantViolation; the style is taken as given and not checked.
func NewTranslated(codepoint rune, mapped font.Font, sty style.PdfStyle, xobj style.XObjID) (Translated, error) {
	if mapped == nil {
		return Translated{}, errs.New(errs.InputInvariantViolation, "translated unit for U+%04X has no mapped font", codepoint)
	}
	return Translated{
		Codepoint:  codepoint,
		MappedFont: mapped,
		FontSize:   sty.FontSize,
		Style:      sty,
		XObjID:     xobj,
	}, nil
}

func (u Translated) Kind() Kind { return KindTranslated }

func (u Translated) Box() geom.Box {
	w, h := u.Width(), u.Height()
	return geom.NewBox(u.x, u.y, u.x+w, u.y+h)
}

func (u Translated) Width() float64 {
	return u.MappedFont.Advance(u.Codepoint, u.FontSize*u.scaleOrOne())
}

func (u Translated) Height() float64 { return u.FontSize * u.scaleOrOne() }

func (u Translated) scaleOrOne() float64 {
	if !u.positioned {
		return 1
	}
	return u.scale
}

func (u Translated) CanPassthrough() bool { return false }

func (u Translated) Unicode() rune { return u.Codepoint }

func (u Translated) CanBreakLine() bool         { return classify.CanBreakLine(u.Codepoint) }
func (u Translated) IsCJK() bool                { return classify.IsCJK(u.Codepoint) }
func (u Translated) IsSpace() bool              { return classify.IsSpace(u.Codepoint) }
func (u Translated) IsHungPunctuation() bool    { return classify.IsHungPunctuation(u.Codepoint) }
func (u Translated) IsLeadingPunctuation() bool { return classify.IsLeadingPunctuation(u.Codepoint) }
func (u Translated) IsMixedBlacklisted() bool   { return classify.IsMixedBlacklisted(u.Codepoint) }

func (u Translated) Relocate(x, y, s float64) Unit {
	nu := u
	nu.x, nu.y, nu.scale = x, y, s
	nu.positioned = true
	return nu
}

func (u Translated) Passthrough() ([]doc.PdfCharacter, []doc.PdfCurve, []doc.PdfForm, error) {
	return nil, nil, nil, fmt.Errorf("unit: Translated U+%04X has no final geometry; call Render", u.Codepoint)
}

func (u Translated) Render() ([]doc.PdfCharacter, []doc.PdfCurve, []doc.PdfForm, error) {
	if !u.positioned {
		return nil, nil, nil, fmt.Errorf("unit: Translated U+%04X rendered before Relocate", u.Codepoint)
	}
	size := u.FontSize * u.scale
	w := u.MappedFont.Advance(u.Codepoint, size)
	c := doc.PdfCharacter{
		ID:      fmt.Sprintf("gid:%d", u.MappedFont.GlyphID(u.Codepoint)),
		Unicode: u.Codepoint,
		Box:     geom.NewBox(u.x, u.y, u.x+w, u.y+size),
		Style: style.PdfStyle{
			FontID:       u.MappedFont.ID(),
			FontSize:     size,
			GraphicState: u.Style.GraphicState,
		},
		Scale:   u.scale,
		Advance: w,
		XObjID:  u.XObjID,
	}
	return []doc.PdfCharacter{c}, nil, nil, nil
}

var _ Unit = Translated{}
