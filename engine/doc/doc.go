/*
Package doc holds the document model the typesetting core consumes and
mutates: Page, PdfParagraph, PdfFormula, PdfCharacter, and the
Composition variants a paragraph is made of. There is no element
hierarchy and no stylesheet cascade — a PDF translation pipeline works
on paragraphs made of runs of characters and formulas sitting in fixed
page geometry, and the model mirrors that flatness.
*/
package doc

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/cords"

	"github.com/foliotype/retype/core/font"
	"github.com/foliotype/retype/core/geom"
	"github.com/foliotype/retype/core/style"
)

// Transform is an affine translation-plus-uniform-scale matrix attached
// to relocated curves and forms. The original drawing geometry is never
// mutated; only this transform travels with it.
type Transform struct {
	Dx, Dy, Scale float64
}

// Identity is the no-op transform.
var Identity = Transform{Scale: 1}

// Apply maps a point through the transform.
func (t Transform) Apply(p geom.Point) geom.Point {
	return geom.Point{X: p.X*t.Scale + t.Dx, Y: p.Y*t.Scale + t.Dy}
}

// PdfCharacter is a single positioned glyph. Lifetime: created by the PDF
// parser upstream of the core, wholesale-replaced by the renderer for any
// paragraph it lays out.
type PdfCharacter struct {
	ID         string
	Unicode    rune
	Box        geom.Box
	Style      style.PdfStyle
	Scale      float64
	Vertical   bool
	Advance    float64
	XObjID     style.XObjID
	VisualBBox *geom.Box // tight ink bbox; nil if identical to Box

	MainRenderOrder int
	SubRenderOrder  int
}

// EffectiveBox returns the box used for layout purposes: VisualBBox's y
// extent if present, Box otherwise.
func (c PdfCharacter) EffectiveBox() geom.Box {
	if c.VisualBBox == nil {
		return c.Box
	}
	b := c.Box
	b.Y, b.Y2 = c.VisualBBox.Y, c.VisualBBox.Y2
	return b
}

// PdfCurve is a vector path belonging to a formula or standalone page
// graphic. retype treats its drawing data as opaque — only the box and an
// optional relocation transform are ever touched by the core.
type PdfCurve struct {
	Box                 geom.Box
	RelocationTransform *Transform
	Data                any // opaque geometry owned by the PDF layer
}

// PdfForm is an XObject-backed form (e.g. a formula rendered through a
// Type3/CID subform). Same opacity contract as PdfCurve.
type PdfForm struct {
	Box                 geom.Box
	XObjID              style.XObjID
	RelocationTransform *Transform
	Data                any
}

// PdfFormula is an embedded formula: its own characters, curves and forms,
// plus the pre-relocation offsets from its nominal origin to its content's
// top-left.
type PdfFormula struct {
	Box        geom.Box
	Characters []PdfCharacter
	Curves     []PdfCurve
	Forms      []PdfForm
	XOffset    float64
	YOffset    float64
	XAdvance   float64
}

// UnicodeRun is translated text awaiting glyph mapping: a same-style run
// of codepoints with no characters materialized yet. The text is held in
// a cords.Cord rather than a bare string so that later line-breaking can
// split long runs without repeated string copies.
type UnicodeRun struct {
	Text         cords.Cord
	Style        style.PdfStyle
	OriginalFont font.Font
	XObjID       style.XObjID
}

// NewUnicodeRun builds a UnicodeRun whose text is a single cord leaf.
func NewUnicodeRun(text string, sty style.PdfStyle, original font.Font, xobj style.XObjID) UnicodeRun {
	b := cords.NewBuilder()
	b.Append(textLeaf(text))
	return UnicodeRun{Text: b.Cord(), Style: sty, OriginalFont: original, XObjID: xobj}
}

// Runes returns the run's codepoints in order, concatenated across the
// cord's leaves.
func (r UnicodeRun) Runes() []rune {
	var sb strings.Builder
	r.Text.EachLeaf(func(l cords.Leaf, _ uint64) error {
		sb.WriteString(l.String())
		return nil
	})
	return []rune(sb.String())
}

// textLeaf is the cords.Leaf implementation backing UnicodeRun text: a
// plain, unstyled run of UTF-8 bytes. Styling lives on the UnicodeRun
// itself, not per-leaf, so the leaf carries nothing but text.
type textLeaf string

func (l textLeaf) Weight() uint64 { return uint64(utf8.RuneCountInString(string(l))) }
func (l textLeaf) String() string { return string(l) }

func (l textLeaf) Split(i uint64) (cords.Leaf, cords.Leaf) {
	s := string(l)
	// i counts runes, not bytes; walk to the i-th rune boundary.
	idx := runeIndexToByteIndex(s, int(i))
	return textLeaf(s[:idx]), textLeaf(s[idx:])
}

func (l textLeaf) Substring(i, j uint64) []byte {
	s := string(l)
	bi := runeIndexToByteIndex(s, int(i))
	bj := runeIndexToByteIndex(s, int(j))
	return []byte(s[bi:bj])
}

func runeIndexToByteIndex(s string, runeIdx int) int {
	if runeIdx <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runeIdx {
			return i
		}
		n++
	}
	return len(s)
}

var _ cords.Leaf = textLeaf("")

// CompositionKind discriminates the variants a Composition may hold.
type CompositionKind int

const (
	CompositionCharacter CompositionKind = iota
	CompositionSameStyleRun
	CompositionUnicodeRun
	CompositionLine
	CompositionFormula
)

// Composition is one ordered element of a paragraph's content: exactly
// one of a raw character, a same-style character run, a same-style
// unicode run awaiting glyph mapping, a prior layout's line, or a
// formula.
type Composition struct {
	Kind       CompositionKind
	Character  *PdfCharacter
	Run        []PdfCharacter
	UnicodeRun *UnicodeRun
	Line       []PdfCharacter
	Formula    *PdfFormula
}

// CharComposition builds a single-character composition.
func CharComposition(c PdfCharacter) Composition {
	return Composition{Kind: CompositionCharacter, Character: &c}
}

// RunComposition builds a same-style character run composition.
func RunComposition(run []PdfCharacter) Composition {
	return Composition{Kind: CompositionSameStyleRun, Run: run}
}

// UnicodeRunComposition builds a translated-text composition.
func UnicodeRunComposition(r UnicodeRun) Composition {
	return Composition{Kind: CompositionUnicodeRun, UnicodeRun: &r}
}

// FormulaComposition builds a formula composition.
func FormulaComposition(f PdfFormula) Composition {
	return Composition{Kind: CompositionFormula, Formula: &f}
}

// LooksLikeFormula reports whether a paragraph's content looks like a
// formula: it already contains a formula composition, its text contains a
// literal '=', or its text is at most 6 bytes long and contains a digit.
// The preprocess pass gives such paragraphs scale 1.0. Admittedly a
// fragile heuristic; it errs toward preserving geometry, which is the
// recoverable direction.
func LooksLikeFormula(compositions []Composition) bool {
	var text strings.Builder
	for _, c := range compositions {
		switch c.Kind {
		case CompositionFormula:
			return true
		case CompositionCharacter:
			text.WriteRune(c.Character.Unicode)
		case CompositionSameStyleRun:
			for _, ch := range c.Run {
				text.WriteRune(ch.Unicode)
			}
		case CompositionUnicodeRun:
			c.UnicodeRun.Text.EachLeaf(func(l cords.Leaf, _ uint64) error {
				text.WriteString(l.String())
				return nil
			})
		}
	}
	s := text.String()
	if strings.ContainsRune(s, '=') {
		return true
	}
	if len(s) <= 6 {
		digits := 0
		for _, r := range s {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits > 0 {
			return true
		}
	}
	return false
}

// PdfParagraph is a laid-out (or about-to-be-laid-out) paragraph.
type PdfParagraph struct {
	Box                   geom.Box
	Compositions          []Composition
	XObjID                style.XObjID
	FirstLineIndent       bool
	PreserveLineStructure bool
	RenderOrder           int
	OptimalScale          *float64
	Scale                 *float64
}

// Document is the full intermediate representation a translation job
// hands to the typesetter: pages in reading order.
type Document struct {
	Pages []*Page
}

// Paragraphs returns every paragraph of the document in page order,
// paired with its page. The preprocess pass iterates this flat view.
func (d *Document) Paragraphs() []PageParagraph {
	var out []PageParagraph
	for _, pg := range d.Pages {
		for _, p := range pg.Paragraphs {
			out = append(out, PageParagraph{Page: pg, Paragraph: p})
		}
	}
	return out
}

// PageParagraph pairs a paragraph with the page it lives on.
type PageParagraph struct {
	Page      *Page
	Paragraph *PdfParagraph
}

// Page is one page of the document: its crop box and every element type
// the layout reads or mutates.
type Page struct {
	CropBox    geom.Box
	Paragraphs []*PdfParagraph
	Characters []PdfCharacter
	Figures    []geom.Box
	Curves     []PdfCurve
	Forms      []PdfForm
	Fonts      map[style.FontID]font.Font
	XObjects   map[style.XObjID]struct{}
}

// AssignRenderOrder walks p's emitted characters in composition order and
// assigns MainRenderOrder = p.RenderOrder, SubRenderOrder = 1, 2, 3, ...
//. Only CompositionCharacter, CompositionSameStyleRun, and
// CompositionLine compositions carry emitted characters once rendering
// has replaced a paragraph's compositions with single-character ones;
// this walks whatever composition shape is present.
func AssignRenderOrder(p *PdfParagraph) {
	sub := 1
	assign := func(c *PdfCharacter) {
		c.MainRenderOrder = p.RenderOrder
		c.SubRenderOrder = sub
		sub++
	}
	for i := range p.Compositions {
		c := &p.Compositions[i]
		switch c.Kind {
		case CompositionCharacter:
			assign(c.Character)
		case CompositionSameStyleRun:
			for j := range c.Run {
				assign(&c.Run[j])
			}
		case CompositionLine:
			for j := range c.Line {
				assign(&c.Line[j])
			}
		}
	}
}
