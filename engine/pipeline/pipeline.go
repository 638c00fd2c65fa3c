/*
Package pipeline drives the typesetting engine over a whole document:
preprocess every paragraph for its optimal scale (in parallel, the pass
is read-only), harmonize the scales to the document-wide mode, then
render page by page — overlap correction, scale search with box
expansion, formula relocation and render-order assignment.

The package owns no layout math of its own; it sequences the passes and
carries the error policy.
*/
package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"

	"github.com/foliotype/retype/core/errs"
	"github.com/foliotype/retype/core/font"
	"github.com/foliotype/retype/engine/doc"
	"github.com/foliotype/retype/engine/formula"
	"github.com/foliotype/retype/engine/layout"
	"github.com/foliotype/retype/engine/overlap"
	"github.com/foliotype/retype/engine/spaceprobe"
	"github.com/foliotype/retype/engine/unit"
)

// T traces to the global engine tracer.
func T() tracing.Trace {
	return gtrace.EngineTracer
}

// Config is the slice of the translation configuration the typesetter
// reads: the output language (which decides line skip and English-break
// behavior) and the preprocess worker count.
type Config struct {
	LangOut string
	// Workers bounds the preprocess pool; values below 1 mean sequential.
	Workers int
}

// Typesetter reflows a translated document back onto its page geometry.
type Typesetter struct {
	Mapper font.FontMapper
	Config Config
}

// IsCJKTarget reports whether lang (a BCP-47 code, regional variants
// included) is a CJK output language, i.e. its base language is Chinese,
// Japanese or Korean. Unparseable codes count as non-CJK.
func IsCJKTarget(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	switch base.String() {
	case "zh", "ja", "ko":
		return true
	}
	return false
}

// TypesetDocument runs the full per-document flow: preprocess all
// paragraphs, clamp their scales to the document mode, then render each
// page sequentially. Cancellation is checked once per page and surfaces
// as ctx.Err(); everything else is recovered per paragraph
// or per page and the document is always fully emitted.
func (ts *Typesetter) TypesetDocument(ctx context.Context, d *doc.Document) error {
	ts.Preprocess(ctx, d)
	modeScale := ModeScale(d, ts.Mapper)
	ClampScales(d, modeScale)
	T().Infof("document mode scale %.2f over %d page(s)", modeScale, len(d.Pages))

	cjk := IsCJKTarget(ts.Config.LangOut)
	for _, page := range d.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := overlap.CorrectPage(page); err != nil {
			T().Errorf("%v; rendering page uncorrected", err)
		}
		for _, p := range page.Paragraphs {
			ts.renderParagraph(page, p, cjk)
		}
	}
	return nil
}

// Preprocess computes every paragraph's optimal scale without touching
// page state. Each paragraph only reads page geometry and writes its own
// OptimalScale, so the pass runs over a bounded worker pool when
// Config.Workers allows. A paragraph whose preprocess panics falls back
// to scale 1.0.
func (ts *Typesetter) Preprocess(ctx context.Context, d *doc.Document) {
	jobs := d.Paragraphs()
	workers := ts.Config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		for _, j := range jobs {
			if ctx.Err() != nil {
				return
			}
			ts.preprocessParagraph(j.Page, j.Paragraph)
		}
		return
	}

	ch := make(chan doc.PageParagraph)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ch {
				ts.preprocessParagraph(j.Page, j.Paragraph)
			}
		}()
	}
	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		ch <- j
	}
	close(ch)
	wg.Wait()
}

func (ts *Typesetter) preprocessParagraph(page *doc.Page, p *doc.PdfParagraph) {
	defer func() {
		if r := recover(); r != nil {
			one := 1.0
			p.OptimalScale = &one
			T().Errorf("%v: %v; falling back to scale 1.0", errs.PreScaleFailure, r)
		}
	}()

	units, err := BuildUnits(p, ts.Mapper)
	if err != nil || len(units) == 0 {
		one := 1.0
		p.OptimalScale = &one
		if err != nil {
			T().Errorf("preprocess: %v; paragraph skipped", err)
		}
		return
	}
	// Passthrough-only, structured and formula-like paragraphs skip the
	// search here and contribute 1.0 to the document statistic.
	if allPassthrough(units) || p.PreserveLineStructure || doc.LooksLikeFormula(p.Compositions) {
		one := 1.0
		p.OptimalScale = &one
		return
	}

	cjk := IsCJKTarget(ts.Config.LangOut)
	search := layout.ScaleSearch{Prober: spaceprobe.New(page, p)}
	res := search.Find(units, p.Box, 1.0, layout.LineSkip(cjk), ts.flags(p, cjk))
	scale := res.Scale
	p.OptimalScale = &scale
}

func (ts *Typesetter) flags(p *doc.PdfParagraph, cjk bool) layout.ParagraphFlags {
	return layout.ParagraphFlags{
		FirstLineIndent: p.FirstLineIndent,
		EnglishBreak:    !cjk,
		BaseFont:        ts.Mapper.BaseFont(),
		BaseFontSize:    baseFontSize(p),
	}
}

// ModeScale computes the document-wide mode of the paragraphs' optimal
// scales, each weighted by its unit count. Ties go to the minimum scale;
// a multiset with no repeated value falls back to the weighted median;
// an empty document yields 1.0.
func ModeScale(d *doc.Document, mapper font.FontMapper) float64 {
	weights := make(map[float64]int)
	type entry struct {
		scale  float64
		weight int
	}
	var entries []entry
	total := 0
	for _, j := range d.Paragraphs() {
		p := j.Paragraph
		if p.OptimalScale == nil {
			continue
		}
		units, err := BuildUnits(p, mapper)
		if err != nil {
			continue
		}
		w := unitWeight(units)
		if w == 0 {
			continue
		}
		weights[*p.OptimalScale] += w
		entries = append(entries, entry{*p.OptimalScale, w})
		total += w
	}
	if total == 0 {
		return 1.0
	}

	best, bestCount := 0.0, 0
	for s, c := range weights {
		if c > bestCount || (c == bestCount && s < best) {
			best, bestCount = s, c
		}
	}
	if bestCount > 1 {
		return best
	}

	// Every scale occurred exactly once: no mode, use the weighted median.
	sort.Slice(entries, func(a, b int) bool { return entries[a].scale < entries[b].scale })
	half := total / 2
	acc := 0
	for _, e := range entries {
		acc += e.weight
		if acc > half {
			return e.scale
		}
	}
	return entries[len(entries)-1].scale
}

// ClampScales caps every paragraph's optimal scale at the document
// mode. Idempotent: a second pass with the same mode changes nothing.
func ClampScales(d *doc.Document, modeScale float64) {
	for _, j := range d.Paragraphs() {
		p := j.Paragraph
		if p.OptimalScale != nil && *p.OptimalScale > modeScale {
			s := modeScale
			p.OptimalScale = &s
		}
	}
}

// renderParagraph lays a single paragraph out at (at most) its clamped
// optimal scale and commits the result: new box, flat single-character
// compositions, relocated formulas appended to the page's curve/form
// lists, render order assigned. Every failure here is contained to the
// paragraph.
func (ts *Typesetter) renderParagraph(page *doc.Page, p *doc.PdfParagraph, cjk bool) {
	units, err := BuildUnits(p, ts.Mapper)
	if err != nil {
		T().Errorf("render: %v; paragraph left untouched", err)
		return
	}
	if len(units) == 0 {
		return
	}

	// Paragraphs whose geometry is already final — structured paragraphs
	// and pure passthrough content — are emitted unchanged at scale 1.0.
	// A paragraph never reflows across lines once PreserveLineStructure
	// is set, even when some of its content was replaced.
	if p.PreserveLineStructure || allPassthrough(units) {
		ts.emitPassthrough(page, p, units)
		return
	}

	initial := 1.0
	if p.OptimalScale != nil {
		initial = *p.OptimalScale
	}
	search := layout.ScaleSearch{Prober: spaceprobe.New(page, p)}
	res := search.Find(units, p.Box, initial, layout.LineSkip(cjk), ts.flags(p, cjk))
	if res.Infeasible {
		T().Errorf("%v: paragraph still overflows at scale %.2f; committing anyway", errs.LayoutInfeasible, res.Scale)
	}

	p.Box = res.Box
	scale := res.Scale
	p.Scale = &scale

	comps := make([]doc.Composition, 0, len(res.Positioned))
	for i, pos := range res.Positioned {
		if pos.Kind() == unit.KindFormula {
			orig := units[i].(unit.Formula)
			b := pos.Box()
			rf := formula.Relocate(orig.F, b.X, b.Y, scale)
			for _, ch := range rf.Characters {
				comps = append(comps, doc.CharComposition(ch))
			}
			page.Curves = append(page.Curves, rf.Curves...)
			page.Forms = append(page.Forms, rf.Forms...)
			continue
		}
		chars, curves, forms, err := pos.Render()
		if err != nil {
			T().Errorf("render: %v; unit dropped", err)
			continue
		}
		for _, ch := range chars {
			comps = append(comps, doc.CharComposition(ch))
		}
		page.Curves = append(page.Curves, curves...)
		page.Forms = append(page.Forms, forms...)
	}
	p.Compositions = comps
	doc.AssignRenderOrder(p)
}

// emitPassthrough re-emits a paragraph's units with their existing
// geometry: scale 1.0, boxes untouched.
func (ts *Typesetter) emitPassthrough(page *doc.Page, p *doc.PdfParagraph, units []unit.Unit) {
	comps := make([]doc.Composition, 0, len(units))
	for _, u := range units {
		if !u.CanPassthrough() {
			// A translated unit inside a structured paragraph keeps its
			// nominal position at scale 1.0.
			u = u.Relocate(u.Box().X, u.Box().Y, 1.0)
		}
		chars, curves, forms, err := u.Render()
		if err != nil {
			T().Errorf("passthrough: %v; unit dropped", err)
			continue
		}
		for _, ch := range chars {
			comps = append(comps, doc.CharComposition(ch))
		}
		page.Curves = append(page.Curves, curves...)
		page.Forms = append(page.Forms, forms...)
	}
	one := 1.0
	p.Scale = &one
	p.Compositions = comps
	doc.AssignRenderOrder(p)
}
