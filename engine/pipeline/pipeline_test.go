package pipeline

import (
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliotype/retype/core/font"
	"github.com/foliotype/retype/core/geom"
	"github.com/foliotype/retype/core/style"
	"github.com/foliotype/retype/engine/doc"
)

type stubFont struct {
	id style.FontID
}

func (f stubFont) ID() style.FontID { return f.id }

// Advance makes every glyph an em wide, so a 10pt glyph is 10pt wide.
func (f stubFont) Advance(codepoint rune, size float64) float64 { return size }

func (f stubFont) GlyphID(codepoint rune) int {
	if codepoint == '☃' { // the mapper has no snowman
		return 0
	}
	return int(codepoint)
}

type stubMapper struct {
	f stubFont
}

func (m stubMapper) BaseFont() font.Font { return m.f }

func (m stubMapper) Map(original font.Font, codepoint rune) (font.Font, bool) {
	if m.f.GlyphID(codepoint) == 0 {
		return nil, false
	}
	return m.f, true
}

func textParagraph(box geom.Box, text string) *doc.PdfParagraph {
	run := doc.NewUnicodeRun(text, style.PdfStyle{FontID: "stub", FontSize: 10}, nil, "")
	return &doc.PdfParagraph{
		Box:          box,
		Compositions: []doc.Composition{doc.UnicodeRunComposition(run)},
	}
}

func TestIsCJKTarget(t *testing.T) {
	for _, lang := range []string{"zh", "zh-CN", "zh-Hant", "ja", "ja-JP", "ko-KR"} {
		assert.True(t, IsCJKTarget(lang), lang)
	}
	for _, lang := range []string{"en", "de-DE", "fr", "not-a-tag!"} {
		assert.False(t, IsCJKTarget(lang), lang)
	}
}

func TestBuildUnitsFiltersUnmappableCodepoints(t *testing.T) {
	p := textParagraph(geom.NewBox(0, 0, 100, 20), "a☃b")
	units, err := BuildUnits(p, stubMapper{})
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, 'a', units[0].Unicode())
	assert.Equal(t, 'b', units[1].Unicode())
}

func TestModeScaleHarmonization(t *testing.T) {
	// Three paragraphs with preprocess scales {0.9, 0.8, 0.8}, each
	// weighted 10 units: mode is 0.8 and every scale clamps to it.
	d := &doc.Document{Pages: []*doc.Page{{CropBox: geom.NewBox(0, 0, 600, 800)}}}
	scales := []float64{0.9, 0.8, 0.8}
	for i := range scales {
		p := textParagraph(geom.NewBox(0, 0, 100, 20), "aaaaaaaaaa")
		p.OptimalScale = &scales[i]
		d.Pages[0].Paragraphs = append(d.Pages[0].Paragraphs, p)
	}
	mode := ModeScale(d, stubMapper{})
	assert.InDelta(t, 0.8, mode, 1e-9)

	ClampScales(d, mode)
	for _, j := range d.Paragraphs() {
		assert.InDelta(t, 0.8, *j.Paragraph.OptimalScale, 1e-9)
	}
	// Idempotence: a second harmonization changes nothing.
	assert.InDelta(t, 0.8, ModeScale(d, stubMapper{}), 1e-9)
	ClampScales(d, ModeScale(d, stubMapper{}))
	for _, j := range d.Paragraphs() {
		assert.InDelta(t, 0.8, *j.Paragraph.OptimalScale, 1e-9)
	}
}

func TestTypesetDocumentEmitsPositionedCharacters(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := textParagraph(geom.NewBox(0, 0, 100, 20), "hello")
	d := &doc.Document{Pages: []*doc.Page{{
		CropBox:    geom.NewBox(0, 0, 600, 800),
		Paragraphs: []*doc.PdfParagraph{p},
	}}}
	ts := &Typesetter{Mapper: stubMapper{}, Config: Config{LangOut: "en"}}
	require.NoError(t, ts.TypesetDocument(context.Background(), d))

	require.NotNil(t, p.Scale)
	assert.InDelta(t, 1.0, *p.Scale, 1e-9)
	require.Len(t, p.Compositions, 5)
	for i, c := range p.Compositions {
		require.Equal(t, doc.CompositionCharacter, c.Kind)
		ch := c.Character
		assert.Equal(t, i+1, ch.SubRenderOrder)
		assert.True(t, p.Box.Contains(ch.Box, 1e-9), "char %d box %v outside %v", i, ch.Box, p.Box)
	}
	// Five 10pt glyphs on one line, flush left, glyph tops at the box top.
	assert.Equal(t, 0.0, p.Compositions[0].Character.Box.X)
	assert.Equal(t, 10.0, p.Compositions[0].Character.Box.Y)
}

func TestPassthroughParagraphKeepsGeometry(t *testing.T) {
	orig := doc.PdfCharacter{
		Unicode: 'x',
		Box:     geom.NewBox(5, 5, 15, 15),
		Style:   style.PdfStyle{FontID: "stub", FontSize: 10},
		Advance: 10,
	}
	p := &doc.PdfParagraph{
		Box:          geom.NewBox(0, 0, 100, 20),
		Compositions: []doc.Composition{doc.CharComposition(orig)},
	}
	d := &doc.Document{Pages: []*doc.Page{{
		CropBox:    geom.NewBox(0, 0, 600, 800),
		Paragraphs: []*doc.PdfParagraph{p},
	}}}
	ts := &Typesetter{Mapper: stubMapper{}, Config: Config{LangOut: "en"}}
	require.NoError(t, ts.TypesetDocument(context.Background(), d))

	require.NotNil(t, p.Scale)
	assert.Equal(t, 1.0, *p.Scale)
	require.Len(t, p.Compositions, 1)
	assert.Equal(t, orig.Box, p.Compositions[0].Character.Box)
}

func TestTypesetDocumentHonorsCancellation(t *testing.T) {
	p := textParagraph(geom.NewBox(0, 0, 100, 20), "hello")
	d := &doc.Document{Pages: []*doc.Page{{
		CropBox:    geom.NewBox(0, 0, 600, 800),
		Paragraphs: []*doc.PdfParagraph{p},
	}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ts := &Typesetter{Mapper: stubMapper{}, Config: Config{LangOut: "en"}}
	err := ts.TypesetDocument(ctx, d)
	assert.ErrorIs(t, err, context.Canceled)
	// No partial page: the paragraph's compositions are untouched.
	require.Len(t, p.Compositions, 1)
	assert.Equal(t, doc.CompositionUnicodeRun, p.Compositions[0].Kind)
}

func TestPreprocessParallelMatchesSequential(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	build := func() *doc.Document {
		d := &doc.Document{Pages: []*doc.Page{{CropBox: geom.NewBox(0, 0, 600, 800)}}}
		for i := 0; i < 8; i++ {
			p := textParagraph(geom.NewBox(0, float64(i)*30, 200, float64(i)*30+20), "some translated text")
			d.Pages[0].Paragraphs = append(d.Pages[0].Paragraphs, p)
		}
		return d
	}
	seq := build()
	par := build()
	(&Typesetter{Mapper: stubMapper{}, Config: Config{LangOut: "en", Workers: 1}}).Preprocess(context.Background(), seq)
	(&Typesetter{Mapper: stubMapper{}, Config: Config{LangOut: "en", Workers: 4}}).Preprocess(context.Background(), par)
	for i := range seq.Pages[0].Paragraphs {
		require.NotNil(t, seq.Pages[0].Paragraphs[i].OptimalScale)
		require.NotNil(t, par.Pages[0].Paragraphs[i].OptimalScale)
		assert.Equal(t, *seq.Pages[0].Paragraphs[i].OptimalScale, *par.Pages[0].Paragraphs[i].OptimalScale)
	}
}
