package overlap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foliotype/retype/core/geom"
	"github.com/foliotype/retype/engine/doc"
)

func TestGapThreshold(t *testing.T) {
	assert.Equal(t, 0.5, Gap(geom.NewBox(0, 0, 100, 20)))
	assert.Equal(t, 3.0, Gap(geom.NewBox(0, 0, 100, 36)))
}

func TestCorrectPageLiftsCrowdedParagraph(t *testing.T) {
	upper := &doc.PdfParagraph{Box: geom.NewBox(0, 101, 100, 200)}
	lower := &doc.PdfParagraph{Box: geom.NewBox(0, 0, 100, 100)}
	page := &doc.Page{Paragraphs: []*doc.PdfParagraph{upper, lower}}
	// upper sits 1pt above lower's top but needs a 3pt gap.
	assert.NoError(t, CorrectPage(page))
	assert.Equal(t, 103.0, upper.Box.Y)
	assert.Equal(t, geom.NewBox(0, 0, 100, 100), lower.Box)
}

func TestCorrectPageIgnoresHorizontallyDisjoint(t *testing.T) {
	left := &doc.PdfParagraph{Box: geom.NewBox(0, 101, 100, 200)}
	right := &doc.PdfParagraph{Box: geom.NewBox(200, 0, 300, 100)}
	page := &doc.Page{Paragraphs: []*doc.PdfParagraph{left, right}}
	assert.NoError(t, CorrectPage(page))
	assert.Equal(t, 101.0, left.Box.Y)
}

func TestCorrectPageKeepsBoxValid(t *testing.T) {
	// The lift would push the bottom edge past the top edge, so the box
	// is left alone.
	thin := &doc.PdfParagraph{Box: geom.NewBox(0, 101, 100, 101.5)}
	tall := &doc.PdfParagraph{Box: geom.NewBox(0, 0, 100, 101.2)}
	page := &doc.Page{Paragraphs: []*doc.PdfParagraph{thin, tall}}
	assert.NoError(t, CorrectPage(page))
	assert.Equal(t, 101.0, thin.Box.Y)
}

func TestCorrectPageIsOneShot(t *testing.T) {
	// c is lifted off b and b off a in a single call; each lift is
	// measured from the lower neighbor's top edge as indexed at the start.
	a := &doc.PdfParagraph{Box: geom.NewBox(0, 0, 100, 100)}
	b := &doc.PdfParagraph{Box: geom.NewBox(0, 101, 100, 200)}
	c := &doc.PdfParagraph{Box: geom.NewBox(0, 201, 100, 300)}
	page := &doc.Page{Paragraphs: []*doc.PdfParagraph{a, b, c}}
	assert.NoError(t, CorrectPage(page))
	assert.Equal(t, 103.0, b.Box.Y)
	// c clears b's top (200); b's own lift moved only its bottom edge.
	assert.Equal(t, 203.0, c.Box.Y)
}
