package doc

import (
	"testing"

	"github.com/npillmayer/cords"
	"github.com/stretchr/testify/assert"

	"github.com/foliotype/retype/core/geom"
	"github.com/foliotype/retype/core/style"
)

func TestAssignRenderOrder(t *testing.T) {
	p := &PdfParagraph{
		RenderOrder: 7,
		Compositions: []Composition{
			RunComposition([]PdfCharacter{{Unicode: 'a'}, {Unicode: 'b'}}),
			CharComposition(PdfCharacter{Unicode: 'c'}),
		},
	}
	AssignRenderOrder(p)

	var got []int
	for _, c := range p.Compositions {
		switch c.Kind {
		case CompositionSameStyleRun:
			for _, ch := range c.Run {
				assert.Equal(t, 7, ch.MainRenderOrder)
				got = append(got, ch.SubRenderOrder)
			}
		case CompositionCharacter:
			assert.Equal(t, 7, c.Character.MainRenderOrder)
			got = append(got, c.Character.SubRenderOrder)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestLooksLikeFormulaDetectsEquals(t *testing.T) {
	run := NewUnicodeRun("x = y", style.PdfStyle{}, nil, "")
	comps := []Composition{UnicodeRunComposition(run)}
	assert.True(t, LooksLikeFormula(comps))
}

func TestLooksLikeFormulaDetectsEmbeddedFormula(t *testing.T) {
	comps := []Composition{FormulaComposition(PdfFormula{Box: geom.NewBox(0, 0, 1, 1)})}
	assert.True(t, LooksLikeFormula(comps))
}

func TestLooksLikeFormulaPlainProseIsNotAFormula(t *testing.T) {
	run := NewUnicodeRun("a perfectly ordinary sentence", style.PdfStyle{}, nil, "")
	comps := []Composition{UnicodeRunComposition(run)}
	assert.False(t, LooksLikeFormula(comps))
}

func TestUnicodeRunSplitPreservesRunes(t *testing.T) {
	run := NewUnicodeRun("café", style.PdfStyle{}, nil, "")
	var rebuilt string
	run.Text.EachLeaf(func(l cords.Leaf, _ uint64) error {
		rebuilt += l.String()
		return nil
	})
	assert.Equal(t, "café", rebuilt)

	// Split counts runes, so index 3 falls before the two-byte 'é'.
	left, right := textLeaf("café").Split(3)
	assert.Equal(t, "caf", left.String())
	assert.Equal(t, "é", right.String())
}
