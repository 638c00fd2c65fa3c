package pipeline

import (
	"github.com/foliotype/retype/core/errs"
	"github.com/foliotype/retype/core/font"
	"github.com/foliotype/retype/engine/doc"
	"github.com/foliotype/retype/engine/unit"
)

// BuildUnits flattens a paragraph's compositions into the TypesettingUnits
// the layout passes operate on. Existing characters, lines and formulas
// pass through as-is; a translated unicode run is mapped codepoint by
// codepoint through the FontMapper. A codepoint no font can render is
// filtered out with a warning; an invariant violation aborts the whole
// paragraph.
func BuildUnits(p *doc.PdfParagraph, mapper font.FontMapper) ([]unit.Unit, error) {
	var units []unit.Unit
	for _, c := range p.Compositions {
		switch c.Kind {
		case doc.CompositionCharacter:
			units = append(units, unit.NewChar(*c.Character))
		case doc.CompositionSameStyleRun:
			for _, ch := range c.Run {
				units = append(units, unit.NewChar(ch))
			}
		case doc.CompositionLine:
			for _, ch := range c.Line {
				units = append(units, unit.NewChar(ch))
			}
		case doc.CompositionUnicodeRun:
			run := c.UnicodeRun
			for _, r := range run.Runes() {
				mapped, ok := mapper.Map(run.OriginalFont, r)
				if !ok {
					T().Errorf("%v: U+%04X dropped from paragraph", errs.FontMappingMissing, r)
					continue
				}
				tu, err := unit.NewTranslated(r, mapped, run.Style, run.XObjID)
				if err != nil {
					return nil, err
				}
				tu.OriginalFont = run.OriginalFont
				units = append(units, tu)
			}
		case doc.CompositionFormula:
			units = append(units, unit.NewFormula(*c.Formula))
		}
	}
	return units, nil
}

// unitWeight is a paragraph's weight in the document-wide mode-scale
// statistic: its unit count, with a formula contributing one per embedded
// character.
func unitWeight(units []unit.Unit) int {
	w := 0
	for _, u := range units {
		if f, ok := u.(unit.Formula); ok {
			w += len(f.F.Characters)
			continue
		}
		w++
	}
	return w
}

// allPassthrough reports whether every unit already carries final
// geometry. Such a paragraph is emitted unchanged at scale 1.0.
func allPassthrough(units []unit.Unit) bool {
	for _, u := range units {
		if !u.CanPassthrough() {
			return false
		}
	}
	return len(units) > 0
}

// baseFontSize is the paragraph's dominant font size for glue and indent
// computation: the first positive size found in composition order, with a
// 10pt fallback.
func baseFontSize(p *doc.PdfParagraph) float64 {
	for _, c := range p.Compositions {
		switch c.Kind {
		case doc.CompositionCharacter:
			if c.Character.Style.FontSize > 0 {
				return c.Character.Style.FontSize
			}
		case doc.CompositionSameStyleRun:
			for _, ch := range c.Run {
				if ch.Style.FontSize > 0 {
					return ch.Style.FontSize
				}
			}
		case doc.CompositionLine:
			for _, ch := range c.Line {
				if ch.Style.FontSize > 0 {
					return ch.Style.FontSize
				}
			}
		case doc.CompositionUnicodeRun:
			if c.UnicodeRun.Style.FontSize > 0 {
				return c.UnicodeRun.Style.FontSize
			}
		}
	}
	return 10.0
}
