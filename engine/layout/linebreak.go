/*
Package layout implements the two core paragraph-layout passes: a
single greedy buffered line-breaking pass that positions a paragraph's
units into lines, and ScaleSearch, the deterministic descent that finds
the largest scale at which a paragraph fits its box.

The breaker is first-fit, not optimal: it buffers a line until the next
unit would overflow the available width (or violate a punctuation rule),
then flushes the buffer at a baseline. Left-aligned translated output
does not reward paragraph-global optimization the way justified text
does, and greedy breaking keeps the scale search's inner loop cheap.
*/
package layout

import (
	"strings"

	"github.com/foliotype/retype/core/font"
	"github.com/foliotype/retype/engine/classify"
	"github.com/foliotype/retype/engine/unit"

	"github.com/foliotype/retype/core/geom"
)

// ParagraphFlags carries the per-paragraph settings LineBreaker needs
// beyond the unit list itself.
type ParagraphFlags struct {
	FirstLineIndent bool
	// EnglishBreak refuses to start an unbreakable word that cannot
	// finish on the line; ScaleSearch disables it on its final retry.
	EnglishBreak bool
	BaseFont     font.Font
	BaseFontSize float64
}

// LineSkip returns the baseline-to-baseline ratio for a target language:
// 1.50 for CJK targets (ZH/JA/KR and regional variants), 1.40 otherwise.
func LineSkip(targetLangCJK bool) float64 {
	if targetLangCJK {
		return 1.50
	}
	return 1.40
}

// formulaPad is the fixed 3-point horizontal padding applied on each
// side of a formula unit during line layout.
const formulaPad = 3.0

// Layout positions units into lines inside box at the given scale,
// returning the relocated units and whether every emitted unit's box
// stayed within box's vertical extent.
func Layout(units []unit.Unit, box geom.Box, scale, lineSkip float64, flags ParagraphFlags) ([]unit.Unit, bool) {
	w := box.Width()
	spaceWidth := 0.0
	if flags.BaseFont != nil {
		spaceWidth = flags.BaseFont.Advance(' ', flags.BaseFontSize*scale)
	}

	var positioned []unit.Unit
	allFit := true

	var buffer []unit.Unit
	var glueBefore []float64
	curW := 0.0
	firstLine := true
	prevBottom := 0.0

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		heights := make([]float64, 0, len(buffer))
		maxH := 0.0
		for _, u := range buffer {
			if u.IsSpace() {
				continue
			}
			h := u.Height() * scale
			heights = append(heights, h)
			if h > maxH {
				maxH = h
			}
		}
		if len(heights) == 0 {
			maxH = 10 * scale
		}
		modeH, ok := mode(heights)
		if !ok {
			modeH = mean(heights)
		}

		var bottom float64
		if firstLine {
			bottom = box.Y2 - maxH
		} else {
			gap := maxf(modeH*lineSkip, maxH*1.05)
			bottom = prevBottom - gap
		}

		curX := box.X
		if flags.FirstLineIndent && firstLine {
			curX += 4 * flags.BaseFontSize * scale * 0.5
		}
		for i, u := range buffer {
			if u.Kind() == unit.KindFormula {
				curX += formulaPad * scale
			}
			curX += glueBefore[i]
			rel := u.Relocate(curX, bottom, scale)
			positioned = append(positioned, rel)
			curX = rel.Box().X2
			if u.Kind() == unit.KindFormula {
				curX += formulaPad * scale
			}
			if rel.Box().Y < box.Y {
				allFit = false
			}
		}

		prevBottom = bottom
		firstLine = false
		buffer = buffer[:0]
		glueBefore = glueBefore[:0]
		curW = 0
	}

	for i := 0; i < len(units); i++ {
		u := units[i]
		uw := unitWidth(u, scale)
		g := 0.0
		if len(buffer) > 0 {
			g = glueWidth(buffer[len(buffer)-1], u, spaceWidth)
		}
		// atRunStart is true when u begins a fresh non-breakable run (the
		// previously buffered unit could itself break, or there is no
		// prior unit on this line). The English-break lookahead is only
		// evaluated at a run's first unit: rechecking at every unit of the
		// same run would re-derive the same "does the whole run fit"
		// verdict and force a break after a single unit instead of after
		// as many as actually fit.
		atRunStart := len(buffer) == 0 || buffer[len(buffer)-1].CanBreakLine()

		breakBefore := false
		if !u.IsHungPunctuation() {
			switch {
			case curW+g+uw > w:
				breakBefore = true
			case flags.EnglishBreak && atRunStart && curW+g+uw+lookaheadWidth(units, i+1, scale) > w:
				breakBefore = true
			case u.IsLeadingPunctuation() && curW+g+2*uw > w:
				breakBefore = true
			}
		}

		if breakBefore && len(buffer) > 0 {
			flush()
			g = 0
		}
		// Force-progress: an empty buffer never breaks, so one oversized
		// unit is appended rather than looping forever.

		buffer = append(buffer, u)
		glueBefore = append(glueBefore, g)
		curW += g + uw
	}
	flush()

	return positioned, allFit
}

// unitWidth is a unit's layout width at the trial scale: its own box
// width scaled uniformly, plus the fixed formula padding on both sides
// for Formula units.
func unitWidth(u unit.Unit, scale float64) float64 {
	w := u.Width() * scale
	if u.Kind() == unit.KindFormula {
		w += 2 * formulaPad * scale
	}
	return w
}

// glueWidth is the inter-unit spacing inserted between v (the last
// buffered unit) and u (the next candidate): half a space-width at a
// CJK/Latin script boundary, unless either side is a space or
// mixed-blacklisted, or v is in classify.GlueExcluded.
func glueWidth(v, u unit.Unit, spaceWidth float64) float64 {
	if v.IsCJK() == u.IsCJK() {
		return 0
	}
	if v.IsSpace() || u.IsSpace() {
		return 0
	}
	if v.IsMixedBlacklisted() || u.IsMixedBlacklisted() {
		return 0
	}
	if strings.ContainsRune(classify.GlueExcluded, v.Unicode()) {
		return 0
	}
	return 0.5 * spaceWidth
}

// lookaheadWidth sums the widths of the run of non-breakable units
// starting at index from, stopping at the first unit whose CanBreakLine
// is true. It models the English-break rule: a break is refused if it
// would land in the middle of an unbreakable run immediately following
// the candidate unit. The candidate unit's own width is accounted for
// separately by the caller, so the scan starts at from (the unit after
// the candidate), not at the candidate itself.
func lookaheadWidth(units []unit.Unit, from int, scale float64) float64 {
	total := 0.0
	for i := from; i < len(units); i++ {
		if units[i].CanBreakLine() {
			break
		}
		total += unitWidth(units[i], scale)
	}
	return total
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// mode returns the statistical mode of xs (values compared exactly, as
// they are all products of a shared scale factor), tie-broken to the
// minimum value among ties. ok is false for an empty input.
func mode(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	counts := make(map[float64]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}
	bestCount := 0
	best := xs[0]
	for _, x := range xs {
		c := counts[x]
		if c > bestCount || (c == bestCount && x < best) {
			bestCount = c
			best = x
		}
	}
	return best, true
}
