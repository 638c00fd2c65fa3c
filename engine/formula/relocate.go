/*
Package formula relocates an embedded formula to a new position and scale
without distorting its internal geometry. Characters are
first grouped into baseline levels — OCR and parsing leave sub-pixel
jitter on y-coordinates that would compound under scaling — and each
level's members are then re-centered on a shared, snapped baseline.
Curves and forms travel untouched; only a relocation transform is
attached to them.
*/
package formula

import (
	"math"
	"sort"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/foliotype/retype/core/geom"
	"github.com/foliotype/retype/engine/doc"
)

// T traces to the global engine tracer.
func T() tracing.Trace {
	return gtrace.EngineTracer
}

// levelTolerance is the maximum distance (in points) between a character's
// y-center and a level's running mean for the character to join that level.
const levelTolerance = 2.0

// fallbackFontSize stands in when a level's members carry no font size.
const fallbackFontSize = 12.0

// level is one baseline group of a formula's characters.
type level struct {
	indices []int
	sum     float64 // of member y-centers
}

func (l *level) mean() float64 { return l.sum / float64(len(l.indices)) }

// groupLevels sorts chars by y-center and greedily assigns each to the
// first level whose running mean is within levelTolerance, creating a new
// level otherwise.
func groupLevels(chars []doc.PdfCharacter) []*level {
	order := make([]int, len(chars))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return chars[order[a]].Box.CenterY() < chars[order[b]].Box.CenterY()
	})

	var levels []*level
	for _, i := range order {
		cy := chars[i].Box.CenterY()
		var home *level
		for _, l := range levels {
			if math.Abs(cy-l.mean()) < levelTolerance {
				home = l
				break
			}
		}
		if home == nil {
			home = &level{}
			levels = append(levels, home)
		}
		home.indices = append(home.indices, i)
		home.sum += cy
	}
	return levels
}

// dominantFontSize is the mode of a level's member font sizes, tie-broken
// to the minimum, falling back to fallbackFontSize when no member carries
// a size.
func dominantFontSize(chars []doc.PdfCharacter, l *level) float64 {
	counts := make(map[float64]int, len(l.indices))
	for _, i := range l.indices {
		if fs := chars[i].Style.FontSize; fs > 0 {
			counts[fs]++
		}
	}
	if len(counts) == 0 {
		return fallbackFontSize
	}
	best, bestCount := 0.0, 0
	for fs, c := range counts {
		if c > bestCount || (c == bestCount && fs < best) {
			best, bestCount = fs, c
		}
	}
	return best
}

// Relocate returns a copy of f positioned at (targetX, targetY) and scaled
// by scale. Character baselines are snapped per level; curves and forms
// get a relocation transform attached instead of mutated geometry.
func Relocate(f doc.PdfFormula, targetX, targetY, scale float64) doc.PdfFormula {
	out := f
	out.Characters = make([]doc.PdfCharacter, len(f.Characters))
	out.Curves = make([]doc.PdfCurve, len(f.Curves))
	out.Forms = make([]doc.PdfForm, len(f.Forms))

	levels := groupLevels(f.Characters)
	T().Debugf("formula relocation: %d char(s) in %d baseline level(s)", len(f.Characters), len(levels))

	for _, l := range levels {
		baseline := l.mean()
		size := dominantFontSize(f.Characters, l)
		relY := baseline - f.Box.Y
		newBaseline := targetY + (relY+f.YOffset)*scale
		for _, i := range l.indices {
			c := f.Characters[i]
			h := c.Box.Height()
			if h == 0 {
				h = size
			}
			newH := h * scale
			relX := c.Box.X - f.Box.X
			newX := targetX + (relX+f.XOffset)*scale
			newBox := geom.NewBox(
				newX,
				newBaseline-newH/2,
				newX+c.Box.Width()*scale,
				newBaseline+newH/2,
			)
			nc := c
			if c.VisualBBox != nil {
				vb := c.VisualBBox.Translate(newBox.X-c.Box.X, newBox.Y-c.Box.Y)
				vb.Y = math.Max(vb.Y, newBox.Y)
				vb.Y2 = math.Min(vb.Y2, newBox.Y2)
				nc.VisualBBox = &vb
			}
			nc.Box = newBox
			nc.Style = nc.Style.WithFontSize(scale)
			nc.Scale = c.Scale * scale
			nc.Advance = c.Advance * scale
			out.Characters[i] = nc
		}
	}

	// Curves and forms: translation vector plus uniform scale, applied by
	// the serializer downstream. The original drawing data stays untouched.
	delta := complex128(arithm.P(
		targetX+f.XOffset*scale-f.Box.X*scale,
		targetY+f.YOffset*scale-f.Box.Y*scale,
	))
	transform := doc.Transform{Dx: real(delta), Dy: imag(delta), Scale: scale}
	for i, cv := range f.Curves {
		cv.RelocationTransform = &transform
		cv.Box = applyToBox(transform, cv.Box)
		out.Curves[i] = cv
	}
	for i, fo := range f.Forms {
		fo.RelocationTransform = &transform
		fo.Box = applyToBox(transform, fo.Box)
		out.Forms[i] = fo
	}

	if len(out.Characters) > 0 {
		boxes := make([]geom.Box, len(out.Characters))
		for i, c := range out.Characters {
			boxes[i] = c.Box
		}
		out.Box = geom.Union(boxes...)
	} else {
		out.Box = applyToBox(transform, f.Box)
	}
	out.XOffset = f.XOffset * scale
	out.YOffset = f.YOffset * scale
	out.XAdvance = f.XAdvance * scale
	return out
}

func applyToBox(t doc.Transform, b geom.Box) geom.Box {
	p1 := t.Apply(geom.Point{X: b.X, Y: b.Y})
	p2 := t.Apply(geom.Point{X: b.X2, Y: b.Y2})
	return geom.NewBox(p1.X, p1.Y, p2.X, p2.Y)
}
