/*
Package spaceprobe answers the one spatial question the scale search asks
while a paragraph's box is overfull: how far may this box grow — rightward
or downward — before it collides with any other element on the page.

The page's elements are indexed in two ordered maps from
github.com/emirpasic/gods/trees/redblacktree, one keyed by each element's
left edge and one by its top edge. An ordered scan from the query box's
edge outward can stop at the first colliding element, which is exactly
the min/max the probe needs. A full R-tree would also work but is
overkill for the hundreds of elements a PDF page carries.
*/
package spaceprobe

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/foliotype/retype/core/geom"
	"github.com/foliotype/retype/engine/doc"
)

// T traces to the global engine tracer.
func T() tracing.Trace {
	return gtrace.EngineTracer
}

// rightMarginRatio caps rightward growth at 0.9 times the crop box's right
// edge; bottomMarginRatio floors downward growth at 1.1 times its bottom
// edge.
const (
	rightMarginRatio  = 0.9
	bottomMarginRatio = 1.1
)

// Probe is a page-scoped free-space query. It indexes every paragraph,
// character and figure box on the page except the querying paragraph's
// own, and is discarded with the page.
type Probe struct {
	cropbox geom.Box
	byLeft  *redblacktree.Tree // element left edge -> []geom.Box
	byTop   *redblacktree.Tree // element top edge  -> []geom.Box
}

// New builds a Probe over page's elements, excluding self's own box (an
// element never blocks its own expansion).
func New(page *doc.Page, self *doc.PdfParagraph) *Probe {
	p := &Probe{
		cropbox: page.CropBox,
		byLeft:  redblacktree.NewWith(utils.Float64Comparator),
		byTop:   redblacktree.NewWith(utils.Float64Comparator),
	}
	for _, q := range page.Paragraphs {
		if q == self || q.Box.IsEmpty() {
			continue
		}
		p.add(q.Box)
	}
	for _, c := range page.Characters {
		p.add(c.Box)
	}
	for _, f := range page.Figures {
		p.add(f)
	}
	return p
}

func (p *Probe) add(b geom.Box) {
	put := func(tree *redblacktree.Tree, key float64) {
		if v, ok := tree.Get(key); ok {
			tree.Put(key, append(v.([]geom.Box), b))
		} else {
			tree.Put(key, []geom.Box{b})
		}
	}
	put(p.byLeft, b.X)
	put(p.byTop, b.Y2)
}

// MaxRight returns the rightmost x-coordinate b may grow to: the left edge
// of the nearest element to b's right with vertical overlap, capped at
// cropbox.x2 * 0.9. An ascending scan over left edges can stop at the
// first hit, since any later element starts further right.
func (p *Probe) MaxRight(b geom.Box) float64 {
	maxRight := p.cropbox.X2 * rightMarginRatio
	it := p.byLeft.Iterator()
	for it.Next() {
		x := it.Key().(float64)
		if x <= b.X {
			continue
		}
		if x >= maxRight {
			break
		}
		for _, e := range it.Value().([]geom.Box) {
			if b.VOverlaps(e) {
				maxRight = x
				break
			}
		}
		if maxRight == x {
			break
		}
	}
	return maxRight
}

// MaxBottom returns the lowest y-coordinate b may grow down to: the top
// edge of the nearest element below b with horizontal overlap, floored at
// cropbox.y * 1.1. A descending scan over top edges from b.Y downward can
// stop at the first hit.
func (p *Probe) MaxBottom(b geom.Box) float64 {
	maxBottom := p.cropbox.Y * bottomMarginRatio
	it := p.byTop.Iterator()
	it.End()
	for it.Prev() {
		y2 := it.Key().(float64)
		if y2 >= b.Y {
			continue
		}
		if y2 <= maxBottom {
			break
		}
		hit := false
		for _, e := range it.Value().([]geom.Box) {
			if b.HOverlaps(e) {
				hit = true
				break
			}
		}
		if hit {
			maxBottom = y2
			break
		}
	}
	return maxBottom
}
