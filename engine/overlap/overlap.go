/*
Package overlap implements the pre-layout overlap correction pass: before a page is rendered, paragraph boxes that sit too
close above a neighbor are nudged up so the neighbor's top edge plus a
small gap becomes their new bottom edge.

The pass is one-shot per page — every query runs against a snapshot of the
boxes as they were when the index was built, so an adjustment never
cascades into later queries on the same page.
*/
package overlap

import (
	"fmt"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/foliotype/retype/core/errs"
	"github.com/foliotype/retype/core/geom"
	"github.com/foliotype/retype/engine/doc"
)

// T traces to the global engine tracer.
func T() tracing.Trace {
	return gtrace.EngineTracer
}

// Gap returns the vertical clearance required below a paragraph box:
// smaller boxes (captions, footnotes) get by with half a point, everything
// else needs three.
func Gap(b geom.Box) float64 {
	if b.Height() < 36 {
		return 0.5
	}
	return 3.0
}

type entry struct {
	box  geom.Box // snapshot; the paragraph's live box may move
	para *doc.PdfParagraph
}

// CorrectPage adjusts the bottom edges of page's paragraph boxes so that
// no paragraph sits closer than its required gap above a horizontally
// overlapping neighbor. Any panic out of the adjustment is recovered and
// returned as an OverlapAdjustFailure; the caller logs it and renders the
// page uncorrected.
func CorrectPage(page *doc.Page) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Wrap(fmt.Errorf("overlap correction: %v", r), errs.OverlapAdjustFailure)
		}
	}()

	// Index valid paragraph boxes by their top edge. The strip query below
	// walks top edges above the strip's bottom in ascending order.
	byTop := redblacktree.NewWith(utils.Float64Comparator)
	for _, q := range page.Paragraphs {
		if q.Box.IsEmpty() {
			continue
		}
		e := entry{box: q.Box, para: q}
		if v, ok := byTop.Get(q.Box.Y2); ok {
			byTop.Put(q.Box.Y2, append(v.([]entry), e))
		} else {
			byTop.Put(q.Box.Y2, []entry{e})
		}
	}

	adjusted := hashset.New()
	for _, p := range page.Paragraphs {
		if p.Box.IsEmpty() {
			continue
		}
		gap := Gap(p.Box)
		maxY2, conflict := maxConflictingTop(byTop, p)
		if !conflict {
			continue
		}
		if newY := maxY2 + gap; newY < p.Box.Y2 {
			p.Box.Y = newY
			adjusted.Add(p)
		}
	}
	if adjusted.Size() > 0 {
		T().Debugf("overlap correction moved %d paragraph box(es)", adjusted.Size())
	}
	return nil
}

// maxConflictingTop scans the strip (p.x, p.y-gap, p.x2, p.y) for other
// paragraphs and returns the highest top edge among those that overlap p
// horizontally.
func maxConflictingTop(byTop *redblacktree.Tree, p *doc.PdfParagraph) (float64, bool) {
	gap := Gap(p.Box)
	stripBottom := p.Box.Y - gap
	maxY2 := 0.0
	found := false
	it := byTop.Iterator()
	for it.Next() {
		y2 := it.Key().(float64)
		if y2 <= stripBottom {
			continue
		}
		for _, e := range it.Value().([]entry) {
			if e.para == p {
				continue
			}
			if e.box.Y >= p.Box.Y { // entirely above the strip
				continue
			}
			if !p.Box.HOverlaps(e.box) {
				continue
			}
			if !found || e.box.Y2 > maxY2 {
				maxY2 = e.box.Y2
				found = true
			}
		}
	}
	return maxY2, found
}
