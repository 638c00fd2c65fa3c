package layout

import (
	"github.com/foliotype/retype/core/geom"
	"github.com/foliotype/retype/engine/unit"
)

// SpaceProber is the collaborator ScaleSearch expands a paragraph's box
// against. It is declared here, not imported from
// engine/spaceprobe, so that layout has no dependency on the concrete
// spatial-index implementation — any type satisfying this interface
// (the page-scoped SpaceProbe, or a stub in tests) can drive the search.
type SpaceProber interface {
	MaxRight(b geom.Box) float64
	MaxBottom(b geom.Box) float64
}

// minScale is the floor ScaleSearch will not shrink below; reaching it
// without a fit makes the layout infeasible.
const minScale = 0.1

// ScaleSearch finds the largest scale in [minScale, initialScale] at
// which units fit box via Layout, trying up to two box-expansion phases,
// the next untried one each time the descent drops below 0.7.
type ScaleSearch struct {
	Prober SpaceProber
}

// Result is the outcome of a ScaleSearch.Find call.
type Result struct {
	Scale      float64
	Positioned []unit.Unit
	Box        geom.Box
	AllFit     bool
	// Infeasible is true if the search bottomed out at minScale without
	// ever finding a fit: the caller should
	// commit Positioned anyway and emit a warning.
	Infeasible bool
}

// Find runs the deterministic descent: shrink the scale in fixed steps,
// expand the box when the descent crosses 0.7, and retry once without
// English breaking before giving up. units and box are never mutated;
// every trial calls Layout against a local copy of box, and an expansion
// phase produces a new box value that subsequent trials use.
func (s ScaleSearch) Find(units []unit.Unit, box geom.Box, initialScale, lineSkip float64, flags ParagraphFlags) Result {
	scale := initialScale
	curBox := box
	expansionPhase := 0

	var lastPositioned []unit.Unit
	retried := false

	for {
		positioned, allFit := Layout(units, curBox, scale, lineSkip, flags)
		lastPositioned = positioned
		if allFit {
			return Result{Scale: scale, Positioned: positioned, Box: curBox, AllFit: true}
		}

		if scale > 0.6 {
			scale -= 0.05
		} else {
			scale -= 0.1
		}

		// Each crossing below 0.7 attempts the next not-yet-tried expansion
		// phase; a success resets the descent to scale 1.0, and the next
		// crossing moves on to the following phase.
		if scale < 0.7 && expansionPhase < 2 && s.Prober != nil {
			if newBox, ok := s.tryExpand(curBox, &expansionPhase); ok {
				curBox = newBox
				scale = 1.0
				continue
			}
		}

		if scale < minScale {
			if flags.EnglishBreak && !retried {
				retried = true
				flags.EnglishBreak = false
				scale = initialScale
				curBox = box
				expansionPhase = 0
				continue
			}
			return Result{Scale: minScale, Positioned: lastPositioned, Box: curBox, AllFit: false, Infeasible: true}
		}
	}
}

// tryExpand attempts, in order, Phase 0 (expand downward via MaxBottom)
// and Phase 1 (expand rightward via MaxRight), advancing *phase past
// whichever is tried so a later call does not repeat it. Phase 2 is the
// exhausted terminal case; the caller stops attempting once it is reached.
func (s ScaleSearch) tryExpand(box geom.Box, phase *int) (geom.Box, bool) {
	if *phase <= 0 {
		*phase = 1
		newY := s.Prober.MaxBottom(box) + 2
		if newY < box.Y {
			nb := box
			nb.Y = newY
			return nb, true
		}
	}
	if *phase <= 1 {
		*phase = 2
		newX2 := s.Prober.MaxRight(box) - 5
		if newX2 > box.X2 {
			nb := box
			nb.X2 = newX2
			return nb, true
		}
	}
	return box, false
}
