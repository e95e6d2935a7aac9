package packer

import (
	"fmt"

	"github.com/ifm/ifm/pkg/mapbuild"
)

// Page is one packed output page: a rectangle of content holding one or
// more sections at fixed offsets.
type Page struct {
	ID            string
	ContentWidth  int
	ContentHeight int
	Placements    []Placement
}

// Placement locates one section within a page.
type Placement struct {
	SectionID string
	X, Y      int
	Rotated   bool
}

type candidate struct {
	width, height int
	placements    []Placement
}

// Pack assigns every section to a page, merging adjacent single-section
// pages pairwise (side-by-side or stacked) as long as the combination
// fits within (xmax,ymax) and, between two fitting combinations, prefers
// the one whose resulting aspect ratio is closer to targetRatio — ties
// resolve to the stacked combination (SPEC_FULL.md §4.4 Open Question).
// spacing is added between merged sections. Sections are mutated in
// place with their final PageID/OffsetX/OffsetY/Rotated.
func Pack(sections []*mapbuild.Section, spacing int, xmax, ymax int, targetRatio float64) []*Page {
	candidates := make([]candidate, 0, len(sections))
	for _, sec := range sections {
		w, h := sec.XLen, sec.YLen
		rotated := false
		if shouldRotate(w, h, targetRatio) {
			w, h = h, w
			rotated = true
		}
		candidates = append(candidates, candidate{
			width:      w,
			height:     h,
			placements: []Placement{{SectionID: sec.ID, X: 0, Y: 0, Rotated: rotated}},
		})
	}

	for {
		merged := false
		for i := 0; i < len(candidates)-1; i++ {
			m := tryMerge(candidates[i], candidates[i+1], spacing, xmax, ymax, targetRatio)
			if m == nil {
				continue
			}
			next := make([]candidate, 0, len(candidates)-1)
			next = append(next, candidates[:i]...)
			next = append(next, *m)
			next = append(next, candidates[i+2:]...)
			candidates = next
			merged = true
			break
		}
		if !merged {
			break
		}
	}

	sectionByID := make(map[string]*mapbuild.Section, len(sections))
	for _, sec := range sections {
		sectionByID[sec.ID] = sec
	}

	pages := make([]*Page, 0, len(candidates))
	for pi, c := range candidates {
		page := &Page{
			ID:            fmt.Sprintf("P%d", pi),
			ContentWidth:  c.width,
			ContentHeight: c.height,
			Placements:    c.placements,
		}
		pages = append(pages, page)
		for _, p := range c.placements {
			sec := sectionByID[p.SectionID]
			sec.PageID = page.ID
			sec.OffsetX = p.X
			sec.OffsetY = p.Y
			sec.Rotated = p.Rotated
		}
	}
	return pages
}

// shouldRotate reports whether a section's aspect is the opposite
// orientation (landscape vs. portrait) of the target ratio.
func shouldRotate(w, h int, targetRatio float64) bool {
	if w == 0 || h == 0 {
		return false
	}
	sectionLandscape := w >= h
	targetLandscape := targetRatio >= 1.0
	return sectionLandscape != targetLandscape
}

func tryMerge(a, b candidate, spacing, xmax, ymax int, targetRatio float64) *candidate {
	sideBySide := mergeSideBySide(a, b, spacing)
	stacked := mergeStacked(a, b, spacing)

	sideFits := sideBySide.width <= xmax && sideBySide.height <= ymax
	stackFits := stacked.width <= xmax && stacked.height <= ymax

	switch {
	case !sideFits && !stackFits:
		return nil
	case sideFits && !stackFits:
		return &sideBySide
	case !sideFits && stackFits:
		return &stacked
	}

	dSide := ratioDistance(sideBySide.width, sideBySide.height, targetRatio)
	dStack := ratioDistance(stacked.width, stacked.height, targetRatio)
	if dStack <= dSide {
		return &stacked
	}
	return &sideBySide
}

func ratioDistance(w, h int, target float64) float64 {
	if h == 0 {
		return target
	}
	r := float64(w) / float64(h)
	if r < target {
		return target - r
	}
	return r - target
}

func mergeSideBySide(a, b candidate, spacing int) candidate {
	width := a.width + spacing + b.width
	height := maxInt(a.height, b.height)
	placements := append(append([]Placement{}, a.placements...), shift(b.placements, a.width+spacing, 0)...)
	return candidate{width: width, height: height, placements: placements}
}

func mergeStacked(a, b candidate, spacing int) candidate {
	width := maxInt(a.width, b.width)
	height := a.height + spacing + b.height
	placements := append(append([]Placement{}, a.placements...), shift(b.placements, 0, a.height+spacing)...)
	return candidate{width: width, height: height, placements: placements}
}

func shift(placements []Placement, dx, dy int) []Placement {
	out := make([]Placement, len(placements))
	for i, p := range placements {
		out[i] = Placement{SectionID: p.SectionID, X: p.X + dx, Y: p.Y + dy, Rotated: p.Rotated}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
