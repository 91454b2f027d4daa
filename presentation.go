package deckparse

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

const presentationPart = "ppt/presentation.xml"

// Default deck size used when presentation.xml omits sldSz: the standard
// 16:9 canvas.
const (
	defaultSlideWidth  int64 = 9144000
	defaultSlideHeight int64 = 6858000
)

// deckDimensions reads the declared slide size, falling back to the
// standard canvas when the element or either attribute is absent.
func (p *Parser) deckDimensions() Dimensions {
	dims := Dimensions{Width: defaultSlideWidth, Height: defaultSlideHeight}
	doc := p.arc.partDoc(presentationPart)
	if doc == nil {
		return dims
	}
	sldSz := descendant(doc, "sldSz")
	if sldSz == nil {
		return dims
	}
	if cx, ok := attrInt64(sldSz, "cx"); ok && cx > 0 {
		dims.Width = cx
	}
	if cy, ok := attrInt64(sldSz, "cy"); ok && cy > 0 {
		dims.Height = cy
	}
	return dims
}

// classifyAspect labels the deck with whichever of the two common aspect
// ratios its width/height ratio is nearer to. An exact midpoint counts as
// 4:3.
func classifyAspect(d Dimensions) string {
	if d.Height <= 0 {
		return "16:9"
	}
	ratio := float64(d.Width) / float64(d.Height)
	wide := math.Abs(ratio - 16.0/9.0)
	classic := math.Abs(ratio - 4.0/3.0)
	if wide < classic {
		return "16:9"
	}
	return "4:3"
}

// slidePaths enumerates the deck's slide parts in presentation order. The
// authoritative order comes from the sldIdLst resolved through the
// presentation relationships; when that yields nothing the slides
// directory is scanned and sorted by slide number.
func (p *Parser) slidePaths() []string {
	var paths []string

	if doc := p.arc.partDoc(presentationPart); doc != nil {
		rels := p.relsFor(presentationPart)
		for _, sldId := range descendants(descendant(doc, "sldIdLst"), "sldId") {
			target, ok := rels.target(relIDAttr(sldId))
			if !ok {
				continue
			}
			part := resolvePartPath(presentationPart, target)
			if p.arc.has(part) {
				paths = append(paths, part)
			}
		}
	}
	if len(paths) > 0 {
		return paths
	}

	for name := range p.arc.parts {
		if pathMatchesNumbered(name, "ppt/slides/slide") {
			paths = append(paths, name)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return numberedPartIndex(paths[i]) < numberedPartIndex(paths[j])
	})
	if len(paths) > 0 {
		p.logger.Warn("slide list missing, using directory scan",
			zap.Int("slides", len(paths)))
	}
	return paths
}
