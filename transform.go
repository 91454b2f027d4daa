package deckparse

import (
	"github.com/antchfx/xmlquery"
)

// box is a raw extracted transform in EMU. The zero value is the documented
// result for a shape with no transform element.
type box struct {
	x, y, w, h int64
	rotation   float64
}

// boxFromXfrm extracts (x, y, cx, cy) from an xfrm element's off/ext
// children and converts the rot attribute from 60,000ths of a degree.
// A nil or empty element yields the all-zero box rather than an error.
func boxFromXfrm(xfrm *xmlquery.Node) box {
	var b box
	if xfrm == nil {
		return b
	}
	if off := child(xfrm, "off"); off != nil {
		b.x, _ = attrInt64(off, "x")
		b.y, _ = attrInt64(off, "y")
	}
	if ext := child(xfrm, "ext"); ext != nil {
		b.w, _ = attrInt64(ext, "cx")
		b.h, _ = attrInt64(ext, "cy")
	}
	if rot, ok := attrInt64(xfrm, "rot"); ok {
		b.rotation = stToDegrees(rot)
	}
	if b.w < 0 {
		b.w = 0
	}
	if b.h < 0 {
		b.h = 0
	}
	return b
}

// shapeBox extracts the transform of a shape by looking for the xfrm under
// its spPr (or the frame's own xfrm for graphic frames).
func shapeBox(shape *xmlquery.Node) box {
	if shape == nil {
		return box{}
	}
	if spPr := child(shape, "spPr"); spPr != nil {
		if xfrm := child(spPr, "xfrm"); xfrm != nil {
			return boxFromXfrm(xfrm)
		}
	}
	// graphicFrame carries its transform directly.
	if xfrm := child(shape, "xfrm"); xfrm != nil {
		return boxFromXfrm(xfrm)
	}
	return box{}
}

// hasOwnTransform reports whether the shape carries an explicit xfrm with
// both offset and extent, as opposed to the zero fallback.
func hasOwnTransform(shape *xmlquery.Node) bool {
	if shape == nil {
		return false
	}
	if spPr := child(shape, "spPr"); spPr != nil {
		if xfrm := child(spPr, "xfrm"); xfrm != nil {
			return child(xfrm, "off") != nil || child(xfrm, "ext") != nil
		}
	}
	if xfrm := child(shape, "xfrm"); xfrm != nil {
		return child(xfrm, "off") != nil || child(xfrm, "ext") != nil
	}
	return false
}

// groupOffset computes the slide-relative adjustment a group applies to its
// children: the group's on-slide offset minus its internal child-space
// origin, (gx - cox, gy - coy). One level of grouping is supported.
func groupOffset(grpSp *xmlquery.Node) (dx, dy int64) {
	grpSpPr := child(grpSp, "grpSpPr")
	if grpSpPr == nil {
		return 0, 0
	}
	xfrm := child(grpSpPr, "xfrm")
	if xfrm == nil {
		return 0, 0
	}
	var gx, gy, cox, coy int64
	if off := child(xfrm, "off"); off != nil {
		gx, _ = attrInt64(off, "x")
		gy, _ = attrInt64(off, "y")
	}
	if chOff := child(xfrm, "chOff"); chOff != nil {
		cox, _ = attrInt64(chOff, "x")
		coy, _ = attrInt64(chOff, "y")
	}
	return gx - cox, gy - coy
}

// shifted returns the box translated by a group offset.
func (b box) shifted(dx, dy int64) box {
	b.x += dx
	b.y += dy
	return b
}

// nearestTransform walks up from a node, at most maxLevels ancestors,
// returning the first transform found in an ancestor's subtree. This is the
// last-resort position source for media discovered only through a
// relationship scan.
func nearestTransform(n *xmlquery.Node, maxLevels int) (box, bool) {
	for level := 0; n != nil && level < maxLevels; level++ {
		if xfrm := descendant(n, "xfrm"); xfrm != nil {
			return boxFromXfrm(xfrm), true
		}
		n = n.Parent
	}
	return box{}, false
}
