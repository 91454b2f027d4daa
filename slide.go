package deckparse

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"
)

// fallbackMediaBox is the sentinel rectangle attached to audio/video
// placements whose position cannot be determined by any strategy. Kept as
// an explicit policy: such elements stay in the model instead of being
// dropped.
var fallbackMediaBox = box{x: 0, y: 0, w: emuPerInch, h: emuPerInch}

// audioScanDepth bounds the ancestor walk used to find a transform for
// media discovered only through a relationship scan.
const audioScanDepth = 10

// slideContext carries the per-slide resolution state. It is built once
// per slide and passed explicitly so slide parsing has no hidden shared
// state beyond the instance caches.
type slideContext struct {
	slidePath string
	inh       inheritance
	rels      *relMap
	md        masterDefaults
}

func (c *slideContext) theme() string { return c.inh.themeFile }

// counters hands out per-kind element ids, monotonic across the grouped
// and ungrouped passes of one slide.
type counters struct {
	image, text, video, audio int
}

func (c *counters) nextImage() int { c.image++; return c.image }
func (c *counters) nextText() int  { c.text++; return c.text }
func (c *counters) nextVideo() int { c.video++; return c.video }
func (c *counters) nextAudio() int { c.audio++; return c.audio }

// parseSlide builds the model for one slide part. A slide that cannot be
// read or parsed at all yields nil and is skipped by the caller; anything
// less than that degrades per element.
func (p *Parser) parseSlide(slidePath string, dims Dimensions) *ParsedSlide {
	doc := p.arc.partDoc(slidePath)
	if doc == nil {
		p.logger.Warn("skipping unreadable slide", zap.String("part", slidePath))
		return nil
	}

	ctx := &slideContext{
		slidePath: slidePath,
		inh:       p.inheritanceFor(slidePath),
		rels:      p.relsFor(slidePath),
	}
	ctx.md = p.masterDefaultsFor(ctx.inh.masterPath, ctx.theme())

	slide := &ParsedSlide{
		Images:    []*ImageElement{},
		TextBoxes: []*TextBoxElement{},
		Videos:    []*VideoElement{},
		Audios:    []*AudioElement{},
		Width:     dims.Width,
		Height:    dims.Height,
	}
	slide.Background = p.resolveBackground(doc, ctx)

	spTree := descendant(doc, "spTree")
	if spTree == nil {
		return slide
	}

	var ids counters

	// Ungrouped shapes first, then one level of groups; both go through the
	// same dispatch, groups add their child-space offset.
	for c := spTree.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "sp", "pic", "graphicFrame":
			p.dispatchShape(c, ctx, slide, &ids, 0, 0)
		}
	}
	for _, grp := range children(spTree, "grpSp") {
		dx, dy := groupOffset(grp)
		for c := grp.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			switch c.Data {
			case "sp", "pic", "graphicFrame":
				p.dispatchShape(c, ctx, slide, &ids, dx, dy)
			}
		}
	}

	p.discoverAudio(doc, spTree, ctx, slide, &ids)
	return slide
}

// dispatchShape routes one shape element by kind. Audio-bearing shapes are
// left to the dedicated discovery passes.
func (p *Parser) dispatchShape(shape *xmlquery.Node, ctx *slideContext, slide *ParsedSlide, ids *counters, dx, dy int64) {
	switch shape.Data {
	case "pic":
		if descendant(shape, "audioFile") != nil {
			return
		}
		if descendant(shape, "videoFile") != nil {
			if v := p.videoFromShape(shape, ctx, ids); v != nil {
				v.X += dx
				v.Y += dy
				slide.Videos = append(slide.Videos, v)
			}
			return
		}
		if img := p.imageFromPic(shape, ctx, ids); img != nil {
			img.X += dx
			img.Y += dy
			slide.Images = append(slide.Images, img)
		}
	case "sp":
		if descendant(shape, "audioFile") != nil {
			return
		}
		if tb := p.textBoxFromShape(shape, ctx, ids); tb != nil {
			tb.X += dx
			tb.Y += dy
			slide.TextBoxes = append(slide.TextBoxes, tb)
		}
	case "graphicFrame":
		if descendant(shape, "audioFile") != nil {
			return
		}
		if tbl := descendant(shape, "tbl"); tbl != nil {
			if tb := p.tableFromFrame(shape, tbl, ctx, ids); tb != nil {
				tb.X += dx
				tb.Y += dy
				slide.TextBoxes = append(slide.TextBoxes, tb)
			}
		}
	}
}

// imageFromPic builds an image element from a picture shape with a blip
// fill. A picture with no transform takes its intrinsic bitmap size.
func (p *Parser) imageFromPic(pic *xmlquery.Node, ctx *slideContext, ids *counters) *ImageElement {
	blip := child(child(pic, "blipFill"), "blip")
	if blip == nil {
		return nil
	}
	embed := attrVal(blip, "embed")
	if embed == "" {
		embed = attrVal(blip, "link")
	}
	target, ok := ctx.rels.target(embed)
	if !ok {
		return nil
	}
	entry := p.mediaByTarget(target)
	if entry == nil || !entry.isImage {
		p.logger.Warn("image reference without media entry",
			zap.String("part", ctx.slidePath), zap.String("target", target))
		return nil
	}
	b := shapeBox(pic)
	if !hasOwnTransform(pic) && entry.pxWidth > 0 {
		b.w = pixelsToEMU(entry.pxWidth)
		b.h = pixelsToEMU(entry.pxHeight)
	}
	return &ImageElement{
		Box:        boxToModel(ids.nextImage(), b),
		DataURI:    entry.dataURI,
		SourceFile: entry.name,
	}
}

// videoFromShape builds a video element from a picture shape carrying a
// videoFile reference.
func (p *Parser) videoFromShape(shape *xmlquery.Node, ctx *slideContext, ids *counters) *VideoElement {
	vf := descendant(shape, "videoFile")
	target, ok := ctx.rels.target(attrVal(vf, "link"))
	if !ok {
		if target, ok = ctx.rels.target(attrVal(vf, "embed")); !ok {
			return nil
		}
	}
	entry := p.mediaByTarget(target)
	if entry == nil {
		p.logger.Warn("video reference without media entry",
			zap.String("part", ctx.slidePath), zap.String("target", target))
		return nil
	}
	b := shapeBox(shape)
	if !hasOwnTransform(shape) {
		b = fallbackMediaBox
	}
	return &VideoElement{
		Box:        boxToModel(ids.nextVideo(), b),
		DataURI:    entry.dataURI,
		SourceFile: entry.name,
	}
}

// textBoxFromShape builds a text box from an sp with a text body.
func (p *Parser) textBoxFromShape(shape *xmlquery.Node, ctx *slideContext, ids *counters) *TextBoxElement {
	txBody := child(shape, "txBody")
	if txBody == nil {
		return nil
	}
	content, ok := p.formatTextBody(txBody, ctx.md, ctx.theme())
	if !ok {
		return nil
	}
	return &TextBoxElement{
		Box:        boxToModel(ids.nextText(), shapeBox(shape)),
		Content:    content.content,
		FontSize:   content.style.size,
		FontFamily: content.style.family,
		Color:      content.style.color,
		Bold:       content.style.bold,
		Italic:     content.style.italic,
		Align:      content.align,
	}
}

// tableFromFrame flattens a table into a pipe-delimited grid, one row per
// line, carried by a text-box element that takes the first cell's
// formatting as the table default.
func (p *Parser) tableFromFrame(frame, tbl *xmlquery.Node, ctx *slideContext, ids *counters) *TextBoxElement {
	rows := children(tbl, "tr")
	if len(rows) == 0 {
		return nil
	}
	style := p.resolveStyle(styleSources{master: ctx.md, theme: ctx.theme()})
	align := "left"
	styled := false

	var lines []string
	for _, tr := range rows {
		var cells []string
		for _, tc := range children(tr, "tc") {
			txBody := child(tc, "txBody")
			cells = append(cells, cellPlainText(txBody))
			if !styled && txBody != nil {
				if c, ok := p.formatTextBody(txBody, ctx.md, ctx.theme()); ok {
					style = c.style
					align = c.align
					styled = true
				}
			}
		}
		lines = append(lines, strings.Join(cells, "|"))
	}

	return &TextBoxElement{
		Box:        boxToModel(ids.nextText(), shapeBox(frame)),
		Content:    strings.Join(lines, "\n"),
		FontSize:   style.size,
		FontFamily: style.family,
		Color:      style.color,
		Bold:       style.bold,
		Italic:     style.italic,
		Align:      align,
	}
}

// cellPlainText joins a table cell's paragraph texts with single spaces,
// with no markup.
func cellPlainText(txBody *xmlquery.Node) string {
	var parts []string
	for _, para := range children(txBody, "p") {
		var sb strings.Builder
		for _, r := range children(para, "r") {
			sb.WriteString(elementText(child(r, "t")))
		}
		if sb.Len() > 0 {
			parts = append(parts, sb.String())
		}
	}
	return strings.Join(parts, " ")
}

// discoverAudio runs the prioritized three-pass audio search over a single
// result set, de-duplicating by source filename so a later pass never
// duplicates a file an earlier pass claimed.
func (p *Parser) discoverAudio(doc, spTree *xmlquery.Node, ctx *slideContext, slide *ParsedSlide, ids *counters) {
	seen := make(map[string]bool)
	// A file already placed as a video is not audio, even when its
	// extension is eligible for both.
	for _, v := range slide.Videos {
		seen[v.SourceFile] = true
	}

	add := func(entry *mediaEntry, b box) {
		if entry == nil || seen[entry.name] {
			return
		}
		seen[entry.name] = true
		slide.Audios = append(slide.Audios, &AudioElement{
			Box:        boxToModel(ids.nextAudio(), b),
			DataURI:    entry.dataURI,
			SourceFile: entry.name,
		})
	}

	// Pass 1: shapes carrying an explicit audio reference. Position comes
	// from the shape's own transform, a nested picture's transform, or the
	// sentinel box.
	for _, af := range descendants(spTree, "audioFile") {
		shape := owningShape(af, "sp", "pic")
		if shape == nil {
			continue
		}
		entry := p.audioEntryFor(af, ctx)
		if entry == nil {
			continue
		}
		b := fallbackMediaBox
		if hasOwnTransform(shape) {
			b = shapeBox(shape)
		} else if pic := descendant(shape, "pic"); pic != nil && hasOwnTransform(pic) {
			b = shapeBox(pic)
		}
		dx, dy := ancestorGroupOffset(shape, spTree)
		add(entry, b.shifted(dx, dy))
	}

	// Pass 2: graphic frames carrying an audio reference; position from the
	// frame's transform.
	for _, frame := range descendants(spTree, "graphicFrame") {
		af := descendant(frame, "audioFile")
		if af == nil {
			continue
		}
		entry := p.audioEntryFor(af, ctx)
		if entry == nil {
			continue
		}
		dx, dy := ancestorGroupOffset(frame, spTree)
		add(entry, shapeBox(frame).shifted(dx, dy))
	}

	// Pass 3: every unclaimed relationship with an audio-eligible target.
	// The referencing element is located by the standard link/embed
	// attributes, then by a raw attribute-value scan; position comes from
	// the nearest transform within a bounded ancestor walk.
	for _, rel := range ctx.rels.entries {
		if !isAudioFilename(rel.Target) {
			continue
		}
		entry := p.mediaByTarget(resolvePartPath(ctx.slidePath, rel.Target))
		if entry == nil || !entry.isAudio || seen[entry.name] {
			continue
		}
		b := fallbackMediaBox
		if ref := findReferencingElement(doc, rel.ID); ref != nil {
			if nb, ok := nearestTransform(ref, audioScanDepth); ok {
				b = nb
			}
		}
		add(entry, b)
	}
}

// audioEntryFor resolves an audioFile element's relationship to a media
// entry, accepting both link and embed attributes.
func (p *Parser) audioEntryFor(af *xmlquery.Node, ctx *slideContext) *mediaEntry {
	id := attrVal(af, "link")
	if id == "" {
		id = attrVal(af, "embed")
	}
	target, ok := ctx.rels.target(id)
	if !ok {
		return nil
	}
	entry := p.mediaByTarget(target)
	if entry == nil || !entry.isAudio {
		return nil
	}
	return entry
}

// owningShape walks up from a node to the nearest ancestor with one of the
// given element names.
func owningShape(n *xmlquery.Node, names ...string) *xmlquery.Node {
	for n = n.Parent; n != nil; n = n.Parent {
		for _, name := range names {
			if n.Data == name {
				return n
			}
		}
	}
	return nil
}

// ancestorGroupOffset returns the coordinate adjustment of the group a
// shape sits in, or zero when the shape is ungrouped. The walk stops at
// the shape tree root.
func ancestorGroupOffset(n, spTree *xmlquery.Node) (int64, int64) {
	for a := n.Parent; a != nil && a != spTree; a = a.Parent {
		if a.Data == "grpSp" {
			return groupOffset(a)
		}
	}
	return 0, 0
}

// findReferencingElement locates the element that references a relationship
// id: first through the standard embed/link attributes, then by scanning
// every attribute value.
func findReferencingElement(doc *xmlquery.Node, relID string) *xmlquery.Node {
	var byAttr func(n *xmlquery.Node, strict bool) *xmlquery.Node
	byAttr = func(n *xmlquery.Node, strict bool) *xmlquery.Node {
		if n.Type == xmlquery.ElementNode {
			for _, a := range n.Attr {
				if a.Value != relID {
					continue
				}
				if !strict || a.Name.Local == "embed" || a.Name.Local == "link" {
					return n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := byAttr(c, strict); found != nil {
				return found
			}
		}
		return nil
	}
	if n := byAttr(doc, true); n != nil {
		return n
	}
	return byAttr(doc, false)
}

// resolveBackground walks the slide -> layout -> master chain; the first
// level with any background wins and deeper levels are not consulted.
// Within a level a solid fill is checked before an image fill.
func (p *Parser) resolveBackground(slideDoc *xmlquery.Node, ctx *slideContext) *Background {
	type level struct {
		doc  *xmlquery.Node
		rels *relMap
		part string
	}
	levels := []level{{slideDoc, ctx.rels, ctx.slidePath}}
	if ctx.inh.layoutPath != "" {
		levels = append(levels, level{p.arc.partDoc(ctx.inh.layoutPath), p.relsFor(ctx.inh.layoutPath), ctx.inh.layoutPath})
	}
	if ctx.inh.masterPath != "" {
		levels = append(levels, level{p.arc.partDoc(ctx.inh.masterPath), p.relsFor(ctx.inh.masterPath), ctx.inh.masterPath})
	}

	for _, lv := range levels {
		if lv.doc == nil {
			continue
		}
		bgPr := child(descendant(lv.doc, "bg"), "bgPr")
		if bgPr == nil {
			continue
		}
		if hex, ok := p.solidFillColor(child(bgPr, "solidFill"), ctx.theme()); ok {
			return &Background{Type: BackgroundSolid, Color: hex}
		}
		if blip := child(child(bgPr, "blipFill"), "blip"); blip != nil {
			embed := attrVal(blip, "embed")
			if embed == "" {
				embed = attrVal(blip, "link")
			}
			if target, ok := lv.rels.target(embed); ok {
				if entry := p.mediaByTarget(target); entry != nil && entry.isImage {
					return &Background{
						Type:       BackgroundImage,
						DataURI:    entry.dataURI,
						SourceFile: entry.name,
					}
				}
			}
		}
	}
	return nil
}

// boxToModel converts an internal box to the shared positioned-element
// core. Negative extents were already clamped at extraction.
func boxToModel(id int, b box) Box {
	return Box{ID: id, X: b.x, Y: b.y, Width: b.w, Height: b.h, Rotation: b.rotation}
}
