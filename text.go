package deckparse

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Hard-coded last-resort text defaults.
const (
	fallbackFontSize   = 24
	fallbackFontFamily = "Arial"
	fallbackColor      = "#000000"
)

// lineBreak is the literal break marker emitted between paragraphs and for
// explicit br elements.
const lineBreak = "<br>"

// runStyle is the fully resolved formatting of one text run.
type runStyle struct {
	bold   bool
	italic bool
	color  string
	size   int // points
	family string
}

// sameSpan reports whether two runs can merge into one span. Merging keys
// on the (bold, italic, color) triple only.
func (s runStyle) sameSpan(o runStyle) bool {
	return s.bold == o.bold && s.italic == o.italic && s.color == o.color
}

// masterDefaults is the per-slide cache of text formatting inherited from
// the slide master, used as the next-to-last fallback for runs without
// explicit properties.
type masterDefaults struct {
	size   int
	family string
	color  string
}

// masterDefaultsFor extracts {fontSize, fontFamily, color} from a master's
// txStyles (bodyStyle first, otherStyle for anything it lacks). Results are
// cached per master part.
func (p *Parser) masterDefaultsFor(masterPath, themeFile string) masterDefaults {
	if masterPath == "" {
		return masterDefaults{}
	}
	if md, ok := p.masterText[masterPath]; ok {
		return md
	}
	var md masterDefaults
	doc := p.arc.partDoc(masterPath)
	if styles := descendant(doc, "txStyles"); styles != nil {
		for _, styleName := range []string{"bodyStyle", "otherStyle", "titleStyle"} {
			defRPr := child(child(child(styles, styleName), "lvl1pPr"), "defRPr")
			if defRPr == nil {
				continue
			}
			if md.size == 0 {
				if v, ok := attrInt64(defRPr, "sz"); ok && v > 0 {
					md.size = int(v / 100)
				}
			}
			if md.family == "" {
				if latin := child(defRPr, "latin"); latin != nil {
					md.family = attrVal(latin, "typeface")
				}
			}
			if md.color == "" {
				if hex, ok := p.solidFillColor(child(defRPr, "solidFill"), themeFile); ok {
					md.color = hex
				}
			}
		}
	}
	p.masterText[masterPath] = md
	return md
}

// styleSources is the ordered fallback chain for one run: run-level rPr,
// paragraph-level defRPr, then text-body-level defRPr. First match wins;
// master defaults and the hard-coded values sit below the chain.
type styleSources struct {
	nodes  []*xmlquery.Node
	master masterDefaults
	theme  string
}

func (p *Parser) resolveStyle(src styleSources) runStyle {
	st := runStyle{
		size:   src.master.size,
		family: src.master.family,
		color:  src.master.color,
	}
	if st.size == 0 {
		st.size = fallbackFontSize
	}
	if st.family == "" {
		st.family = fallbackFontFamily
	}
	if st.color == "" {
		st.color = fallbackColor
	}
	for _, n := range src.nodes {
		if n == nil {
			continue
		}
		if v := attrVal(n, "b"); v != "" {
			st.bold = v == "1" || v == "true"
			break
		}
	}
	for _, n := range src.nodes {
		if n == nil {
			continue
		}
		if v := attrVal(n, "i"); v != "" {
			st.italic = v == "1" || v == "true"
			break
		}
	}
	for _, n := range src.nodes {
		if n == nil {
			continue
		}
		if v, ok := attrInt64(n, "sz"); ok && v > 0 {
			st.size = int(v / 100) // hundredths of a point
			break
		}
	}
	for _, n := range src.nodes {
		if n == nil {
			continue
		}
		if latin := child(n, "latin"); latin != nil {
			if tf := attrVal(latin, "typeface"); tf != "" {
				st.family = tf
				break
			}
		}
	}
	for _, n := range src.nodes {
		if n == nil {
			continue
		}
		if hex, ok := p.solidFillColor(child(n, "solidFill"), src.theme); ok {
			st.color = hex
			break
		}
	}
	return st
}

// textBoxContent is the formatted output of one text body.
type textBoxContent struct {
	content string
	style   runStyle // box-level defaults
	align   string
}

// paragraphAlign maps an algn attribute to the model's three values.
func paragraphAlign(pPr *xmlquery.Node) string {
	switch attrVal(pPr, "algn") {
	case "ctr":
		return "center"
	case "r":
		return "right"
	default:
		return "left"
	}
}

// formatTextBody renders a txBody into minimal nested markup. Consecutive
// runs sharing a (bold, italic, color) triple merge into one span; explicit
// line breaks and paragraph boundaries emit break markers, and no span
// merges across them. The box-level default style is the inherited resolution of
// the first paragraph (everything below run-level properties), so only
// runs that deviate from it get wrapped.
func (p *Parser) formatTextBody(txBody *xmlquery.Node, md masterDefaults, themeFile string) (textBoxContent, bool) {
	out := textBoxContent{align: "left"}
	if txBody == nil {
		return out, false
	}

	bodyDefRPr := child(child(child(txBody, "lstStyle"), "lvl1pPr"), "defRPr")
	paragraphs := children(txBody, "p")
	if len(paragraphs) == 0 {
		return out, false
	}

	firstPPr := child(paragraphs[0], "pPr")
	out.align = paragraphAlign(firstPPr)
	out.style = p.resolveStyle(styleSources{
		nodes:  []*xmlquery.Node{child(firstPPr, "defRPr"), bodyDefRPr},
		master: md,
		theme:  themeFile,
	})
	// Box-level size and family track the first run that supplies them.
	sizeSet, familySet := false, false

	var sb strings.Builder
	hasText := false

	for pi, para := range paragraphs {
		paraDefRPr := child(child(para, "pPr"), "defRPr")

		var pending []string
		var pendingStyle runStyle
		flush := func() {
			if len(pending) == 0 {
				return
			}
			sb.WriteString(wrapSpan(strings.Join(pending, ""), pendingStyle, out.style))
			pending = nil
		}

		for c := para.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			switch c.Data {
			case "r", "fld":
				text := elementText(child(c, "t"))
				if text == "" {
					continue
				}
				st := p.resolveStyle(styleSources{
					nodes:  []*xmlquery.Node{child(c, "rPr"), paraDefRPr, bodyDefRPr},
					master: md,
					theme:  themeFile,
				})
				if !sizeSet {
					out.style.size = st.size
					sizeSet = true
				}
				if !familySet {
					out.style.family = st.family
					familySet = true
				}
				if len(pending) > 0 && !st.sameSpan(pendingStyle) {
					flush()
				}
				if len(pending) == 0 {
					pendingStyle = st
				}
				pending = append(pending, text)
				hasText = true
			case "br":
				flush()
				sb.WriteString(lineBreak)
			}
		}
		flush()
		if pi < len(paragraphs)-1 {
			sb.WriteString(lineBreak)
		}
	}

	out.content = sb.String()
	return out, hasText
}

// wrapSpan wraps one merged span in the markers it needs relative to the
// box default: bold innermost, then italic, color outermost.
func wrapSpan(text string, st, def runStyle) string {
	if st.bold && !def.bold {
		text = "<b>" + text + "</b>"
	}
	if st.italic && !def.italic {
		text = "<i>" + text + "</i>"
	}
	if st.color != def.color {
		text = `<font color="` + st.color + `">` + text + "</font>"
	}
	return text
}
