package deckparse

import (
	"sort"

	"github.com/antchfx/xmlquery"
)

// colorMapKeys are the semantic keys a clrMap element carries, in the order
// they appear in the canonical mapping.
var colorMapKeys = []string{
	"bg1", "tx1", "bg2", "tx2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hlink", "folHlink",
}

// defaultColorMap is installed when neither the presentation part nor any
// slide master supplies a clrMap.
func defaultColorMap() map[string]string {
	return map[string]string{
		"bg1": "lt1", "tx1": "dk1",
		"bg2": "lt2", "tx2": "dk2",
		"accent1": "accent1", "accent2": "accent2",
		"accent3": "accent3", "accent4": "accent4",
		"accent5": "accent5", "accent6": "accent6",
		"hlink": "accent5", "folHlink": "accent6",
	}
}

// resolveColorMap reads the semantic-to-slot indirection table. It is
// called exactly once per Parse: presentation part first, then the first
// slide master, then the canonical default.
func (p *Parser) resolveColorMap() map[string]string {
	if m := colorMapFromPart(p.arc.partDoc("ppt/presentation.xml")); m != nil {
		return m
	}
	for _, master := range p.masterParts() {
		if m := colorMapFromPart(p.arc.partDoc(master)); m != nil {
			return m
		}
	}
	return defaultColorMap()
}

// colorMapFromPart extracts a clrMap element from a parsed part. A map is
// only accepted when the element carries at least one known key.
func colorMapFromPart(doc *xmlquery.Node) map[string]string {
	if doc == nil {
		return nil
	}
	node := descendant(doc, "clrMap")
	if node == nil {
		return nil
	}
	m := defaultColorMap()
	found := false
	for _, key := range colorMapKeys {
		if v := attrVal(node, key); v != "" {
			m[key] = v
			found = true
		}
	}
	if !found {
		return nil
	}
	return m
}

// masterParts lists the slide master parts present in the archive, in
// numeric filename order.
func (p *Parser) masterParts() []string {
	var out []string
	for name := range p.arc.parts {
		if pathMatchesNumbered(name, "ppt/slideMasters/slideMaster") {
			out = append(out, name)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return numberedPartIndex(out[i]) < numberedPartIndex(out[j])
	})
	return out
}
