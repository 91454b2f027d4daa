package deckparse

import (
	"encoding/xml"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Relationship type URIs used for indirect part references.
const (
	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeVideo       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/video"
	relTypeAudio       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/audio"
	relTypeMedia       = "http://schemas.microsoft.com/office/2007/relationships/media"
)

// defaultThemeFile is the theme part every chain hop degrades to when a
// relationship, part or parse is missing along the way.
const defaultThemeFile = "theme1.xml"

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationshipsXML struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []relationship `xml:"Relationship"`
}

// relMap holds one part's relationships, preserving file order for scans.
type relMap struct {
	fromPart string
	entries  []relationship
	byID     map[string]relationship
}

// relsFor parses the relationship side-file of the given part. An absent or
// malformed side-file yields an empty map, not an error.
func (p *Parser) relsFor(part string) *relMap {
	rm := &relMap{fromPart: part, byID: make(map[string]relationship)}
	data, ok := p.arc.partBytes(relsPathFor(part))
	if !ok {
		return rm
	}
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	dec.CharsetReader = charset.NewReaderLabel
	var rels relationshipsXML
	if err := dec.Decode(&rels); err != nil {
		p.logger.Warn("malformed relationships part",
			zap.String("part", relsPathFor(part)), zap.Error(err))
		return rm
	}
	rm.entries = rels.Relationships
	for _, r := range rels.Relationships {
		rm.byID[r.ID] = r
	}
	return rm
}

// target returns the resolved part path for a relationship id.
func (rm *relMap) target(id string) (string, bool) {
	r, ok := rm.byID[id]
	if !ok || r.Target == "" {
		return "", false
	}
	return resolvePartPath(rm.fromPart, r.Target), true
}

// firstOfType returns the resolved target of the first relationship with
// the given type URI.
func (rm *relMap) firstOfType(relType string) (string, bool) {
	for _, r := range rm.entries {
		if r.Type == relType && r.Target != "" {
			return resolvePartPath(rm.fromPart, r.Target), true
		}
	}
	return "", false
}

// inheritance is the resolved slide -> layout -> master -> theme chain for
// one slide. Any field may hold a zero value when the chain degraded.
type inheritance struct {
	layoutPath string
	masterPath string
	themeFile  string // base filename, e.g. "theme1.xml"
}

// inheritanceFor walks the fixed chain one hop per level. Each hop
// independently falls back to the default theme on a missing relationship,
// missing part or parse failure; the walk never errors.
func (p *Parser) inheritanceFor(slidePath string) inheritance {
	in := inheritance{themeFile: defaultThemeFile}

	slideRels := p.relsFor(slidePath)
	layoutPath, ok := slideRels.firstOfType(relTypeSlideLayout)
	if !ok || !p.arc.has(layoutPath) {
		return in
	}
	in.layoutPath = layoutPath

	layoutRels := p.relsFor(layoutPath)
	masterPath, ok := layoutRels.firstOfType(relTypeSlideMaster)
	if !ok || !p.arc.has(masterPath) {
		return in
	}
	in.masterPath = masterPath

	masterRels := p.relsFor(masterPath)
	themePath, ok := masterRels.firstOfType(relTypeTheme)
	if !ok || !p.arc.has(themePath) {
		return in
	}
	in.themeFile = path.Base(themePath)
	return in
}
