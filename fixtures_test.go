package deckparse

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
)

// Namespace declarations shared by every fixture part.
const (
	fixtureNS = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" ` +
		`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	fixtureRelsNS = `xmlns="http://schemas.openxmlformats.org/package/2006/relationships"`
)

// deckBuilder assembles an in-memory PPTX archive for tests. The zero
// deck from newDeck has one empty slide wired through a layout, a master
// with a color map and text styles, and a theme.
type deckBuilder struct {
	parts      map[string][]byte
	slideBody  string // shape elements inside spTree
	slideBG    string // optional bg element before spTree
	extraRels  []string
	omitLayout bool
	omitSlide  bool
}

func newDeck() *deckBuilder {
	d := &deckBuilder{parts: map[string][]byte{}}

	d.put("ppt/presentation.xml", fmt.Sprintf(
		`<p:presentation %s><p:sldIdLst><p:sldId id="256" r:id="rId1"/></p:sldIdLst>`+
			`<p:sldSz cx="9144000" cy="6858000"/></p:presentation>`, fixtureNS))
	d.put("ppt/_rels/presentation.xml.rels", fmt.Sprintf(
		`<Relationships %s><Relationship Id="rId1" Type="%s" Target="slides/slide1.xml"/></Relationships>`,
		fixtureRelsNS, relTypeSlide))

	d.put("ppt/slideLayouts/slideLayout1.xml", fmt.Sprintf(
		`<p:sldLayout %s><p:cSld><p:spTree/></p:cSld></p:sldLayout>`, fixtureNS))
	d.put("ppt/slideLayouts/_rels/slideLayout1.xml.rels", fmt.Sprintf(
		`<Relationships %s><Relationship Id="rId1" Type="%s" Target="../slideMasters/slideMaster1.xml"/></Relationships>`,
		fixtureRelsNS, relTypeSlideMaster))

	d.put("ppt/slideMasters/slideMaster1.xml", fmt.Sprintf(
		`<p:sldMaster %s><p:cSld><p:spTree/></p:cSld>`+
			`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" `+
			`accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`+
			`<p:txStyles><p:bodyStyle><a:lvl1pPr><a:defRPr sz="1800">`+
			`<a:solidFill><a:srgbClr val="404040"/></a:solidFill><a:latin typeface="Calibri"/>`+
			`</a:defRPr></a:lvl1pPr></p:bodyStyle></p:txStyles></p:sldMaster>`, fixtureNS))
	d.put("ppt/slideMasters/_rels/slideMaster1.xml.rels", fmt.Sprintf(
		`<Relationships %s><Relationship Id="rId1" Type="%s" Target="../theme/theme1.xml"/></Relationships>`,
		fixtureRelsNS, relTypeTheme))

	d.put("ppt/theme/theme1.xml", fmt.Sprintf(
		`<a:theme %s><a:themeElements><a:clrScheme name="Office">`+
			`<a:dk1><a:sysClr val="windowText" lastClr="111111"/></a:dk1>`+
			`<a:lt1><a:sysClr val="window" lastClr="FEFEFE"/></a:lt1>`+
			`<a:dk2><a:srgbClr val="1F497D"/></a:dk2>`+
			`<a:lt2><a:srgbClr val="EEECE1"/></a:lt2>`+
			`<a:accent1><a:srgbClr val="4F81BD"/></a:accent1>`+
			`<a:accent2><a:srgbClr val="C0504D"/></a:accent2>`+
			`<a:accent3><a:srgbClr val="9BBB59"/></a:accent3>`+
			`<a:accent4><a:srgbClr val="8064A2"/></a:accent4>`+
			`<a:accent5><a:srgbClr val="4BACC6"/></a:accent5>`+
			`<a:accent6><a:srgbClr val="F79646"/></a:accent6>`+
			`</a:clrScheme></a:themeElements></a:theme>`, fixtureNS))

	return d
}

func (d *deckBuilder) put(name, content string) {
	d.parts[name] = []byte(content)
}

func (d *deckBuilder) putRaw(name string, data []byte) {
	d.parts[name] = data
}

// shapes sets the slide's spTree content.
func (d *deckBuilder) shapes(xml string) *deckBuilder {
	d.slideBody = xml
	return d
}

// background sets the slide's bg element.
func (d *deckBuilder) background(xml string) *deckBuilder {
	d.slideBG = xml
	return d
}

// rel adds a relationship to the slide's side-file.
func (d *deckBuilder) rel(id, relType, target string) *deckBuilder {
	d.extraRels = append(d.extraRels,
		fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, relType, target))
	return d
}

// media adds a binary under ppt/media/.
func (d *deckBuilder) media(name string, data []byte) *deckBuilder {
	d.putRaw("ppt/media/"+name, data)
	return d
}

func (d *deckBuilder) build(t *testing.T) []byte {
	t.Helper()

	if !d.omitSlide {
		d.put("ppt/slides/slide1.xml", fmt.Sprintf(
			`<p:sld %s><p:cSld>%s<p:spTree><p:nvGrpSpPr/><p:grpSpPr/>%s</p:spTree></p:cSld></p:sld>`,
			fixtureNS, d.slideBG, d.slideBody))

		rels := make([]string, 0, len(d.extraRels)+1)
		if !d.omitLayout {
			rels = append(rels, fmt.Sprintf(
				`<Relationship Id="rId100" Type="%s" Target="../slideLayouts/slideLayout1.xml"/>`,
				relTypeSlideLayout))
		}
		rels = append(rels, d.extraRels...)
		d.put("ppt/slides/_rels/slide1.xml.rels", fmt.Sprintf(
			`<Relationships %s>%s</Relationships>`, fixtureRelsNS, strings.Join(rels, "")))
	}

	names := make([]string, 0, len(d.parts))
	for name := range d.parts {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(d.parts[name]); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// parseFixture builds the deck and parses it, failing the test on error.
func parseFixture(t *testing.T, d *deckBuilder) *ParsedPresentation {
	t.Helper()
	pres, err := NewParser().Parse(d.build(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return pres
}

// oneSlide parses the deck and returns its single slide.
func oneSlide(t *testing.T, d *deckBuilder) *ParsedSlide {
	t.Helper()
	pres := parseFixture(t, d)
	if len(pres.Slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(pres.Slides))
	}
	return pres.Slides[0]
}

// parseXML parses a standalone XML snippet into a node tree.
func parseXML(t *testing.T, src string) *xmlquery.Node {
	t.Helper()
	doc, err := xmlquery.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse snippet: %v", err)
	}
	return doc
}

// helper: create a minimal 1x1 PNG
func testPNG() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53,
		0xDE, 0x00, 0x00, 0x00, 0x0C, 0x49, 0x44, 0x41,
		0x54, 0x08, 0xD7, 0x63, 0xF8, 0xCF, 0xC0, 0x00,
		0x00, 0x00, 0x02, 0x00, 0x01, 0xE2, 0x21, 0xBC,
		0x33, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E,
		0x44, 0xAE, 0x42, 0x60, 0x82,
	}
}
