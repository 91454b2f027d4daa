package deckparse

import (
	"fmt"
	"math"
	"strings"

	"github.com/antchfx/xmlquery"
)

// themeSlots are the ten named slots of a theme color table.
var themeSlots = []string{
	"dk1", "lt1", "dk2", "lt2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
}

// defaultThemeTable supplies any slot missing from a real theme. Values are
// the stock Office scheme.
var defaultThemeTable = map[string]string{
	"dk1":     "#000000",
	"lt1":     "#FFFFFF",
	"dk2":     "#44546A",
	"lt2":     "#E7E6E6",
	"accent1": "#4472C4",
	"accent2": "#ED7D31",
	"accent3": "#A5A5A5",
	"accent4": "#FFC000",
	"accent5": "#5B9BD5",
	"accent6": "#70AD47",
}

// maxThemeProbe bounds the theme1..themeN probe.
const maxThemeProbe = 20

// loadThemes parses every theme part found into a slot table, keyed by base
// filename. Slots without an explicit RGB value or a last-known system
// color are omitted and later served from the default table.
func (p *Parser) loadThemes() map[string]map[string]string {
	themes := make(map[string]map[string]string)
	for i := 1; i <= maxThemeProbe; i++ {
		name := fmt.Sprintf("theme%d.xml", i)
		doc := p.arc.partDoc("ppt/theme/" + name)
		if doc == nil {
			continue
		}
		scheme := descendant(doc, "clrScheme")
		if scheme == nil {
			continue
		}
		table := make(map[string]string, len(themeSlots))
		for _, slot := range themeSlots {
			if hex, ok := slotColor(child(scheme, slot)); ok {
				table[slot] = hex
			}
		}
		themes[name] = table
	}
	return themes
}

// slotColor reads one clrScheme slot: explicit srgbClr first, then the
// sysClr lastClr snapshot.
func slotColor(slot *xmlquery.Node) (string, bool) {
	if slot == nil {
		return "", false
	}
	if srgb := child(slot, "srgbClr"); srgb != nil {
		if hex, ok := normalizeHex(attrVal(srgb, "val")); ok {
			return hex, true
		}
	}
	if sys := child(slot, "sysClr"); sys != nil {
		if hex, ok := normalizeHex(attrVal(sys, "lastClr")); ok {
			return hex, true
		}
	}
	return "", false
}

// normalizeHex validates a 6-digit hex color and returns it as "#RRGGBB".
func normalizeHex(s string) (string, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return "", false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')) {
			return "", false
		}
	}
	return "#" + strings.ToUpper(s), true
}

// lumModifiers are the optional multiply/offset fractions attached to a
// scheme color reference.
type lumModifiers struct {
	mod    float64
	off    float64
	hasMod bool
	hasOff bool
}

// modifiersOf reads lumMod/lumOff children of a color element. Values are
// stored in 1/1000 of a percent, e.g. 50000 = 0.5.
func modifiersOf(clr *xmlquery.Node) lumModifiers {
	var m lumModifiers
	if v, ok := attrInt64(child(clr, "lumMod"), "val"); ok {
		m.mod = float64(v) / 100000.0
		m.hasMod = true
	}
	if v, ok := attrInt64(child(clr, "lumOff"), "val"); ok {
		m.off = float64(v) / 100000.0
		m.hasOff = true
	}
	return m
}

// applyLuminance adjusts a base color: multiply each channel by the modify
// fraction, then add 255 x offset, clamping to [0, 255]. Multiply happens
// before add; with no modifiers the base color is returned unchanged.
func applyLuminance(hex string, m lumModifiers) string {
	if !m.hasMod && !m.hasOff {
		return hex
	}
	r := float64(hexChannel(hex, 1))
	g := float64(hexChannel(hex, 3))
	b := float64(hexChannel(hex, 5))
	if m.hasMod {
		r *= m.mod
		g *= m.mod
		b *= m.mod
	}
	if m.hasOff {
		r += 255 * m.off
		g += 255 * m.off
		b += 255 * m.off
	}
	return fmt.Sprintf("#%02X%02X%02X", clampChannel(r), clampChannel(g), clampChannel(b))
}

func hexChannel(hex string, offset int) uint8 {
	if offset+2 > len(hex) {
		return 0
	}
	h := hexVal(hex[offset])
	l := hexVal(hex[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// resolveSchemeColor turns a scheme color name into a concrete "#RRGGBB":
// semantic key -> slot via the color map, slot -> hex via the slide's
// active theme, default table when the theme lacks the slot, then luminance
// modifiers. There is no undefined-color outcome.
func (p *Parser) resolveSchemeColor(themeFile, name string, m lumModifiers) string {
	slot := name
	if mapped, ok := p.colorMap[name]; ok {
		slot = mapped
	}
	hex := ""
	if table, ok := p.themes[themeFile]; ok {
		hex = table[slot]
	}
	if hex == "" {
		hex = defaultThemeTable[slot]
	}
	if hex == "" {
		hex = defaultThemeTable["dk1"]
	}
	return applyLuminance(hex, m)
}

// solidFillColor extracts the concrete color of a solidFill element,
// resolving scheme references against the slide's active theme. Reports
// ok=false when the element holds no usable color.
func (p *Parser) solidFillColor(fill *xmlquery.Node, themeFile string) (string, bool) {
	if fill == nil {
		return "", false
	}
	if srgb := child(fill, "srgbClr"); srgb != nil {
		if hex, ok := normalizeHex(attrVal(srgb, "val")); ok {
			return applyLuminance(hex, modifiersOf(srgb)), true
		}
	}
	if scheme := child(fill, "schemeClr"); scheme != nil {
		if name := attrVal(scheme, "val"); name != "" {
			return p.resolveSchemeColor(themeFile, name, modifiersOf(scheme)), true
		}
	}
	if sys := child(fill, "sysClr"); sys != nil {
		if hex, ok := normalizeHex(attrVal(sys, "lastClr")); ok {
			return applyLuminance(hex, modifiersOf(sys)), true
		}
	}
	return "", false
}
