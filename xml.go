package deckparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// XML node helpers. PPTX parts mix three namespaces (p:, a:, r:) and some
// producers emit unusual prefixes, so all matching is by local name.

// attrVal returns the value of the first attribute with the given local
// name, regardless of namespace prefix.
func attrVal(n *xmlquery.Node, local string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// attrInt64 parses an integer attribute; absent or malformed values report
// ok=false so callers can fall back to zero.
func attrInt64(n *xmlquery.Node, local string) (int64, bool) {
	s := attrVal(n, local)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// relIDAttr returns the r:id value of a node. sldId elements carry both a
// plain id and a namespaced r:id with the same local name, so the
// namespaced one is preferred and a bare "rIdN" value accepted as fallback.
func relIDAttr(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Name.Local == "id" && a.Name.Space != "" {
			return a.Value
		}
	}
	for _, a := range n.Attr {
		if a.Name.Local == "id" && strings.HasPrefix(a.Value, "rId") {
			return a.Value
		}
	}
	return ""
}

// child returns the first direct child element with the given local name.
func child(n *xmlquery.Node, local string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

// children returns all direct child elements with the given local name.
func children(n *xmlquery.Node, local string) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			out = append(out, c)
		}
	}
	return out
}

// descendant returns the first descendant element with the given local name.
func descendant(n *xmlquery.Node, local string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	return xmlquery.FindOne(n, fmt.Sprintf(".//*[local-name()='%s']", local))
}

// descendants returns all descendant elements with the given local name.
func descendants(n *xmlquery.Node, local string) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	return xmlquery.Find(n, fmt.Sprintf(".//*[local-name()='%s']", local))
}

// elementText returns the concatenated character data of an element.
func elementText(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return n.InnerText()
}
