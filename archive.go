package deckparse

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/antchfx/xmlquery"
)

// maxZipEntrySize is the maximum allowed size for a single file extracted
// from a ZIP. This prevents zip bomb attacks. 50 MB is generous for any
// legitimate PPTX part.
const maxZipEntrySize = 50 << 20 // 50 MB

// maxZipTotalSize is the limit for the archive buffer itself.
const maxZipTotalSize = 200 << 20 // 200 MB

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

// archive wraps the opened deck container and indexes its parts by name
// for O(1) lookups.
type archive struct {
	reader *zip.Reader
	parts  map[string]*zip.File
}

// openArchive opens a byte buffer as a deck container. A buffer that is not
// a valid ZIP is the one hard failure of the whole import.
func openArchive(buf []byte) (*archive, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("empty buffer")
	}
	if int64(len(buf)) > int64(maxZipTotalSize) {
		return nil, fmt.Errorf("buffer size %d exceeds maximum allowed (%d bytes)", len(buf), maxZipTotalSize)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}
	a := &archive{
		reader: zr,
		parts:  make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		a.parts[f.Name] = f
	}
	return a, nil
}

// has reports whether a part exists.
func (a *archive) has(name string) bool {
	_, ok := a.parts[name]
	return ok
}

// partBytes reads a part's raw content. Missing parts, oversized parts and
// read failures all return (nil, false); part absence is never an error at
// this level.
func (a *archive) partBytes(name string) ([]byte, bool) {
	f, ok := a.parts[name]
	if !ok {
		return nil, false
	}
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, false
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
	if err != nil || int64(len(data)) > int64(maxZipEntrySize) {
		return nil, false
	}
	return data, true
}

// partDoc reads a part and parses it into an XML node tree. Returns nil on
// absence or malformed content; the caller treats both the same way.
func (a *archive) partDoc(name string) *xmlquery.Node {
	data, ok := a.partBytes(name)
	if !ok {
		return nil
	}
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return doc
}

// resolvePartPath resolves a relationship target against the directory of
// the referencing part, normalizing "../" hops. Targets that are already
// absolute within the package are returned cleaned.
func resolvePartPath(fromPart, target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "ppt/") || strings.HasPrefix(target, "docProps/") {
		return path.Clean(target)
	}
	return path.Clean(path.Join(path.Dir(fromPart), target))
}

// relsPathFor returns the side-file path holding a part's relationships,
// e.g. ppt/slides/slide1.xml -> ppt/slides/_rels/slide1.xml.rels.
func relsPathFor(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// pathMatchesNumbered reports whether name is prefix + digits + ".xml",
// the shape of numbered parts like slide3.xml or slideMaster1.xml.
func pathMatchesNumbered(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".xml") {
		return false
	}
	mid := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".xml")
	if mid == "" {
		return false
	}
	for _, c := range mid {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// numberedPartIndex extracts the trailing number from a numbered part path,
// e.g. ppt/slides/slide12.xml -> 12. Returns 0 when no number is present.
func numberedPartIndex(name string) int {
	base := strings.TrimSuffix(path.Base(name), ".xml")
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n := 0
	for _, c := range base[i:] {
		n = n*10 + int(c-'0')
	}
	return n
}
