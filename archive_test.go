package deckparse

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"
)

func TestOpenArchiveRejectsGarbage(t *testing.T) {
	if _, err := openArchive(nil); err == nil {
		t.Error("empty buffer should fail")
	}
	if _, err := openArchive([]byte("not a zip")); err == nil {
		t.Error("garbage buffer should fail")
	}
}

func TestOpenArchiveEntryCap(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := 0; i < maxZipEntries+1; i++ {
		w, err := zw.Create(fmt.Sprintf("f%d", i))
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte("x"))
	}
	zw.Close()
	if _, err := openArchive(buf.Bytes()); err == nil {
		t.Error("archive over the entry cap should fail")
	}
}

func TestPartBytes(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("ppt/hello.xml")
	w.Write([]byte("<x/>"))
	zw.Close()

	a, err := openArchive(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	data, ok := a.partBytes("ppt/hello.xml")
	if !ok || string(data) != "<x/>" {
		t.Errorf("got (%q, %v)", data, ok)
	}
	if _, ok := a.partBytes("missing.xml"); ok {
		t.Error("missing part should report ok=false")
	}
	if !a.has("ppt/hello.xml") || a.has("missing.xml") {
		t.Error("has() disagrees with the part index")
	}
}

func TestPathMatchesNumbered(t *testing.T) {
	prefix := "ppt/slides/slide"
	good := []string{"ppt/slides/slide1.xml", "ppt/slides/slide42.xml"}
	for _, name := range good {
		if !pathMatchesNumbered(name, prefix) {
			t.Errorf("%s should match", name)
		}
	}
	bad := []string{
		"ppt/slides/slide.xml",
		"ppt/slides/slide1.xml.rels",
		"ppt/slides/slideA.xml",
		"ppt/slideLayouts/slideLayout1.xml",
	}
	for _, name := range bad {
		if pathMatchesNumbered(name, prefix) {
			t.Errorf("%s should not match", name)
		}
	}
}

func TestNumberedPartIndex(t *testing.T) {
	if got := numberedPartIndex("ppt/slides/slide12.xml"); got != 12 {
		t.Errorf("got %d", got)
	}
	if got := numberedPartIndex("ppt/slides/slide.xml"); got != 0 {
		t.Errorf("got %d", got)
	}
}
