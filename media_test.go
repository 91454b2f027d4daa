package deckparse

import (
	"bytes"
	"strings"
	"testing"
)

func TestMediaClassification(t *testing.T) {
	d := newDeck().
		media("image1.png", testPNG()).
		media("media1.mp4", []byte("vvvv")).
		media("audio1.mp3", []byte("aaaa")).
		media("notes.txt", []byte("skip me"))
	p := newTestParser(t, d)

	entries := p.extractMedia()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	img := entries["image1.png"]
	if img == nil || !img.isImage || img.isVideo || img.isAudio {
		t.Errorf("image1.png misclassified: %+v", img)
	}
	if img.mime != "image/png" {
		t.Errorf("mime = %s", img.mime)
	}
	if img.pxWidth != 1 || img.pxHeight != 1 {
		t.Errorf("intrinsic size = (%d,%d), want (1,1)", img.pxWidth, img.pxHeight)
	}

	// mp4 is eligible for both; the referencing element decides later.
	vid := entries["media1.mp4"]
	if vid == nil || !vid.isVideo || !vid.isAudio || vid.isImage {
		t.Errorf("media1.mp4 misclassified: %+v", vid)
	}

	aud := entries["audio1.mp3"]
	if aud == nil || !aud.isAudio || aud.isVideo || aud.isImage {
		t.Errorf("audio1.mp3 misclassified: %+v", aud)
	}
	if aud.mime != "audio/mpeg" {
		t.Errorf("mime = %s", aud.mime)
	}

	if entries["notes.txt"] != nil {
		t.Error("unknown extension should be skipped")
	}
}

func TestMediaDataURI(t *testing.T) {
	d := newDeck().media("audio1.mp3", []byte{0x01, 0x02, 0x03})
	p := newTestParser(t, d)
	uri := p.extractMedia()["audio1.mp3"].dataURI
	if !strings.HasPrefix(uri, "data:audio/mpeg;base64,") {
		t.Errorf("uri prefix wrong: %s", uri)
	}
	if !strings.HasSuffix(uri, "AQID") {
		t.Errorf("uri payload wrong: %s", uri)
	}
}

func TestMediaByTarget(t *testing.T) {
	d := newDeck().media("image1.png", testPNG())
	p := newTestParser(t, d)
	if p.mediaByTarget("../media/image1.png") == nil {
		t.Error("relative target should resolve by base name")
	}
	if p.mediaByTarget("ppt/media/image1.png") == nil {
		t.Error("absolute target should resolve by base name")
	}
	if p.mediaByTarget("../media/missing.png") != nil {
		t.Error("missing entry should be nil")
	}
}

func TestIsAudioFilename(t *testing.T) {
	for _, name := range []string{"a.mp3", "b.WAV", "../media/c.m4a", "d.mp4", "e.ogg"} {
		if !isAudioFilename(name) {
			t.Errorf("%s should be audio-eligible", name)
		}
	}
	for _, name := range []string{"a.png", "b.mov", "c", "d.txt"} {
		if isAudioFilename(name) {
			t.Errorf("%s should not be audio-eligible", name)
		}
	}
}

func TestMediaBlobsAndClearCache(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	d := newDeck().media("audio1.wav", payload)
	p := newTestParser(t, d)

	blobs := p.MediaBlobs()
	b, ok := blobs["audio1.wav"]
	if !ok {
		t.Fatal("audio1.wav missing from blobs")
	}
	if !bytes.Equal(b.Data, payload) {
		t.Errorf("blob data = %v", b.Data)
	}
	if b.MimeType != "audio/wav" {
		t.Errorf("mime = %s", b.MimeType)
	}

	p.ClearCache()
	if p.media != nil {
		t.Error("ClearCache should drop the entry cache")
	}
	// Re-extraction from the retained archive still works.
	if _, ok := p.MediaBlobs()["audio1.wav"]; !ok {
		t.Error("blob missing after ClearCache")
	}
}

func TestMediaBlobsBeforeParse(t *testing.T) {
	p := NewParser()
	if blobs := p.MediaBlobs(); len(blobs) != 0 {
		t.Errorf("expected empty map, got %d entries", len(blobs))
	}
}
