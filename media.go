package deckparse

import (
	"bytes"
	"encoding/base64"
	"image"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// mediaDir is the fixed directory holding embedded binaries.
const mediaDir = "ppt/media/"

// Extension classification tables. The mp4 overlap between video and audio
// is deliberate: the referencing element kind decides, not the extension.
var (
	imageExts = map[string]string{
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".gif":  "image/gif",
		".bmp":  "image/bmp",
	}
	videoExts = map[string]string{
		".mp4": "video/mp4",
		".mov": "video/quicktime",
		".avi": "video/x-msvideo",
		".wmv": "video/x-ms-wmv",
	}
	audioExts = map[string]string{
		".mp3": "audio/mpeg",
		".wav": "audio/wav",
		".m4a": "audio/mp4",
		".mp4": "audio/mp4",
		".aac": "audio/aac",
		".wma": "audio/x-ms-wma",
		".ogg": "audio/ogg",
	}
)

// mediaEntry is one extracted media binary with its preview and
// classification flags.
type mediaEntry struct {
	name    string // base filename, e.g. image1.png
	mime    string
	data    []byte
	dataURI string
	isImage bool
	isVideo bool
	isAudio bool
	// Intrinsic bitmap size in pixels; zero when unknown or not an image.
	pxWidth  int
	pxHeight int
}

// extractMedia scans the media directory once per parser instance,
// classifying entries by extension and decoding each into a data-URI plus
// a raw blob. Re-entry returns the cached map.
func (p *Parser) extractMedia() map[string]*mediaEntry {
	if p.media != nil {
		return p.media
	}
	p.media = make(map[string]*mediaEntry)

	var names []string
	for name := range p.arc.parts {
		if strings.HasPrefix(name, mediaDir) && name != mediaDir {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		base := path.Base(name)
		ext := strings.ToLower(path.Ext(base))
		imgMime, isImage := imageExts[ext]
		vidMime, isVideo := videoExts[ext]
		audMime, isAudio := audioExts[ext]
		if !isImage && !isVideo && !isAudio {
			continue
		}
		data, ok := p.arc.partBytes(name)
		if !ok {
			p.logger.Warn("unreadable media entry", zap.String("part", name))
			continue
		}
		mime := imgMime
		if mime == "" {
			mime = vidMime
		}
		if mime == "" {
			mime = audMime
		}
		entry := &mediaEntry{
			name:    base,
			mime:    mime,
			data:    data,
			dataURI: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
			isImage: isImage,
			isVideo: isVideo,
			isAudio: isAudio,
		}
		if isImage {
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
				entry.pxWidth = cfg.Width
				entry.pxHeight = cfg.Height
			}
		}
		p.media[base] = entry
	}
	return p.media
}

// mediaByTarget looks up an extracted entry by relationship target path,
// e.g. "../media/image1.png" resolved to "ppt/media/image1.png".
func (p *Parser) mediaByTarget(target string) *mediaEntry {
	return p.extractMedia()[path.Base(target)]
}

// isAudioFilename reports whether a relationship target names an
// audio-eligible file. Used by the bare relationship-scan discovery pass.
func isAudioFilename(target string) bool {
	_, ok := audioExts[strings.ToLower(path.Ext(target))]
	return ok
}
