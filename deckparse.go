// Package deckparse converts PPTX presentation archives into a
// renderer-agnostic slide model. A deck is parsed from an in-memory
// buffer into per-slide backgrounds, images, rich text boxes, flattened
// tables, videos and audio placements, with positions in EMU and colors
// resolved through the slide/layout/master/theme inheritance chain.
//
// Parsing is deliberately forgiving: only a buffer that is not a valid
// ZIP archive fails. Missing or malformed parts degrade to absent
// elements and documented defaults, so a damaged deck still yields every
// slide that can be read.
package deckparse

import (
	"fmt"

	"go.uber.org/zap"
)

// Parser imports presentation archives. A Parser keeps per-deck caches
// between Parse and MediaBlobs and is not safe for concurrent use; create
// one Parser per goroutine instead.
type Parser struct {
	logger *zap.Logger

	// Per-deck state, rebuilt by Parse.
	arc        *archive
	themes     map[string]map[string]string
	colorMap   map[string]string
	media      map[string]*mediaEntry
	masterText map[string]masterDefaults
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for degradation warnings. The default
// discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser returns a Parser ready for use.
func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse imports one presentation from an in-memory buffer. The returned
// model is fully detached from the buffer except for media data, which
// stays available through MediaBlobs until the next Parse or ClearCache.
// A deck with no slides yields an empty model, not an error.
func (p *Parser) Parse(buf []byte) (*ParsedPresentation, error) {
	arc, err := openArchive(buf)
	if err != nil {
		return nil, fmt.Errorf("open presentation: %w", err)
	}
	p.arc = arc
	p.media = nil
	p.masterText = make(map[string]masterDefaults)
	p.themes = p.loadThemes()
	p.colorMap = p.resolveColorMap()

	dims := p.deckDimensions()
	pres := &ParsedPresentation{
		Dimensions:  dims,
		AspectRatio: classifyAspect(dims),
		Slides:      []*ParsedSlide{},
	}

	paths := p.slidePaths()
	for _, slidePath := range paths {
		if slide := p.parseSlide(slidePath, dims); slide != nil {
			pres.Slides = append(pres.Slides, slide)
		}
	}
	p.logger.Info("parsed presentation",
		zap.Int("slides", len(pres.Slides)),
		zap.String("aspect", pres.AspectRatio))
	return pres, nil
}

// MediaBlobs returns the raw media of the most recently parsed deck,
// keyed by filename. Callers that persist media separately from the
// model read it from here.
func (p *Parser) MediaBlobs() map[string]MediaBlob {
	blobs := make(map[string]MediaBlob)
	if p.arc == nil {
		return blobs
	}
	for name, entry := range p.extractMedia() {
		blobs[name] = MediaBlob{Data: entry.data, MimeType: entry.mime}
	}
	return blobs
}

// ClearCache drops the media cache of the last parsed deck. The next
// MediaBlobs call re-extracts from the archive.
func (p *Parser) ClearCache() {
	p.media = nil
}
