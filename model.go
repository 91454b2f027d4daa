package deckparse

// Dimensions holds the native slide size of a presentation in EMU.
type Dimensions struct {
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// ParsedPresentation is the renderer-agnostic model produced by a single
// Parse call. It is not modified after Parse returns.
type ParsedPresentation struct {
	Dimensions  Dimensions     `json:"dimensions"`
	AspectRatio string         `json:"aspectRatio"` // "16:9" or "4:3"
	Slides      []*ParsedSlide `json:"slides"`
}

// ParsedSlide holds everything placed on one slide, in document order per
// element kind. Width and Height are copied from the presentation.
type ParsedSlide struct {
	Background *Background       `json:"background,omitempty"`
	Images     []*ImageElement   `json:"images"`
	TextBoxes  []*TextBoxElement `json:"textBoxes"`
	Videos     []*VideoElement   `json:"videos"`
	Audios     []*AudioElement   `json:"audios"`
	Width      int64             `json:"width"`
	Height     int64             `json:"height"`
}

// BackgroundType distinguishes the background variants.
type BackgroundType string

const (
	BackgroundSolid BackgroundType = "solid"
	BackgroundImage BackgroundType = "image"
)

// Background is a tagged variant: a solid fill carries Color, an image fill
// carries DataURI and SourceFile.
type Background struct {
	Type       BackgroundType `json:"type"`
	Color      string         `json:"color,omitempty"` // "#RRGGBB"
	DataURI    string         `json:"dataUri,omitempty"`
	SourceFile string         `json:"sourceFile,omitempty"`
}

// Box is the positioned-element core shared by images, text boxes, videos
// and audio placements. Coordinates are slide-relative EMU; Rotation is in
// degrees. ID is unique per element kind within one slide.
type Box struct {
	ID       int     `json:"id"`
	X        int64   `json:"x"`
	Y        int64   `json:"y"`
	Width    int64   `json:"width"`
	Height   int64   `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
}

// ImageElement is a placed picture with its inline preview data.
type ImageElement struct {
	Box
	DataURI    string `json:"dataUri"`
	SourceFile string `json:"sourceFile"`
}

// VideoElement is a placed video. The preview data URI carries the full
// media bytes; callers normally persist the blob and drop the URI.
type VideoElement struct {
	Box
	DataURI    string `json:"dataUri"`
	SourceFile string `json:"sourceFile"`
}

// AudioElement is an audio placement discovered on a slide.
type AudioElement struct {
	Box
	DataURI    string `json:"dataUri"`
	SourceFile string `json:"sourceFile"`
}

// TextBoxElement is a rich text box. Content is plain text interleaved with
// <br> markers and <b>/<i>/<font color="..."> spans for runs that deviate
// from the box-level defaults recorded in the remaining fields. Tables are
// emitted through the same shape with a pipe-delimited grid as Content.
type TextBoxElement struct {
	Box
	Content    string `json:"content"`
	FontSize   int    `json:"fontSize"` // points
	FontFamily string `json:"fontFamily"`
	Color      string `json:"color"` // "#RRGGBB"
	Bold       bool   `json:"bold"`
	Italic     bool   `json:"italic"`
	Align      string `json:"align"` // "left", "center" or "right"
}

// MediaBlob is one extracted media binary, keyed by source filename in the
// map returned by MediaBlobs. Uploading it anywhere is the caller's job.
type MediaBlob struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mimeType"`
}
