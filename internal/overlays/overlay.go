package overlays

// Position is a container-local pixel offset
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a pixel box
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Align is horizontal text alignment
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// TextStyle describes how a text overlay is drawn
type TextStyle struct {
	Bold      bool    `json:"bold"`
	Italic    bool    `json:"italic"`
	Underline bool    `json:"underline"`
	Align     Align   `json:"align"`
	FontSize  float64 `json:"fontSize"`
	Color     string  `json:"color"`
}

// DefaultTextStyle is the style new text overlays start from
func DefaultTextStyle() TextStyle {
	return TextStyle{Align: AlignCenter, FontSize: 24, Color: "#ffffff"}
}

// TextItem is the content record shadowing a text clip
type TextItem struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Position  Position  `json:"position"`
	Style     TextStyle `json:"style"`
	StartTime float64   `json:"startTime"`
	EndTime   float64   `json:"endTime"`
}

// ImageKind separates raster images from PDF pages
type ImageKind string

const (
	KindImage ImageKind = "image"
	KindPDF   ImageKind = "pdf"
)

// ImageItem is the content record shadowing an image clip
type ImageItem struct {
	ID         int64     `json:"id"`
	Src        string    `json:"src"`
	Position   Position  `json:"position"`
	Size       Size      `json:"size"`
	StartTime  float64   `json:"startTime"`
	EndTime    float64   `json:"endTime"`
	Type       ImageKind `json:"type"`
	PDFPage    int       `json:"pdfPage"`
	TotalPages int       `json:"totalPages"`
}

// EffectItem is the interval record shadowing an effect clip
type EffectItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// AudioTrack is the playback record shadowing an audio clip
type AudioTrack struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Src       string  `json:"src"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
	Volume    int     `json:"volume"`
}
