package editor

import (
	"fmt"

	"github.com/kikiluvv/slopeditor/internal/clips"
	"github.com/kikiluvv/slopeditor/internal/overlays"
)

// CropData is a source-pixel crop rectangle
type CropData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CropTransform is how the crop is shown at display time
type CropTransform struct {
	Scale       float64 `json:"scale"`
	Transform   string  `json:"transform"`
	Origin      string  `json:"origin"`
	AspectRatio float64 `json:"aspectRatio"`
}

// Transform computes the display transform for a video of the given
// natural width
func (c CropData) Transform(videoWidth float64) CropTransform {
	scale := 1.0
	if c.Width > 0 {
		scale = videoWidth / c.Width
	}
	aspect := 0.0
	if c.Height > 0 {
		aspect = c.Width / c.Height
	}
	return CropTransform{
		Scale:       scale,
		Transform:   fmt.Sprintf("scale(%g) translate(%gpx, %gpx)", scale, -c.X, -c.Y),
		Origin:      "0 0",
		AspectRatio: aspect,
	}
}

// State is everything undo/redo and project files capture
type State struct {
	Clips         []clips.Clip          `json:"clips"`
	TextOverlays  []overlays.TextItem   `json:"textOverlays"`
	ImageOverlays []overlays.ImageItem  `json:"imageOverlays"`
	EffectItems   []overlays.EffectItem `json:"effectItems"`
	AudioTracks   []overlays.AudioTrack `json:"audioTracks"`
	CropData      *CropData             `json:"cropData"`
	ActiveFilter  *string               `json:"activeFilter"`
}

// Clone deep-copies the state
func (s State) Clone() State {
	out := State{
		Clips:         cloneSlice(s.Clips),
		TextOverlays:  cloneSlice(s.TextOverlays),
		ImageOverlays: cloneSlice(s.ImageOverlays),
		EffectItems:   cloneSlice(s.EffectItems),
		AudioTracks:   cloneSlice(s.AudioTracks),
	}
	if s.CropData != nil {
		c := *s.CropData
		out.CropData = &c
	}
	if s.ActiveFilter != nil {
		f := *s.ActiveFilter
		out.ActiveFilter = &f
	}
	return out
}

// MaxID is the largest id used by any record
func (s State) MaxID() int64 {
	var max int64
	for _, c := range s.Clips {
		if c.ID > max {
			max = c.ID
		}
	}
	for _, t := range s.AudioTracks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// cloneSlice copies elements; every element type here is a flat value
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
