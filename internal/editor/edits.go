package editor

import (
	"fmt"
	"strconv"

	"github.com/kikiluvv/slopeditor/internal/clips"
	"github.com/kikiluvv/slopeditor/internal/overlays"
	"github.com/kikiluvv/slopeditor/pkg/util"
)

// Overlay content edits below are not recorded in history

func (e *Engine) text(id int64) (*overlays.TextItem, error) {
	for i := range e.texts {
		if e.texts[i].ID == id {
			return &e.texts[i], nil
		}
	}
	return nil, ErrOverlayNotFound
}

func (e *Engine) image(id int64) (*overlays.ImageItem, error) {
	for i := range e.images {
		if e.images[i].ID == id {
			return &e.images[i], nil
		}
	}
	return nil, ErrOverlayNotFound
}

// SetTextContent changes a caption and renames its clip to match
func (e *Engine) SetTextContent(id int64, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.text(id)
	if err != nil {
		return err
	}
	item.Text = text
	e.timeline.Update(id, func(c *clips.Clip) {
		c.Name = "Text: " + util.Truncate(text, 15)
	})
	return nil
}

// SetTextPosition moves a caption inside the preview
func (e *Engine) SetTextPosition(id int64, pos overlays.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.text(id)
	if err != nil {
		return err
	}
	item.Position = pos
	return nil
}

// SetTextStyle replaces the current style and restyles the selected
// caption, if any
func (e *Engine) SetTextStyle(style overlays.TextStyle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setStyleLocked(style)
}

func (e *Engine) setStyleLocked(style overlays.TextStyle) {
	e.textStyle = style
	if item, err := e.text(e.selected); err == nil {
		item.Style = style
	}
}

// SetTextStyleProperty changes one style property given as text, the
// way toolbar controls report them
func (e *Engine) SetTextStyleProperty(property, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	style := e.textStyle
	switch property {
	case "bold", "italic", "underline":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidStyle, property, err)
		}
		switch property {
		case "bold":
			style.Bold = b
		case "italic":
			style.Italic = b
		default:
			style.Underline = b
		}
	case "align":
		switch a := overlays.Align(value); a {
		case overlays.AlignLeft, overlays.AlignCenter, overlays.AlignRight:
			style.Align = a
		default:
			return fmt.Errorf("%w: align %q", ErrInvalidStyle, value)
		}
	case "fontSize":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: fontSize %q", ErrInvalidStyle, value)
		}
		style.FontSize = n
	case "color":
		style.Color = value
	default:
		return fmt.Errorf("%w: unknown property %q", ErrInvalidStyle, property)
	}

	e.setStyleLocked(style)
	return nil
}

// ApplyTextPreset restyles the selected caption from a named preset
func (e *Engine) ApplyTextPreset(name string) error {
	preset, ok := overlays.TextPresets.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.text(e.selected); err != nil {
		return ErrNoSelection
	}
	e.setStyleLocked(preset)
	return nil
}

// SetImagePosition moves an image overlay
func (e *Engine) SetImagePosition(id int64, pos overlays.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.image(id)
	if err != nil {
		return err
	}
	item.Position = pos
	return nil
}

// SetImageSize resizes an image overlay
func (e *Engine) SetImageSize(id int64, size overlays.Size) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.image(id)
	if err != nil {
		return err
	}
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSize, size.Width, size.Height)
	}
	item.Size = size
	return nil
}

// SetPDFPage flips a PDF overlay to page, clamped to the document
func (e *Engine) SetPDFPage(id int64, page int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.image(id)
	if err != nil {
		return 0, err
	}
	if item.Type != overlays.KindPDF {
		return 0, fmt.Errorf("%w: overlay %d is not a pdf", ErrUnsupportedMedia, id)
	}
	item.PDFPage = min(max(page, 1), max(item.TotalPages, 1))
	return item.PDFPage, nil
}

// ApplyCrop stores a crop rectangle in source pixels
func (e *Engine) ApplyCrop(c CropData) error {
	minSize := e.opts.Editor.MinCropSize
	if c.Width < minSize || c.Height < minSize {
		return ErrCropTooSmall
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.snapshot()
	e.crop = &c
	e.commit("Crop video", before)
	return nil
}

// ClearCrop removes the crop
func (e *Engine) ClearCrop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.crop == nil {
		return
	}
	before := e.snapshot()
	e.crop = nil
	e.commit("Clear crop", before)
}

// Overlays is what renderers draw at one instant
type Overlays struct {
	Time    float64               `json:"time"`
	Texts   []overlays.TextItem   `json:"texts"`
	Images  []overlays.ImageItem  `json:"images"`
	Effects []overlays.EffectItem `json:"effects"`
}

// VisibleOverlays evaluates overlay visibility at the play-head
func (e *Engine) VisibleOverlays() Overlays {
	return e.OverlaysAt(e.player.CurrentTime())
}

// OverlaysAt evaluates overlay visibility at t without moving the play-head
func (e *Engine) OverlaysAt(t float64) Overlays {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Overlays{
		Time:    t,
		Texts:   overlays.VisibleTexts(e.texts, t),
		Images:  overlays.VisibleImages(e.images, t),
		Effects: overlays.ActiveEffects(e.effects, t, e.opts.EffectBuffer),
	}
}

// LoadState replaces the composition with a saved one. When videoSrc
// names a clip in the state that clip is loaded for playback; otherwise
// playback is cleared until a video is imported again.
func (e *Engine) LoadState(s State, title, videoSrc string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.snapshot()
	e.restore(s)
	e.title = title
	e.selected = 0

	if clip, ok := e.timeline.FindVideoBySrc(videoSrc); ok && videoSrc != "" {
		e.player.Load(clip, e.timeline.MaxVideoEnd())
		e.trimStart, e.trimEnd = clip.Start, clip.End
	} else {
		e.player.Clear()
		e.trimStart, e.trimEnd = 0, 0
	}
	e.commit("Load project", before)
}
