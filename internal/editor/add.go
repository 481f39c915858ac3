package editor

import (
	"fmt"
	"math"
	"strings"

	"github.com/kikiluvv/slopeditor/internal/clips"
	"github.com/kikiluvv/slopeditor/internal/overlays"
	"github.com/kikiluvv/slopeditor/pkg/util"
)

// Default overlay boxes when the media reports no dimensions
var (
	DefaultImageSize = overlays.Size{Width: 300, Height: 200}
	DefaultPDFSize   = overlays.Size{Width: 300, Height: 400}
)

// ImageRequest describes an image or PDF being placed over the video
type ImageRequest struct {
	Name string
	Src  string
	MIME string
	// Dimensions are the natural media size, nil when unknown
	Dimensions *overlays.Size
	// Container is the preview area the overlay is centered in
	Container  overlays.Size
	TotalPages int
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

func (e *Engine) container(c overlays.Size) overlays.Size {
	if c.Width <= 0 {
		c.Width = e.opts.Editor.ContainerWidth
	}
	if c.Height <= 0 {
		c.Height = e.opts.Editor.ContainerHeight
	}
	return c
}

// ImportVideo replaces the whole composition with a single video clip
func (e *Engine) ImportVideo(name, src string, duration float64) (clips.Clip, error) {
	if !validDuration(duration) {
		return clips.Clip{}, ErrInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.importVideoLocked(name, src, duration), nil
}

func (e *Engine) importVideoLocked(name, src string, duration float64) clips.Clip {
	before := e.snapshot()

	clip := clips.Clip{
		ID:         e.ids.Next(),
		Type:       clips.TypeVideo,
		Start:      0,
		End:        duration,
		Color:      clips.ColorVideo,
		Name:       util.TruncateName(name, e.opts.Editor.MaxNameLength),
		Src:        src,
		VideoStart: 0,
		VideoEnd:   duration,
	}
	e.timeline.Replace([]clips.Clip{clip})
	e.texts = nil
	e.images = nil
	e.effects = nil
	e.audio = nil
	e.crop = nil
	e.filter = nil
	e.syncAudioElements()
	e.applyFilterStyle()

	e.title = util.StripExt(name)
	e.trimStart = 0
	e.trimEnd = duration
	e.selected = clip.ID
	e.player.Load(clip, duration)

	e.commit("Import video", before)
	e.logger.Info().Str("name", clip.Name).Float64("duration", duration).Msg("video imported")
	return clip
}

// AddVideo appends another video clip after the last video clip. On an
// empty timeline it behaves like ImportVideo.
func (e *Engine) AddVideo(name, src string, duration float64) (clips.Clip, error) {
	if !validDuration(duration) {
		return clips.Clip{}, ErrInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.timeline.FirstVideo(); !ok {
		return e.importVideoLocked(name, src, duration), nil
	}

	before := e.snapshot()
	start := e.timeline.MaxVideoEnd()
	clip := clips.Clip{
		ID:         e.ids.Next(),
		Type:       clips.TypeVideo,
		Start:      start,
		End:        start + duration,
		Color:      clips.ColorVideo,
		Name:       util.TruncateName(name, e.opts.Editor.MaxNameLength),
		Src:        src,
		VideoStart: 0,
		VideoEnd:   duration,
	}
	e.timeline.Add(clip)
	e.selected = clip.ID
	e.commit("Add video", before)
	return clip, nil
}

// AddAudio adds a track that starts with the timeline
func (e *Engine) AddAudio(name, src string, duration float64) (clips.Clip, error) {
	if !validDuration(duration) {
		return clips.Clip{}, ErrInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addAudioLocked(util.TruncateName(name, e.opts.Editor.MaxNameLength), src, 0, duration, "Add audio"), nil
}

// AddVoiceRecording places a recorded take at the play-head
func (e *Engine) AddVoiceRecording(src string, duration float64) (clips.Clip, error) {
	if !validDuration(duration) {
		return clips.Clip{}, ErrInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	name := "Voice Recording " + e.now().Format("15:04:05")
	return e.addAudioLocked(name, src, e.player.CurrentTime(), duration, "Add voice recording"), nil
}

func (e *Engine) addAudioLocked(name, src string, start, duration float64, action string) clips.Clip {
	before := e.snapshot()

	id := e.ids.Next()
	track := overlays.AudioTrack{
		ID:        id,
		Name:      name,
		Src:       src,
		StartTime: start,
		Duration:  duration,
		Volume:    e.opts.Editor.AudioTrackVolume,
	}
	clip := clips.Clip{
		ID:    id,
		Type:  clips.TypeAudio,
		Start: start,
		End:   start + duration,
		Color: clips.ColorAudio,
		Name:  name,
		Src:   src,
	}
	e.audio = append(e.audio, track)
	e.timeline.Add(clip)
	e.player.AttachAudio(id, e.opts.NewAudio(track))
	e.selected = id

	e.commit(action, before)
	return clip
}

// AddImage centers an image or PDF page over the preview for the next
// few seconds
func (e *Engine) AddImage(req ImageRequest) (clips.Clip, error) {
	var kind overlays.ImageKind
	switch {
	case strings.HasPrefix(req.MIME, "image/"):
		kind = overlays.KindImage
	case req.MIME == "application/pdf":
		kind = overlays.KindPDF
	default:
		return clips.Clip{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, req.MIME)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.snapshot()

	size := DefaultImageSize
	if kind == overlays.KindPDF {
		size = DefaultPDFSize
	}
	if req.Dimensions != nil && req.Dimensions.Width > 0 && req.Dimensions.Height > 0 {
		size = *req.Dimensions
	}
	box := e.container(req.Container)
	start := e.player.CurrentTime()
	end := start + e.opts.Editor.DefaultClipLength

	id := e.ids.Next()
	item := overlays.ImageItem{
		ID:        id,
		Src:       req.Src,
		Position:  overlays.Position{X: box.Width/2 - size.Width/2, Y: box.Height/2 - size.Height/2},
		Size:      size,
		StartTime: start,
		EndTime:   end,
		Type:      kind,
	}
	clip := clips.Clip{
		ID:    id,
		Type:  clips.TypeImage,
		Start: start,
		End:   end,
		Color: clips.ColorImage,
		Name:  "Image: " + util.Truncate(req.Name, 15),
		Src:   req.Src,
	}
	if kind == overlays.KindPDF {
		item.PDFPage = 1
		item.TotalPages = max(req.TotalPages, 1)
		clip.Color = clips.ColorPDF
		clip.Name = "PDF: " + util.Truncate(req.Name, 15)
	}

	e.images = append(e.images, item)
	e.timeline.Add(clip)
	e.selected = id
	e.commit("Add image", before)
	return clip, nil
}

// AddText drops an editable caption at the center of the preview using
// the current text style
func (e *Engine) AddText(container overlays.Size) (clips.Clip, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasActiveVideo() {
		return clips.Clip{}, ErrNoActiveVideo
	}

	before := e.snapshot()
	box := e.container(container)
	start := e.player.CurrentTime()
	end := start + e.opts.Editor.DefaultClipLength
	const text = "Edit this text"

	id := e.ids.Next()
	e.texts = append(e.texts, overlays.TextItem{
		ID:        id,
		Text:      text,
		Position:  overlays.Position{X: box.Width/2 - 100, Y: box.Height/2 - 20},
		Style:     e.textStyle,
		StartTime: start,
		EndTime:   end,
	})
	clip := clips.Clip{
		ID:    id,
		Type:  clips.TypeText,
		Start: start,
		End:   end,
		Color: clips.ColorText,
		Name:  "Text: " + util.Truncate(text, 15),
	}
	e.timeline.Add(clip)
	e.selected = id
	e.commit("Add text", before)
	return clip, nil
}

// ApplyEffect schedules a catalog effect from the play-head, capped at
// the video duration
func (e *Engine) ApplyEffect(name string) (clips.Clip, error) {
	if !overlays.Effects.Has(name) {
		return clips.Clip{}, fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasActiveVideo() {
		return clips.Clip{}, ErrNoActiveVideo
	}

	st := e.player.Status()
	start := st.CurrentTime
	end := math.Min(start+e.opts.Editor.DefaultClipLength, st.Duration)
	if end <= start {
		return clips.Clip{}, ErrInvalidTrim
	}

	before := e.snapshot()
	id := e.ids.Next()
	e.effects = append(e.effects, overlays.EffectItem{
		ID:        id,
		Name:      name,
		StartTime: start,
		EndTime:   end,
	})
	clip := clips.Clip{
		ID:         id,
		Type:       clips.TypeEffect,
		Start:      start,
		End:        end,
		Color:      clips.ColorEffect,
		Name:       "Effect: " + name,
		EffectName: name,
	}
	e.timeline.Add(clip)
	e.selected = id
	e.commit(fmt.Sprintf("Add %s effect", name), before)
	return clip, nil
}

// ApplyFilter sets the composition-wide colour filter. There is at most
// one filter clip; applying another filter renames it.
func (e *Engine) ApplyFilter(name string) (clips.Clip, error) {
	css, ok := overlays.Filters.Get(name)
	if !ok {
		return clips.Clip{}, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasActiveVideo() {
		return clips.Clip{}, ErrNoActiveVideo
	}

	before := e.snapshot()
	label := "Filter: " + name

	clip, exists := e.timeline.Filter()
	if exists {
		e.timeline.Update(clip.ID, func(c *clips.Clip) {
			c.Name = label
			c.FilterName = name
		})
		clip.Name = label
		clip.FilterName = name
	} else {
		clip = clips.Clip{
			ID:         e.ids.Next(),
			Type:       clips.TypeEffect,
			Start:      0,
			End:        e.player.Status().Duration,
			Color:      clips.ColorFilter,
			Name:       label,
			FilterName: name,
		}
		e.timeline.Add(clip)
	}

	f := name
	e.filter = &f
	e.renderer.SetFilter(css)
	e.commit(fmt.Sprintf("Apply %s filter", name), before)
	return clip, nil
}
