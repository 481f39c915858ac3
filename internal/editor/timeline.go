package editor

import (
	"math"

	"github.com/kikiluvv/slopeditor/internal/clips"
	"github.com/kikiluvv/slopeditor/internal/overlays"
	"github.com/kikiluvv/slopeditor/internal/playback"
)

// Handle is a trim grip on the left or right edge of a clip
type Handle int

const (
	HandleLeft Handle = iota
	HandleRight
)

// minTrimFraction is the smallest clip length a drag can leave, as a
// fraction of the timeline duration
const minTrimFraction = 0.01

// UpdateClipTrim moves a clip's window and keeps its shadow record in step
func (e *Engine) UpdateClipTrim(id int64, start, end float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trimLocked(id, start, end)
}

func (e *Engine) trimLocked(id int64, start, end float64) error {
	if !(start < end) {
		return ErrInvalidTrim
	}
	clip, ok := e.timeline.Get(id)
	if !ok {
		return ErrClipNotFound
	}

	before := e.snapshot()
	e.timeline.Update(id, func(c *clips.Clip) {
		c.Start = start
		c.End = end
	})

	switch clip.Type {
	case clips.TypeText:
		for i := range e.texts {
			if e.texts[i].ID == id {
				e.texts[i].StartTime = start
				e.texts[i].EndTime = end
			}
		}
	case clips.TypeImage:
		for i := range e.images {
			if e.images[i].ID == id {
				e.images[i].StartTime = start
				e.images[i].EndTime = end
			}
		}
	case clips.TypeEffect:
		for i := range e.effects {
			if e.effects[i].ID != id {
				continue
			}
			e.effects[i].StartTime = start
			e.effects[i].EndTime = end
			t := e.player.CurrentTime()
			if (e.player.Playing() && t < start) || t > end {
				e.player.Seek(start)
			}
		}
	case clips.TypeAudio:
		for i := range e.audio {
			if e.audio[i].ID == id {
				e.audio[i].StartTime = start
			}
		}
	case clips.TypeVideo:
		if t := e.player.CurrentTime(); t < start || t > end {
			e.player.SetTime(start)
		}
		e.trimStart = start
		e.trimEnd = end
	}

	e.commit("Trim clip", before)
	return nil
}

// ProposeTrim converts a handle drag, given as a fraction of the
// timeline width, into a trim that leaves at least 1% of the timeline
func (e *Engine) ProposeTrim(id int64, handle Handle, fraction, timelineDuration float64) (float64, float64, error) {
	if !validDuration(timelineDuration) {
		return 0, 0, ErrInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	clip, ok := e.timeline.Get(id)
	if !ok {
		return 0, 0, ErrClipNotFound
	}

	start, end := clip.Start, clip.End
	switch handle {
	case HandleLeft:
		pct := math.Max(0, math.Min(fraction, clip.End/timelineDuration-minTrimFraction))
		start = pct * timelineDuration
	case HandleRight:
		pct := math.Max(clip.Start/timelineDuration+minTrimFraction, math.Min(fraction, 1))
		end = pct * timelineDuration
	}
	if err := e.trimLocked(id, start, end); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// CutSelected splits the selected clip at the play-head
func (e *Engine) CutSelected() (clips.Clip, clips.Clip, error) {
	at := e.player.CurrentTime()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selected == 0 {
		return clips.Clip{}, clips.Clip{}, ErrNoSelection
	}
	return e.cutLocked(e.selected, at)
}

// CutClip splits a video clip at time at into two parts with fresh ids.
// The second part becomes the selection.
func (e *Engine) CutClip(id int64, at float64) (clips.Clip, clips.Clip, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cutLocked(id, at)
}

func (e *Engine) cutLocked(id int64, at float64) (clips.Clip, clips.Clip, error) {
	clip, ok := e.timeline.Get(id)
	if !ok {
		return clips.Clip{}, clips.Clip{}, ErrClipNotFound
	}
	if clip.Type != clips.TypeVideo {
		return clips.Clip{}, clips.Clip{}, ErrCutNotVideo
	}
	if at <= clip.Start || at >= clip.End {
		return clips.Clip{}, clips.Clip{}, ErrCutOutsideClip
	}

	before := e.snapshot()

	first := clip
	first.ID = e.ids.Next()
	first.End = at
	first.Name = clip.Name + " (Part 1)"

	second := clip
	second.ID = e.ids.Next()
	second.Start = at
	second.Name = clip.Name + " (Part 2)"

	e.timeline.Remove(id)
	e.timeline.Add(first)
	e.timeline.Add(second)
	e.timeline.SortWithinTracks()
	e.selected = second.ID

	e.commit("Cut clip", before)
	e.logger.Debug().Int64("clip", id).Float64("at", at).Msg("clip cut")
	return first, second, nil
}

// DeleteClip removes a clip with its shadow record. Deleting a video
// clip that starts the timeline ripples later clips left; deleting the
// active video hands playback to the first remaining video clip.
func (e *Engine) DeleteClip(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	clip, ok := e.timeline.Get(id)
	if !ok {
		return ErrClipNotFound
	}

	before := e.snapshot()
	e.timeline.Remove(id)
	e.selected = 0

	switch clip.Type {
	case clips.TypeText:
		e.texts = removeByID(e.texts, id, func(v overlays.TextItem) int64 { return v.ID })
	case clips.TypeImage:
		e.images = removeByID(e.images, id, func(v overlays.ImageItem) int64 { return v.ID })
	case clips.TypeEffect:
		e.effects = removeByID(e.effects, id, func(v overlays.EffectItem) int64 { return v.ID })
		if clip.IsFilter() && e.filter != nil && *e.filter == clip.FilterName {
			e.filter = nil
			e.applyFilterStyle()
		}
	case clips.TypeAudio:
		e.audio = removeByID(e.audio, id, func(v overlays.AudioTrack) int64 { return v.ID })
		e.player.DetachAudio(id)
	case clips.TypeVideo:
		e.deleteVideoLocked(clip)
	}

	e.commit("Delete "+string(clip.Type), before)
	return nil
}

func (e *Engine) deleteVideoLocked(clip clips.Clip) {
	st := e.player.Status()
	wasPlaying := st.State == playback.Playing
	if wasPlaying {
		e.player.Pause()
	}

	if clip.Start == 0 {
		e.ripple(clip.Duration())
	}
	e.player.SetClips(e.timeline.All())

	if clip.Src != st.Src {
		if _, ok := e.timeline.FirstVideo(); ok {
			e.player.SetDuration(e.timeline.MaxVideoEnd())
		}
		return
	}

	next, ok := e.timeline.FirstVideo()
	if !ok {
		e.player.Clear()
		e.trimStart, e.trimEnd = 0, 0
		return
	}
	e.player.Replace(next, wasPlaying)
	e.selected = next.ID
	e.trimStart, e.trimEnd = next.Start, next.End
}

// ripple shifts every non-audio clip and its shadow left by d
func (e *Engine) ripple(d float64) {
	shift := func(v float64) float64 { return math.Max(0, v-d) }

	e.timeline.Each(func(c *clips.Clip) {
		if c.Type == clips.TypeAudio {
			return
		}
		c.Start = shift(c.Start)
		c.End = shift(c.End)
	})
	for i := range e.texts {
		e.texts[i].StartTime = shift(e.texts[i].StartTime)
		e.texts[i].EndTime = shift(e.texts[i].EndTime)
	}
	for i := range e.images {
		e.images[i].StartTime = shift(e.images[i].StartTime)
		e.images[i].EndTime = shift(e.images[i].EndTime)
	}
	for i := range e.effects {
		e.effects[i].StartTime = shift(e.effects[i].StartTime)
		e.effects[i].EndTime = shift(e.effects[i].EndTime)
	}
}

func removeByID[T any](items []T, id int64, idOf func(T) int64) []T {
	var out []T
	for _, v := range items {
		if idOf(v) != id {
			out = append(out, v)
		}
	}
	return out
}
