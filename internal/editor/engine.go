// Package editor owns the editable composition: the clip timeline, the
// shadow records joined to it by id, crop and filter. Every structural
// edit goes through Engine so the clip and its shadow never diverge, and
// every edit records the pre-edit state with the history manager.
package editor

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/clips"
	"github.com/kikiluvv/slopeditor/internal/config"
	"github.com/kikiluvv/slopeditor/internal/effects"
	"github.com/kikiluvv/slopeditor/internal/history"
	"github.com/kikiluvv/slopeditor/internal/overlays"
	"github.com/kikiluvv/slopeditor/internal/playback"
)

// Options configures an Engine
type Options struct {
	Editor       config.EditorConfig
	History      []history.Option
	EffectBuffer float64
	// Clock drives ids and history timestamps; nil means time.Now
	Clock func() time.Time
	// NewAudio builds the element backing an audio track
	NewAudio func(overlays.AudioTrack) playback.AudioElement
}

// OptionsFromConfig maps application config onto engine options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Editor: cfg.Editor,
		History: []history.Option{
			history.WithLimit(cfg.History.Limit),
			history.WithDebounce(cfg.History.Debounce),
		},
		EffectBuffer: cfg.Effects.ActivationBuffer,
	}
}

// Status is the non-undoable session view
type Status struct {
	Playback     playback.Status    `json:"playback"`
	Selected     int64              `json:"selected"`
	TrimStart    float64            `json:"trimStart"`
	TrimEnd      float64            `json:"trimEnd"`
	Title        string             `json:"title"`
	UndoDepth    int                `json:"undoDepth"`
	RedoDepth    int                `json:"redoDepth"`
	ActiveFilter string             `json:"activeFilter,omitempty"`
	TextStyle    overlays.TextStyle `json:"textStyle"`
	Surface      effects.Style      `json:"surface"`
}

// Engine is the timeline mutation engine
type Engine struct {
	mu     sync.Mutex
	logger zerolog.Logger
	opts   Options
	now    func() time.Time

	ids      *clips.IDGenerator
	timeline *clips.Manager
	texts    []overlays.TextItem
	images   []overlays.ImageItem
	effects  []overlays.EffectItem
	audio    []overlays.AudioTrack
	crop     *CropData
	filter   *string

	history  *history.Manager[State]
	player   *playback.Synchronizer
	surface  *effects.StyleSurface
	renderer *effects.Renderer

	selected  int64
	textStyle overlays.TextStyle
	trimStart float64
	trimEnd   float64
	title     string
}

// New creates an engine driving player
func New(logger zerolog.Logger, player *playback.Synchronizer, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewAudio == nil {
		opts.NewAudio = func(t overlays.AudioTrack) playback.AudioElement {
			return playback.NewVirtualAudio(t.Duration)
		}
	}
	if opts.Editor.DefaultClipLength <= 0 {
		opts.Editor = config.Default().Editor
	}
	if opts.EffectBuffer <= 0 {
		opts.EffectBuffer = overlays.EffectBuffer
	}

	logger = logger.With().Str("component", "editor").Logger()
	surface := effects.NewStyleSurface()
	hopts := append([]history.Option{history.WithClock(opts.Clock)}, opts.History...)

	e := &Engine{
		logger:    logger,
		opts:      opts,
		now:       opts.Clock,
		ids:       clips.NewIDGenerator(opts.Clock),
		timeline:  clips.NewManager(),
		history:   history.New[State](hopts...),
		player:    player,
		surface:   surface,
		renderer:  effects.NewRenderer(logger, surface, opts.EffectBuffer),
		textStyle: overlays.DefaultTextStyle(),
	}
	player.SetVolume(opts.Editor.DefaultVolume)
	player.OnAdvance(e.onAdvance)
	return e
}

// onAdvance follows playback into the next clip
func (e *Engine) onAdvance(c clips.Clip) {
	e.mu.Lock()
	e.selected = c.ID
	e.mu.Unlock()
}

func (e *Engine) snapshot() State {
	return State{
		Clips:         e.timeline.All(),
		TextOverlays:  e.texts,
		ImageOverlays: e.images,
		EffectItems:   e.effects,
		AudioTracks:   e.audio,
		CropData:      e.crop,
		ActiveFilter:  e.filter,
	}.Clone()
}

// commit records the state captured before a mutation and pushes the
// new clip list to playback
func (e *Engine) commit(action string, before State) {
	if !e.history.Record(action, before) {
		e.logger.Debug().Str("action", action).Msg("history snapshot coalesced")
	}
	e.player.SetClips(e.timeline.All())
	e.logger.Debug().Str("action", action).Int("clips", e.timeline.Len()).Msg("timeline updated")
}

func (e *Engine) restore(s State) {
	s = s.Clone()
	e.timeline.Replace(s.Clips)
	e.texts = s.TextOverlays
	e.images = s.ImageOverlays
	e.effects = s.EffectItems
	e.audio = s.AudioTracks
	e.crop = s.CropData
	e.filter = s.ActiveFilter

	e.ids.Observe(s.MaxID())
	e.syncAudioElements()
	e.applyFilterStyle()
	e.player.SetClips(e.timeline.All())

	if _, ok := e.timeline.Get(e.selected); !ok {
		e.selected = 0
	}
}

// syncAudioElements attaches elements for new tracks and drops stale ones
func (e *Engine) syncAudioElements() {
	want := make(map[int64]overlays.AudioTrack, len(e.audio))
	for _, t := range e.audio {
		want[t.ID] = t
	}
	for _, id := range e.player.AudioIDs() {
		if _, ok := want[id]; !ok {
			e.player.DetachAudio(id)
		}
	}
	for id, t := range want {
		if _, ok := e.player.Audio(id); !ok {
			e.player.AttachAudio(id, e.opts.NewAudio(t))
		}
	}
}

func (e *Engine) applyFilterStyle() {
	css := "none"
	if e.filter != nil {
		css, _ = overlays.Filters.Get(*e.filter)
	}
	e.renderer.SetFilter(css)
}

func (e *Engine) hasActiveVideo() bool {
	return e.player.Status().Src != ""
}

// Undo restores the state before the most recent recorded action.
// history.ErrNothingToUndo is returned when the stack is empty; nothing
// changes in that case.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.history.Undo(e.snapshot())
	if err != nil {
		return err
	}
	e.restore(entry.State)
	e.logger.Info().Str("action", entry.Action).Msg("undo")
	return nil
}

// Redo reapplies the most recently undone action
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.history.Redo(e.snapshot())
	if err != nil {
		return err
	}
	e.restore(entry.State)
	e.logger.Info().Str("action", entry.Action).Msg("redo")
	return nil
}

// History lists undoable action labels, oldest first
func (e *Engine) History() []string {
	return e.history.Actions()
}

// State returns a deep copy of the editable state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Clip looks up a clip by id
func (e *Engine) Clip(id int64) (clips.Clip, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeline.Get(id)
}

// Track returns the clips of one lane
func (e *Engine) Track(t clips.Type) []clips.Clip {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeline.ByTrack(t)
}

// Status reports selection, playback and history depth
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		Playback:  e.player.Status(),
		Selected:  e.selected,
		TrimStart: e.trimStart,
		TrimEnd:   e.trimEnd,
		Title:     e.title,
		UndoDepth: e.history.Len(),
		RedoDepth: e.history.RedoLen(),
		TextStyle: e.textStyle,
		Surface:   e.surface.Style(),
	}
	if e.filter != nil {
		st.ActiveFilter = *e.filter
	}
	return st
}

// Title is the project title
func (e *Engine) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// SetTitle renames the project
func (e *Engine) SetTitle(title string) {
	e.mu.Lock()
	e.title = title
	e.mu.Unlock()
}

// SelectClip marks a clip selected; zero clears the selection
func (e *Engine) SelectClip(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == 0 {
		e.selected = 0
		return nil
	}
	if _, ok := e.timeline.Get(id); !ok {
		return ErrClipNotFound
	}
	e.selected = id
	return nil
}

// SwitchActiveVideo loads a video clip into the element and selects it
func (e *Engine) SwitchActiveVideo(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	clip, ok := e.timeline.Get(id)
	if !ok {
		return ErrClipNotFound
	}
	if clip.Type != clips.TypeVideo || clip.Src == "" {
		return ErrNotVideo
	}
	e.player.Switch(clip)
	e.selected = id
	e.logger.Debug().Int64("clip", id).Msg("switched active video")
	return nil
}

// Seek moves the play-head, clamped into the active clip
func (e *Engine) Seek(t float64) float64 {
	return e.player.Seek(t)
}

// TogglePlay starts or pauses playback
func (e *Engine) TogglePlay() playback.State {
	return e.player.TogglePlay()
}

// SetVolume sets the video volume, 0-100
func (e *Engine) SetVolume(v int) int {
	return e.player.SetVolume(v)
}

// Frame refreshes effect activation for the current play-head
func (e *Engine) Frame() []int64 {
	e.mu.Lock()
	items := cloneSlice(e.effects)
	e.mu.Unlock()
	return e.renderer.Sync(items, e.player.CurrentTime())
}

// Close stops running effect timers
func (e *Engine) Close() {
	e.renderer.Close()
}
