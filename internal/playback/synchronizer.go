package playback

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/clips"
)

// State is the video element lifecycle
type State int

const (
	Idle State = iota
	Loaded
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Config tunes the synchronizer
type Config struct {
	LoopBackDelay  time.Duration
	DriftTolerance float64
	// GuardLoopBack drops a pending loop-back when the user seeks or
	// switches clips before it fires
	GuardLoopBack bool
	Scheduler     Scheduler
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		LoopBackDelay:  500 * time.Millisecond,
		DriftTolerance: 0.1,
		GuardLoopBack:  true,
	}
}

// Status is a point-in-time view of playback
type Status struct {
	State       State   `json:"-"`
	StateName   string  `json:"state"`
	ActiveID    int64   `json:"activeClip"`
	Src         string  `json:"src"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Volume      int     `json:"volume"`
}

// Synchronizer keeps the video element inside the active clip window,
// chains to the next video clip and pins audio tracks to the play-head.
// It reads its own copy of the clip list, refreshed through SetClips.
type Synchronizer struct {
	mu     sync.Mutex
	logger zerolog.Logger
	cfg    Config

	video    MediaElement
	audio    map[int64]AudioElement
	timeline *clips.Manager

	state    State
	activeID int64
	duration float64
	volume   int

	// generation is bumped on every user-driven reposition
	generation  uint64
	inFlight    bool
	loopPending bool

	onAdvance func(clips.Clip)
}

// New creates a synchronizer driving video
func New(logger zerolog.Logger, video MediaElement, cfg Config) *Synchronizer {
	if cfg.Scheduler == nil {
		cfg.Scheduler = WallScheduler()
	}
	return &Synchronizer{
		logger:   logger.With().Str("component", "playback").Logger(),
		cfg:      cfg,
		video:    video,
		audio:    make(map[int64]AudioElement),
		timeline: clips.NewManager(),
		volume:   80,
	}
}

// OnAdvance registers a callback fired after playback chains into
// another clip. It runs outside the synchronizer lock.
func (s *Synchronizer) OnAdvance(fn func(clips.Clip)) {
	s.mu.Lock()
	s.onAdvance = fn
	s.mu.Unlock()
}

// SetClips replaces the clip list playback resolves against
func (s *Synchronizer) SetClips(all []clips.Clip) {
	s.mu.Lock()
	s.timeline.Replace(all)
	s.mu.Unlock()
}

// AttachAudio binds an audio element to a track id
func (s *Synchronizer) AttachAudio(id int64, el AudioElement) {
	s.mu.Lock()
	s.audio[id] = el
	s.mu.Unlock()
}

// DetachAudio pauses and forgets the element of a track
func (s *Synchronizer) DetachAudio(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.audio[id]; ok {
		el.Pause()
		delete(s.audio, id)
	}
}

// AudioIDs lists attached track ids in ascending order
func (s *Synchronizer) AudioIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.audio))
	for id := range s.audio {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Audio returns the element attached to a track
func (s *Synchronizer) Audio(id int64) (AudioElement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.audio[id]
	return el, ok
}

// Tick runs one time-update pass: clamp, end check, chain or loop,
// then audio resync. Ticks arriving while a can-play wait or a
// loop-back is outstanding are ignored.
func (s *Synchronizer) Tick() {
	s.mu.Lock()
	if s.state == Idle || s.inFlight || s.loopPending {
		s.mu.Unlock()
		return
	}

	t := s.video.CurrentTime()
	var advanced *clips.Clip

	if active, ok := s.resolveActive(); ok {
		if t < active.Start {
			s.video.SetCurrentTime(active.Start)
			t = active.Start
		}

		if t >= active.End {
			s.video.Pause()
			s.state = Paused

			next, found := s.timeline.NextVideoAfter(active.ID)
			if found && next.Src != "" {
				s.video.SetSrc(next.Src)
				s.video.SetCurrentTime(next.Start)
				s.activeID = next.ID
				t = next.Start
				s.startLocked()
				advanced = &next
			} else {
				s.scheduleLoopBack(active)
			}
		}
	}

	s.resyncAudio(t)
	notify := s.onAdvance
	s.mu.Unlock()

	if advanced != nil {
		s.logger.Debug().Int64("clip", advanced.ID).Float64("start", advanced.Start).Msg("advanced to next video clip")
		if notify != nil {
			notify(*advanced)
		}
	}
}

func (s *Synchronizer) scheduleLoopBack(active clips.Clip) {
	gen := s.generation
	s.loopPending = true
	s.cfg.Scheduler.AfterFunc(s.cfg.LoopBackDelay, func() {
		s.loopBack(gen, active.ID, active.Start)
	})
}

func (s *Synchronizer) loopBack(gen uint64, id int64, fallback float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loopPending = false
	if s.cfg.GuardLoopBack && gen != s.generation {
		s.logger.Debug().Int64("clip", id).Msg("dropping stale loop-back")
		return
	}
	if s.state == Idle {
		return
	}

	start := fallback
	if clip, ok := s.timeline.Get(id); ok {
		start = clip.Start
	}
	s.video.SetCurrentTime(start)
	s.resyncAudio(start)
}

// resolveActive prefers the tracked active clip and falls back to the
// first video clip whose src is loaded
func (s *Synchronizer) resolveActive() (clips.Clip, bool) {
	src := s.video.Src()
	if clip, ok := s.timeline.Get(s.activeID); ok && clip.Type == clips.TypeVideo && clip.Src == src {
		return clip, true
	}
	clip, ok := s.timeline.FindVideoBySrc(src)
	if ok {
		s.activeID = clip.ID
	}
	return clip, ok
}

func (s *Synchronizer) resyncAudio(t float64) {
	for id, el := range s.audio {
		if math.Abs(el.CurrentTime()-t) > s.cfg.DriftTolerance {
			el.SetCurrentTime(t)
			s.logger.Debug().Int64("track", id).Float64("time", t).Msg("resynced audio")
		}
	}
}

// Seek moves the play-head, clamped into the active clip window, and
// applies it to the video and every audio element
func (s *Synchronizer) Seek(t float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if active, ok := s.resolveActive(); ok {
		t = clamp(t, active.Start, active.End)
	} else if first, ok := s.timeline.FirstVideo(); ok {
		t = clamp(t, first.Start, first.End)
	}
	s.video.SetCurrentTime(t)
	for _, el := range s.audio {
		el.SetCurrentTime(t)
	}
	return t
}

// SetTime moves the play-head without clamping or touching audio
func (s *Synchronizer) SetTime(t float64) {
	s.mu.Lock()
	s.generation++
	s.video.SetCurrentTime(t)
	s.mu.Unlock()
}

// Switch makes clip the active source: pause, swap src, seek to the
// clip's own start and report its span as the duration. When playback
// was running it resumes once the element signals it can play.
func (s *Synchronizer) Switch(clip clips.Clip) {
	s.mu.Lock()
	wasPlaying := s.state == Playing
	if wasPlaying {
		s.video.Pause()
	}
	s.video.SetSrc(clip.Src)
	s.video.SetCurrentTime(clip.Start)
	s.activeID = clip.ID
	s.duration = clip.End - clip.Start
	s.generation++
	s.state = Loaded
	gen := s.generation
	if wasPlaying {
		s.inFlight = true
	}
	s.mu.Unlock()

	if wasPlaying {
		s.video.OnCanPlay(func() { s.resume(gen) })
	}
}

// Replace activates clip the way a delete does: seek to time 0 of the
// element, duration becomes the clip span. With resume set playback
// restarts once the element can play.
func (s *Synchronizer) Replace(clip clips.Clip, resume bool) {
	s.mu.Lock()
	wasPlaying := resume || s.state == Playing
	s.video.SetSrc(clip.Src)
	s.video.SetCurrentTime(0)
	s.activeID = clip.ID
	s.duration = clip.End - clip.Start
	s.generation++
	s.state = Loaded
	gen := s.generation
	if wasPlaying {
		s.inFlight = true
	}
	s.mu.Unlock()

	if wasPlaying {
		s.video.OnCanPlay(func() { s.resume(gen) })
	}
}

func (s *Synchronizer) resume(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight = false
	if gen != s.generation || s.state == Idle {
		return
	}
	s.startLocked()
}

// startLocked plays the video; a rejection is logged and leaves the
// synchronizer paused
func (s *Synchronizer) startLocked() bool {
	if err := s.video.Play(); err != nil {
		s.logger.Error().Err(err).Msg("play rejected")
		s.state = Paused
		return false
	}
	s.state = Playing
	return true
}

// Load sets up a freshly imported source
func (s *Synchronizer) Load(clip clips.Clip, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Playing {
		s.video.Pause()
	}
	s.video.SetSrc(clip.Src)
	s.video.SetCurrentTime(0)
	s.video.SetVolume(float64(s.volume) / 100)
	s.activeID = clip.ID
	s.duration = duration
	s.generation++
	s.state = Loaded
	s.loopPending = false
}

// Clear drops the active source entirely
func (s *Synchronizer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.video.Pause()
	s.video.SetSrc("")
	s.video.SetCurrentTime(0)
	for _, el := range s.audio {
		el.Pause()
	}
	s.activeID = 0
	s.duration = 0
	s.generation++
	s.state = Idle
	s.inFlight = false
	s.loopPending = false
}

// Pause stops the video and every audio element
func (s *Synchronizer) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
}

func (s *Synchronizer) pauseLocked() {
	if s.state == Idle {
		return
	}
	s.video.Pause()
	for _, el := range s.audio {
		el.Pause()
	}
	s.state = Paused
}

// TogglePlay flips between playing and paused and returns the new state.
// Audio only starts once the video accepted play.
func (s *Synchronizer) TogglePlay() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Idle:
		return Idle
	case Playing:
		s.pauseLocked()
		return s.state
	}

	if !s.startLocked() {
		return s.state
	}
	for id, el := range s.audio {
		if el.Ended() {
			el.SetCurrentTime(0)
		}
		if err := el.Play(); err != nil {
			s.logger.Warn().Err(err).Int64("track", id).Msg("audio play rejected")
		}
	}
	return s.state
}

// Ended handles the element reaching the end of its media
func (s *Synchronizer) Ended() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle {
		return
	}
	s.state = Paused
	s.video.SetCurrentTime(0)
	for _, el := range s.audio {
		el.Pause()
		el.SetCurrentTime(0)
	}
}

// MediaError records a decode or load failure and stops playback
func (s *Synchronizer) MediaError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Error().Err(err).Str("src", s.video.Src()).Msg("media element failure")
	s.inFlight = false
	if s.state != Idle {
		s.state = Paused
	}
}

// SetVolume applies 0-100 to the video element only
func (s *Synchronizer) SetVolume(v int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	s.volume = v
	s.video.SetVolume(float64(v) / 100)
	return v
}

// SetDuration overrides the reported duration
func (s *Synchronizer) SetDuration(d float64) {
	s.mu.Lock()
	s.duration = d
	s.mu.Unlock()
}

// Playing reports whether the video is running
func (s *Synchronizer) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Playing
}

// CurrentTime reads the play-head
func (s *Synchronizer) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video.CurrentTime()
}

// ActiveID is the clip currently loaded in the element
func (s *Synchronizer) ActiveID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Status snapshots playback
func (s *Synchronizer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:       s.state,
		StateName:   s.state.String(),
		ActiveID:    s.activeID,
		Src:         s.video.Src(),
		CurrentTime: s.video.CurrentTime(),
		Duration:    s.duration,
		Volume:      s.volume,
	}
}

// AudioElements returns the attached elements, used by drivers that
// advance virtual clocks
func (s *Synchronizer) AudioElements() []AudioElement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AudioElement, 0, len(s.audio))
	for _, el := range s.audio {
		out = append(out, el)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
