package playback

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/clips"
)

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type manualScheduler struct {
	pending []*manualTimer
	delays  []time.Duration
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &manualTimer{fn: fn}
	s.pending = append(s.pending, t)
	s.delays = append(s.delays, d)
	return t
}

func (s *manualScheduler) fire() {
	pending := s.pending
	s.pending = nil
	for _, t := range pending {
		if !t.stopped {
			t.fn()
		}
	}
}

func newTestSync(t *testing.T, guard bool) (*Synchronizer, *VirtualMedia, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	video := NewVirtualMedia()
	cfg := DefaultConfig()
	cfg.Scheduler = sched
	cfg.GuardLoopBack = guard
	return New(zerolog.New(io.Discard), video, cfg), video, sched
}

func twoClips() []clips.Clip {
	return []clips.Clip{
		{ID: 1, Type: clips.TypeVideo, Start: 0, End: 10, Src: "a.mp4"},
		{ID: 2, Type: clips.TypeVideo, Start: 10, End: 20, Src: "b.mp4"},
	}
}

func TestTickClampsBeforeStart(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	clip := clips.Clip{ID: 1, Type: clips.TypeVideo, Start: 5, End: 15, Src: "a.mp4"}
	s.SetClips([]clips.Clip{clip})
	s.Load(clip, 15)

	s.Tick()
	if got := video.CurrentTime(); got != 5 {
		t.Errorf("CurrentTime() = %v, want 5", got)
	}
}

func TestTickChainsToNextClip(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	all := twoClips()
	s.SetClips(all)
	s.Load(all[0], 10)

	var advanced []int64
	s.OnAdvance(func(c clips.Clip) { advanced = append(advanced, c.ID) })

	if st := s.TogglePlay(); st != Playing {
		t.Fatalf("TogglePlay() = %v, want playing", st)
	}
	video.SetCurrentTime(10)
	s.Tick()

	if video.Src() != "b.mp4" {
		t.Errorf("Src() = %q, want b.mp4", video.Src())
	}
	if video.CurrentTime() != 10 {
		t.Errorf("CurrentTime() = %v, want 10", video.CurrentTime())
	}
	if !s.Playing() {
		t.Error("playback should continue on the next clip")
	}
	if s.ActiveID() != 2 {
		t.Errorf("ActiveID() = %d, want 2", s.ActiveID())
	}
	if len(advanced) != 1 || advanced[0] != 2 {
		t.Errorf("advance callbacks = %v", advanced)
	}
}

func TestTickLoopsBackWithoutSuccessor(t *testing.T) {
	s, video, sched := newTestSync(t, true)
	clip := clips.Clip{ID: 1, Type: clips.TypeVideo, Start: 2, End: 8, Src: "a.mp4"}
	s.SetClips([]clips.Clip{clip})
	s.Load(clip, 8)
	s.TogglePlay()

	video.SetCurrentTime(8.1)
	s.Tick()
	if s.Playing() {
		t.Error("playback should pause at the clip end")
	}
	if len(sched.pending) != 1 || sched.delays[0] != 500*time.Millisecond {
		t.Fatalf("expected one 500ms loop-back, got %d (%v)", len(sched.pending), sched.delays)
	}

	// ticks during the wait must not schedule again
	s.Tick()
	if len(sched.pending) != 1 {
		t.Errorf("tick during loop-back wait scheduled %d timers", len(sched.pending))
	}

	sched.fire()
	if got := video.CurrentTime(); got != 2 {
		t.Errorf("CurrentTime() after loop-back = %v, want 2", got)
	}
}

func TestLoopBackGuard(t *testing.T) {
	tests := []struct {
		name  string
		guard bool
		want  float64
	}{
		{"guarded loop-back is dropped after a seek", true, 4},
		{"unguarded loop-back wins the race", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, video, sched := newTestSync(t, tt.guard)
			clip := clips.Clip{ID: 1, Type: clips.TypeVideo, Start: 2, End: 8, Src: "a.mp4"}
			s.SetClips([]clips.Clip{clip})
			s.Load(clip, 8)
			s.TogglePlay()

			video.SetCurrentTime(8)
			s.Tick()
			s.Seek(4)
			sched.fire()

			if got := video.CurrentTime(); got != tt.want {
				t.Errorf("CurrentTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAudioResyncTolerance(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	clip := clips.Clip{ID: 1, Type: clips.TypeVideo, Start: 0, End: 30, Src: "a.mp4"}
	s.SetClips([]clips.Clip{clip})
	s.Load(clip, 30)

	near := NewVirtualAudio(60)
	far := NewVirtualAudio(60)
	s.AttachAudio(10, near)
	s.AttachAudio(11, far)

	video.SetCurrentTime(5)
	near.SetCurrentTime(5.05)
	far.SetCurrentTime(5.5)
	s.Tick()

	if near.CurrentTime() != 5.05 {
		t.Errorf("audio within tolerance was seeked to %v", near.CurrentTime())
	}
	if far.CurrentTime() != 5 {
		t.Errorf("drifting audio = %v, want 5", far.CurrentTime())
	}
}

func TestSeekClampsAndMovesAudio(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	clip := clips.Clip{ID: 1, Type: clips.TypeVideo, Start: 5, End: 15, Src: "a.mp4"}
	s.SetClips([]clips.Clip{clip})
	s.Load(clip, 15)
	audio := NewVirtualAudio(60)
	s.AttachAudio(3, audio)

	tests := []struct {
		in, want float64
	}{
		{0, 5},
		{9, 9},
		{40, 15},
	}
	for _, tt := range tests {
		if got := s.Seek(tt.in); got != tt.want {
			t.Errorf("Seek(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if video.CurrentTime() != tt.want || audio.CurrentTime() != tt.want {
			t.Errorf("Seek(%v): video=%v audio=%v", tt.in, video.CurrentTime(), audio.CurrentTime())
		}
	}
}

func TestSwitchWaitsForCanPlay(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	all := twoClips()
	s.SetClips(all)
	s.Load(all[0], 10)
	s.TogglePlay()

	s.Switch(all[1])
	if s.Playing() {
		t.Fatal("should not resume before can-play")
	}
	if st := s.Status(); st.Duration != 10 || st.CurrentTime != 10 || st.Src != "b.mp4" {
		t.Errorf("Status() after switch = %+v", st)
	}

	// ticks are ignored while waiting
	video.SetCurrentTime(25)
	s.Tick()
	if video.Src() != "b.mp4" {
		t.Errorf("tick ran during can-play wait")
	}
	video.SetCurrentTime(10)

	video.MarkReady()
	if !s.Playing() {
		t.Error("playback should resume after can-play")
	}
}

func TestSwitchWhilePausedStaysPaused(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	all := twoClips()
	s.SetClips(all)
	s.Load(all[0], 10)

	s.Switch(all[1])
	video.MarkReady()
	if s.Playing() {
		t.Error("switch from paused state must not start playback")
	}
}

func TestPlayRejectionForcesPaused(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	clip := clips.Clip{ID: 1, Type: clips.TypeVideo, Start: 0, End: 10, Src: "a.mp4"}
	s.SetClips([]clips.Clip{clip})
	s.Load(clip, 10)
	audio := NewVirtualAudio(10)
	s.AttachAudio(7, audio)

	video.FailPlay(errors.New("autoplay blocked"))
	if st := s.TogglePlay(); st != Paused {
		t.Errorf("TogglePlay() = %v, want paused", st)
	}
	if !audio.Paused() {
		t.Error("audio must not start when video play is rejected")
	}
}

func TestTogglePlayRewindsFinishedAudio(t *testing.T) {
	s, _, _ := newTestSync(t, true)
	clip := clips.Clip{ID: 1, Type: clips.TypeVideo, Start: 0, End: 10, Src: "a.mp4"}
	s.SetClips([]clips.Clip{clip})
	s.Load(clip, 10)
	audio := NewVirtualAudio(4)
	audio.SetCurrentTime(4)
	s.AttachAudio(7, audio)

	s.TogglePlay()
	if audio.CurrentTime() != 0 || audio.Paused() {
		t.Errorf("finished audio should restart from 0, got t=%v paused=%v", audio.CurrentTime(), audio.Paused())
	}
	if st := s.TogglePlay(); st != Paused || !audio.Paused() {
		t.Errorf("second toggle should pause everything")
	}
}

func TestEndedAndClear(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	clip := clips.Clip{ID: 1, Type: clips.TypeVideo, Start: 0, End: 10, Src: "a.mp4"}
	s.SetClips([]clips.Clip{clip})
	s.Load(clip, 10)
	audio := NewVirtualAudio(10)
	s.AttachAudio(1, audio)
	s.TogglePlay()
	video.SetCurrentTime(6)
	audio.SetCurrentTime(6)

	s.Ended()
	if s.Playing() || video.CurrentTime() != 0 || audio.CurrentTime() != 0 {
		t.Errorf("Ended() left playing=%v video=%v audio=%v", s.Playing(), video.CurrentTime(), audio.CurrentTime())
	}

	s.Clear()
	st := s.Status()
	if st.State != Idle || st.Src != "" || st.Duration != 0 || st.ActiveID != 0 {
		t.Errorf("Status() after Clear = %+v", st)
	}
	if s.TogglePlay() != Idle {
		t.Error("TogglePlay on idle should stay idle")
	}
}

func TestSetVolumeOnlyTouchesVideo(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	if got := s.SetVolume(150); got != 100 {
		t.Errorf("SetVolume(150) = %d", got)
	}
	s.SetVolume(40)
	if video.Volume() != 0.4 {
		t.Errorf("video volume = %v, want 0.4", video.Volume())
	}
}

func TestPlayerStep(t *testing.T) {
	s, video, _ := newTestSync(t, true)
	clip := clips.Clip{ID: 1, Type: clips.TypeVideo, Start: 0, End: 10, Src: "a.mp4"}
	s.SetClips([]clips.Clip{clip})
	s.Load(clip, 10)
	audio := NewVirtualAudio(30)
	s.AttachAudio(1, audio)
	s.TogglePlay()

	p := NewPlayer(zerolog.Nop(), s, video, 250*time.Millisecond)
	var last Status
	p.OnTick(func(st Status) { last = st })
	for i := 0; i < 4; i++ {
		p.Step(0.25)
	}
	if last.CurrentTime != 1 {
		t.Errorf("CurrentTime after 4 steps = %v, want 1", last.CurrentTime)
	}
	if audio.CurrentTime() != 1 {
		t.Errorf("audio time = %v, want 1", audio.CurrentTime())
	}
}
