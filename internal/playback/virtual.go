package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// VirtualMedia is a headless video element with a manual clock. It backs
// the desktop and HTTP editors, which have no decoder of their own.
type VirtualMedia struct {
	mu      sync.Mutex
	src     string
	t       float64
	paused  bool
	volume  float64
	ready   bool
	canPlay []func()
	playErr error
}

// NewVirtualMedia creates an empty, paused element
func NewVirtualMedia() *VirtualMedia {
	return &VirtualMedia{paused: true, volume: 1}
}

func (v *VirtualMedia) Src() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.src
}

func (v *VirtualMedia) SetSrc(src string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if src != v.src {
		v.ready = false
	}
	v.src = src
}

func (v *VirtualMedia) CurrentTime() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.t
}

func (v *VirtualMedia) SetCurrentTime(t float64) {
	v.mu.Lock()
	v.t = t
	v.mu.Unlock()
}

// Play starts the clock, or fails with the error set by FailPlay
func (v *VirtualMedia) Play() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playErr != nil {
		return v.playErr
	}
	v.paused = false
	return nil
}

func (v *VirtualMedia) Pause() {
	v.mu.Lock()
	v.paused = true
	v.mu.Unlock()
}

func (v *VirtualMedia) Paused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paused
}

func (v *VirtualMedia) SetVolume(vol float64) {
	v.mu.Lock()
	v.volume = vol
	v.mu.Unlock()
}

// Volume reads the element volume in 0..1
func (v *VirtualMedia) Volume() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.volume
}

func (v *VirtualMedia) OnCanPlay(fn func()) {
	v.mu.Lock()
	v.canPlay = append(v.canPlay, fn)
	v.mu.Unlock()
}

// FailPlay makes the next Play calls return err; nil clears it
func (v *VirtualMedia) FailPlay(err error) {
	v.mu.Lock()
	v.playErr = err
	v.mu.Unlock()
}

// MarkReady flags the source as buffered and fires pending one-shot
// can-play callbacks
func (v *VirtualMedia) MarkReady() {
	v.mu.Lock()
	v.ready = true
	pending := v.canPlay
	v.canPlay = nil
	v.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// Advance moves the clock forward when playing
func (v *VirtualMedia) Advance(dt float64) {
	v.mu.Lock()
	if !v.paused && v.src != "" {
		v.t += dt
	}
	v.mu.Unlock()
}

// VirtualAudio is a headless audio element
type VirtualAudio struct {
	mu       sync.Mutex
	t        float64
	duration float64
	paused   bool
}

// NewVirtualAudio creates a paused audio element of the given length
func NewVirtualAudio(duration float64) *VirtualAudio {
	return &VirtualAudio{duration: duration, paused: true}
}

func (a *VirtualAudio) CurrentTime() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.t
}

func (a *VirtualAudio) SetCurrentTime(t float64) {
	a.mu.Lock()
	a.t = t
	a.mu.Unlock()
}

func (a *VirtualAudio) Play() error {
	a.mu.Lock()
	a.paused = false
	a.mu.Unlock()
	return nil
}

func (a *VirtualAudio) Pause() {
	a.mu.Lock()
	a.paused = true
	a.mu.Unlock()
}

// Paused reports whether the track is stopped
func (a *VirtualAudio) Paused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

func (a *VirtualAudio) Ended() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duration > 0 && a.t >= a.duration
}

// Advance moves the clock forward when playing
func (a *VirtualAudio) Advance(dt float64) {
	a.mu.Lock()
	if !a.paused {
		a.t += dt
		if a.duration > 0 && a.t >= a.duration {
			a.t = a.duration
			a.paused = true
		}
	}
	a.mu.Unlock()
}

type advancer interface {
	Advance(dt float64)
}

// Player drives a synchronizer over virtual elements at a fixed rate
type Player struct {
	logger   zerolog.Logger
	sync     *Synchronizer
	video    *VirtualMedia
	interval time.Duration
	onTick   func(Status)
}

// NewPlayer creates a player ticking every interval
func NewPlayer(logger zerolog.Logger, s *Synchronizer, video *VirtualMedia, interval time.Duration) *Player {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Player{
		logger:   logger.With().Str("component", "player").Logger(),
		sync:     s,
		video:    video,
		interval: interval,
	}
}

// OnTick registers a callback receiving status after every tick
func (p *Player) OnTick(fn func(Status)) {
	p.onTick = fn
}

// Step advances virtual time by dt and runs one synchronizer tick
func (p *Player) Step(dt float64) {
	p.video.MarkReady()
	p.video.Advance(dt)
	for _, el := range p.sync.AudioElements() {
		if a, ok := el.(advancer); ok {
			a.Advance(dt)
		}
	}
	p.sync.Tick()
	if p.onTick != nil {
		p.onTick(p.sync.Status())
	}
}

// Run ticks until ctx is cancelled
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Debug().Dur("interval", p.interval).Msg("player started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug().Msg("player stopped")
			return ctx.Err()
		case <-ticker.C:
			p.Step(p.interval.Seconds())
		}
	}
}
