package playback

import "time"

// MediaElement is the single video surface the synchronizer drives.
// OnCanPlay registers a one-shot readiness callback; implementations must
// invoke it after OnCanPlay has returned, never from inside the call.
type MediaElement interface {
	Src() string
	SetSrc(src string)
	CurrentTime() float64
	SetCurrentTime(t float64)
	Play() error
	Pause()
	Paused() bool
	SetVolume(v float64)
	OnCanPlay(fn func())
}

// AudioElement is a secondary track kept in lockstep with the video
type AudioElement interface {
	CurrentTime() float64
	SetCurrentTime(t float64)
	Play() error
	Pause()
	Ended() bool
}

// Timer is a pending scheduled call
type Timer interface {
	Stop() bool
}

// Scheduler runs a function after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// WallScheduler schedules on real timers
func WallScheduler() Scheduler {
	return wallScheduler{}
}
