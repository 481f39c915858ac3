package effects

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/kikiluvv/slopeditor/internal/overlays"
)

// Style is the visual state of the render surface
type Style struct {
	Filter          string `json:"filter"`
	Transform       string `json:"transform"`
	Transition      string `json:"transition"`
	Opacity         string `json:"opacity"`
	TransformOrigin string `json:"transformOrigin"`
}

// Surface is whatever draws the video frame
type Surface interface {
	Style() Style
	SetStyle(Style)
}

// StyleSurface is an in-memory Surface
type StyleSurface struct {
	mu    sync.Mutex
	style Style
}

// NewStyleSurface creates an unstyled surface
func NewStyleSurface() *StyleSurface {
	return &StyleSurface{}
}

func (s *StyleSurface) Style() Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

func (s *StyleSurface) SetStyle(st Style) {
	s.mu.Lock()
	s.style = st
	s.mu.Unlock()
}

// SetFilter replaces only the filter
func (s *StyleSurface) SetFilter(filter string) {
	s.mu.Lock()
	s.style.Filter = filter
	s.mu.Unlock()
}

// Effect is a visual strategy. Apply returns the style on activation;
// effects with a non-zero Interval get Step called on every tick.
type Effect interface {
	Apply(base Style) Style
	Interval() time.Duration
	Step(base, current Style, n int) Style
}

func withFilter(base, extra string) string {
	if base == "none" {
		base = ""
	}
	return strings.TrimSpace(base + " " + extra)
}

// reset is the common starting point every effect applies over
func reset(base Style) Style {
	return Style{
		Filter:          base.Filter,
		Transition:      "all 0.3s ease-in-out",
		Opacity:         "1",
		TransformOrigin: base.TransformOrigin,
	}
}

type static struct {
	apply func(base Style) Style
}

func (s static) Apply(base Style) Style                { return s.apply(base) }
func (static) Interval() time.Duration                 { return 0 }
func (static) Step(_ Style, current Style, _ int) Style { return current }

// ZoomInEffect scales the frame up
func ZoomInEffect() Effect {
	return static{func(base Style) Style {
		st := reset(base)
		st.TransformOrigin = "center center"
		st.Transform = "scale(1.3)"
		return st
	}}
}

// ZoomOutEffect scales the frame down
func ZoomOutEffect() Effect {
	return static{func(base Style) Style {
		st := reset(base)
		st.TransformOrigin = "center center"
		st.Transform = "scale(0.7)"
		return st
	}}
}

// FadeEffect dims the frame
func FadeEffect() Effect {
	return static{func(base Style) Style {
		st := reset(base)
		st.Opacity = "0.6"
		return st
	}}
}

// BlurEffect blurs on top of the current filter
func BlurEffect() Effect {
	return static{func(base Style) Style {
		st := reset(base)
		st.Filter = withFilter(base.Filter, "blur(8px)")
		return st
	}}
}

// GlitchEffect alternates hue and offset every 80ms
type GlitchEffect struct{}

func (GlitchEffect) Apply(base Style) Style  { return reset(base) }
func (GlitchEffect) Interval() time.Duration { return 80 * time.Millisecond }

func (GlitchEffect) Step(base, current Style, n int) Style {
	if n%2 == 0 {
		current.Filter = withFilter(base.Filter, "hue-rotate(90deg) contrast(180%)")
		current.Transform = "translate(5px, -5px)"
	} else {
		current.Filter = withFilter(base.Filter, "hue-rotate(180deg) contrast(180%)")
		current.Transform = "translate(-5px, 5px)"
	}
	return current
}

// ShakeEffect jitters the frame by up to 6px every 40ms
type ShakeEffect struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShakeEffect creates a shake with its own random source
func NewShakeEffect(seed int64) *ShakeEffect {
	return &ShakeEffect{rng: rand.New(rand.NewSource(seed))}
}

func (*ShakeEffect) Apply(base Style) Style  { return reset(base) }
func (*ShakeEffect) Interval() time.Duration { return 40 * time.Millisecond }

func (e *ShakeEffect) Step(_, current Style, _ int) Style {
	e.mu.Lock()
	x := e.rng.Float64()*12 - 6
	y := e.rng.Float64()*12 - 6
	e.mu.Unlock()
	current.Transform = fmt.Sprintf("translate(%.2fpx, %.2fpx)", x, y)
	return current
}

// SpinEffect rotates a full turn, flipping back every 2s
type SpinEffect struct{}

func (SpinEffect) Apply(base Style) Style {
	st := reset(base)
	st.TransformOrigin = "center center"
	st.Transition = "transform 2s linear"
	st.Transform = "rotate(360deg)"
	return st
}

func (SpinEffect) Interval() time.Duration { return 2 * time.Second }

func (SpinEffect) Step(_, current Style, _ int) Style {
	if current.Transform == "rotate(360deg)" {
		current.Transform = "rotate(0deg)"
	} else {
		current.Transform = "rotate(360deg)"
	}
	return current
}

// FlashEffect toggles a bright flash every 300ms
type FlashEffect struct{}

func (FlashEffect) Apply(base Style) Style  { return reset(base) }
func (FlashEffect) Interval() time.Duration { return 300 * time.Millisecond }

func (FlashEffect) Step(base, current Style, n int) Style {
	if n%2 == 1 {
		current.Filter = withFilter(base.Filter, "brightness(2.5)")
	} else {
		current.Filter = base.Filter
	}
	return current
}

// Catalog maps effect names to strategy constructors
var Catalog = func() *overlays.Registry[func() Effect] {
	r := overlays.NewRegistry[func() Effect]()
	r.Register(overlays.ZoomIn, ZoomInEffect)
	r.Register(overlays.ZoomOut, ZoomOutEffect)
	r.Register(overlays.Fade, FadeEffect)
	r.Register(overlays.Blur, BlurEffect)
	r.Register(overlays.Glitch, func() Effect { return GlitchEffect{} })
	r.Register(overlays.Shake, func() Effect { return NewShakeEffect(time.Now().UnixNano()) })
	r.Register(overlays.Spin, func() Effect { return SpinEffect{} })
	r.Register(overlays.Flash, func() Effect { return FlashEffect{} })
	return r
}()

// Lookup builds the strategy for name
func Lookup(name string) (Effect, bool) {
	ctor, ok := Catalog.Get(name)
	if !ok {
		return nil, false
	}
	return ctor(), true
}
