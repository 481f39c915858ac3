package effects

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/overlays"
)

type activation struct {
	id     int64
	name   string
	effect Effect
	stop   chan struct{}
	done   chan struct{}
}

// Renderer applies effect strategies to a surface as effect windows open
// and close, owning the ticker of every recurring effect. The surface is
// always the base style with the running effects layered on in timeline
// order.
type Renderer struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	surface Surface
	buffer  float64
	base    Style
	active  []*activation
}

// NewRenderer creates a renderer over surface, taking its current style
// as the base
func NewRenderer(logger zerolog.Logger, surface Surface, buffer float64) *Renderer {
	return &Renderer{
		logger:  logger.With().Str("component", "effects").Logger(),
		surface: surface,
		buffer:  buffer,
		base:    surface.Style(),
	}
}

// Sync activates effects whose window covers t and removes the rest.
// It returns the ids active after the call.
func (r *Renderer) Sync(items []overlays.EffectItem, t float64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := overlays.ActiveEffects(items, t, r.buffer)
	if r.matches(want) {
		return r.ids()
	}

	running := make(map[int64]*activation, len(r.active))
	for _, act := range r.active {
		running[act.id] = act
	}
	r.stopLoops()

	next := make([]*activation, 0, len(want))
	for _, it := range want {
		if act, ok := running[it.ID]; ok && act.name == it.Name {
			delete(running, it.ID)
			next = append(next, act)
			continue
		}
		effect, ok := Lookup(it.Name)
		if !ok {
			r.logger.Warn().Str("effect", it.Name).Msg("unknown effect")
			continue
		}
		next = append(next, &activation{id: it.ID, name: it.Name, effect: effect})
		r.logger.Debug().Int64("id", it.ID).Str("effect", it.Name).Msg("effect on")
	}
	for id, act := range running {
		r.logger.Debug().Int64("id", id).Str("effect", act.name).Msg("effect off")
	}

	r.active = next
	r.render()
	return r.ids()
}

// SetFilter replaces the base filter and re-renders the running effects
// over it
func (r *Renderer) SetFilter(filter string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLoops()
	r.base.Filter = filter
	r.render()
}

// matches reports whether want is exactly the running set, in order
func (r *Renderer) matches(want []overlays.EffectItem) bool {
	n := 0
	for _, it := range want {
		if _, ok := Catalog.Get(it.Name); !ok {
			continue
		}
		if n >= len(r.active) || r.active[n].id != it.ID || r.active[n].name != it.Name {
			return false
		}
		n++
	}
	return n == len(r.active)
}

// render layers every running effect over the base and restarts the
// recurring ones. Loops must be stopped.
func (r *Renderer) render() {
	style := r.base
	layers := make([]Style, len(r.active))
	for i, act := range r.active {
		layers[i] = style
		style = act.effect.Apply(style)
	}
	r.surface.SetStyle(style)

	for i, act := range r.active {
		if act.effect.Interval() <= 0 {
			continue
		}
		act.stop = make(chan struct{})
		act.done = make(chan struct{})
		go r.loop(act.effect, layers[i], act.stop, act.done)
	}
}

func (r *Renderer) loop(effect Effect, base Style, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(effect.Interval())
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.surface.SetStyle(effect.Step(base, r.surface.Style(), n))
		}
	}
}

func (r *Renderer) stopLoops() {
	for _, act := range r.active {
		if act.stop == nil {
			continue
		}
		close(act.stop)
		<-act.done
		act.stop, act.done = nil, nil
	}
}

func (r *Renderer) ids() []int64 {
	ids := make([]int64, 0, len(r.active))
	for _, act := range r.active {
		ids = append(ids, act.id)
	}
	return ids
}

// Active lists running effect ids
func (r *Renderer) Active() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ids()
}

// Close stops every effect and restores the base style
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLoops()
	r.active = nil
	r.surface.SetStyle(r.base)
}
