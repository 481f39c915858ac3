package effects

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/overlays"
)

func TestStaticEffects(t *testing.T) {
	base := Style{Filter: "grayscale(1)"}

	tests := []struct {
		name  string
		check func(Style) bool
	}{
		{overlays.ZoomIn, func(s Style) bool { return s.Transform == "scale(1.3)" }},
		{overlays.ZoomOut, func(s Style) bool { return s.Transform == "scale(0.7)" }},
		{overlays.Fade, func(s Style) bool { return s.Opacity == "0.6" }},
		{overlays.Blur, func(s Style) bool { return s.Filter == "grayscale(1) blur(8px)" }},
		{overlays.Spin, func(s Style) bool { return s.Transform == "rotate(360deg)" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) failed", tt.name)
			}
			got := e.Apply(base)
			if !tt.check(got) {
				t.Errorf("Apply() = %+v", got)
			}
		})
	}
}

func TestRecurringSteps(t *testing.T) {
	base := Style{}

	g := GlitchEffect{}
	s1 := g.Step(base, base, 1)
	s2 := g.Step(base, s1, 2)
	if s1.Transform != "translate(-5px, 5px)" || s2.Transform != "translate(5px, -5px)" {
		t.Errorf("glitch transforms = %q, %q", s1.Transform, s2.Transform)
	}

	f := FlashEffect{}
	if got := f.Step(base, base, 1).Filter; got != "brightness(2.5)" {
		t.Errorf("flash on = %q", got)
	}
	if got := f.Step(base, base, 2).Filter; got != "" {
		t.Errorf("flash off = %q", got)
	}

	sp := SpinEffect{}
	cur := sp.Apply(base)
	cur = sp.Step(base, cur, 1)
	if cur.Transform != "rotate(0deg)" {
		t.Errorf("spin toggle = %q", cur.Transform)
	}

	sh := NewShakeEffect(1)
	if got := sh.Step(base, base, 1).Transform; !strings.HasPrefix(got, "translate(") {
		t.Errorf("shake transform = %q", got)
	}
}

func TestRendererActivationTransitions(t *testing.T) {
	surface := NewStyleSurface()
	surface.SetFilter("sepia(0.5)")
	r := NewRenderer(zerolog.Nop(), surface, overlays.EffectBuffer)

	items := []overlays.EffectItem{{ID: 1, Name: overlays.ZoomIn, StartTime: 5, EndTime: 10}}

	if ids := r.Sync(items, 4.98); len(ids) != 0 {
		t.Fatalf("effect active before window: %v", ids)
	}
	if ids := r.Sync(items, 4.995); len(ids) != 1 {
		t.Fatalf("effect not active inside buffer")
	}
	if got := surface.Style().Transform; got != "scale(1.3)" {
		t.Errorf("transform = %q", got)
	}

	r.Sync(items, 10.02)
	st := surface.Style()
	if st.Transform != "" || st.Filter != "sepia(0.5)" {
		t.Errorf("style not restored: %+v", st)
	}
}

func TestRendererStopsRecurringEffects(t *testing.T) {
	surface := NewStyleSurface()
	r := NewRenderer(zerolog.Nop(), surface, overlays.EffectBuffer)

	items := []overlays.EffectItem{
		{ID: 1, Name: overlays.Glitch, StartTime: 0, EndTime: 5},
		{ID: 2, Name: overlays.Shake, StartTime: 0, EndTime: 5},
	}
	if ids := r.Sync(items, 1); len(ids) != 2 {
		t.Fatalf("Sync() = %v, want both", ids)
	}

	r.Close()
	if n := len(r.Active()); n != 0 {
		t.Errorf("Active() after Close = %d", n)
	}
}

func TestRendererSkipsUnknown(t *testing.T) {
	r := NewRenderer(zerolog.Nop(), NewStyleSurface(), overlays.EffectBuffer)
	ids := r.Sync([]overlays.EffectItem{{ID: 9, Name: "Warp", StartTime: 0, EndTime: 1}}, 0.5)
	if len(ids) != 0 {
		t.Errorf("unknown effect activated: %v", ids)
	}
}

func TestRendererOverlappingEffectsRestoreBase(t *testing.T) {
	for i := 0; i < 50; i++ {
		surface := NewStyleSurface()
		surface.SetFilter("none")
		r := NewRenderer(zerolog.Nop(), surface, overlays.EffectBuffer)

		items := []overlays.EffectItem{
			{ID: 1, Name: overlays.ZoomIn, StartTime: 0, EndTime: 5},
			{ID: 2, Name: overlays.Fade, StartTime: 0, EndTime: 5},
		}
		if ids := r.Sync(items, 1); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
			t.Fatalf("Sync() = %v, want [1 2]", ids)
		}
		if got := surface.Style().Opacity; got != "0.6" {
			t.Fatalf("opacity = %q", got)
		}

		r.Sync(items, 20)
		if st := surface.Style(); st != (Style{Filter: "none"}) {
			t.Fatalf("run %d: style after both windows = %+v", i, st)
		}
	}
}

func TestRendererFilterChangeKeepsEffects(t *testing.T) {
	surface := NewStyleSurface()
	r := NewRenderer(zerolog.Nop(), surface, overlays.EffectBuffer)
	items := []overlays.EffectItem{{ID: 1, Name: overlays.ZoomIn, StartTime: 0, EndTime: 5}}

	r.Sync(items, 1)
	r.SetFilter("grayscale(1)")
	if st := surface.Style(); st.Filter != "grayscale(1)" || st.Transform != "scale(1.3)" {
		t.Errorf("style after filter change = %+v", st)
	}

	r.Sync(items, 20)
	if st := surface.Style(); st.Filter != "grayscale(1)" || st.Transform != "" {
		t.Errorf("style after effect = %+v", st)
	}

	r.Sync(items, 2)
	r.Close()
	if st := surface.Style(); st != (Style{Filter: "grayscale(1)"}) {
		t.Errorf("style after Close = %+v", st)
	}
}
