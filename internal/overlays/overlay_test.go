package overlays

import "testing"

func TestEffectActivationBuffer(t *testing.T) {
	e := EffectItem{ID: 1, Name: Blur, StartTime: 5, EndTime: 10}

	tests := []struct {
		time float64
		want bool
	}{
		{4.98, false},
		{4.995, true},
		{5, true},
		{7.5, true},
		{10, true},
		{10.005, true},
		{10.02, false},
	}

	for _, tt := range tests {
		if got := EffectActive(e, tt.time); got != tt.want {
			t.Errorf("EffectActive(t=%v) = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestTextAndImageInclusive(t *testing.T) {
	text := TextItem{StartTime: 2, EndTime: 4}
	img := ImageItem{StartTime: 2, EndTime: 4}

	tests := []struct {
		name string
		time float64
		want bool
	}{
		{"before", 1.999, false},
		{"at start", 2, true},
		{"inside", 3, true},
		{"at end", 4, true},
		{"after", 4.001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextVisible(text, tt.time); got != tt.want {
				t.Errorf("TextVisible = %v, want %v", got, tt.want)
			}
			if got := ImageVisible(img, tt.time); got != tt.want {
				t.Errorf("ImageVisible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleFilters(t *testing.T) {
	texts := []TextItem{{ID: 1, StartTime: 0, EndTime: 5}, {ID: 2, StartTime: 6, EndTime: 8}}
	if got := VisibleTexts(texts, 5); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("VisibleTexts(5) = %+v", got)
	}

	effects := []EffectItem{{ID: 1, StartTime: 0, EndTime: 1}, {ID: 2, StartTime: 1.005, EndTime: 3}}
	if got := ActiveEffects(effects, 1, EffectBuffer); len(got) != 2 {
		t.Errorf("ActiveEffects(1) = %+v, want both", got)
	}
}

func TestCatalogs(t *testing.T) {
	if got := len(Effects.List()); got != 8 {
		t.Errorf("effect catalog has %d entries, want 8", got)
	}
	if got := Effects.List()[0]; got != ZoomIn {
		t.Errorf("first effect = %q, want registration order", got)
	}
	css, ok := Filters.Get(FilterNoir)
	if !ok || css != "grayscale(1) contrast(1.5)" {
		t.Errorf("Filters.Get(Noir) = %q,%v", css, ok)
	}
	if Filters.Has("Sepia") {
		t.Error("unexpected filter Sepia")
	}
	hl, _ := TextPresets.Get("Highlight")
	if !hl.Bold || !hl.Underline || hl.Color != "#ffff00" {
		t.Errorf("Highlight preset = %+v", hl)
	}
}
