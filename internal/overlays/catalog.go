package overlays

import "sort"

// Effect names
const (
	ZoomIn  = "Zoom In"
	ZoomOut = "Zoom Out"
	Fade    = "Fade"
	Blur    = "Blur"
	Glitch  = "Glitch"
	Shake   = "Shake"
	Spin    = "Spin"
	Flash   = "Flash"
)

// Filter names
const (
	FilterNormal  = "Normal"
	FilterVintage = "Vintage"
	FilterNoir    = "Noir"
	FilterWarm    = "Warm"
	FilterCool    = "Cool"
	FilterVibrant = "Vibrant"
	FilterMuted   = "Muted"
)

// Registry maps catalog names to a value, keeping registration order
type Registry[V any] struct {
	order  []string
	values map[string]V
}

// NewRegistry creates an empty registry
func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{values: make(map[string]V)}
}

// Register adds or replaces an entry
func (r *Registry[V]) Register(name string, v V) {
	if _, ok := r.values[name]; !ok {
		r.order = append(r.order, name)
	}
	r.values[name] = v
}

// Get retrieves an entry by name
func (r *Registry[V]) Get(name string) (V, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether name is registered
func (r *Registry[V]) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// List returns names in registration order
func (r *Registry[V]) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Sorted returns names alphabetically
func (r *Registry[V]) Sorted() []string {
	out := r.List()
	sort.Strings(out)
	return out
}

// Effects is the effect catalog, name to description
var Effects = func() *Registry[string] {
	r := NewRegistry[string]()
	r.Register(ZoomIn, "Gradually zooms in on the center of the frame")
	r.Register(ZoomOut, "Gradually zooms out from the center of the frame")
	r.Register(Fade, "Smoothly fades in from black")
	r.Register(Blur, "Applies a blur effect that gradually clears")
	r.Register(Glitch, "Creates a digital glitch distortion effect")
	r.Register(Shake, "Adds camera shake movement to the video")
	r.Register(Spin, "Rotates the entire frame in a circular motion")
	r.Register(Flash, "Creates quick white flashes for transitions")
	return r
}()

// Filters is the filter catalog, name to CSS filter string
var Filters = func() *Registry[string] {
	r := NewRegistry[string]()
	r.Register(FilterNormal, "none")
	r.Register(FilterVintage, "sepia(0.5) contrast(1.2) brightness(0.9)")
	r.Register(FilterNoir, "grayscale(1) contrast(1.5)")
	r.Register(FilterWarm, "sepia(0.3) saturate(1.3) contrast(1.1)")
	r.Register(FilterCool, "saturate(0.8) hue-rotate(30deg)")
	r.Register(FilterVibrant, "saturate(1.5) contrast(1.2)")
	r.Register(FilterMuted, "saturate(0.7) brightness(1.1)")
	return r
}()

// TextPresets are one-click text styles
var TextPresets = func() *Registry[TextStyle] {
	r := NewRegistry[TextStyle]()
	r.Register("Title", TextStyle{Bold: true, Align: AlignCenter, FontSize: 36, Color: "#ffffff"})
	r.Register("Subtitle", TextStyle{Align: AlignCenter, FontSize: 24, Color: "#ffffff"})
	r.Register("Caption", TextStyle{Align: AlignLeft, FontSize: 18, Color: "#ffffff"})
	r.Register("Quote", TextStyle{Italic: true, Align: AlignCenter, FontSize: 28, Color: "#ffffff"})
	r.Register("Highlight", TextStyle{Bold: true, Underline: true, Align: AlignCenter, FontSize: 24, Color: "#ffff00"})
	return r
}()
