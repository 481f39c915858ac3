package clips

import (
	"sort"
)

// Type names the timeline lane a clip lives on
type Type string

const (
	TypeVideo  Type = "video"
	TypeText   Type = "text"
	TypeEffect Type = "effect"
	TypeAudio  Type = "audio"
	TypeImage  Type = "image"
)

// Tracks lists every lane in display order
var Tracks = []Type{TypeVideo, TypeText, TypeImage, TypeEffect, TypeAudio}

// Lane colours used by timeline renderers
const (
	ColorVideo  = "#4f46e5"
	ColorText   = "#10b981"
	ColorImage  = "#0ea5e9"
	ColorPDF    = "#8b5cf6"
	ColorAudio  = "#ef4444"
	ColorEffect = "#f59e0b"
	ColorFilter = "#9333ea"
)

// Clip is a scheduled timeline entry. Times are in seconds.
type Clip struct {
	ID         int64   `json:"id"`
	Type       Type    `json:"type"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Color      string  `json:"color"`
	Name       string  `json:"name"`
	Src        string  `json:"src,omitempty"`
	VideoStart float64 `json:"videoStart,omitempty"`
	VideoEnd   float64 `json:"videoEnd,omitempty"`
	EffectName string  `json:"effectName,omitempty"`
	FilterName string  `json:"filterName,omitempty"`
}

// Duration returns the clip span
func (c Clip) Duration() float64 {
	return c.End - c.Start
}

// IsFilter reports whether the clip is the composition-wide filter clip
func (c Clip) IsFilter() bool {
	return c.Type == TypeEffect && c.FilterName != ""
}

// Contains reports whether t lies strictly inside the clip window
func (c Clip) Contains(t float64) bool {
	return t > c.Start && t < c.End
}

// Manager owns the ordered clip list
type Manager struct {
	clips []Clip
}

// NewManager creates a new clip manager
func NewManager(initial ...Clip) *Manager {
	m := &Manager{clips: make([]Clip, 0, len(initial))}
	m.clips = append(m.clips, initial...)
	return m
}

// Add appends a clip without sorting
func (m *Manager) Add(clip Clip) {
	m.clips = append(m.clips, clip)
}

// Get retrieves a clip by ID
func (m *Manager) Get(id int64) (Clip, bool) {
	if i := m.Index(id); i >= 0 {
		return m.clips[i], true
	}
	return Clip{}, false
}

// Index returns the list position of id, or -1
func (m *Manager) Index(id int64) int {
	for i, clip := range m.clips {
		if clip.ID == id {
			return i
		}
	}
	return -1
}

// All returns a copy of every clip in list order
func (m *Manager) All() []Clip {
	out := make([]Clip, len(m.clips))
	copy(out, m.clips)
	return out
}

// Len returns the number of clips
func (m *Manager) Len() int {
	return len(m.clips)
}

// ByTrack returns the clips of one type in list order
func (m *Manager) ByTrack(t Type) []Clip {
	var out []Clip
	for _, clip := range m.clips {
		if clip.Type == t {
			out = append(out, clip)
		}
	}
	return out
}

// Remove deletes a clip and returns it
func (m *Manager) Remove(id int64) (Clip, bool) {
	i := m.Index(id)
	if i < 0 {
		return Clip{}, false
	}
	removed := m.clips[i]
	m.clips = append(m.clips[:i:i], m.clips[i+1:]...)
	return removed, true
}

// Replace swaps the whole list
func (m *Manager) Replace(all []Clip) {
	m.clips = make([]Clip, len(all))
	copy(m.clips, all)
}

// Update applies fn to the clip with id in place
func (m *Manager) Update(id int64, fn func(*Clip)) bool {
	i := m.Index(id)
	if i < 0 {
		return false
	}
	fn(&m.clips[i])
	return true
}

// Each applies fn to every clip in place
func (m *Manager) Each(fn func(*Clip)) {
	for i := range m.clips {
		fn(&m.clips[i])
	}
}

// SortWithinTracks orders clips by start inside each lane. The relative
// order of clips on different lanes is left as it was.
func (m *Manager) SortWithinTracks() {
	positions := make(map[Type][]int)
	for i, clip := range m.clips {
		positions[clip.Type] = append(positions[clip.Type], i)
	}
	for _, idx := range positions {
		lane := make([]Clip, len(idx))
		for j, i := range idx {
			lane[j] = m.clips[i]
		}
		sort.SliceStable(lane, func(a, b int) bool {
			return lane[a].Start < lane[b].Start
		})
		for j, i := range idx {
			m.clips[i] = lane[j]
		}
	}
}

// NextVideoAfter finds the first video clip positioned after id in the list
func (m *Manager) NextVideoAfter(id int64) (Clip, bool) {
	i := m.Index(id)
	if i < 0 {
		return Clip{}, false
	}
	for _, clip := range m.clips[i+1:] {
		if clip.Type == TypeVideo {
			return clip, true
		}
	}
	return Clip{}, false
}

// FindVideoBySrc returns the first video clip playing src
func (m *Manager) FindVideoBySrc(src string) (Clip, bool) {
	for _, clip := range m.clips {
		if clip.Type == TypeVideo && clip.Src == src {
			return clip, true
		}
	}
	return Clip{}, false
}

// FirstVideo returns the first video clip in list order
func (m *Manager) FirstVideo() (Clip, bool) {
	for _, clip := range m.clips {
		if clip.Type == TypeVideo {
			return clip, true
		}
	}
	return Clip{}, false
}

// Filter returns the filter clip if one exists
func (m *Manager) Filter() (Clip, bool) {
	for _, clip := range m.clips {
		if clip.IsFilter() {
			return clip, true
		}
	}
	return Clip{}, false
}

// MaxVideoEnd returns the latest end among video clips
func (m *Manager) MaxVideoEnd() float64 {
	var end float64
	for _, clip := range m.clips {
		if clip.Type == TypeVideo && clip.End > end {
			end = clip.End
		}
	}
	return end
}
