// Package project persists editor sessions: the saved-project record kept
// in the library, and the portable project file used for export/import.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kikiluvv/slopeditor/internal/clips"
	"github.com/kikiluvv/slopeditor/internal/editor"
	"github.com/kikiluvv/slopeditor/internal/overlays"
	"github.com/kikiluvv/slopeditor/internal/scoring"
	"github.com/kikiluvv/slopeditor/pkg/util"
)

// Version is written into every saved or exported project
const Version = "1.0"

var (
	ErrNoVideo        = errors.New("project has no video")
	ErrNoTitle        = errors.New("project has no title")
	ErrInvalidProject = errors.New("invalid project file")
	ErrNotFound       = errors.New("project not found")
)

// Project is the persisted form of an editor session
type Project struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Platform      string                `json:"platform"`
	Niche         string                `json:"niche"`
	Trend         string                `json:"trend"`
	Thumbnail     string                `json:"thumbnail,omitempty"`
	DateCreated   string                `json:"dateCreated,omitempty"`
	Duration      string                `json:"duration,omitempty"`
	Clips         []clips.Clip          `json:"clips"`
	TextOverlays  []overlays.TextItem   `json:"textOverlays"`
	ImageOverlays []overlays.ImageItem  `json:"imageOverlays"`
	EffectItems   []overlays.EffectItem `json:"effectItems"`
	AudioTracks   []overlays.AudioTrack `json:"audioTracks"`
	CropData      *editor.CropData      `json:"cropData"`
	ActiveFilter  *string               `json:"activeFilter"`
	VideoSrc      string                `json:"videoSrc,omitempty"`
	LastEdited    string                `json:"lastEdited,omitempty"`
	ExportDate    string                `json:"exportDate,omitempty"`
	Version       string                `json:"version"`
}

// Session is what saving needs from a live editor
type Session struct {
	ID        string
	Title     string
	Meta      editor.Meta
	State     editor.State
	Duration  float64
	VideoSrc  string
	Thumbnail string
}

// Build turns a session into a library record. A session needs an active
// video and a non-blank title.
func Build(s Session, now time.Time) (Project, error) {
	if s.VideoSrc == "" {
		return Project{}, ErrNoVideo
	}
	if strings.TrimSpace(s.Title) == "" {
		return Project{}, ErrNoTitle
	}

	id := s.ID
	if id == "" {
		id = NewID(now)
	}
	st := s.State.Clone()
	return Project{
		ID:            id,
		Title:         s.Title,
		Platform:      s.Meta.Platform,
		Niche:         s.Meta.Niche,
		Trend:         s.Meta.Trend,
		Thumbnail:     s.Thumbnail,
		DateCreated:   now.Format("1/2/2006"),
		Duration:      util.FormatClock(s.Duration),
		Clips:         st.Clips,
		TextOverlays:  st.TextOverlays,
		ImageOverlays: st.ImageOverlays,
		EffectItems:   st.EffectItems,
		AudioTracks:   st.AudioTracks,
		CropData:      st.CropData,
		ActiveFilter:  st.ActiveFilter,
		VideoSrc:      s.VideoSrc,
		LastEdited:    now.UTC().Format(time.RFC3339),
		Version:       Version,
	}, nil
}

// NewID is the id given to a project saved for the first time
func NewID(now time.Time) string {
	return fmt.Sprintf("video_%d", now.UnixMilli())
}

// State is the editable part of the project
func (p Project) State() editor.State {
	return editor.State{
		Clips:         p.Clips,
		TextOverlays:  p.TextOverlays,
		ImageOverlays: p.ImageOverlays,
		EffectItems:   p.EffectItems,
		AudioTracks:   p.AudioTracks,
		CropData:      p.CropData,
		ActiveFilter:  p.ActiveFilter,
	}.Clone()
}

// Meta is the publishing target stored with the project
func (p Project) Meta() editor.Meta {
	return editor.Meta{Platform: p.Platform, Niche: p.Niche, Trend: p.Trend}
}

// Composition summarizes the saved edit for scoring. The duration is the
// end of the last video clip.
func (p Project) Composition() scoring.Composition {
	duration := 0.0
	for _, c := range p.Clips {
		if c.Type == clips.TypeVideo && c.End > duration {
			duration = c.End
		}
	}
	return scoring.Composition{
		Platform:    p.Platform,
		Niche:       p.Niche,
		Trend:       p.Trend,
		Duration:    duration,
		TextCount:   len(p.TextOverlays),
		EffectCount: len(p.EffectItems),
		AudioCount:  len(p.AudioTracks),
		ImageCount:  len(p.ImageOverlays),
		HasCrop:     p.CropData != nil,
		HasFilter:   p.ActiveFilter != nil,
	}
}

// Portable strips library-only fields and stamps the export date
func (p Project) Portable(now time.Time) Project {
	p.Thumbnail = ""
	p.DateCreated = ""
	p.Duration = ""
	p.VideoSrc = ""
	p.LastEdited = ""
	p.ExportDate = now.UTC().Format(time.RFC3339)
	p.Version = Version
	return p
}

// Export writes the portable project file
func Export(w io.Writer, p Project, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.Portable(now)); err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	return nil
}

// ExportFilename is the download name for a project file
func ExportFilename(title string) string {
	return util.Slug(title) + "-project.json"
}

// Decode reads a project file. Files without a title or a clips list are
// rejected; the other collections default to empty.
func Decode(r io.Reader) (Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if p.Title == "" || p.Clips == nil {
		return Project{}, ErrInvalidProject
	}
	return p, nil
}
