package server

import (
	"github.com/kikiluvv/slopeditor/internal/overlays"
)

type createSessionRequest struct {
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Niche    string `json:"niche"`
	Trend    string `json:"trend"`
}

type createSessionResponse struct {
	ID string `json:"id"`
}

type mediaRequest struct {
	Name     string  `json:"name"`
	Src      string  `json:"src" binding:"required"`
	Duration float64 `json:"duration" binding:"required"`
	// Import replaces the composition instead of appending
	Import bool `json:"import"`
}

type voiceRequest struct {
	Src      string  `json:"src" binding:"required"`
	Duration float64 `json:"duration" binding:"required"`
}

type imageRequest struct {
	Name            string  `json:"name"`
	Src             string  `json:"src" binding:"required"`
	MIME            string  `json:"mime" binding:"required"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	ContainerWidth  float64 `json:"containerWidth"`
	ContainerHeight float64 `json:"containerHeight"`
	TotalPages      int     `json:"totalPages"`
}

type containerRequest struct {
	ContainerWidth  float64 `json:"containerWidth"`
	ContainerHeight float64 `json:"containerHeight"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type trimRequest struct {
	Start *float64 `json:"start" binding:"required"`
	End   *float64 `json:"end" binding:"required"`
}

type cutRequest struct {
	// At defaults to the play-head
	At *float64 `json:"at"`
}

type textPatch struct {
	Text     *string            `json:"text"`
	Position *overlays.Position `json:"position"`
}

type stylePatch struct {
	Property string `json:"property"`
	Value    string `json:"value"`
	Preset   string `json:"preset"`
}

type imagePatch struct {
	Position *overlays.Position `json:"position"`
	Size     *overlays.Size     `json:"size"`
	Page     *int               `json:"page"`
}

type seekRequest struct {
	Time float64 `json:"time"`
}

type volumeRequest struct {
	Volume int `json:"volume"`
}

type saveRequest struct {
	Title string `json:"title"`
}
