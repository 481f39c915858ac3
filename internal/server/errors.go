package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kikiluvv/slopeditor/internal/editor"
	"github.com/kikiluvv/slopeditor/internal/history"
	"github.com/kikiluvv/slopeditor/internal/project"
)

var notFound = []error{
	ErrSessionNotFound,
	editor.ErrClipNotFound,
	editor.ErrOverlayNotFound,
	project.ErrNotFound,
}

var conflict = []error{
	editor.ErrNoActiveVideo,
	editor.ErrNoSelection,
	editor.ErrCutOutsideClip,
	history.ErrNothingToUndo,
	history.ErrNothingToRedo,
	project.ErrNoVideo,
}

var badRequest = []error{
	editor.ErrNotVideo,
	editor.ErrCutNotVideo,
	editor.ErrCropTooSmall,
	editor.ErrInvalidTrim,
	editor.ErrInvalidDuration,
	editor.ErrUnsupportedMedia,
	editor.ErrUnknownEffect,
	editor.ErrUnknownFilter,
	editor.ErrUnknownPreset,
	editor.ErrInvalidStyle,
	editor.ErrInvalidSize,
	project.ErrNoTitle,
	project.ErrInvalidProject,
}

func matches(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusOf maps a rejection onto an HTTP status
func statusOf(err error) int {
	switch {
	case matches(err, notFound):
		return http.StatusNotFound
	case matches(err, conflict):
		return http.StatusConflict
	case matches(err, badRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": editor.UserMessage(err)})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
