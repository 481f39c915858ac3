package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kikiluvv/slopeditor/internal/clips"
	"github.com/kikiluvv/slopeditor/internal/editor"
	"github.com/kikiluvv/slopeditor/internal/history"
	"github.com/kikiluvv/slopeditor/internal/overlays"
)

const sessionKey = "session"

// RegisterRoutes mounts the editor API on g
func (s *Server) RegisterRoutes(g *gin.Engine) {
	g.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	g.GET("/catalog", s.catalog)

	g.POST("/sessions", s.createSession)

	sess := g.Group("/sessions/:id", s.loadSession)
	sess.DELETE("", s.deleteSession)
	sess.GET("/state", s.state)
	sess.GET("/status", s.status)
	sess.GET("/history", s.history)
	sess.GET("/overlays", s.overlays)
	sess.GET("/export", s.export)

	sess.POST("/video", s.addVideo)
	sess.POST("/audio", s.addAudio)
	sess.POST("/voice", s.addVoice)
	sess.POST("/image", s.addImage)
	sess.POST("/text", s.addText)
	sess.POST("/text-style", s.setTextStyle)
	sess.POST("/effects", s.applyEffect)
	sess.POST("/filter", s.applyFilter)
	sess.POST("/crop", s.applyCrop)
	sess.DELETE("/crop", s.clearCrop)

	sess.PATCH("/clips/:clip/trim", s.trimClip)
	sess.POST("/clips/:clip/cut", s.cutClip)
	sess.POST("/clips/:clip/select", s.selectClip)
	sess.POST("/clips/:clip/activate", s.activateClip)
	sess.DELETE("/clips/:clip", s.deleteClip)
	sess.PATCH("/text/:clip", s.patchText)
	sess.PATCH("/images/:clip", s.patchImage)

	sess.POST("/undo", s.undo)
	sess.POST("/redo", s.redo)
	sess.POST("/seek", s.seek)
	sess.POST("/play", s.play)
	sess.POST("/volume", s.volume)

	sess.POST("/save", s.save)
	sess.POST("/import", s.importProject)
	sess.POST("/load/:project", s.loadProject)

	g.GET("/library", s.listLibrary)
	g.GET("/library/:project", s.getLibraryProject)
	g.GET("/library/:project/export", s.exportLibraryProject)
	g.DELETE("/library/:project", s.deleteLibraryProject)
}

func (s *Server) loadSession(c *gin.Context) {
	sess, err := s.session(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func current(c *gin.Context) *session {
	return c.MustGet(sessionKey).(*session)
}

func clipID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("clip"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid clip id %q", c.Param("clip"))})
		return 0, false
	}
	return id, true
}

func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.badRequest(c, err)
		return false
	}
	return true
}

// respondClip writes the clip on success, the mapped error otherwise
func (s *Server) respondClip(c *gin.Context, clip clips.Clip, err error) {
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, clip)
}

func (s *Server) catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"effects":     overlays.Effects.Sorted(),
		"filters":     overlays.Filters.Sorted(),
		"textPresets": overlays.TextPresets.Sorted(),
	})
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength != 0 && !s.bind(c, &req) {
		return
	}
	sess := s.openSession(editor.Meta{Platform: req.Platform, Niche: req.Niche, Trend: req.Trend}, req.Title)
	c.JSON(http.StatusCreated, createSessionResponse{ID: sess.id})
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.closeSession(current(c).id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).engine().State())
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).engine().Status())
}

func (s *Server) history(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actions": current(c).engine().History()})
}

func (s *Server) overlays(c *gin.Context) {
	e := current(c).engine()
	raw := c.Query("t")
	if raw == "" {
		c.JSON(http.StatusOK, e.VisibleOverlays())
		return
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.badRequest(c, fmt.Errorf("invalid time %q", raw))
		return
	}
	c.JSON(http.StatusOK, e.OverlaysAt(t))
}

func (s *Server) addVideo(c *gin.Context) {
	var req mediaRequest
	if !s.bind(c, &req) {
		return
	}
	e := current(c).engine()
	if req.Import {
		clip, err := e.ImportVideo(req.Name, req.Src, req.Duration)
		s.respondClip(c, clip, err)
		return
	}
	clip, err := e.AddVideo(req.Name, req.Src, req.Duration)
	s.respondClip(c, clip, err)
}

func (s *Server) addAudio(c *gin.Context) {
	var req mediaRequest
	if !s.bind(c, &req) {
		return
	}
	clip, err := current(c).engine().AddAudio(req.Name, req.Src, req.Duration)
	s.respondClip(c, clip, err)
}

func (s *Server) addVoice(c *gin.Context) {
	var req voiceRequest
	if !s.bind(c, &req) {
		return
	}
	clip, err := current(c).engine().AddVoiceRecording(req.Src, req.Duration)
	s.respondClip(c, clip, err)
}

func (s *Server) addImage(c *gin.Context) {
	var req imageRequest
	if !s.bind(c, &req) {
		return
	}
	ir := editor.ImageRequest{
		Name:       req.Name,
		Src:        req.Src,
		MIME:       req.MIME,
		Container:  overlays.Size{Width: req.ContainerWidth, Height: req.ContainerHeight},
		TotalPages: req.TotalPages,
	}
	if req.Width > 0 && req.Height > 0 {
		ir.Dimensions = &overlays.Size{Width: req.Width, Height: req.Height}
	}
	clip, err := current(c).engine().AddImage(ir)
	s.respondClip(c, clip, err)
}

func (s *Server) addText(c *gin.Context) {
	var req containerRequest
	if c.Request.ContentLength != 0 && !s.bind(c, &req) {
		return
	}
	clip, err := current(c).engine().AddText(overlays.Size{Width: req.ContainerWidth, Height: req.ContainerHeight})
	s.respondClip(c, clip, err)
}

func (s *Server) setTextStyle(c *gin.Context) {
	var req stylePatch
	if !s.bind(c, &req) {
		return
	}
	e := current(c).engine()
	var err error
	if req.Preset != "" {
		err = e.ApplyTextPreset(req.Preset)
	} else {
		err = e.SetTextStyleProperty(req.Property, req.Value)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e.Status().TextStyle)
}

func (s *Server) applyEffect(c *gin.Context) {
	var req nameRequest
	if !s.bind(c, &req) {
		return
	}
	clip, err := current(c).engine().ApplyEffect(req.Name)
	s.respondClip(c, clip, err)
}

func (s *Server) applyFilter(c *gin.Context) {
	var req nameRequest
	if !s.bind(c, &req) {
		return
	}
	clip, err := current(c).engine().ApplyFilter(req.Name)
	s.respondClip(c, clip, err)
}

func (s *Server) applyCrop(c *gin.Context) {
	var req editor.CropData
	if !s.bind(c, &req) {
		return
	}
	if err := current(c).engine().ApplyCrop(req); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) clearCrop(c *gin.Context) {
	current(c).engine().ClearCrop()
	c.Status(http.StatusNoContent)
}

func (s *Server) trimClip(c *gin.Context) {
	id, ok := clipID(c)
	if !ok {
		return
	}
	var req trimRequest
	if !s.bind(c, &req) {
		return
	}
	e := current(c).engine()
	if err := e.UpdateClipTrim(id, *req.Start, *req.End); err != nil {
		s.fail(c, err)
		return
	}
	clip, _ := e.Clip(id)
	c.JSON(http.StatusOK, clip)
}

func (s *Server) cutClip(c *gin.Context) {
	id, ok := clipID(c)
	if !ok {
		return
	}
	var req cutRequest
	if c.Request.ContentLength != 0 && !s.bind(c, &req) {
		return
	}
	e := current(c).engine()
	at := e.Status().Playback.CurrentTime
	if req.At != nil {
		at = *req.At
	}
	first, second, err := e.CutClip(id, at)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, []clips.Clip{first, second})
}

func (s *Server) selectClip(c *gin.Context) {
	id, ok := clipID(c)
	if !ok {
		return
	}
	e := current(c).engine()
	if err := e.SelectClip(id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e.Status())
}

func (s *Server) activateClip(c *gin.Context) {
	id, ok := clipID(c)
	if !ok {
		return
	}
	e := current(c).engine()
	if err := e.SwitchActiveVideo(id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e.Status())
}

func (s *Server) deleteClip(c *gin.Context) {
	id, ok := clipID(c)
	if !ok {
		return
	}
	if err := current(c).engine().DeleteClip(id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) patchText(c *gin.Context) {
	id, ok := clipID(c)
	if !ok {
		return
	}
	var req textPatch
	if !s.bind(c, &req) {
		return
	}
	e := current(c).engine()
	if req.Text != nil {
		if err := e.SetTextContent(id, *req.Text); err != nil {
			s.fail(c, err)
			return
		}
	}
	if req.Position != nil {
		if err := e.SetTextPosition(id, *req.Position); err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, e.State().TextOverlays)
}

func (s *Server) patchImage(c *gin.Context) {
	id, ok := clipID(c)
	if !ok {
		return
	}
	var req imagePatch
	if !s.bind(c, &req) {
		return
	}
	e := current(c).engine()
	if req.Position != nil {
		if err := e.SetImagePosition(id, *req.Position); err != nil {
			s.fail(c, err)
			return
		}
	}
	if req.Size != nil {
		if err := e.SetImageSize(id, *req.Size); err != nil {
			s.fail(c, err)
			return
		}
	}
	if req.Page != nil {
		if _, err := e.SetPDFPage(id, *req.Page); err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, e.State().ImageOverlays)
}

// undo and redo with an empty stack are no-ops, reported as applied=false
func (s *Server) undo(c *gin.Context) {
	s.step(c, current(c).engine().Undo, history.ErrNothingToUndo)
}

func (s *Server) redo(c *gin.Context) {
	s.step(c, current(c).engine().Redo, history.ErrNothingToRedo)
}

func (s *Server) step(c *gin.Context, fn func() error, empty error) {
	err := fn()
	if err != nil && !errors.Is(err, empty) {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applied": err == nil,
		"status":  current(c).engine().Status(),
	})
}

func (s *Server) seek(c *gin.Context) {
	var req seekRequest
	if !s.bind(c, &req) {
		return
	}
	t := current(c).engine().Seek(req.Time)
	c.JSON(http.StatusOK, gin.H{"currentTime": t})
}

func (s *Server) play(c *gin.Context) {
	e := current(c).engine()
	e.TogglePlay()
	c.JSON(http.StatusOK, e.Status().Playback)
}

func (s *Server) volume(c *gin.Context) {
	var req volumeRequest
	if !s.bind(c, &req) {
		return
	}
	v := current(c).engine().SetVolume(req.Volume)
	c.JSON(http.StatusOK, gin.H{"volume": v})
}
