package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kikiluvv/slopeditor/internal/project"
	"github.com/kikiluvv/slopeditor/pkg/util"
)

func (s *Server) save(c *gin.Context) {
	var req saveRequest
	if c.Request.ContentLength != 0 && !s.bind(c, &req) {
		return
	}

	sess := current(c)
	e := sess.engine()
	if req.Title != "" {
		e.SetTitle(req.Title)
	}
	st := e.Status()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	p, err := project.Build(project.Session{
		ID:        sess.projectID,
		Title:     st.Title,
		Meta:      sess.meta,
		State:     e.State(),
		Duration:  st.Playback.Duration,
		VideoSrc:  st.Playback.Src,
		Thumbnail: s.thumbnail(c, st.Playback.Src, st.TrimStart),
	}, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.library.Upsert(p); err != nil {
		s.fail(c, err)
		return
	}
	sess.projectID = p.ID
	c.JSON(http.StatusCreated, p)
}

// thumbnail grabs a preview frame when the source is a local file and a
// prober is configured; saving never fails because of it
func (s *Server) thumbnail(c *gin.Context, src string, at float64) string {
	if s.prober == nil || !util.FileExists(src) {
		return ""
	}
	thumb, err := s.prober.Thumbnail(c.Request.Context(), src, at)
	if err != nil {
		s.logger.Warn().Err(err).Str("src", src).Msg("thumbnail failed")
		return ""
	}
	return thumb
}

func (s *Server) importProject(c *gin.Context) {
	p, err := project.Decode(c.Request.Body)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.apply(c, p, "")
}

func (s *Server) loadProject(c *gin.Context) {
	p, err := s.library.Get(c.Param("project"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.apply(c, p, p.ID)
}

func (s *Server) apply(c *gin.Context, p project.Project, projectID string) {
	sess := current(c)
	sess.engine().LoadState(p.State(), p.Title, p.VideoSrc)

	sess.mu.Lock()
	sess.meta = p.Meta()
	sess.projectID = projectID
	sess.mu.Unlock()

	s.logger.Info().Str("session", sess.id).Str("title", p.Title).Msg("project loaded")
	c.JSON(http.StatusOK, sess.engine().State())
}

func (s *Server) listLibrary(c *gin.Context) {
	list, err := s.library.List()
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []project.Project{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getLibraryProject(c *gin.Context) {
	p, err := s.library.Get(c.Param("project"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) exportLibraryProject(c *gin.Context) {
	p, err := s.library.Get(c.Param("project"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", project.ExportFilename(p.Title)))
	c.Status(http.StatusOK)
	if err := project.Export(c.Writer, p, s.now()); err != nil {
		s.logger.Error().Err(err).Str("project", p.ID).Msg("export failed")
	}
}

func (s *Server) deleteLibraryProject(c *gin.Context) {
	if err := s.library.Delete(c.Param("project")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
